package binio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrShortWrite is returned when the destination accepted fewer bytes than
// a field needs.
var ErrShortWrite = errors.New("binio: short write")

// Writer writes little-endian fields. The first error is sticky: later
// writes are no-ops and Err reports it, so callers can emit a whole record
// and check once.
type Writer struct {
	w   io.Writer
	n   int64
	err error
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first write error, if any.
func (w *Writer) Err() error {
	return w.err
}

// Bytes writes b verbatim.
func (w *Writer) Bytes(b []byte) error {
	if w.err != nil {
		return w.err
	}
	n, err := w.w.Write(b)
	w.n += int64(n)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	if err != nil {
		w.err = fmt.Errorf("%w at offset %d: %v", ErrShortWrite, w.n, err)
	}
	return w.err
}

// Uint8 writes one byte.
func (w *Writer) Uint8(v uint8) error {
	return w.Bytes([]byte{v})
}

// Uint16 writes a two-byte little-endian word.
func (w *Writer) Uint16(v uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	return w.Bytes(buf[:])
}

// Zeros writes n zero bytes.
func (w *Writer) Zeros(n int) error {
	return w.Bytes(make([]byte, n))
}
