// Package binio provides the little-endian primitives the level format is
// built on: fixed-width unsigned integers and raw byte runs over a
// sequential byte stream.
package binio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrShortRead is returned when the stream ends before a requested field.
var ErrShortRead = errors.New("binio: short read")

// Reader reads little-endian fields from a byte stream and tracks the
// offset of the next unread byte.
type Reader struct {
	r   *bufio.Reader
	off int64
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int64 {
	return r.off
}

// Bytes reads exactly n raw bytes.
func (r *Reader) Bytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	got, err := io.ReadFull(r.r, buf)
	r.off += int64(got)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return buf[:got], fmt.Errorf("%w: wanted %d bytes at offset %d, got %d",
				ErrShortRead, n, r.off-int64(got), got)
		}
		return buf[:got], err
	}
	return buf, nil
}

// Uint8 reads one byte.
func (r *Reader) Uint8() (uint8, error) {
	b, err := r.Bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Uint16 reads a two-byte little-endian word.
func (r *Reader) Uint16() (uint16, error) {
	b, err := r.Bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}
