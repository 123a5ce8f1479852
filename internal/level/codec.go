package level

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/vovakirdan/pophale/internal/binio"
)

// ErrShortRead is returned when a level file ends before its layout does.
var ErrShortRead = binio.ErrShortRead

// ErrGridShape is returned when Grid does not hold Height rows of Width cells.
var ErrGridShape = errors.New("level: grid does not match width and height")

// Report carries facts about a decode that the model itself cannot hold.
type Report struct {
	Size            int64 // bytes consumed
	ReservedNonZero bool  // a reserved marker was not 00 00; re-encode will differ
	TextTruncated   bool  // text bytes beyond the slot capacity were dropped
}

// segment is one step of the file layout.
type segment struct {
	name   string
	decode func(r *binio.Reader, l *Level, rep *Report) error
	encode func(w *binio.Writer, l *Level) error
}

var layout = []segment{
	{"grid", decodeGrid, encodeGrid},
	familySegment(unknownFamily),
	reservedSegment("first reserved marker"),
	familySegment(frontTypeFamily),
	familySegment(families[KindFront]),
	pointSegment("prince", func(l *Level) *Point { return &l.Prince }),
	pointSegment("exit trigger", func(l *Level) *Point { return &l.ExitTrigger }),
	pointSegment("save trigger", func(l *Level) *Point { return &l.SaveTrigger }),
	pointSegment("entrance image", func(l *Level) *Point { return &l.EntranceImage }),
	pointSegment("exit image", func(l *Level) *Point { return &l.ExitImage }),
	familySegment(families[KindChomper]),
	familySegment(families[KindSpike]),
	familySegment(families[KindGate]),
	familySegment(families[KindRaise]),
	familySegment(families[KindGuard]),
	familySegment(families[KindPotion]),
	familySegment(families[KindLoose]),
	reservedSegment("second reserved marker"),
	{"text", decodeTextSegment, encodeTextSegment},
}

func familySegment(f family) segment {
	return segment{
		name:   f.name + " records",
		decode: func(r *binio.Reader, l *Level, _ *Report) error { return f.decode(r, l) },
		encode: f.encode,
	}
}

func pointSegment(name string, field func(l *Level) *Point) segment {
	return segment{
		name: name,
		decode: func(r *binio.Reader, l *Level, _ *Report) error {
			return readFields(r, field(l).fields())
		},
		encode: func(w *binio.Writer, l *Level) error {
			return writeFields(w, field(l).fields())
		},
	}
}

func reservedSegment(name string) segment {
	return segment{
		name: name,
		decode: func(r *binio.Reader, _ *Level, rep *Report) error {
			v, err := r.Uint16()
			if err != nil {
				return err
			}
			if v != 0 {
				rep.ReservedNonZero = true
			}
			return nil
		},
		encode: func(w *binio.Writer, _ *Level) error {
			return w.Zeros(2)
		},
	}
}

func decodeGrid(r *binio.Reader, l *Level, _ *Report) error {
	var err error
	if l.Width, err = r.Uint8(); err != nil {
		return fmt.Errorf("width: %w", err)
	}
	if l.Height, err = r.Uint8(); err != nil {
		return fmt.Errorf("height: %w", err)
	}
	l.Grid = make([][]uint8, l.Height)
	for y := range l.Grid {
		row, err := r.Bytes(int(l.Width))
		if err != nil {
			return fmt.Errorf("row %d: %w", y+1, err)
		}
		l.Grid[y] = row
	}
	return nil
}

func encodeGrid(w *binio.Writer, l *Level) error {
	if len(l.Grid) != int(l.Height) {
		return fmt.Errorf("%w: %d rows, height %d", ErrGridShape, len(l.Grid), l.Height)
	}
	w.Uint8(l.Width)
	w.Uint8(l.Height)
	for y, row := range l.Grid {
		if len(row) != int(l.Width) {
			return fmt.Errorf("%w: row %d has %d cells, width %d", ErrGridShape, y+1, len(row), l.Width)
		}
		w.Bytes(row)
	}
	return w.Err()
}

func decodeTextSegment(r *binio.Reader, l *Level, rep *Report) error {
	n, err := r.Uint16()
	if err != nil {
		return fmt.Errorf("length: %w", err)
	}
	data, err := r.Bytes(int(n))
	if err != nil {
		return err
	}
	l.Text, rep.TextTruncated = DecodeText(data)
	return nil
}

func encodeTextSegment(w *binio.Writer, l *Level) error {
	data := l.Text.Encode()
	if len(data) > math.MaxUint16 {
		return fmt.Errorf("level: text segment is %d bytes", len(data))
	}
	w.Uint16(uint16(len(data)))
	w.Bytes(data)
	return w.Err()
}

// Decode reads one level file. Any short read is fatal.
func Decode(r io.Reader) (*Level, error) {
	l, _, err := DecodeReport(r)
	return l, err
}

// DecodeReport is Decode that also returns the Report.
func DecodeReport(r io.Reader) (*Level, Report, error) {
	br := binio.NewReader(r)
	l := &Level{}
	var rep Report
	for _, seg := range layout {
		if err := seg.decode(br, l, &rep); err != nil {
			return nil, rep, fmt.Errorf("level: decode %s: %w", seg.name, err)
		}
	}
	rep.Size = br.Offset()
	return l, rep, nil
}

// Encode writes l in file layout. Record counts and the text length are
// taken from the current model; reserved markers are always 00 00.
func Encode(w io.Writer, l *Level) error {
	bw := binio.NewWriter(w)
	for _, seg := range layout {
		if err := seg.encode(bw, l); err != nil {
			return fmt.Errorf("level: encode %s: %w", seg.name, err)
		}
	}
	return nil
}

// Marshal encodes l into memory.
func Marshal(l *Level) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, l); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a complete level file held in memory.
func Unmarshal(data []byte) (*Level, error) {
	return Decode(bytes.NewReader(data))
}
