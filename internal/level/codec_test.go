package level

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

// minimalLevel is the smallest level the game accepts: a 2x1 floor, the
// prince at (16,24) and one spike, gate and potion at the origin.
func minimalLevel() []byte {
	return []byte{
		0x02, 0x01, // width, height
		0x04, 0x04, // grid
		0x00, 0x00, // unknown records
		0x00, 0x00, // reserved
		0x00, 0x00, // front types
		0x00, 0x00, // fronts
		0x10, 0x00, 0x18, 0x00, // prince
		0x00, 0x00, 0x00, 0x00, // exit trigger
		0x00, 0x00, 0x00, 0x00, // save trigger
		0x00, 0x00, 0x00, 0x00, // entrance image
		0x00, 0x00, 0x00, 0x00, // exit image
		0x00, 0x00, // chompers
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // spikes
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // gates
		0x00, 0x00, // raise
		0x00, 0x00, // guards
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // potions
		0x00, 0x00, // loose
		0x00, 0x00, // reserved
		0x00, 0x00, // text length
	}
}

// richLevel uses every family with values near the top of their ranges.
func richLevel() *Level {
	l := New(3, 2)
	l.Grid[0] = []uint8{0x01, 0x02, 0xFF}
	l.Grid[1] = []uint8{0x04, 0x00, 0x35}
	l.Unknown = []UnknownRecord{{1, 2, 3, 4}, {0xFF, 0, 0x7F, 9}}
	l.FrontTypes = []FrontType{{1, 0, FrontTorch}, {1, 0, FrontPillar}}
	l.Fronts = []Front{{X: 40, Y: 45, Type: 1, A: 2, B: 3}, {X: 0xFFFF, Y: 1, Type: 0}}
	l.Prince = Point{100, 43}
	l.ExitTrigger = Point{200, 42}
	l.SaveTrigger = Point{7, 19}
	l.EntranceImage = Point{1, 9}
	l.ExitImage = Point{2, 33}
	l.Chompers = []Chomper{{X: 10, Y: 22, A: 1}}
	l.Spikes = []Spike{{X: 9, Y: 24, FacingRight: 1}, {X: 25, Y: 48}}
	l.Gates = []Gate{{X: 6, Y: 22, TimeOpen: 60}}
	l.Raises = []Raise{{Gate: 0, X: 15, Y: 24}}
	l.Guards = []Guard{{X: 300, Y: 42, Dir: 1, HP: 3, B: 5, D: 6, F: 8}}
	l.Potions = []Potion{{Type: 0, X: 13, Y: 18}, {Type: 3, X: 8, Y: 22}}
	l.Loose = []Loose{{X: 12, Y: 25}}
	l.Text = Text{"YOU ARE NOT ALONE.", "FIND THE DOOR!", "IT'S LOCKED"}
	return l
}

func TestDecodeMinimalLevel(t *testing.T) {
	data := minimalLevel()
	if len(data) != 66 {
		t.Fatalf("fixture is %d bytes, expected 66", len(data))
	}

	l, rep, err := DecodeReport(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeReport failed: %v", err)
	}

	expected := &Level{
		Width:   2,
		Height:  1,
		Grid:    [][]uint8{{0x04, 0x04}},
		Prince:  Point{X: 16, Y: 24},
		Spikes:  []Spike{{}},
		Gates:   []Gate{{}},
		Potions: []Potion{{}},
	}
	if !reflect.DeepEqual(l, expected) {
		t.Errorf("decoded %+v\nexpected %+v", l, expected)
	}
	if rep.Size != 66 {
		t.Errorf("Report.Size = %d, expected 66", rep.Size)
	}
	if rep.ReservedNonZero || rep.TextTruncated {
		t.Errorf("unexpected report flags: %+v", rep)
	}

	cur := InitialCursor(l)
	if cur != (Cursor{Column: 2, Row: 1}) {
		t.Errorf("InitialCursor = %+v, expected column 2 row 1", cur)
	}

	out, err := Marshal(l)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Errorf("re-encoded\n% x\nexpected\n% x", out, data)
	}
}

func TestRoundTrip(t *testing.T) {
	l := richLevel()

	data, err := Marshal(l)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(got, l) {
		t.Errorf("round trip changed the level:\ngot      %+v\nexpected %+v", got, l)
	}

	again, err := Marshal(got)
	if err != nil {
		t.Fatalf("second Marshal failed: %v", err)
	}
	if !bytes.Equal(again, data) {
		t.Error("re-encoding a decoded level is not byte-identical")
	}
}

func TestEncodeRecomputesTextLength(t *testing.T) {
	l, err := Unmarshal(minimalLevel())
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	l.Text = Text{"AB", "", "C"}

	data, err := Marshal(l)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	tail := data[len(data)-7:]
	expected := []byte{0x05, 0x00, 'A', 'B', TextSep, 'C', TextSep}
	if !bytes.Equal(tail, expected) {
		t.Errorf("text segment = % x, expected % x", tail, expected)
	}
}

func TestReservedMarkersAreRewrittenAsZero(t *testing.T) {
	data := minimalLevel()
	data[6], data[7] = 0xAA, 0x01
	data[62] = 0x05

	l, rep, err := DecodeReport(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeReport failed: %v", err)
	}
	if !rep.ReservedNonZero {
		t.Error("expected ReservedNonZero")
	}

	out, err := Marshal(l)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !bytes.Equal(out, minimalLevel()) {
		t.Errorf("re-encoded\n% x\nexpected zero markers\n% x", out, minimalLevel())
	}
}

func TestDecodeShortReadIsFatal(t *testing.T) {
	data := minimalLevel()
	for n := 0; n < len(data); n++ {
		l, err := Unmarshal(data[:n])
		if !errors.Is(err, ErrShortRead) {
			t.Fatalf("truncated to %d bytes: expected ErrShortRead, got %v", n, err)
		}
		if l != nil {
			t.Fatalf("truncated to %d bytes: expected nil level", n)
		}
	}
}

func TestDecodeShortTextBlob(t *testing.T) {
	data := minimalLevel()
	data[64] = 0x04 // claims four text bytes, none follow
	data = append(data, 'A', 'B')

	if _, err := Unmarshal(data); !errors.Is(err, ErrShortRead) {
		t.Errorf("expected ErrShortRead, got %v", err)
	}
}

func TestEncodeRejectsBadGrid(t *testing.T) {
	tests := []struct {
		name string
		edit func(l *Level)
	}{
		{"missing row", func(l *Level) { l.Grid = l.Grid[:1] }},
		{"short row", func(l *Level) { l.Grid[1] = l.Grid[1][:2] }},
		{"width mismatch", func(l *Level) { l.Width = 4 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := richLevel()
			tc.edit(l)
			if _, err := Marshal(l); !errors.Is(err, ErrGridShape) {
				t.Errorf("expected ErrGridShape, got %v", err)
			}
		})
	}
}

func TestInitialCursor(t *testing.T) {
	tests := []struct {
		name     string
		prince   Point
		w, h     uint8
		expected Cursor
	}{
		{"origin", Point{0, 0}, 10, 10, Cursor{1, 1}},
		{"truncates", Point{31, 47}, 10, 10, Cursor{2, 2}},
		{"exact cell", Point{32, 48}, 10, 10, Cursor{3, 3}},
		{"clamped to grid", Point{1000, 1000}, 4, 3, Cursor{4, 3}},
		{"empty grid", Point{50, 50}, 0, 0, Cursor{1, 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := New(tc.w, tc.h)
			l.Prince = tc.prince
			if got := InitialCursor(l); got != tc.expected {
				t.Errorf("InitialCursor = %+v, expected %+v", got, tc.expected)
			}
		})
	}
}
