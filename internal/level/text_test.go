package level

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		lines     []string
		truncated bool
	}{
		{"empty", "", nil, false},
		{"trailing separators", `ONE\TWO\`, []string{"ONE", "TWO"}, false},
		{"final line without separator", `ONE\TWO`, []string{"ONE", "TWO"}, false},
		{"empty slot in between", `ONE\\THREE\`, []string{"ONE", "THREE"}, false},
		{"too many lines", strings.Repeat(`X\`, 13), []string{"X", "X", "X", "X", "X", "X", "X", "X", "X", "X", "X", "X"}, true},
		{"line too long", strings.Repeat("A", 30) + `\`, []string{strings.Repeat("A", 23)}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			text, truncated := DecodeText([]byte(tc.data))
			if got := text.Lines(); !reflect.DeepEqual(got, tc.lines) {
				t.Errorf("Lines() = %q, expected %q", got, tc.lines)
			}
			if truncated != tc.truncated {
				t.Errorf("truncated = %v, expected %v", truncated, tc.truncated)
			}
		})
	}
}

func TestDecodeTextKeepsSlotPositions(t *testing.T) {
	text, _ := DecodeText([]byte(`A\\C`))
	expected := Text{"A", "", "C"}
	if text != expected {
		t.Errorf("DecodeText = %q, expected %q", text, expected)
	}
}

func TestTextEmptySlotsEncodeAway(t *testing.T) {
	text, _ := DecodeText([]byte(`A\\C`))

	again, _ := DecodeText(text.Encode())
	if again != text.Compact() {
		t.Errorf("decode(encode) = %q, expected the compact form %q", again, text.Compact())
	}
	if expected := (Text{"A", "C"}); text.Compact() != expected {
		t.Errorf("Compact() = %q, expected %q", text.Compact(), expected)
	}
	if !bytes.Equal(text.Encode(), text.Compact().Encode()) {
		t.Error("compacting changed the encoded bytes")
	}

	fromLines, err := TextFromLines([]string{"A", "", "C"})
	if err != nil {
		t.Fatalf("TextFromLines failed: %v", err)
	}
	if fromLines != text.Compact() {
		t.Errorf("TextFromLines = %q, expected %q", fromLines, text.Compact())
	}
}

func TestTextEncode(t *testing.T) {
	text := Text{"", "HI", "", "THERE!"}

	got := text.Encode()
	expected := []byte(`HI\THERE!\`)
	if !bytes.Equal(got, expected) {
		t.Errorf("Encode() = %q, expected %q", got, expected)
	}
	if text.EncodedLen() != len(expected) {
		t.Errorf("EncodedLen() = %d, expected %d", text.EncodedLen(), len(expected))
	}
	if n := (Text{}).EncodedLen(); n != 0 {
		t.Errorf("empty text EncodedLen() = %d, expected 0", n)
	}
}

func TestTextIdempotence(t *testing.T) {
	cases := [][]string{
		{"WELCOME."},
		{"THE GRAND VIZIER", "HAS TAKEN", "THE PALACE!"},
		{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"},
		{strings.Repeat("Z", MaxLineChars), "it's fine"},
	}

	for _, lines := range cases {
		text, err := TextFromLines(lines)
		if err != nil {
			t.Fatalf("TextFromLines(%q) failed: %v", lines, err)
		}
		decoded, truncated := DecodeText(text.Encode())
		if truncated {
			t.Errorf("%q: unexpected truncation", lines)
		}
		if got := decoded.Lines(); !reflect.DeepEqual(got, lines) {
			t.Errorf("decode(encode(%q)) = %q", lines, got)
		}
	}
}

func TestTextFromLinesRejects(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		expected error
	}{
		{"thirteen lines", make([]string, 13), ErrTooManyLines},
		{"long line", []string{strings.Repeat("A", MaxLineChars+1)}, ErrLineTooLong},
		{"digit", []string{"LEVEL 2"}, ErrBadTextChar},
		{"separator", []string{`A\B`}, ErrBadTextChar},
		{"comma", []string{"YES, SIR"}, ErrBadTextChar},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := TextFromLines(tc.lines); !errors.Is(err, tc.expected) {
				t.Errorf("expected %v, got %v", tc.expected, err)
			}
		})
	}
}
