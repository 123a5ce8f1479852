package level

import (
	"errors"
	"fmt"
	"strings"
)

// Text segment limits.
const (
	MaxTextLines = 12
	MaxLineChars = 22 // longest line the editor lets a user type
	TextSep      = 0x5C

	storedLineChars = 23 // decode keeps at most this many bytes per line
)

var (
	ErrTooManyLines = errors.New("level: too many text lines")
	ErrLineTooLong  = errors.New("level: text line too long")
	ErrBadTextChar  = errors.New("level: character not allowed in text")
)

// Text is the fixed set of line slots shown on the level's intro screen.
// Each slot holds the raw bytes of one line. Empty slots carry no data:
// Encode skips them, so a decoded "A\\C" encodes back as "A\C\". Texts
// with the same Lines are the same text; Compact gives the canonical form,
// which import paths produce.
type Text [MaxTextLines]string

// Compact moves the nonempty lines to the leading slots, keeping order.
func (t Text) Compact() Text {
	var out Text
	i := 0
	for _, line := range t {
		if line != "" {
			out[i] = line
			i++
		}
	}
	return out
}

// DecodeText splits a raw text segment into line slots at each 0x5C byte.
// A final run without a trailing separator still becomes a line. Bytes past
// the slot or line capacity are dropped and reported via truncated.
func DecodeText(data []byte) (t Text, truncated bool) {
	var lines [MaxTextLines][]byte
	slot := 0
	for _, b := range data {
		if b == TextSep {
			slot++
			continue
		}
		if slot >= MaxTextLines || len(lines[slot]) >= storedLineChars {
			truncated = true
			continue
		}
		lines[slot] = append(lines[slot], b)
	}
	for i := range lines {
		t[i] = string(lines[i])
	}
	return t, truncated
}

// Encode emits every nonempty slot followed by one separator.
func (t Text) Encode() []byte {
	out := make([]byte, 0, t.EncodedLen())
	for _, line := range t {
		if line == "" {
			continue
		}
		out = append(out, line...)
		out = append(out, TextSep)
	}
	return out
}

// EncodedLen is the byte length Encode produces.
func (t Text) EncodedLen() int {
	n := 0
	for _, line := range t {
		if line != "" {
			n += len(line) + 1
		}
	}
	return n
}

// Lines returns the nonempty lines in slot order.
func (t Text) Lines() []string {
	var out []string
	for _, line := range t {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// TextFromLines fills slots from lines in order, validating each. Empty
// lines are dropped, so the result is compact.
func TextFromLines(lines []string) (Text, error) {
	var t Text
	if len(lines) > MaxTextLines {
		return t, fmt.Errorf("%w: %d > %d", ErrTooManyLines, len(lines), MaxTextLines)
	}
	for i, line := range lines {
		if err := ValidateLine(line); err != nil {
			return t, fmt.Errorf("line %d: %w", i+1, err)
		}
		t[i] = line
	}
	return t.Compact(), nil
}

// ValidateLine checks a line against the editor's length cap and charset:
// ASCII letters, space, apostrophe, exclamation mark and period.
func ValidateLine(line string) error {
	if len(line) > MaxLineChars {
		return fmt.Errorf("%w: %d > %d", ErrLineTooLong, len(line), MaxLineChars)
	}
	if i := strings.IndexFunc(line, func(r rune) bool { return !isTextChar(r) }); i >= 0 {
		return fmt.Errorf("%w: %q", ErrBadTextChar, line[i])
	}
	return nil
}

func isTextChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r == ' ', r == '\'', r == '!', r == '.':
		return true
	}
	return false
}
