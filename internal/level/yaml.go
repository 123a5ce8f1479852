package level

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"gopkg.in/yaml.v3"
)

// YAMLLevel is the editable text form of a level. Field order follows the
// binary layout.
type YAMLLevel struct {
	Size       YAMLSize        `yaml:"size"`
	Grid       []string        `yaml:"grid"` // one row per entry, hex tile codes separated by spaces
	Unknown    []UnknownRecord `yaml:"unknown,omitempty"`
	FrontTypes []FrontType     `yaml:"front_types,omitempty"`
	Fronts     []Front         `yaml:"fronts,omitempty"`
	Markers    YAMLMarkers     `yaml:"markers"`
	Chompers   []Chomper       `yaml:"chompers,omitempty"`
	Spikes     []Spike         `yaml:"spikes,omitempty"`
	Gates      []Gate          `yaml:"gates,omitempty"`
	Raises     []Raise         `yaml:"raises,omitempty"`
	Guards     []Guard         `yaml:"guards,omitempty"`
	Potions    []Potion        `yaml:"potions,omitempty"`
	Loose      []Loose         `yaml:"loose,omitempty"`
	Text       []string        `yaml:"text,omitempty"`
}

// YAMLSize represents grid dimensions in cells.
type YAMLSize struct {
	W uint8 `yaml:"w"`
	H uint8 `yaml:"h"`
}

// YAMLMarkers holds the five single-instance points.
type YAMLMarkers struct {
	Prince        Point `yaml:"prince"`
	ExitTrigger   Point `yaml:"exit_trigger"`
	SaveTrigger   Point `yaml:"save_trigger"`
	EntranceImage Point `yaml:"entrance_image"`
	ExitImage     Point `yaml:"exit_image"`
}

// MarshalYAML renders l as YAML. Text bytes are read as ISO-8859-1.
func MarshalYAML(l *Level) ([]byte, error) {
	yl := YAMLLevel{
		Size:       YAMLSize{W: l.Width, H: l.Height},
		Unknown:    l.Unknown,
		FrontTypes: l.FrontTypes,
		Fronts:     l.Fronts,
		Markers: YAMLMarkers{
			Prince:        l.Prince,
			ExitTrigger:   l.ExitTrigger,
			SaveTrigger:   l.SaveTrigger,
			EntranceImage: l.EntranceImage,
			ExitImage:     l.ExitImage,
		},
		Chompers: l.Chompers,
		Spikes:   l.Spikes,
		Gates:    l.Gates,
		Raises:   l.Raises,
		Guards:   l.Guards,
		Potions:  l.Potions,
		Loose:    l.Loose,
	}
	for _, row := range l.Grid {
		yl.Grid = append(yl.Grid, formatRow(row))
	}

	for _, line := range l.Text.Lines() {
		s, err := DisplayLine(line)
		if err != nil {
			return nil, err
		}
		yl.Text = append(yl.Text, s)
	}

	data, err := yaml.Marshal(&yl)
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return data, nil
}

// ParseYAML builds a level from its YAML form. The grid must match the
// declared size and text must be representable in ISO-8859-1. Empty text
// lines are dropped.
func ParseYAML(data []byte) (*Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}

	l := &Level{
		Width:         yl.Size.W,
		Height:        yl.Size.H,
		Unknown:       yl.Unknown,
		FrontTypes:    yl.FrontTypes,
		Fronts:        yl.Fronts,
		Prince:        yl.Markers.Prince,
		ExitTrigger:   yl.Markers.ExitTrigger,
		SaveTrigger:   yl.Markers.SaveTrigger,
		EntranceImage: yl.Markers.EntranceImage,
		ExitImage:     yl.Markers.ExitImage,
		Chompers:      yl.Chompers,
		Spikes:        yl.Spikes,
		Gates:         yl.Gates,
		Raises:        yl.Raises,
		Guards:        yl.Guards,
		Potions:       yl.Potions,
		Loose:         yl.Loose,
	}

	if len(yl.Grid) != int(l.Height) {
		return nil, fmt.Errorf("%w: %d rows, height %d", ErrGridShape, len(yl.Grid), l.Height)
	}
	l.Grid = make([][]uint8, l.Height)
	for y, s := range yl.Grid {
		row, err := parseRow(s)
		if err != nil {
			return nil, fmt.Errorf("level: grid row %d: %w", y+1, err)
		}
		if len(row) != int(l.Width) {
			return nil, fmt.Errorf("%w: row %d has %d cells, width %d", ErrGridShape, y+1, len(row), l.Width)
		}
		l.Grid[y] = row
	}

	if len(yl.Text) > MaxTextLines {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyLines, len(yl.Text), MaxTextLines)
	}
	enc := charmap.ISO8859_1.NewEncoder()
	for i, s := range yl.Text {
		raw, err := enc.String(s)
		if err != nil {
			return nil, fmt.Errorf("level: text line %d: %w", i+1, err)
		}
		if strings.IndexByte(raw, TextSep) >= 0 {
			return nil, fmt.Errorf("level: text line %d contains a line separator", i+1)
		}
		l.Text[i] = raw
	}
	l.Text = l.Text.Compact()
	return l, nil
}

func formatRow(row []uint8) string {
	var b strings.Builder
	for i, c := range row {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02X", c)
	}
	return b.String()
}

func parseRow(s string) ([]uint8, error) {
	fields := strings.Fields(s)
	row := make([]uint8, 0, len(fields))
	for _, f := range fields {
		b, err := hex.DecodeString(f)
		if err != nil || len(b) != 1 {
			return nil, fmt.Errorf("bad tile code %q", f)
		}
		row = append(row, b[0])
	}
	return row, nil
}

// DisplayLine converts one stored text line from ISO-8859-1 to UTF-8.
func DisplayLine(line string) (string, error) {
	s, err := charmap.ISO8859_1.NewDecoder().String(line)
	if err != nil {
		return "", fmt.Errorf("level: text %q: %w", line, err)
	}
	return s, nil
}
