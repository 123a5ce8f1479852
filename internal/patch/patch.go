// Package patch reads and writes the single-byte gameplay settings stored
// at fixed offsets inside the game's main class file.
//
// Offsets only hold for one build of the game, so they come from a Profile
// rather than constants. The file size is checked against the profile
// before any byte is touched.
package patch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var (
	// ErrFileTooSmall is returned when the patch file cannot hold the profile's offsets.
	ErrFileTooSmall = errors.New("patch: file too small for profile")
	// ErrUnknownSetting is returned for a setting name the profile lacks.
	ErrUnknownSetting = errors.New("patch: unknown setting")
	// ErrOutOfRange is returned when a value lies outside a setting's range.
	ErrOutOfRange = errors.New("patch: value out of range")
)

// Setting is one patchable byte.
type Setting struct {
	Name   string           `yaml:"name"`
	Title  string           `yaml:"title"`
	Offset int64            `yaml:"offset"`
	Min    uint8            `yaml:"min"`
	Max    uint8            `yaml:"max"`
	Labels map[uint8]string `yaml:"labels,omitempty"`
}

// Label describes value v, or returns "unknown".
func (s Setting) Label(v uint8) string {
	if l, ok := s.Labels[v]; ok {
		return l
	}
	return "unknown"
}

// Check reports whether v is within the setting's range.
func (s Setting) Check(v uint8) error {
	if v < s.Min || v > s.Max {
		return fmt.Errorf("%w: %s must be %d..%d, got %d", ErrOutOfRange, s.Name, s.Min, s.Max, v)
	}
	return nil
}

// Profile describes the patchable bytes of one game build.
type Profile struct {
	Build    string    `yaml:"build"`
	File     string    `yaml:"file"`     // relative to the scratch root
	MinSize  int64     `yaml:"min_size"` // smallest acceptable file size
	Settings []Setting `yaml:"settings"`
}

// DefaultProfile is the 176x208 build without the Nokia UI API.
func DefaultProfile() Profile {
	return Profile{
		Build:   "176x208",
		File:    "F.class",
		MinSize: 0x5AFB,
		Settings: []Setting{
			{
				Name:   "menu",
				Title:  "Main menu initial selection",
				Offset: 0x4ED6,
				Min:    1,
				Max:    8,
				Labels: map[uint8]string{
					1: "Controls [buggy]",
					2: "Continue [buggy]",
					3: "New Game",
					4: "Exit",
					5: "Vibration",
					6: "Sound",
					7: "Tips",
					8: "About",
				},
			},
			{
				Name:   "font",
				Title:  "Cutscenes, font emphasis",
				Offset: 0x5AFA,
				Min:    2,
				Max:    8,
				Labels: map[uint8]string{
					2: "bold, italic, underline",
					3: "(none)",
					4: "bold",
					5: "italic",
					6: "bold, italic",
					7: "underline",
					8: "bold, underline",
				},
			},
			{
				Name:   "lines",
				Title:  "Cutscenes, text lines",
				Offset: 0x5AE6,
				Min:    2,
				Max:    5,
				Labels: map[uint8]string{
					2: "four lines",
					3: "three lines",
					4: "two lines",
					5: "one line",
				},
			},
		},
	}
}

// Validate checks that the profile is self-consistent.
func (p Profile) Validate() error {
	if p.File == "" {
		return errors.New("patch: profile has no file")
	}
	if !filepath.IsLocal(filepath.FromSlash(p.File)) {
		return fmt.Errorf("patch: profile file %q is not a relative path", p.File)
	}
	seen := make(map[string]bool)
	for _, s := range p.Settings {
		if s.Name == "" {
			return errors.New("patch: setting without a name")
		}
		if seen[s.Name] {
			return fmt.Errorf("patch: duplicate setting %q", s.Name)
		}
		seen[s.Name] = true
		if s.Min > s.Max {
			return fmt.Errorf("patch: setting %s has min %d > max %d", s.Name, s.Min, s.Max)
		}
		if s.Offset < 0 || s.Offset >= p.MinSize {
			return fmt.Errorf("patch: setting %s offset %#x outside min size %#x", s.Name, s.Offset, p.MinSize)
		}
	}
	return nil
}

// Setting returns the named setting.
func (p Profile) Setting(name string) (Setting, error) {
	i := slices.IndexFunc(p.Settings, func(s Setting) bool { return strings.EqualFold(s.Name, name) })
	if i < 0 {
		return Setting{}, fmt.Errorf("%w: %q", ErrUnknownSetting, name)
	}
	return p.Settings[i], nil
}

// Names lists the setting names in profile order.
func (p Profile) Names() []string {
	names := make([]string, len(p.Settings))
	for i, s := range p.Settings {
		names[i] = s.Name
	}
	return names
}

// Path returns the patch file location under root.
func (p Profile) Path(root string) string {
	return filepath.Join(root, filepath.FromSlash(p.File))
}

func (p Profile) open(root string, flag int) (*os.File, error) {
	path := p.Path(root)
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("patch: cannot open %s: %w", path, err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("patch: cannot stat %s: %w", path, err)
	}
	if fi.Size() < p.MinSize {
		f.Close()
		return nil, fmt.Errorf("%w: %s is %d bytes, build %s needs %d", ErrFileTooSmall, path, fi.Size(), p.Build, p.MinSize)
	}
	return f, nil
}

// Read returns the byte of the named setting.
func Read(root string, p Profile, name string) (uint8, error) {
	s, err := p.Setting(name)
	if err != nil {
		return 0, err
	}
	f, err := p.open(root, os.O_RDONLY)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var b [1]byte
	if _, err := f.ReadAt(b[:], s.Offset); err != nil {
		return 0, fmt.Errorf("patch: read %s at %#x: %w", s.Name, s.Offset, err)
	}
	return b[0], nil
}

// ReadAll returns every setting's byte, opening the file once.
func ReadAll(root string, p Profile) (map[string]uint8, error) {
	f, err := p.open(root, os.O_RDONLY)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := make(map[string]uint8, len(p.Settings))
	for _, s := range p.Settings {
		var b [1]byte
		if _, err := f.ReadAt(b[:], s.Offset); err != nil {
			return nil, fmt.Errorf("patch: read %s at %#x: %w", s.Name, s.Offset, err)
		}
		out[s.Name] = b[0]
	}
	return out, nil
}

// Write stores v as the named setting after checking its range. The file
// is synced before Write returns.
func Write(root string, p Profile, name string, v uint8) error {
	s, err := p.Setting(name)
	if err != nil {
		return err
	}
	if err := s.Check(v); err != nil {
		return err
	}
	f, err := p.open(root, os.O_WRONLY)
	if err != nil {
		return err
	}

	if _, err := f.WriteAt([]byte{v}, s.Offset); err != nil {
		f.Close()
		return fmt.Errorf("patch: write %s at %#x: %w", s.Name, s.Offset, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("patch: sync %s: %w", f.Name(), err)
	}
	return f.Close()
}
