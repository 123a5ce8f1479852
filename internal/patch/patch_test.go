package patch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// classFile writes a zero-filled class file of the given size under a temp
// root and returns the root.
func classFile(t *testing.T, size int) string {
	t.Helper()
	root := t.TempDir()
	data := make([]byte, size)
	if size > 0x5AFA {
		data[0x4ED6] = 3
		data[0x5AFA] = 4
		data[0x5AE6] = 2
	}
	if err := os.WriteFile(filepath.Join(root, "F.class"), data, 0o644); err != nil {
		t.Fatalf("cannot write class file: %v", err)
	}
	return root
}

func TestDefaultProfileIsValid(t *testing.T) {
	if err := DefaultProfile().Validate(); err != nil {
		t.Fatalf("default profile invalid: %v", err)
	}
}

func TestRead(t *testing.T) {
	root := classFile(t, 0x6000)
	p := DefaultProfile()

	tests := []struct {
		name     string
		expected uint8
		label    string
	}{
		{"menu", 3, "New Game"},
		{"font", 4, "bold"},
		{"lines", 2, "four lines"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := Read(root, p, tc.name)
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			if v != tc.expected {
				t.Errorf("Read(%s) = %d, expected %d", tc.name, v, tc.expected)
			}
			s, _ := p.Setting(tc.name)
			if s.Label(v) != tc.label {
				t.Errorf("Label(%d) = %q, expected %q", v, s.Label(v), tc.label)
			}
		})
	}

	all, err := ReadAll(root, p)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if all["menu"] != 3 || all["font"] != 4 || all["lines"] != 2 {
		t.Errorf("ReadAll = %v", all)
	}
}

func TestWrite(t *testing.T) {
	root := classFile(t, 0x6000)
	p := DefaultProfile()

	if err := Write(root, p, "lines", 5); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "F.class"))
	if err != nil {
		t.Fatal(err)
	}
	if data[0x5AE6] != 5 {
		t.Errorf("byte at 0x5AE6 = %d, expected 5", data[0x5AE6])
	}
	if len(data) != 0x6000 {
		t.Errorf("file size changed to %d", len(data))
	}
	if data[0x4ED6] != 3 || data[0x5AFA] != 4 {
		t.Error("Write touched other settings")
	}
}

func TestWriteRejectsOutOfRange(t *testing.T) {
	root := classFile(t, 0x6000)
	p := DefaultProfile()

	tests := []struct {
		name  string
		value uint8
	}{
		{"menu", 0},
		{"menu", 9},
		{"font", 1},
		{"lines", 6},
	}

	for _, tc := range tests {
		if err := Write(root, p, tc.name, tc.value); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Write(%s, %d) = %v, expected ErrOutOfRange", tc.name, tc.value, err)
		}
	}
}

func TestFileTooSmall(t *testing.T) {
	root := classFile(t, 0x100)
	p := DefaultProfile()

	if _, err := Read(root, p, "menu"); !errors.Is(err, ErrFileTooSmall) {
		t.Errorf("Read: expected ErrFileTooSmall, got %v", err)
	}
	if err := Write(root, p, "menu", 3); !errors.Is(err, ErrFileTooSmall) {
		t.Errorf("Write: expected ErrFileTooSmall, got %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(root, "F.class"))
	if len(data) != 0x100 {
		t.Errorf("undersized file was modified: %d bytes", len(data))
	}
}

func TestMissingFile(t *testing.T) {
	_, err := Read(t.TempDir(), DefaultProfile(), "menu")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestUnknownSetting(t *testing.T) {
	root := classFile(t, 0x6000)
	if _, err := Read(root, DefaultProfile(), "volume"); !errors.Is(err, ErrUnknownSetting) {
		t.Errorf("expected ErrUnknownSetting, got %v", err)
	}
}

func TestValidateProfile(t *testing.T) {
	tests := []struct {
		name string
		edit func(p *Profile)
	}{
		{"no file", func(p *Profile) { p.File = "" }},
		{"escaping file", func(p *Profile) { p.File = "../F.class" }},
		{"offset beyond size", func(p *Profile) { p.Settings[0].Offset = p.MinSize }},
		{"min above max", func(p *Profile) { p.Settings[1].Min = 9 }},
		{"duplicate", func(p *Profile) { p.Settings[2].Name = p.Settings[0].Name }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultProfile()
			tc.edit(&p)
			if err := p.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
