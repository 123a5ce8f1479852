// Package archive moves a game container (a ZIP file, usually a .jar)
// to and from a scratch directory tree.
package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNoContainer is returned when the container directory holds no .jar.
	ErrNoContainer = errors.New("archive: no container found")
	// ErrUnsupportedBuild is returned when an unpacked tree lacks the build file.
	ErrUnsupportedBuild = errors.New("archive: unsupported container build")
	// ErrUnsafePath is returned for entries that would land outside the scratch root.
	ErrUnsafePath = errors.New("archive: entry escapes scratch root")
)

// Warning is a non-fatal failure tied to one archive entry.
type Warning struct {
	Entry string
	Err   error
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s: %v", w.Entry, w.Err)
}

func (w Warning) Unwrap() error {
	return w.Err
}

// FindContainer returns the first .jar (any case) in dir, in name order.
// The file must be readable and writable.
func FindContainer(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("archive: cannot read %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".jar") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		f, err := os.OpenFile(path, os.O_RDWR, 0)
		if err != nil {
			return "", fmt.Errorf("archive: %s: %w", path, err)
		}
		f.Close()
		return path, nil
	}
	return "", fmt.Errorf("%w in %s", ErrNoContainer, dir)
}

// VerifyBuild checks that the unpacked tree contains buildFile, the file only
// the supported build of the game ships.
func VerifyBuild(root, buildFile string) error {
	path := filepath.Join(root, filepath.FromSlash(buildFile))
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s is missing (%v)", ErrUnsupportedBuild, buildFile, err)
	}
	return nil
}

// Backup copies the container to dst, replacing it.
func Backup(container, dst string) error {
	in, err := os.Open(container)
	if err != nil {
		return fmt.Errorf("archive: cannot open %s: %w", container, err)
	}
	defer in.Close()

	return WriteAtomic(dst, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
}

// WriteAtomic writes path through a temp file in the same directory that
// is synced and renamed into place only when fill succeeds. An existing
// file keeps its permission bits.
func WriteAtomic(path string, fill func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("archive: cannot create temp file in %s: %w", dir, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = fill(tmp); err != nil {
		return fmt.Errorf("archive: cannot write %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("archive: cannot sync %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("archive: cannot close %s: %w", path, err)
	}
	mode := os.FileMode(0o644)
	if fi, statErr := os.Stat(path); statErr == nil {
		mode = fi.Mode().Perm()
	}
	if err = os.Chmod(tmp.Name(), mode); err != nil {
		return fmt.Errorf("archive: cannot chmod %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("archive: cannot replace %s: %w", path, err)
	}
	return nil
}
