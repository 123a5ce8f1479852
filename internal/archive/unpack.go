package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// chunkSize is the copy buffer used when extracting an entry.
const chunkSize = 32 * 1024

// Unpack extracts every entry of container under root. Entries ending in a
// slash become directories; parent directories are created as needed.
// Every failure is fatal; an entry escaping root fails with ErrUnsafePath.
func Unpack(container, root string) error {
	zr, err := zip.OpenReader(container)
	if err != nil {
		return fmt.Errorf("archive: cannot open %s: %w", container, err)
	}
	defer zr.Close()

	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("archive: cannot create %s: %w", root, err)
	}

	buf := make([]byte, chunkSize)
	for _, f := range zr.File {
		target, err := entryPath(root, f.Name)
		if err != nil {
			return err
		}
		if strings.HasSuffix(f.Name, "/") {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("archive: cannot create %s: %w", target, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("archive: cannot create %s: %w", filepath.Dir(target), err)
		}
		if err := extract(f, target, buf); err != nil {
			return err
		}
	}
	return nil
}

// entryPath maps a ZIP entry name to a path under root.
func entryPath(root, name string) (string, error) {
	rel := strings.TrimSuffix(name, "/")
	if rel == "" || !filepath.IsLocal(filepath.FromSlash(rel)) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	return filepath.Join(root, filepath.FromSlash(rel)), nil
}

func extract(f *zip.File, target string, buf []byte) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("archive: cannot read entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("archive: cannot create %s: %w", target, err)
	}

	// Hide ReadFrom so the copy goes through buf.
	n, err := io.CopyBuffer(struct{ io.Writer }{out}, rc, buf)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("archive: cannot extract %s: %w", f.Name, err)
	}
	if uint64(n) != f.UncompressedSize64 {
		return fmt.Errorf("archive: extract %s: wrote %d of %d bytes", f.Name, n, f.UncompressedSize64)
	}
	return nil
}
