package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Entry names the packer treats specially.
const (
	MetaDir      = "META-INF"
	ManifestName = "META-INF/MANIFEST.MF"
)

// ManifestLines is the descriptor written when the scratch tree has no
// manifest. Each line is terminated by a newline.
var ManifestLines = []string{
	"Manifest-Version: 1.0",
	"MicroEdition-Configuration: CLDC-1.0",
	"MicroEdition-Profile: MIDP-2.0",
	"MIDlet-Name: Prince of Persia: Harem Adventures",
	"MIDlet-1: Prince of Persia: Harem Adventures, popicon.png, PrinceOfPersia",
	"MIDlet-Icon: popicon.png",
	"MIDlet-Version: 1.0.9",
	"MIDlet-Vendor: Gameloft",
	"Nokia-MIDlet-Category: Game",
}

// Manifest returns the default manifest file content.
func Manifest() []byte {
	var b strings.Builder
	for _, line := range ManifestLines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// Pack writes the tree under root to container, replacing it. The
// META-INF/ directory and its manifest come first; a missing manifest is
// created from ManifestLines. The rest of the tree follows in lexical
// order, subdirectories included.
//
// Failures to read or add one entry are returned as warnings and the entry
// is left out. The container itself is replaced atomically, so any error
// leaves the previous container untouched.
func Pack(root, container string) ([]Warning, error) {
	if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
		if err == nil {
			err = errors.New("not a directory")
		}
		return nil, fmt.Errorf("archive: cannot pack %s: %w", root, err)
	}

	var warns []Warning
	err := WriteAtomic(container, func(w io.Writer) error {
		zw := zip.NewWriter(w)
		p := packer{zw: zw, root: root}
		p.addManifest()
		if err := p.walk(); err != nil {
			return err
		}
		warns = p.warns
		return zw.Close()
	})
	if err != nil {
		return warns, err
	}
	return warns, nil
}

type packer struct {
	zw    *zip.Writer
	root  string
	warns []Warning
}

func (p *packer) warn(entry string, err error) {
	p.warns = append(p.warns, Warning{Entry: entry, Err: err})
}

func (p *packer) addManifest() {
	p.addDir(MetaDir)

	local := filepath.Join(p.root, filepath.FromSlash(ManifestName))
	data, err := os.ReadFile(local)
	if err != nil {
		data = Manifest()
		if err := writeManifest(local, data); err != nil {
			p.warn(ManifestName, err)
		}
	}
	p.addBytes(ManifestName, data, nil)
}

func writeManifest(local string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(local), 0o755); err != nil {
		return err
	}
	return os.WriteFile(local, data, 0o644)
}

func (p *packer) walk() error {
	return filepath.WalkDir(p.root, func(local string, d fs.DirEntry, err error) error {
		if local == p.root {
			return err
		}
		rel, relErr := filepath.Rel(p.root, local)
		if relErr != nil {
			return relErr
		}
		name := filepath.ToSlash(rel)
		if err != nil {
			p.warn(name, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		switch {
		case name == MetaDir, name == ManifestName:
			return nil
		case d.IsDir():
			p.addDir(name)
		case d.Type().IsRegular():
			fi, err := d.Info()
			if err != nil {
				p.warn(name, err)
				return nil
			}
			data, err := os.ReadFile(local)
			if err != nil {
				p.warn(name, err)
				return nil
			}
			p.addBytes(name, data, fi)
		default:
			p.warn(name, fmt.Errorf("skipping non-regular file (%s)", d.Type()))
		}
		return nil
	})
}

func (p *packer) addDir(name string) {
	hdr := &zip.FileHeader{Name: path.Clean(name) + "/", Method: zip.Store}
	hdr.SetMode(fs.ModeDir | 0o755)
	if _, err := p.zw.CreateHeader(hdr); err != nil {
		p.warn(hdr.Name, err)
	}
}

func (p *packer) addBytes(name string, data []byte, fi fs.FileInfo) {
	hdr := &zip.FileHeader{Name: name, Method: zip.Deflate}
	if fi != nil {
		h, err := zip.FileInfoHeader(fi)
		if err == nil {
			h.Name, h.Method = name, zip.Deflate
			hdr = h
		}
	}
	w, err := p.zw.CreateHeader(hdr)
	if err != nil {
		p.warn(name, err)
		return
	}
	if _, err := w.Write(data); err != nil {
		p.warn(name, err)
	}
}
