// Package workspace is the editing session around one game container: it
// unpacks the container into a scratch tree, loads and saves level files
// there, patches the class file and repacks the container.
//
// Fatal conditions are returned as errors. Recoverable ones are returned as
// warnings and logged.
package workspace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pophale/internal/archive"
	"github.com/vovakirdan/pophale/internal/config"
	"github.com/vovakirdan/pophale/internal/level"
	"github.com/vovakirdan/pophale/internal/patch"
	"github.com/vovakirdan/pophale/internal/storage"
)

// ErrLevelRange is returned for a level number the workspace does not hold.
var ErrLevelRange = errors.New("workspace: level number out of range")

// Warning is a recoverable failure tied to one resource.
type Warning struct {
	Resource string
	Err      error
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s: %v", w.Resource, w.Err)
}

func (w Warning) Unwrap() error {
	return w.Err
}

// Workspace is one editing session.
type Workspace struct {
	cfg       config.WorkspaceConfig
	profile   patch.Profile
	logger    *log.Logger
	store     *storage.Store
	container string
}

// New creates a workspace. logger and store may be nil; without a store no
// revision history is kept.
func New(cfg config.Config, logger *log.Logger, store *storage.Store) *Workspace {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Workspace{
		cfg:     cfg.Workspace,
		profile: cfg.Patch,
		logger:  logger,
		store:   store,
	}
}

// Container resolves the container path: the configured file, or the first
// .jar in the container directory.
func (w *Workspace) Container() (string, error) {
	if w.container != "" {
		return w.container, nil
	}
	if w.cfg.Container != "" {
		if _, err := os.Stat(w.cfg.Container); err != nil {
			return "", fmt.Errorf("workspace: container: %w", err)
		}
		w.container = w.cfg.Container
		return w.container, nil
	}
	path, err := archive.FindContainer(w.cfg.ContainerDir)
	if err != nil {
		return "", err
	}
	w.container = path
	return path, nil
}

// ScratchDir is the root of the unpacked tree.
func (w *Workspace) ScratchDir() string {
	return w.cfg.ScratchDir
}

// MaxLevel is the highest level number.
func (w *Workspace) MaxLevel() int {
	return w.cfg.MaxLevel
}

// LevelPath returns the file of level n.
func (w *Workspace) LevelPath(n int) (string, error) {
	if n < 0 || n > w.cfg.MaxLevel {
		return "", fmt.Errorf("%w: %d (0..%d)", ErrLevelRange, n, w.cfg.MaxLevel)
	}
	return filepath.Join(w.cfg.ScratchDir, strconv.Itoa(n)+".lvl"), nil
}

// Unpack extracts the container into the scratch tree and checks that it
// is the supported build.
func (w *Workspace) Unpack() error {
	container, err := w.Container()
	if err != nil {
		return err
	}
	if err := archive.Unpack(container, w.cfg.ScratchDir); err != nil {
		return err
	}
	if w.cfg.BuildFile != "" {
		if err := archive.VerifyBuild(w.cfg.ScratchDir, w.cfg.BuildFile); err != nil {
			return err
		}
	}
	w.logger.Info("unpacked container", "container", container, "scratch", w.cfg.ScratchDir)
	return nil
}

// LoadLevel decodes level n and returns it with the cursor the editor
// starts at. Any short read is fatal.
func (w *Workspace) LoadLevel(n int) (*level.Level, level.Cursor, error) {
	path, err := w.LevelPath(n)
	if err != nil {
		return nil, level.Cursor{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, level.Cursor{}, fmt.Errorf("workspace: cannot open level %d: %w", n, err)
	}
	defer f.Close()

	lvl, rep, err := level.DecodeReport(f)
	if err != nil {
		return nil, level.Cursor{}, fmt.Errorf("workspace: %s: %w", path, err)
	}
	if rep.ReservedNonZero {
		w.logger.Warn("reserved markers are not zero, they will be rewritten", "level", n)
	}
	if rep.TextTruncated {
		w.logger.Warn("text segment has overlong lines, truncated", "level", n)
	}
	w.logger.Debug("loaded level", "level", n, "bytes", rep.Size, "width", lvl.Width, "height", lvl.Height)
	return lvl, level.InitialCursor(lvl), nil
}

// SaveLevel encodes lvl over level n. The level file is replaced
// atomically; a failed write leaves the previous file intact and is fatal.
// Editor invariant violations, a failed container backup and history
// failures are warnings. With RepackOnSave the container is rebuilt after
// the write.
func (w *Workspace) SaveLevel(lvl *level.Level, n int) ([]Warning, error) {
	path, err := w.LevelPath(n)
	if err != nil {
		return nil, err
	}
	data, err := level.Marshal(lvl)
	if err != nil {
		return nil, fmt.Errorf("workspace: cannot encode level %d: %w", n, err)
	}

	var warns []Warning
	resource := filepath.Base(path)
	for _, v := range lvl.Validate() {
		warns = append(warns, Warning{Resource: resource, Err: errors.New(v.Message)})
	}

	if container, err := w.Container(); err != nil {
		warns = append(warns, Warning{Resource: "container", Err: err})
	} else if w.cfg.Backup != "" {
		if err := archive.Backup(container, w.cfg.Backup); err != nil {
			warns = append(warns, Warning{Resource: w.cfg.Backup, Err: err})
		}
	}

	previous, readErr := os.ReadFile(path)
	if readErr == nil {
		warns = w.record(warns, n, previous, "before save")
	}

	err = archive.WriteAtomic(path, func(out io.Writer) error {
		_, err := out.Write(data)
		return err
	})
	if err != nil {
		w.logWarnings(warns)
		return warns, fmt.Errorf("workspace: cannot save level %d: %w", n, err)
	}
	warns = w.record(warns, n, data, "save")
	w.logger.Info("saved level", "level", n, "bytes", len(data))

	if w.cfg.RepackOnSave {
		packWarns, err := w.pack()
		warns = append(warns, packWarns...)
		if err != nil {
			w.logWarnings(warns)
			return warns, fmt.Errorf("workspace: level %d saved, repack failed: %w", n, err)
		}
	}

	w.logWarnings(warns)
	return warns, nil
}

// record stores a history revision, turning failures into a warning.
func (w *Workspace) record(warns []Warning, n int, data []byte, note string) []Warning {
	if w.store == nil {
		return warns
	}
	container, err := w.Container()
	if err != nil {
		return warns
	}
	if _, err := w.store.RecordRevision(filepath.Base(container), n, data, note); err != nil {
		warns = append(warns, Warning{Resource: "history", Err: err})
	}
	return warns
}

// Pack rebuilds the container from the scratch tree.
func (w *Workspace) Pack() ([]Warning, error) {
	warns, err := w.pack()
	w.logWarnings(warns)
	return warns, err
}

func (w *Workspace) pack() ([]Warning, error) {
	container, err := w.Container()
	if err != nil {
		return nil, err
	}
	entryWarns, err := archive.Pack(w.cfg.ScratchDir, container)
	warns := make([]Warning, 0, len(entryWarns))
	for _, ew := range entryWarns {
		warns = append(warns, Warning{Resource: ew.Entry, Err: ew.Err})
	}
	if err != nil {
		return warns, err
	}
	w.logger.Info("packed container", "container", container, "warnings", len(warns))
	return warns, nil
}

// ReadPatch returns the byte of one patch setting.
func (w *Workspace) ReadPatch(name string) (uint8, error) {
	return patch.Read(w.cfg.ScratchDir, w.profile, name)
}

// ReadAllPatches returns every patch setting.
func (w *Workspace) ReadAllPatches() (map[string]uint8, error) {
	return patch.ReadAll(w.cfg.ScratchDir, w.profile)
}

// PatchProfile is the profile patches are applied with.
func (w *Workspace) PatchProfile() patch.Profile {
	return w.profile
}

// WritePatch stores one patch setting and, with RepackOnSave, rebuilds
// the container. Repack warnings are logged.
func (w *Workspace) WritePatch(name string, v uint8) error {
	if err := patch.Write(w.cfg.ScratchDir, w.profile, name, v); err != nil {
		return err
	}
	w.logger.Info("patched", "setting", name, "value", v)
	if !w.cfg.RepackOnSave {
		return nil
	}
	if _, err := w.Pack(); err != nil {
		return fmt.Errorf("workspace: patched %s, repack failed: %w", name, err)
	}
	return nil
}

// History lists the newest saved revisions of level n.
func (w *Workspace) History(n, limit int) ([]storage.Revision, error) {
	if w.store == nil {
		return nil, errors.New("workspace: history is disabled")
	}
	if _, err := w.LevelPath(n); err != nil {
		return nil, err
	}
	container, err := w.Container()
	if err != nil {
		return nil, err
	}
	return w.store.Revisions(filepath.Base(container), n, limit)
}

// HistoryStats summarizes the saved revisions of every level.
func (w *Workspace) HistoryStats() ([]storage.LevelStats, error) {
	if w.store == nil {
		return nil, errors.New("workspace: history is disabled")
	}
	container, err := w.Container()
	if err != nil {
		return nil, err
	}
	return w.store.Stats(filepath.Base(container))
}

// ClearHistory drops every saved revision of level n.
func (w *Workspace) ClearHistory(n int) error {
	if w.store == nil {
		return errors.New("workspace: history is disabled")
	}
	if _, err := w.LevelPath(n); err != nil {
		return err
	}
	container, err := w.Container()
	if err != nil {
		return err
	}
	return w.store.ClearRevisions(filepath.Base(container), n)
}

// Restore saves a stored revision back over its level.
func (w *Workspace) Restore(id int64) ([]Warning, error) {
	if w.store == nil {
		return nil, errors.New("workspace: history is disabled")
	}
	rev, err := w.store.Revision(id)
	if err != nil {
		return nil, err
	}
	container, err := w.Container()
	if err != nil {
		return nil, err
	}
	if rev.Container != filepath.Base(container) {
		return nil, fmt.Errorf("workspace: revision %d belongs to %s, not %s", id, rev.Container, filepath.Base(container))
	}
	lvl, err := level.Unmarshal(rev.Data)
	if err != nil {
		return nil, fmt.Errorf("workspace: revision %d: %w", id, err)
	}
	return w.SaveLevel(lvl, rev.Level)
}

func (w *Workspace) logWarnings(warns []Warning) {
	for _, warn := range warns {
		w.logger.Warn(warn.Err.Error(), "resource", warn.Resource)
	}
}
