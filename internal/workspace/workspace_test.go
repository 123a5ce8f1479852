package workspace

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/pophale/internal/archive"
	"github.com/vovakirdan/pophale/internal/config"
	"github.com/vovakirdan/pophale/internal/level"
	"github.com/vovakirdan/pophale/internal/storage"
)

func floorLevel() *level.Level {
	l := level.New(2, 1)
	l.Grid[0] = []uint8{0x04, 0x04}
	l.Prince = level.Point{X: 16, Y: 24}
	l.FrontTypes = []level.FrontType{{A: 1, Nr: level.FrontTorch}}
	l.Fronts = []level.Front{{X: 20, Y: 40}}
	l.Spikes = []level.Spike{{}}
	l.Gates = []level.Gate{{}}
	l.Potions = []level.Potion{{}}
	return l
}

// writeContainer creates a container in dir holding the given entries.
func writeContainer(t *testing.T, path string, entries map[string][]byte) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range entries {
		fw, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readEntry(t *testing.T, container, name string) []byte {
	t.Helper()
	zr, err := zip.OpenReader(container)
	if err != nil {
		t.Fatalf("cannot open container: %v", err)
	}
	defer zr.Close()
	rc, err := zr.Open(name)
	if err != nil {
		t.Fatalf("container has no %s: %v", name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

// setup returns a workspace over a fresh container holding level 0 and a
// class file, plus the config it was built from.
func setup(t *testing.T, store *storage.Store) (*Workspace, config.Config) {
	t.Helper()
	dir := t.TempDir()

	data, err := level.Marshal(floorLevel())
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Workspace.ContainerDir = filepath.Join(dir, "jar")
	cfg.Workspace.ScratchDir = filepath.Join(dir, "uncomp")
	cfg.Workspace.Backup = filepath.Join(dir, "jar", "backup.bak")
	cfg.Workspace.History = ""

	writeContainer(t, filepath.Join(cfg.Workspace.ContainerDir, "pop.jar"), map[string][]byte{
		"0.lvl":   data,
		"F.class": make([]byte, 0x6000),
	})

	ws := New(cfg, nil, store)
	if err := ws.Unpack(); err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}
	return ws, cfg
}

func TestLoadLevel(t *testing.T) {
	ws, _ := setup(t, nil)

	lvl, cur, err := ws.LoadLevel(0)
	if err != nil {
		t.Fatalf("LoadLevel failed: %v", err)
	}
	if lvl.Width != 2 || lvl.Height != 1 {
		t.Errorf("size = %dx%d, expected 2x1", lvl.Width, lvl.Height)
	}
	if cur != (level.Cursor{Column: 2, Row: 1}) {
		t.Errorf("cursor = %+v, expected {2 1}", cur)
	}

	if _, _, err := ws.LoadLevel(1); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist for a missing level, got %v", err)
	}
	if _, _, err := ws.LoadLevel(7); !errors.Is(err, ErrLevelRange) {
		t.Errorf("expected ErrLevelRange, got %v", err)
	}
	if _, _, err := ws.LoadLevel(-1); !errors.Is(err, ErrLevelRange) {
		t.Errorf("expected ErrLevelRange, got %v", err)
	}
}

func TestLoadLevelShortFile(t *testing.T) {
	ws, _ := setup(t, nil)
	path, _ := ws.LevelPath(0)
	if err := os.WriteFile(path, []byte{0x02, 0x01, 0x04}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ws.LoadLevel(0); !errors.Is(err, level.ErrShortRead) {
		t.Errorf("expected ErrShortRead, got %v", err)
	}
}

func TestUnpackRejectsUnsupportedBuild(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Workspace.ContainerDir = dir
	cfg.Workspace.ScratchDir = filepath.Join(dir, "uncomp")
	writeContainer(t, filepath.Join(dir, "other.jar"), map[string][]byte{"1.lvl": {0}})

	err := New(cfg, nil, nil).Unpack()
	if !errors.Is(err, archive.ErrUnsupportedBuild) {
		t.Errorf("expected ErrUnsupportedBuild, got %v", err)
	}
}

func TestSaveLevelRepacksAndBacksUp(t *testing.T) {
	ws, cfg := setup(t, nil)

	lvl, _, err := ws.LoadLevel(0)
	if err != nil {
		t.Fatal(err)
	}
	original, _ := os.ReadFile(filepath.Join(cfg.Workspace.ContainerDir, "pop.jar"))

	lvl.SetTile(1, 0, 0x01)
	lvl.Text = level.Text{"HELLO"}
	warns, err := ws.SaveLevel(lvl, 0)
	if err != nil {
		t.Fatalf("SaveLevel failed: %v", err)
	}
	if len(warns) != 0 {
		t.Errorf("unexpected warnings: %v", warns)
	}

	expected, _ := level.Marshal(lvl)
	path, _ := ws.LevelPath(0)
	onDisk, _ := os.ReadFile(path)
	if !bytes.Equal(onDisk, expected) {
		t.Errorf("level file = % x, expected % x", onDisk, expected)
	}

	container, _ := ws.Container()
	if got := readEntry(t, container, "0.lvl"); !bytes.Equal(got, expected) {
		t.Error("container was not repacked with the saved level")
	}
	readEntry(t, container, archive.ManifestName)

	backup, err := os.ReadFile(cfg.Workspace.Backup)
	if err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	if !bytes.Equal(backup, original) {
		t.Error("backup is not the container from before the save")
	}
}

func TestSaveLevelReportsViolations(t *testing.T) {
	ws, _ := setup(t, nil)

	lvl, _, _ := ws.LoadLevel(0)
	lvl.Potions = nil
	warns, err := ws.SaveLevel(lvl, 0)
	if err != nil {
		t.Fatalf("SaveLevel failed: %v", err)
	}
	if len(warns) != 1 || warns[0].Resource != "0.lvl" {
		t.Errorf("expected one warning for 0.lvl, got %v", warns)
	}

	// The level is still written
	again, _, err := ws.LoadLevel(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(again.Potions) != 0 {
		t.Error("expected the level saved without potions")
	}
}

func TestSaveLevelKeepsFileOnFailure(t *testing.T) {
	ws, _ := setup(t, nil)
	lvl, _, _ := ws.LoadLevel(0)
	path, _ := ws.LevelPath(0)
	before, _ := os.ReadFile(path)

	lvl.Grid = [][]uint8{{0x01}}
	if _, err := ws.SaveLevel(lvl, 0); !errors.Is(err, level.ErrGridShape) {
		t.Errorf("expected ErrGridShape, got %v", err)
	}
	after, _ := os.ReadFile(path)
	if !bytes.Equal(before, after) {
		t.Error("failed save modified the level file")
	}
}

func TestHistoryAndRestore(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("storage.Open failed: %v", err)
	}
	defer store.Close()
	ws, _ := setup(t, store)

	lvl, _, _ := ws.LoadLevel(0)
	original, _ := level.Marshal(lvl)
	lvl.Prince = level.Point{X: 40, Y: 19}
	if _, err := ws.SaveLevel(lvl, 0); err != nil {
		t.Fatal(err)
	}

	revs, err := ws.History(0, 10)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(revs) != 2 {
		t.Fatalf("expected 2 revisions, got %d", len(revs))
	}
	if revs[1].Note != "before save" || revs[0].Note != "save" {
		t.Errorf("unexpected notes %q, %q", revs[0].Note, revs[1].Note)
	}

	if _, err := ws.Restore(revs[1].ID); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	path, _ := ws.LevelPath(0)
	onDisk, _ := os.ReadFile(path)
	if !bytes.Equal(onDisk, original) {
		t.Error("Restore did not bring back the original level")
	}

	if _, err := ws.Restore(999); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected storage.ErrNotFound, got %v", err)
	}

	// The restore recorded the original content once more
	stats, err := ws.HistoryStats()
	if err != nil {
		t.Fatalf("HistoryStats failed: %v", err)
	}
	if len(stats) != 1 || stats[0].Level != 0 || stats[0].Revisions != 3 {
		t.Errorf("expected 3 revisions of level 0, got %+v", stats)
	}

	if err := ws.ClearHistory(0); err != nil {
		t.Fatalf("ClearHistory failed: %v", err)
	}
	if revs, _ := ws.History(0, 10); len(revs) != 0 {
		t.Errorf("expected no revisions after clear, got %d", len(revs))
	}
	if err := ws.ClearHistory(9); !errors.Is(err, ErrLevelRange) {
		t.Errorf("expected ErrLevelRange, got %v", err)
	}
}

func TestHistoryDisabled(t *testing.T) {
	ws, _ := setup(t, nil)
	if _, err := ws.History(0, 5); err == nil {
		t.Error("expected error without a store")
	}
	if _, err := ws.HistoryStats(); err == nil {
		t.Error("expected HistoryStats error without a store")
	}
	if err := ws.ClearHistory(0); err == nil {
		t.Error("expected ClearHistory error without a store")
	}
}

func TestPatch(t *testing.T) {
	ws, _ := setup(t, nil)

	if err := ws.WritePatch("menu", 4); err != nil {
		t.Fatalf("WritePatch failed: %v", err)
	}
	v, err := ws.ReadPatch("menu")
	if err != nil {
		t.Fatalf("ReadPatch failed: %v", err)
	}
	if v != 4 {
		t.Errorf("ReadPatch = %d, expected 4", v)
	}

	container, _ := ws.Container()
	class := readEntry(t, container, "F.class")
	if class[0x4ED6] != 4 {
		t.Error("container was not repacked with the patched class file")
	}

	all, err := ws.ReadAllPatches()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 settings, got %v", all)
	}
}

func TestPackWithoutContainer(t *testing.T) {
	cfg := config.Default()
	cfg.Workspace.ContainerDir = t.TempDir()
	cfg.Workspace.ScratchDir = t.TempDir()

	if _, err := New(cfg, nil, nil).Pack(); !errors.Is(err, archive.ErrNoContainer) {
		t.Errorf("expected ErrNoContainer, got %v", err)
	}
}

func TestEditsSurviveSave(t *testing.T) {
	ws, cfg := setup(t, nil)

	lvl, _, err := ws.LoadLevel(0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := lvl.Place(level.KindSpike, 40, 10, level.Placement{FacingRight: 1}); err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if err := lvl.Move(level.MarkerPrince, 20, 30); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	lvl.SetTile(1, 0, 0x21)
	if lvl.Text, err = level.TextFromLines([]string{"HELLO"}); err != nil {
		t.Fatal(err)
	}

	warns, err := ws.SaveLevel(lvl, 0)
	if err != nil {
		t.Fatalf("SaveLevel failed: %v", err)
	}
	if len(warns) != 0 {
		t.Errorf("expected no warnings, got %v", warns)
	}

	got, cur, err := ws.LoadLevel(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Spikes) != 2 || got.Spikes[1] != (level.Spike{X: 41, Y: 0, FacingRight: 1}) {
		t.Errorf("spikes = %+v, expected an aligned spike at (41,0)", got.Spikes)
	}
	if got.Prince != (level.Point{X: 20, Y: 19}) || cur != (level.Cursor{Column: 2, Row: 1}) {
		t.Errorf("prince = %+v cursor %+v, expected (20,19) in column 2", got.Prince, cur)
	}
	if code, _ := got.Tile(1, 0); code != 0x21 {
		t.Errorf("tile = %02X, expected 21", code)
	}
	if lines := got.Text.Lines(); len(lines) != 1 || lines[0] != "HELLO" {
		t.Errorf("text = %q, expected HELLO", lines)
	}

	data, _ := level.Marshal(got)
	if packed := readEntry(t, filepath.Join(cfg.Workspace.ContainerDir, "pop.jar"), "0.lvl"); !bytes.Equal(packed, data) {
		t.Error("container does not hold the edited level")
	}
}
