package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/pophale/internal/platform/tui"
	"github.com/vovakirdan/pophale/internal/workspace"
)

var viewCmd = &cobra.Command{
	Use:   "view [level]",
	Short: "Browse levels in the terminal",
	Long: `Open a read-only terminal view of a level: tiles as hex codes with
objects drawn over them, the level text beside the map and the cell under
the cursor described below it. The view reloads when the level file
changes on disk. Logging is silenced while the view is open; with --debug
it goes to pophale-view.log in the temp directory.

Controls:
  Arrows/hjkl  - Move the cursor
  P            - Jump to the prince
  Tab/]        - Next level
  Shift+Tab/[  - Previous level
  R            - Reload
  T            - Toggle the text panel
  ?            - Full help
  Q/Esc        - Quit

Examples:
  pophale view
  pophale view 4`,
	Args: cobra.MaximumNArgs(1),
	Run:  runView,
}

func runView(_ *cobra.Command, args []string) {
	s := openSession()
	defer s.Close()

	n := 0
	if len(args) == 1 {
		n = s.parseLevel(args[0])
	}

	// Get terminal size
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	// Nothing may write to stderr while the viewer owns the screen.
	logger, closeLog, err := viewLogger(flagDebug, filepath.Join(os.TempDir(), "pophale-view.log"))
	if err != nil {
		s.fail("%v", err)
	}
	defer closeLog()
	ws := workspace.New(s.cfg, logger, s.store)

	if err := tui.Run(ws, n, width, height); err != nil {
		closeLog()
		s.fail("%v", err)
	}
}

// viewLogger returns the logger used while the viewer runs: a discarding
// one, or with debug a logger appending to path.
func viewLogger(debug bool, path string) (*log.Logger, func(), error) {
	if !debug {
		return log.New(io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "pophale",
		Level:           log.DebugLevel,
	})
	return logger, func() { f.Close() }, nil
}
