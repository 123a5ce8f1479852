// pophale is a level tool for the mobile Prince of Persia container: it
// unpacks the game, converts and inspects level files, patches the class
// file and packs everything back.
//
// Usage:
//
//	pophale unpack                          - Extract the container into the scratch tree
//	pophale pack                            - Rebuild the container from the scratch tree
//	pophale dump <level>                    - Print every decoded field of a level
//	pophale export <level>                  - Write a level as YAML
//	pophale import <level> <file>           - Save a YAML level over a level file
//	pophale add <level> <kind> <x> <y>      - Place a new record
//	pophale move <level> <marker> <x> <y>   - Move a marker
//	pophale tile <level> <col> <row> <hex>  - Set the tile of a cell
//	pophale text <level> [line...]          - Show or replace the intro text
//	pophale remove <level> <x> <y>          - Delete the record nearest to a point
//	pophale clear <level>                   - Strip a level to the records it needs
//	pophale patch get|set                   - Read or write class file settings
//	pophale align <x|y> <v> <t>             - Align a coordinate within its cell
//	pophale view [level]                    - Browse levels in the terminal
//	pophale history [level]                 - List saved revisions
//	pophale restore <id>                    - Save a revision back over its level
//	pophale watch                           - Repack whenever the scratch tree changes
//
// Global flags:
//
//	--config <path> - Configuration file (default: ~/.pophale/config.yaml)
//	--db <path>     - History database, "none" disables history
//	--debug         - Log debug messages
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/pophale/internal/config"
	"github.com/vovakirdan/pophale/internal/storage"
	"github.com/vovakirdan/pophale/internal/workspace"
)

var (
	// Global flags
	flagConfig string
	flagDBPath string
	flagDebug  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pophale",
	Short: "pophale - Level tools for the Prince of Persia mobile game",
	Long: `pophale edits the levels of the Prince of Persia mobile game.

It unpacks the game container into a scratch tree, reads and writes the
level files there, patches settings inside the class file and packs the
container again.

Available commands:
  unpack   - Extract the container
  pack     - Rebuild the container
  dump     - Print a level field by field
  export   - Export a level as YAML
  import   - Import a YAML level
  add      - Place a new record
  move     - Move a marker
  tile     - Set the tile of a cell
  text     - Show or replace the intro text
  remove   - Delete the record nearest to a point
  clear    - Strip a level down to its required records
  patch    - Read or write class file settings
  align    - Align a coordinate to a cell
  view     - Terminal level viewer
  history  - List saved revisions
  restore  - Restore a saved revision
  watch    - Repack on every change

Examples:
  pophale unpack
  pophale export 3 -o level3.yaml
  pophale import 3 level3.yaml
  pophale patch set menu 2
  pophale view 0`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to configuration YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to history database (default from config, \"none\" disables)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log debug messages")

	// Add subcommands
	rootCmd.AddCommand(unpackCmd)
	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(tileCmd)
	rootCmd.AddCommand(textCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(patchCmd)
	rootCmd.AddCommand(alignCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(watchCmd)
}

// session is the state every command works with.
type session struct {
	cfg    config.Config
	logger *log.Logger
	store  *storage.Store
	ws     *workspace.Workspace
}

func (s *session) Close() {
	if s.store != nil {
		s.store.Close()
	}
}

// newLogger creates the stderr logger.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "pophale",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// openSession loads the configuration, opens the history database and
// creates the workspace. It exits on failure.
func openSession() *session {
	logger := newLogger()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	dbPath := cfg.Workspace.History
	if flagDBPath != "" {
		dbPath = flagDBPath
	}

	var store *storage.Store
	if dbPath != "" && dbPath != "none" {
		store, err = storage.Open(dbPath)
		if err != nil {
			logger.Warn("history disabled", "db", dbPath, "err", err)
			store = nil
		}
	}

	return &session{
		cfg:    cfg,
		logger: logger,
		store:  store,
		ws:     workspace.New(cfg, logger, store),
	}
}

// fail prints an error and exits.
func (s *session) fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	s.Close()
	os.Exit(1)
}

// reportWarnings prints how many recoverable failures an operation hit.
// The failures themselves are logged by the workspace.
func reportWarnings(action string, warns []workspace.Warning) {
	if len(warns) == 0 {
		fmt.Println(action + ".")
		return
	}
	fmt.Printf("%s with %d warning(s).\n", action, len(warns))
}

// parseLevel parses a level number argument.
func (s *session) parseLevel(arg string) int {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 || n > s.ws.MaxLevel() {
		s.fail("invalid level %q (expected 0..%d)", arg, s.ws.MaxLevel())
	}
	return n
}
