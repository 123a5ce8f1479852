package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pophale/internal/level"
)

var importCmd = &cobra.Command{
	Use:   "import <level> <file>",
	Short: "Save a YAML level over a level file",
	Long: `Parse a YAML level, as written by export, and save it over a level.

The previous level is kept in the history database. Levels missing a
record the game needs are saved with a warning.

Examples:
  pophale import 3 level3.yaml`,
	Args: cobra.ExactArgs(2),
	Run:  runImport,
}

func runImport(_ *cobra.Command, args []string) {
	s := openSession()
	defer s.Close()

	n := s.parseLevel(args[0])
	data, err := os.ReadFile(args[1])
	if err != nil {
		s.fail("%v", err)
	}
	lvl, err := level.ParseYAML(data)
	if err != nil {
		s.fail("%s: %v", args[1], err)
	}

	warns, err := s.ws.SaveLevel(lvl, n)
	if err != nil {
		s.fail("%v", err)
	}
	reportWarnings(fmt.Sprintf("Imported %s as level %d", args[1], n), warns)
}
