package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pophale/internal/level"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <level>",
	Short: "Print every decoded field of a level",
	Long: `Decode a level file and print its grid, records, markers and text.

Examples:
  pophale dump 0
  pophale dump 3 | less`,
	Args: cobra.ExactArgs(1),
	Run:  runDump,
}

func runDump(_ *cobra.Command, args []string) {
	s := openSession()
	defer s.Close()

	n := s.parseLevel(args[0])
	lvl, _, err := s.ws.LoadLevel(n)
	if err != nil {
		s.fail("%v", err)
	}
	if err := level.Dump(os.Stdout, lvl); err != nil {
		s.fail("%v", err)
	}
}
