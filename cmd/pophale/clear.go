package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear <level>",
	Short: "Strip a level down to the records it needs",
	Long: `Fill the grid with floor and drop every record except the first
front, spike, gate and potion. Markers, front types and text are kept.

Examples:
  pophale clear 5`,
	Args: cobra.ExactArgs(1),
	Run:  runClear,
}

func runClear(_ *cobra.Command, args []string) {
	s := openSession()
	defer s.Close()

	n := s.parseLevel(args[0])
	lvl, _, err := s.ws.LoadLevel(n)
	if err != nil {
		s.fail("%v", err)
	}
	lvl.Clear()

	warns, err := s.ws.SaveLevel(lvl, n)
	if err != nil {
		s.fail("%v", err)
	}
	reportWarnings(fmt.Sprintf("Cleared level %d", n), warns)
}
