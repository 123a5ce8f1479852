package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var restoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Save a stored revision back over its level",
	Long: `Save a revision from the history database over the level it was
taken from. The current file is recorded first, so a restore can itself be
undone.

Examples:
  pophale history 2
  pophale restore 17`,
	Args: cobra.ExactArgs(1),
	Run:  runRestore,
}

func runRestore(_ *cobra.Command, args []string) {
	s := openSession()
	defer s.Close()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		s.fail("invalid revision id %q", args[0])
	}
	restore(s, id)
}

func restore(s *session, id int64) {
	warns, err := s.ws.Restore(id)
	if err != nil {
		s.fail("%v", err)
	}
	reportWarnings(fmt.Sprintf("Restored revision %d", id), warns)
}
