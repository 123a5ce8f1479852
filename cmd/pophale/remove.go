package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var flagRemoveDryRun bool

var removeCmd = &cobra.Command{
	Use:   "remove <level> <x> <y>",
	Short: "Delete the record nearest to a point",
	Long: `Delete the placed record closest to pixel (x, y), as the editor's
delete tool does. Distance is Manhattan; on a tie the record found first in
file order wins. The last front, spike, gate or potion cannot be removed.

Examples:
  pophale remove 2 120 48
  pophale remove 2 120 48 --dry-run`,
	Args: cobra.ExactArgs(3),
	Run:  runRemove,
}

func init() {
	removeCmd.Flags().BoolVar(&flagRemoveDryRun, "dry-run", false, "Only show which record would be removed")
}

func runRemove(_ *cobra.Command, args []string) {
	s := openSession()
	defer s.Close()

	n := s.parseLevel(args[0])
	x, errX := strconv.Atoi(args[1])
	y, errY := strconv.Atoi(args[2])
	if errX != nil || errY != nil {
		s.fail("invalid position %s,%s", args[1], args[2])
	}

	lvl, _, err := s.ws.LoadLevel(n)
	if err != nil {
		s.fail("%v", err)
	}
	kind, i, ok := lvl.Nearest(x, y)
	if !ok {
		fmt.Println("No record near that position.")
		return
	}
	pos, _ := lvl.Position(kind, i)
	fmt.Printf("Nearest record: %s %d at (%d,%d)\n", kind, i, pos.X, pos.Y)
	if flagRemoveDryRun {
		return
	}

	if err := lvl.Remove(kind, i); err != nil {
		s.fail("%v", err)
	}
	warns, err := s.ws.SaveLevel(lvl, n)
	if err != nil {
		s.fail("%v", err)
	}
	reportWarnings(fmt.Sprintf("Removed %s %d from level %d", kind, i, n), warns)
}
