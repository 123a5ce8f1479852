package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pophale/internal/level"
)

var moveCmd = &cobra.Command{
	Use:   "move <level> <marker> <x> <y>",
	Short: "Move a marker to a new position",
	Long: `Move one of the single-instance markers to pixel (x, y), aligned for
that marker.

Markers: prince, exit-trigger, save-trigger, entrance-image, exit-image.

Examples:
  pophale move 0 prince 40 30
  pophale move 0 save-trigger 100 48`,
	Args: cobra.ExactArgs(4),
	Run:  runMove,
}

func runMove(_ *cobra.Command, args []string) {
	s := openSession()
	defer s.Close()

	n := s.parseLevel(args[0])
	marker, err := level.ParseMarker(args[1])
	if err != nil {
		s.fail("%v", err)
	}
	x, errX := strconv.Atoi(args[2])
	y, errY := strconv.Atoi(args[3])
	if errX != nil || errY != nil {
		s.fail("invalid position %s,%s", args[2], args[3])
	}

	lvl, _, err := s.ws.LoadLevel(n)
	if err != nil {
		s.fail("%v", err)
	}
	if err := lvl.Move(marker, x, y); err != nil {
		s.fail("%v", err)
	}
	pos, _ := lvl.At(marker)

	warns, err := s.ws.SaveLevel(lvl, n)
	if err != nil {
		s.fail("%v", err)
	}
	reportWarnings(fmt.Sprintf("Moved the %s of level %d to (%d,%d)", marker, n, pos.X, pos.Y), warns)
}
