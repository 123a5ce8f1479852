package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pophale/internal/level"
)

var tileCmd = &cobra.Command{
	Use:   "tile <level> <column> <row> <code>",
	Short: "Set the tile of one grid cell",
	Long: `Set the background tile of a cell. Columns and rows count from 1,
as in the viewer's status line. Codes are hex, 00..37.

Examples:
  pophale tile 0 3 2 04
  pophale tile 0 3 2 0x21`,
	Args: cobra.ExactArgs(4),
	Run:  runTile,
}

func runTile(_ *cobra.Command, args []string) {
	s := openSession()
	defer s.Close()

	n := s.parseLevel(args[0])
	col, errC := strconv.Atoi(args[1])
	row, errR := strconv.Atoi(args[2])
	if errC != nil || errR != nil {
		s.fail("invalid cell %s,%s", args[1], args[2])
	}
	code, err := strconv.ParseUint(args[3], 16, 8)
	if err != nil {
		code, err = strconv.ParseUint(args[3], 0, 8)
	}
	if err != nil {
		s.fail("invalid tile code %q", args[3])
	}
	if _, ok := level.TileSlot(uint8(code)); !ok {
		s.fail("tile code %02X is not drawable (00..%02X)", code, level.MaxTile)
	}

	lvl, _, err := s.ws.LoadLevel(n)
	if err != nil {
		s.fail("%v", err)
	}
	if !lvl.SetTile(col-1, row-1, uint8(code)) {
		s.fail("cell %d,%d is outside the %dx%d grid", col, row, lvl.Width, lvl.Height)
	}

	warns, err := s.ws.SaveLevel(lvl, n)
	if err != nil {
		s.fail("%v", err)
	}
	reportWarnings(fmt.Sprintf("Set column %d, row %d of level %d to %02X", col, row, n, code), warns)
}
