package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pophale/internal/core"
)

var alignCmd = &cobra.Command{
	Use:   "align <x|y> <value> <target>",
	Short: "Align a coordinate to an offset within its cell",
	Long: `Move a pixel coordinate to the nearest position whose offset within
its cell equals target. Cells are 16 pixels wide and 24 pixels high.

Examples:
  pophale align x 37 9     # 41
  pophale align y 30 19    # 19`,
	Args: cobra.ExactArgs(3),
	Run:  runAlign,
}

func runAlign(_ *cobra.Command, args []string) {
	v, errV := strconv.Atoi(args[1])
	target, errT := strconv.Atoi(args[2])
	if errV != nil || errT != nil {
		fmt.Fprintf(os.Stderr, "Error: value and target must be integers\n")
		os.Exit(1)
	}

	var align func(v, target int) int
	var pitch int
	switch args[0] {
	case "x":
		align, pitch = core.AlignToCellColumn, core.CellWidth
	case "y":
		align, pitch = core.AlignToCellRow, core.CellHeight
	default:
		fmt.Fprintf(os.Stderr, "Error: axis must be x or y, got %q\n", args[0])
		os.Exit(1)
	}
	if target < 0 || target >= pitch {
		fmt.Fprintf(os.Stderr, "Error: target must be 0..%d\n", pitch-1)
		os.Exit(1)
	}

	fmt.Println(align(v, target))
}
