package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pophale/internal/level"
)

var flagTextClear bool

var textCmd = &cobra.Command{
	Use:   "text <level> [line...]",
	Short: "Show or replace the intro text of a level",
	Long: `Without lines, print the level's intro text. With lines, replace
it. Up to 12 lines of at most 22 characters: letters, space, apostrophe,
exclamation mark and period.

Examples:
  pophale text 0
  pophale text 0 "THE PALACE" "AWAITS."
  pophale text 0 --clear`,
	Args: cobra.MinimumNArgs(1),
	Run:  runText,
}

func init() {
	textCmd.Flags().BoolVar(&flagTextClear, "clear", false, "Remove all text")
}

func runText(_ *cobra.Command, args []string) {
	s := openSession()
	defer s.Close()

	n := s.parseLevel(args[0])
	lvl, _, err := s.ws.LoadLevel(n)
	if err != nil {
		s.fail("%v", err)
	}

	if len(args) == 1 && !flagTextClear {
		for _, line := range lvl.Text.Lines() {
			display, err := level.DisplayLine(line)
			if err != nil {
				display = line
			}
			fmt.Println(display)
		}
		return
	}

	text, err := level.TextFromLines(args[1:])
	if err != nil {
		s.fail("%v", err)
	}
	lvl.Text = text

	warns, err := s.ws.SaveLevel(lvl, n)
	if err != nil {
		s.fail("%v", err)
	}
	reportWarnings(fmt.Sprintf("Set %d text line(s) of level %d", len(text.Lines()), n), warns)
}
