package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/pophale/internal/platform/tui"
)

var (
	flagHistoryLimit  int
	flagHistoryBrowse bool
	flagHistoryClear  bool
)

var historyCmd = &cobra.Command{
	Use:   "history [level]",
	Short: "List saved revisions of a level",
	Long: `List the revisions of a level recorded in the history database.

Every save records the new file and, when it changed, the file it
replaced. With --browse the revisions are shown in an interactive table;
pressing Enter restores the selected one. Without a level, the number of
revisions of every level is shown.

Examples:
  pophale history
  pophale history 2
  pophale history 2 --limit 50
  pophale history 2 --browse
  pophale history 2 --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Number of revisions to list")
	historyCmd.Flags().BoolVar(&flagHistoryBrowse, "browse", false, "Pick a revision to restore interactively")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete every saved revision of the level")
}

func runHistory(_ *cobra.Command, args []string) {
	s := openSession()
	defer s.Close()

	if len(args) == 0 {
		historySummary(s)
		return
	}

	n := s.parseLevel(args[0])
	switch {
	case flagHistoryClear:
		if err := s.ws.ClearHistory(n); err != nil {
			s.fail("%v", err)
		}
		fmt.Printf("Cleared the history of level %d.\n", n)
		return
	case flagHistoryBrowse:
		browseHistory(s, n)
		return
	}

	revisions, err := s.ws.History(n, flagHistoryLimit)
	if err != nil {
		s.fail("%v", err)
	}

	fmt.Printf("Revisions - level %d\n", n)
	fmt.Println()

	if len(revisions) == 0 {
		fmt.Println("No revisions saved yet.")
		return
	}

	// Print header
	fmt.Printf("  %-6s  %-16s  %-6s  %-8s  %s\n", "ID", "Saved", "Bytes", "SHA-256", "Note")
	fmt.Printf("  %-6s  %-16s  %-6s  %-8s  %s\n", "--", "-----", "-----", "-------", "----")

	for _, r := range revisions {
		fmt.Printf("  %-6d  %-16s  %-6d  %-8s  %s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Size, r.Checksum[:min(8, len(r.Checksum))], r.Note)
	}

	fmt.Println()
	fmt.Println("Run 'pophale restore <id>' to bring a revision back.")
}

func historySummary(s *session) {
	stats, err := s.ws.HistoryStats()
	if err != nil {
		s.fail("%v", err)
	}

	fmt.Println("Revisions per level")
	fmt.Println()

	if len(stats) == 0 {
		fmt.Println("No revisions saved yet.")
		return
	}

	fmt.Printf("  %-5s  %-9s  %s\n", "Level", "Revisions", "Last saved")
	fmt.Printf("  %-5s  %-9s  %s\n", "-----", "---------", "----------")
	for _, st := range stats {
		fmt.Printf("  %-5d  %-9d  %s\n", st.Level, st.Revisions, st.LastSaved.Format("2006-01-02 15:04"))
	}
}

func browseHistory(s *session, n int) {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	id, ok, err := tui.RunHistory(s.ws, n, width, height)
	if err != nil {
		s.fail("%v", err)
	}
	if !ok {
		return
	}
	restore(s, id)
}
