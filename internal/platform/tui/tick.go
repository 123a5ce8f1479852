// Package tui provides the Bubble Tea programs of the level tools: a
// read-only level viewer and a browser for saved level revisions.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// reloadInterval is how often the viewer checks the level file for changes.
const reloadInterval = time.Second

// TickMsg is sent to trigger a check of the level file.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends one tick after interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
