package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/pophale/internal/storage"
)

// maxRevisions is the number of revisions loaded per level.
const maxRevisions = 100

// HistorySource lists saved revisions of a level.
type HistorySource interface {
	History(n, limit int) ([]storage.Revision, error)
	MaxLevel() int
}

// HistoryModel is the Bubble Tea model for browsing level revisions.
type HistoryModel struct {
	src       HistorySource
	levelNr   int
	revisions []storage.Revision
	loadErr   error
	table     table.Model
	help      help.Model
	keys      HistoryKeyMap
	width     int
	height    int
	selected  int64 // revision chosen with Select, 0 when cancelled
	done      bool
}

// NewHistoryModel creates a revision browser starting at level n.
func NewHistoryModel(src HistorySource, n, width, height int) HistoryModel {
	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		src:    src,
		keys:   DefaultHistoryKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.loadRevisions(n)
	return m
}

// createTable creates a new table with appropriate columns.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Saved", Width: 14},
		{Title: "Bytes", Width: 7},
		{Title: "SHA-256", Width: 10},
		{Title: "Note", Width: 12},
	}

	// Give the note column the spare width
	if spare := m.width - 4 - 6 - 14 - 7 - 10 - 10; spare > 12 {
		columns[4].Width = min(spare, 40)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	// Table styles
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadRevisions loads the revisions of level n.
func (m *HistoryModel) loadRevisions(n int) {
	m.levelNr = n
	m.revisions, m.loadErr = m.src.History(n, maxRevisions)
	m.updateTableRows()
}

// updateTableRows updates the table with current revisions.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.revisions))
	for i, r := range m.revisions {
		rows[i] = table.Row{
			fmt.Sprintf("%d", r.ID),
			r.CreatedAt.Format("Jan 02 15:04"),
			fmt.Sprintf("%d", r.Size),
			r.Checksum[:min(8, len(r.Checksum))],
			r.Note,
		}
	}
	m.table.SetRows(rows)

	// Reset cursor to top
	m.table.GotoTop()
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the revision browser.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	levels := m.src.MaxLevel() + 1

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			m.done = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Select):
			if i := m.table.Cursor(); i >= 0 && i < len(m.revisions) {
				m.selected = m.revisions[i].ID
				m.done = true
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.NextLevel):
			m.loadRevisions((m.levelNr + 1) % levels)
			return m, nil

		case key.Matches(msg, m.keys.PrevLevel):
			m.loadRevisions((m.levelNr + levels - 1) % levels)
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			// Pass to table for scrolling
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the revision browser.
func (m HistoryModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	b.WriteString(titleStyle.Render(fmt.Sprintf("REVISIONS - LEVEL %d", m.levelNr)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	// Help bar
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or an explanation why it is empty.
func (m HistoryModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)
	if m.loadErr != nil {
		return emptyStyle.Render(m.loadErr.Error())
	}
	if len(m.revisions) == 0 {
		return emptyStyle.Render("No revisions saved yet.\nSaving a level records one.")
	}

	return m.table.View()
}

// Selected returns the chosen revision, or false if the browser was cancelled.
func (m HistoryModel) Selected() (int64, bool) {
	return m.selected, m.selected != 0
}

// RunHistory runs the revision browser and returns the chosen revision.
func RunHistory(src HistorySource, n, width, height int) (int64, bool, error) {
	model := NewHistoryModel(src, n, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return 0, false, err
	}

	m, ok := finalModel.(HistoryModel)
	if !ok {
		return 0, false, nil
	}

	id, chosen := m.Selected()
	return id, chosen, nil
}
