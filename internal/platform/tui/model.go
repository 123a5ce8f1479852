package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/pophale/internal/core"
	"github.com/vovakirdan/pophale/internal/level"
)

// Viewer layout constants
const (
	minWidthForPanel = 70 // Minimum width to show the text panel beside the map
	panelWidth       = 28 // Text panel width including border
	chromeLines      = 4  // Title, two status lines and help
)

// LevelSource loads levels by number.
type LevelSource interface {
	LoadLevel(n int) (*level.Level, level.Cursor, error)
	LevelPath(n int) (string, error)
	MaxLevel() int
}

// Model is the Bubble Tea model of the read-only level viewer.
type Model struct {
	src      LevelSource
	keys     ViewerKeyMap
	help     help.Model
	levelNr  int
	lvl      *level.Level
	objects  map[cellPos][]level.Object
	cursor   level.Cursor
	view     core.Rect // visible level cells
	screen   *core.Screen
	modTime  time.Time
	err      error
	showText bool
	width    int
	height   int
	quitting bool
}

// NewModel creates a viewer showing level n.
func NewModel(src LevelSource, n, width, height int) Model {
	h := help.New()
	h.ShowAll = false

	m := Model{
		src:      src,
		keys:     DefaultViewerKeyMap(),
		help:     h,
		screen:   core.NewScreen(0, 0),
		showText: true,
		width:    width,
		height:   height,
	}
	m.layout()
	m.load(n)
	return m
}

// load reads level n. On failure the error is shown in place of the map.
func (m *Model) load(n int) {
	lvl, cur, err := m.src.LoadLevel(n)
	m.levelNr = n
	if err != nil {
		m.err = err
		m.lvl = nil
		m.objects = nil
		return
	}
	m.err = nil
	m.lvl = lvl
	m.cursor = cur
	m.objects = indexObjects(lvl)
	m.modTime = m.levelModTime()
	m.view = scrollTo(m.view, cur.Column-1, cur.Row-1, int(lvl.Width), int(lvl.Height))
}

func (m *Model) levelModTime() time.Time {
	path, err := m.src.LevelPath(m.levelNr)
	if err != nil {
		return time.Time{}
	}
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return fi.ModTime()
}

// panelShown reports whether the text panel fits beside the map.
func (m *Model) panelShown() bool {
	return m.showText && m.width >= minWidthForPanel
}

// layout sizes the map screen and viewport to the terminal.
func (m *Model) layout() {
	mapWidth := m.width
	if m.panelShown() {
		mapWidth -= panelWidth + 1
	}
	mapHeight := max(m.height-chromeLines, 1)

	m.screen.Resize(max(mapWidth, 0), mapHeight)
	m.view.W = max(mapWidth/tileCellWidth, 1)
	m.view.H = mapHeight
	if m.lvl != nil {
		m.view = scrollTo(m.view, m.cursor.Column-1, m.cursor.Row-1, int(m.lvl.Width), int(m.lvl.Height))
	}
	m.help.Width = m.width
}

// moveCursor shifts the cursor, clamped to the grid.
func (m *Model) moveCursor(dc, dr int) {
	if m.lvl == nil {
		return
	}
	m.cursor.Column = core.Clamp(m.cursor.Column+dc, 1, max(int(m.lvl.Width), 1))
	m.cursor.Row = core.Clamp(m.cursor.Row+dr, 1, max(int(m.lvl.Height), 1))
	m.view = scrollTo(m.view, m.cursor.Column-1, m.cursor.Row-1, int(m.lvl.Width), int(m.lvl.Height))
}

// Init starts the level file polling.
func (m Model) Init() tea.Cmd {
	return tickCmd(reloadInterval)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case TickMsg:
		if mt := m.levelModTime(); !mt.IsZero() && !mt.Equal(m.modTime) {
			cur := m.cursor
			m.load(m.levelNr)
			if m.err == nil {
				m.cursor = cur
				m.moveCursor(0, 0)
			}
		}
		return m, tickCmd(reloadInterval)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	levels := m.src.MaxLevel() + 1

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(0, -1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(0, 1)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1, 0)
	case key.Matches(msg, m.keys.Home):
		if m.lvl != nil {
			m.cursor = level.InitialCursor(m.lvl)
			m.moveCursor(0, 0)
		}
	case key.Matches(msg, m.keys.NextLevel):
		m.load((m.levelNr + 1) % levels)
	case key.Matches(msg, m.keys.PrevLevel):
		m.load((m.levelNr + levels - 1) % levels)
	case key.Matches(msg, m.keys.Reload):
		m.load(m.levelNr)
	case key.Matches(msg, m.keys.Text):
		m.showText = !m.showText
		m.layout()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// View renders the viewer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(m.title()))
	b.WriteString("\n")

	if m.err != nil {
		errStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Padding(1, 2)
		b.WriteString(errStyle.Render(m.err.Error()))
		b.WriteString("\n")
	} else {
		drawLevel(m.screen, m.lvl, m.objects, m.view, m.cursor)
		body := RenderScreen(m.screen)
		if m.panelShown() {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", m.renderTextPanel())
		}
		b.WriteString(body)
		b.WriteString("\n")
		b.WriteString(m.statusLine())
		b.WriteString("\n")
		b.WriteString(m.objectsLine())
		b.WriteString("\n")
	}

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m Model) title() string {
	if m.lvl == nil {
		return fmt.Sprintf("LEVEL %d", m.levelNr)
	}
	return fmt.Sprintf("LEVEL %d  %dx%d cells  %d objects", m.levelNr, m.lvl.Width, m.lvl.Height, len(m.lvl.Objects()))
}

// statusLine describes the cell under the cursor.
func (m Model) statusLine() string {
	code, _ := m.lvl.Tile(m.cursor.Column-1, m.cursor.Row-1)
	slot := "none"
	if s, ok := level.TileSlot(code); ok {
		slot = fmt.Sprintf("%d", s)
	}
	x := (m.cursor.Column - 1) * level.CellWidth
	y := (m.cursor.Row - 1) * level.CellHeight
	return fmt.Sprintf("Column %d, row %d  (x %d..%d, y %d..%d)  tile %02X, sheet slot %s",
		m.cursor.Column, m.cursor.Row, x, x+level.CellWidth-1, y, y+level.CellHeight-1, code, slot)
}

// objectsLine lists the objects standing in the cursor's cell.
func (m Model) objectsLine() string {
	objs := m.objects[cellPos{m.cursor.Column - 1, m.cursor.Row - 1}]
	if len(objs) == 0 {
		return colorStyles[core.ColorDim].Render("No objects here.")
	}
	parts := make([]string, len(objs))
	for i, o := range objs {
		r, c := objectGlyph(o)
		parts[i] = colorStyles[c].Render(string(r)) + fmt.Sprintf(" %s (%d,%d)", o, o.Pos.X, o.Pos.Y)
	}
	return strings.Join(parts, ", ")
}

// renderTextPanel shows the level's text lines.
func (m Model) renderTextPanel() string {
	panelStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(panelWidth-2).
		Padding(0, 1)

	var body strings.Builder
	body.WriteString("Text\n")
	body.WriteString(strings.Repeat("-", panelWidth-6))
	body.WriteString("\n")

	lines := m.lvl.Text.Lines()
	if len(lines) == 0 {
		body.WriteString(colorStyles[core.ColorDim].Render("(none)"))
	}
	for i, line := range lines {
		s, err := level.DisplayLine(line)
		if err != nil {
			s = line
		}
		if i > 0 {
			body.WriteString("\n")
		}
		body.WriteString(s)
	}
	return panelStyle.Render(body.String())
}

// Run starts the viewer on level n.
func Run(src LevelSource, n, width, height int) error {
	model := NewModel(src, n, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
