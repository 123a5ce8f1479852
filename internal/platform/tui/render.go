package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/pophale/internal/core"
	"github.com/vovakirdan/pophale/internal/level"
)

// tileCellWidth is the number of screen columns one level cell takes: two
// hex digits and a gap.
const tileCellWidth = 3

// colorStyles maps core.Color roles to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault: lipgloss.NewStyle(),
	core.ColorEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	core.ColorFloor:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorTile:    lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorInvalid: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	core.ColorFront:   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorHazard:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	core.ColorGate:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
	core.ColorGuard:   lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true),
	core.ColorPotion:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
	core.ColorPrince:  lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
	core.ColorTrigger: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorCursor:  lipgloss.NewStyle().Reverse(true),
	core.ColorDim:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same color
		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// tileGlyph returns the two characters and color of a background tile.
func tileGlyph(code uint8) (string, core.Color) {
	switch {
	case code == 0x00:
		return "··", core.ColorEmpty
	case code == level.TileFloor:
		return "04", core.ColorFloor
	case code > level.MaxTile:
		return fmt.Sprintf("%02X", code), core.ColorInvalid
	default:
		return fmt.Sprintf("%02X", code), core.ColorTile
	}
}

var markerGlyphs = map[level.Marker]rune{
	level.MarkerPrince:        'P',
	level.MarkerExitTrigger:   'E',
	level.MarkerSaveTrigger:   'S',
	level.MarkerEntranceImage: 'I',
	level.MarkerExitImage:     'O',
}

var kindGlyphs = map[level.Kind]struct {
	r rune
	c core.Color
}{
	level.KindFront:   {'f', core.ColorFront},
	level.KindChomper: {'C', core.ColorHazard},
	level.KindSpike:   {'^', core.ColorHazard},
	level.KindGate:    {'|', core.ColorGate},
	level.KindRaise:   {'_', core.ColorGate},
	level.KindGuard:   {'G', core.ColorGuard},
	level.KindPotion:  {'!', core.ColorPotion},
	level.KindLoose:   {'~', core.ColorHazard},
}

// objectGlyph returns the character and color an object is drawn with.
func objectGlyph(o level.Object) (rune, core.Color) {
	if o.Marker != 0 {
		c := core.ColorTrigger
		if o.Marker == level.MarkerPrince {
			c = core.ColorPrince
		}
		return markerGlyphs[o.Marker], c
	}
	g, ok := kindGlyphs[o.Kind]
	if !ok {
		return '?', core.ColorDefault
	}
	return g.r, g.c
}

// cellPos is a 0-based level cell.
type cellPos struct {
	col, row int
}

// cellOf returns the level cell holding pixel position p.
func cellOf(p level.Point) cellPos {
	return cellPos{col: int(p.X) / level.CellWidth, row: int(p.Y) / level.CellHeight}
}

// indexObjects groups the objects of l by the cell they stand in.
func indexObjects(l *level.Level) map[cellPos][]level.Object {
	out := make(map[cellPos][]level.Object)
	for _, o := range l.Objects() {
		pos := cellOf(o.Pos)
		out[pos] = append(out[pos], o)
	}
	return out
}

// drawLevel draws the cells of l inside view (in level cells) onto s, with
// objects over their tiles and the cursor highlighted.
func drawLevel(s *core.Screen, l *level.Level, objects map[cellPos][]level.Object, view core.Rect, cur level.Cursor) {
	s.Clear()
	for row := view.Y; row < view.Bottom(); row++ {
		for col := view.X; col < view.Right(); col++ {
			code, ok := l.Tile(col, row)
			if !ok {
				continue
			}
			sx := (col - view.X) * tileCellWidth
			sy := row - view.Y

			glyph, color := tileGlyph(code)
			s.DrawText(sx, sy, glyph, color)

			if objs := objects[cellPos{col, row}]; len(objs) > 0 {
				r, c := objectGlyph(objs[0])
				more := ' '
				if len(objs) > 1 {
					more = '+'
				}
				s.Set(sx, sy, r, c)
				s.Set(sx+1, sy, more, c)
			}

			if col == cur.Column-1 && row == cur.Row-1 {
				for dx := range tileCellWidth - 1 {
					cell := s.GetCell(sx+dx, sy)
					s.Set(sx+dx, sy, cell.Rune, core.ColorCursor)
				}
			}
		}
	}
}

// scrollTo moves view the least needed to show cell (col, row) and keeps
// it within a level of the given size.
func scrollTo(view core.Rect, col, row, width, height int) core.Rect {
	if col < view.X {
		view.X = col
	} else if col >= view.Right() {
		view.X = col - view.W + 1
	}
	if row < view.Y {
		view.Y = row
	} else if row >= view.Bottom() {
		view.Y = row - view.H + 1
	}
	view.X = core.Clamp(view.X, 0, max(width-view.W, 0))
	view.Y = core.Clamp(view.Y, 0, max(height-view.H, 0))
	return view
}
