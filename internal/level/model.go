// Package level implements the in-memory model of a single level file and
// the codec that reads and writes it.
//
// The file layout is a fixed sequence of segments with no header, version
// tag or checksum: grid, eight counted record families, five fixed points,
// two reserved zero markers and the text segment. All integers are little
// endian; record counts are two bytes.
package level

import "github.com/vovakirdan/pophale/internal/core"

// Tile pitch in pixels. Object coordinates are pixels; the grid is cells.
const (
	CellWidth  = core.CellWidth
	CellHeight = core.CellHeight
)

// Point is a pixel position.
type Point struct {
	X uint16 `yaml:"x"`
	Y uint16 `yaml:"y"`
}

// UnknownRecord is an opaque four-byte record kept verbatim.
type UnknownRecord struct {
	A uint8 `yaml:"a"`
	B uint8 `yaml:"b"`
	C uint8 `yaml:"c"`
	D uint8 `yaml:"d"`
}

// FrontType is a deduplicated front kind. Fronts refer to it by position.
type FrontType struct {
	A  uint8 `yaml:"a"`
	B  uint8 `yaml:"b"`
	Nr uint8 `yaml:"nr"`
}

// Front is a foreground sprite instance.
type Front struct {
	X    uint16 `yaml:"x"`
	Y    uint16 `yaml:"y"`
	Type uint8  `yaml:"type"`
	A    uint8  `yaml:"a"`
	B    uint8  `yaml:"b"`
}

// Chomper is a chomping trap.
type Chomper struct {
	X uint16 `yaml:"x"`
	Y uint16 `yaml:"y"`
	A uint8  `yaml:"a"`
}

// Spike is a spike trap.
type Spike struct {
	X           uint16 `yaml:"x"`
	Y           uint16 `yaml:"y"`
	FacingRight uint8  `yaml:"facing_right"`
}

// Gate is a gate. TimeOpen is in ticks; see TicksPerSecond.
type Gate struct {
	X        uint16 `yaml:"x"`
	Y        uint16 `yaml:"y"`
	TimeOpen uint16 `yaml:"time_open"`
}

// TicksPerSecond converts gate open time between seconds and stored ticks.
const TicksPerSecond = 12

// Raise is a pressure plate that opens the gate at position Gate.
type Raise struct {
	Gate uint16 `yaml:"gate"`
	X    uint16 `yaml:"x"`
	Y    uint16 `yaml:"y"`
}

// Guard is an enemy. A..F tune its behaviour.
type Guard struct {
	X   uint16 `yaml:"x"`
	Y   uint16 `yaml:"y"`
	Dir uint8  `yaml:"dir"`
	HP  uint8  `yaml:"hp"`
	A   uint8  `yaml:"a"`
	B   uint8  `yaml:"b"`
	C   uint8  `yaml:"c"`
	D   uint8  `yaml:"d"`
	E   uint8  `yaml:"e"`
	F   uint8  `yaml:"f"`
}

// Potion is a potion or save lamp. Type ranges 0..3.
type Potion struct {
	Type uint8  `yaml:"type"`
	X    uint16 `yaml:"x"`
	Y    uint16 `yaml:"y"`
}

// Loose is a loose floor tile.
type Loose struct {
	X           uint16 `yaml:"x"`
	Y           uint16 `yaml:"y"`
	FacingRight uint8  `yaml:"facing_right"`
}

// Level is one decoded level file. Slices keep file order; that order is
// what the format round-trips.
type Level struct {
	Width  uint8
	Height uint8
	Grid   [][]uint8 // Height rows of Width tile codes

	Unknown    []UnknownRecord
	FrontTypes []FrontType
	Fronts     []Front

	Prince        Point
	ExitTrigger   Point
	SaveTrigger   Point
	EntranceImage Point
	ExitImage     Point

	Chompers []Chomper
	Spikes   []Spike
	Gates    []Gate
	Raises   []Raise
	Guards   []Guard
	Potions  []Potion
	Loose    []Loose

	Text Text
}

// New returns an empty level with a zero-filled grid.
func New(width, height uint8) *Level {
	l := &Level{Width: width, Height: height}
	l.Grid = make([][]uint8, height)
	for y := range l.Grid {
		l.Grid[y] = make([]uint8, width)
	}
	return l
}

// Tile returns the tile code at column x, row y (0-based).
func (l *Level) Tile(x, y int) (uint8, bool) {
	if y < 0 || y >= len(l.Grid) || x < 0 || x >= len(l.Grid[y]) {
		return 0, false
	}
	return l.Grid[y][x], true
}

// SetTile sets the tile code at column x, row y (0-based).
func (l *Level) SetTile(x, y int, code uint8) bool {
	if y < 0 || y >= len(l.Grid) || x < 0 || x >= len(l.Grid[y]) {
		return false
	}
	l.Grid[y][x] = code
	return true
}

// FrontKind returns the kind tag of a front, or false when its type index
// does not name a front type.
func (l *Level) FrontKind(f Front) (uint8, bool) {
	if int(f.Type) >= len(l.FrontTypes) {
		return 0, false
	}
	return l.FrontTypes[f.Type].Nr, true
}

// Cursor is a 1-based grid position.
type Cursor struct {
	Column int
	Row    int
}

// InitialCursor places the cursor on the cell holding the prince. Pixel
// coordinates are divided by the cell pitch (truncating) and clamped into
// the grid; an empty grid still yields 1,1.
func InitialCursor(l *Level) Cursor {
	row := min(int(l.Prince.Y)/CellHeight+1, int(l.Height))
	col := min(int(l.Prince.X)/CellWidth+1, int(l.Width))
	return Cursor{Column: max(col, 1), Row: max(row, 1)}
}
