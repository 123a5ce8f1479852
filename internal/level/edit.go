package level

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/pophale/internal/core"
)

// ErrLastRecord is returned when a removal would leave a level without a
// record the game needs to start.
var ErrLastRecord = errors.New("level: cannot remove the last record")

// required lists the families that must keep at least one record. The game
// hangs on start (fronts, potions), on falls (spikes) or reports errors
// (gates) when they are empty.
var required = map[Kind]bool{
	KindFront:  true,
	KindSpike:  true,
	KindGate:   true,
	KindPotion: true,
}

// Remove deletes record i of kind k, shifting later records down.
func (l *Level) Remove(k Kind, i int) error {
	f, ok := families[k]
	if !ok {
		return fmt.Errorf("level: unknown record kind %d", int(k))
	}
	n := f.len(l)
	if i < 0 || i >= n {
		return fmt.Errorf("%w: %s %d of %d", ErrIndexRange, k, i, n)
	}
	if required[k] && n == 1 {
		return fmt.Errorf("%w: each level must have 1+ %s", ErrLastRecord, k)
	}
	f.remove(l, i)
	return nil
}

// nearestLimit is the largest distance Nearest will consider, exclusive.
const nearestLimit = 10000

// Nearest finds the placed record closest to (x, y) by Manhattan distance.
// Families are scanned in file order and the first record at the minimum
// distance wins.
func (l *Level) Nearest(x, y int) (Kind, int, bool) {
	best := nearestLimit
	var (
		kind  Kind
		index = -1
	)
	for _, k := range Kinds {
		for i := 0; i < l.Count(k); i++ {
			p, _ := l.Position(k, i)
			if d := core.Manhattan(x, y, int(p.X), int(p.Y)); d < best {
				best, kind, index = d, k, i
			}
		}
	}
	return kind, index, index >= 0
}

// Violation is one broken editor invariant.
type Violation struct {
	Kind    Kind
	Message string
}

func (v Violation) String() string { return v.Message }

// Validate reports the invariants the editor enforces but the file format
// does not: required families are non-empty, tile codes are drawable, front
// types and raise gates refer to existing records, text lines fit the
// editor's limits.
func (l *Level) Validate() []Violation {
	var out []Violation
	for _, k := range Kinds {
		if required[k] && l.Count(k) == 0 {
			out = append(out, Violation{k, fmt.Sprintf("each level must have 1+ %s", k)})
		}
	}
	for i, f := range l.Fronts {
		if _, ok := l.FrontKind(f); !ok {
			out = append(out, Violation{KindFront, fmt.Sprintf("front %d refers to missing front type %d", i, f.Type)})
		}
	}
	for y, row := range l.Grid {
		for x, code := range row {
			if code > MaxTile {
				out = append(out, Violation{Message: fmt.Sprintf("tile at column %d, row %d has invalid code %02X", x+1, y+1, code)})
			}
		}
	}
	for i, r := range l.Raises {
		if int(r.Gate) >= len(l.Gates) {
			out = append(out, Violation{KindRaise, fmt.Sprintf("raise %d refers to missing gate %d", i, r.Gate)})
		}
	}
	for i, line := range l.Text {
		if line == "" {
			continue
		}
		if err := ValidateLine(line); err != nil {
			out = append(out, Violation{Message: fmt.Sprintf("text line %d: %v", i+1, err)})
		}
	}
	return out
}

// Clear resets the grid to plain floor and drops every placed record except
// the first of each required family. Unknown records and front types stay.
func (l *Level) Clear() {
	for y := range l.Grid {
		for x := range l.Grid[y] {
			l.Grid[y][x] = TileFloor
		}
	}
	l.Fronts = keepFirst(l.Fronts)
	l.Spikes = keepFirst(l.Spikes)
	l.Gates = keepFirst(l.Gates)
	l.Potions = keepFirst(l.Potions)
	l.Chompers, l.Raises, l.Guards, l.Loose = nil, nil, nil, nil
}

// TileFloor is the plain floor tile code.
const TileFloor = 0x04

func keepFirst[T any](s []T) []T {
	if len(s) > 1 {
		return s[:1]
	}
	return s
}
