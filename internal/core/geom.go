// Package core provides what the level codec and the viewer share:
// tile-pitch alignment, clamping, rectangles and a character screen buffer.
package core

// Tile pitch of the level grid in pixels.
const (
	CellWidth  = 16
	CellHeight = 24
)

// AlignToCellColumn returns the x nearest to x with x%16 == target.
// When the two candidates are equally far (a distance of 8) the result
// moves away from the target's side of the remainder: below when target is
// above the remainder, above when it is below. So 8 aligns to 16 for target
// 0 and 0 aligns to -8 for target 8. Callers placing objects must handle a
// negative result.
func AlignToCellColumn(x, target int) int {
	return alignTo(x, target, CellWidth)
}

// AlignToCellRow is AlignToCellColumn with a pitch of 24 and a tie at 12.
func AlignToCellRow(y, target int) int {
	return alignTo(y, target, CellHeight)
}

func alignTo(v, target, pitch int) int {
	half := pitch / 2
	rem := v % pitch
	switch {
	case rem == target:
		return v
	case target > rem:
		if target-rem >= half {
			return v - (rem + pitch - target)
		}
		return v + (target - rem)
	default:
		if rem-target >= half {
			return v + (target + pitch - rem)
		}
		return v - (rem - target)
	}
}

// Rect is an axis-aligned rectangle in cells.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge (exclusive).
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge (exclusive).
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Manhattan returns |x1-x2| + |y1-y2|.
func Manhattan(x1, y1, x2, y2 int) int {
	return Abs(x1-x2) + Abs(y1-y2)
}
