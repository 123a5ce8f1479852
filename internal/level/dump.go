package level

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a line-per-field listing of l for debugging.
func Dump(w io.Writer, l *Level) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Width: %d, Height: %d\n", l.Width, l.Height)
	for y, row := range l.Grid {
		fmt.Fprintf(&b, "(Row %2d) %s\n", y+1, formatRow(row))
	}

	fmt.Fprintf(&b, "# Unknown: %d\n", len(l.Unknown))
	for _, u := range l.Unknown {
		fmt.Fprintf(&b, "(Unknown) A: %d, B: %d, C: %d, D: %d\n", u.A, u.B, u.C, u.D)
	}
	fmt.Fprintf(&b, "# Front types: %d\n", len(l.FrontTypes))
	for i, ft := range l.FrontTypes {
		fmt.Fprintf(&b, "(Front type %d) A: %d, B: %d, Nr: 0x%02X (%s)\n", i, ft.A, ft.B, ft.Nr, FrontKindName(ft.Nr))
	}
	fmt.Fprintf(&b, "# Front: %d\n", len(l.Fronts))
	for _, f := range l.Fronts {
		kind := "?"
		if nr, ok := l.FrontKind(f); ok {
			kind = FrontKindName(nr)
		}
		fmt.Fprintf(&b, "(Front) X: %d, Y: %d, type: %d (%s), A: %d, B: %d\n", f.X, f.Y, f.Type, kind, f.A, f.B)
	}

	for _, m := range Markers {
		p, _ := l.At(m)
		fmt.Fprintf(&b, "(%s) X: %d, Y: %d\n", m, p.X, p.Y)
	}

	fmt.Fprintf(&b, "# Chompers: %d\n", len(l.Chompers))
	for _, c := range l.Chompers {
		fmt.Fprintf(&b, "(Chomper) X: %d, Y: %d, A: %d\n", c.X, c.Y, c.A)
	}
	fmt.Fprintf(&b, "# Spikes: %d\n", len(l.Spikes))
	for _, s := range l.Spikes {
		fmt.Fprintf(&b, "(Spike) X: %d, Y: %d, right: %d\n", s.X, s.Y, s.FacingRight)
	}
	fmt.Fprintf(&b, "# Gates: %d\n", len(l.Gates))
	for _, g := range l.Gates {
		fmt.Fprintf(&b, "(Gate) X: %d, Y: %d, time open: %d (%ds)\n", g.X, g.Y, g.TimeOpen, g.Seconds())
	}
	fmt.Fprintf(&b, "# Raise: %d\n", len(l.Raises))
	for _, r := range l.Raises {
		fmt.Fprintf(&b, "(Raise) gate: %d, X: %d, Y: %d\n", r.Gate, r.X, r.Y)
	}
	fmt.Fprintf(&b, "# Guards: %d\n", len(l.Guards))
	for _, g := range l.Guards {
		fmt.Fprintf(&b, "(Guard) X: %d, Y: %d, dir: %d, HP: %d, A-F: %d %d %d %d %d %d\n",
			g.X, g.Y, g.Dir, g.HP, g.A, g.B, g.C, g.D, g.E, g.F)
	}
	fmt.Fprintf(&b, "# Potions (inc. save lamp): %d\n", len(l.Potions))
	for _, p := range l.Potions {
		fmt.Fprintf(&b, "(Potion) type: %d, X: %d, Y: %d\n", p.Type, p.X, p.Y)
	}
	fmt.Fprintf(&b, "# Loose: %d\n", len(l.Loose))
	for _, lo := range l.Loose {
		fmt.Fprintf(&b, "(Loose) X: %d, Y: %d, right: %d\n", lo.X, lo.Y, lo.FacingRight)
	}

	lines := l.Text.Lines()
	fmt.Fprintf(&b, "Text: %d chars; %d lines\n", l.Text.EncodedLen(), len(lines))
	for _, line := range lines {
		fmt.Fprintf(&b, "(Text) >%s<\n", line)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
