package level

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vovakirdan/pophale/internal/core"
)

// Front kind tags stored in FrontType.Nr.
const (
	FrontTorch            uint8 = 0x30
	FrontPillar           uint8 = 0x31
	FrontSkeleton         uint8 = 0x32
	FrontWallTopLeftSlash uint8 = 0x33
	FrontWallTopLeftDot   uint8 = 0x34
	FrontWallBottomLeft   uint8 = 0x35
	FrontFloorClimbable   uint8 = 0x36
)

// noAlign leaves a coordinate where it was placed.
const noAlign = -1

type frontSpec struct {
	name   string
	alignX int
	alignY int
}

var frontSpecs = map[uint8]frontSpec{
	FrontTorch:            {"torch", noAlign, noAlign},
	FrontPillar:           {"pillar front", 4, 21},
	FrontSkeleton:         {"skeleton", noAlign, 13},
	FrontWallTopLeftSlash: {"wall top left slash", 9, 0},
	FrontWallTopLeftDot:   {"wall top left dot", 9, 0},
	FrontWallBottomLeft:   {"wall bottom left", 11, 22},
	FrontFloorClimbable:   {"floor climbable", 3, 3},
}

// FrontKindName returns the display name of a front kind tag.
func FrontKindName(nr uint8) string {
	if s, ok := frontSpecs[nr]; ok {
		return s.name
	}
	return fmt.Sprintf("front 0x%02X", nr)
}

// placeX aligns a placement coordinate to the tile pitch. A target of
// noAlign keeps v. Results that align below zero move up one cell so they
// stay on the map.
func placeX(v, target int) uint16 {
	if target != noAlign {
		v = core.AlignToCellColumn(v, target)
		if v < 0 {
			v += CellWidth
		}
	}
	return clampWord(v)
}

func placeY(v, target int) uint16 {
	if target != noAlign {
		v = core.AlignToCellRow(v, target)
		if v < 0 {
			v += CellHeight
		}
	}
	return clampWord(v)
}

func clampWord(v int) uint16 {
	return uint16(core.Clamp(v, 0, math.MaxUint16))
}

// AddFront places a front of the given kind at (x, y), aligned for its kind.
// The last front type with a matching tag is reused; otherwise a new type
// {A: 1, B: 0, Nr: kind} is appended. It returns the new front's index.
func (l *Level) AddFront(x, y int, kind, a, b uint8) (int, error) {
	spec, ok := frontSpecs[kind]
	if !ok {
		return 0, fmt.Errorf("level: unknown front kind 0x%02X", kind)
	}
	typ := -1
	for i, ft := range l.FrontTypes {
		if ft.Nr == kind {
			typ = i
		}
	}
	if typ < 0 {
		if len(l.FrontTypes) > math.MaxUint8 {
			return 0, fmt.Errorf("%w: front types", ErrTooManyRecords)
		}
		l.FrontTypes = append(l.FrontTypes, FrontType{A: 1, B: 0, Nr: kind})
		typ = len(l.FrontTypes) - 1
	}
	l.Fronts = append(l.Fronts, Front{
		X:    placeX(x, spec.alignX),
		Y:    placeY(y, spec.alignY),
		Type: uint8(typ),
		A:    a,
		B:    b,
	})
	return len(l.Fronts) - 1, nil
}

// Marker names one of the five single-instance points.
type Marker int

const (
	MarkerPrince Marker = iota + 1
	MarkerExitTrigger
	MarkerSaveTrigger
	MarkerEntranceImage
	MarkerExitImage
)

var markerSpecs = map[Marker]struct {
	name   string
	alignX int
	alignY int
	field  func(l *Level) *Point
}{
	MarkerPrince:        {"prince", noAlign, 19, func(l *Level) *Point { return &l.Prince }},
	MarkerExitTrigger:   {"exit trigger", noAlign, 18, func(l *Level) *Point { return &l.ExitTrigger }},
	MarkerSaveTrigger:   {"save trigger", 7, 19, func(l *Level) *Point { return &l.SaveTrigger }},
	MarkerEntranceImage: {"entrance image", noAlign, 9, func(l *Level) *Point { return &l.EntranceImage }},
	MarkerExitImage:     {"exit image", noAlign, 9, func(l *Level) *Point { return &l.ExitImage }},
}

func (m Marker) String() string {
	if s, ok := markerSpecs[m]; ok {
		return s.name
	}
	return fmt.Sprintf("marker(%d)", int(m))
}

// ParseMarker accepts a marker name; dashes and underscores stand for
// spaces, so "exit-trigger" names the exit trigger.
func ParseMarker(s string) (Marker, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	for _, m := range Markers {
		if markerSpecs[m].name == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("level: unknown marker %q", s)
}

// Markers lists the single-instance points in file order.
var Markers = []Marker{MarkerPrince, MarkerExitTrigger, MarkerSaveTrigger, MarkerEntranceImage, MarkerExitImage}

// At returns the position of marker m.
func (l *Level) At(m Marker) (Point, bool) {
	s, ok := markerSpecs[m]
	if !ok {
		return Point{}, false
	}
	return *s.field(l), true
}

// Object is one placed marker or record. Marker is zero for records.
type Object struct {
	Marker Marker
	Kind   Kind
	Index  int
	Pos    Point
}

func (o Object) String() string {
	if o.Marker != 0 {
		return o.Marker.String()
	}
	return fmt.Sprintf("%s %d", o.Kind, o.Index)
}

// Objects lists the markers, then every record family in file order.
func (l *Level) Objects() []Object {
	var out []Object
	for _, m := range Markers {
		p, _ := l.At(m)
		out = append(out, Object{Marker: m, Pos: p})
	}
	for _, k := range Kinds {
		for i := range l.Count(k) {
			p, _ := l.Position(k, i)
			out = append(out, Object{Kind: k, Index: i, Pos: p})
		}
	}
	return out
}

// Move places a marker at (x, y), aligned for its kind.
func (l *Level) Move(m Marker, x, y int) error {
	s, ok := markerSpecs[m]
	if !ok {
		return fmt.Errorf("level: unknown marker %d", int(m))
	}
	*s.field(l) = Point{X: placeX(x, s.alignX), Y: placeY(y, s.alignY)}
	return nil
}

// AddChomper places a chomper; only its row is aligned.
func (l *Level) AddChomper(x, y int, a uint8) int {
	l.Chompers = append(l.Chompers, Chomper{X: placeX(x, noAlign), Y: placeY(y, 22), A: a})
	return len(l.Chompers) - 1
}

// AddSpike places a spike trap.
func (l *Level) AddSpike(x, y int, facingRight uint8) int {
	l.Spikes = append(l.Spikes, Spike{X: placeX(x, 9), Y: placeY(y, 0), FacingRight: facingRight})
	return len(l.Spikes) - 1
}

// AddGate places a gate that stays open for the given number of seconds.
// The x alignment lines the gate up with its back tile.
func (l *Level) AddGate(x, y int, seconds int) int {
	l.Gates = append(l.Gates, Gate{
		X:        placeX(x, 6),
		Y:        placeY(y, 22),
		TimeOpen: clampWord(seconds * TicksPerSecond),
	})
	return len(l.Gates) - 1
}

// Seconds returns the gate's open time in whole seconds.
func (g Gate) Seconds() int {
	return int(g.TimeOpen) / TicksPerSecond
}

// AddRaise places a pressure plate opening gate index gate.
func (l *Level) AddRaise(x, y int, gate uint16) int {
	l.Raises = append(l.Raises, Raise{Gate: gate, X: placeX(x, 15), Y: placeY(y, 0)})
	return len(l.Raises) - 1
}

// DefaultGuard is the tuning a newly placed guard starts with.
var DefaultGuard = Guard{Dir: 0, HP: 3, A: 0, B: 5, C: 0, D: 6, E: 0, F: 8}

// AddGuard places a guard with the tuning of g; g's position is ignored.
func (l *Level) AddGuard(x, y int, g Guard) int {
	g.X = placeX(x, noAlign)
	g.Y = placeY(y, 18)
	l.Guards = append(l.Guards, g)
	return len(l.Guards) - 1
}

// PotionSaveLamp is the potion type drawn as the save lamp. Types 0..2 are
// drinkable potions.
const PotionSaveLamp uint8 = 3

// x and y alignment targets per potion type.
var potionAlign = [4][2]int{
	{13, 18},
	{12, 18},
	{12, 18},
	PotionSaveLamp: {8, 22},
}

// AddPotion places a potion of type typ (0..3).
func (l *Level) AddPotion(x, y int, typ uint8) (int, error) {
	if int(typ) >= len(potionAlign) {
		return 0, fmt.Errorf("level: unknown potion type %d", typ)
	}
	a := potionAlign[typ]
	l.Potions = append(l.Potions, Potion{Type: typ, X: placeX(x, a[0]), Y: placeY(y, a[1])})
	return len(l.Potions) - 1, nil
}

// AddLoose places a loose floor tile; its x alignment depends on facing.
func (l *Level) AddLoose(x, y int, facingRight uint8) int {
	ax := 12
	if facingRight == 1 {
		ax = 14
	}
	l.Loose = append(l.Loose, Loose{X: placeX(x, ax), Y: placeY(y, 1), FacingRight: facingRight})
	return len(l.Loose) - 1
}

// ParseFrontKind accepts a front kind name or its tag, such as "pillar
// front", "pillar-front" or "0x31".
func ParseFrontKind(s string) (uint8, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	for nr, spec := range frontSpecs {
		if spec.name == name {
			return nr, nil
		}
	}
	if v, err := strconv.ParseUint(name, 0, 8); err == nil {
		if _, ok := frontSpecs[uint8(v)]; ok {
			return uint8(v), nil
		}
	}
	return 0, fmt.Errorf("level: unknown front kind %q", s)
}

// Placement holds the settings of a record placed with Place. Each kind
// reads only its own fields.
type Placement struct {
	Front       uint8  // front kind tag
	A, B        uint8  // front and chomper tuning
	FacingRight uint8  // spike, loose
	Seconds     int    // gate open time
	Gate        uint16 // gate a raise opens
	Guard       *Guard // guard tuning, DefaultGuard when nil
	Potion      uint8  // potion type
}

// Place adds a record of kind k at (x, y), aligned the way the editor
// aligns that kind, and returns its index.
func (l *Level) Place(k Kind, x, y int, p Placement) (int, error) {
	if l.Count(k) >= math.MaxUint16 {
		return 0, fmt.Errorf("%w: %s", ErrTooManyRecords, k)
	}
	switch k {
	case KindFront:
		return l.AddFront(x, y, p.Front, p.A, p.B)
	case KindChomper:
		return l.AddChomper(x, y, p.A), nil
	case KindSpike:
		return l.AddSpike(x, y, p.FacingRight), nil
	case KindGate:
		return l.AddGate(x, y, p.Seconds), nil
	case KindRaise:
		if int(p.Gate) >= len(l.Gates) {
			return 0, fmt.Errorf("%w: gate %d of %d", ErrIndexRange, p.Gate, len(l.Gates))
		}
		return l.AddRaise(x, y, p.Gate), nil
	case KindGuard:
		g := DefaultGuard
		if p.Guard != nil {
			g = *p.Guard
		}
		return l.AddGuard(x, y, g), nil
	case KindPotion:
		return l.AddPotion(x, y, p.Potion)
	case KindLoose:
		return l.AddLoose(x, y, p.FacingRight), nil
	}
	return 0, fmt.Errorf("level: unknown record kind %d", int(k))
}
