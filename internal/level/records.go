package level

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/vovakirdan/pophale/internal/binio"
)

// Kind names the record families an editor can add to and remove from.
type Kind int

const (
	KindFront Kind = iota + 1
	KindChomper
	KindSpike
	KindGate
	KindRaise
	KindGuard
	KindPotion
	KindLoose
)

var kindNames = map[Kind]string{
	KindFront:   "front",
	KindChomper: "chomper",
	KindSpike:   "spike",
	KindGate:    "gate",
	KindRaise:   "raise",
	KindGuard:   "guard",
	KindPotion:  "potion",
	KindLoose:   "loose",
}

// Kinds lists the editable families in file order.
var Kinds = []Kind{KindFront, KindChomper, KindSpike, KindGate, KindRaise, KindGuard, KindPotion, KindLoose}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind accepts a family name, singular or plural.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if s == n || s == n+"s" {
			return k, nil
		}
	}
	return 0, fmt.Errorf("level: unknown record kind %q", s)
}

var (
	ErrTooManyRecords = errors.New("level: record count exceeds 65535")
	ErrIndexRange     = errors.New("level: record index out of range")
)

// record exposes a record's fields in file order. Field widths follow the
// pointer type: *uint8 is one byte, *uint16 is two.
type record interface {
	fields() []any
}

func (r *UnknownRecord) fields() []any { return []any{&r.A, &r.B, &r.C, &r.D} }
func (r *FrontType) fields() []any     { return []any{&r.A, &r.B, &r.Nr} }
func (r *Front) fields() []any         { return []any{&r.X, &r.Y, &r.Type, &r.A, &r.B} }
func (r *Chomper) fields() []any       { return []any{&r.X, &r.Y, &r.A} }
func (r *Spike) fields() []any         { return []any{&r.X, &r.Y, &r.FacingRight} }
func (r *Gate) fields() []any          { return []any{&r.X, &r.Y, &r.TimeOpen} }
func (r *Raise) fields() []any         { return []any{&r.Gate, &r.X, &r.Y} }
func (r *Guard) fields() []any {
	return []any{&r.X, &r.Y, &r.Dir, &r.HP, &r.A, &r.B, &r.C, &r.D, &r.E, &r.F}
}
func (r *Potion) fields() []any { return []any{&r.Type, &r.X, &r.Y} }
func (r *Loose) fields() []any  { return []any{&r.X, &r.Y, &r.FacingRight} }

func (p *Point) fields() []any { return []any{&p.X, &p.Y} }

// Positions of placed records, used for nearest-record lookup.
func (r Front) Pos() Point   { return Point{r.X, r.Y} }
func (r Chomper) Pos() Point { return Point{r.X, r.Y} }
func (r Spike) Pos() Point   { return Point{r.X, r.Y} }
func (r Gate) Pos() Point    { return Point{r.X, r.Y} }
func (r Raise) Pos() Point   { return Point{r.X, r.Y} }
func (r Guard) Pos() Point   { return Point{r.X, r.Y} }
func (r Potion) Pos() Point  { return Point{r.X, r.Y} }
func (r Loose) Pos() Point   { return Point{r.X, r.Y} }

func readFields(r *binio.Reader, fields []any) error {
	for _, f := range fields {
		switch p := f.(type) {
		case *uint8:
			v, err := r.Uint8()
			if err != nil {
				return err
			}
			*p = v
		case *uint16:
			v, err := r.Uint16()
			if err != nil {
				return err
			}
			*p = v
		default:
			return fmt.Errorf("level: unsupported field type %T", f)
		}
	}
	return nil
}

func writeFields(w *binio.Writer, fields []any) error {
	for _, f := range fields {
		switch p := f.(type) {
		case *uint8:
			w.Uint8(*p)
		case *uint16:
			w.Uint16(*p)
		default:
			return fmt.Errorf("level: unsupported field type %T", f)
		}
	}
	return w.Err()
}

// family is the codec and editing view of one counted record list.
type family struct {
	name     string
	len      func(l *Level) int
	decode   func(r *binio.Reader, l *Level) error
	encode   func(w *binio.Writer, l *Level) error
	remove   func(l *Level, i int)
	position func(l *Level, i int) (Point, bool)
}

func newFamily[T any, P interface {
	*T
	record
}](name string, list func(l *Level) *[]T) family {
	return family{
		name: name,
		len:  func(l *Level) int { return len(*list(l)) },
		decode: func(r *binio.Reader, l *Level) error {
			n, err := r.Uint16()
			if err != nil {
				return fmt.Errorf("%s count: %w", name, err)
			}
			var items []T
			if n > 0 {
				items = make([]T, n)
			}
			for i := range items {
				if err := readFields(r, P(&items[i]).fields()); err != nil {
					return fmt.Errorf("%s %d of %d: %w", name, i+1, n, err)
				}
			}
			*list(l) = items
			return nil
		},
		encode: func(w *binio.Writer, l *Level) error {
			items := *list(l)
			if len(items) > math.MaxUint16 {
				return fmt.Errorf("%w: %s has %d", ErrTooManyRecords, name, len(items))
			}
			w.Uint16(uint16(len(items)))
			for i := range items {
				if err := writeFields(w, P(&items[i]).fields()); err != nil {
					return fmt.Errorf("%s %d: %w", name, i+1, err)
				}
			}
			return w.Err()
		},
		remove: func(l *Level, i int) {
			p := list(l)
			*p = slices.Delete(*p, i, i+1)
		},
		position: func(l *Level, i int) (Point, bool) {
			items := *list(l)
			if i < 0 || i >= len(items) {
				return Point{}, false
			}
			if pp, ok := any(items[i]).(interface{ Pos() Point }); ok {
				return pp.Pos(), true
			}
			return Point{}, false
		},
	}
}

var (
	unknownFamily   = newFamily[UnknownRecord]("unknown", func(l *Level) *[]UnknownRecord { return &l.Unknown })
	frontTypeFamily = newFamily[FrontType]("front type", func(l *Level) *[]FrontType { return &l.FrontTypes })

	families = map[Kind]family{
		KindFront:   newFamily[Front]("front", func(l *Level) *[]Front { return &l.Fronts }),
		KindChomper: newFamily[Chomper]("chomper", func(l *Level) *[]Chomper { return &l.Chompers }),
		KindSpike:   newFamily[Spike]("spike", func(l *Level) *[]Spike { return &l.Spikes }),
		KindGate:    newFamily[Gate]("gate", func(l *Level) *[]Gate { return &l.Gates }),
		KindRaise:   newFamily[Raise]("raise", func(l *Level) *[]Raise { return &l.Raises }),
		KindGuard:   newFamily[Guard]("guard", func(l *Level) *[]Guard { return &l.Guards }),
		KindPotion:  newFamily[Potion]("potion", func(l *Level) *[]Potion { return &l.Potions }),
		KindLoose:   newFamily[Loose]("loose", func(l *Level) *[]Loose { return &l.Loose }),
	}
)

// Count returns the number of records of kind k.
func (l *Level) Count(k Kind) int {
	f, ok := families[k]
	if !ok {
		return 0
	}
	return f.len(l)
}

// Position returns the pixel position of record i of kind k.
func (l *Level) Position(k Kind, i int) (Point, bool) {
	f, ok := families[k]
	if !ok {
		return Point{}, false
	}
	return f.position(l, i)
}
