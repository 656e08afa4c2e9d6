// Package formation implements multi-combatant positioning: the 3-column
// front/back slot grid, per-side formation types, and the expansion of
// target-selector expressions into concrete target lists with
// damage-share multipliers.
package formation

import (
	"fmt"

	"github.com/avoid201/untoldstory-engine/internal/game/stats"
)

// Columns is the number of active slots per side.
const Columns = 3

// Row is the front/back position of an active slot.
type Row int

const (
	Front Row = iota
	Back
)

// String returns "front" or "back".
func (r Row) String() string {
	if r == Back {
		return "back"
	}
	return "front"
}

// Slot is one active position: a column paired with a row.
type Slot struct {
	Column int
	Row    Row
}

// Valid reports whether the slot is on the grid.
func (s Slot) Valid() bool {
	return s.Column >= 0 && s.Column < Columns && (s.Row == Front || s.Row == Back)
}

// Type is a side-wide formation stance. Each applies a small flat
// percentage modifier to one stat for every active combatant on the side.
type Type int

const (
	Standard Type = iota
	Offensive
	Defensive
	Wedge
	Spread
)

// String returns the lower-case formation name.
func (t Type) String() string {
	switch t {
	case Standard:
		return "standard"
	case Offensive:
		return "offensive"
	case Defensive:
		return "defensive"
	case Wedge:
		return "wedge"
	case Spread:
		return "spread"
	default:
		return "unknown"
	}
}

// ParseType resolves a formation name.
func ParseType(name string) (Type, error) {
	for _, t := range []Type{Standard, Offensive, Defensive, Wedge, Spread} {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("formation: unknown formation %q", name)
}

// Modifier returns the formation's multiplier for the given stat, 1.0
// when the formation does not touch it. Consulted by the base-power and
// accuracy stages; the modifier table lives here only.
func (t Type) Modifier(s stats.Stat) float64 {
	switch {
	case t == Offensive && s == stats.Attack:
		return 1.10
	case t == Defensive && s == stats.Defense:
		return 1.10
	case t == Wedge && s == stats.Accuracy:
		return 1.05
	case t == Spread && s == stats.Speed:
		return 1.10
	default:
		return 1.0
	}
}
