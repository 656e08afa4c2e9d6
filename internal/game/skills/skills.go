// Package skills holds the static move/skill definitions consumed by the
// battle engine. Definitions are loaded once from YAML before any session
// is constructed and are immutable afterwards.
package skills

import (
	"fmt"

	"github.com/avoid201/untoldstory-engine/internal/game/formation"
	"github.com/avoid201/untoldstory-engine/internal/game/status"
	"github.com/avoid201/untoldstory-engine/internal/game/typechart"
)

// DamageClass selects which damage formula a move uses.
type DamageClass int

const (
	// Physical uses Attack vs Defense.
	Physical DamageClass = iota
	// Magical uses Magic vs Resistance.
	Magical
)

// String returns "physical" or "magical".
func (d DamageClass) String() string {
	if d == Magical {
		return "magical"
	}
	return "physical"
}

// ParseDamageClass resolves a class name.
func ParseDamageClass(name string) (DamageClass, error) {
	switch name {
	case "physical":
		return Physical, nil
	case "magical":
		return Magical, nil
	default:
		return 0, fmt.Errorf("skills: unknown damage class %q", name)
	}
}

// CritTier grades a move's critical hits. Each tier's factor is strictly
// greater than the previous one.
type CritTier int

const (
	CritNormal CritTier = iota
	CritImproved
	CritGuaranteed
	CritDevastating
)

// String returns the lower-case tier name.
func (c CritTier) String() string {
	switch c {
	case CritNormal:
		return "normal"
	case CritImproved:
		return "improved"
	case CritGuaranteed:
		return "guaranteed"
	case CritDevastating:
		return "devastating"
	default:
		return "unknown"
	}
}

// ParseCritTier resolves a tier name.
func ParseCritTier(name string) (CritTier, error) {
	for _, c := range []CritTier{CritNormal, CritImproved, CritGuaranteed, CritDevastating} {
		if c.String() == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("skills: unknown crit tier %q", name)
}

// Factor returns the damage multiplier applied on a critical hit.
func (c CritTier) Factor() float64 {
	switch c {
	case CritImproved:
		return 2.0
	case CritGuaranteed:
		return 2.25
	case CritDevastating:
		return 2.5
	default:
		return 1.5
	}
}

// AlwaysCrits reports whether the tier skips the crit roll entirely.
func (c CritTier) AlwaysCrits() bool {
	return c == CritGuaranteed
}

// Infliction is an optional status rider on a damaging move.
type Infliction struct {
	Status status.Kind
	Chance float64
}

// Move is one resolved move/skill definition.
type Move struct {
	ID        string
	Name      string
	Category  typechart.Category
	Class     DamageClass
	Power     int
	Accuracy  float64 // 0 = never misses
	MPCost    int
	Priority  int // queued priority bonus within the action's tier
	CritTier  CritTier
	Selector  formation.Selector
	Explosive bool
	Inflicts  *Infliction // nil when the move has no status rider
}

// Damaging reports whether the move runs the damage formula at all.
func (m *Move) Damaging() bool {
	return m.Power > 0
}
