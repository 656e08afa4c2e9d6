// Package creature defines the in-battle combatant instance: stats,
// categories, traits, status, and formation placement. A Combatant is
// owned exclusively by its battle session and mutated only by pipeline
// stages and the phase controller.
package creature

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/avoid201/untoldstory-engine/internal/game/formation"
	"github.com/avoid201/untoldstory-engine/internal/game/stats"
	"github.com/avoid201/untoldstory-engine/internal/game/status"
	"github.com/avoid201/untoldstory-engine/internal/game/traits"
	"github.com/avoid201/untoldstory-engine/internal/game/typechart"
)

// Rank grades a creature. Only top-rank creatures may carry restricted
// categories.
type Rank int

const (
	RankNormal Rank = iota
	RankTop
)

// Spec describes a creature as handed to the session constructor.
type Spec struct {
	Name   string
	Types  []typechart.Category
	Base   stats.Block
	Traits traits.Set
	Rank   Rank
	// MoveIDs are the move definitions this creature may use, resolved
	// against the skill registry at session construction.
	MoveIDs []string
}

// Validate checks the spec describes a constructible combatant.
//
// Postcondition: returns nil iff the stat block is valid, the category
// assignment is legal, and restricted categories only appear on top-rank
// creatures.
func (s Spec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("creature: spec missing name")
	}
	if err := s.Base.Validate(); err != nil {
		return fmt.Errorf("creature: %q: %w", s.Name, err)
	}
	if err := typechart.ValidateDefenderTypes(s.Types); err != nil {
		return fmt.Errorf("creature: %q: %w", s.Name, err)
	}
	for _, ty := range s.Types {
		if ty.Restricted() && s.Rank != RankTop {
			return fmt.Errorf("creature: %q: category %s is restricted to top-rank creatures", s.Name, ty)
		}
	}
	return nil
}

// Combatant is one creature instance inside a battle session.
type Combatant struct {
	ID     string
	Name   string
	Types  []typechart.Category
	Base   stats.Block
	Traits traits.Set
	Rank   Rank

	CurrentHP int
	CurrentMP int
	Stages    *stats.Stages
	Status    status.Condition

	// Slot is the active formation position; benched combatants keep
	// their last slot but Active is false.
	Slot   formation.Slot
	Active bool

	// Defending is set by a defend action and cleared in Aftermath.
	Defending bool

	MoveIDs []string
}

// New instantiates a Combatant from a validated Spec, at full HP/MP with
// a fresh unique ID.
//
// Precondition: spec must have passed Validate.
// Postcondition: CurrentHP == MaxHP, CurrentMP == MaxMP, all stages 0.
func New(spec Spec) *Combatant {
	return &Combatant{
		ID:        uuid.NewString(),
		Name:      spec.Name,
		Types:     append([]typechart.Category(nil), spec.Types...),
		Base:      spec.Base,
		Traits:    spec.Traits,
		Rank:      spec.Rank,
		CurrentHP: spec.Base.MaxHP,
		CurrentMP: spec.Base.MaxMP,
		Stages:    stats.NewStages(),
		MoveIDs:   append([]string(nil), spec.MoveIDs...),
	}
}

// Alive reports whether the combatant can still fight.
func (c *Combatant) Alive() bool {
	return c.CurrentHP > 0
}

// Fainted reports the inverse of Alive.
func (c *Combatant) Fainted() bool {
	return !c.Alive()
}

// ApplyDamage reduces CurrentHP by amount, flooring at zero.
//
// Precondition: amount >= 0.
// Postcondition: CurrentHP >= 0.
func (c *Combatant) ApplyDamage(amount int) {
	c.CurrentHP -= amount
	if c.CurrentHP < 0 {
		c.CurrentHP = 0
	}
}

// Heal raises CurrentHP by amount, capped at MaxHP.
//
// Precondition: amount >= 0.
// Postcondition: CurrentHP <= Base.MaxHP.
func (c *Combatant) Heal(amount int) {
	c.CurrentHP += amount
	if c.CurrentHP > c.Base.MaxHP {
		c.CurrentHP = c.Base.MaxHP
	}
}

// SpendMP deducts cost from CurrentMP.
//
// Postcondition: returns an error and leaves CurrentMP unchanged when the
// combatant cannot afford cost.
func (c *Combatant) SpendMP(cost int) error {
	if cost > c.CurrentMP {
		return fmt.Errorf("creature: %s has %d MP, needs %d", c.Name, c.CurrentMP, cost)
	}
	c.CurrentMP -= cost
	return nil
}

// Effective returns the effective value of stat s after stage modifiers.
func (c *Combatant) Effective(s stats.Stat) int {
	return stats.Effective(c.Base, c.Stages, s)
}

// HasType reports whether cat is one of the combatant's categories.
func (c *Combatant) HasType(cat typechart.Category) bool {
	for _, t := range c.Types {
		if t == cat {
			return true
		}
	}
	return false
}

// KnowsMove reports whether the combatant's move list contains moveID.
func (c *Combatant) KnowsMove(moveID string) bool {
	for _, id := range c.MoveIDs {
		if id == moveID {
			return true
		}
	}
	return false
}
