// Package status implements major status conditions. A combatant carries
// at most one major status at a time; lesser effects are stat stages or
// traits, not statuses.
package status

import "fmt"

// Kind enumerates the major statuses. The zero value is None.
type Kind int

const (
	None Kind = iota
	Sleep
	Paralysis
	Poison
	Burn
	Freeze
)

// String returns the lower-case status name.
func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Sleep:
		return "sleep"
	case Paralysis:
		return "paralysis"
	case Poison:
		return "poison"
	case Burn:
		return "burn"
	case Freeze:
		return "freeze"
	default:
		return "unknown"
	}
}

// ParseKind resolves a status name.
func ParseKind(name string) (Kind, error) {
	for _, k := range []Kind{None, Sleep, Paralysis, Poison, Burn, Freeze} {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("status: unknown status %q", name)
}

// Chance and duration tuning.
const (
	// paralysisSkipChance is the per-action chance paralysis cancels the act.
	paralysisSkipChance = 0.25
	// freezeThawChance is the per-turn chance a frozen combatant thaws.
	freezeThawChance = 0.20
	// sleepMinTurns and sleepMaxTurns bound the random sleep duration.
	sleepMinTurns = 1
	sleepMaxTurns = 3
)

// Source is the subset of rng.Source the gate logic draws from. A local
// interface keeps this package free of engine imports.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// Condition is one combatant's current major status. The zero value means
// no status.
type Condition struct {
	Kind Kind
	// TurnsRemaining counts down for Sleep; -1 means indefinite
	// (Paralysis, Poison, Burn, Freeze persist until cured or thawed).
	TurnsRemaining int
}

// Inflict applies a new major status. A combatant already under a major
// status cannot receive another; the attempt is rejected.
//
// Postcondition: on success c.Kind == k; Sleep gets a random duration in
// [sleepMinTurns, sleepMaxTurns] drawn from src.
func (c *Condition) Inflict(k Kind, src Source) error {
	if k == None {
		return fmt.Errorf("status: cannot inflict %q", k)
	}
	if c.Kind != None {
		return fmt.Errorf("status: already %s, cannot inflict %s", c.Kind, k)
	}
	c.Kind = k
	c.TurnsRemaining = -1
	if k == Sleep {
		c.TurnsRemaining = sleepMinTurns + src.Intn(sleepMaxTurns-sleepMinTurns+1)
	}
	return nil
}

// Cure clears the status.
//
// Postcondition: c.Kind == None.
func (c *Condition) Cure() {
	c.Kind = None
	c.TurnsRemaining = 0
}

// Gate is the outcome of the pre-action status check.
type Gate struct {
	// CanAct is false when the status cancels the action outright.
	CanAct bool
	// Message is the display string explaining the gate outcome; empty
	// when the status had nothing to say.
	Message string
}

// CheckBeforeAction runs the pre-action gate for the named combatant and
// mutates the condition as a side effect (sleep counts down, freeze may
// thaw). Called by the phase controller before the damage pipeline runs;
// the pipeline itself never re-checks.
//
// Postcondition: returns CanAct == true unless the status cancels the act
// this turn.
func (c *Condition) CheckBeforeAction(name string, src Source) Gate {
	switch c.Kind {
	case Sleep:
		c.TurnsRemaining--
		if c.TurnsRemaining <= 0 {
			c.Cure()
			return Gate{CanAct: true, Message: fmt.Sprintf("%s woke up!", name)}
		}
		return Gate{CanAct: false, Message: fmt.Sprintf("%s is fast asleep.", name)}
	case Freeze:
		if src.Float64() < freezeThawChance {
			c.Cure()
			return Gate{CanAct: true, Message: fmt.Sprintf("%s thawed out!", name)}
		}
		return Gate{CanAct: false, Message: fmt.Sprintf("%s is frozen solid.", name)}
	case Paralysis:
		if src.Float64() < paralysisSkipChance {
			return Gate{CanAct: false, Message: fmt.Sprintf("%s is paralyzed and cannot move!", name)}
		}
		return Gate{CanAct: true}
	default:
		return Gate{CanAct: true}
	}
}

// End-of-turn residual damage denominators (fraction of max HP).
const (
	poisonDenominator = 8
	burnDenominator   = 16
)

// ResidualDamage returns the end-of-turn chip damage for the status, as a
// fraction of maxHP, floored at 1 for afflicted combatants. Applied during
// the Aftermath phase, never mid-execution.
//
// Postcondition: returns 0 for statuses with no residual; otherwise >= 1.
func (c *Condition) ResidualDamage(maxHP int) int {
	var dmg int
	switch c.Kind {
	case Poison:
		dmg = maxHP / poisonDenominator
	case Burn:
		dmg = maxHP / burnDenominator
	default:
		return 0
	}
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

// HalvesPhysicalDamage reports whether the status halves the combatant's
// physical damage output (burn does).
func (c *Condition) HalvesPhysicalDamage() bool {
	return c.Kind == Burn
}

// PreventsEvasion reports whether the status makes the combatant unable to
// evade (sleeping targets never dodge).
func (c *Condition) PreventsEvasion() bool {
	return c.Kind == Sleep
}
