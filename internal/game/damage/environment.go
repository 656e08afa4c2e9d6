package damage

import (
	"fmt"

	"github.com/avoid201/untoldstory-engine/internal/game/creature"
	"github.com/avoid201/untoldstory-engine/internal/game/traits"
	"github.com/avoid201/untoldstory-engine/internal/game/typechart"
)

// Weather is the active environmental condition for a battle session.
type Weather int

const (
	NoWeather Weather = iota
	Sun
	Rain
	Sandstorm
	Hail
)

// String returns the lower-case weather name.
func (w Weather) String() string {
	switch w {
	case NoWeather:
		return "none"
	case Sun:
		return "sun"
	case Rain:
		return "rain"
	case Sandstorm:
		return "sandstorm"
	case Hail:
		return "hail"
	default:
		return "unknown"
	}
}

// ParseWeather resolves a weather name.
func ParseWeather(name string) (Weather, error) {
	for _, w := range []Weather{NoWeather, Sun, Rain, Sandstorm, Hail} {
		if w.String() == name {
			return w, nil
		}
	}
	return 0, fmt.Errorf("damage: unknown weather %q", name)
}

// DamageModifier returns the weather's multiplier for a move category.
func (w Weather) DamageModifier(cat typechart.Category) float64 {
	switch {
	case w == Sun && cat == typechart.Fire:
		return 1.5
	case w == Sun && cat == typechart.Water:
		return 0.5
	case w == Rain && cat == typechart.Water:
		return 1.5
	case w == Rain && cat == typechart.Fire:
		return 0.5
	default:
		return 1.0
	}
}

// chipDenominator is the fraction of max HP weather chip damage deals.
const chipDenominator = 16

// ChipDamage returns the end-of-turn chip damage w deals to c, 0 for
// immune categories and WeatherWard holders.
//
// Postcondition: returns 0 or a value >= 1.
func (w Weather) ChipDamage(c *creature.Combatant) int {
	if c.Traits.Has(traits.WeatherWard) {
		return 0
	}
	switch w {
	case Sandstorm:
		if c.HasType(typechart.Earth) || c.HasType(typechart.Metal) {
			return 0
		}
	case Hail:
		if c.HasType(typechart.Frost) {
			return 0
		}
	default:
		return 0
	}
	dmg := c.Base.MaxHP / chipDenominator
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

// EnvironmentQueue collects end-of-turn environmental damage queued by
// the environmental stage. Entries are deduplicated per combatant per
// turn; the Aftermath phase drains the queue and applies the damage.
type EnvironmentQueue struct {
	pending map[string]int
	order   []string
}

// NewEnvironmentQueue creates an empty queue.
func NewEnvironmentQueue() *EnvironmentQueue {
	return &EnvironmentQueue{pending: make(map[string]int)}
}

// Queue records chip damage for the combatant, ignoring repeats within
// the same turn.
func (q *EnvironmentQueue) Queue(id string, amount int) {
	if amount <= 0 {
		return
	}
	if _, ok := q.pending[id]; ok {
		return
	}
	q.pending[id] = amount
	q.order = append(q.order, id)
}

// Drain returns the queued (combatant ID, amount) pairs in queue order
// and resets the queue.
//
// Postcondition: the queue is empty.
func (q *EnvironmentQueue) Drain() []QueuedChip {
	out := make([]QueuedChip, 0, len(q.order))
	for _, id := range q.order {
		out = append(out, QueuedChip{CombatantID: id, Amount: q.pending[id]})
	}
	q.pending = make(map[string]int)
	q.order = nil
	return out
}

// Has reports whether the combatant already has queued chip damage.
func (q *EnvironmentQueue) Has(id string) bool {
	_, ok := q.pending[id]
	return ok
}

// QueuedChip is one drained environmental damage entry.
type QueuedChip struct {
	CombatantID string
	Amount      int
}
