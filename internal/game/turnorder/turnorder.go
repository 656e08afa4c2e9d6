// Package turnorder sorts a turn's buffered actions into execution
// order. The sort key, descending: action-kind priority tier, the move's
// queued priority bonus within that tier, then effective speed plus a
// bounded random tiebreak. Ties after all three keys keep submission
// order, so resolution is fully reproducible for a fixed RNG stream.
package turnorder

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/avoid201/untoldstory-engine/internal/game/creature"
	"github.com/avoid201/untoldstory-engine/internal/game/formation"
	"github.com/avoid201/untoldstory-engine/internal/game/rng"
	"github.com/avoid201/untoldstory-engine/internal/game/stats"
)

// Kind classifies a submitted action for priority purposes.
type Kind int

const (
	Attack Kind = iota
	Skill
	Defend
	Item
	Switch
	Flee
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case Attack:
		return "attack"
	case Skill:
		return "skill"
	case Defend:
		return "defend"
	case Item:
		return "item"
	case Switch:
		return "switch"
	case Flee:
		return "flee"
	default:
		return "unknown"
	}
}

// ParseKind resolves an action-kind name.
func ParseKind(name string) (Kind, error) {
	for _, k := range []Kind{Attack, Skill, Defend, Item, Switch, Flee} {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("turnorder: unknown action kind %q", name)
}

// Tier returns the kind's fixed priority tier. Higher tiers always act
// first: flee before switch, switch before item use, item use before
// defending, everything before attacks and skills.
func (k Kind) Tier() int {
	switch k {
	case Flee:
		return 5
	case Switch:
		return 4
	case Item:
		return 3
	case Defend:
		return 2
	default:
		return 1
	}
}

// jitterRange bounds the uniform speed tiebreak added to every entry.
const jitterRange = 256

// Entry is one sortable action as handed over by the phase controller.
type Entry struct {
	Actor *creature.Combatant
	Kind  Kind
	// Priority is the move's queued priority bonus, compared within the
	// kind's tier before speed. Zero for non-skill actions.
	Priority int
	// Formation is the acting side's stance, consulted for its speed
	// modifier.
	Formation formation.Type
}

// key is the resolved sort key for one live entry.
type key struct {
	index    int
	tier     int
	priority int
	speed    float64
}

// Resolve computes the execution order over entries and returns it as
// indices into the input slice. Entries whose actor can no longer act
// (fainted or recalled from the field) are dropped with a logged
// diagnostic rather than an error, so a turn proceeds around a combatant
// that went down earlier in the same turn.
//
// Precondition: src and log must be non-nil.
// Postcondition: the result is a permutation of the indices of entries
// whose actors are alive and active; re-running with an identically
// seeded stream yields an identical order.
func Resolve(entries []Entry, src rng.Source, log *zap.Logger) []int {
	keys := make([]key, 0, len(entries))
	for i, e := range entries {
		if e.Actor == nil || e.Actor.Fainted() || !e.Actor.Active {
			name := "<nil>"
			if e.Actor != nil {
				name = e.Actor.Name
			}
			log.Warn("dropping action for combatant unable to act",
				zap.String("combatant", name),
				zap.String("kind", e.Kind.String()),
				zap.Int("submission_index", i),
			)
			continue
		}
		// The jitter draw happens in submission order, before sorting,
		// so the consumed stream never depends on the sort outcome.
		speed := float64(e.Actor.Effective(stats.Speed))*e.Formation.Modifier(stats.Speed) +
			float64(src.Intn(jitterRange))
		keys = append(keys, key{
			index:    i,
			tier:     e.Kind.Tier(),
			priority: e.Priority,
			speed:    speed,
		})
	}

	sort.SliceStable(keys, func(a, b int) bool {
		ka, kb := keys[a], keys[b]
		if ka.tier != kb.tier {
			return ka.tier > kb.tier
		}
		if ka.priority != kb.priority {
			return ka.priority > kb.priority
		}
		return ka.speed > kb.speed
	})

	order := make([]int, len(keys))
	for i, k := range keys {
		order[i] = k.index
	}
	return order
}
