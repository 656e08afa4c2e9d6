package formation

import "fmt"

// Selector is a target-selector expression kind. The damage-share
// multiplier per kind is a fixed table, not per-move configurable.
type Selector int

const (
	Single Selector = iota
	AllEnemies
	AllAllies
	RowEnemy
	SpreadEnemies
	Pierce
	Adjacent
	RandomEnemy
	RandomAlly
	Self
)

var selectorNames = map[Selector]string{
	Single:        "single",
	AllEnemies:    "all_enemies",
	AllAllies:     "all_allies",
	RowEnemy:      "row_enemy",
	SpreadEnemies: "spread",
	Pierce:        "pierce",
	Adjacent:      "adjacent",
	RandomEnemy:   "random_enemy",
	RandomAlly:    "random_ally",
	Self:          "self",
}

// String returns the snake_case selector name.
func (s Selector) String() string {
	if n, ok := selectorNames[s]; ok {
		return n
	}
	return "unknown"
}

// ParseSelector resolves a selector name.
func ParseSelector(name string) (Selector, error) {
	for s, n := range selectorNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("formation: unknown target selector %q", name)
}

// NeedsExplicitTarget reports whether the selector requires a declared
// primary target at submission time.
func (s Selector) NeedsExplicitTarget() bool {
	switch s {
	case Single, RowEnemy, Pierce, Adjacent:
		return true
	default:
		return false
	}
}

// Damage-share multipliers per selector kind.
const (
	areaShare     = 0.75
	rowSideShare  = 0.80
	spreadShare   = 0.85
	pierceShare   = 0.75
	adjacentShare = 0.60
)

// spreadMinTargets and spreadMaxTargets bound the Spread selector's
// random target count.
const (
	spreadMinTargets = 2
	spreadMaxTargets = 4
)
