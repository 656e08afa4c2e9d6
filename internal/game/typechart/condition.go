package typechart

import "fmt"

// Condition is the battle-wide rule variant altering how matrix lookups
// are interpreted. Exactly one is active per battle session.
type Condition int

const (
	// Normal reads the matrix as loaded.
	Normal Condition = iota
	// Inverse flips super-effective and not-very-effective lookups.
	Inverse
	// Chaotic applies a bounded random jitter to every lookup.
	Chaotic
	// Pure zeroes all damage except matching-category hits.
	Pure
)

// String returns the lower-case condition name.
func (c Condition) String() string {
	switch c {
	case Normal:
		return "normal"
	case Inverse:
		return "inverse"
	case Chaotic:
		return "chaotic"
	case Pure:
		return "pure"
	default:
		return "unknown"
	}
}

// ParseCondition resolves a condition name.
func ParseCondition(name string) (Condition, error) {
	switch name {
	case "normal":
		return Normal, nil
	case "inverse":
		return Inverse, nil
	case "chaotic":
		return Chaotic, nil
	case "pure":
		return Pure, nil
	default:
		return 0, fmt.Errorf("typechart: unknown battle condition %q", name)
	}
}

// Chaotic jitter window: each lookup is scaled by a uniform factor in
// [1-ChaoticJitter, 1+ChaoticJitter].
const ChaoticJitter = 0.20

// inverseMultiplier is the fixed involution over the multiplier alphabet
// {0, 0.5, 1, 1.5, 2}: 0 <-> 2, 0.5 <-> 1.5, 1 <-> 1. Values off the
// alphabet (only possible if a chart is loaded with nonstandard cells)
// map to 2/x so resist and boost still swap.
func inverseMultiplier(m float64) float64 {
	switch m {
	case 0:
		return 2.0
	case 0.5:
		return 1.5
	case 1.0:
		return 1.0
	case 1.5:
		return 0.5
	case 2.0:
		return 0
	default:
		return 2.0 / m
	}
}
