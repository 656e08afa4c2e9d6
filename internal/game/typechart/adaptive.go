package typechart

import "math"

// Adaptive resistance tuning: each stack multiplies effectiveness by
// adaptiveDecay, floored at adaptiveFloor of the base multiplier.
const (
	adaptiveDecay = 0.9
	adaptiveFloor = 0.5
)

// AdaptiveState is the battle-scoped resistance overlay. Created empty at
// battle start, bumped on each successful damaging hit, discarded with the
// session. It never mutates the Chart itself.
//
// Not safe for concurrent use; each battle session owns exactly one.
type AdaptiveState struct {
	stacks map[adaptiveKey]int
}

type adaptiveKey struct {
	attacking Category
	primary   Category
	secondary Category // == primary for single-type defenders
}

// NewAdaptiveState creates an empty overlay.
func NewAdaptiveState() *AdaptiveState {
	return &AdaptiveState{stacks: make(map[adaptiveKey]int)}
}

func keyFor(attacking Category, defending []Category) adaptiveKey {
	k := adaptiveKey{attacking: attacking, primary: defending[0], secondary: defending[0]}
	if len(defending) == 2 {
		a, b := defending[0], defending[1]
		if b < a {
			a, b = b, a
		}
		k.primary, k.secondary = a, b
	}
	return k
}

// Accumulate records one successful damaging hit of attacking against the
// defending combination. Call exactly once per such hit.
//
// Postcondition: Stacks(attacking, defending) is incremented by 1.
func (a *AdaptiveState) Accumulate(attacking Category, defending []Category) {
	a.stacks[keyFor(attacking, defending)]++
}

// Stacks returns the accumulated resistance counter for the pair.
func (a *AdaptiveState) Stacks(attacking Category, defending []Category) int {
	return a.stacks[keyFor(attacking, defending)]
}

// Dampen applies the accumulated resistance to a base multiplier:
// base x max(adaptiveFloor, adaptiveDecay^stacks). The curve approaches
// the floor asymptotically and never turns a nonzero multiplier into 0.
//
// Postcondition: 0 < result <= base when base > 0; result == 0 when base == 0.
func (a *AdaptiveState) Dampen(attacking Category, defending []Category, base float64) float64 {
	if base == 0 {
		return 0
	}
	n := a.stacks[keyFor(attacking, defending)]
	if n == 0 {
		return base
	}
	factor := math.Pow(adaptiveDecay, float64(n))
	if factor < adaptiveFloor {
		factor = adaptiveFloor
	}
	return base * factor
}
