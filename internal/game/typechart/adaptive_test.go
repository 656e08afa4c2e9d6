package typechart_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/avoid201/untoldstory-engine/internal/game/typechart"
)

func TestAdaptiveState_StrictlyDecreasing(t *testing.T) {
	a := typechart.NewAdaptiveState()
	combo := []typechart.Category{typechart.Water}

	first := a.Dampen(typechart.Fire, combo, 2.0)
	assert.Equal(t, 2.0, first, "no stacks, base multiplier untouched")

	var prev = first
	for hit := 1; hit <= 5; hit++ {
		a.Accumulate(typechart.Fire, combo)
		cur := a.Dampen(typechart.Fire, combo, 2.0)
		assert.Less(t, cur, prev, "hit %d should dampen further", hit)
		prev = cur
	}
	assert.Equal(t, 5, a.Stacks(typechart.Fire, combo))
}

func TestAdaptiveState_FloorsAtHalfBase(t *testing.T) {
	a := typechart.NewAdaptiveState()
	combo := []typechart.Category{typechart.Water, typechart.Frost}
	for i := 0; i < 100; i++ {
		a.Accumulate(typechart.Fire, combo)
	}
	assert.Equal(t, 1.0, a.Dampen(typechart.Fire, combo, 2.0), "floor is half of base")
}

func TestAdaptiveState_ZeroBaseStaysZero(t *testing.T) {
	a := typechart.NewAdaptiveState()
	combo := []typechart.Category{typechart.Metal}
	a.Accumulate(typechart.Toxin, combo)
	assert.Equal(t, 0.0, a.Dampen(typechart.Toxin, combo, 0))
}

func TestAdaptiveState_ComboOrderIrrelevant(t *testing.T) {
	a := typechart.NewAdaptiveState()
	a.Accumulate(typechart.Fire, []typechart.Category{typechart.Water, typechart.Plant})
	assert.Equal(t, 1, a.Stacks(typechart.Fire, []typechart.Category{typechart.Plant, typechart.Water}))
}

func TestAdaptiveState_PairsIndependent(t *testing.T) {
	a := typechart.NewAdaptiveState()
	a.Accumulate(typechart.Fire, []typechart.Category{typechart.Water})
	assert.Equal(t, 0, a.Stacks(typechart.Fire, []typechart.Category{typechart.Plant}))
	assert.Equal(t, 0, a.Stacks(typechart.Water, []typechart.Category{typechart.Water}))
}

func TestAdaptiveState_Property_NeverZeroesNonzeroBase(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := typechart.NewAdaptiveState()
		combo := []typechart.Category{typechart.Beast}
		n := rapid.IntRange(0, 500).Draw(rt, "stacks")
		for i := 0; i < n; i++ {
			a.Accumulate(typechart.Fire, combo)
		}
		base := rapid.SampledFrom([]float64{0.5, 1.0, 1.5, 2.0}).Draw(rt, "base")
		got := a.Dampen(typechart.Fire, combo, base)
		assert.Greater(rt, got, 0.0)
		assert.LessOrEqual(rt, got, base)
		assert.GreaterOrEqual(rt, got, base*0.5)
	})
}
