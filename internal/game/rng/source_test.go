package rng_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/avoid201/untoldstory-engine/internal/game/rng"
)

func TestSeededSource_Replayable(t *testing.T) {
	a := rng.NewSeededSource(42)
	b := rng.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(256), b.Intn(256), "draw %d diverged", i)
	}
	assert.Equal(t, a.Float64(), b.Float64())
}

func TestSeededSource_DifferentSeedsDiverge(t *testing.T) {
	a := rng.NewSeededSource(1)
	b := rng.NewSeededSource(2)
	same := true
	for i := 0; i < 20; i++ {
		if a.Intn(1000) != b.Intn(1000) {
			same = false
		}
	}
	assert.False(t, same, "20 draws from different seeds should not all match")
}

func TestSeededSource_Property_IntnInRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		n := rapid.IntRange(1, 10_000).Draw(rt, "n")
		src := rng.NewSeededSource(seed)
		v := src.Intn(n)
		assert.GreaterOrEqual(rt, v, 0)
		assert.Less(rt, v, n)
	})
}

func TestSeededSource_IntnPanicsOnNonPositive(t *testing.T) {
	src := rng.NewSeededSource(7)
	assert.Panics(t, func() { src.Intn(0) })
	assert.Panics(t, func() { src.Intn(-5) })
}

func TestCryptoSource_Ranges(t *testing.T) {
	src := rng.NewCryptoSource()
	for i := 0; i < 50; i++ {
		v := src.Intn(6)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 6)
		f := src.Float64()
		require.GreaterOrEqual(t, f, 0.0)
		require.Less(t, f, 1.0)
	}
}

func TestLoggedSource_PassesThrough(t *testing.T) {
	base := rng.NewSeededSource(9)
	logged := rng.NewLoggedSource(rng.NewSeededSource(9), zap.NewNop())
	for i := 0; i < 25; i++ {
		assert.Equal(t, base.Intn(100), logged.Intn(100))
	}
	assert.Equal(t, base.Float64(), logged.Float64())
}
