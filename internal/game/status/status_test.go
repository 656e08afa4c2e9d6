package status_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/avoid201/untoldstory-engine/internal/game/rng"
	"github.com/avoid201/untoldstory-engine/internal/game/status"
)

// fixedSource returns canned values so gate outcomes are scripted.
type fixedSource struct {
	intn  int
	float float64
}

func (f fixedSource) Intn(n int) int   { return f.intn % n }
func (f fixedSource) Float64() float64 { return f.float }

func TestInflict_OnlyOneMajorStatus(t *testing.T) {
	var c status.Condition
	src := rng.NewSeededSource(1)

	require.NoError(t, c.Inflict(status.Burn, src))
	assert.Equal(t, status.Burn, c.Kind)

	err := c.Inflict(status.Poison, src)
	assert.Error(t, err, "a second major status must be rejected")
	assert.Equal(t, status.Burn, c.Kind)

	c.Cure()
	assert.Equal(t, status.None, c.Kind)
	assert.NoError(t, c.Inflict(status.Poison, src))
}

func TestInflict_NoneRejected(t *testing.T) {
	var c status.Condition
	assert.Error(t, c.Inflict(status.None, rng.NewSeededSource(1)))
}

func TestSleep_CountsDownAndWakes(t *testing.T) {
	var c status.Condition
	require.NoError(t, c.Inflict(status.Sleep, fixedSource{intn: 1})) // 2 turns

	g := c.CheckBeforeAction("Embergeist", fixedSource{})
	assert.False(t, g.CanAct)
	assert.Contains(t, g.Message, "asleep")

	g = c.CheckBeforeAction("Embergeist", fixedSource{})
	assert.True(t, g.CanAct)
	assert.Contains(t, g.Message, "woke up")
	assert.Equal(t, status.None, c.Kind)
}

func TestParalysis_SkipRoll(t *testing.T) {
	var c status.Condition
	require.NoError(t, c.Inflict(status.Paralysis, fixedSource{}))

	g := c.CheckBeforeAction("Voltmaw", fixedSource{float: 0.10})
	assert.False(t, g.CanAct, "roll below skip chance cancels the action")

	g = c.CheckBeforeAction("Voltmaw", fixedSource{float: 0.90})
	assert.True(t, g.CanAct)
	assert.Equal(t, status.Paralysis, c.Kind, "paralysis persists either way")
}

func TestFreeze_ThawRoll(t *testing.T) {
	var c status.Condition
	require.NoError(t, c.Inflict(status.Freeze, fixedSource{}))

	g := c.CheckBeforeAction("Glacier", fixedSource{float: 0.95})
	assert.False(t, g.CanAct)

	g = c.CheckBeforeAction("Glacier", fixedSource{float: 0.05})
	assert.True(t, g.CanAct)
	assert.Equal(t, status.None, c.Kind, "thawing cures the status")
}

func TestResidualDamage(t *testing.T) {
	var c status.Condition
	require.NoError(t, c.Inflict(status.Poison, fixedSource{}))
	assert.Equal(t, 4, c.ResidualDamage(32))

	c.Cure()
	require.NoError(t, c.Inflict(status.Burn, fixedSource{}))
	assert.Equal(t, 2, c.ResidualDamage(32))
	assert.Equal(t, 1, c.ResidualDamage(10), "chip damage floors at 1")

	c.Cure()
	assert.Equal(t, 0, c.ResidualDamage(32))
}

func TestModifierQueries(t *testing.T) {
	var c status.Condition
	require.NoError(t, c.Inflict(status.Burn, fixedSource{}))
	assert.True(t, c.HalvesPhysicalDamage())
	assert.False(t, c.PreventsEvasion())

	c.Cure()
	require.NoError(t, c.Inflict(status.Sleep, fixedSource{intn: 0}))
	assert.False(t, c.HalvesPhysicalDamage())
	assert.True(t, c.PreventsEvasion())
}

func TestSleep_Property_DurationBounded(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		var c status.Condition
		require.NoError(rt, c.Inflict(status.Sleep, rng.NewSeededSource(seed)))
		turns := 0
		for c.Kind == status.Sleep {
			c.CheckBeforeAction("x", rng.NewSeededSource(seed))
			turns++
			require.LessOrEqual(rt, turns, 3, "sleep must break within 3 checks")
		}
	})
}

func TestParseKind(t *testing.T) {
	k, err := status.ParseKind("paralysis")
	require.NoError(t, err)
	assert.Equal(t, status.Paralysis, k)
	_, err = status.ParseKind("curse")
	assert.Error(t, err)
}
