package formation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/avoid201/untoldstory-engine/internal/game/formation"
	"github.com/avoid201/untoldstory-engine/internal/game/rng"
	"github.com/avoid201/untoldstory-engine/internal/game/stats"
)

// enemyGrid builds three front-row enemies and, optionally, back-row
// occupants behind them.
func enemyGrid(back bool) []formation.Position {
	out := []formation.Position{
		{ID: "e0", Slot: formation.Slot{Column: 0, Row: formation.Front}, Alive: true},
		{ID: "e1", Slot: formation.Slot{Column: 1, Row: formation.Front}, Alive: true},
		{ID: "e2", Slot: formation.Slot{Column: 2, Row: formation.Front}, Alive: true},
	}
	if back {
		out = append(out,
			formation.Position{ID: "b0", Slot: formation.Slot{Column: 0, Row: formation.Back}, Alive: true},
			formation.Position{ID: "b1", Slot: formation.Slot{Column: 1, Row: formation.Back}, Alive: true},
		)
	}
	return out
}

func allySolo() []formation.Position {
	return []formation.Position{
		{ID: "a0", Slot: formation.Slot{Column: 0, Row: formation.Front}, Alive: true},
	}
}

func shareMap(t *testing.T, shares []formation.TargetShare) map[string]float64 {
	t.Helper()
	m := make(map[string]float64, len(shares))
	for _, s := range shares {
		m[s.TargetID] = s.Share
	}
	require.Len(t, m, len(shares), "duplicate target in expansion")
	return m
}

func TestExpand_Single(t *testing.T) {
	got, err := formation.Expand(formation.Single, "a0", "e1", allySolo(), enemyGrid(false), nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, formation.TargetShare{TargetID: "e1", Share: 1.0}, got[0])
}

func TestExpand_SingleDeadPrimaryIsNoOp(t *testing.T) {
	enemies := enemyGrid(false)
	enemies[1].Alive = false
	got, err := formation.Expand(formation.Single, "a0", "e1", allySolo(), enemies, nil)
	require.NoError(t, err)
	assert.Empty(t, got, "dead primary target skips the action, not an error")
}

func TestExpand_SingleMissingPrimaryFails(t *testing.T) {
	_, err := formation.Expand(formation.Single, "a0", "", allySolo(), enemyGrid(false), nil)
	assert.Error(t, err)
}

func TestExpand_AllEnemiesAreaTax(t *testing.T) {
	got, err := formation.Expand(formation.AllEnemies, "a0", "", allySolo(), enemyGrid(false), nil)
	require.NoError(t, err)
	m := shareMap(t, got)
	require.Len(t, m, 3)
	for id, share := range m {
		assert.Equal(t, 0.75, share, "target %s", id)
	}
}

func TestExpand_AllEnemiesSoleSurvivorFullShare(t *testing.T) {
	enemies := enemyGrid(false)
	enemies[0].Alive = false
	enemies[2].Alive = false
	got, err := formation.Expand(formation.AllEnemies, "a0", "", allySolo(), enemies, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, formation.TargetShare{TargetID: "e1", Share: 1.0}, got[0])
}

func TestExpand_AllEnemiesNoneLivingIsNoOp(t *testing.T) {
	enemies := enemyGrid(false)
	for i := range enemies {
		enemies[i].Alive = false
	}
	got, err := formation.Expand(formation.AllEnemies, "a0", "", allySolo(), enemies, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExpand_RowEnemy(t *testing.T) {
	got, err := formation.Expand(formation.RowEnemy, "a0", "e1", allySolo(), enemyGrid(true), nil)
	require.NoError(t, err)
	m := shareMap(t, got)
	assert.Equal(t, map[string]float64{"e0": 0.80, "e1": 1.0, "e2": 0.80}, m,
		"only the primary's row, side slots at 0.8")
}

func TestExpand_Pierce(t *testing.T) {
	got, err := formation.Expand(formation.Pierce, "a0", "e0", allySolo(), enemyGrid(true), nil)
	require.NoError(t, err)
	m := shareMap(t, got)
	assert.Equal(t, map[string]float64{"e0": 1.0, "b0": 0.75}, m)
}

func TestExpand_PierceColumnWithoutBackRow(t *testing.T) {
	got, err := formation.Expand(formation.Pierce, "a0", "e2", allySolo(), enemyGrid(true), nil)
	require.NoError(t, err)
	m := shareMap(t, got)
	assert.Equal(t, map[string]float64{"e2": 1.0}, m)
}

func TestExpand_Adjacent(t *testing.T) {
	got, err := formation.Expand(formation.Adjacent, "a0", "e1", allySolo(), enemyGrid(false), nil)
	require.NoError(t, err)
	m := shareMap(t, got)
	assert.Equal(t, map[string]float64{"e0": 0.60, "e1": 1.0, "e2": 0.60}, m)
}

func TestExpand_AdjacentEdgeColumn(t *testing.T) {
	got, err := formation.Expand(formation.Adjacent, "a0", "e0", allySolo(), enemyGrid(false), nil)
	require.NoError(t, err)
	m := shareMap(t, got)
	assert.Equal(t, map[string]float64{"e0": 1.0, "e1": 0.60}, m)
}

func TestExpand_SpreadDeterministicAndBounded(t *testing.T) {
	first, err := formation.Expand(formation.SpreadEnemies, "a0", "", allySolo(), enemyGrid(true), rng.NewSeededSource(7))
	require.NoError(t, err)
	second, err := formation.Expand(formation.SpreadEnemies, "a0", "", allySolo(), enemyGrid(true), rng.NewSeededSource(7))
	require.NoError(t, err)
	assert.Equal(t, first, second, "same seed, same spread")

	m := shareMap(t, first)
	assert.GreaterOrEqual(t, len(m), 2)
	assert.LessOrEqual(t, len(m), 4)
	for id, share := range m {
		assert.Equal(t, 0.85, share, "target %s", id)
	}
}

func TestExpand_SpreadClampsToPool(t *testing.T) {
	enemies := enemyGrid(false)
	enemies[0].Alive = false
	enemies[2].Alive = false
	got, err := formation.Expand(formation.SpreadEnemies, "a0", "", allySolo(), enemies, rng.NewSeededSource(3))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "e1", got[0].TargetID)
}

func TestExpand_RandomEnemy(t *testing.T) {
	got, err := formation.Expand(formation.RandomEnemy, "a0", "", allySolo(), enemyGrid(false), rng.NewSeededSource(11))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1.0, got[0].Share)
	assert.Contains(t, []string{"e0", "e1", "e2"}, got[0].TargetID)
}

func TestExpand_Self(t *testing.T) {
	got, err := formation.Expand(formation.Self, "a0", "", allySolo(), enemyGrid(false), nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, formation.TargetShare{TargetID: "a0", Share: 1.0}, got[0])
}

func TestExpand_Property_SharesPositiveAndTargetsLiving(t *testing.T) {
	selectors := []formation.Selector{
		formation.Single, formation.AllEnemies, formation.AllAllies,
		formation.RowEnemy, formation.SpreadEnemies, formation.Pierce,
		formation.Adjacent, formation.RandomEnemy, formation.RandomAlly, formation.Self,
	}
	rapid.Check(t, func(rt *rapid.T) {
		sel := rapid.SampledFrom(selectors).Draw(rt, "selector")
		enemies := enemyGrid(true)
		for i := range enemies {
			enemies[i].Alive = rapid.Bool().Draw(rt, "alive")
		}
		src := rng.NewSeededSource(rapid.Uint64().Draw(rt, "seed"))
		got, err := formation.Expand(sel, "a0", "e1", allySolo(), enemies, src)
		require.NoError(rt, err)

		livingIDs := map[string]bool{"a0": true}
		for _, e := range enemies {
			if e.Alive {
				livingIDs[e.ID] = true
			}
		}
		for _, ts := range got {
			assert.Greater(rt, ts.Share, 0.0)
			assert.True(rt, livingIDs[ts.TargetID], "target %s not living", ts.TargetID)
		}
	})
}

func TestTypeModifier(t *testing.T) {
	assert.Equal(t, 1.10, formation.Offensive.Modifier(stats.Attack))
	assert.Equal(t, 1.0, formation.Offensive.Modifier(stats.Defense))
	assert.Equal(t, 1.10, formation.Defensive.Modifier(stats.Defense))
	assert.Equal(t, 1.05, formation.Wedge.Modifier(stats.Accuracy))
	assert.Equal(t, 1.10, formation.Spread.Modifier(stats.Speed))
	for _, s := range []stats.Stat{stats.Attack, stats.Defense, stats.Speed, stats.Accuracy} {
		assert.Equal(t, 1.0, formation.Standard.Modifier(s))
	}
}

func TestParseSelector(t *testing.T) {
	s, err := formation.ParseSelector("all_enemies")
	require.NoError(t, err)
	assert.Equal(t, formation.AllEnemies, s)
	_, err = formation.ParseSelector("everyone")
	assert.Error(t, err)
}

func TestParseType(t *testing.T) {
	ty, err := formation.ParseType("wedge")
	require.NoError(t, err)
	assert.Equal(t, formation.Wedge, ty)
	_, err = formation.ParseType("phalanx")
	assert.Error(t, err)
}
