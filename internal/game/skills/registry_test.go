package skills_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoid201/untoldstory-engine/internal/game/formation"
	"github.com/avoid201/untoldstory-engine/internal/game/skills"
	"github.com/avoid201/untoldstory-engine/internal/game/status"
	"github.com/avoid201/untoldstory-engine/internal/game/typechart"
)

func writeMove(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

const emberYAML = `id: ember
name: Ember
category: fire
class: magical
power: 40
accuracy: 0.95
mp_cost: 2
crit_tier: normal
selector: single
inflicts:
  status: burn
  chance: 0.1
`

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeMove(t, dir, "ember.yaml", emberYAML)
	writeMove(t, dir, "quake.yaml", `id: quake
name: Quake
category: earth
class: physical
power: 60
accuracy: 1.0
mp_cost: 4
crit_tier: improved
selector: all_enemies
`)
	writeMove(t, dir, "README.md", "not a move")

	reg, err := skills.LoadDirectory(dir)
	require.NoError(t, err)
	assert.Len(t, reg.All(), 2)

	ember, ok := reg.Get("ember")
	require.True(t, ok)
	assert.Equal(t, typechart.Fire, ember.Category)
	assert.Equal(t, skills.Magical, ember.Class)
	assert.Equal(t, 40, ember.Power)
	assert.Equal(t, formation.Single, ember.Selector)
	require.NotNil(t, ember.Inflicts)
	assert.Equal(t, status.Burn, ember.Inflicts.Status)
	assert.Equal(t, 0.1, ember.Inflicts.Chance)
	assert.True(t, ember.Damaging())

	quake, ok := reg.Get("quake")
	require.True(t, ok)
	assert.Equal(t, skills.CritImproved, quake.CritTier)
	assert.Equal(t, formation.AllEnemies, quake.Selector)
	assert.Nil(t, quake.Inflicts)
}

func TestLoadDirectory_UnknownCategoryFails(t *testing.T) {
	dir := t.TempDir()
	writeMove(t, dir, "bad.yaml", `id: zap
name: Zap
category: lightning
class: magical
power: 40
accuracy: 1.0
selector: single
`)
	_, err := skills.LoadDirectory(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lightning")
}

func TestLoadDirectory_UnknownFieldFails(t *testing.T) {
	dir := t.TempDir()
	writeMove(t, dir, "bad.yaml", emberYAML+"flavor_text: hot\n")
	assert.Error(t, func() error { _, err := skills.LoadDirectory(dir); return err }())
}

func TestLoadDirectory_BadAccuracyFails(t *testing.T) {
	dir := t.TempDir()
	writeMove(t, dir, "bad.yaml", `id: wild
name: Wild
category: beast
class: physical
power: 120
accuracy: 1.5
selector: single
`)
	assert.Error(t, func() error { _, err := skills.LoadDirectory(dir); return err }())
}

func TestLoadDirectory_BadInflictionFails(t *testing.T) {
	dir := t.TempDir()
	writeMove(t, dir, "bad.yaml", `id: hex
name: Hex
category: chaos
class: magical
power: 30
accuracy: 1.0
selector: single
inflicts:
  status: confusion
  chance: 0.5
`)
	assert.Error(t, func() error { _, err := skills.LoadDirectory(dir); return err }())
}

func TestCritTier_FactorsStrictlyIncreasing(t *testing.T) {
	tiers := []skills.CritTier{
		skills.CritNormal, skills.CritImproved, skills.CritGuaranteed, skills.CritDevastating,
	}
	for i := 1; i < len(tiers); i++ {
		assert.Greater(t, tiers[i].Factor(), tiers[i-1].Factor(),
			"%s must out-multiply %s", tiers[i], tiers[i-1])
	}
	assert.True(t, skills.CritGuaranteed.AlwaysCrits())
	assert.False(t, skills.CritNormal.AlwaysCrits())
}
