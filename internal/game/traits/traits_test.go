package traits_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoid201/untoldstory-engine/internal/game/traits"
)

func TestSet_Has(t *testing.T) {
	s := traits.NewSet(traits.KeenEye, traits.Aegis)
	assert.True(t, s.Has(traits.KeenEye))
	assert.True(t, s.Has(traits.Aegis))
	assert.False(t, s.Has(traits.Berserk))
}

func TestSet_ZeroValueIsEmpty(t *testing.T) {
	var s traits.Set
	assert.False(t, s.Has(traits.KeenEye))
	assert.Equal(t, "", s.String())
}

func TestParseSet(t *testing.T) {
	s, err := traits.ParseSet([]string{"keen_eye", "magic_mirror"})
	require.NoError(t, err)
	assert.True(t, s.Has(traits.KeenEye))
	assert.True(t, s.Has(traits.MagicMirror))

	_, err = traits.ParseSet([]string{"keen_eye", "levitate"})
	assert.Error(t, err)
}

func TestSet_StringSorted(t *testing.T) {
	s := traits.NewSet(traits.WeatherWard, traits.Berserk, traits.Aegis)
	assert.Equal(t, "aegis,berserk,weather_ward", s.String())
}

func TestTag_RoundTrip(t *testing.T) {
	for _, tag := range []traits.Tag{
		traits.KeenEye, traits.Berserk, traits.BlastGuard,
		traits.MagicMirror, traits.Aegis, traits.WeatherWard,
	} {
		parsed, err := traits.ParseTag(tag.String())
		require.NoError(t, err)
		assert.Equal(t, tag, parsed)
	}
}
