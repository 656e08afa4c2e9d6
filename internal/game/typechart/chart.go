package typechart

import (
	"bytes"
	"fmt"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
	"gopkg.in/yaml.v3"

	"github.com/avoid201/untoldstory-engine/internal/game/rng"
)

// dualCacheSize bounds the combined-lookup cache. The full dual-type space
// is 12 * (12 + 66) pairs per condition; 1024 holds it all with headroom.
const dualCacheSize = 1024

// Chart is the immutable effectiveness matrix plus a lookup cache.
// Safe for concurrent use by multiple battle sessions once constructed.
type Chart struct {
	matrix [CategoryCount][CategoryCount]float64
	dual   *lru.Cache[dualKey, float64]
}

type dualKey struct {
	attacking Category
	primary   Category
	secondary Category // == primary for single-type defenders
	condition Condition
}

// New constructs a Chart from a fully populated matrix keyed by category
// name. Every attacking row must define a multiplier for every defending
// category; multipliers must be non-negative.
//
// Postcondition: returns a Chart with all CategoryCount^2 cells set, or an
// error naming the first missing/invalid cell.
func New(cells map[string]map[string]float64) (*Chart, error) {
	c := &Chart{}
	for _, att := range AllCategories() {
		row, ok := cells[att.String()]
		if !ok {
			return nil, fmt.Errorf("typechart: matrix missing attacking row %q", att)
		}
		for _, def := range AllCategories() {
			mult, ok := row[def.String()]
			if !ok {
				return nil, fmt.Errorf("typechart: matrix missing cell [%s][%s]", att, def)
			}
			if mult < 0 {
				return nil, fmt.Errorf("typechart: negative multiplier %v at [%s][%s]", mult, att, def)
			}
			c.matrix[att][def] = mult
		}
	}
	cache, err := lru.New[dualKey, float64](dualCacheSize)
	if err != nil {
		return nil, fmt.Errorf("typechart: creating lookup cache: %w", err)
	}
	c.dual = cache
	return c, nil
}

// chartFile is the YAML shape of a chart data file.
type chartFile struct {
	Effectiveness map[string]map[string]float64 `yaml:"effectiveness"`
}

// LoadFile reads a chart from a YAML file. Decoding is strict: unknown
// fields fail the load.
//
// Postcondition: returns a fully populated Chart or a non-nil error.
func LoadFile(path string) (*Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("typechart: reading %q: %w", path, err)
	}
	var f chartFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("typechart: parsing %q: %w", path, err)
	}
	return New(f.Effectiveness)
}

// Effectiveness returns the multiplier for one attacking category against
// one defending category under the given battle condition. Chaotic draws
// its jitter from src; the other conditions never touch src and accept nil.
//
// Precondition: attacking and defending must be valid categories (the
// matrix is fully populated, so an invalid index is a programming error
// and panics); src must be non-nil when cond == Chaotic.
func (c *Chart) Effectiveness(attacking, defending Category, cond Condition, src rng.Source) float64 {
	if !attacking.Valid() || !defending.Valid() {
		panic(fmt.Sprintf("typechart: effectiveness lookup with invalid pair (%d, %d)", int(attacking), int(defending)))
	}
	base := c.matrix[attacking][defending]
	switch cond {
	case Normal:
		return base
	case Inverse:
		return inverseMultiplier(base)
	case Chaotic:
		jitter := 1 - ChaoticJitter + 2*ChaoticJitter*src.Float64()
		return base * jitter
	case Pure:
		if attacking == defending {
			return 1.0
		}
		return 0
	default:
		panic(fmt.Sprintf("typechart: unknown battle condition %d", int(cond)))
	}
}

// CombinedEffectiveness returns the product of per-type lookups against a
// 1- or 2-category defender. Dual defending types multiply independently
// and the product is uncapped: a 4x hit against a double-weak defender is
// intended behavior.
//
// Deterministic lookups (everything but Chaotic) are served from a shared
// LRU cache; Chaotic bypasses the cache because each lookup consumes
// entropy.
//
// Precondition: defending must satisfy ValidateDefenderTypes; invalid
// combos panic, matching single-lookup behavior.
func (c *Chart) CombinedEffectiveness(attacking Category, defending []Category, cond Condition, src rng.Source) float64 {
	if err := ValidateDefenderTypes(defending); err != nil {
		panic(err.Error())
	}

	if cond == Chaotic {
		product := 1.0
		for _, def := range defending {
			product *= c.Effectiveness(attacking, def, cond, src)
		}
		return product
	}

	key := dualKey{attacking: attacking, primary: defending[0], secondary: defending[0], condition: cond}
	if len(defending) == 2 {
		// Normalize order so (A,B) and (B,A) share a cache entry.
		a, b := defending[0], defending[1]
		if b < a {
			a, b = b, a
		}
		key.primary, key.secondary = a, b
	}
	if v, ok := c.dual.Get(key); ok {
		return v
	}

	product := 1.0
	for _, def := range defending {
		product *= c.Effectiveness(attacking, def, cond, nil)
	}
	c.dual.Add(key, product)
	return product
}

// Multiplier returns the raw Normal-condition matrix cell, bypassing all
// condition transforms. Used by coverage analysis.
func (c *Chart) Multiplier(attacking, defending Category) float64 {
	if !attacking.Valid() || !defending.Valid() {
		panic(fmt.Sprintf("typechart: multiplier lookup with invalid pair (%d, %d)", int(attacking), int(defending)))
	}
	return c.matrix[attacking][defending]
}
