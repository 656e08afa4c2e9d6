// Package typechart implements the type-effectiveness chart: the static
// multiplier matrix, battle-condition transforms, the battle-scoped
// adaptive-resistance overlay, and offensive coverage analysis.
package typechart

import "fmt"

// Category is one elemental category assignable to creatures and moves.
type Category int

const (
	Fire Category = iota
	Water
	Plant
	Storm
	Earth
	Frost
	Beast
	Toxin
	Psychic
	Metal
	// Divine and Chaos are restricted: assignable only to top-rank creatures.
	Divine
	Chaos
)

// CategoryCount is the size of the closed category set.
const CategoryCount = 12

var categoryNames = [CategoryCount]string{
	"fire", "water", "plant", "storm", "earth", "frost",
	"beast", "toxin", "psychic", "metal", "divine", "chaos",
}

// String returns the lower-case category name, or "unknown" for values
// outside the closed set.
func (c Category) String() string {
	if !c.Valid() {
		return "unknown"
	}
	return categoryNames[c]
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	return c >= 0 && c < CategoryCount
}

// Restricted reports whether c may only be assigned to top-rank creatures.
func (c Category) Restricted() bool {
	return c == Divine || c == Chaos
}

// ParseCategory resolves a category name to its Category value.
//
// Postcondition: returns a valid Category, or an error naming the unknown
// input.
func ParseCategory(name string) (Category, error) {
	for i, n := range categoryNames {
		if n == name {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("typechart: unknown category %q", name)
}

// AllCategories returns the closed category set in declaration order.
func AllCategories() []Category {
	out := make([]Category, CategoryCount)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// ValidateDefenderTypes checks a creature's category assignment: 1 or 2
// categories, distinct when 2.
//
// Postcondition: returns nil iff types is a legal assignment.
func ValidateDefenderTypes(types []Category) error {
	switch len(types) {
	case 1:
		if !types[0].Valid() {
			return fmt.Errorf("typechart: invalid category %d", int(types[0]))
		}
		return nil
	case 2:
		if !types[0].Valid() || !types[1].Valid() {
			return fmt.Errorf("typechart: invalid category in pair (%d, %d)", int(types[0]), int(types[1]))
		}
		if types[0] == types[1] {
			return fmt.Errorf("typechart: duplicate category %s in dual assignment", types[0])
		}
		return nil
	default:
		return fmt.Errorf("typechart: creature must have 1 or 2 categories, got %d", len(types))
	}
}
