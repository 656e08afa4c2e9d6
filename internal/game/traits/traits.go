// Package traits defines the closed capability set consulted by the
// damage pipeline. Traits are tagged variants, not scripts: every effect
// a trait can have is an explicit, ordered check in a pipeline stage.
package traits

import (
	"fmt"
	"sort"
	"strings"
)

// Tag is one capability marker.
type Tag int

const (
	// KeenEye doubles the holder's critical-hit chance.
	KeenEye Tag = iota
	// Berserk multiplies the holder's physical damage output by 1.25.
	Berserk
	// BlastGuard halves incoming damage from explosive moves.
	BlastGuard
	// MagicMirror gives a 25% chance to reflect incoming magical moves
	// back at the attacker.
	MagicMirror
	// Aegis caps incoming damage at 1 regardless of the formula. Applied
	// as the last defensive override so upstream multipliers cannot
	// bypass it.
	Aegis
	// WeatherWard grants immunity to end-of-turn weather chip damage.
	WeatherWard
)

var tagNames = map[Tag]string{
	KeenEye:     "keen_eye",
	Berserk:     "berserk",
	BlastGuard:  "blast_guard",
	MagicMirror: "magic_mirror",
	Aegis:       "aegis",
	WeatherWard: "weather_ward",
}

// String returns the snake_case tag name.
func (t Tag) String() string {
	if n, ok := tagNames[t]; ok {
		return n
	}
	return "unknown"
}

// ParseTag resolves a tag name.
func ParseTag(name string) (Tag, error) {
	for t, n := range tagNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("traits: unknown trait %q", name)
}

// Set is a combatant's trait collection. The zero value is usable and empty.
type Set struct {
	tags map[Tag]struct{}
}

// NewSet builds a Set from the given tags.
func NewSet(tags ...Tag) Set {
	s := Set{tags: make(map[Tag]struct{}, len(tags))}
	for _, t := range tags {
		s.tags[t] = struct{}{}
	}
	return s
}

// ParseSet builds a Set from tag names, failing on the first unknown name.
func ParseSet(names []string) (Set, error) {
	tags := make([]Tag, 0, len(names))
	for _, n := range names {
		t, err := ParseTag(n)
		if err != nil {
			return Set{}, err
		}
		tags = append(tags, t)
	}
	return NewSet(tags...), nil
}

// Has reports whether the set contains t.
func (s Set) Has(t Tag) bool {
	_, ok := s.tags[t]
	return ok
}

// String returns the sorted, comma-joined tag names.
func (s Set) String() string {
	names := make([]string, 0, len(s.tags))
	for t := range s.tags {
		names = append(names, t.String())
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}
