package skills

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/avoid201/untoldstory-engine/internal/game/formation"
	"github.com/avoid201/untoldstory-engine/internal/game/status"
	"github.com/avoid201/untoldstory-engine/internal/game/typechart"
)

// moveFile is the YAML shape of one move definition.
type moveFile struct {
	ID        string  `yaml:"id"`
	Name      string  `yaml:"name"`
	Category  string  `yaml:"category"`
	Class     string  `yaml:"class"`
	Power     int     `yaml:"power"`
	Accuracy  float64 `yaml:"accuracy"`
	MPCost    int     `yaml:"mp_cost"`
	Priority  int     `yaml:"priority"`
	CritTier  string  `yaml:"crit_tier"`
	Selector  string  `yaml:"selector"`
	Explosive bool    `yaml:"explosive"`
	Inflicts  *struct {
		Status string  `yaml:"status"`
		Chance float64 `yaml:"chance"`
	} `yaml:"inflicts"`
}

// resolve validates and converts the file shape into a Move.
func (f moveFile) resolve() (*Move, error) {
	if f.ID == "" {
		return nil, fmt.Errorf("skills: move missing id")
	}
	if f.Power < 0 {
		return nil, fmt.Errorf("skills: move %q has negative power %d", f.ID, f.Power)
	}
	if f.Accuracy < 0 || f.Accuracy > 1 {
		return nil, fmt.Errorf("skills: move %q accuracy %v outside [0,1]", f.ID, f.Accuracy)
	}
	if f.MPCost < 0 {
		return nil, fmt.Errorf("skills: move %q has negative mp_cost %d", f.ID, f.MPCost)
	}
	cat, err := typechart.ParseCategory(f.Category)
	if err != nil {
		return nil, fmt.Errorf("skills: move %q: %w", f.ID, err)
	}
	class, err := ParseDamageClass(f.Class)
	if err != nil {
		return nil, fmt.Errorf("skills: move %q: %w", f.ID, err)
	}
	tier := CritNormal
	if f.CritTier != "" {
		tier, err = ParseCritTier(f.CritTier)
		if err != nil {
			return nil, fmt.Errorf("skills: move %q: %w", f.ID, err)
		}
	}
	sel, err := formation.ParseSelector(f.Selector)
	if err != nil {
		return nil, fmt.Errorf("skills: move %q: %w", f.ID, err)
	}
	m := &Move{
		ID:        f.ID,
		Name:      f.Name,
		Category:  cat,
		Class:     class,
		Power:     f.Power,
		Accuracy:  f.Accuracy,
		MPCost:    f.MPCost,
		Priority:  f.Priority,
		CritTier:  tier,
		Selector:  sel,
		Explosive: f.Explosive,
	}
	if f.Inflicts != nil {
		k, err := status.ParseKind(f.Inflicts.Status)
		if err != nil {
			return nil, fmt.Errorf("skills: move %q: %w", f.ID, err)
		}
		if k == status.None {
			return nil, fmt.Errorf("skills: move %q inflicts %q", f.ID, f.Inflicts.Status)
		}
		if f.Inflicts.Chance <= 0 || f.Inflicts.Chance > 1 {
			return nil, fmt.Errorf("skills: move %q infliction chance %v outside (0,1]", f.ID, f.Inflicts.Chance)
		}
		m.Inflicts = &Infliction{Status: k, Chance: f.Inflicts.Chance}
	}
	return m, nil
}

// Registry holds all known Moves keyed by ID.
type Registry struct {
	moves map[string]*Move
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{moves: make(map[string]*Move)}
}

// Register adds m to the registry, overwriting any existing entry with the
// same ID.
//
// Precondition: m must not be nil and m.ID must not be empty.
func (r *Registry) Register(m *Move) {
	r.moves[m.ID] = m
}

// Get returns the Move for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Move, bool) {
	m, ok := r.moves[id]
	return m, ok
}

// All returns a snapshot slice of all registered Moves.
func (r *Registry) All() []*Move {
	out := make([]*Move, 0, len(r.moves))
	for _, m := range r.moves {
		out = append(out, m)
	}
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each as a move
// definition, and returns a populated Registry. Decoding is strict:
// unknown fields fail the load.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns a non-nil Registry, or an error if any file
// fails to parse or resolve.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("skills: reading move dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("skills: reading %q: %w", path, err)
		}
		var f moveFile
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("skills: parsing %q: %w", path, err)
		}
		m, err := f.resolve()
		if err != nil {
			return nil, fmt.Errorf("skills: %q: %w", path, err)
		}
		reg.Register(m)
	}
	return reg, nil
}
