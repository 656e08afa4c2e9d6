// Package stats holds combat stat blocks and the stat-stage modifier table.
package stats

import "fmt"

// Stat identifies one modifiable combat statistic.
type Stat int

const (
	Attack Stat = iota
	Defense
	Magic
	Resistance
	Speed
	Accuracy
	Evasion
)

// String returns the lower-case stat name.
func (s Stat) String() string {
	switch s {
	case Attack:
		return "attack"
	case Defense:
		return "defense"
	case Magic:
		return "magic"
	case Resistance:
		return "resistance"
	case Speed:
		return "speed"
	case Accuracy:
		return "accuracy"
	case Evasion:
		return "evasion"
	default:
		return "unknown"
	}
}

// MinStage and MaxStage bound the stat-stage range.
const (
	MinStage = -6
	MaxStage = 6
)

// stageRatios maps stage -6..+6 (index 0..12) to a stat multiplier.
// The table is deliberately non-linear: drops bite harder than raises,
// and +6 tops out at x2.5 rather than doubling per stage.
var stageRatios = [13]float64{
	0.25, 0.30, 0.40, 0.50, 0.66, 0.80,
	1.00,
	1.20, 1.40, 1.60, 1.80, 2.10, 2.50,
}

// StageRatio returns the multiplier for a stat stage.
//
// Precondition: stage must be in [MinStage, MaxStage]; out-of-range stages
// are a programming error and panic.
func StageRatio(stage int) float64 {
	if stage < MinStage || stage > MaxStage {
		panic(fmt.Sprintf("stats: stage %d out of range [%d,%d]", stage, MinStage, MaxStage))
	}
	return stageRatios[stage-MinStage]
}

// ClampStage clamps stage into [MinStage, MaxStage].
//
// Postcondition: MinStage <= result <= MaxStage.
func ClampStage(stage int) int {
	if stage < MinStage {
		return MinStage
	}
	if stage > MaxStage {
		return MaxStage
	}
	return stage
}

// Block is a creature's base combat statistics.
type Block struct {
	MaxHP      int `yaml:"max_hp"`
	MaxMP      int `yaml:"max_mp"`
	Attack     int `yaml:"attack"`
	Defense    int `yaml:"defense"`
	Magic      int `yaml:"magic"`
	Resistance int `yaml:"resistance"`
	Speed      int `yaml:"speed"`
}

// Validate checks the block describes a usable combatant.
//
// Postcondition: returns nil iff MaxHP >= 1 and no stat is negative.
func (b Block) Validate() error {
	if b.MaxHP < 1 {
		return fmt.Errorf("stats: max_hp must be >= 1, got %d", b.MaxHP)
	}
	for _, v := range []struct {
		name string
		val  int
	}{
		{"max_mp", b.MaxMP},
		{"attack", b.Attack},
		{"defense", b.Defense},
		{"magic", b.Magic},
		{"resistance", b.Resistance},
		{"speed", b.Speed},
	} {
		if v.val < 0 {
			return fmt.Errorf("stats: %s must be >= 0, got %d", v.name, v.val)
		}
	}
	return nil
}

// Base returns the raw value of stat s. Accuracy and Evasion have no base
// statistic; their baseline is stage 0 (ratio 1.0) and Base returns 0.
func (b Block) Base(s Stat) int {
	switch s {
	case Attack:
		return b.Attack
	case Defense:
		return b.Defense
	case Magic:
		return b.Magic
	case Resistance:
		return b.Resistance
	case Speed:
		return b.Speed
	default:
		return 0
	}
}

// Stages tracks the per-stat stage modifiers applied to one combatant
// during a battle. The zero value is all stages at 0.
type Stages struct {
	stages map[Stat]int
}

// NewStages creates an empty stage set.
func NewStages() *Stages {
	return &Stages{stages: make(map[Stat]int)}
}

// Get returns the current stage for s, 0 if never modified.
func (st *Stages) Get(s Stat) int {
	if st == nil || st.stages == nil {
		return 0
	}
	return st.stages[s]
}

// Apply shifts the stage for s by delta, clamping to [MinStage, MaxStage].
// Returns the actual change after clamping (0 if already at the bound).
//
// Postcondition: Get(s) is within [MinStage, MaxStage].
func (st *Stages) Apply(s Stat, delta int) int {
	before := st.stages[s]
	after := ClampStage(before + delta)
	st.stages[s] = after
	return after - before
}

// Reset clears all stage modifiers back to 0.
func (st *Stages) Reset() {
	st.stages = make(map[Stat]int)
}

// Effective computes the effective value of stat s: base x stage ratio,
// truncated to an integer, floored at 1 for any positive base.
//
// Postcondition: result >= 1 when b.Base(s) >= 1.
func Effective(b Block, st *Stages, s Stat) int {
	base := b.Base(s)
	if base <= 0 {
		return base
	}
	v := int(float64(base) * StageRatio(st.Get(s)))
	if v < 1 {
		v = 1
	}
	return v
}
