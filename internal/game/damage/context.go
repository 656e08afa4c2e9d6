// Package damage implements the staged damage-calculation pipeline. A
// fixed, ordered list of stages transforms an attack context into an
// immutable DamageResult; re-running with an identical seeded RNG stream
// and identical context produces an identical result.
package damage

import (
	"fmt"

	"github.com/avoid201/untoldstory-engine/internal/game/creature"
	"github.com/avoid201/untoldstory-engine/internal/game/formation"
	"github.com/avoid201/untoldstory-engine/internal/game/rng"
	"github.com/avoid201/untoldstory-engine/internal/game/skills"
	"github.com/avoid201/untoldstory-engine/internal/game/status"
	"github.com/avoid201/untoldstory-engine/internal/game/typechart"
)

// SpreadWindow selects the random damage-spread variant for a session.
type SpreadWindow int

const (
	// SpreadClassic multiplies by a uniform factor in [0.85, 1.00].
	SpreadClassic SpreadWindow = iota
	// SpreadAsymmetric multiplies by a uniform factor in [0.875, 1.125].
	SpreadAsymmetric
)

// ParseSpreadWindow resolves a spread-window name.
func ParseSpreadWindow(name string) (SpreadWindow, error) {
	switch name {
	case "classic":
		return SpreadClassic, nil
	case "asymmetric":
		return SpreadAsymmetric, nil
	}
	return 0, fmt.Errorf("damage: unknown spread window %q", name)
}

// bounds returns the window's [lo, hi] factor range.
func (s SpreadWindow) bounds() (lo, hi float64) {
	if s == SpreadAsymmetric {
		return 0.875, 1.125
	}
	return 0.85, 1.00
}

// Context carries one attack through the pipeline. Stages read and write
// only the context and the session-owned collaborators it references.
type Context struct {
	Attacker *creature.Combatant
	Defender *creature.Combatant
	Move     *skills.Move

	Chart     *typechart.Chart
	Adaptive  *typechart.AdaptiveState
	Condition typechart.Condition
	Weather   Weather
	Env       *EnvironmentQueue

	// AttackerFormation and DefenderFormation are the side-wide stances,
	// consulted by the accuracy and base-power stages.
	AttackerFormation formation.Type
	DefenderFormation formation.Type

	// Share is the damage-share multiplier from target expansion.
	Share float64

	Window SpreadWindow
	Src    rng.Source

	// Accumulated state, owned by the pipeline.
	damage    float64
	missed    bool
	crit      bool
	tier      typechart.Tier
	reflected bool
	inflicted status.Kind
	messages  []string
	done      bool
}

// addMessage appends a display string to the ordered message log.
func (c *Context) addMessage(format string, args ...any) {
	c.messages = append(c.messages, fmt.Sprintf(format, args...))
}

// Result is the immutable outcome of one pipeline run.
type Result struct {
	// Damage is the final integer damage (>= 1 unless missed, immune, or
	// the move deals no damage).
	Damage int
	// WasCritical is true when the critical stage fired.
	WasCritical bool
	// Tier records the effectiveness classification for messaging.
	Tier typechart.Tier
	// Missed is true when the accuracy stage short-circuited the run.
	Missed bool
	// Reflected is true when the defender's magic mirror bounced the hit;
	// the caller applies Damage to the attacker instead.
	Reflected bool
	// InflictedStatus is the status rider to apply to the defender, or
	// status.None.
	InflictedStatus status.Kind
	// Messages is the ordered display log for the presentation layer.
	Messages []string
}

// StageError identifies the pipeline stage that could not resolve a
// required input. The calculation fails as a whole; nothing is defaulted.
type StageError struct {
	Stage string
	Ref   string
	Err   error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("damage: stage %s: %s: %v", e.Stage, e.Ref, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage, ref string, format string, args ...any) *StageError {
	return &StageError{Stage: stage, Ref: ref, Err: fmt.Errorf(format, args...)}
}
