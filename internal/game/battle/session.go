// Package battle implements the battle session and its phase controller.
// A session owns all mutable combat state: rosters, the per-turn action
// buffers, the adaptive-resistance overlay, the environment queue, and
// the RNG stream. Sessions are single-threaded; independent sessions
// share nothing but the read-only chart and move registry.
package battle

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avoid201/untoldstory-engine/internal/game/creature"
	"github.com/avoid201/untoldstory-engine/internal/game/damage"
	"github.com/avoid201/untoldstory-engine/internal/game/formation"
	"github.com/avoid201/untoldstory-engine/internal/game/rng"
	"github.com/avoid201/untoldstory-engine/internal/game/skills"
	"github.com/avoid201/untoldstory-engine/internal/game/status"
	"github.com/avoid201/untoldstory-engine/internal/game/turnorder"
	"github.com/avoid201/untoldstory-engine/internal/game/typechart"
)

// Side roster limits.
const (
	maxRoster = 6
	maxActive = 3
)

// SideID identifies one of the two sides of a session.
type SideID int

const (
	SideA SideID = iota
	SideB
)

// String returns "A" or "B".
func (s SideID) String() string {
	if s == SideB {
		return "B"
	}
	return "A"
}

// Other returns the opposing side.
func (s SideID) Other() SideID {
	if s == SideA {
		return SideB
	}
	return SideA
}

// Phase is the controller's state-machine position. Only CommandInput
// and End are observable between calls; TurnOrder, Execution, and
// Aftermath are traversed inside ResolveTurn.
type Phase int

const (
	PhaseCommandInput Phase = iota
	PhaseTurnOrder
	PhaseExecution
	PhaseAftermath
	PhaseEnd
)

// String returns the lower-case phase name.
func (p Phase) String() string {
	switch p {
	case PhaseCommandInput:
		return "command_input"
	case PhaseTurnOrder:
		return "turn_order"
	case PhaseExecution:
		return "execution"
	case PhaseAftermath:
		return "aftermath"
	case PhaseEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of a session.
type Outcome int

const (
	OutcomeUndecided Outcome = iota
	OutcomeSideAWins
	OutcomeSideBWins
	OutcomeDraw
	OutcomeEscaped
)

// String returns the lower-case outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeSideAWins:
		return "side_a_wins"
	case OutcomeSideBWins:
		return "side_b_wins"
	case OutcomeDraw:
		return "draw"
	case OutcomeEscaped:
		return "escaped"
	default:
		return "undecided"
	}
}

// ParseOutcome resolves an outcome name, as stored by the summary
// repository.
func ParseOutcome(name string) (Outcome, error) {
	for _, o := range []Outcome{OutcomeUndecided, OutcomeSideAWins, OutcomeSideBWins, OutcomeDraw, OutcomeEscaped} {
		if o.String() == name {
			return o, nil
		}
	}
	return 0, fmt.Errorf("battle: unknown outcome %q", name)
}

// SideConfig describes one side of a new session.
type SideConfig struct {
	Specs     []creature.Spec
	Formation formation.Type
}

// Config carries everything a session needs at construction. Chart and
// Moves are read-only shared data; Src, the adaptive state, and the
// environment queue are session-scoped.
type Config struct {
	Chart     *typechart.Chart
	Moves     *skills.Registry
	Src       rng.Source
	Log       *zap.Logger
	Weather   damage.Weather
	Condition typechart.Condition
	Window    damage.SpreadWindow
	// Wild permits flee attempts to succeed; in a non-wild session a
	// flee action resolves to a failure message.
	Wild  bool
	SideA SideConfig
	SideB SideConfig
}

// buffered is one submitted action pending resolution.
type buffered struct {
	action Action
	// seq preserves submission order across both sides for the stable
	// final sort key.
	seq int
}

// sideState is the per-side mutable state. Submit and Withdraw touch
// only the submitting side's state; nothing reads the opposing buffer
// before the TurnOrder phase.
type sideState struct {
	roster    []*creature.Combatant
	formation formation.Type
	buffer    map[string]buffered
}

// living reports whether any roster member is still able to fight.
func (s *sideState) living() bool {
	for _, c := range s.roster {
		if c.Alive() {
			return true
		}
	}
	return false
}

// find returns the roster member with the given ID, or nil.
func (s *sideState) find(id string) *creature.Combatant {
	for _, c := range s.roster {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// positions returns the side's active field occupancy for target
// expansion.
func (s *sideState) positions() []formation.Position {
	out := make([]formation.Position, 0, maxActive)
	for _, c := range s.roster {
		if !c.Active {
			continue
		}
		out = append(out, formation.Position{ID: c.ID, Slot: c.Slot, Alive: c.Alive()})
	}
	return out
}

// Session is one running battle.
type Session struct {
	ID string

	chart     *typechart.Chart
	moves     *skills.Registry
	src       rng.Source
	log       *zap.Logger
	weather   damage.Weather
	condition typechart.Condition
	window    damage.SpreadWindow
	wild      bool

	sides    [2]*sideState
	adaptive *typechart.AdaptiveState
	env      *damage.EnvironmentQueue

	phase   Phase
	turn    int
	seq     int
	outcome Outcome
}

// New constructs a session, validating both rosters up front. Construction
// is the Init phase: a session that fails any check is never created.
//
// Postcondition: on success the session is in CommandInput with turn 1,
// every side fielding min(roster, 3) active combatants in front-row
// column order at full HP/MP.
func New(cfg Config) (*Session, error) {
	switch {
	case cfg.Chart == nil:
		return nil, fmt.Errorf("battle: config missing type chart")
	case cfg.Moves == nil:
		return nil, fmt.Errorf("battle: config missing move registry")
	case cfg.Src == nil:
		return nil, fmt.Errorf("battle: config missing rng source")
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}

	s := &Session{
		ID:        uuid.NewString(),
		chart:     cfg.Chart,
		moves:     cfg.Moves,
		src:       cfg.Src,
		log:       cfg.Log,
		weather:   cfg.Weather,
		condition: cfg.Condition,
		window:    cfg.Window,
		wild:      cfg.Wild,
		adaptive:  typechart.NewAdaptiveState(),
		env:       damage.NewEnvironmentQueue(),
		phase:     PhaseCommandInput,
		turn:      1,
	}
	for i, sc := range []SideConfig{cfg.SideA, cfg.SideB} {
		side, err := buildSide(SideID(i), sc, cfg.Moves)
		if err != nil {
			return nil, err
		}
		s.sides[i] = side
	}
	return s, nil
}

// buildSide validates and instantiates one side's roster.
func buildSide(id SideID, cfg SideConfig, moves *skills.Registry) (*sideState, error) {
	if len(cfg.Specs) == 0 {
		return nil, fmt.Errorf("battle: side %s roster is empty", id)
	}
	if len(cfg.Specs) > maxRoster {
		return nil, fmt.Errorf("battle: side %s roster has %d combatants, maximum is %d", id, len(cfg.Specs), maxRoster)
	}
	side := &sideState{
		formation: cfg.Formation,
		buffer:    make(map[string]buffered),
	}
	for i, spec := range cfg.Specs {
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("battle: side %s: %w", id, err)
		}
		for _, moveID := range spec.MoveIDs {
			if _, ok := moves.Get(moveID); !ok {
				return nil, fmt.Errorf("battle: side %s: %q references undefined move %q", id, spec.Name, moveID)
			}
		}
		c := creature.New(spec)
		if i < maxActive {
			c.Active = true
			c.Slot = formation.Slot{Column: i, Row: formation.Front}
		}
		side.roster = append(side.roster, c)
	}
	return side, nil
}

// Phase returns the controller's observable phase.
func (s *Session) Phase() Phase { return s.phase }

// Turn returns the 1-based turn counter.
func (s *Session) Turn() int { return s.turn }

// Combatants returns the roster of one side. Callers must treat the
// returned combatants as read-only outside the engine's own callbacks.
func (s *Session) Combatants(id SideID) []*creature.Combatant {
	return s.sides[id].roster
}

// Submit buffers one action for one combatant on the given side.
// Actions are buffered, never applied: no side can observe the other
// side's choice before both have committed, because submission reads and
// writes only the submitting side's state.
//
// Postcondition: on success the action is buffered and immutable for
// this turn except through Withdraw.
func (s *Session) Submit(side SideID, a Action) error {
	if s.phase != PhaseCommandInput {
		return fmt.Errorf("%w: phase is %s", ErrWrongPhase, s.phase)
	}
	st := s.sides[side]
	actor := st.find(a.ActorID)
	if actor == nil {
		return fmt.Errorf("%w: %q on side %s", ErrUnknownActor, a.ActorID, side)
	}
	if actor.Fainted() || !actor.Active {
		return fmt.Errorf("%w: %s", ErrActorUnableToAct, actor.Name)
	}
	if _, ok := st.buffer[a.ActorID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateAction, actor.Name)
	}
	if err := s.validateAction(st, actor, a); err != nil {
		return err
	}
	st.buffer[a.ActorID] = buffered{action: a, seq: s.seq}
	s.seq++
	return nil
}

// validateAction applies the kind-specific submission checks.
func (s *Session) validateAction(st *sideState, actor *creature.Combatant, a Action) error {
	switch a.Kind {
	case turnorder.Attack, turnorder.Skill:
		if !actor.KnowsMove(a.MoveID) {
			return fmt.Errorf("%w: %s does not know %q", ErrUnknownMove, actor.Name, a.MoveID)
		}
		move, ok := s.moves.Get(a.MoveID)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownMove, a.MoveID)
		}
		if move.MPCost > actor.CurrentMP {
			return fmt.Errorf("%w: %s has %d MP, %q costs %d", ErrInsufficientMP, actor.Name, actor.CurrentMP, move.ID, move.MPCost)
		}
		if move.Selector.NeedsExplicitTarget() && a.TargetID == "" {
			return fmt.Errorf("%w: %q", ErrTargetRequired, move.ID)
		}
	case turnorder.Switch:
		target := st.find(a.SwitchToID)
		if target == nil || target.Active || target.Fainted() {
			return fmt.Errorf("%w: %q", ErrInvalidSwitch, a.SwitchToID)
		}
	case turnorder.Defend, turnorder.Item, turnorder.Flee:
		// No submission-time requirements.
	default:
		return fmt.Errorf("battle: unknown action kind %d", int(a.Kind))
	}
	return nil
}

// Withdraw removes a buffered action so it can be resubmitted. Allowed
// only while the turn is still in CommandInput; once TurnOrder begins,
// actions are immutable for the turn.
func (s *Session) Withdraw(side SideID, actorID string) error {
	if s.phase != PhaseCommandInput {
		return fmt.Errorf("%w: phase is %s", ErrWrongPhase, s.phase)
	}
	st := s.sides[side]
	if _, ok := st.buffer[actorID]; !ok {
		return fmt.Errorf("%w: %q", ErrNoSuchAction, actorID)
	}
	delete(st.buffer, actorID)
	return nil
}

// Ready reports whether every combatant still able to act, on both
// sides, has a buffered action for this turn.
func (s *Session) Ready() bool {
	for _, st := range s.sides {
		for _, c := range st.roster {
			if !c.Active || c.Fainted() {
				continue
			}
			if _, ok := st.buffer[c.ID]; !ok {
				return false
			}
		}
	}
	return true
}

// CombatantSummary is one roster entry's final state for persistence.
type CombatantSummary struct {
	ID      string
	Name    string
	Side    SideID
	FinalHP int
	Status  status.Kind
}

// Summary is the terminal output record handed to the persistence
// collaborator.
type Summary struct {
	SessionID  string
	Outcome    Outcome
	TurnCount  int
	Combatants []CombatantSummary
}

// Summary produces the terminal summary. It returns false until the
// session has reached End.
func (s *Session) Summary() (Summary, bool) {
	if s.phase != PhaseEnd {
		return Summary{}, false
	}
	sum := Summary{
		SessionID: s.ID,
		Outcome:   s.outcome,
		TurnCount: s.turn,
	}
	for i, st := range s.sides {
		for _, c := range st.roster {
			sum.Combatants = append(sum.Combatants, CombatantSummary{
				ID:      c.ID,
				Name:    c.Name,
				Side:    SideID(i),
				FinalHP: c.CurrentHP,
				Status:  c.Status.Kind,
			})
		}
	}
	return sum, true
}
