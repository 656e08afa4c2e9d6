package battle

import (
	"errors"

	"github.com/avoid201/untoldstory-engine/internal/game/creature"
	"github.com/avoid201/untoldstory-engine/internal/game/turnorder"
)

var (
	// ErrWrongPhase is returned when an operation is attempted outside the
	// phase that permits it.
	ErrWrongPhase = errors.New("battle: operation not allowed in current phase")
	// ErrUnknownActor is returned when an action names a combatant that is
	// not on the submitting side.
	ErrUnknownActor = errors.New("battle: actor not found on side")
	// ErrActorUnableToAct is returned when an action is submitted for a
	// fainted or benched combatant.
	ErrActorUnableToAct = errors.New("battle: actor unable to act")
	// ErrDuplicateAction is returned when a side submits a second action
	// for the same combatant without withdrawing the first.
	ErrDuplicateAction = errors.New("battle: action already submitted for actor")
	// ErrNoSuchAction is returned by Withdraw when no buffered action
	// exists for the combatant.
	ErrNoSuchAction = errors.New("battle: no buffered action for actor")
	// ErrUnknownMove is returned when a skill action names a move the
	// actor does not know or the registry does not define.
	ErrUnknownMove = errors.New("battle: unknown move")
	// ErrInsufficientMP is returned at submission when the actor cannot
	// afford the move's MP cost.
	ErrInsufficientMP = errors.New("battle: insufficient MP")
	// ErrTargetRequired is returned when a single-target selector is
	// submitted without an explicit target.
	ErrTargetRequired = errors.New("battle: selector requires an explicit target")
	// ErrInvalidSwitch is returned when a switch action names no living
	// benched roster member.
	ErrInvalidSwitch = errors.New("battle: no such benched combatant")
)

// ItemEffect is the opaque callback an item action resolves through. The
// engine orders item actions but owns no item tables; the caller supplies
// the effect, which mutates the user in-place and returns a display
// message.
type ItemEffect interface {
	Use(user *creature.Combatant) (string, error)
}

// Action is one submitted command for one combatant for one turn.
type Action struct {
	ActorID string
	Kind    turnorder.Kind

	// MoveID selects the skill for Attack/Skill actions.
	MoveID string
	// TargetID is the explicit primary target, required for selectors
	// that aim at a single declared combatant.
	TargetID string
	// SwitchToID names the benched combatant for Switch actions.
	SwitchToID string
	// Item is the caller-supplied effect for Item actions.
	Item ItemEffect
}
