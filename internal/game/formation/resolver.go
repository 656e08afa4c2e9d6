package formation

import "fmt"

// Position is a snapshot of one active combatant's place on the grid.
// The battle session builds these each time an action is expanded so the
// resolver always sees current liveness.
type Position struct {
	ID    string
	Slot  Slot
	Alive bool
}

// TargetShare is one resolved (target, damage-share) pair.
type TargetShare struct {
	TargetID string
	Share    float64
}

// Source is the subset of rng.Source the resolver draws from. A local
// interface avoids a dependency on the rng package.
type Source interface {
	Intn(n int) int
}

// Expand resolves a target selector into concrete (target, share) pairs.
// allies is the actor's own side (including the actor), enemies the
// opposing side, both in stable slot order. Spread and the random
// selectors draw from src; every other selector ignores it.
//
// An expansion yielding zero living targets returns an empty list and nil
// error: the caller logs a no-op and skips the action.
//
// Precondition: selectors with NeedsExplicitTarget() true require a
// non-empty primaryID; src must be non-nil for Spread/RandomEnemy/RandomAlly.
// Postcondition: every returned TargetShare references a living combatant
// and has Share > 0.
func Expand(sel Selector, actorID, primaryID string, allies, enemies []Position, src Source) ([]TargetShare, error) {
	if sel.NeedsExplicitTarget() && primaryID == "" {
		return nil, fmt.Errorf("formation: selector %s requires an explicit target", sel)
	}

	switch sel {
	case Single:
		if p, ok := findLiving(enemies, primaryID); ok {
			return []TargetShare{{TargetID: p.ID, Share: 1.0}}, nil
		}
		return nil, nil

	case AllEnemies:
		return areaShares(living(enemies)), nil

	case AllAllies:
		return areaShares(living(allies)), nil

	case RowEnemy:
		p, ok := findLiving(enemies, primaryID)
		if !ok {
			return nil, nil
		}
		var out []TargetShare
		for _, e := range living(enemies) {
			if e.Slot.Row != p.Slot.Row {
				continue
			}
			share := rowSideShare
			if e.ID == p.ID {
				share = 1.0
			}
			out = append(out, TargetShare{TargetID: e.ID, Share: share})
		}
		return out, nil

	case SpreadEnemies:
		pool := living(enemies)
		if len(pool) == 0 {
			return nil, nil
		}
		count := spreadMinTargets + src.Intn(spreadMaxTargets-spreadMinTargets+1)
		if count > len(pool) {
			count = len(pool)
		}
		// Partial Fisher-Yates over a copy keeps the draw order
		// deterministic for a given stream.
		picked := make([]Position, len(pool))
		copy(picked, pool)
		for i := 0; i < count; i++ {
			j := i + src.Intn(len(picked)-i)
			picked[i], picked[j] = picked[j], picked[i]
		}
		out := make([]TargetShare, 0, count)
		for _, p := range picked[:count] {
			out = append(out, TargetShare{TargetID: p.ID, Share: spreadShare})
		}
		return out, nil

	case Pierce:
		p, ok := findLiving(enemies, primaryID)
		if !ok {
			return nil, nil
		}
		var out []TargetShare
		if front, ok := occupant(enemies, p.Slot.Column, Front); ok {
			out = append(out, TargetShare{TargetID: front.ID, Share: 1.0})
		}
		if back, ok := occupant(enemies, p.Slot.Column, Back); ok {
			out = append(out, TargetShare{TargetID: back.ID, Share: pierceShare})
		}
		return out, nil

	case Adjacent:
		p, ok := findLiving(enemies, primaryID)
		if !ok {
			return nil, nil
		}
		out := []TargetShare{{TargetID: p.ID, Share: 1.0}}
		for _, col := range []int{p.Slot.Column - 1, p.Slot.Column + 1} {
			if n, ok := occupant(enemies, col, p.Slot.Row); ok {
				out = append(out, TargetShare{TargetID: n.ID, Share: adjacentShare})
			}
		}
		return out, nil

	case RandomEnemy:
		return randomOne(living(enemies), src), nil

	case RandomAlly:
		return randomOne(living(allies), src), nil

	case Self:
		if a, ok := findLiving(allies, actorID); ok {
			return []TargetShare{{TargetID: a.ID, Share: 1.0}}, nil
		}
		return nil, nil

	default:
		return nil, fmt.Errorf("formation: unknown target selector %d", int(sel))
	}
}

// living filters positions to those still alive, preserving order.
func living(positions []Position) []Position {
	var out []Position
	for _, p := range positions {
		if p.Alive {
			out = append(out, p)
		}
	}
	return out
}

// findLiving returns the living position with the given ID.
func findLiving(positions []Position, id string) (Position, bool) {
	for _, p := range positions {
		if p.ID == id && p.Alive {
			return p, true
		}
	}
	return Position{}, false
}

// occupant returns the living position at (column, row).
func occupant(positions []Position, column int, row Row) (Position, bool) {
	for _, p := range positions {
		if p.Alive && p.Slot.Column == column && p.Slot.Row == row {
			return p, true
		}
	}
	return Position{}, false
}

// areaShares applies the area-attack tax: every living target at
// areaShare, unless only one target exists, which takes full damage.
func areaShares(pool []Position) []TargetShare {
	if len(pool) == 0 {
		return nil
	}
	share := areaShare
	if len(pool) == 1 {
		share = 1.0
	}
	out := make([]TargetShare, 0, len(pool))
	for _, p := range pool {
		out = append(out, TargetShare{TargetID: p.ID, Share: share})
	}
	return out
}

// randomOne picks a single uniformly random target at full share.
func randomOne(pool []Position, src Source) []TargetShare {
	if len(pool) == 0 {
		return nil
	}
	p := pool[src.Intn(len(pool))]
	return []TargetShare{{TargetID: p.ID, Share: 1.0}}
}
