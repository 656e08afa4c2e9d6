package battle

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/avoid201/untoldstory-engine/internal/game/creature"
	"github.com/avoid201/untoldstory-engine/internal/game/damage"
	"github.com/avoid201/untoldstory-engine/internal/game/formation"
	"github.com/avoid201/untoldstory-engine/internal/game/skills"
	"github.com/avoid201/untoldstory-engine/internal/game/stats"
	"github.com/avoid201/untoldstory-engine/internal/game/status"
	"github.com/avoid201/untoldstory-engine/internal/game/turnorder"
)

// pending is one merged, side-tagged action ready for ordering.
type pending struct {
	side   SideID
	actor  *creature.Combatant
	action Action
	seq    int
}

// ResolveTurn runs one full turn: target expansion and ordering, then
// execution, then aftermath. It requires every able combatant on both
// sides to have a buffered action. Results are applied to combatant
// state immediately, so later actions in the same turn see updated HP
// and status.
//
// Precondition: phase is CommandInput and Ready() is true.
// Postcondition: phase is CommandInput with the turn counter advanced,
// or End; both action buffers are empty; the returned events are in
// execution order.
func (s *Session) ResolveTurn() ([]Event, error) {
	if s.phase != PhaseCommandInput {
		return nil, fmt.Errorf("%w: phase is %s", ErrWrongPhase, s.phase)
	}
	if !s.Ready() {
		return nil, fmt.Errorf("battle: actions missing for combatants still able to act")
	}

	s.phase = PhaseTurnOrder
	merged := s.mergeBuffers()
	entries := make([]turnorder.Entry, len(merged))
	for i, p := range merged {
		var bonus int
		if p.action.Kind == turnorder.Attack || p.action.Kind == turnorder.Skill {
			if move, ok := s.moves.Get(p.action.MoveID); ok {
				bonus = move.Priority
			}
		}
		entries[i] = turnorder.Entry{
			Actor:     p.actor,
			Kind:      p.action.Kind,
			Priority:  bonus,
			Formation: s.sides[p.side].formation,
		}
	}
	order := turnorder.Resolve(entries, s.src, s.log)

	s.phase = PhaseExecution
	var events []Event
	for _, idx := range order {
		p := merged[idx]
		// Re-validate: the actor may have fainted or been recalled by an
		// earlier action this same turn.
		if p.actor.Fainted() || !p.actor.Active {
			s.log.Debug("skipping stale action",
				zap.String("combatant", p.actor.Name),
				zap.String("kind", p.action.Kind.String()),
			)
			continue
		}
		gate := p.actor.Status.CheckBeforeAction(p.actor.Name, s.src)
		if gate.Message != "" {
			events = append(events, Event{
				Kind:      EventStatus,
				ActorID:   p.actor.ID,
				ActorName: p.actor.Name,
				Message:   gate.Message,
			})
		}
		if !gate.CanAct {
			continue
		}
		evs, fled := s.execute(p)
		events = append(events, evs...)
		if fled {
			s.end(OutcomeEscaped)
			return events, nil
		}
	}

	events = append(events, s.aftermath()...)
	return events, nil
}

// mergeBuffers combines both sides' buffers in global submission order
// and clears them. This is the first point in a turn at which one side's
// choices become visible alongside the other's.
func (s *Session) mergeBuffers() []pending {
	var merged []pending
	for i, st := range s.sides {
		for actorID, b := range st.buffer {
			actor := st.find(actorID)
			merged = append(merged, pending{side: SideID(i), actor: actor, action: b.action, seq: b.seq})
		}
		st.buffer = make(map[string]buffered)
	}
	sort.Slice(merged, func(a, b int) bool { return merged[a].seq < merged[b].seq })
	return merged
}

// execute dispatches one validated, ordered action. The second return is
// true when the action ended the session by fleeing.
func (s *Session) execute(p pending) ([]Event, bool) {
	switch p.action.Kind {
	case turnorder.Defend:
		p.actor.Defending = true
		return []Event{{
			Kind:      EventDefend,
			ActorID:   p.actor.ID,
			ActorName: p.actor.Name,
			Message:   fmt.Sprintf("%s braces for impact!", p.actor.Name),
		}}, false

	case turnorder.Flee:
		return s.executeFlee(p)

	case turnorder.Switch:
		return s.executeSwitch(p), false

	case turnorder.Item:
		return s.executeItem(p), false

	default:
		return s.executeSkill(p), false
	}
}

// executeFlee rolls the escape attempt. The chance is the actor's share
// of the combined speed against the fastest opposing combatant; non-wild
// sessions never allow escape.
func (s *Session) executeFlee(p pending) ([]Event, bool) {
	ev := Event{Kind: EventFlee, ActorID: p.actor.ID, ActorName: p.actor.Name}
	if !s.wild {
		ev.Message = fmt.Sprintf("%s can't flee from this battle!", p.actor.Name)
		return []Event{ev}, false
	}
	own := float64(p.actor.Effective(stats.Speed))
	enemyBest := 0.0
	for _, c := range s.sides[p.side.Other()].roster {
		if !c.Active || c.Fainted() {
			continue
		}
		if sp := float64(c.Effective(stats.Speed)); sp > enemyBest {
			enemyBest = sp
		}
	}
	chance := 1.0
	if enemyBest > 0 {
		chance = own / (own + enemyBest)
	}
	if s.src.Float64() < chance {
		ev.Message = fmt.Sprintf("%s fled the battle!", p.actor.Name)
		return []Event{ev}, true
	}
	ev.Message = fmt.Sprintf("%s couldn't get away!", p.actor.Name)
	return []Event{ev}, false
}

// executeSwitch recalls the actor and fields the named bench combatant
// in its slot.
func (s *Session) executeSwitch(p pending) []Event {
	st := s.sides[p.side]
	incoming := st.find(p.action.SwitchToID)
	if incoming == nil || incoming.Active || incoming.Fainted() {
		s.log.Warn("switch target no longer available",
			zap.String("combatant", p.actor.Name),
			zap.String("target", p.action.SwitchToID),
		)
		return []Event{{
			Kind:      EventSkip,
			ActorID:   p.actor.ID,
			ActorName: p.actor.Name,
			Message:   fmt.Sprintf("%s has no one to switch with!", p.actor.Name),
		}}
	}
	incoming.Active = true
	incoming.Slot = p.actor.Slot
	p.actor.Active = false
	p.actor.Defending = false
	p.actor.Stages.Reset()
	return []Event{{
		Kind:       EventSwitch,
		ActorID:    p.actor.ID,
		ActorName:  p.actor.Name,
		TargetID:   incoming.ID,
		TargetName: incoming.Name,
		Message:    fmt.Sprintf("%s withdraws! Go, %s!", p.actor.Name, incoming.Name),
	}}
}

// executeItem resolves the caller-supplied item effect.
func (s *Session) executeItem(p pending) []Event {
	ev := Event{Kind: EventItem, ActorID: p.actor.ID, ActorName: p.actor.Name}
	if p.action.Item == nil {
		ev.Kind = EventSkip
		ev.Message = fmt.Sprintf("%s fumbles for an item but finds nothing!", p.actor.Name)
		return []Event{ev}
	}
	msg, err := p.action.Item.Use(p.actor)
	if err != nil {
		s.log.Warn("item effect failed",
			zap.String("combatant", p.actor.Name),
			zap.Error(err),
		)
		ev.Kind = EventSkip
		ev.Message = fmt.Sprintf("%s's item had no effect!", p.actor.Name)
		return []Event{ev}
	}
	ev.Message = msg
	return []Event{ev}
}

// executeSkill expands the move's targets and runs the damage pipeline
// against each resolved (target, share) pair.
func (s *Session) executeSkill(p pending) []Event {
	move, ok := s.moves.Get(p.action.MoveID)
	if !ok {
		s.log.Error("buffered action references undefined move",
			zap.String("combatant", p.actor.Name),
			zap.String("move", p.action.MoveID),
		)
		return nil
	}
	if err := p.actor.SpendMP(move.MPCost); err != nil {
		return []Event{{
			Kind:      EventSkip,
			ActorID:   p.actor.ID,
			ActorName: p.actor.Name,
			Message:   fmt.Sprintf("%s doesn't have enough MP!", p.actor.Name),
		}}
	}

	allies := s.sides[p.side].positions()
	enemies := s.sides[p.side.Other()].positions()
	shares, err := formation.Expand(move.Selector, p.actor.ID, p.action.TargetID, allies, enemies, s.src)
	if err != nil {
		s.log.Error("target expansion failed",
			zap.String("combatant", p.actor.Name),
			zap.String("move", move.ID),
			zap.Error(err),
		)
		return nil
	}
	if len(shares) == 0 {
		s.log.Debug("selector yielded no living targets",
			zap.String("combatant", p.actor.Name),
			zap.String("move", move.ID),
		)
		return []Event{{
			Kind:      EventSkip,
			ActorID:   p.actor.ID,
			ActorName: p.actor.Name,
			Message:   fmt.Sprintf("%s's %s hits nothing!", p.actor.Name, move.Name),
		}}
	}

	events := []Event{{
		Kind:      EventMessage,
		ActorID:   p.actor.ID,
		ActorName: p.actor.Name,
		Message:   fmt.Sprintf("%s uses %s!", p.actor.Name, move.Name),
	}}
	for _, ts := range shares {
		target := s.findAny(ts.TargetID)
		if target == nil || target.Fainted() {
			continue
		}
		events = append(events, s.executeHit(p, move, target, ts.Share)...)
	}
	return events
}

// executeHit runs the pipeline for one (actor, target, share) pair and
// applies the result. A stage failure aborts only this action; the rest
// of the turn's queue still executes.
func (s *Session) executeHit(p pending, move *skills.Move, target *creature.Combatant, share float64) []Event {
	ctx := &damage.Context{
		Attacker:          p.actor,
		Defender:          target,
		Move:              move,
		Chart:             s.chart,
		Adaptive:          s.adaptive,
		Condition:         s.condition,
		Weather:           s.weather,
		Env:               s.env,
		AttackerFormation: s.sides[p.side].formation,
		DefenderFormation: s.defenderFormation(target),
		Share:             share,
		Window:            s.window,
		Src:               s.src,
	}
	res, err := damage.Run(ctx)
	if err != nil {
		s.log.Error("damage pipeline failed",
			zap.String("combatant", p.actor.Name),
			zap.String("move", move.ID),
			zap.Error(err),
		)
		return []Event{{
			Kind:      EventSkip,
			ActorID:   p.actor.ID,
			ActorName: p.actor.Name,
			Message:   fmt.Sprintf("%s's %s fizzles!", p.actor.Name, move.Name),
		}}
	}

	var events []Event
	for _, msg := range res.Messages {
		events = append(events, Event{
			Kind:      EventMessage,
			ActorID:   p.actor.ID,
			ActorName: p.actor.Name,
			Message:   msg,
		})
	}
	if res.Damage > 0 {
		victim := target
		if res.Reflected {
			victim = p.actor
		}
		victim.ApplyDamage(res.Damage)
		events = append(events, Event{
			Kind:       EventDamage,
			ActorID:    p.actor.ID,
			ActorName:  p.actor.Name,
			TargetID:   victim.ID,
			TargetName: victim.Name,
			Amount:     res.Damage,
			Tier:       res.Tier,
			Critical:   res.WasCritical,
			Message:    fmt.Sprintf("%s takes %d damage!", victim.Name, res.Damage),
		})
		if victim.Fainted() {
			events = append(events, s.faintEvent(victim))
		}
	}
	if res.InflictedStatus != status.None && target.Alive() {
		if err := target.Status.Inflict(res.InflictedStatus, s.src); err == nil {
			events = append(events, Event{
				Kind:       EventStatus,
				ActorID:    p.actor.ID,
				ActorName:  p.actor.Name,
				TargetID:   target.ID,
				TargetName: target.Name,
				Message:    fmt.Sprintf("%s is afflicted by %s!", target.Name, res.InflictedStatus),
			})
		}
	}
	return events
}

// defenderFormation returns the stance of whichever side owns the
// combatant.
func (s *Session) defenderFormation(c *creature.Combatant) formation.Type {
	for _, st := range s.sides {
		if st.find(c.ID) != nil {
			return st.formation
		}
	}
	return formation.Standard
}

// findAny returns the combatant with the given ID from either side.
func (s *Session) findAny(id string) *creature.Combatant {
	for _, st := range s.sides {
		if c := st.find(id); c != nil {
			return c
		}
	}
	return nil
}

func (s *Session) faintEvent(c *creature.Combatant) Event {
	return Event{
		Kind:       EventFaint,
		TargetID:   c.ID,
		TargetName: c.Name,
		Message:    fmt.Sprintf("%s fainted!", c.Name),
	}
}

// aftermath applies queued environmental damage, ticks residual status
// damage, clears turn-scoped flags, refills empty active slots from the
// bench, and checks terminal conditions.
func (s *Session) aftermath() []Event {
	s.phase = PhaseAftermath
	var events []Event

	// Weather chips every active combatant, whether or not a pipeline run
	// already queued it this turn.
	for _, st := range s.sides {
		for _, c := range st.roster {
			if c.Active && c.Alive() {
				s.env.Queue(c.ID, s.weather.ChipDamage(c))
			}
		}
	}
	for _, chip := range s.env.Drain() {
		c := s.findAny(chip.CombatantID)
		if c == nil || c.Fainted() {
			continue
		}
		c.ApplyDamage(chip.Amount)
		events = append(events, Event{
			Kind:       EventChip,
			TargetID:   c.ID,
			TargetName: c.Name,
			Amount:     chip.Amount,
			Message:    fmt.Sprintf("%s is buffeted by the %s!", c.Name, s.weather),
		})
		if c.Fainted() {
			events = append(events, s.faintEvent(c))
		}
	}

	for _, st := range s.sides {
		for _, c := range st.roster {
			c.Defending = false
			if !c.Active || c.Fainted() {
				continue
			}
			if dmg := c.Status.ResidualDamage(c.Base.MaxHP); dmg > 0 {
				c.ApplyDamage(dmg)
				events = append(events, Event{
					Kind:       EventChip,
					TargetID:   c.ID,
					TargetName: c.Name,
					Amount:     dmg,
					Message:    fmt.Sprintf("%s is hurt by %s!", c.Name, c.Status.Kind),
				})
				if c.Fainted() {
					events = append(events, s.faintEvent(c))
				}
			}
		}
	}

	s.refillSlots()

	aAlive, bAlive := s.sides[SideA].living(), s.sides[SideB].living()
	switch {
	case !aAlive && !bAlive:
		s.end(OutcomeDraw)
	case !bAlive:
		s.end(OutcomeSideAWins)
	case !aAlive:
		s.end(OutcomeSideBWins)
	default:
		s.turn++
		s.phase = PhaseCommandInput
	}
	return events
}

// refillSlots fields bench combatants, in roster order, into the slots of
// fainted active combatants. While a side has a living bench member, no
// active slot stays empty.
func (s *Session) refillSlots() {
	for _, st := range s.sides {
		for _, down := range st.roster {
			if !down.Active || down.Alive() {
				continue
			}
			for _, sub := range st.roster {
				if sub.Active || sub.Fainted() {
					continue
				}
				sub.Active = true
				sub.Slot = down.Slot
				break
			}
			down.Active = false
		}
	}
}

// end moves the session to its terminal phase.
func (s *Session) end(o Outcome) {
	s.outcome = o
	s.phase = PhaseEnd
	s.log.Info("battle ended",
		zap.String("session", s.ID),
		zap.String("outcome", o.String()),
		zap.Int("turns", s.turn),
	)
}
