package damage

import (
	"github.com/avoid201/untoldstory-engine/internal/game/skills"
	"github.com/avoid201/untoldstory-engine/internal/game/stats"
	"github.com/avoid201/untoldstory-engine/internal/game/status"
	"github.com/avoid201/untoldstory-engine/internal/game/traits"
	"github.com/avoid201/untoldstory-engine/internal/game/typechart"
)

// Critical-hit tuning: base chance is 1 in critDenominator; KeenEye
// halves the denominator.
const critDenominator = 32

// sameTypeBonus is the multiplier for a move matching one of the
// attacker's own categories.
const sameTypeBonus = 1.2

// Reflection and trait multipliers.
const (
	magicMirrorChance = 0.25
	berserkMultiplier = 1.25
	blastGuardFactor  = 0.5
	defendFactor      = 0.5
)

// stage is one named pipeline step.
type stage struct {
	name  string
	apply func(*Context) error
}

// stages is the fixed pipeline order. The order is a contract: accuracy
// short-circuits everything, defensive hard-overrides run last within the
// trait stage, and finalize always runs.
var stages = []stage{
	{"accuracy", accuracyStage},
	{"base_power", basePowerStage},
	{"critical", criticalStage},
	{"same_type_bonus", sameTypeBonusStage},
	{"type_effectiveness", typeEffectivenessStage},
	{"traits", traitStage},
	{"environment", environmentStage},
	{"status_interaction", statusInteractionStage},
	{"random_spread", randomSpreadStage},
	{"finalize", finalizeStage},
}

// Run executes the pipeline over ctx and returns the immutable result.
// The pipeline is a pure function of (ctx, ctx.Src): re-running with an
// identical context and an identically seeded stream yields an identical
// result.
//
// Precondition: ctx.Attacker, ctx.Defender, ctx.Move, ctx.Chart,
// ctx.Adaptive, and ctx.Src must be non-nil; ctx.Share must be > 0.
// Postcondition: returns a Result, or a *StageError naming the stage that
// could not resolve a required input.
func Run(ctx *Context) (Result, error) {
	if err := precheck(ctx); err != nil {
		return Result{}, err
	}
	if ctx.Share == 0 {
		ctx.Share = 1.0
	}
	for _, st := range stages {
		if ctx.done && st.name != "finalize" {
			continue
		}
		if err := st.apply(ctx); err != nil {
			return Result{}, err
		}
	}
	return Result{
		Damage:          int(ctx.damage),
		WasCritical:     ctx.crit,
		Tier:            ctx.tier,
		Missed:          ctx.missed,
		Reflected:       ctx.reflected,
		InflictedStatus: ctx.inflicted,
		Messages:        ctx.messages,
	}, nil
}

func precheck(ctx *Context) error {
	switch {
	case ctx.Attacker == nil:
		return stageErr("precheck", "attacker", "attacker is nil")
	case ctx.Defender == nil:
		return stageErr("precheck", "defender", "defender is nil")
	case ctx.Move == nil:
		return stageErr("precheck", "move", "move is nil")
	case ctx.Chart == nil:
		return stageErr("precheck", "chart", "type chart is nil")
	case ctx.Adaptive == nil:
		return stageErr("precheck", "adaptive", "adaptive state is nil")
	case ctx.Src == nil:
		return stageErr("precheck", "rng", "rng source is nil")
	}
	ctx.tier = typechart.TierNeutral
	return nil
}

// accuracyStage rolls the hit check. Sleeping defenders never evade and a
// move with accuracy 0 always hits; neither consumes entropy.
func accuracyStage(ctx *Context) error {
	if ctx.Move.Accuracy == 0 || ctx.Defender.Status.PreventsEvasion() {
		return nil
	}
	chance := ctx.Move.Accuracy *
		stats.StageRatio(ctx.Attacker.Stages.Get(stats.Accuracy)) *
		ctx.AttackerFormation.Modifier(stats.Accuracy) /
		stats.StageRatio(ctx.Defender.Stages.Get(stats.Evasion))
	if chance > 1 {
		chance = 1
	}
	if ctx.Src.Float64() >= chance {
		ctx.missed = true
		ctx.damage = 0
		ctx.done = true
		ctx.addMessage("%s's attack missed!", ctx.Attacker.Name)
	}
	return nil
}

// basePowerStage resolves the physical/magical formula:
// raw = effAtk/2 - effDef/4, floored at 1, scaled by power/100 and the
// targeting damage share. The defense divisor is intentionally steep so
// high-defense targets nearly nullify weak attacks.
func basePowerStage(ctx *Context) error {
	if !ctx.Move.Damaging() {
		ctx.damage = 0
		ctx.done = true
		return nil
	}

	var atkStat, defStat stats.Stat
	switch ctx.Move.Class {
	case skills.Physical:
		atkStat, defStat = stats.Attack, stats.Defense
	case skills.Magical:
		atkStat, defStat = stats.Magic, stats.Resistance
	default:
		return stageErr("base_power", ctx.Move.ID, "unknown damage class %d", int(ctx.Move.Class))
	}

	effAtk := int(float64(ctx.Attacker.Effective(atkStat)) * ctx.AttackerFormation.Modifier(atkStat))
	effDef := int(float64(ctx.Defender.Effective(defStat)) * ctx.DefenderFormation.Modifier(defStat))

	raw := effAtk/2 - effDef/4
	if raw < 1 {
		raw = 1
	}
	ctx.damage = float64(raw) * float64(ctx.Move.Power) / 100 * ctx.Share
	return nil
}

// criticalStage rolls the critical hit and applies the tier factor.
func criticalStage(ctx *Context) error {
	if ctx.Move.CritTier.AlwaysCrits() {
		ctx.crit = true
	} else {
		den := critDenominator
		if ctx.Attacker.Traits.Has(traits.KeenEye) {
			den /= 2
		}
		ctx.crit = ctx.Src.Intn(den) == 0
	}
	if ctx.crit {
		ctx.damage *= ctx.Move.CritTier.Factor()
		ctx.addMessage("A critical hit!")
	}
	return nil
}

// sameTypeBonusStage applies the matching-category bonus.
func sameTypeBonusStage(ctx *Context) error {
	if ctx.Attacker.HasType(ctx.Move.Category) {
		ctx.damage *= sameTypeBonus
	}
	return nil
}

// typeEffectivenessStage queries the chart under the session's battle
// condition, applies the adaptive-resistance overlay, and records the
// effectiveness tier. An immune result short-circuits the rest of the
// pipeline.
func typeEffectivenessStage(ctx *Context) error {
	if !ctx.Move.Category.Valid() {
		return stageErr("type_effectiveness", ctx.Move.ID, "move references undefined category %d", int(ctx.Move.Category))
	}
	if err := typechart.ValidateDefenderTypes(ctx.Defender.Types); err != nil {
		return stageErr("type_effectiveness", ctx.Defender.Name, "invalid defender types: %w", err)
	}

	base := ctx.Chart.CombinedEffectiveness(ctx.Move.Category, ctx.Defender.Types, ctx.Condition, ctx.Src)
	ctx.tier = typechart.TierFor(base)
	mult := ctx.Adaptive.Dampen(ctx.Move.Category, ctx.Defender.Types, base)
	ctx.damage *= mult

	switch ctx.tier {
	case typechart.TierImmune:
		ctx.damage = 0
		ctx.done = true
		ctx.addMessage("It doesn't affect %s...", ctx.Defender.Name)
	case typechart.TierSuper:
		ctx.addMessage("It's super effective!")
	case typechart.TierResisted:
		ctx.addMessage("It's not very effective...")
	}
	return nil
}

// traitStage runs the capability hooks in a fixed sub-order: attacker
// multipliers, then defender multipliers, then defensive hard overrides
// last so a near-immune trait cannot be bypassed upstream.
func traitStage(ctx *Context) error {
	if ctx.Attacker.Traits.Has(traits.Berserk) && ctx.Move.Class == skills.Physical {
		ctx.damage *= berserkMultiplier
	}
	if ctx.Defender.Traits.Has(traits.BlastGuard) && ctx.Move.Explosive {
		ctx.damage *= blastGuardFactor
	}
	if ctx.Defender.Traits.Has(traits.MagicMirror) && ctx.Move.Class == skills.Magical {
		if ctx.Src.Float64() < magicMirrorChance {
			ctx.reflected = true
			ctx.addMessage("%s's magic mirror reflects the attack!", ctx.Defender.Name)
		}
	}
	if ctx.Defender.Defending {
		ctx.damage *= defendFactor
	}
	// Hard override last.
	if ctx.Defender.Traits.Has(traits.Aegis) && !ctx.reflected && ctx.damage > 1 {
		ctx.damage = 1
	}
	return nil
}

// environmentStage applies the weather multiplier and queues end-of-turn
// chip damage for the combatants it can see; the queued damage is applied
// in Aftermath, never immediately.
func environmentStage(ctx *Context) error {
	ctx.damage *= ctx.Weather.DamageModifier(ctx.Move.Category)
	if ctx.Env != nil {
		ctx.Env.Queue(ctx.Attacker.ID, ctx.Weather.ChipDamage(ctx.Attacker))
		ctx.Env.Queue(ctx.Defender.ID, ctx.Weather.ChipDamage(ctx.Defender))
	}
	return nil
}

// statusInteractionStage applies status-driven output modifiers. The
// paralysis action-cancel happens upstream in the phase controller,
// before the pipeline runs at all.
func statusInteractionStage(ctx *Context) error {
	if ctx.Attacker.Status.HalvesPhysicalDamage() && ctx.Move.Class == skills.Physical {
		ctx.damage *= 0.5
	}
	return nil
}

// randomSpreadStage multiplies by the session's bounded spread factor.
func randomSpreadStage(ctx *Context) error {
	lo, hi := ctx.Window.bounds()
	ctx.damage *= lo + (hi-lo)*ctx.Src.Float64()
	return nil
}

// finalizeStage floors the accumulated damage to an integer >= 1 (unless
// the run missed, was immune, or the move deals no damage), accumulates
// adaptive resistance exactly once for a damaging hit, and rolls the
// move's status rider.
func finalizeStage(ctx *Context) error {
	if ctx.missed || ctx.tier == typechart.TierImmune || !ctx.Move.Damaging() {
		ctx.damage = 0
		return nil
	}
	final := int(ctx.damage)
	if final < 1 {
		final = 1
	}
	ctx.damage = float64(final)

	ctx.Adaptive.Accumulate(ctx.Move.Category, ctx.Defender.Types)

	if ctx.Move.Inflicts != nil && !ctx.reflected && ctx.Defender.Status.Kind == status.None {
		if ctx.Src.Float64() < ctx.Move.Inflicts.Chance {
			ctx.inflicted = ctx.Move.Inflicts.Status
		}
	}
	return nil
}
