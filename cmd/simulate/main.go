// Package main provides a battle simulator binary that runs a scripted
// battle session against loaded chart and move data and prints the event
// log, optionally persisting the terminal summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/avoid201/untoldstory-engine/internal/config"
	"github.com/avoid201/untoldstory-engine/internal/game/battle"
	"github.com/avoid201/untoldstory-engine/internal/game/creature"
	"github.com/avoid201/untoldstory-engine/internal/game/damage"
	"github.com/avoid201/untoldstory-engine/internal/game/formation"
	"github.com/avoid201/untoldstory-engine/internal/game/rng"
	"github.com/avoid201/untoldstory-engine/internal/game/skills"
	"github.com/avoid201/untoldstory-engine/internal/game/stats"
	"github.com/avoid201/untoldstory-engine/internal/game/traits"
	"github.com/avoid201/untoldstory-engine/internal/game/turnorder"
	"github.com/avoid201/untoldstory-engine/internal/game/typechart"
	"github.com/avoid201/untoldstory-engine/internal/observability"
	"github.com/avoid201/untoldstory-engine/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	seed := flag.Uint64("seed", 0, "RNG seed override; 0 = use config (config 0 = nondeterministic)")
	maxTurns := flag.Int("max-turns", 50, "abort the simulation after this many turns")
	wild := flag.Bool("wild", false, "run as a wild encounter (flee can succeed)")
	save := flag.Bool("save", false, "persist the terminal summary to PostgreSQL")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	chart, err := typechart.LoadFile(cfg.Data.TypesFile)
	if err != nil {
		logger.Fatal("loading type chart", zap.Error(err))
	}
	moves, err := skills.LoadDirectory(cfg.Data.MovesDir)
	if err != nil {
		logger.Fatal("loading moves", zap.Error(err))
	}
	logger.Info("data loaded",
		zap.String("types_file", cfg.Data.TypesFile),
		zap.Int("moves", len(moves.All())),
		zap.Duration("elapsed", time.Since(start)),
	)

	weather, err := damage.ParseWeather(cfg.Battle.Weather)
	if err != nil {
		logger.Fatal("parsing weather", zap.Error(err))
	}
	condition, err := typechart.ParseCondition(cfg.Battle.Condition)
	if err != nil {
		logger.Fatal("parsing battle condition", zap.Error(err))
	}
	window, err := damage.ParseSpreadWindow(cfg.Battle.SpreadWindow)
	if err != nil {
		logger.Fatal("parsing spread window", zap.Error(err))
	}

	effectiveSeed := cfg.Battle.Seed
	if *seed != 0 {
		effectiveSeed = *seed
	}
	var src rng.Source
	if effectiveSeed != 0 {
		src = rng.NewSeededSource(effectiveSeed)
	} else {
		src = rng.NewCryptoSource()
	}

	session, err := battle.New(battle.Config{
		Chart:     chart,
		Moves:     moves,
		Src:       src,
		Log:       logger,
		Weather:   weather,
		Condition: condition,
		Window:    window,
		Wild:      *wild,
		SideA:     demoSideA(),
		SideB:     demoSideB(),
	})
	if err != nil {
		logger.Fatal("constructing battle session", zap.Error(err))
	}

	for session.Phase() != battle.PhaseEnd && session.Turn() <= *maxTurns {
		fmt.Printf("--- turn %d ---\n", session.Turn())
		for _, side := range []battle.SideID{battle.SideA, battle.SideB} {
			submitSide(session, side, moves, logger)
		}
		events, err := session.ResolveTurn()
		if err != nil {
			logger.Fatal("resolving turn", zap.Error(err))
		}
		for _, ev := range events {
			fmt.Println(describe(ev))
		}
	}

	sum, ok := session.Summary()
	if !ok {
		fmt.Printf("aborted after %d turns without a terminal outcome\n", *maxTurns)
		os.Exit(1)
	}
	fmt.Printf("outcome: %s after %d turns [%s]\n", sum.Outcome, sum.TurnCount, time.Since(start))
	for _, c := range sum.Combatants {
		fmt.Printf("  side %s: %-12s HP %d (%s)\n", c.Side, c.Name, c.FinalHP, c.Status)
	}

	if *save {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		repo := postgres.NewSummaryRepository(pool.DB())
		if err := repo.Save(ctx, sum); err != nil {
			logger.Fatal("saving battle summary", zap.Error(err))
		}
		logger.Info("summary saved", zap.String("session_id", sum.SessionID))
	}
}

// submitSide queues an attack for every active combatant on the side,
// each using its first affordable move against the first living enemy.
func submitSide(s *battle.Session, side battle.SideID, moves *skills.Registry, logger *zap.Logger) {
	enemies := s.Combatants(side.Other())
	var target *creature.Combatant
	for _, e := range enemies {
		if e.Active && e.CurrentHP > 0 {
			target = e
			break
		}
	}
	if target == nil {
		return
	}
	for _, c := range s.Combatants(side) {
		if !c.Active || c.CurrentHP <= 0 {
			continue
		}
		action, ok := chooseAction(moves, c, target.ID)
		if !ok {
			action = battle.Action{ActorID: c.ID, Kind: turnorder.Defend}
		}
		if err := s.Submit(side, action); err != nil {
			logger.Warn("submitting action",
				zap.String("actor", c.Name),
				zap.Error(err),
			)
		}
	}
}

// chooseAction picks the first move the combatant can pay for.
func chooseAction(moves *skills.Registry, c *creature.Combatant, targetID string) (battle.Action, bool) {
	for _, id := range c.MoveIDs {
		m, ok := moves.Get(id)
		if !ok || m.MPCost > c.CurrentMP {
			continue
		}
		kind := turnorder.Attack
		if m.MPCost > 0 {
			kind = turnorder.Skill
		}
		a := battle.Action{ActorID: c.ID, Kind: kind, MoveID: id}
		if m.Selector.NeedsExplicitTarget() {
			a.TargetID = targetID
		}
		return a, true
	}
	return battle.Action{}, false
}

func describe(ev battle.Event) string {
	switch ev.Kind {
	case battle.EventDamage:
		note := ""
		if ev.Critical {
			note = " (critical!)"
		}
		return fmt.Sprintf("%s hits %s for %d%s [%s]",
			ev.ActorName, ev.TargetName, ev.Amount, note, ev.Tier)
	case battle.EventChip:
		return fmt.Sprintf("%s takes %d chip damage", ev.TargetName, ev.Amount)
	default:
		return ev.Message
	}
}

func demoSideA() battle.SideConfig {
	return battle.SideConfig{
		Formation: formation.Offensive,
		Specs: []creature.Spec{
			{
				Name:    "Cindertail",
				Types:   []typechart.Category{typechart.Fire, typechart.Beast},
				Base:    stats.Block{MaxHP: 78, MaxMP: 24, Attack: 72, Defense: 48, Magic: 66, Resistance: 50, Speed: 74},
				Traits:  traits.NewSet(traits.KeenEye),
				MoveIDs: []string{"ember", "tackle"},
			},
			{
				Name:    "Tidecaller",
				Types:   []typechart.Category{typechart.Water},
				Base:    stats.Block{MaxHP: 84, MaxMP: 30, Attack: 58, Defense: 60, Magic: 72, Resistance: 64, Speed: 52},
				MoveIDs: []string{"aqua_jet", "tackle"},
			},
			{
				Name:    "Thornbrood",
				Types:   []typechart.Category{typechart.Plant, typechart.Toxin},
				Base:    stats.Block{MaxHP: 70, MaxMP: 26, Attack: 64, Defense: 52, Magic: 60, Resistance: 58, Speed: 45},
				MoveIDs: []string{"venom_strike", "leaf_storm"},
			},
		},
	}
}

func demoSideB() battle.SideConfig {
	return battle.SideConfig{
		Formation: formation.Defensive,
		Specs: []creature.Spec{
			{
				Name:    "Gravemaw",
				Types:   []typechart.Category{typechart.Earth},
				Base:    stats.Block{MaxHP: 96, MaxMP: 20, Attack: 76, Defense: 70, Magic: 40, Resistance: 55, Speed: 38},
				MoveIDs: []string{"quake", "tackle"},
			},
			{
				Name:    "Stormwing",
				Types:   []typechart.Category{typechart.Storm},
				Base:    stats.Block{MaxHP: 66, MaxMP: 32, Attack: 50, Defense: 44, Magic: 78, Resistance: 60, Speed: 88},
				MoveIDs: []string{"thunderclap", "tackle"},
			},
			{
				Name:    "Rimefang",
				Types:   []typechart.Category{typechart.Frost, typechart.Metal},
				Base:    stats.Block{MaxHP: 74, MaxMP: 28, Attack: 62, Defense: 66, Magic: 68, Resistance: 62, Speed: 48},
				Traits:  traits.NewSet(traits.Aegis),
				MoveIDs: []string{"frost_lance", "iron_edge"},
			},
		},
	}
}
