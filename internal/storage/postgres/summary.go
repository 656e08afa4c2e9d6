package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avoid201/untoldstory-engine/internal/game/battle"
	"github.com/avoid201/untoldstory-engine/internal/game/status"
)

// ErrSummaryNotFound is returned when a summary lookup yields no results.
var ErrSummaryNotFound = errors.New("battle summary not found")

// ErrSummaryExists is returned when saving a summary for a session that
// already has one.
var ErrSummaryExists = errors.New("battle summary already saved for session")

// SummaryRepository persists terminal battle summaries.
type SummaryRepository struct {
	db *pgxpool.Pool
}

// NewSummaryRepository creates a SummaryRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSummaryRepository(db *pgxpool.Pool) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// Save inserts a summary and its per-combatant rows in one transaction.
//
// Precondition: sum must come from a session that reached End.
// Postcondition: Either the summary and all combatant rows are stored, or
// nothing is; duplicate session IDs return ErrSummaryExists.
func (r *SummaryRepository) Save(ctx context.Context, sum battle.Summary) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO battle_summaries (session_id, outcome, turn_count)
		VALUES ($1, $2, $3)`,
		sum.SessionID, sum.Outcome.String(), sum.TurnCount,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrSummaryExists
		}
		return fmt.Errorf("inserting battle summary: %w", err)
	}

	for _, c := range sum.Combatants {
		_, err = tx.Exec(ctx, `
			INSERT INTO battle_summary_combatants
				(session_id, combatant_id, name, side, final_hp, status)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			sum.SessionID, c.ID, c.Name, c.Side.String(), c.FinalHP, c.Status.String(),
		)
		if err != nil {
			return fmt.Errorf("inserting summary combatant %q: %w", c.Name, err)
		}
	}

	return tx.Commit(ctx)
}

// GetBySessionID retrieves a stored summary with its combatant rows.
//
// Postcondition: Returns the Summary or ErrSummaryNotFound.
func (r *SummaryRepository) GetBySessionID(ctx context.Context, sessionID string) (battle.Summary, error) {
	var (
		sum     battle.Summary
		outcome string
	)
	err := r.db.QueryRow(ctx, `
		SELECT session_id, outcome, turn_count
		FROM battle_summaries WHERE session_id = $1`,
		sessionID,
	).Scan(&sum.SessionID, &outcome, &sum.TurnCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return battle.Summary{}, ErrSummaryNotFound
		}
		return battle.Summary{}, fmt.Errorf("querying battle summary: %w", err)
	}
	if sum.Outcome, err = battle.ParseOutcome(outcome); err != nil {
		return battle.Summary{}, fmt.Errorf("stored summary for %s: %w", sessionID, err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT combatant_id, name, side, final_hp, status
		FROM battle_summary_combatants
		WHERE session_id = $1 ORDER BY id ASC`,
		sessionID,
	)
	if err != nil {
		return battle.Summary{}, fmt.Errorf("querying summary combatants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			c        battle.CombatantSummary
			side     string
			statName string
		)
		if err := rows.Scan(&c.ID, &c.Name, &side, &c.FinalHP, &statName); err != nil {
			return battle.Summary{}, fmt.Errorf("scanning summary combatant row: %w", err)
		}
		if side == battle.SideB.String() {
			c.Side = battle.SideB
		}
		if c.Status, err = status.ParseKind(statName); err != nil {
			return battle.Summary{}, fmt.Errorf("stored summary for %s: %w", sessionID, err)
		}
		sum.Combatants = append(sum.Combatants, c)
	}
	return sum, rows.Err()
}

// ListRecent returns up to limit summaries, newest first, without their
// combatant rows.
//
// Precondition: limit must be > 0.
func (r *SummaryRepository) ListRecent(ctx context.Context, limit int) ([]battle.Summary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT session_id, outcome, turn_count
		FROM battle_summaries ORDER BY created_at DESC, id DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing battle summaries: %w", err)
	}
	defer rows.Close()

	out := make([]battle.Summary, 0)
	for rows.Next() {
		var (
			sum     battle.Summary
			outcome string
		)
		if err := rows.Scan(&sum.SessionID, &outcome, &sum.TurnCount); err != nil {
			return nil, fmt.Errorf("scanning battle summary row: %w", err)
		}
		if sum.Outcome, err = battle.ParseOutcome(outcome); err != nil {
			return nil, fmt.Errorf("stored summary for %s: %w", sum.SessionID, err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// pgx wraps PostgreSQL errors; check for SQLSTATE 23505 (unique_violation)
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
