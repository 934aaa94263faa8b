package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/pcconf/internal/catalog"
	"github.com/roach88/pcconf/internal/session"
)

// SaveConfiguration inserts cfg and its parts.
// Uses ON CONFLICT(id) DO NOTHING: a configuration already present keeps its
// original session, strategy and seq, and inserted is false.
func (s *Store) SaveConfiguration(ctx context.Context, cfg Configuration) (inserted bool, err error) {
	if cfg.ID == "" {
		return false, fmt.Errorf("save configuration: empty id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("save configuration: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO configurations
		(id, session_id, strategy, total_cents, budget_cents, seq)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM configurations))
		ON CONFLICT(id) DO NOTHING
	`,
		cfg.ID,
		cfg.SessionID,
		cfg.Strategy,
		int64(cfg.Total),
		budgetCents(cfg.Budget),
	)
	if err != nil {
		return false, fmt.Errorf("save configuration: insert: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("save configuration: rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	for pos, p := range cfg.Parts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO configuration_parts
			(configuration_id, position, category, part_id, name, price_cents)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			cfg.ID,
			pos,
			p.Category.String(),
			p.ID,
			p.Name,
			int64(p.Price),
		)
		if err != nil {
			return false, fmt.Errorf("save configuration: part %d: %w", pos, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("save configuration: commit: %w", err)
	}
	return true, nil
}

func budgetCents(b *catalog.Money) sql.NullInt64 {
	if b == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*b), Valid: true}
}

// WriteStep appends one session step.
// Uses ON CONFLICT(session_id, seq) DO NOTHING for idempotency.
func (s *Store) WriteStep(ctx context.Context, sessionID string, step session.Step) error {
	offered, err := marshalOffered(step.Offered)
	if err != nil {
		return fmt.Errorf("write step: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO session_steps
		(session_id, seq, kind, category, part_id, offered, state, total, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, seq) DO NOTHING
	`,
		sessionID,
		step.Seq,
		string(step.Kind),
		step.Category,
		step.ID,
		offered,
		step.State,
		step.Total,
		step.Error,
	)
	if err != nil {
		return fmt.Errorf("write step: %w", err)
	}
	return nil
}

// WriteSteps writes a whole trace in order, stopping at the first error.
func (s *Store) WriteSteps(ctx context.Context, sessionID string, steps []session.Step) error {
	for _, step := range steps {
		if err := s.WriteStep(ctx, sessionID, step); err != nil {
			return err
		}
	}
	return nil
}
