package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/pcconf/internal/catalog"
	"github.com/roach88/pcconf/internal/session"
)

// GetConfiguration retrieves a configuration and its parts by id.
// Returns an error wrapping sql.ErrNoRows if not found.
func (s *Store) GetConfiguration(ctx context.Context, id string) (Configuration, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, strategy, total_cents, budget_cents, seq
		FROM configurations
		WHERE id = ?
	`, id)

	cfg, err := scanConfiguration(row)
	if err != nil {
		return Configuration{}, fmt.Errorf("get configuration %s: %w", id, err)
	}
	if err := s.loadParts(ctx, &cfg); err != nil {
		return Configuration{}, fmt.Errorf("get configuration %s: %w", id, err)
	}
	return cfg, nil
}

// ListConfigurations returns every stored configuration in save order.
// Returns an empty slice (not nil) when there are none.
func (s *Store) ListConfigurations(ctx context.Context) ([]Configuration, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, strategy, total_cents, budget_cents, seq
		FROM configurations
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query configurations: %w", err)
	}

	configs := []Configuration{}
	for rows.Next() {
		cfg, err := scanConfiguration(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		configs = append(configs, cfg)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate configurations: %w", err)
	}
	// The single connection must be free before loading parts.
	rows.Close()

	for i := range configs {
		if err := s.loadParts(ctx, &configs[i]); err != nil {
			return nil, err
		}
	}
	return configs, nil
}

func (s *Store) loadParts(ctx context.Context, cfg *Configuration) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT position, category, part_id, name, price_cents
		FROM configuration_parts
		WHERE configuration_id = ?
		ORDER BY position ASC
	`, cfg.ID)
	if err != nil {
		return fmt.Errorf("query parts: %w", err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var (
			pos      int
			catName  string
			p        Part
			priceCts int64
		)
		if err := rows.Scan(&pos, &catName, &p.ID, &p.Name, &priceCts); err != nil {
			return fmt.Errorf("scan part: %w", err)
		}
		c, err := catalog.ParseCategory(catName)
		if err != nil {
			return fmt.Errorf("scan part: %w", err)
		}
		if pos < 0 || pos >= catalog.NumCategories || catalog.Categories[pos] != c {
			return fmt.Errorf("scan part: %s stored at position %d", c, pos)
		}
		p.Category = c
		p.Price = catalog.Money(priceCts)
		cfg.Parts[pos] = p
		n++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate parts: %w", err)
	}
	if n != catalog.NumCategories {
		return fmt.Errorf("configuration %s has %d parts", cfg.ID, n)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanConfiguration(r rowScanner) (Configuration, error) {
	var (
		cfg    Configuration
		total  int64
		budget sql.NullInt64
	)
	if err := r.Scan(&cfg.ID, &cfg.SessionID, &cfg.Strategy, &total, &budget, &cfg.Seq); err != nil {
		if err == sql.ErrNoRows {
			return Configuration{}, err
		}
		return Configuration{}, fmt.Errorf("scan configuration: %w", err)
	}
	cfg.Total = catalog.Money(total)
	if budget.Valid {
		b := catalog.Money(budget.Int64)
		cfg.Budget = &b
	}
	return cfg, nil
}

// ListSteps returns a session's trace ordered by seq.
// Returns an empty slice (not nil) for an unknown session.
func (s *Store) ListSteps(ctx context.Context, sessionID string) ([]session.Step, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, kind, category, part_id, offered, state, total, error
		FROM session_steps
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()

	steps := []session.Step{}
	for rows.Next() {
		var (
			st      session.Step
			kind    string
			offered string
		)
		if err := rows.Scan(&st.Seq, &kind, &st.Category, &st.ID, &offered, &st.State, &st.Total, &st.Error); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		st.Kind = session.StepKind(kind)
		if st.Offered, err = unmarshalOffered(offered); err != nil {
			return nil, fmt.Errorf("scan step %d: %w", st.Seq, err)
		}
		steps = append(steps, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate steps: %w", err)
	}
	return steps, nil
}
