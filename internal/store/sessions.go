package store

import (
	"context"
	"fmt"
)

// SessionSummary describes a recorded session by its last step.
type SessionSummary struct {
	SessionID string
	Steps     int
	LastSeq   int64
	State     string // state after the last step
	Total     string
}

// IsComplete reports whether the session ended with a full configuration.
func (s SessionSummary) IsComplete() bool { return s.State == "complete" }

// ListSessions summarizes every recorded session, ordered by session id.
// Returns an empty slice (not nil) when nothing has been recorded.
func (s *Store) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT st.session_id, agg.n, st.seq, st.state, st.total
		FROM session_steps st
		JOIN (
			SELECT session_id, COUNT(*) AS n, MAX(seq) AS last
			FROM session_steps
			GROUP BY session_id
		) agg ON agg.session_id = st.session_id AND agg.last = st.seq
		ORDER BY st.session_id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	out := []SessionSummary{}
	for rows.Next() {
		var sum SessionSummary
		if err := rows.Scan(&sum.SessionID, &sum.Steps, &sum.LastSeq, &sum.State, &sum.Total); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

// FindIncompleteSessions returns the sessions whose last step is not
// complete: abandoned mid-way or failed.
func (s *Store) FindIncompleteSessions(ctx context.Context) ([]SessionSummary, error) {
	all, err := s.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	out := []SessionSummary{}
	for _, sum := range all {
		if !sum.IsComplete() {
			out = append(out, sum)
		}
	}
	return out, nil
}
