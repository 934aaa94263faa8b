package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/pcconf/internal/catalog"
	"github.com/roach88/pcconf/internal/constraint"
	"github.com/roach88/pcconf/internal/session"
	"github.com/roach88/pcconf/internal/testutil"
)

// createTestStore opens a store in a per-test temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestConfiguration resolves a against the sample catalog.
func createTestConfiguration(t *testing.T, a catalog.Assignment, sessionID string) Configuration {
	t.Helper()
	cfg, err := NewConfiguration(testutil.SampleCatalog(), a)
	if err != nil {
		t.Fatalf("NewConfiguration() failed: %v", err)
	}
	cfg.SessionID = sessionID
	cfg.Strategy = session.StrategyDomain
	return cfg
}

// runTestSession plays choices through a solution-strategy session over the
// sample catalog.
func runTestSession(t *testing.T, id string, choices ...string) *session.Session {
	t.Helper()
	reg, err := constraint.Standard(testutil.SampleCatalog())
	if err != nil {
		t.Fatalf("Standard() failed: %v", err)
	}
	s, err := session.New(testutil.SampleCatalog(), session.NewSolutionStrategy(reg),
		session.WithIDGenerator(testutil.NewFixedIDGenerator(id)))
	if err != nil {
		t.Fatalf("session.New() failed: %v", err)
	}
	for _, c := range choices {
		_ = s.Choose(c)
	}
	return s
}
