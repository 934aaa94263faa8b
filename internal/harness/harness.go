package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/pcconf/internal/catalog"
	"github.com/roach88/pcconf/internal/constraint"
	"github.com/roach88/pcconf/internal/domain"
	"github.com/roach88/pcconf/internal/session"
	"github.com/roach88/pcconf/internal/store"
	"github.com/roach88/pcconf/internal/testutil"
)

// Harness executes one scenario against a live session and store.
type Harness struct {
	store   *store.Store
	cat     *catalog.Catalog
	session *session.Session
	budget  *catalog.Money
	logger  *slog.Logger
}

// Run executes a scenario with a background context.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation, with a
// fixed session id so traces are reproducible.
//
// Execution flow:
// 1. Load the catalog and build the constraint registry
// 2. Start a session with the scenario's strategy
// 3. Execute flow steps, checking expect clauses
// 4. Persist the trace and, if complete, the configuration
// 5. Evaluate assertions against trace, session and store
//
// An error is returned only when the scenario cannot be set up. Failed
// expectations and assertions are reported in Result.Errors.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	cat, err := loadCatalog(ctx, scenario.Catalog)
	if err != nil {
		return nil, err
	}

	reg, err := constraint.Standard(cat)
	if err != nil {
		return nil, fmt.Errorf("failed to build constraints: %w", err)
	}

	var budget *catalog.Money
	if scenario.Budget != "" {
		m, err := catalog.ParseMoney(scenario.Budget)
		if err != nil {
			return nil, fmt.Errorf("invalid budget: %w", err)
		}
		budget = &m
		reg.SetBudget(constraint.CatalogBudget(m, cat))
	}

	strategy, err := session.NewStrategy(scenario.Strategy, reg)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	sess, err := session.New(cat, strategy, session.WithIDGenerator(testutil.NewFixedIDGenerator(scenario.SessionID)))
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	h := &Harness{
		store:   st,
		cat:     cat,
		session: sess,
		budget:  budget,
		logger:  slog.Default().With("scenario", scenario.Name, "session", sess.ID()),
	}

	result := NewResult()
	result.SessionID = sess.ID()

	h.executeFlow(scenario.Flow, result)

	final, err := h.persist(ctx)
	if err != nil {
		return nil, err
	}
	result.Final = final
	result.Trace = traceFromSteps(sess.Steps())

	actx := &AssertionContext{
		Store: st,
		Ctx:   ctx,
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	return result, nil
}

func loadCatalog(ctx context.Context, path string) (*catalog.Catalog, error) {
	if path == "" {
		return testutil.SampleCatalog(), nil
	}
	cat, err := catalog.LoadPath(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}

// executeFlow applies each flow step to the session and validates its
// expect clause. Steps keep running after a mismatch so the trace shows
// the whole flow.
func (h *Harness) executeFlow(flow []FlowStep, result *Result) {
	for i, step := range flow {
		offered := h.session.AvailableIDs()

		var outcome string
		if step.Restart {
			h.session.Restart()
			outcome = OutcomeOK
		} else {
			outcome = classify(h.session.Choose(step.Choose))
		}

		h.logger.Debug("flow step completed",
			"step", i,
			"choose", step.Choose,
			"restart", step.Restart,
			"outcome", outcome,
			"state", h.session.State(),
		)

		if step.Expect == nil {
			continue
		}
		if step.Expect.Outcome != outcome {
			result.AddError(fmt.Sprintf("flow[%d] %s: expected outcome %s, got %s",
				i, describeStep(step), step.Expect.Outcome, outcome))
		}
		if step.Expect.Offered != nil && !slices.Equal(step.Expect.Offered, offered) {
			result.AddError(fmt.Sprintf("flow[%d] %s: expected offered %v, got %v",
				i, describeStep(step), step.Expect.Offered, offered))
		}
	}
}

// classify maps a Choose error onto a step outcome.
func classify(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, session.ErrTerminal):
		return OutcomeTerminal
	case domain.IsInvalidSelection(err):
		return OutcomeRejected
	default:
		return OutcomeFailed
	}
}

func describeStep(step FlowStep) string {
	if step.Restart {
		return "restart"
	}
	return "choose " + step.Choose
}

// persist writes the trace to the store and, for a complete session, the
// configuration.
func (h *Harness) persist(ctx context.Context) (FinalState, error) {
	sess := h.session
	final := FinalState{
		State: sess.State().String(),
		Total: sess.Total().String(),
		Parts: partsByKey(sess.Assignment()),
	}

	if err := h.store.WriteSteps(ctx, sess.ID(), sess.Steps()); err != nil {
		return FinalState{}, fmt.Errorf("failed to write steps: %w", err)
	}

	if sess.State() != session.Complete {
		return final, nil
	}

	cfg, err := store.NewConfiguration(h.cat, sess.Assignment())
	if err != nil {
		return FinalState{}, err
	}
	cfg.SessionID = sess.ID()
	cfg.Strategy = sess.Strategy()
	cfg.Budget = h.budget
	if _, err := h.store.SaveConfiguration(ctx, cfg); err != nil {
		return FinalState{}, fmt.Errorf("failed to save configuration: %w", err)
	}
	final.ConfigurationID = cfg.ID
	return final, nil
}

// partsByKey keys the chosen ids by lowercase category key, skipping
// categories not chosen yet.
func partsByKey(a catalog.Assignment) map[string]string {
	parts := make(map[string]string)
	for _, cat := range catalog.Categories {
		if id := a.Get(cat); id != "" {
			parts[cat.Key()] = id
		}
	}
	return parts
}
