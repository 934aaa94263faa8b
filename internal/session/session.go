// Package session drives the interactive configuration flow.
//
// A Session walks the categories in fixed order. At each step it offers the
// candidates its Strategy reports for the current category, commits the
// caller's choice and advances. The flow never backtracks: once a choice is
// made it stays, and a session that reaches an unsatisfiable state is
// Failed until Restart.
//
// State machine:
//
//	AwaitingChoice(c) --Choose(available id)--> AwaitingChoice(next) | Complete
//	AwaitingChoice(c) --Choose(other id)------> AwaitingChoice(c)   (INVALID_SELECTION)
//	AwaitingChoice(c) --Choose(emptying id)---> Failed              (UNSATISFIABLE)
//	any               --Restart---------------> AwaitingChoice(CPU) | Failed
package session

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/pcconf/internal/catalog"
	"github.com/roach88/pcconf/internal/domain"
)

// State is the lifecycle state of a session.
type State int

const (
	AwaitingChoice State = iota
	Complete
	Failed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case AwaitingChoice:
		return "awaiting_choice"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ErrTerminal is returned by Choose when the session is Complete or Failed.
var ErrTerminal = errors.New("session is not awaiting a choice")

// Selection is one committed choice.
type Selection struct {
	Category catalog.Category
	Record   catalog.Record
}

// Option configures a Session.
type Option func(*Session)

// WithIDGenerator overrides the session id generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Session) { s.ids = g }
}

// Session is one interactive configuration run. It owns its strategy and
// must be used from a single goroutine.
type Session struct {
	id       string
	cat      *catalog.Catalog
	strategy Strategy
	ids      IDGenerator
	clock    *Clock

	state      State
	current    int
	selections []Selection
	steps      []Step
	failure    error
}

// New starts a session over cat. The strategy's initial pass runs
// immediately; if no configuration exists the session starts Failed and
// Failure reports why. An error is returned only for missing arguments.
func New(cat *catalog.Catalog, strategy Strategy, opts ...Option) (*Session, error) {
	if cat == nil {
		return nil, errors.New("new session: nil catalog")
	}
	if strategy == nil {
		return nil, errors.New("new session: nil strategy")
	}
	s := &Session{
		cat:      cat,
		strategy: strategy,
		ids:      UUIDv7Generator{},
		clock:    NewClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.id = s.ids.Generate()
	s.reset(StepStart)
	return s, nil
}

func (s *Session) reset(kind StepKind) {
	s.selections = nil
	s.current = 0
	s.failure = nil
	s.state = AwaitingChoice

	if err := s.strategy.Reset(domain.New(s.cat)); err != nil {
		s.fail(err)
	}
	step := Step{Kind: kind, Error: errString(s.failure)}
	if cat, ok := s.Current(); ok {
		step.Category = cat.String()
		step.Offered = s.strategy.Available(cat)
	}
	s.record(step)
	slog.Debug("session started", "session", s.id, "strategy", s.strategy.Name(), "state", s.state)
}

func (s *Session) fail(err error) {
	s.state = Failed
	s.failure = err
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Strategy returns the strategy name.
func (s *Session) Strategy() string { return s.strategy.Name() }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Failure returns the error that failed the session, or nil.
func (s *Session) Failure() error { return s.failure }

// Current returns the category awaiting a choice. ok is false once the
// session is Complete or Failed.
func (s *Session) Current() (cat catalog.Category, ok bool) {
	if s.state != AwaitingChoice {
		return 0, false
	}
	return catalog.Categories[s.current], true
}

// AvailableIDs returns the candidate ids for the current category, in
// catalog order. Empty when the session is not awaiting a choice.
func (s *Session) AvailableIDs() []string {
	cat, ok := s.Current()
	if !ok {
		return nil
	}
	return s.strategy.Available(cat)
}

// Available returns the candidate records for the current category.
func (s *Session) Available() []catalog.Record {
	cat, ok := s.Current()
	if !ok {
		return nil
	}
	ids := s.strategy.Available(cat)
	out := make([]catalog.Record, 0, len(ids))
	for _, id := range ids {
		if r, found := s.cat.Lookup(cat, id); found {
			out = append(out, r)
		}
	}
	return out
}

// Choose commits id for the current category.
//
// INVALID_SELECTION leaves the session exactly as it was. UNSATISFIABLE moves
// it to Failed. ErrTerminal is returned once the session is Complete or
// Failed.
func (s *Session) Choose(id string) error {
	cat, ok := s.Current()
	if !ok {
		return fmt.Errorf("choose %q: %w", id, ErrTerminal)
	}

	step := Step{Kind: StepChoose, Category: cat.String(), ID: id, Offered: s.strategy.Available(cat)}

	err := s.strategy.Fix(cat, id)
	switch {
	case err == nil:
	case domain.IsInvalidSelection(err):
		step.Kind, step.Error = StepReject, err.Error()
		s.record(step)
		slog.Debug("selection rejected", "session", s.id, "category", cat, "id", id)
		return err
	default:
		s.fail(err)
		step.Error = err.Error()
		s.record(step)
		slog.Debug("session failed", "session", s.id, "category", cat, "id", id, "error", err)
		return err
	}

	r, _ := s.cat.Lookup(cat, id)
	s.selections = append(s.selections, Selection{Category: cat, Record: r})
	s.current++
	if s.current == catalog.NumCategories {
		s.state = Complete
	}
	s.record(step)
	slog.Debug("selection committed", "session", s.id, "category", cat, "id", id, "state", s.state)
	return nil
}

// Restart discards every selection and starts over from full domains. The
// session id and step history are kept.
func (s *Session) Restart() {
	s.reset(StepRestart)
}

// Selections returns the committed choices in order.
func (s *Session) Selections() []Selection {
	out := make([]Selection, len(s.selections))
	copy(out, s.selections)
	return out
}

// Assignment returns the committed choices as an assignment. It is
// complete once the session is Complete.
func (s *Session) Assignment() catalog.Assignment {
	var a catalog.Assignment
	for _, sel := range s.selections {
		a[sel.Category] = sel.Record.ID
	}
	return a
}

// Total returns the price of the committed choices.
func (s *Session) Total() catalog.Money {
	var total catalog.Money
	for _, sel := range s.selections {
		total += sel.Record.Price
	}
	return total
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
