package session

import (
	"fmt"
	"strings"

	"github.com/roach88/pcconf/internal/catalog"
	"github.com/roach88/pcconf/internal/constraint"
	"github.com/roach88/pcconf/internal/domain"
	"github.com/roach88/pcconf/internal/propagate"
	"github.com/roach88/pcconf/internal/solver"
)

// Strategy computes the candidates offered at each step.
//
// Both implementations offer the same candidates for the same fixed prefix,
// budget included. A strategy is stateful and owned by one session.
type Strategy interface {
	// Name identifies the strategy ("domain" or "solution").
	Name() string

	// Reset starts over from full, which the strategy must not retain.
	// Returns UNSATISFIABLE when no configuration exists at all.
	Reset(full *domain.Store) error

	// Available returns the candidate ids for cat in catalog order.
	Available(cat catalog.Category) []string

	// Fix commits id for cat. INVALID_SELECTION leaves the strategy
	// untouched; UNSATISFIABLE means the session cannot continue.
	Fix(cat catalog.Category, id string) error
}

// Strategy names.
const (
	StrategyDomain   = "domain"
	StrategySolution = "solution"
)

// NewStrategy creates a strategy by name.
func NewStrategy(name string, reg *constraint.Registry) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StrategyDomain, "propagation", "":
		return NewDomainStrategy(reg), nil
	case StrategySolution, "solver":
		return NewSolutionStrategy(reg), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (want %s or %s)", name, StrategyDomain, StrategySolution)
	}
}

// DomainStrategy keeps the domains arc-consistent with the propagator and
// offers the current domain of each category.
type DomainStrategy struct {
	prop  *propagate.Propagator
	store *domain.Store
}

// NewDomainStrategy creates a propagation-based strategy.
func NewDomainStrategy(reg *constraint.Registry) *DomainStrategy {
	return &DomainStrategy{prop: propagate.New(reg)}
}

// Name implements Strategy.
func (d *DomainStrategy) Name() string { return StrategyDomain }

// Reset implements Strategy.
func (d *DomainStrategy) Reset(full *domain.Store) error {
	d.store = full.Clone()
	return d.prop.Propagate(d.store)
}

// Available implements Strategy.
func (d *DomainStrategy) Available(cat catalog.Category) []string {
	if d.store == nil {
		return nil
	}
	return d.store.Get(cat).IDs()
}

// Fix implements Strategy.
func (d *DomainStrategy) Fix(cat catalog.Category, id string) error {
	return d.prop.Fix(d.store, cat, id)
}

// Store exposes the current domains.
func (d *DomainStrategy) Store() *domain.Store {
	return d.store
}

// SolutionStrategy enumerates every configuration up front and narrows the
// working set to the solutions agreeing with each fixed choice.
type SolutionStrategy struct {
	solver    *solver.Solver
	base      *domain.Store
	solutions []catalog.Assignment
	offered   *domain.Store
}

// NewSolutionStrategy creates an enumeration-based strategy.
func NewSolutionStrategy(reg *constraint.Registry) *SolutionStrategy {
	return &SolutionStrategy{solver: solver.New(reg)}
}

// Name implements Strategy.
func (s *SolutionStrategy) Name() string { return StrategySolution }

// Reset implements Strategy.
func (s *SolutionStrategy) Reset(full *domain.Store) error {
	s.base = full.Clone()
	s.solutions = s.solver.SolveAll(s.base)
	s.offered = solver.Project(s.base, s.solutions)
	if len(s.solutions) == 0 {
		return domain.NewUnsatisfiable(firstEmpty(s.offered), "")
	}
	return nil
}

// Available implements Strategy.
func (s *SolutionStrategy) Available(cat catalog.Category) []string {
	if s.offered == nil {
		return nil
	}
	return s.offered.Get(cat).IDs()
}

// Fix implements Strategy.
func (s *SolutionStrategy) Fix(cat catalog.Category, id string) error {
	if s.offered == nil || !s.offered.Get(cat).Has(id) {
		return domain.NewInvalidSelection(cat, id)
	}
	s.solutions = solver.FilterByPrefix(s.solutions, catalog.Assignment{}.With(cat, id))
	s.offered = solver.Project(s.base, s.solutions)
	if len(s.solutions) == 0 {
		return domain.NewUnsatisfiable(firstEmpty(s.offered), id)
	}
	return nil
}

// Solutions returns the configurations still reachable.
func (s *SolutionStrategy) Solutions() []catalog.Assignment {
	return s.solutions
}

func firstEmpty(st *domain.Store) catalog.Category {
	if empty := st.EmptyCategories(); len(empty) > 0 {
		return empty[0]
	}
	return catalog.CPU
}
