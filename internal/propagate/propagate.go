// Package propagate prunes domain stores to arc consistency.
//
// Two entry points are offered:
//
//   - Sweep makes exactly one pass over the registry's binary constraints in
//     traversal order, revising both sides of every edge. Callers that use it
//     directly must re-invoke it after any domain shrinks.
//   - Propagate runs an AC-3 work queue seeded in the same order until no
//     domain changes, then (when a budget is active) removes every value
//     that cannot be part of a configuration within the budget, and repeats
//     until both are stable. It is idempotent.
//
// Ids unknown to the catalog never match any predicate; they are pruned,
// never reported as errors.
package propagate

import (
	"log/slog"

	"github.com/roach88/pcconf/internal/catalog"
	"github.com/roach88/pcconf/internal/constraint"
	"github.com/roach88/pcconf/internal/domain"
)

// Propagator prunes stores against a registry.
// A Propagator holds no per-store state and may be shared.
type Propagator struct {
	reg *constraint.Registry
}

// New creates a propagator for reg. The registry's budget is read on every
// call, so replacing it takes effect immediately.
func New(reg *constraint.Registry) *Propagator {
	return &Propagator{reg: reg}
}

// Registry returns the registry the propagator reads.
func (p *Propagator) Registry() *constraint.Registry {
	return p.reg
}

// revise removes from Domain(cat) every value without a supporting value in
// the other category of c. Returns how many values were removed.
func revise(s *domain.Store, c *constraint.Constraint, cat catalog.Category) int {
	other := s.Get(c.Other(cat))
	// The other side is read but never mutated here; take its ids once.
	partners := other.IDs()
	return s.Get(cat).Retain(func(v string) bool {
		for _, w := range partners {
			if c.HoldsFrom(cat, v, w) {
				return true
			}
		}
		return false
	})
}

// Sweep makes a single pass over the binary constraints in traversal order,
// revising X against Y and then Y against X for each. Returns the number of
// values removed.
func (p *Propagator) Sweep(s *domain.Store) int {
	removed := 0
	for _, c := range p.reg.Binary() {
		removed += revise(s, c, c.X)
		removed += revise(s, c, c.Y)
	}
	slog.Debug("sweep", "removed", removed, "domains", s)
	return removed
}

// arc asks to revise Domain(cat) against c's other side.
type arc struct {
	cat catalog.Category
	c   *constraint.Constraint
}

// ac3 runs the work queue to a fixpoint, processing seed before the
// remaining arcs in traversal order. It stops as soon as a domain empties
// and returns that category with ok=false.
func (p *Propagator) ac3(s *domain.Store, seed []arc) (removed int, emptied catalog.Category, ok bool) {
	var queue []arc
	queued := make(map[arc]bool)
	push := func(a arc) {
		if !queued[a] {
			queued[a] = true
			queue = append(queue, a)
		}
	}
	for _, a := range seed {
		push(a)
	}
	for _, c := range p.reg.Binary() {
		push(arc{c.X, c})
		push(arc{c.Y, c})
	}

	for len(queue) > 0 {
		a := queue[0]
		queue = queue[1:]
		queued[a] = false

		n := revise(s, a.c, a.cat)
		if n == 0 {
			continue
		}
		removed += n
		if s.Get(a.cat).IsEmpty() {
			return removed, a.cat, false
		}
		// Neighbors of a.cat may have lost their support.
		for _, c := range p.reg.ConstraintsOver(a.cat) {
			if c != a.c {
				push(arc{c.Other(a.cat), c})
			}
		}
	}
	return removed, 0, true
}

// Propagate prunes s to arc consistency against the binary constraints and,
// when the registry has a budget, to budget support.
//
// Returns an UNSATISFIABLE error naming the category that emptied. A store
// that already holds an empty domain reports the first one in category
// order.
func (p *Propagator) Propagate(s *domain.Store) error {
	if cat, ok := p.run(s, nil); !ok {
		return domain.NewUnsatisfiable(cat, "")
	}
	return nil
}

// Fix collapses Domain(cat) to {id} and propagates, revising the neighbors
// of cat first.
//
// An id not in the current domain yields INVALID_SELECTION and leaves s
// untouched. If propagation empties a domain the error is UNSATISFIABLE and
// carries id as the fix that caused it; s is left in its pruned state.
func (p *Propagator) Fix(s *domain.Store, cat catalog.Category, id string) error {
	if err := s.Fix(cat, id); err != nil {
		return err
	}
	var seed []arc
	for _, c := range p.reg.ConstraintsOver(cat) {
		seed = append(seed, arc{c.Other(cat), c})
	}
	if empty, ok := p.run(s, seed); !ok {
		return domain.NewUnsatisfiable(empty, id)
	}
	return nil
}

func (p *Propagator) run(s *domain.Store, seed []arc) (catalog.Category, bool) {
	if empty := s.EmptyCategories(); len(empty) > 0 {
		return empty[0], false
	}
	for {
		removed, emptied, ok := p.ac3(s, seed)
		if !ok {
			slog.Debug("propagation emptied a domain", "category", emptied, "removed", removed)
			return emptied, false
		}
		seed = nil

		b := p.reg.Budget()
		if b == nil {
			slog.Debug("propagated", "removed", removed, "domains", s)
			return 0, true
		}
		if PruneBudget(s, p.reg, b) == 0 {
			slog.Debug("propagated", "removed", removed, "budget", b.Limit.String(), "domains", s)
			return 0, true
		}
		if empty := s.EmptyCategories(); len(empty) > 0 {
			slog.Debug("budget emptied a domain", "category", empty[0], "limit", b.Limit.String())
			return empty[0], false
		}
	}
}

// Supported reports whether every value in s has a support in every
// neighboring domain. Propagate establishes this; Sweep alone may not.
func Supported(s *domain.Store, reg *constraint.Registry) bool {
	for _, c := range reg.Binary() {
		for _, cat := range []catalog.Category{c.X, c.Y} {
			partners := s.Get(c.Other(cat)).IDs()
			for _, v := range s.Get(cat).IDs() {
				found := false
				for _, w := range partners {
					if c.HoldsFrom(cat, v, w) {
						found = true
						break
					}
				}
				if !found {
					return false
				}
			}
		}
	}
	return true
}
