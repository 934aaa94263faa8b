// Package solver enumerates complete configurations.
//
// Search assigns categories in the fixed order CPU, Motherboard, RAM, GPU,
// PSU, Case, trying candidates in domain order. Each binary constraint is
// checked at the depth where the later of its two categories is assigned,
// and the search backtracks on the first violation. With a budget active,
// a branch is abandoned as soon as the partial cost plus the cheapest
// candidate of every unassigned category exceeds the limit, and complete
// assignments are checked against the budget exactly.
//
// The result is the same set the Cartesian product of the domains filtered
// by every constraint would give, in lexicographic domain order.
package solver

import (
	"log/slog"
	"time"

	"github.com/roach88/pcconf/internal/catalog"
	"github.com/roach88/pcconf/internal/constraint"
	"github.com/roach88/pcconf/internal/domain"
)

// Stats describes the last search.
type Stats struct {
	Nodes      int           // assignments tried
	Backtracks int           // candidates rejected by a constraint or the budget bound
	Solutions  int           // complete assignments accepted
	Elapsed    time.Duration // wall time of the search
}

// Solver runs searches against a registry. It is not safe for concurrent
// use because it records the stats of its last run.
type Solver struct {
	reg   *constraint.Registry
	stats Stats

	// checks[i] are the binary constraints whose later category is
	// Categories[i].
	checks [catalog.NumCategories][]*constraint.Constraint
}

// New creates a solver for reg. The registry's budget is read at the start
// of every search.
func New(reg *constraint.Registry) *Solver {
	s := &Solver{reg: reg}
	for _, c := range reg.Binary() {
		depth := max(int(c.X), int(c.Y))
		s.checks[depth] = append(s.checks[depth], c)
	}
	return s
}

// Stats returns the statistics of the last search.
func (s *Solver) Stats() Stats {
	return s.stats
}

// search calls visit for every solution in enumeration order until visit
// returns false.
func (s *Solver) search(st *domain.Store, visit func(catalog.Assignment) bool) {
	s.stats = Stats{}
	start := time.Now()
	defer func() {
		s.stats.Elapsed = time.Since(start)
		slog.Debug("search finished",
			"nodes", s.stats.Nodes,
			"backtracks", s.stats.Backtracks,
			"solutions", s.stats.Solutions,
			"elapsed", s.stats.Elapsed)
	}()

	var candidates [catalog.NumCategories][]string
	for _, cat := range catalog.Categories {
		candidates[cat] = st.Get(cat).IDs()
		if len(candidates[cat]) == 0 {
			return
		}
	}

	budget := s.reg.Budget()
	// floor[i] is the cheapest possible cost of categories i..5.
	var floor [catalog.NumCategories + 1]catalog.Money
	if budget != nil {
		for i := catalog.NumCategories - 1; i >= 0; i-- {
			cheapest := budget.Price(catalog.Categories[i], candidates[i][0])
			for _, id := range candidates[i][1:] {
				cheapest = min(cheapest, budget.Price(catalog.Categories[i], id))
			}
			floor[i] = floor[i+1] + cheapest
		}
	}

	var a catalog.Assignment
	var walk func(depth int, spent catalog.Money) bool
	walk = func(depth int, spent catalog.Money) bool {
		if depth == catalog.NumCategories {
			if budget != nil && !budget.Allows(a) {
				s.stats.Backtracks++
				return true
			}
			s.stats.Solutions++
			return visit(a)
		}

		cat := catalog.Categories[depth]
	next:
		for _, id := range candidates[depth] {
			s.stats.Nodes++
			a[cat] = id
			for _, c := range s.checks[depth] {
				if !c.Holds(a[c.X], a[c.Y]) {
					s.stats.Backtracks++
					continue next
				}
			}
			cost := spent
			if budget != nil {
				cost += budget.Price(cat, id)
				if cost+floor[depth+1] > budget.Limit {
					s.stats.Backtracks++
					continue
				}
			}
			if !walk(depth+1, cost) {
				return false
			}
		}
		a[cat] = ""
		return true
	}
	walk(0, 0)
}

// SolveAll returns every assignment drawn from st that satisfies all
// active constraints. An empty result is a normal outcome meaning no
// configuration exists.
func (s *Solver) SolveAll(st *domain.Store) []catalog.Assignment {
	var out []catalog.Assignment
	s.search(st, func(a catalog.Assignment) bool {
		out = append(out, a)
		return true
	})
	return out
}

// Count returns the number of solutions without collecting them.
func (s *Solver) Count(st *domain.Store) int {
	n := 0
	s.search(st, func(catalog.Assignment) bool {
		n++
		return true
	})
	return n
}

// SolveMinCost returns the solution minimizing cost. Among several minima
// the first one in enumeration order wins. Returns false when no solution
// exists.
func (s *Solver) SolveMinCost(st *domain.Store, cost constraint.CostFunc) (catalog.Assignment, bool) {
	var best catalog.Assignment
	var bestCost catalog.Money
	found := false
	s.search(st, func(a catalog.Assignment) bool {
		if c := cost(a); !found || c < bestCost {
			best, bestCost, found = a, c, true
		}
		return true
	})
	return best, found
}

// FilterByBudget returns the solutions whose cost is at most limit, in
// their original order.
func FilterByBudget(sols []catalog.Assignment, limit catalog.Money, cost constraint.CostFunc) []catalog.Assignment {
	var out []catalog.Assignment
	for _, a := range sols {
		if cost(a) <= limit {
			out = append(out, a)
		}
	}
	return out
}

// FilterByPrefix returns the solutions that agree with every non-empty
// slot of prefix, in their original order.
func FilterByPrefix(sols []catalog.Assignment, prefix catalog.Assignment) []catalog.Assignment {
	var out []catalog.Assignment
	for _, a := range sols {
		if matches(a, prefix) {
			out = append(out, a)
		}
	}
	return out
}

func matches(a, prefix catalog.Assignment) bool {
	for _, cat := range catalog.Categories {
		if prefix[cat] != "" && a[cat] != prefix[cat] {
			return false
		}
	}
	return true
}

// Project returns a copy of base whose domains keep only the values that
// appear in at least one solution. Domain order is base's order.
func Project(base *domain.Store, sols []catalog.Assignment) *domain.Store {
	var used [catalog.NumCategories]map[string]bool
	for _, cat := range catalog.Categories {
		used[cat] = make(map[string]bool)
	}
	for _, a := range sols {
		for _, cat := range catalog.Categories {
			used[cat][a[cat]] = true
		}
	}

	out := base.Clone()
	for _, cat := range catalog.Categories {
		seen := used[cat]
		out.Get(cat).Retain(func(id string) bool { return seen[id] })
	}
	return out
}
