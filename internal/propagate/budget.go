package propagate

import (
	"log/slog"

	"github.com/roach88/pcconf/internal/catalog"
	"github.com/roach88/pcconf/internal/constraint"
	"github.com/roach88/pcconf/internal/domain"
)

// PruneBudget removes every value whose cheapest complete, compatible
// configuration exceeds the budget limit. Returns the number of values
// removed.
//
// When the constraint graph is a forest (the standard five constraints form
// a tree) the cheapest extension through each value is computed exactly by
// dynamic programming rooted at that value's category, so after pruning
// every remaining value belongs to at least one configuration within the
// budget. On graphs with cycles a weaker bound is used: the value's price
// plus the cheapest compatible neighbor in each adjacent category plus the
// cheapest value of every other category. That bound never removes a value
// that has a configuration within budget.
//
// All costs are computed from a snapshot of s before anything is removed.
func PruneBudget(s *domain.Store, reg *constraint.Registry, b *constraint.Budget) int {
	g := newGraph(reg)

	var best [catalog.NumCategories]map[string]catalog.Money
	if g.isForest() {
		best = g.exact(s, b)
	} else {
		best = g.bound(s, b)
	}

	removed := 0
	for _, cat := range catalog.Categories {
		table := best[cat]
		removed += s.Get(cat).Retain(func(id string) bool {
			cost, ok := table[id]
			return ok && cost <= b.Limit
		})
	}
	if removed > 0 {
		slog.Debug("budget pruned", "limit", b.Limit.String(), "removed", removed)
	}
	return removed
}

// graph is the category-level view of the registry: one node per category
// and one edge per pair of categories sharing at least one constraint.
type graph struct {
	reg   *constraint.Registry
	adj   [catalog.NumCategories][]catalog.Category
	edges int

	// comp[c] is the index of c's connected component; roots[i] is the
	// first category of component i.
	comp  [catalog.NumCategories]int
	roots []catalog.Category
}

func newGraph(reg *constraint.Registry) *graph {
	g := &graph{reg: reg}
	for _, c := range reg.Binary() {
		if !containsCategory(g.adj[c.X], c.Y) {
			g.adj[c.X] = append(g.adj[c.X], c.Y)
			g.adj[c.Y] = append(g.adj[c.Y], c.X)
			g.edges++
		}
	}

	for i := range g.comp {
		g.comp[i] = -1
	}
	for _, cat := range catalog.Categories {
		if g.comp[cat] >= 0 {
			continue
		}
		idx := len(g.roots)
		g.roots = append(g.roots, cat)
		stack := []catalog.Category{cat}
		g.comp[cat] = idx
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, m := range g.adj[n] {
				if g.comp[m] < 0 {
					g.comp[m] = idx
					stack = append(stack, m)
				}
			}
		}
	}
	return g
}

func (g *graph) isForest() bool {
	return g.edges == catalog.NumCategories-len(g.roots)
}

// subtree returns, for every value v of cat, the cheapest price of v plus a
// compatible choice in every category of the subtree hanging below cat
// (away from parent). Values with no compatible completion are absent.
func (g *graph) subtree(s *domain.Store, b *constraint.Budget, cat, parent catalog.Category) map[string]catalog.Money {
	type child struct {
		cat   catalog.Category
		ids   []string
		costs map[string]catalog.Money
	}
	var children []child
	for _, k := range g.adj[cat] {
		if k == parent {
			continue
		}
		children = append(children, child{cat: k, ids: s.Get(k).IDs(), costs: g.subtree(s, b, k, cat)})
	}

	out := make(map[string]catalog.Money)
	for _, v := range s.Get(cat).IDs() {
		total := b.Price(cat, v)
		feasible := true
		for _, ch := range children {
			cheapest, found := catalog.Money(0), false
			for _, w := range ch.ids {
				cost, ok := ch.costs[w]
				if !ok || !g.reg.Compatible(cat, v, ch.cat, w) {
					continue
				}
				if !found || cost < cheapest {
					cheapest, found = cost, true
				}
			}
			if !found {
				feasible = false
				break
			}
			total += cheapest
		}
		if feasible {
			out[v] = total
		}
	}
	return out
}

// exact computes the cheapest complete configuration through every value.
func (g *graph) exact(s *domain.Store, b *constraint.Budget) [catalog.NumCategories]map[string]catalog.Money {
	var best [catalog.NumCategories]map[string]catalog.Money

	// Cheapest completion of each component on its own.
	compMin := make([]catalog.Money, len(g.roots))
	for i, root := range g.roots {
		costs := g.subtree(s, b, root, noParent)
		m, ok := minCost(costs)
		if !ok {
			// Some component cannot be completed at all: nothing survives.
			for _, cat := range catalog.Categories {
				best[cat] = map[string]catalog.Money{}
			}
			return best
		}
		compMin[i] = m
	}

	for _, cat := range catalog.Categories {
		var rest catalog.Money
		for i := range g.roots {
			if i != g.comp[cat] {
				rest += compMin[i]
			}
		}
		costs := g.subtree(s, b, cat, noParent)
		for id := range costs {
			costs[id] += rest
		}
		best[cat] = costs
	}
	return best
}

// bound computes an admissible lower bound on the cheapest configuration
// through every value.
func (g *graph) bound(s *domain.Store, b *constraint.Budget) [catalog.NumCategories]map[string]catalog.Money {
	var cheapest [catalog.NumCategories]catalog.Money
	for _, cat := range catalog.Categories {
		prices := make(map[string]catalog.Money)
		for _, id := range s.Get(cat).IDs() {
			prices[id] = b.Price(cat, id)
		}
		cheapest[cat], _ = minCost(prices)
	}

	var best [catalog.NumCategories]map[string]catalog.Money
	for _, cat := range catalog.Categories {
		best[cat] = make(map[string]catalog.Money)
	values:
		for _, v := range s.Get(cat).IDs() {
			total := b.Price(cat, v)
			for _, k := range catalog.Categories {
				if k == cat {
					continue
				}
				if !containsCategory(g.adj[cat], k) {
					total += cheapest[k]
					continue
				}
				m, found := catalog.Money(0), false
				for _, w := range s.Get(k).IDs() {
					if !g.reg.Compatible(cat, v, k, w) {
						continue
					}
					if p := b.Price(k, w); !found || p < m {
						m, found = p, true
					}
				}
				if !found {
					continue values
				}
				total += m
			}
			best[cat][v] = total
		}
	}
	return best
}

const noParent = catalog.Category(-1)

func minCost(costs map[string]catalog.Money) (catalog.Money, bool) {
	var m catalog.Money
	found := false
	for _, c := range costs {
		if !found || c < m {
			m, found = c, true
		}
	}
	return m, found
}

func containsCategory(cats []catalog.Category, c catalog.Category) bool {
	for _, x := range cats {
		if x == c {
			return true
		}
	}
	return false
}
