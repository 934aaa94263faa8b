package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pcconf/internal/catalog"
	"github.com/roach88/pcconf/internal/constraint"
	"github.com/roach88/pcconf/internal/domain"
	"github.com/roach88/pcconf/internal/propagate"
	"github.com/roach88/pcconf/internal/testutil"
)

func sample(t *testing.T) (*catalog.Catalog, *constraint.Registry) {
	t.Helper()
	cat := testutil.SampleCatalog()
	reg, err := constraint.Standard(cat)
	require.NoError(t, err)
	return cat, reg
}

// cartesian enumerates the full product of st's domains and keeps the
// assignments reg accepts.
func cartesian(st *domain.Store, reg *constraint.Registry) []catalog.Assignment {
	var out []catalog.Assignment
	var a catalog.Assignment
	var walk func(i int)
	walk = func(i int) {
		if i == catalog.NumCategories {
			if reg.Satisfied(a) {
				out = append(out, a)
			}
			return
		}
		for _, id := range st.Get(catalog.Categories[i]).IDs() {
			a[i] = id
			walk(i + 1)
		}
	}
	walk(0)
	return out
}

func TestSolveAll_MatchesCartesianProduct(t *testing.T) {
	cat, reg := sample(t)
	s := New(reg)

	got := s.SolveAll(domain.New(cat))
	want := cartesian(domain.New(cat), reg)

	require.Len(t, got, testutil.SampleSolutionCount)
	assert.Equal(t, want, got, "same set in the same lexicographic order")

	stats := s.Stats()
	assert.Equal(t, testutil.SampleSolutionCount, stats.Solutions)
	assert.Positive(t, stats.Backtracks)
	assert.Less(t, stats.Nodes, 3*4*2*3*3*3, "search prunes before the full product")
}

func TestSolveAll_PropagatedStoreGivesSameSolutions(t *testing.T) {
	cat, reg := sample(t)
	st := domain.New(cat)
	require.NoError(t, propagate.New(reg).Propagate(st))

	assert.Equal(t, New(reg).SolveAll(domain.New(cat)), New(reg).SolveAll(st))
}

func TestSolveAll_SocketScenario(t *testing.T) {
	cat := testutil.NewBuilder().
		CPU("cpu1", "AM5", 200).
		CPU("cpu2", "LGA1700", 180).
		Motherboard("mb1", "AM5", "DDR5", "ATX", 150).
		RAM("ram1", "DDR5", 90).
		GPU("gpu1", 200, 400).
		PSU("psu1", 650, "ATX", 80).
		Case("case1", []string{"ATX"}, []string{"ATX"}, 70).
		MustBuild()
	reg, err := constraint.Standard(cat)
	require.NoError(t, err)

	sols := New(reg).SolveAll(domain.New(cat))
	pairs := make(map[[2]string]bool)
	for _, a := range sols {
		pairs[[2]string{a[catalog.CPU], a[catalog.Motherboard]}] = true
	}
	assert.Equal(t, map[[2]string]bool{{"cpu1", "mb1"}: true}, pairs)
}

func TestSolveAll_EmptyDomain(t *testing.T) {
	_, reg := sample(t)
	st := domain.FromIDs(map[catalog.Category][]string{catalog.CPU: {"cpu-1"}})

	s := New(reg)
	assert.Empty(t, s.SolveAll(st))
	assert.Zero(t, s.Stats().Nodes)

	_, ok := s.SolveMinCost(st, testutil.SampleCatalog().Cost)
	assert.False(t, ok)
}

func TestSolveAll_NoSolution(t *testing.T) {
	cat := testutil.NewBuilder().
		CPU("cpu1", "AM4", 200).
		Motherboard("mb1", "AM5", "DDR5", "ATX", 150).
		RAM("ram1", "DDR5", 90).
		GPU("gpu1", 200, 400).
		PSU("psu1", 650, "ATX", 80).
		Case("case1", []string{"ATX"}, []string{"ATX"}, 70).
		MustBuild()
	reg, err := constraint.Standard(cat)
	require.NoError(t, err)

	assert.Empty(t, New(reg).SolveAll(domain.New(cat)))
}

func TestSolveMinCost(t *testing.T) {
	cat, reg := sample(t)
	s := New(reg)

	best, ok := s.SolveMinCost(domain.New(cat), cat.Cost)
	require.True(t, ok)
	assert.Equal(t, testutil.SampleCheapest, best)
	assert.Equal(t, testutil.SampleCheapestTotal, cat.Cost(best))

	again, ok := s.SolveMinCost(domain.New(cat), cat.Cost)
	require.True(t, ok)
	assert.Equal(t, best, again)
}

func TestSolveMinCost_TieBreakIsEnumerationOrder(t *testing.T) {
	build := func(first, second string) *catalog.Catalog {
		return testutil.NewBuilder().
			CPU(first, "AM5", 200).
			CPU(second, "AM5", 200).
			Motherboard("mb", "AM5", "DDR5", "ATX", 150).
			RAM("ram", "DDR5", 90).
			GPU("gpu", 200, 400).
			PSU("psu", 650, "ATX", 80).
			Case("case", []string{"ATX"}, []string{"ATX"}, 70).
			MustBuild()
	}

	for _, order := range [][2]string{{"cpu-x", "cpu-y"}, {"cpu-y", "cpu-x"}} {
		cat := build(order[0], order[1])
		reg, err := constraint.Standard(cat)
		require.NoError(t, err)

		best, ok := New(reg).SolveMinCost(domain.New(cat), cat.Cost)
		require.True(t, ok)
		assert.Equal(t, order[0], best[catalog.CPU])
	}
}

func TestSolveMinCost_CustomCost(t *testing.T) {
	cat, reg := sample(t)

	// Prefer the most powerful PSU, then anything.
	wattage := func(a catalog.Assignment) catalog.Money {
		r, _ := cat.Lookup(catalog.PSU, a[catalog.PSU])
		w, _ := r.Number(catalog.AttrWattage)
		return catalog.Money(-w)
	}
	best, ok := New(reg).SolveMinCost(domain.New(cat), wattage)
	require.True(t, ok)
	assert.Equal(t, "psu-3", best[catalog.PSU])
	assert.Equal(t, catalog.Assignment{"cpu-1", "mb-1", "ram-1", "gpu-1", "psu-3", "case-1"}, best)
}

func TestFilterByBudget(t *testing.T) {
	cat, reg := sample(t)
	all := New(reg).SolveAll(domain.New(cat))

	for _, limit := range []catalog.Money{0, 81999, 82000, 90000, 100000, 120000, 300000} {
		filtered := FilterByBudget(all, limit, cat.Cost)

		var want []catalog.Assignment
		for _, a := range all {
			if cat.Cost(a) <= limit {
				want = append(want, a)
			}
		}
		assert.Equal(t, want, filtered, "limit %s", limit)

		budgeted := New(reg.WithBudget(constraint.CatalogBudget(limit, cat))).SolveAll(domain.New(cat))
		assert.Equal(t, filtered, budgeted, "filtering and solving under budget %s agree", limit)
	}
}

func TestFilterByBudget_LimitAtMinimum(t *testing.T) {
	cat, reg := sample(t)
	all := New(reg).SolveAll(domain.New(cat))

	cheapest, ok := New(reg).SolveMinCost(domain.New(cat), cat.Cost)
	require.True(t, ok)

	kept := FilterByBudget(all, cat.Cost(cheapest), cat.Cost)
	assert.Contains(t, kept, cheapest)
	assert.Equal(t, []catalog.Assignment{testutil.SampleCheapest}, kept)
}

func TestSolveAll_BudgetBoundPrunes(t *testing.T) {
	cat, reg := sample(t)

	free := New(reg)
	free.SolveAll(domain.New(cat))

	tight := New(reg.WithBudget(constraint.CatalogBudget(testutil.SampleCheapestTotal, cat)))
	sols := tight.SolveAll(domain.New(cat))

	assert.Equal(t, []catalog.Assignment{testutil.SampleCheapest}, sols)
	assert.Less(t, tight.Stats().Nodes, free.Stats().Nodes)
}

func TestFilterByPrefix(t *testing.T) {
	cat, reg := sample(t)
	all := New(reg).SolveAll(domain.New(cat))

	prefix := catalog.Assignment{}.With(catalog.CPU, "cpu-2").With(catalog.Motherboard, "mb-3")
	sub := FilterByPrefix(all, prefix)
	assert.Len(t, sub, 6)
	for _, a := range sub {
		assert.Equal(t, "cpu-2", a[catalog.CPU])
		assert.Equal(t, "mb-3", a[catalog.Motherboard])
	}
	assert.Equal(t, all, FilterByPrefix(all, catalog.Assignment{}))
}

func TestProject(t *testing.T) {
	cat, reg := sample(t)
	all := New(reg).SolveAll(domain.New(cat))

	projected := Project(domain.New(cat), all)

	propagated := domain.New(cat)
	require.NoError(t, propagate.New(reg).Propagate(propagated))
	assert.True(t, projected.Equal(propagated), "projection of all solutions equals the arc-consistent store on a tree")

	empty := Project(domain.New(cat), nil)
	assert.Len(t, empty.EmptyCategories(), catalog.NumCategories)
}

func TestCount(t *testing.T) {
	cat, reg := sample(t)
	assert.Equal(t, testutil.SampleSolutionCount, New(reg).Count(domain.New(cat)))
}
