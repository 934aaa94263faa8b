package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pcconf/internal/catalog"
	"github.com/roach88/pcconf/internal/testutil"
)

func standard(t *testing.T, b *testutil.Builder, opts ...Option) (*catalog.Catalog, *Registry) {
	t.Helper()
	cat, err := b.Build()
	require.NoError(t, err)
	reg, err := Standard(cat, opts...)
	require.NoError(t, err)
	return cat, reg
}

func TestStandard_Order(t *testing.T) {
	_, reg := standard(t, testutil.SampleBuilder())

	var names []string
	for _, c := range reg.Binary() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{CPUMotherboard, MotherboardRAM, MotherboardCase, PSUCase, GPUPSU}, names)
	assert.Nil(t, reg.Budget())
}

func TestStandard_SocketMismatch(t *testing.T) {
	b := testutil.NewBuilder().
		CPU("cpu1", "AM5", 200).
		Motherboard("mb1", "LGA1700", "DDR5", "ATX", 150).
		Motherboard("mb2", "AM5", "DDR5", "ATX", 150)
	_, reg := standard(t, b)

	c, ok := reg.Lookup(CPUMotherboard)
	require.True(t, ok)
	assert.False(t, c.Holds("cpu1", "mb1"))
	assert.True(t, c.Holds("cpu1", "mb2"))
	assert.False(t, reg.Compatible(catalog.Motherboard, "mb1", catalog.CPU, "cpu1"))
	assert.True(t, reg.Compatible(catalog.Motherboard, "mb2", catalog.CPU, "cpu1"))
}

func TestStandard_PowerMargin(t *testing.T) {
	b := testutil.NewBuilder().
		GPU("gpu", 300, 500).
		PSU("psu-350", 350, "ATX", 60).
		PSU("psu-360", 360, "ATX", 65).
		PSU("psu-400", 400, "ATX", 70)
	_, reg := standard(t, b)

	c, ok := reg.Lookup(GPUPSU)
	require.True(t, ok)
	assert.False(t, c.Holds("gpu", "psu-350"))
	assert.True(t, c.Holds("gpu", "psu-360"), "boundary wattage equals draw*margin")
	assert.True(t, c.Holds("gpu", "psu-400"))

	assert.True(t, c.HoldsFrom(catalog.PSU, "psu-400", "gpu"))
	assert.False(t, c.HoldsFrom(catalog.PSU, "psu-350", "gpu"))
}

func TestStandard_CustomMargin(t *testing.T) {
	b := testutil.NewBuilder().
		GPU("gpu", 300, 500).
		PSU("psu-350", 350, "ATX", 60)
	_, reg := standard(t, b, WithSafetyMargin(1.0))

	c, _ := reg.Lookup(GPUPSU)
	assert.True(t, c.Holds("gpu", "psu-350"))

	cat := b.MustBuild()
	_, err := Standard(cat, WithSafetyMargin(0))
	assert.Error(t, err)
}

func TestStandard_Membership(t *testing.T) {
	_, reg := standard(t, testutil.SampleBuilder())

	mc, _ := reg.Lookup(MotherboardCase)
	assert.True(t, mc.Holds("mb-1", "case-1"))
	assert.False(t, mc.Holds("mb-2", "case-1"))
	assert.False(t, mc.Holds("mb-4", "case-2"))

	pc, _ := reg.Lookup(PSUCase)
	assert.True(t, pc.Holds("psu-1", "case-1"))
	assert.False(t, pc.Holds("psu-1", "case-2"))
}

func TestStandard_UnknownIDNeverMatches(t *testing.T) {
	_, reg := standard(t, testutil.SampleBuilder())
	for _, c := range reg.Binary() {
		assert.False(t, c.Holds("nope", "nope"), c.Name)
	}
}

func TestStandard_MissingAttribute(t *testing.T) {
	b := testutil.SampleBuilder().Record(catalog.NewRecord(catalog.GPU, "gpu-x", "GPU X", 10000, nil))
	cat := b.MustBuild()

	_, err := Standard(cat)
	require.Error(t, err)
	assert.True(t, catalog.IsMalformedAttribute(err))
	assert.Contains(t, err.Error(), "gpu-x")
}

func TestStandard_WrongAttributeKind(t *testing.T) {
	b := testutil.SampleBuilder().Record(catalog.NewRecord(catalog.PSU, "psu-x", "PSU X", 5000, map[string]catalog.Value{
		catalog.AttrWattage: catalog.Text("lots"),
		catalog.AttrSize:    catalog.Text("ATX"),
	}))
	_, err := Standard(b.MustBuild())
	require.Error(t, err)
	assert.True(t, catalog.IsMalformedAttribute(err))
}

func TestStandard_PairCache(t *testing.T) {
	cat, plain := standard(t, testutil.SampleBuilder())
	cached, err := Standard(cat, WithPairCache(16))
	require.NoError(t, err)

	for i, c := range plain.Binary() {
		cc := cached.Binary()[i]
		require.Equal(t, c.Name, cc.Name)
		for _, x := range cat.IDs(c.X) {
			for _, y := range cat.IDs(c.Y) {
				// Evaluate twice so the second call is a cache hit.
				assert.Equal(t, c.Holds(x, y), cc.Holds(x, y))
				assert.Equal(t, c.Holds(x, y), cc.Holds(x, y))
			}
		}
	}
}

func TestCached_InvalidSize(t *testing.T) {
	c := New("n", catalog.CPU, catalog.RAM, func(x, y string) bool { return true })
	_, err := Cached(c, 0)
	assert.Error(t, err)
}

func TestConstraint_Sides(t *testing.T) {
	c := New("n", catalog.GPU, catalog.PSU, func(x, y string) bool { return x == "g" && y == "p" })

	assert.True(t, c.Involves(catalog.GPU))
	assert.True(t, c.Involves(catalog.PSU))
	assert.False(t, c.Involves(catalog.CPU))
	assert.Equal(t, catalog.PSU, c.Other(catalog.GPU))
	assert.Equal(t, catalog.GPU, c.Other(catalog.PSU))
	assert.True(t, c.HoldsFrom(catalog.GPU, "g", "p"))
	assert.True(t, c.HoldsFrom(catalog.PSU, "p", "g"))
	assert.Equal(t, "n(GPU, PSU)", c.String())
}

func TestRegistry_RegisterErrors(t *testing.T) {
	ok := func(x, y string) bool { return true }

	tests := []struct {
		name string
		c    *Constraint
	}{
		{"nil", nil},
		{"nil predicate", New("p", catalog.CPU, catalog.RAM, nil)},
		{"empty name", New("", catalog.CPU, catalog.RAM, ok)},
		{"bad category", New("bad", catalog.Category(9), catalog.RAM, ok)},
		{"self loop", New("self", catalog.RAM, catalog.RAM, ok)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, NewRegistry().Register(tt.c))
		})
	}

	r := NewRegistry()
	require.NoError(t, r.Register(New("dup", catalog.CPU, catalog.RAM, ok)))
	assert.Error(t, r.Register(New("dup", catalog.GPU, catalog.PSU, ok)))
}

func TestRegistry_Queries(t *testing.T) {
	_, reg := standard(t, testutil.SampleBuilder())

	over := reg.ConstraintsOver(catalog.Motherboard)
	require.Len(t, over, 3)
	assert.Equal(t, CPUMotherboard, over[0].Name)
	assert.Equal(t, MotherboardRAM, over[1].Name)
	assert.Equal(t, MotherboardCase, over[2].Name)

	assert.Len(t, reg.Between(catalog.Case, catalog.PSU), 1)
	assert.Empty(t, reg.Between(catalog.CPU, catalog.GPU))
	assert.Nil(t, reg.ConstraintsOver(catalog.Category(-1)))

	// Categories without a linking constraint are always compatible.
	assert.True(t, reg.Compatible(catalog.CPU, "cpu-3", catalog.GPU, "gpu-1"))

	_, found := reg.Lookup("missing")
	assert.False(t, found)
}

func TestRegistry_Budget(t *testing.T) {
	cat, reg := standard(t, testutil.SampleBuilder())
	cheapest := testutil.SampleCheapest

	assert.True(t, reg.Satisfied(cheapest))

	reg.SetBudget(CatalogBudget(testutil.SampleCheapestTotal, cat))
	assert.True(t, reg.Satisfied(cheapest), "total equal to the limit is allowed")

	reg.SetBudget(CatalogBudget(testutil.SampleCheapestTotal-1, cat))
	assert.False(t, reg.Satisfied(cheapest))
	assert.Equal(t, testutil.SampleCheapestTotal-1, reg.Budget().Limit)

	reg.ClearBudget()
	assert.True(t, reg.Satisfied(cheapest))
	assert.Nil(t, reg.Budget())
}

func TestRegistry_WithBudget(t *testing.T) {
	cat, reg := standard(t, testutil.SampleBuilder())

	tight := reg.WithBudget(CatalogBudget(100, cat))
	assert.Nil(t, reg.Budget())
	assert.NotNil(t, tight.Budget())
	assert.Equal(t, len(reg.Binary()), len(tight.Binary()))
	assert.False(t, tight.Satisfied(testutil.SampleCheapest))
	assert.True(t, reg.Satisfied(testutil.SampleCheapest))
}

func TestRegistry_SatisfiedRejectsIncompatible(t *testing.T) {
	_, reg := standard(t, testutil.SampleBuilder())
	bad := testutil.SampleCheapest.With(catalog.PSU, "psu-1")
	assert.False(t, reg.Satisfied(bad))
}

func TestBudget_Cost(t *testing.T) {
	cat := testutil.SampleCatalog()
	b := CatalogBudget(catalog.MoneyFromFloat(1000), cat)

	partial := catalog.Assignment{}.With(catalog.CPU, "cpu-1").With(catalog.Case, "case-1")
	assert.Equal(t, catalog.MoneyFromFloat(298), b.Cost(partial))
	assert.Equal(t, testutil.SampleCheapestTotal, b.CostFunc()(testutil.SampleCheapest))
	assert.Equal(t, catalog.MoneyFromFloat(229), b.Price(catalog.CPU, "cpu-1"))
	assert.True(t, b.Allows(testutil.SampleCheapest))
}

func TestRequiredPower(t *testing.T) {
	assert.Equal(t, 360.0, RequiredPower(300, DefaultSafetyMargin))
	assert.Equal(t, 540.0, RequiredPower(450, DefaultSafetyMargin))
}
