package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pcconf/internal/catalog"
	"github.com/roach88/pcconf/internal/testutil"
)

func TestDomain_Basics(t *testing.T) {
	d := NewDomain([]string{"b", "a", "b", "c"})

	assert.Equal(t, 3, d.Len())
	assert.Equal(t, []string{"b", "a", "c"}, d.IDs())
	assert.True(t, d.Has("a"))
	assert.False(t, d.Has("z"))
	assert.False(t, d.IsEmpty())

	_, ok := d.Singleton()
	assert.False(t, ok)
}

func TestDomain_IDsIsCopy(t *testing.T) {
	d := NewDomain([]string{"a", "b"})
	ids := d.IDs()
	ids[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, d.IDs())
}

func TestDomain_Retain(t *testing.T) {
	d := NewDomain([]string{"a", "b", "c", "d"})

	removed := d.Retain(func(id string) bool { return id != "b" && id != "d" })
	assert.Equal(t, 2, removed)
	assert.Equal(t, []string{"a", "c"}, d.IDs())
	assert.False(t, d.Has("b"))

	assert.Zero(t, d.Retain(func(string) bool { return true }))

	assert.Equal(t, 2, d.Retain(func(string) bool { return false }))
	assert.True(t, d.IsEmpty())
}

func TestDomain_RetainSeesSnapshot(t *testing.T) {
	d := NewDomain([]string{"a", "b", "c"})

	// keep inspects the domain while it is being pruned; every call must
	// observe the pre-prune contents.
	var seen []int
	d.Retain(func(id string) bool {
		seen = append(seen, d.Len())
		return id == "c"
	})
	assert.Equal(t, []int{3, 3, 3}, seen)
	assert.Equal(t, []string{"c"}, d.IDs())
}

func TestDomain_CloneIndependent(t *testing.T) {
	d := NewDomain([]string{"a", "b"})
	cp := d.Clone()
	cp.Retain(func(id string) bool { return id == "a" })

	assert.Equal(t, 2, d.Len())
	assert.True(t, cp.SubsetOf(d))
	assert.False(t, d.SubsetOf(cp))
	assert.False(t, d.Equal(cp))
	assert.True(t, d.Equal(d.Clone()))
}

func TestStore_New(t *testing.T) {
	cat := testutil.SampleCatalog()
	s := New(cat)

	for _, c := range catalog.Categories {
		assert.Equal(t, cat.IDs(c), s.Get(c).IDs(), c.String())
	}
	assert.True(t, s.IsConsistent())
	assert.Empty(t, s.EmptyCategories())
	assert.Equal(t, [catalog.NumCategories]int{3, 4, 2, 3, 3, 3}, s.Size())
}

func TestStore_Fix(t *testing.T) {
	s := New(testutil.SampleCatalog())

	require.NoError(t, s.Fix(catalog.CPU, "cpu-2"))
	id, ok := s.Get(catalog.CPU).Singleton()
	require.True(t, ok)
	assert.Equal(t, "cpu-2", id)
	assert.Equal(t, "cpu-2", s.Assignment()[catalog.CPU])
	assert.Empty(t, s.Assignment()[catalog.RAM])
}

func TestStore_FixInvalidSelectionDoesNotMutate(t *testing.T) {
	s := New(testutil.SampleCatalog())
	before := s.Clone()

	err := s.Fix(catalog.GPU, "gpu-99")
	require.Error(t, err)
	assert.True(t, IsInvalidSelection(err))
	assert.False(t, IsUnsatisfiable(err))
	assert.True(t, s.Equal(before))

	var de *Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, catalog.GPU, de.Category)
	assert.Equal(t, "gpu-99", de.ID)

	// A previously fixed category only accepts its singleton.
	require.NoError(t, s.Fix(catalog.GPU, "gpu-1"))
	assert.True(t, IsInvalidSelection(s.Fix(catalog.GPU, "gpu-2")))
	assert.NoError(t, s.Fix(catalog.GPU, "gpu-1"))

	assert.True(t, IsInvalidSelection(s.Fix(catalog.Category(7), "x")))
}

func TestStore_EmptyCategories(t *testing.T) {
	s := FromIDs(map[catalog.Category][]string{
		catalog.CPU: {"c"},
		catalog.RAM: {"r"},
	})
	assert.False(t, s.IsConsistent())
	assert.Equal(t, []catalog.Category{catalog.Motherboard, catalog.GPU, catalog.PSU, catalog.Case}, s.EmptyCategories())
}

func TestStore_CloneAndSubset(t *testing.T) {
	s := New(testutil.SampleCatalog())
	cp := s.Clone()
	require.True(t, cp.Equal(s))

	require.NoError(t, cp.Fix(catalog.Case, "case-1"))
	assert.False(t, cp.Equal(s))
	assert.True(t, cp.SubsetOf(s))
	assert.False(t, s.SubsetOf(cp))
	assert.Equal(t, 3, s.Get(catalog.Case).Len())
}

func TestStore_String(t *testing.T) {
	s := FromIDs(map[catalog.Category][]string{catalog.CPU: {"a", "b"}})
	assert.Equal(t, "CPU[a b] Motherboard[] RAM[] GPU[] PSU[] Case[]", s.String())
}

func TestError_Message(t *testing.T) {
	err := NewUnsatisfiable(catalog.Motherboard, "cpu-3")
	assert.Equal(t, "UNSATISFIABLE: no compatible Motherboard remains (category=Motherboard, id=cpu-3)", err.Error())
	assert.True(t, IsUnsatisfiable(fmt.Errorf("choose: %w", err)))
	assert.False(t, IsUnsatisfiable(nil))
}
