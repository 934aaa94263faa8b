package domain

import (
	"fmt"
	"strings"

	"github.com/roach88/pcconf/internal/catalog"
)

// Store owns one Domain per category. A Store belongs to a single session
// or solver run and is not safe for concurrent mutation.
type Store struct {
	domains [catalog.NumCategories]*Domain
}

// New creates a store whose domains are the full catalog id sets.
func New(cat *catalog.Catalog) *Store {
	s := &Store{}
	for _, c := range catalog.Categories {
		s.domains[c] = NewDomain(cat.IDs(c))
	}
	return s
}

// FromIDs creates a store from explicit id lists. Missing categories get an
// empty domain.
func FromIDs(ids map[catalog.Category][]string) *Store {
	s := &Store{}
	for _, c := range catalog.Categories {
		s.domains[c] = NewDomain(ids[c])
	}
	return s
}

// Get returns the domain of cat. The domain is owned by the store.
func (s *Store) Get(cat catalog.Category) *Domain {
	if !cat.Valid() {
		return NewDomain(nil)
	}
	return s.domains[cat]
}

// Clone returns a deep copy.
func (s *Store) Clone() *Store {
	cp := &Store{}
	for _, c := range catalog.Categories {
		cp.domains[c] = s.domains[c].Clone()
	}
	return cp
}

// Equal reports whether every domain matches o's.
func (s *Store) Equal(o *Store) bool {
	for _, c := range catalog.Categories {
		if !s.domains[c].Equal(o.domains[c]) {
			return false
		}
	}
	return true
}

// SubsetOf reports whether every domain of s is a subset of o's.
func (s *Store) SubsetOf(o *Store) bool {
	for _, c := range catalog.Categories {
		if !s.domains[c].SubsetOf(o.domains[c]) {
			return false
		}
	}
	return true
}

// IsConsistent reports whether no domain is empty.
func (s *Store) IsConsistent() bool {
	return len(s.EmptyCategories()) == 0
}

// EmptyCategories returns the categories with an empty domain, in order.
func (s *Store) EmptyCategories() []catalog.Category {
	var out []catalog.Category
	for _, c := range catalog.Categories {
		if s.domains[c].IsEmpty() {
			out = append(out, c)
		}
	}
	return out
}

// Fix collapses the domain of cat to the singleton {id}.
//
// Returns an INVALID_SELECTION error, leaving the store untouched, when id
// is not currently in the domain.
func (s *Store) Fix(cat catalog.Category, id string) error {
	if !cat.Valid() || !s.domains[cat].Has(id) {
		return NewInvalidSelection(cat, id)
	}
	s.domains[cat].Retain(func(v string) bool { return v == id })
	return nil
}

// Assignment returns the assignment of all singleton domains. Categories
// with zero or several candidates are left empty.
func (s *Store) Assignment() catalog.Assignment {
	var a catalog.Assignment
	for _, c := range catalog.Categories {
		if id, ok := s.domains[c].Singleton(); ok {
			a[c] = id
		}
	}
	return a
}

// Size returns the number of candidates per category.
func (s *Store) Size() [catalog.NumCategories]int {
	var n [catalog.NumCategories]int
	for _, c := range catalog.Categories {
		n[c] = s.domains[c].Len()
	}
	return n
}

// String renders "CPU[a b] Motherboard[c] ...".
func (s *Store) String() string {
	var b strings.Builder
	for i, c := range catalog.Categories {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s[%s]", c, strings.Join(s.domains[c].ids, " "))
	}
	return b.String()
}
