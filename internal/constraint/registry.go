package constraint

import (
	"errors"
	"fmt"

	"github.com/roach88/pcconf/internal/catalog"
)

// Registry holds the active constraints.
//
// Binary constraints are kept in registration order; propagation and search
// traverse them in that order. The budget is held separately so it can be
// set, replaced or cleared between solver runs.
type Registry struct {
	binary     []*Constraint
	byCategory [catalog.NumCategories][]*Constraint
	names      map[string]struct{}
	budget     *Budget
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Register adds a binary constraint over c.X and c.Y.
func (r *Registry) Register(c *Constraint) error {
	if c == nil || c.pred == nil {
		return errors.New("register constraint: nil constraint or predicate")
	}
	if c.Name == "" {
		return errors.New("register constraint: empty name")
	}
	if !c.X.Valid() || !c.Y.Valid() {
		return fmt.Errorf("register constraint %s: unknown category", c.Name)
	}
	if c.X == c.Y {
		return fmt.Errorf("register constraint %s: both sides are %s", c.Name, c.X)
	}
	if _, dup := r.names[c.Name]; dup {
		return fmt.Errorf("register constraint %s: already registered", c.Name)
	}

	r.names[c.Name] = struct{}{}
	r.binary = append(r.binary, c)
	r.byCategory[c.X] = append(r.byCategory[c.X], c)
	r.byCategory[c.Y] = append(r.byCategory[c.Y], c)
	return nil
}

// Binary returns the binary constraints in traversal order.
// The returned slice must not be modified.
func (r *Registry) Binary() []*Constraint {
	return r.binary
}

// ConstraintsOver returns the binary constraints touching cat, in traversal order.
func (r *Registry) ConstraintsOver(cat catalog.Category) []*Constraint {
	if !cat.Valid() {
		return nil
	}
	return r.byCategory[cat]
}

// Lookup returns a constraint by name.
func (r *Registry) Lookup(name string) (*Constraint, bool) {
	for _, c := range r.binary {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Between returns the constraints linking a and b.
func (r *Registry) Between(a, b catalog.Category) []*Constraint {
	var out []*Constraint
	for _, c := range r.ConstraintsOver(a) {
		if c.Other(a) == b {
			out = append(out, c)
		}
	}
	return out
}

// Compatible reports whether v in a and w in b satisfy every constraint
// linking the two categories.
func (r *Registry) Compatible(a catalog.Category, v string, b catalog.Category, w string) bool {
	for _, c := range r.ConstraintsOver(a) {
		if c.Other(a) == b && !c.HoldsFrom(a, v, w) {
			return false
		}
	}
	return true
}

// SetBudget activates (or replaces) the budget constraint.
func (r *Registry) SetBudget(b *Budget) {
	r.budget = b
}

// ClearBudget deactivates the budget constraint.
func (r *Registry) ClearBudget() {
	r.budget = nil
}

// Budget returns the active budget, or nil.
func (r *Registry) Budget() *Budget {
	return r.budget
}

// WithBudget returns a shallow copy of r sharing its binary constraints but
// holding b as budget. Use it to solve under a different budget without
// touching a registry other callers hold.
func (r *Registry) WithBudget(b *Budget) *Registry {
	cp := *r
	cp.budget = b
	return &cp
}

// Satisfied reports whether a complete assignment satisfies every active
// constraint, the budget included.
func (r *Registry) Satisfied(a catalog.Assignment) bool {
	for _, c := range r.binary {
		if !c.Holds(a[c.X], a[c.Y]) {
			return false
		}
	}
	if r.budget != nil && !r.budget.Allows(a) {
		return false
	}
	return true
}
