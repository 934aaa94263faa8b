// Package constraint declares the compatibility rules between hardware
// categories.
//
// A Constraint is a pure predicate over the identifiers of two named
// categories. Predicates close over attribute tables extracted from the
// catalog once, when the constraint is built; they never touch records at
// evaluation time and treat unknown identifiers as "no match".
//
// The Registry holds the binary constraints in a fixed traversal order plus
// an optional Budget, an n-ary constraint over all six categories that can
// be replaced without rebuilding the others.
package constraint

import (
	"fmt"

	"github.com/roach88/pcconf/internal/catalog"
)

// Predicate reports whether x (from the constraint's X category) and y
// (from its Y category) are compatible.
type Predicate func(x, y string) bool

// Constraint is a named binary compatibility rule between categories X and Y.
type Constraint struct {
	Name string
	X, Y catalog.Category

	pred Predicate
}

// New creates a constraint. Arguments to pred are always passed in (X, Y)
// order.
func New(name string, x, y catalog.Category, pred Predicate) *Constraint {
	return &Constraint{Name: name, X: x, Y: y, pred: pred}
}

// Holds evaluates the predicate with x from X and y from Y.
func (c *Constraint) Holds(x, y string) bool {
	return c.pred(x, y)
}

// HoldsFrom evaluates the predicate from the point of view of cat:
// v belongs to cat and w to the other category.
func (c *Constraint) HoldsFrom(cat catalog.Category, v, w string) bool {
	if cat == c.X {
		return c.pred(v, w)
	}
	return c.pred(w, v)
}

// Involves reports whether cat is one of the constraint's categories.
func (c *Constraint) Involves(cat catalog.Category) bool {
	return c.X == cat || c.Y == cat
}

// Other returns the category on the other side of cat.
func (c *Constraint) Other(cat catalog.Category) catalog.Category {
	if cat == c.X {
		return c.Y
	}
	return c.X
}

// String renders "name(X, Y)".
func (c *Constraint) String() string {
	return fmt.Sprintf("%s(%s, %s)", c.Name, c.X, c.Y)
}
