// Package domain holds the mutable candidate sets the propagator and solver
// operate on.
//
// A Domain is the ordered set of identifiers still possible for one
// category. A Store owns one Domain per category. Domains only ever shrink:
// every mutation is a Retain or a Fix, and both keep a subset of what was
// there before. Iteration order is always catalog order.
package domain

import (
	"slices"
)

// Domain is an ordered set of identifiers.
type Domain struct {
	ids []string
	set map[string]struct{}
}

// NewDomain creates a domain holding ids in the given order. Duplicates
// keep their first position.
func NewDomain(ids []string) *Domain {
	d := &Domain{
		ids: make([]string, 0, len(ids)),
		set: make(map[string]struct{}, len(ids)),
	}
	for _, id := range ids {
		if _, dup := d.set[id]; dup {
			continue
		}
		d.set[id] = struct{}{}
		d.ids = append(d.ids, id)
	}
	return d
}

// Len returns the number of identifiers.
func (d *Domain) Len() int { return len(d.ids) }

// IsEmpty reports whether no identifier remains.
func (d *Domain) IsEmpty() bool { return len(d.ids) == 0 }

// Has reports whether id is in the domain.
func (d *Domain) Has(id string) bool {
	_, ok := d.set[id]
	return ok
}

// IDs returns a copy of the identifiers in order.
func (d *Domain) IDs() []string {
	return slices.Clone(d.ids)
}

// Singleton returns the only identifier, if the domain has exactly one.
func (d *Domain) Singleton() (string, bool) {
	if len(d.ids) != 1 {
		return "", false
	}
	return d.ids[0], true
}

// Retain keeps the identifiers for which keep returns true and returns how
// many were removed. keep sees a snapshot of the domain taken before any
// removal, so it may safely inspect d.
func (d *Domain) Retain(keep func(id string) bool) int {
	snapshot := slices.Clone(d.ids)
	kept := make([]string, 0, len(snapshot))
	var dropped []string
	for _, id := range snapshot {
		if keep(id) {
			kept = append(kept, id)
		} else {
			dropped = append(dropped, id)
		}
	}
	for _, id := range dropped {
		delete(d.set, id)
	}
	d.ids = kept
	return len(dropped)
}

// Clone returns an independent copy.
func (d *Domain) Clone() *Domain {
	return NewDomain(d.ids)
}

// Equal reports whether both domains hold the same identifiers in the same
// order.
func (d *Domain) Equal(o *Domain) bool {
	return slices.Equal(d.ids, o.ids)
}

// SubsetOf reports whether every identifier of d is in o.
func (d *Domain) SubsetOf(o *Domain) bool {
	for _, id := range d.ids {
		if !o.Has(id) {
			return false
		}
	}
	return true
}
