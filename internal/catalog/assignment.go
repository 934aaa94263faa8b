package catalog

import "strings"

// Assignment maps every category to one identifier. It is a value type:
// comparable, usable as a map key, and immutable once produced.
// The zero value has no category assigned.
type Assignment [NumCategories]string

// Get returns the identifier assigned to cat.
func (a Assignment) Get(cat Category) string {
	if !cat.Valid() {
		return ""
	}
	return a[cat]
}

// With returns a copy of a with cat set to id.
func (a Assignment) With(cat Category, id string) Assignment {
	a[cat] = id
	return a
}

// Complete reports whether every category has an identifier.
func (a Assignment) Complete() bool {
	for _, id := range a {
		if id == "" {
			return false
		}
	}
	return true
}

// String renders "CPU=c1 Motherboard=m1 ...".
func (a Assignment) String() string {
	var b strings.Builder
	for i, cat := range Categories {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(cat.String())
		b.WriteByte('=')
		b.WriteString(a[cat])
	}
	return b.String()
}

// Map returns the assignment keyed by category display name.
func (a Assignment) Map() map[string]string {
	m := make(map[string]string, NumCategories)
	for _, cat := range Categories {
		m[cat.String()] = a[cat]
	}
	return m
}
