package catalog

import (
	"context"
	"fmt"
	"slices"
)

// Provider supplies the records of one category. Load is called once per
// category when a catalog is built. Providers must return records in a
// stable order; that order becomes the catalog order.
type Provider interface {
	Load(ctx context.Context, cat Category) ([]Record, error)
}

// Catalog is the read-only, indexed set of records for all six categories.
// It is safe for concurrent reads.
type Catalog struct {
	records [NumCategories][]Record
	index   [NumCategories]map[string]int
}

// Load builds a catalog by asking p for every category in order.
func Load(ctx context.Context, p Provider) (*Catalog, error) {
	parts := make(map[Category][]Record, NumCategories)
	for _, cat := range Categories {
		recs, err := p.Load(ctx, cat)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", cat, err)
		}
		parts[cat] = recs
	}
	return New(parts)
}

// New builds a catalog from records grouped by category. Each record's
// Category field is set from its group. Missing categories are empty.
func New(parts map[Category][]Record) (*Catalog, error) {
	c := &Catalog{}
	for _, cat := range Categories {
		recs := parts[cat]
		c.records[cat] = make([]Record, 0, len(recs))
		c.index[cat] = make(map[string]int, len(recs))

		for _, r := range recs {
			r.Category = cat
			if err := validateRecord(r); err != nil {
				return nil, err
			}
			if _, dup := c.index[cat][r.ID]; dup {
				return nil, &ValidationError{Category: cat, ID: r.ID, Field: "ID", Message: "duplicate id"}
			}
			c.index[cat][r.ID] = len(c.records[cat])
			c.records[cat] = append(c.records[cat], NewRecord(cat, r.ID, r.Name, r.Price, r.Attrs))
		}
	}
	return c, nil
}

// Records returns the records of a category in catalog order.
// The returned slice must not be modified.
func (c *Catalog) Records(cat Category) []Record {
	if !cat.Valid() {
		return nil
	}
	return c.records[cat]
}

// IDs returns the identifiers of a category in catalog order.
func (c *Catalog) IDs(cat Category) []string {
	recs := c.Records(cat)
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.ID
	}
	return ids
}

// Len returns the number of records in a category.
func (c *Catalog) Len(cat Category) int {
	return len(c.Records(cat))
}

// Lookup returns the record with the given id.
func (c *Catalog) Lookup(cat Category, id string) (Record, bool) {
	if !cat.Valid() {
		return Record{}, false
	}
	i, ok := c.index[cat][id]
	if !ok {
		return Record{}, false
	}
	return c.records[cat][i], true
}

// Position returns the catalog-order index of id, or -1.
func (c *Catalog) Position(cat Category, id string) int {
	if !cat.Valid() {
		return -1
	}
	if i, ok := c.index[cat][id]; ok {
		return i
	}
	return -1
}

// Price returns the price of a part. Unknown ids cost nothing.
func (c *Catalog) Price(cat Category, id string) Money {
	r, ok := c.Lookup(cat, id)
	if !ok {
		return 0
	}
	return r.Price
}

// Cost is the standard cost function: the sum of the six part prices.
func (c *Catalog) Cost(a Assignment) Money {
	var total Money
	for _, cat := range Categories {
		total += c.Price(cat, a[cat])
	}
	return total
}

// AttributeNames returns every attribute name used in the catalog, sorted.
func (c *Catalog) AttributeNames() []string {
	seen := make(map[string]struct{})
	for _, cat := range Categories {
		for _, r := range c.records[cat] {
			for name := range r.Attrs {
				seen[name] = struct{}{}
			}
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
