package store

import (
	"fmt"

	"github.com/roach88/pcconf/internal/catalog"
	"github.com/roach88/pcconf/internal/fingerprint"
)

// Part is one chosen catalog record as stored.
type Part struct {
	Category catalog.Category
	ID       string
	Name     string
	Price    catalog.Money
}

// Configuration is a finished, priced configuration.
type Configuration struct {
	ID        string
	SessionID string
	Strategy  string
	Budget    *catalog.Money // nil when no budget applied
	Total     catalog.Money
	Parts     [catalog.NumCategories]Part
	Seq       int64 // assigned by SaveConfiguration
}

// NewConfiguration resolves a complete assignment against cat and computes
// its content-addressed id. SessionID, Strategy and Budget are left for the
// caller.
func NewConfiguration(cat *catalog.Catalog, a catalog.Assignment) (Configuration, error) {
	var cfg Configuration
	for _, c := range catalog.Categories {
		id := a[c]
		if id == "" {
			return Configuration{}, fmt.Errorf("new configuration: no %s chosen", c)
		}
		r, ok := cat.Lookup(c, id)
		if !ok {
			return Configuration{}, fmt.Errorf("new configuration: unknown %s %q", c, id)
		}
		cfg.Parts[c] = Part{Category: c, ID: r.ID, Name: r.Name, Price: r.Price}
		cfg.Total += r.Price
	}

	id, err := fingerprint.ConfigurationID(a, cfg.Total)
	if err != nil {
		return Configuration{}, fmt.Errorf("new configuration: %w", err)
	}
	cfg.ID = id
	return cfg, nil
}

// Assignment returns the part ids in category order.
func (c Configuration) Assignment() catalog.Assignment {
	var a catalog.Assignment
	for i, p := range c.Parts {
		a[i] = p.ID
	}
	return a
}
