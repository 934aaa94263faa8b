package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/pcconf/internal/catalog"
	"github.com/roach88/pcconf/internal/fingerprint"
	"github.com/roach88/pcconf/internal/store"
)

// PartView is one chosen part as shown to the user.
type PartView struct {
	Category string `json:"category"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`

	// Attrs holds the attributes the compatibility rules read. Saved
	// configurations do not store them.
	Attrs map[string]string `json:"attrs,omitempty"`
}

// ConfigurationView is a complete configuration as shown to the user.
type ConfigurationView struct {
	ID        string     `json:"id"`
	SessionID string     `json:"session_id,omitempty"`
	Strategy  string     `json:"strategy,omitempty"`
	Budget    string     `json:"budget,omitempty"`
	Total     string     `json:"total"`
	Parts     []PartView `json:"parts"`
}

// newConfigurationView resolves a complete assignment against cat.
func newConfigurationView(cat *catalog.Catalog, a catalog.Assignment) ConfigurationView {
	v := ConfigurationView{Parts: make([]PartView, 0, catalog.NumCategories)}
	for _, c := range catalog.Categories {
		r, _ := cat.Lookup(c, a[c])
		v.Parts = append(v.Parts, PartView{Category: c.String(), ID: r.ID, Name: r.Name, Price: r.Price.String(), Attrs: partAttrs(r)})
	}
	total := cat.Cost(a)
	v.Total = total.String()
	v.ID = fingerprint.MustConfigurationID(a, total)
	return v
}

// storedView converts a saved configuration.
func storedView(cfg store.Configuration) ConfigurationView {
	v := ConfigurationView{
		ID:        cfg.ID,
		SessionID: cfg.SessionID,
		Strategy:  cfg.Strategy,
		Total:     cfg.Total.String(),
		Parts:     make([]PartView, 0, len(cfg.Parts)),
	}
	if cfg.Budget != nil {
		v.Budget = cfg.Budget.String()
	}
	for _, p := range cfg.Parts {
		v.Parts = append(v.Parts, PartView{Category: p.Category.String(), ID: p.ID, Name: p.Name, Price: p.Price.String()})
	}
	return v
}

// shortID abbreviates a configuration fingerprint for text output.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// renderConfiguration draws a configuration as an aligned table.
func renderConfiguration(w io.Writer, v ConfigurationView) {
	idW, nameW := 2, 4
	for _, p := range v.Parts {
		idW = max(idW, len(p.ID))
		nameW = max(nameW, len(p.Name))
	}
	for _, p := range v.Parts {
		line := fmt.Sprintf("  %-11s  %-*s  %-*s  %10s", p.Category, idW, p.ID, nameW, p.Name, p.Price)
		if attrs := attrSummary(p.Category, p.Attrs); attrs != "" {
			line += "  " + dimStyle.Render(attrs)
		}
		fmt.Fprintln(w, line)
	}
	rule := strings.Repeat("-", 11+idW+nameW+10+6)
	fmt.Fprintf(w, "  %s\n", dimStyle.Render(rule))
	fmt.Fprintf(w, "  %-*s  %10s\n", 11+idW+nameW+4, "Total", priceStyle.Render(v.Total))
}
