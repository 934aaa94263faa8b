// Package export writes finished configurations to CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/roach88/pcconf/internal/catalog"
)

// Missing fills cells for attributes a part does not have.
const Missing = "N/A"

// Columns returns the header for cat: Component, id, name, then price and
// every attribute name in the catalog, sorted.
func Columns(cat *catalog.Catalog) []string {
	rest := append(cat.AttributeNames(), "price")
	slices.Sort(rest)
	return append([]string{"Component", "id", "name"}, slices.Compact(rest)...)
}

// WriteCSV writes one row per category of a, in category order. Every
// category of a must be set to an id present in cat.
func WriteCSV(w io.Writer, cat *catalog.Catalog, a catalog.Assignment) error {
	cols := Columns(cat)
	rows := make([][]string, 0, catalog.NumCategories)
	for _, c := range catalog.Categories {
		r, ok := cat.Lookup(c, a[c])
		if !ok {
			return fmt.Errorf("export csv: no %s record %q", c, a[c])
		}
		rows = append(rows, row(cols, r))
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	return nil
}

func row(cols []string, r catalog.Record) []string {
	out := make([]string, len(cols))
	for i, col := range cols {
		switch col {
		case "Component":
			out[i] = r.Category.String()
		case "id":
			out[i] = r.ID
		case "name":
			out[i] = r.Name
		case "price":
			out[i] = r.Price.String()
		default:
			if v, ok := r.Attr(col); ok {
				out[i] = v.String()
			} else {
				out[i] = Missing
			}
		}
	}
	return out
}

// WriteFile writes the CSV to path, replacing any existing file.
func WriteFile(path string, cat *catalog.Catalog, a catalog.Assignment) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("export csv: %w", cerr)
		}
	}()
	return WriteCSV(f, cat, a)
}
