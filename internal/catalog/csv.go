package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CSVProvider reads one CSV file per category from Dir (cpus.csv,
// motherboards.csv, ram.csv, gpus.csv, psus.csv, cases.csv).
//
// Every file needs a header row with at least "id" and "price"; "name" is
// optional. All other columns become attributes, typed by name (see KindOf).
// Empty cells are treated as absent attributes.
type CSVProvider struct {
	Dir string
}

// Load reads the file for cat.
func (p CSVProvider) Load(ctx context.Context, cat Category) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(p.Dir, cat.FileName())
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	recs, err := ReadCSV(f, cat)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// ReadCSV parses records of one category from r.
func ReadCSV(r io.Reader, cat Category) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	col := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		return -1
	}
	idCol, nameCol, priceCol := col("id"), col("name"), col("price")
	if idCol < 0 || priceCol < 0 {
		return nil, fmt.Errorf("header must contain id and price columns, got %v", header)
	}

	var recs []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		price, err := ParseMoney(row[priceCol])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec := Record{
			Category: cat,
			ID:       strings.TrimSpace(row[idCol]),
			Price:    price,
			Attrs:    make(map[string]Value),
		}
		if nameCol >= 0 {
			rec.Name = strings.TrimSpace(row[nameCol])
		}

		for i, h := range header {
			if i == idCol || i == nameCol || i == priceCol || h == "" {
				continue
			}
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue
			}
			v, err := ParseValue(h, cell)
			if err != nil {
				return nil, fmt.Errorf("line %d: column %s: %w", line, h, err)
			}
			rec.Attrs[h] = v
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
