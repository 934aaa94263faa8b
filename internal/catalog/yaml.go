package catalog

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLProvider reads all categories from a single YAML document:
//
//	cpu:
//	  - id: c1
//	    name: Ryzen 5 7600
//	    price: 229.00
//	    socket: AM5
//	case:
//	  - id: k1
//	    price: 69
//	    supported_motherboard_sizes: [Micro-ATX, Mini-ITX]
//	    supported_psu_sizes: [SFX, ATX]
//
// The document is parsed on the first Load and reused afterwards.
type YAMLProvider struct {
	Path string

	doc map[Category][]map[string]any
}

// NewYAMLProvider creates a provider reading path.
func NewYAMLProvider(path string) *YAMLProvider {
	return &YAMLProvider{Path: path}
}

// Load returns the records for cat.
func (p *YAMLProvider) Load(ctx context.Context, cat Category) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.doc == nil {
		data, err := os.ReadFile(p.Path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p.Path, err)
		}
		doc, err := ParseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.Path, err)
		}
		p.doc = doc
	}

	rows := p.doc[cat]
	recs := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec, err := recordFromFields(cat, row)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", cat.Key(), i, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// ParseYAML decodes a catalog document into raw rows per category.
func ParseYAML(data []byte) (map[Category][]map[string]any, error) {
	var raw map[string][]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	doc := make(map[Category][]map[string]any, len(raw))
	for key, rows := range raw {
		cat, err := ParseCategory(key)
		if err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		for _, row := range rows {
			normalizeKeys(row)
		}
		doc[cat] = append(doc[cat], rows...)
	}
	return doc, nil
}

func normalizeKeys(row map[string]any) {
	for k, v := range row {
		lower := strings.ToLower(k)
		if lower != k {
			delete(row, k)
			row[lower] = v
		}
	}
}
