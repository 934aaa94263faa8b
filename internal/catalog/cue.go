package catalog

import (
	"context"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

// CUEProvider reads a directory of .cue files that together define a
// `catalog` struct keyed by category:
//
//	catalog: cpu: [
//		{id: "c1", name: "Ryzen 5 7600", price: 229.00, socket: "AM5"},
//	]
//
// CUE definitions and unification may be used freely (for instance a #Case
// schema), as long as every record is concrete once evaluated.
type CUEProvider struct {
	Dir string

	value *cue.Value
}

// NewCUEProvider creates a provider reading dir.
func NewCUEProvider(dir string) *CUEProvider {
	return &CUEProvider{Dir: dir}
}

// Load returns the records for cat.
func (p *CUEProvider) Load(ctx context.Context, cat Category) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.value == nil {
		v, err := buildCUE(p.Dir)
		if err != nil {
			return nil, err
		}
		p.value = &v
	}

	list := p.value.LookupPath(cue.ParsePath("catalog." + cat.Key()))
	if !list.Exists() {
		return nil, nil
	}
	return recordsFromCUE(cat, list)
}

// ParseCUE compiles catalog source held in memory. Used for tests and for
// catalogs embedded in scenarios.
func ParseCUE(src string) (map[Category][]Record, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile cue: %w", err)
	}

	out := make(map[Category][]Record, NumCategories)
	for _, cat := range Categories {
		list := v.LookupPath(cue.ParsePath("catalog." + cat.Key()))
		if !list.Exists() {
			continue
		}
		recs, err := recordsFromCUE(cat, list)
		if err != nil {
			return nil, err
		}
		out[cat] = recs
	}
	return out, nil
}

func buildCUE(dir string) (cue.Value, error) {
	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return cue.Value{}, fmt.Errorf("load cue %s: no instances", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return cue.Value{}, fmt.Errorf("load cue %s: %w", dir, inst.Err)
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("build cue %s: %w", dir, err)
	}
	return value, nil
}

func recordsFromCUE(cat Category, list cue.Value) ([]Record, error) {
	iter, err := list.List()
	if err != nil {
		return nil, fmt.Errorf("catalog.%s: %w", cat.Key(), err)
	}

	var recs []Record
	for i := 0; iter.Next(); i++ {
		fields, err := cueFields(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("catalog.%s[%d]: %w", cat.Key(), i, err)
		}
		rec, err := recordFromFields(cat, fields)
		if err != nil {
			return nil, fmt.Errorf("catalog.%s[%d]: %w", cat.Key(), i, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func cueFields(v cue.Value) (map[string]any, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, err
	}
	fields := make(map[string]any)
	for iter.Next() {
		val, err := cueScalar(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", iter.Label(), err)
		}
		fields[iter.Label()] = val
	}
	return fields, nil
}

func cueScalar(v cue.Value) (any, error) {
	if !v.IsConcrete() {
		return nil, fmt.Errorf("value is not concrete (%s)", v.IncompleteKind())
	}
	switch v.Kind() {
	case cue.IntKind:
		return v.Int64()
	case cue.FloatKind:
		return v.Float64()
	case cue.StringKind:
		return v.String()
	case cue.BoolKind:
		return v.Bool()
	case cue.NullKind:
		return nil, nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, err
		}
		var items []any
		for iter.Next() {
			item, err := cueScalar(iter.Value())
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	default:
		return nil, fmt.Errorf("unsupported kind %s", v.Kind())
	}
}
