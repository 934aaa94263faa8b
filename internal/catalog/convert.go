package catalog

import (
	"fmt"
	"math"
	"strings"
)

// Reserved keys of a structured record document (YAML and CUE).
const (
	keyID    = "id"
	keyName  = "name"
	keyPrice = "price"
)

// recordFromFields builds a record from a decoded key/value document.
// Values may be string, int, int64, float64, bool or []any of scalars.
func recordFromFields(cat Category, fields map[string]any) (Record, error) {
	rec := Record{Category: cat, Attrs: make(map[string]Value)}

	id, ok := fields[keyID]
	if !ok {
		return Record{}, &ValidationError{Category: cat, Field: "ID", Message: "is required"}
	}
	rec.ID = scalarString(id)

	if name, ok := fields[keyName]; ok {
		rec.Name = scalarString(name)
	}

	rawPrice, ok := fields[keyPrice]
	if !ok {
		return Record{}, &ValidationError{Category: cat, ID: rec.ID, Field: "Price", Message: "is required"}
	}
	price, err := moneyFromAny(rawPrice)
	if err != nil {
		return Record{}, fmt.Errorf("%s %q: %w", cat, rec.ID, err)
	}
	rec.Price = price

	for key, raw := range fields {
		if key == keyID || key == keyName || key == keyPrice || raw == nil {
			continue
		}
		v, err := valueFromAny(key, raw)
		if err != nil {
			return Record{}, fmt.Errorf("%s %q: attribute %s: %w", cat, rec.ID, key, err)
		}
		rec.Attrs[key] = v
	}
	return rec, nil
}

func valueFromAny(name string, raw any) (Value, error) {
	switch KindOf(name) {
	case KindNumber:
		switch n := raw.(type) {
		case int:
			return Number(int64(n)), nil
		case int64:
			return Number(n), nil
		case float64:
			if n != math.Trunc(n) {
				return Value{}, fmt.Errorf("expected an integer, got %v", n)
			}
			return Number(int64(n)), nil
		case string:
			v, err := ParseNumber(n)
			if err != nil {
				return Value{}, err
			}
			return Number(v), nil
		}
		return Value{}, fmt.Errorf("expected a number, got %T", raw)

	case KindLabels:
		switch l := raw.(type) {
		case []any:
			labels := make([]string, 0, len(l))
			for _, item := range l {
				labels = append(labels, strings.TrimSpace(scalarString(item)))
			}
			return Labels(labels...), nil
		case []string:
			return Labels(l...), nil
		case string:
			return Labels(ParseLabels(l)...), nil
		}
		return Value{}, fmt.Errorf("expected a list of labels, got %T", raw)

	default:
		if _, isList := raw.([]any); isList {
			return Value{}, fmt.Errorf("expected a scalar, got a list")
		}
		return Text(strings.TrimSpace(scalarString(raw))), nil
	}
}

func moneyFromAny(raw any) (Money, error) {
	switch p := raw.(type) {
	case int:
		return Money(int64(p) * 100), nil
	case int64:
		return Money(p * 100), nil
	case float64:
		return MoneyFromFloat(p), nil
	case string:
		return ParseMoney(p)
	}
	return 0, fmt.Errorf("price: unsupported type %T", raw)
}

func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		if s == math.Trunc(s) {
			return fmt.Sprintf("%d", int64(s))
		}
		return fmt.Sprintf("%g", s)
	default:
		return fmt.Sprint(v)
	}
}
