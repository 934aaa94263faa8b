package catalog

import (
	"maps"
	"slices"
)

// Record is one purchasable part. Records are immutable once loaded;
// accessors return copies.
type Record struct {
	Category Category `validate:"gte=0,lte=5"`
	ID       string   `validate:"required"`
	Name     string
	Price    Money `validate:"gte=0"`
	Attrs    map[string]Value
}

// NewRecord builds a record, copying attrs.
func NewRecord(cat Category, id, name string, price Money, attrs map[string]Value) Record {
	return Record{
		Category: cat,
		ID:       id,
		Name:     name,
		Price:    price,
		Attrs:    maps.Clone(attrs),
	}
}

// Attr returns the named attribute.
func (r Record) Attr(name string) (Value, bool) {
	v, ok := r.Attrs[name]
	return v, ok
}

// AttrNames returns the record's attribute names, sorted.
func (r Record) AttrNames() []string {
	return slices.Sorted(maps.Keys(r.Attrs))
}

// Text returns a text attribute or an AttributeError.
func (r Record) Text(name string) (string, error) {
	v, err := r.typed(name, KindText)
	if err != nil {
		return "", err
	}
	return v.text, nil
}

// Number returns a numeric attribute or an AttributeError.
func (r Record) Number(name string) (int64, error) {
	v, err := r.typed(name, KindNumber)
	if err != nil {
		return 0, err
	}
	return v.num, nil
}

// LabelSet returns a label-set attribute or an AttributeError.
func (r Record) LabelSet(name string) (Value, error) {
	return r.typed(name, KindLabels)
}

func (r Record) typed(name string, want Kind) (Value, error) {
	v, ok := r.Attrs[name]
	if !ok {
		return Value{}, &AttributeError{Category: r.Category, ID: r.ID, Attribute: name, Want: want, Reason: "missing"}
	}
	if v.kind != want {
		return Value{}, &AttributeError{Category: r.Category, ID: r.ID, Attribute: name, Want: want,
			Reason: "expected " + want.String() + ", got " + v.kind.String()}
	}
	if want == KindText && v.text == "" {
		return Value{}, &AttributeError{Category: r.Category, ID: r.ID, Attribute: name, Want: want, Reason: "empty"}
	}
	return v, nil
}
