package catalog

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Well-known attribute names read by the compatibility constraints.
const (
	AttrSocket                    = "socket"
	AttrRAMType                   = "ram_type"
	AttrSize                      = "size"
	AttrPowerDraw                 = "power_draw"
	AttrWattage                   = "wattage"
	AttrSupportedMotherboardSizes = "supported_motherboard_sizes"
	AttrSupportedPSUSizes         = "supported_psu_sizes"
)

// Kind is the type of an attribute value.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindLabels
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindLabels:
		return "labels"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// attributeKinds maps known attribute names to the kind providers must
// produce. Unknown attributes are kept as text.
var attributeKinds = map[string]Kind{
	AttrSocket:                    KindText,
	AttrRAMType:                   KindText,
	AttrSize:                      KindText,
	AttrPowerDraw:                 KindNumber,
	AttrWattage:                   KindNumber,
	AttrSupportedMotherboardSizes: KindLabels,
	AttrSupportedPSUSizes:         KindLabels,
}

// KindOf returns the expected kind for an attribute name.
func KindOf(name string) Kind {
	if k, ok := attributeKinds[name]; ok {
		return k
	}
	return KindText
}

// Value is an immutable attribute value.
type Value struct {
	kind   Kind
	text   string
	num    int64
	labels []string
}

// Text creates a text value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number creates a numeric value.
func Number(n int64) Value { return Value{kind: KindNumber, num: n} }

// Labels creates a label-set value. Duplicates are dropped, order is kept.
func Labels(labels ...string) Value {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if l == "" || slices.Contains(out, l) {
			continue
		}
		out = append(out, l)
	}
	return Value{kind: KindLabels, labels: out}
}

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// Contains reports whether a label-set value holds label.
func (v Value) Contains(label string) bool {
	return v.kind == KindLabels && slices.Contains(v.labels, label)
}

// LabelList returns a copy of the labels of a label-set value.
func (v Value) LabelList() []string {
	return slices.Clone(v.labels)
}

// String renders the value for display and CSV export.
// Label sets are joined with "|".
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatInt(v.num, 10)
	case KindLabels:
		return strings.Join(v.labels, "|")
	default:
		return v.text
	}
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.text == o.text && v.num == o.num && slices.Equal(v.labels, o.labels)
}

// ParseValue converts a raw string into a value of the kind expected for
// name. It is what the CSV provider uses for every attribute cell.
func ParseValue(name, raw string) (Value, error) {
	switch KindOf(name) {
	case KindNumber:
		n, err := ParseNumber(raw)
		if err != nil {
			return Value{}, err
		}
		return Number(n), nil
	case KindLabels:
		return Labels(ParseLabels(raw)...), nil
	default:
		return Text(strings.TrimSpace(raw)), nil
	}
}

// ParseNumber parses an integer with an optional unit suffix ("300W", "650 W").
func ParseNumber(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(strings.TrimSuffix(s, "W"), "w")
	s = strings.TrimSpace(s)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Accept "300.0" style exports.
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int64(f)) {
			return 0, fmt.Errorf("parse number %q: %w", raw, err)
		}
		n = int64(f)
	}
	return n, nil
}

// ParseLabels splits an encoded label set. Accepted forms:
//
//	['ATX', 'Micro-ATX']
//	["ATX", "Micro-ATX"]
//	ATX|Micro-ATX
//	ATX, Micro-ATX
func ParseLabels(raw string) []string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")

	sep := ","
	if strings.Contains(s, "|") {
		sep = "|"
	}

	var out []string
	for _, part := range strings.Split(s, sep) {
		label := strings.Trim(strings.TrimSpace(part), `'"`)
		if label != "" {
			out = append(out, label)
		}
	}
	return out
}
