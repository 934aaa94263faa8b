package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/pcconf/internal/catalog"
	"github.com/roach88/pcconf/internal/constraint"
)

// decidingAttrs lists, per category, the attributes the compatibility
// constraints read, in display order. RAM speed is informational.
var decidingAttrs = [catalog.NumCategories][]string{
	catalog.CPU:         {catalog.AttrSocket},
	catalog.Motherboard: {catalog.AttrSocket, catalog.AttrRAMType, catalog.AttrSize},
	catalog.RAM:         {catalog.AttrRAMType, "speed"},
	catalog.GPU:         {catalog.AttrPowerDraw},
	catalog.PSU:         {catalog.AttrWattage, catalog.AttrSize},
	catalog.Case:        {catalog.AttrSupportedMotherboardSizes, catalog.AttrSupportedPSUSizes},
}

// partAttrs returns the deciding attributes r carries, keyed by name.
func partAttrs(r catalog.Record) map[string]string {
	out := make(map[string]string, len(decidingAttrs[r.Category]))
	for _, name := range decidingAttrs[r.Category] {
		if v, ok := r.Attr(name); ok {
			out[name] = formatAttr(name, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func formatAttr(name string, v catalog.Value) string {
	switch name {
	case catalog.AttrPowerDraw, catalog.AttrWattage:
		return v.String() + "W"
	case catalog.AttrSupportedMotherboardSizes, catalog.AttrSupportedPSUSizes:
		return strings.Join(v.LabelList(), ", ")
	}
	return v.String()
}

// attrLabels are the short names used in text tables.
var attrLabels = map[string]string{
	catalog.AttrSocket:                    "socket",
	catalog.AttrRAMType:                   "ram",
	catalog.AttrSize:                      "size",
	"speed":                               "speed",
	catalog.AttrPowerDraw:                 "draw",
	catalog.AttrWattage:                   "wattage",
	catalog.AttrSupportedMotherboardSizes: "boards",
	catalog.AttrSupportedPSUSizes:         "psus",
}

// attrSummary renders attrs in the category's display order.
func attrSummary(category string, attrs map[string]string) string {
	c, err := catalog.ParseCategory(category)
	if err != nil || len(attrs) == 0 {
		return ""
	}
	var parts []string
	for _, name := range decidingAttrs[c] {
		if v, ok := attrs[name]; ok {
			parts = append(parts, attrLabels[name]+" "+v)
		}
	}
	return strings.Join(parts, "; ")
}

// compatibilityHints describes what the next part must satisfy given the
// parts already chosen in a. Categories the constraints do not restrict
// from earlier choices get no hint.
func compatibilityHints(cat *catalog.Catalog, a catalog.Assignment, next catalog.Category, margin float64) []string {
	text := func(c catalog.Category, attr string) (string, bool) {
		r, ok := cat.Lookup(c, a[c])
		if !ok {
			return "", false
		}
		s, err := r.Text(attr)
		return s, err == nil
	}

	var hints []string
	switch next {
	case catalog.Motherboard:
		if socket, ok := text(catalog.CPU, catalog.AttrSocket); ok {
			hints = append(hints, fmt.Sprintf("Motherboard socket must be %s", socket))
		}
	case catalog.RAM:
		if ramType, ok := text(catalog.Motherboard, catalog.AttrRAMType); ok {
			hints = append(hints, fmt.Sprintf("RAM must be type %s", ramType))
		}
	case catalog.PSU:
		if gpu, ok := cat.Lookup(catalog.GPU, a[catalog.GPU]); ok {
			if draw, err := gpu.Number(catalog.AttrPowerDraw); err == nil {
				hints = append(hints, fmt.Sprintf("PSU must provide at least %sW", formatWatts(constraint.RequiredPower(draw, margin))))
			}
		}
	case catalog.Case:
		if size, ok := text(catalog.Motherboard, catalog.AttrSize); ok {
			hints = append(hints, fmt.Sprintf("Case must support %s motherboards", size))
		}
		if size, ok := text(catalog.PSU, catalog.AttrSize); ok {
			hints = append(hints, fmt.Sprintf("Case must support %s power supplies", size))
		}
	}
	return hints
}

// formatWatts prints w with at most one decimal, dropping float noise
// such as 165*1.2 = 197.99999999999997.
func formatWatts(w float64) string {
	return strings.TrimSuffix(strconv.FormatFloat(w, 'f', 1, 64), ".0")
}
