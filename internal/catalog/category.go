package catalog

import (
	"fmt"
	"strings"
)

// Category is one of the six hardware slots of a configuration.
type Category int

const (
	CPU Category = iota
	Motherboard
	RAM
	GPU
	PSU
	Case
)

// NumCategories is the number of hardware slots.
const NumCategories = 6

// Categories lists every category in interactive order.
var Categories = [NumCategories]Category{CPU, Motherboard, RAM, GPU, PSU, Case}

var categoryNames = [NumCategories]string{"CPU", "Motherboard", "RAM", "GPU", "PSU", "Case"}

// categoryFiles are the CSV file names, one per category.
var categoryFiles = [NumCategories]string{
	"cpus.csv", "motherboards.csv", "ram.csv", "gpus.csv", "psus.csv", "cases.csv",
}

// String returns the display name ("CPU", "Motherboard", ...).
func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// Key returns the lower-case key used in YAML and CUE documents.
func (c Category) Key() string {
	return strings.ToLower(c.String())
}

// FileName returns the CSV file holding this category's records.
func (c Category) FileName() string {
	if !c.Valid() {
		return ""
	}
	return categoryFiles[c]
}

// Valid reports whether c is one of the six known categories.
func (c Category) Valid() bool {
	return c >= CPU && c <= Case
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory resolves a category name case-insensitively.
// Plural file-style names ("cpus", "cases") are accepted too.
func ParseCategory(s string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if name == c.Key() || name == strings.TrimSuffix(c.FileName(), ".csv") {
			return c, nil
		}
	}
	switch name {
	case "mb", "mobo":
		return Motherboard, nil
	case "memory":
		return RAM, nil
	}
	return 0, fmt.Errorf("unknown category %q", s)
}
