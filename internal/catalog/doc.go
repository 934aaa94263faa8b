// Package catalog provides the read-only view over the six hardware
// categories a configuration is assembled from.
//
// A Catalog holds, per Category, an ordered list of Records keyed by an
// identifier unique within that category. Records carry a price in cents and
// a set of named, typed attributes (text, number or label set). Attributes
// are parsed once when the catalog is loaded; nothing downstream re-parses
// strings.
//
// Catalogs are produced by a Provider. The package ships providers for:
//   - CSV: one file per category (cpus.csv, motherboards.csv, ...)
//   - YAML: one document keyed by category
//   - CUE: a directory of .cue files exporting a `catalog` struct
//   - Static: in-memory records, mostly for tests
//
// Records are validated on load: every record needs a non-empty id, a
// non-negative price and an id not already used in its category.
package catalog
