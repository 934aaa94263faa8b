package constraint

import (
	"errors"
	"fmt"

	"github.com/roach88/pcconf/internal/catalog"
)

// Names of the standard compatibility constraints.
const (
	CPUMotherboard  = "cpu_motherboard_compatibility"
	MotherboardRAM  = "motherboard_ram_compatibility"
	MotherboardCase = "motherboard_case_compatibility"
	PSUCase         = "psu_case_compatibility"
	GPUPSU          = "gpu_psu_compatibility"
)

// DefaultSafetyMargin is applied to GPU power draw before comparing it with
// PSU wattage.
const DefaultSafetyMargin = 1.2

// Option configures Standard.
type Option func(*options)

type options struct {
	margin    float64
	cacheSize int
}

// WithSafetyMargin overrides the GPU power safety margin.
func WithSafetyMargin(m float64) Option {
	return func(o *options) { o.margin = m }
}

// WithPairCache memoizes predicate results in an LRU cache of size entries
// per constraint. Zero disables caching.
func WithPairCache(size int) Option {
	return func(o *options) { o.cacheSize = size }
}

// Standard builds the registry of the five compatibility constraints, in
// traversal order: CPU-Motherboard, Motherboard-RAM, Motherboard-Case,
// PSU-Case, GPU-PSU.
//
// Every record of an involved category must carry the attributes its
// constraints read; the first record that does not fails the build with a
// catalog.AttributeError. Missing attributes are never treated as wildcards.
func Standard(cat *catalog.Catalog, opts ...Option) (*Registry, error) {
	o := options{margin: DefaultSafetyMargin}
	for _, opt := range opts {
		opt(&o)
	}
	if o.margin <= 0 {
		return nil, fmt.Errorf("standard constraints: safety margin must be positive, got %v", o.margin)
	}

	var errs []error
	text := func(c catalog.Category, attr string) map[string]string {
		m, err := textTable(cat, c, attr)
		errs = append(errs, err)
		return m
	}
	num := func(c catalog.Category, attr string) map[string]int64 {
		m, err := numberTable(cat, c, attr)
		errs = append(errs, err)
		return m
	}
	labels := func(c catalog.Category, attr string) map[string]catalog.Value {
		m, err := labelTable(cat, c, attr)
		errs = append(errs, err)
		return m
	}

	cpuSocket := text(catalog.CPU, catalog.AttrSocket)
	mbSocket := text(catalog.Motherboard, catalog.AttrSocket)
	mbRAMType := text(catalog.Motherboard, catalog.AttrRAMType)
	mbSize := text(catalog.Motherboard, catalog.AttrSize)
	ramType := text(catalog.RAM, catalog.AttrRAMType)
	gpuDraw := num(catalog.GPU, catalog.AttrPowerDraw)
	psuWattage := num(catalog.PSU, catalog.AttrWattage)
	psuSize := text(catalog.PSU, catalog.AttrSize)
	caseMBSizes := labels(catalog.Case, catalog.AttrSupportedMotherboardSizes)
	casePSUSizes := labels(catalog.Case, catalog.AttrSupportedPSUSizes)

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("standard constraints: %w", err)
	}

	constraints := []*Constraint{
		New(CPUMotherboard, catalog.CPU, catalog.Motherboard, equalText(cpuSocket, mbSocket)),
		New(MotherboardRAM, catalog.Motherboard, catalog.RAM, equalText(mbRAMType, ramType)),
		New(MotherboardCase, catalog.Motherboard, catalog.Case, memberOf(mbSize, caseMBSizes)),
		New(PSUCase, catalog.PSU, catalog.Case, memberOf(psuSize, casePSUSizes)),
		New(GPUPSU, catalog.GPU, catalog.PSU, powerFits(gpuDraw, psuWattage, o.margin)),
	}

	r := NewRegistry()
	for _, c := range constraints {
		if o.cacheSize > 0 {
			cached, err := Cached(c, o.cacheSize)
			if err != nil {
				return nil, fmt.Errorf("standard constraints: %w", err)
			}
			c = cached
		}
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// RequiredPower returns the minimum PSU wattage for a GPU drawing draw watts.
func RequiredPower(draw int64, margin float64) float64 {
	return float64(draw) * margin
}

func equalText(left, right map[string]string) Predicate {
	return func(x, y string) bool {
		a, ok := left[x]
		if !ok {
			return false
		}
		b, ok := right[y]
		return ok && a == b
	}
}

func memberOf(item map[string]string, sets map[string]catalog.Value) Predicate {
	return func(x, y string) bool {
		label, ok := item[x]
		if !ok {
			return false
		}
		set, ok := sets[y]
		return ok && set.Contains(label)
	}
}

func powerFits(draw, wattage map[string]int64, margin float64) Predicate {
	return func(gpu, psu string) bool {
		d, ok := draw[gpu]
		if !ok {
			return false
		}
		w, ok := wattage[psu]
		return ok && RequiredPower(d, margin) <= float64(w)
	}
}

func textTable(cat *catalog.Catalog, c catalog.Category, attr string) (map[string]string, error) {
	recs := cat.Records(c)
	m := make(map[string]string, len(recs))
	for _, r := range recs {
		v, err := r.Text(attr)
		if err != nil {
			return nil, err
		}
		m[r.ID] = v
	}
	return m, nil
}

func numberTable(cat *catalog.Catalog, c catalog.Category, attr string) (map[string]int64, error) {
	recs := cat.Records(c)
	m := make(map[string]int64, len(recs))
	for _, r := range recs {
		v, err := r.Number(attr)
		if err != nil {
			return nil, err
		}
		m[r.ID] = v
	}
	return m, nil
}

func labelTable(cat *catalog.Catalog, c catalog.Category, attr string) (map[string]catalog.Value, error) {
	recs := cat.Records(c)
	m := make(map[string]catalog.Value, len(recs))
	for _, r := range recs {
		v, err := r.LabelSet(attr)
		if err != nil {
			return nil, err
		}
		m[r.ID] = v
	}
	return m, nil
}
