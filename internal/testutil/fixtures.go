package testutil

import (
	"github.com/roach88/pcconf/internal/catalog"
)

// Builder assembles small catalogs for tests.
type Builder struct {
	parts map[catalog.Category][]catalog.Record
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{parts: make(map[catalog.Category][]catalog.Record)}
}

func (b *Builder) add(cat catalog.Category, id string, price float64, attrs map[string]catalog.Value) *Builder {
	b.parts[cat] = append(b.parts[cat], catalog.NewRecord(cat, id, id, catalog.MoneyFromFloat(price), attrs))
	return b
}

// CPU adds a processor.
func (b *Builder) CPU(id, socket string, price float64) *Builder {
	return b.add(catalog.CPU, id, price, map[string]catalog.Value{
		catalog.AttrSocket: catalog.Text(socket),
	})
}

// Motherboard adds a motherboard.
func (b *Builder) Motherboard(id, socket, ramType, size string, price float64) *Builder {
	return b.add(catalog.Motherboard, id, price, map[string]catalog.Value{
		catalog.AttrSocket:  catalog.Text(socket),
		catalog.AttrRAMType: catalog.Text(ramType),
		catalog.AttrSize:    catalog.Text(size),
	})
}

// RAM adds a memory kit.
func (b *Builder) RAM(id, ramType string, price float64) *Builder {
	return b.add(catalog.RAM, id, price, map[string]catalog.Value{
		catalog.AttrRAMType: catalog.Text(ramType),
	})
}

// GPU adds a graphics card.
func (b *Builder) GPU(id string, powerDraw int64, price float64) *Builder {
	return b.add(catalog.GPU, id, price, map[string]catalog.Value{
		catalog.AttrPowerDraw: catalog.Number(powerDraw),
	})
}

// PSU adds a power supply.
func (b *Builder) PSU(id string, wattage int64, size string, price float64) *Builder {
	return b.add(catalog.PSU, id, price, map[string]catalog.Value{
		catalog.AttrWattage: catalog.Number(wattage),
		catalog.AttrSize:    catalog.Text(size),
	})
}

// Case adds a case.
func (b *Builder) Case(id string, mbSizes, psuSizes []string, price float64) *Builder {
	return b.add(catalog.Case, id, price, map[string]catalog.Value{
		catalog.AttrSupportedMotherboardSizes: catalog.Labels(mbSizes...),
		catalog.AttrSupportedPSUSizes:         catalog.Labels(psuSizes...),
	})
}

// Record adds an arbitrary record.
func (b *Builder) Record(r catalog.Record) *Builder {
	b.parts[r.Category] = append(b.parts[r.Category], r)
	return b
}

// Build creates the catalog.
func (b *Builder) Build() (*catalog.Catalog, error) {
	return catalog.New(b.parts)
}

// MustBuild creates the catalog or panics.
func (b *Builder) MustBuild() *catalog.Catalog {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}

// Provider exposes the builder's records as a catalog.Provider.
func (b *Builder) Provider() catalog.StaticProvider {
	return catalog.StaticProvider(b.parts)
}

// SampleBuilder returns a builder preloaded with the sample catalog.
//
// Shape of the sample:
//   - cpu-3 (AM4) matches no motherboard.
//   - mb-4 (E-ATX) fits no case; case-3 (Mini-ITX only) fits no motherboard.
//   - gpu-3 (450W, needs 540W) only runs on psu-2 and psu-3.
//   - 26 complete configurations; the cheapest is
//     cpu-2 mb-3 ram-2 gpu-1 psu-2 case-2 at 820.00.
func SampleBuilder() *Builder {
	return NewBuilder().
		CPU("cpu-1", "AM5", 229).
		CPU("cpu-2", "LGA1700", 199).
		CPU("cpu-3", "AM4", 329).
		Motherboard("mb-1", "AM5", "DDR5", "Micro-ATX", 149).
		Motherboard("mb-2", "LGA1700", "DDR5", "ATX", 239).
		Motherboard("mb-3", "LGA1700", "DDR4", "ATX", 129).
		Motherboard("mb-4", "AM5", "DDR5", "E-ATX", 499).
		RAM("ram-1", "DDR5", 109).
		RAM("ram-2", "DDR4", 45).
		GPU("gpu-1", 165, 269).
		GPU("gpu-2", 200, 549).
		GPU("gpu-3", 450, 1599).
		PSU("psu-1", 450, "SFX", 89).
		PSU("psu-2", 650, "ATX", 79).
		PSU("psu-3", 1000, "ATX", 169).
		Case("case-1", []string{"Micro-ATX", "Mini-ITX"}, []string{"SFX", "ATX"}, 69).
		Case("case-2", []string{"ATX", "Micro-ATX"}, []string{"ATX"}, 99).
		Case("case-3", []string{"Mini-ITX"}, []string{"SFX"}, 119)
}

// SampleCatalog returns the sample catalog.
func SampleCatalog() *catalog.Catalog {
	return SampleBuilder().MustBuild()
}

// SampleSolutionCount is the number of complete configurations of the sample.
const SampleSolutionCount = 26

// SampleCheapest is the cheapest configuration of the sample.
var SampleCheapest = catalog.Assignment{"cpu-2", "mb-3", "ram-2", "gpu-1", "psu-2", "case-2"}

// SampleCheapestTotal is the price of SampleCheapest.
const SampleCheapestTotal = catalog.Money(82000)
