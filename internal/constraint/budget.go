package constraint

import (
	"github.com/roach88/pcconf/internal/catalog"
)

// PriceFunc returns the price of one part.
type PriceFunc func(cat catalog.Category, id string) catalog.Money

// CostFunc scores a complete assignment.
type CostFunc func(a catalog.Assignment) catalog.Money

// Budget is the n-ary constraint "sum of the six selected prices <= Limit".
// It is built from an explicit limit so each solver run sees its own value.
type Budget struct {
	Limit catalog.Money

	price PriceFunc
}

// NewBudget creates a budget constraint pricing parts with price.
func NewBudget(limit catalog.Money, price PriceFunc) *Budget {
	return &Budget{Limit: limit, price: price}
}

// CatalogBudget creates a budget priced from a catalog.
func CatalogBudget(limit catalog.Money, cat *catalog.Catalog) *Budget {
	return NewBudget(limit, cat.Price)
}

// Price returns the price of one part.
func (b *Budget) Price(cat catalog.Category, id string) catalog.Money {
	return b.price(cat, id)
}

// Cost sums the prices of a (possibly partial) assignment.
func (b *Budget) Cost(a catalog.Assignment) catalog.Money {
	var total catalog.Money
	for _, cat := range catalog.Categories {
		if a[cat] != "" {
			total += b.price(cat, a[cat])
		}
	}
	return total
}

// Allows reports whether a complete assignment fits the budget.
func (b *Budget) Allows(a catalog.Assignment) bool {
	return b.Cost(a) <= b.Limit
}

// CostFunc returns Cost as a CostFunc.
func (b *Budget) CostFunc() CostFunc {
	return b.Cost
}
