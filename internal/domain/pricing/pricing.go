// Package pricing computes a price quote for a cart of print line items.
// The engine is a pure function over an immutable catalog: no I/O, no state,
// safe for concurrent use.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/photoprint-orders/internal/domain/catalog"
)

// Item is a single cart line for quoting purposes.
type Item struct {
	Size     string
	Quantity int
}

// Quote holds the computed subtotal, discount, and total for a cart,
// each rounded to 2 decimal places. Total is always Subtotal minus Discount,
// and Discount never exceeds Subtotal.
type Quote struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Engine prices carts against a fixed catalog.
type Engine struct {
	cat catalog.Catalog
}

// NewEngine creates an Engine that quotes against the given catalog.
func NewEngine(cat catalog.Catalog) *Engine {
	return &Engine{cat: cat}
}

// eligible accumulates quantity and charged cost per bundle-eligible size.
type eligible struct {
	quantity int64
	cost     decimal.Decimal
}

// Quote prices the cart. It is total: unknown sizes cost zero, negative
// quantities count as zero, and an empty cart quotes as all zeros.
//
// Bundle discounts are all-or-nothing per full bundle: quantities for the
// same size are aggregated across lines, and only complete bundles earn the
// deal price. The per-size discount is clamped to the amount actually
// charged for that size, which keeps the total discount within the subtotal
// even under catalogs where the deal price exceeds the unit price.
func (e *Engine) Quote(items []Item) Quote {
	subtotal := decimal.Zero
	bundled := make(map[string]*eligible)

	for _, it := range items {
		qty := it.Quantity
		if qty < 0 {
			qty = 0
		}
		line := e.cat.UnitPrice(it.Size).Mul(decimal.NewFromInt(int64(qty)))
		subtotal = subtotal.Add(line)

		if _, ok := e.cat.Rule(it.Size); !ok {
			continue
		}
		el := bundled[it.Size]
		if el == nil {
			el = &eligible{cost: decimal.Zero}
			bundled[it.Size] = el
		}
		el.quantity += int64(qty)
		el.cost = el.cost.Add(line)
	}

	discount := decimal.Zero
	for size, el := range bundled {
		rule, _ := e.cat.Rule(size)
		if el.quantity < int64(rule.Quantity) {
			continue
		}
		bundles := el.quantity / int64(rule.Quantity)
		covered := bundles * int64(rule.Quantity)

		normal := e.cat.UnitPrice(size).Mul(decimal.NewFromInt(covered))
		deal := rule.Price.Mul(decimal.NewFromInt(bundles))

		d := decimal.Min(normal.Sub(deal), el.cost)
		if d.IsNegative() {
			d = decimal.Zero
		}
		discount = discount.Add(d)
	}

	subtotal = subtotal.Round(2)
	discount = discount.Round(2)

	return Quote{
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal.Sub(discount).Round(2),
	}
}
