// Package catalog holds the print size price table and bundle discount rules.
// A Catalog is an immutable configuration value: construct one with New (or
// Default for the production table) and inject it where pricing happens.
package catalog

import (
	"sort"

	"github.com/shopspring/decimal"
)

// BundleRule reprices every Quantity units of Size at Price instead of
// Quantity times the unit price. At most one rule exists per size.
type BundleRule struct {
	Size     string
	Quantity int
	Price    decimal.Decimal
}

// Catalog maps print sizes to unit prices and carries the bundle rules.
// The zero value is an empty catalog: every size prices at zero.
type Catalog struct {
	prices map[string]decimal.Decimal
	rules  map[string]BundleRule
}

// New builds a Catalog from a price table and a set of bundle rules.
// The inputs are copied, so callers may reuse or mutate their maps afterwards.
// A later rule for the same size replaces an earlier one.
func New(prices map[string]decimal.Decimal, rules ...BundleRule) Catalog {
	c := Catalog{
		prices: make(map[string]decimal.Decimal, len(prices)),
		rules:  make(map[string]BundleRule, len(rules)),
	}
	for size, price := range prices {
		c.prices[size] = price
	}
	for _, r := range rules {
		c.rules[r.Size] = r
	}
	return c
}

// Default returns the production catalog: the standard print sizes and the
// three-for-20 deal on 4x6 prints.
func Default() Catalog {
	return New(
		map[string]decimal.Decimal{
			"4x6":  decimal.RequireFromString("8.00"),
			"5x7":  decimal.RequireFromString("15.00"),
			"8x10": decimal.RequireFromString("20.00"),
		},
		BundleRule{Size: "4x6", Quantity: 3, Price: decimal.RequireFromString("20.00")},
	)
}

// UnitPrice returns the per-unit price for a size. Unknown sizes price at
// zero; they are never an error.
func (c Catalog) UnitPrice(size string) decimal.Decimal {
	return c.prices[size]
}

// Rule returns the bundle rule for a size, if one exists.
func (c Catalog) Rule(size string) (BundleRule, bool) {
	r, ok := c.rules[size]
	return r, ok
}

// Sizes returns the known sizes in sorted order.
func (c Catalog) Sizes() []string {
	sizes := make([]string, 0, len(c.prices))
	for size := range c.prices {
		sizes = append(sizes, size)
	}
	sort.Strings(sizes)
	return sizes
}

// Rules returns all bundle rules, sorted by size.
func (c Catalog) Rules() []BundleRule {
	rules := make([]BundleRule, 0, len(c.rules))
	for _, r := range c.rules {
		rules = append(rules, r)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].Size < rules[j].Size })
	return rules
}
