package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/xenking/photoprint-orders/internal/domain/catalog"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestQuote(t *testing.T) {
	engine := NewEngine(catalog.Default())

	tests := []struct {
		name         string
		items        []Item
		wantSubtotal decimal.Decimal
		wantDiscount decimal.Decimal
		wantTotal    decimal.Decimal
	}{
		{
			name:         "empty cart",
			items:        nil,
			wantSubtotal: d("0"),
			wantDiscount: d("0"),
			wantTotal:    d("0"),
		},
		{
			name:         "single 4x6 below bundle threshold",
			items:        []Item{{Size: "4x6", Quantity: 1}},
			wantSubtotal: d("8.00"),
			wantDiscount: d("0"),
			wantTotal:    d("8.00"),
		},
		{
			name:         "two 4x6 below bundle threshold",
			items:        []Item{{Size: "4x6", Quantity: 2}},
			wantSubtotal: d("16.00"),
			wantDiscount: d("0"),
			wantTotal:    d("16.00"),
		},
		{
			name:         "exactly one bundle of 4x6",
			items:        []Item{{Size: "4x6", Quantity: 3}},
			wantSubtotal: d("24.00"),
			wantDiscount: d("4.00"),
			wantTotal:    d("20.00"),
		},
		{
			name:         "two bundles of 4x6",
			items:        []Item{{Size: "4x6", Quantity: 6}},
			wantSubtotal: d("48.00"),
			wantDiscount: d("8.00"),
			wantTotal:    d("40.00"),
		},
		{
			name:         "one bundle plus leftover at full price",
			items:        []Item{{Size: "4x6", Quantity: 4}},
			wantSubtotal: d("32.00"),
			wantDiscount: d("4.00"),
			wantTotal:    d("28.00"),
		},
		{
			name: "mixed cart discounts only the eligible size",
			items: []Item{
				{Size: "4x6", Quantity: 3},
				{Size: "5x7", Quantity: 1},
			},
			wantSubtotal: d("39.00"),
			wantDiscount: d("4.00"),
			wantTotal:    d("35.00"),
		},
		{
			name: "duplicate 4x6 lines aggregate into a bundle",
			items: []Item{
				{Size: "4x6", Quantity: 2},
				{Size: "4x6", Quantity: 1},
			},
			wantSubtotal: d("24.00"),
			wantDiscount: d("4.00"),
			wantTotal:    d("20.00"),
		},
		{
			name:         "unknown size prices at zero",
			items:        []Item{{Size: "11x17", Quantity: 5}},
			wantSubtotal: d("0"),
			wantDiscount: d("0"),
			wantTotal:    d("0"),
		},
		{
			name: "unknown size does not disturb a real bundle",
			items: []Item{
				{Size: "poster", Quantity: 99},
				{Size: "4x6", Quantity: 3},
			},
			wantSubtotal: d("24.00"),
			wantDiscount: d("4.00"),
			wantTotal:    d("20.00"),
		},
		{
			name:         "negative quantity counts as zero",
			items:        []Item{{Size: "8x10", Quantity: -2}},
			wantSubtotal: d("0"),
			wantDiscount: d("0"),
			wantTotal:    d("0"),
		},
		{
			name: "negative quantity does not reduce eligible count",
			items: []Item{
				{Size: "4x6", Quantity: 3},
				{Size: "4x6", Quantity: -1},
			},
			wantSubtotal: d("24.00"),
			wantDiscount: d("4.00"),
			wantTotal:    d("20.00"),
		},
		{
			name:         "zero quantity line contributes nothing",
			items:        []Item{{Size: "5x7", Quantity: 0}},
			wantSubtotal: d("0"),
			wantDiscount: d("0"),
			wantTotal:    d("0"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.Quote(tt.items)

			assert.True(t, tt.wantSubtotal.Equal(got.Subtotal),
				"subtotal: want %s, got %s", tt.wantSubtotal, got.Subtotal)
			assert.True(t, tt.wantDiscount.Equal(got.Discount),
				"discount: want %s, got %s", tt.wantDiscount, got.Discount)
			assert.True(t, tt.wantTotal.Equal(got.Total),
				"total: want %s, got %s", tt.wantTotal, got.Total)
		})
	}
}

// TestQuote_Invariants checks 0 <= discount <= subtotal and
// total = subtotal - discount over a spread of carts.
func TestQuote_Invariants(t *testing.T) {
	engine := NewEngine(catalog.Default())

	carts := [][]Item{
		nil,
		{{Size: "4x6", Quantity: 7}},
		{{Size: "4x6", Quantity: 3}, {Size: "8x10", Quantity: 2}},
		{{Size: "mystery", Quantity: 10}, {Size: "4x6", Quantity: 5}},
		{{Size: "5x7", Quantity: 100}},
		{{Size: "4x6", Quantity: -3}, {Size: "4x6", Quantity: 9}},
	}

	for _, cart := range carts {
		q := engine.Quote(cart)

		assert.False(t, q.Discount.IsNegative(), "discount must be non-negative")
		assert.True(t, q.Discount.LessThanOrEqual(q.Subtotal),
			"discount %s exceeds subtotal %s", q.Discount, q.Subtotal)
		assert.True(t, q.Total.Equal(q.Subtotal.Sub(q.Discount)),
			"total %s != subtotal %s - discount %s", q.Total, q.Subtotal, q.Discount)
	}
}

// TestQuote_MultipleRules checks that independent bundle rules on distinct
// sizes each apply and their discounts sum.
func TestQuote_MultipleRules(t *testing.T) {
	cat := catalog.New(
		map[string]decimal.Decimal{
			"4x6": d("8.00"),
			"5x7": d("15.00"),
		},
		catalog.BundleRule{Size: "4x6", Quantity: 3, Price: d("20.00")},
		catalog.BundleRule{Size: "5x7", Quantity: 2, Price: d("25.00")},
	)
	engine := NewEngine(cat)

	got := engine.Quote([]Item{
		{Size: "4x6", Quantity: 3}, // 24.00, discount 4.00
		{Size: "5x7", Quantity: 2}, // 30.00, discount 5.00
	})

	assert.True(t, d("54.00").Equal(got.Subtotal), "subtotal %s", got.Subtotal)
	assert.True(t, d("9.00").Equal(got.Discount), "discount %s", got.Discount)
	assert.True(t, d("45.00").Equal(got.Total), "total %s", got.Total)
}

// TestQuote_DiscountClamp uses a catalog where the deal price is above the
// charged amount, so the raw bundle discount would exceed what the customer
// actually paid for the size. The clamp caps it at the eligible cost.
func TestQuote_DiscountClamp(t *testing.T) {
	cat := catalog.New(
		map[string]decimal.Decimal{"4x6": d("1.00")},
		// Normal price for 3 units is 3.00; a free bundle would discount
		// the full 3.00, never more than was charged.
		catalog.BundleRule{Size: "4x6", Quantity: 3, Price: d("0.00")},
	)
	engine := NewEngine(cat)

	got := engine.Quote([]Item{{Size: "4x6", Quantity: 3}})

	assert.True(t, d("3.00").Equal(got.Subtotal))
	assert.True(t, d("3.00").Equal(got.Discount))
	assert.True(t, d("0.00").Equal(got.Total))
	assert.True(t, got.Discount.LessThanOrEqual(got.Subtotal))
}
