package order

import (
	"strconv"
	"strings"

	"github.com/go-faster/jx"

	"github.com/xenking/photoprint-orders/internal/domain/pricing"
)

// LineItem is one size/quantity pair in a customer's cart. This is both the
// wire shape and the stored items snapshot.
type LineItem struct {
	Size     string `json:"size"`
	Quantity int    `json:"qty"`
}

// Cart is an ordered list of line items. It may be empty, and the same size
// may appear on multiple lines; aggregation happens in the pricing engine.
type Cart []LineItem

// PricingItems converts the cart into the pricing engine's input shape.
func (c Cart) PricingItems() []pricing.Item {
	items := make([]pricing.Item, len(c))
	for i, li := range c {
		items[i] = pricing.Item{Size: li.Size, Quantity: li.Quantity}
	}
	return items
}

// UnmarshalJSON decodes a line item leniently: quantity may arrive as a
// number, a numeric string, null, or be absent entirely, and anything
// unusable coerces to zero instead of failing. "quantity" is accepted as an
// alias for "qty". Unknown keys are ignored. Only structurally broken JSON
// is an error.
func (li *LineItem) UnmarshalJSON(data []byte) error {
	*li = LineItem{}
	d := jx.DecodeBytes(data)
	return d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "size":
			if d.Next() != jx.String {
				return d.Skip()
			}
			s, err := d.Str()
			if err != nil {
				return err
			}
			li.Size = s
			return nil
		case "qty", "quantity":
			qty, err := decodeQuantity(d)
			if err != nil {
				return err
			}
			li.Quantity = qty
			return nil
		default:
			return d.Skip()
		}
	})
}

// decodeQuantity reads a quantity token of any JSON type and coerces it to
// an int, defaulting to zero for anything non-numeric. Fractional values
// truncate toward zero.
func decodeQuantity(d *jx.Decoder) (int, error) {
	switch d.Next() {
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return 0, err
		}
		if i, err := n.Int64(); err == nil {
			return int(i), nil
		}
		if f, err := n.Float64(); err == nil {
			return int(f), nil
		}
		return 0, nil
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return 0, err
		}
		return parseQuantityString(s), nil
	default:
		return 0, d.Skip()
	}
}

func parseQuantityString(s string) int {
	s = strings.TrimSpace(s)
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}
