package order

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"github.com/xenking/photoprint-orders/internal/domain/pricing"
)

// Service encapsulates checkout and order lifecycle logic. Pricing stays in
// the engine; persistence stays in the repository; the service owns the
// order entity's construction and its single status transition.
type Service struct {
	engine *pricing.Engine
	orders Repository
	now    func() time.Time
}

// NewService creates an order Service from the pricing engine and the order
// repository.
func NewService(engine *pricing.Engine, orders Repository) *Service {
	return &Service{
		engine: engine,
		orders: orders,
		now:    time.Now,
	}
}

// Quote prices a cart without persisting anything. It never fails: bad
// sizes and quantities degrade to zero cost per the engine's contract.
func (s *Service) Quote(cart Cart) pricing.Quote {
	return s.engine.Quote(cart.PricingItems())
}

// Checkout prices the cart, snapshots the quote and items into a new
// pending order stamped with the current UTC time, and persists it. The
// returned order carries its store-assigned id.
func (s *Service) Checkout(ctx context.Context, cust Customer, cart Cart) (*Order, error) {
	q := s.engine.Quote(cart.PricingItems())

	if cart == nil {
		cart = Cart{}
	}

	o := &Order{
		CustomerName: strings.TrimSpace(cust.Name),
		Address:      strings.TrimSpace(cust.Address),
		Phone:        strings.TrimSpace(cust.Phone),
		Email:        strings.TrimSpace(cust.Email),
		Items:        cart,
		Subtotal:     q.Subtotal,
		Discount:     q.Discount,
		Total:        q.Total,
		Status:       StatusPending,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	return o, nil
}

// Get returns the full order for an id.
func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.orders.Get(ctx, id)
}

// List returns orders matching the filter, most recent first.
func (s *Service) List(ctx context.Context, f Filter) ([]Order, error) {
	return s.orders.List(ctx, f)
}

// MarkPaid transitions an order to paid. Applying it to an already paid
// order is a no-op with the same outcome, so retries are safe.
func (s *Service) MarkPaid(ctx context.Context, id int64) error {
	if err := s.orders.SetStatus(ctx, id, StatusPaid); err != nil {
		return errors.Wrap(err, "mark paid")
	}
	return nil
}
