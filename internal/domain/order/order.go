// Package order holds the order entity, its fulfillment lifecycle, and the
// checkout service.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when no order exists for the requested id.
	ErrNotFound = errors.New("order not found")

	// ErrStorageUnavailable marks transient failures reaching the order
	// store. It is distinct from ErrNotFound: callers must not conflate a
	// missing order with a store that could not be queried.
	ErrStorageUnavailable = errors.New("order storage unavailable")
)

// Status is an order's fulfillment state. The only modeled transition is
// pending to paid; paid is terminal.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusPaid
}

// Customer holds the free-text contact fields captured at checkout.
// No format validation is applied beyond trimming.
type Customer struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

// Order is a persisted record of a checked-out cart. Items and the money
// fields are a snapshot taken at creation: they are never recomputed, so
// historical orders keep their price even when the catalog changes.
type Order struct {
	ID           int64
	CustomerName string
	Address      string
	Phone        string
	Email        string
	Items        Cart
	Subtotal     decimal.Decimal
	Discount     decimal.Decimal
	Total        decimal.Decimal
	Status       Status
	CreatedAt    time.Time
}

// Filter narrows List results. A nil Status matches every order.
type Filter struct {
	Status *Status
}

// Repository defines persistence operations for orders. Implementations
// return ErrNotFound for missing ids and wrap other failures with
// ErrStorageUnavailable.
type Repository interface {
	// Create inserts the order and fills in its store-assigned ID.
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id int64) (*Order, error)
	// List returns orders matching the filter, most recent first by id.
	List(ctx context.Context, f Filter) ([]Order, error)
	// SetStatus updates only the status column. Last writer wins.
	SetStatus(ctx context.Context, id int64, status Status) error
}
