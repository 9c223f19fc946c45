package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/photoprint-orders/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders
		(customer_name, address, phone, email, items, subtotal, discount, total, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	orderColumns = `id, customer_name, address, phone, email, items,
		subtotal, discount, total, status, created_at`

	getOrderSQL = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	listOrdersSQL = `SELECT ` + orderColumns + ` FROM orders ORDER BY id DESC`

	listOrdersByStatusSQL = `SELECT ` + orderColumns + ` FROM orders
		WHERE status = $1 ORDER BY id DESC`

	setOrderStatusSQL = `UPDATE orders SET status = $2 WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. The
// items snapshot is serialized to a JSONB column; it is written once at
// creation and never rewritten.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create inserts a new order and fills o.ID with the generated identity.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshaling order items: %w", err)
	}

	err = r.pool.QueryRow(ctx, createOrderSQL,
		o.CustomerName, o.Address, o.Phone, o.Email, itemsJSON,
		o.Subtotal, o.Discount, o.Total, string(o.Status), o.CreatedAt,
	).Scan(&o.ID)
	if err != nil {
		return unavailable("creating order", err)
	}

	return nil
}

// Get returns the order for the given id, or order.ErrNotFound.
func (r *OrderRepository) Get(ctx context.Context, id int64) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderSQL, id)
	if err != nil {
		return nil, unavailable(fmt.Sprintf("getting order %d", id), err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, unavailable(fmt.Sprintf("getting order %d", id), err)
	}
	return &o, nil
}

// List returns orders matching the filter, most recent first by id.
func (r *OrderRepository) List(ctx context.Context, f order.Filter) ([]order.Order, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if f.Status != nil {
		rows, err = r.pool.Query(ctx, listOrdersByStatusSQL, string(*f.Status))
	} else {
		rows, err = r.pool.Query(ctx, listOrdersSQL)
	}
	if err != nil {
		return nil, unavailable("listing orders", err)
	}

	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, unavailable("listing orders", err)
	}
	return orders, nil
}

// SetStatus updates only the status column. It returns order.ErrNotFound
// when no row matched; concurrent writers race with last-write-wins.
func (r *OrderRepository) SetStatus(ctx context.Context, id int64, status order.Status) error {
	tag, err := r.pool.Exec(ctx, setOrderStatusSQL, id, string(status))
	if err != nil {
		return unavailable(fmt.Sprintf("updating order %d status", id), err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o      order.Order
		status string
		items  []byte
	)
	err := row.Scan(
		&o.ID, &o.CustomerName, &o.Address, &o.Phone, &o.Email, &items,
		&o.Subtotal, &o.Discount, &o.Total, &status, &o.CreatedAt,
	)
	if err != nil {
		return o, err
	}
	o.Status = order.Status(status)
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return o, fmt.Errorf("decoding order %d items: %w", o.ID, err)
	}
	return o, nil
}

// unavailable tags a storage failure so callers can tell it apart from a
// missing row.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, order.ErrStorageUnavailable, err)
}
