package order

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/photoprint-orders/internal/domain/catalog"
	"github.com/xenking/photoprint-orders/internal/domain/pricing"
)

// --- Mock repository ---

type mockRepo struct {
	nextID int64
	byID   map[int64]*Order
	err    error
}

func newMockRepo() *mockRepo {
	return &mockRepo{byID: make(map[int64]*Order)}
}

func (m *mockRepo) Create(_ context.Context, o *Order) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	o.ID = m.nextID
	stored := *o
	m.byID[o.ID] = &stored
	return nil
}

func (m *mockRepo) Get(_ context.Context, id int64) (*Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	o, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (m *mockRepo) List(_ context.Context, f Filter) ([]Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []Order
	for id := m.nextID; id >= 1; id-- {
		o, ok := m.byID[id]
		if !ok {
			continue
		}
		if f.Status != nil && o.Status != *f.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

func (m *mockRepo) SetStatus(_ context.Context, id int64, status Status) error {
	if m.err != nil {
		return m.err
	}
	o, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	return nil
}

// --- Helpers ---

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func newTestService(repo Repository) *Service {
	return NewService(pricing.NewEngine(catalog.Default()), repo)
}

// --- Tests ---

func TestCheckout(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 14, 15, 9, 26, 0, time.FixedZone("CET", 3600))
	}

	o, err := svc.Checkout(context.Background(),
		Customer{Name: "  Ada Lovelace ", Address: "1 Analytical Way", Phone: " 555-0100", Email: "ada@example.com "},
		Cart{{Size: "4x6", Quantity: 3}, {Size: "5x7", Quantity: 1}},
	)

	require.NoError(t, err)
	assert.Equal(t, int64(1), o.ID)
	assert.Equal(t, "Ada Lovelace", o.CustomerName)
	assert.Equal(t, "555-0100", o.Phone)
	assert.Equal(t, "ada@example.com", o.Email)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, time.UTC, o.CreatedAt.Location())
	assert.True(t, d("39.00").Equal(o.Subtotal))
	assert.True(t, d("4.00").Equal(o.Discount))
	assert.True(t, d("35.00").Equal(o.Total))
	assert.Len(t, o.Items, 2)
}

func TestCheckout_EmptyCart(t *testing.T) {
	svc := newTestService(newMockRepo())

	o, err := svc.Checkout(context.Background(), Customer{Name: "Ada"}, nil)

	require.NoError(t, err)
	assert.NotNil(t, o.Items)
	assert.Empty(t, o.Items)
	assert.True(t, decimal.Zero.Equal(o.Total))
	assert.Equal(t, StatusPending, o.Status)
}

func TestCheckout_RepositoryError(t *testing.T) {
	repo := newMockRepo()
	repo.err = errors.New("connection refused")
	svc := newTestService(repo)

	_, err := svc.Checkout(context.Background(), Customer{}, Cart{{Size: "4x6", Quantity: 1}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create order")
}

func TestMarkPaid_Lifecycle(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.Checkout(ctx, Customer{Name: "Ada"}, Cart{{Size: "4x6", Quantity: 3}})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, created.Status)

	require.NoError(t, svc.MarkPaid(ctx, created.ID))
	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, got.Status)

	// Marking paid twice is idempotent.
	require.NoError(t, svc.MarkPaid(ctx, created.ID))
	got, err = svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, got.Status)
}

func TestMarkPaid_NotFound(t *testing.T) {
	svc := newTestService(newMockRepo())

	err := svc.MarkPaid(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGet_NotFound(t *testing.T) {
	svc := newTestService(newMockRepo())

	_, err := svc.Get(context.Background(), 7)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestList_FilterAndOrder(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	first, err := svc.Checkout(ctx, Customer{Name: "First"}, Cart{{Size: "4x6", Quantity: 1}})
	require.NoError(t, err)
	second, err := svc.Checkout(ctx, Customer{Name: "Second"}, Cart{{Size: "5x7", Quantity: 1}})
	require.NoError(t, err)
	require.NoError(t, svc.MarkPaid(ctx, second.ID))

	all, err := svc.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "most recent first")
	assert.Equal(t, first.ID, all[1].ID)

	paid := StatusPaid
	onlyPaid, err := svc.List(ctx, Filter{Status: &paid})
	require.NoError(t, err)
	require.Len(t, onlyPaid, 1)
	assert.Equal(t, second.ID, onlyPaid[0].ID)
}

// TestQuote_DoesNotPersist checks that quoting creates no order.
func TestQuote_DoesNotPersist(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	q := svc.Quote(Cart{{Size: "4x6", Quantity: 6}})

	assert.True(t, d("40.00").Equal(q.Total))
	assert.Empty(t, repo.byID)
}

// TestStoredQuoteStability checks that a persisted order keeps its prices
// even when a service with a different catalog reads it back.
func TestStoredQuoteStability(t *testing.T) {
	repo := newMockRepo()
	ctx := context.Background()

	before := newTestService(repo)
	o, err := before.Checkout(ctx, Customer{Name: "Ada"}, Cart{{Size: "4x6", Quantity: 3}})
	require.NoError(t, err)

	// Same store, doubled prices.
	doubled := catalog.New(
		map[string]decimal.Decimal{"4x6": d("16.00")},
		catalog.BundleRule{Size: "4x6", Quantity: 3, Price: d("40.00")},
	)
	after := NewService(pricing.NewEngine(doubled), repo)

	got, err := after.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, d("24.00").Equal(got.Subtotal))
	assert.True(t, d("4.00").Equal(got.Discount))
	assert.True(t, d("20.00").Equal(got.Total))
}
