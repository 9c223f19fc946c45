package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"

	"github.com/xenking/photoprint-orders/internal/domain/catalog"
	"github.com/xenking/photoprint-orders/internal/domain/order"
	"github.com/xenking/photoprint-orders/internal/domain/pricing"
	"github.com/xenking/photoprint-orders/internal/repository"
)

// demoOrder is a sample order seeded for local development.
type demoOrder struct {
	customer order.Customer
	items    order.Cart
	paid     bool
}

var demoOrders = []demoOrder{
	{
		customer: order.Customer{
			Name:    "Ada Lovelace",
			Address: "12 St James Square, London",
			Phone:   "555-0101",
			Email:   "ada@example.com",
		},
		items: order.Cart{
			{Size: "4x6", Quantity: 6},
		},
		paid: true,
	},
	{
		customer: order.Customer{
			Name:    "Alan Turing",
			Address: "Bletchley Park, Milton Keynes",
			Phone:   "555-0102",
			Email:   "alan@example.com",
		},
		items: order.Cart{
			{Size: "4x6", Quantity: 3},
			{Size: "5x7", Quantity: 1},
		},
	},
	{
		customer: order.Customer{
			Name:    "Grace Hopper",
			Address: "1 Navy Way, Arlington",
			Phone:   "555-0103",
			Email:   "grace@example.com",
		},
		items: order.Cart{
			{Size: "8x10", Quantity: 2},
		},
	},
}

func main() {
	var databaseURL string

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	svc := order.NewService(pricing.NewEngine(catalog.Default()), repository.NewOrderRepository(pool))

	slog.Info("seeding demo orders", slog.Int("count", len(demoOrders)))

	for _, d := range demoOrders {
		o, err := svc.Checkout(ctx, d.customer, d.items)
		if err != nil {
			return errors.Wrapf(err, "seed order for %s", d.customer.Name)
		}
		if d.paid {
			if err := svc.MarkPaid(ctx, o.ID); err != nil {
				return errors.Wrapf(err, "mark order %d paid", o.ID)
			}
		}

		slog.Info("seeded order",
			slog.Int64("id", o.ID),
			slog.String("customer", o.CustomerName),
			slog.String("total", o.Total.String()),
			slog.String("status", string(o.Status)),
		)
	}

	return nil
}
