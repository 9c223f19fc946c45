// Command order-export dumps orders as gzip-compressed JSON lines, one order
// per line, suitable for downstream reporting or archival.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/photoprint-orders/internal/domain/order"
	"github.com/xenking/photoprint-orders/internal/repository"
)

type exportRecord struct {
	ID           int64      `json:"id"`
	CustomerName string     `json:"customer_name"`
	Address      string     `json:"address"`
	Phone        string     `json:"phone"`
	Email        string     `json:"email"`
	Items        order.Cart `json:"items"`
	Subtotal     string     `json:"subtotal"`
	Discount     string     `json:"discount"`
	Total        string     `json:"total"`
	Status       string     `json:"status"`
	CreatedAt    string     `json:"created_at"`
}

func main() {
	var (
		databaseURL string
		outPath     string
		status      string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&outPath, "out", "orders.jsonl.gz", "output file path")
	flag.StringVar(&status, "status", "", "only export orders with this status (pending or paid)")
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

	if err := run(ctx, databaseURL, outPath, status); err != nil {
		slog.Error("export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("export completed successfully", slog.String("out", outPath))
}

func run(ctx context.Context, databaseURL, outPath, status string) error {
	var filter order.Filter
	if status != "" {
		st := order.Status(status)
		if !st.Valid() {
			return errors.Errorf("unknown status %q", status)
		}
		filter.Status = &st
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	repo := repository.NewOrderRepository(pool)

	orders, err := repo.List(ctx, filter)
	if err != nil {
		return errors.Wrap(err, "list orders")
	}

	slog.Info("exporting orders", slog.Int("count", len(orders)))

	f, err := os.Create(outPath)
	if err != nil {
		return errors.Wrapf(err, "create %s", outPath)
	}
	defer func() { _ = f.Close() }()

	gz := pgzip.NewWriter(f)

	// Producer encodes records, consumer drains them into the gzip stream.
	lines := make(chan []byte, 64)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(lines)
		for _, o := range orders {
			line, err := json.Marshal(toRecord(o))
			if err != nil {
				return errors.Wrapf(err, "encode order %d", o.ID)
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	g.Go(func() error {
		for line := range lines {
			if _, err := gz.Write(append(line, '\n')); err != nil {
				return errors.Wrap(err, "write line")
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return errors.Wrap(err, "close gzip stream")
	}
	return f.Close()
}

func toRecord(o order.Order) exportRecord {
	return exportRecord{
		ID:           o.ID,
		CustomerName: o.CustomerName,
		Address:      o.Address,
		Phone:        o.Phone,
		Email:        o.Email,
		Items:        o.Items,
		Subtotal:     o.Subtotal.String(),
		Discount:     o.Discount.String(),
		Total:        o.Total.String(),
		Status:       string(o.Status),
		CreatedAt:    o.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
