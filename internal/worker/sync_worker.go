package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"billbook/internal/amqp"
	"billbook/internal/export"
	"billbook/internal/store"

	"golang.org/x/sync/errgroup"
)

// SyncWorker mirrors bills into an external sheet. It consumes bill events
// from AMQP and additionally reconciles the full store on an interval so
// missed messages are recovered.
type SyncWorker struct {
	store       store.Store
	writer      export.BillWriter
	concurrency int
}

func NewSyncWorker(s store.Store, w export.BillWriter, concurrency int) *SyncWorker {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &SyncWorker{store: s, writer: w, concurrency: concurrency}
}

// HandleBillEvent processes a single bill event from AMQP.
func (w *SyncWorker) HandleBillEvent(ctx context.Context, msg *amqp.BillEventMessage) error {
	slog.InfoContext(ctx, "Processing bill event",
		"id", msg.ID,
		"action", msg.Action)

	if msg.Action == amqp.ActionDelete {
		if err := w.writer.ClearRow(ctx, msg.ID); err != nil {
			return fmt.Errorf("clear row for bill %s: %w", msg.ID, err)
		}
		return nil
	}

	bill, err := w.store.Get(ctx, msg.ID)
	if errors.Is(err, store.ErrNotFound) {
		// The bill was deleted between publish and delivery.
		slog.WarnContext(ctx, "Bill gone before sync, clearing row", "id", msg.ID)
		return w.writer.ClearRow(ctx, msg.ID)
	}
	if err != nil {
		return fmt.Errorf("get bill %s: %w", msg.ID, err)
	}

	switch msg.Action {
	case amqp.ActionAdd:
		if _, err := w.writer.Append(ctx, bill); err != nil {
			return fmt.Errorf("append bill %s: %w", msg.ID, err)
		}
	case amqp.ActionUpdate:
		if err := w.writer.UpdateRow(ctx, bill); err != nil {
			return fmt.Errorf("update row for bill %s: %w", msg.ID, err)
		}
	default:
		return fmt.Errorf("unknown action %q for bill %s", msg.Action, msg.ID)
	}
	return nil
}

// Reconcile pushes every stored bill to the sheet. Rows for existing bills
// are rewritten in place, so running it repeatedly is safe.
func (w *SyncWorker) Reconcile(ctx context.Context) error {
	bills, err := w.store.List(ctx)
	if err != nil {
		return fmt.Errorf("list bills: %w", err)
	}
	if len(bills) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Reconciling bills to sheet", "count", len(bills))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for _, bill := range bills {
		bill := bill
		g.Go(func() error {
			if err := w.writer.UpdateRow(ctx, bill); err != nil {
				return fmt.Errorf("reconcile bill %s: %w", bill.ID, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Run reconciles once at startup, then on every tick until ctx is done.
func (w *SyncWorker) Run(ctx context.Context, interval time.Duration) error {
	if err := w.Reconcile(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup reconcile failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Reconcile(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic reconcile failed", "error", err)
			}
		}
	}
}
