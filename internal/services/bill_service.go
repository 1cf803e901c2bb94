// Package services orchestrates bill operations across the store and the
// event stream.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"billbook/internal/amqp"
	"billbook/internal/core"
	"billbook/internal/store"

	"github.com/shopspring/decimal"
)

// BillService mutates the store first, then publishes a bill event.
// Publishing is best effort: the local mutation already succeeded, so an
// event failure is logged and swallowed.
type BillService struct {
	store      store.Store
	amqpClient *amqp.Client
}

func NewBillService(s store.Store, amqpClient *amqp.Client) *BillService {
	return &BillService{
		store:      s,
		amqpClient: amqpClient,
	}
}

func (s *BillService) Create(ctx context.Context, in store.Input) (core.Bill, error) {
	bill, err := s.store.Add(ctx, in)
	if err != nil {
		return core.Bill{}, fmt.Errorf("add bill: %w", err)
	}

	s.publish(ctx, bill.ID, amqp.ActionAdd)
	return bill, nil
}

func (s *BillService) Update(ctx context.Context, id string, p store.Patch) (core.Bill, error) {
	bill, err := s.store.Update(ctx, id, p)
	if err != nil {
		return core.Bill{}, err
	}

	s.publish(ctx, id, amqp.ActionUpdate)
	return bill, nil
}

func (s *BillService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, id, amqp.ActionDelete)
	return nil
}

func (s *BillService) Get(ctx context.Context, id string) (core.Bill, error) {
	return s.store.Get(ctx, id)
}

func (s *BillService) List(ctx context.Context) ([]core.Bill, error) {
	return s.store.List(ctx)
}

func (s *BillService) FindByTitleAndAmount(ctx context.Context, title string, amount decimal.Decimal) (core.Bill, error) {
	return s.store.FindByTitleAndAmount(ctx, title, amount)
}

func (s *BillService) publish(ctx context.Context, id, action string) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishBillEvent(ctx, id, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish bill event",
			"id", id, "action", action, "error", err)
	}
}

// Close closes the store and AMQP connections.
func (s *BillService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close bill service: %v", errs)
	}
	return nil
}
