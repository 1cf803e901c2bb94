// Package store persists bill records and implements the lookup heuristics
// the assistant relies on. Two backends exist behind the same interface: a
// single-blob JSON file store and a SQLite repository.
package store

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"billbook/internal/core"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned for lookups, updates and deletes on unknown ids.
var ErrNotFound = errors.New("bill not found")

// Store is the persistence contract for bill records.
type Store interface {
	// Add normalizes the input, assigns a fresh id, persists and returns
	// the created record.
	Add(ctx context.Context, in Input) (core.Bill, error)

	// Update merges the patch over the existing record. Fields absent from
	// the patch are preserved. Returns ErrNotFound for unknown ids.
	Update(ctx context.Context, id string, p Patch) (core.Bill, error)

	// Delete removes the record. Returns ErrNotFound if no record matched.
	Delete(ctx context.Context, id string) error

	// Get looks up a single record by id.
	Get(ctx context.Context, id string) (core.Bill, error)

	// List returns a snapshot of all records, most recent date first.
	// The sort is a read-time view; stored order is never touched.
	List(ctx context.Context) ([]core.Bill, error)

	// FindByTitleAndAmount locates the bill a natural-language edit refers
	// to: exact title match, amount equal within epsilon, most recent date
	// wins when several match. Best-effort only.
	FindByTitleAndAmount(ctx context.Context, title string, amount decimal.Decimal) (core.Bill, error)

	Close() error
}

// Input carries raw field values for Add. Amount, Type and Date arrive as
// strings and are normalized at write time.
type Input struct {
	Title    string
	Amount   string
	Category string
	Type     string
	Date     string
}

// Patch carries partial field values for Update. Nil fields keep the
// existing value.
type Patch struct {
	Title    *string
	Amount   *string
	Category *string
	Type     *string
	Date     *string
}

// normalize applies the single write-time coercion policy: a bad amount
// becomes zero, a bad type becomes expense, a bad date becomes today.
// Invalid direct-edit input is coerced, never rejected; strict validation
// belongs to the assistant path (core.Bill.Validate).
func normalize(in Input) core.Bill {
	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		slog.Warn("Coercing unparsable amount to zero", "amount", in.Amount)
		amount = decimal.Zero
	}
	billType, err := core.ParseBillType(in.Type)
	if err != nil {
		slog.Warn("Coercing unknown bill type to expense", "type", in.Type)
		billType = core.Expense
	}
	return core.Bill{
		Title:    strings.TrimSpace(in.Title),
		Amount:   amount,
		Category: strings.TrimSpace(in.Category),
		Type:     billType,
		Date:     core.ParseDate(in.Date),
	}
}

// merge applies the patch over an existing record, re-normalizing the
// amount and date the same way Add does.
func merge(b core.Bill, p Patch) core.Bill {
	if p.Title != nil {
		b.Title = strings.TrimSpace(*p.Title)
	}
	if p.Amount != nil {
		amount, err := core.ParseAmount(*p.Amount)
		if err != nil {
			slog.Warn("Keeping previous amount for unparsable patch value", "amount", *p.Amount, "id", b.ID)
		} else {
			b.Amount = amount
		}
	}
	if p.Category != nil {
		b.Category = strings.TrimSpace(*p.Category)
	}
	if p.Type != nil {
		if billType, err := core.ParseBillType(*p.Type); err == nil {
			b.Type = billType
		} else {
			slog.Warn("Keeping previous type for unknown patch value", "type", *p.Type, "id", b.ID)
		}
	}
	if p.Date != nil {
		b.Date = core.ParseDate(*p.Date)
	}
	return b
}

// nextID returns a millisecond-timestamp id, bumped past the previous one so
// ids stay unique and monotonic within a session.
func nextID(last string) string {
	id := time.Now().UnixMilli()
	if prev, err := strconv.ParseInt(last, 10, 64); err == nil && id <= prev {
		id = prev + 1
	}
	return strconv.FormatInt(id, 10)
}

// bestMatch implements the fuzzy edit-target heuristic shared by both
// backends: exact title, amount within epsilon, latest date wins.
func bestMatch(bills []core.Bill, title string, amount decimal.Decimal) (core.Bill, bool) {
	title = strings.TrimSpace(title)
	var found core.Bill
	ok := false
	for _, b := range bills {
		if b.Title != title || !core.AmountsClose(b.Amount, amount) {
			continue
		}
		if !ok || b.Date.After(found.Date) {
			found = b
			ok = true
		}
	}
	return found, ok
}
