package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Expense BillType = "expense"
	Income  BillType = "income"
)

type (
	BillType string

	// Bill is a single income or expense record.
	Bill struct {
		ID       string          `json:"id"`
		Title    string          `json:"title"`
		Amount   decimal.Decimal `json:"amount"`
		Category string          `json:"category"`
		Type     BillType        `json:"type"`
		Date     Date            `json:"date"`
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidType   = errors.New("invalid bill type")
	ErrEmptyTitle    = errors.New("empty title")
	ErrEmptyCategory = errors.New("empty category")
)

// ParseBillType parses a bill type string, case-insensitively.
func ParseBillType(s string) (BillType, error) {
	switch BillType(strings.ToLower(strings.TrimSpace(s))) {
	case Expense:
		return Expense, nil
	case Income:
		return Income, nil
	}
	return "", ErrInvalidType
}

func (t BillType) Valid() bool {
	return t == Expense || t == Income
}

// Validate checks that the bill is complete enough to store. The amount must
// be strictly positive here: zero-coerced amounts are a store concern, a bill
// arriving through validation (the assistant path) must carry a real value.
func (b Bill) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return ErrEmptyTitle
	}
	if len(b.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if !b.Type.Valid() {
		return ErrInvalidType
	}
	if !b.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// Signed returns the amount with the sign implied by the bill type:
// negative for expenses, positive for income. The stored amount itself is
// always a non-negative magnitude.
func (b Bill) Signed() decimal.Decimal {
	if b.Type == Expense {
		return b.Amount.Neg()
	}
	return b.Amount
}
