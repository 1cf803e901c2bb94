package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseBillType(t *testing.T) {
	cases := []struct {
		in   string
		want BillType
		ok   bool
	}{
		{"expense", Expense, true},
		{"income", Income, true},
		{"EXPENSE", Expense, true},
		{" Income ", Income, true},
		{"transfer", "", false},
		{"", "", false},
	}
	for i, tc := range cases {
		got, err := ParseBillType(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("case %d: got %q, %v", i, got, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d: expected error for %q", i, tc.in)
		}
	}
}

func TestBillValidate(t *testing.T) {
	good := Bill{
		Title:    "Lunch",
		Amount:   decimal.RequireFromString("35.5"),
		Category: "Food",
		Type:     Expense,
		Date:     NewDate(2024, 5, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Bill{
		{Title: "", Amount: decimal.NewFromInt(1), Category: "c", Type: Expense},
		{Title: "a", Amount: decimal.NewFromInt(1), Category: "", Type: Expense},
		{Title: "a", Amount: decimal.NewFromInt(1), Category: "c", Type: "transfer"},
		{Title: "a", Amount: decimal.Zero, Category: "c", Type: Income},
		{Title: "a", Amount: decimal.NewFromInt(-5), Category: "c", Type: Income},
	}
	for i, b := range bads {
		if err := b.Validate(); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func TestBillSigned(t *testing.T) {
	amount := decimal.RequireFromString("12.50")
	exp := Bill{Amount: amount, Type: Expense}
	if !exp.Signed().Equal(amount.Neg()) {
		t.Fatalf("expense sign: got %s", exp.Signed())
	}
	inc := Bill{Amount: amount, Type: Income}
	if !inc.Signed().Equal(amount) {
		t.Fatalf("income sign: got %s", inc.Signed())
	}
}
