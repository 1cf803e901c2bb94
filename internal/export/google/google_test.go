package google

import (
	"testing"

	"billbook/internal/core"

	"github.com/shopspring/decimal"
)

func TestYearPrefixedName(t *testing.T) {
	cases := []struct {
		base string
		year int
		want string
	}{
		{"Bills", 2026, "2026 Bills"},
		{"2025 Bills", 2026, "2025 Bills"},
		{"", 2026, ""},
		{"  Bills  ", 2026, "2026 Bills"},
	}
	for _, tc := range cases {
		if got := yearPrefixedName(tc.base, tc.year); got != tc.want {
			t.Errorf("yearPrefixedName(%q, %d) = %q, want %q", tc.base, tc.year, got, tc.want)
		}
	}
}

func TestBillRow(t *testing.T) {
	b := core.Bill{
		ID:       "1714521600000",
		Title:    "groceries",
		Amount:   decimal.NewFromFloat(35.5),
		Category: "food",
		Type:     core.Expense,
		Date:     core.NewDate(2024, 5, 1),
	}
	row := billRow(b)
	want := []any{"1714521600000", "2024-05-01", "groceries", "food", "expense", "35.50"}
	if len(row) != len(want) {
		t.Fatalf("row has %d columns, want %d", len(row), len(want))
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("column %d: %v, want %v", i, row[i], want[i])
		}
	}
}
