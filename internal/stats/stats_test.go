package stats

import (
	"testing"

	"billbook/internal/core"

	"github.com/shopspring/decimal"
)

func bill(title, amount, category string, typ core.BillType, date string) core.Bill {
	return core.Bill{
		Title:    title,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Type:     typ,
		Date:     core.ParseDate(date),
	}
}

func TestMonthlyTotals(t *testing.T) {
	bills := []core.Bill{
		bill("Lunch", "10", "Food", core.Expense, "2024-05-01"),
		bill("Dinner", "20.5", "Food", core.Expense, "2024-05-15"),
		bill("Salary", "3000", "Work", core.Income, "2024-05-31"),
		bill("Old", "99", "Food", core.Expense, "2024-04-30"),
	}

	got := MonthlyTotals(bills, 2024, 5)
	if !got.Expense.Equal(decimal.RequireFromString("30.5")) {
		t.Fatalf("expense: got %s", got.Expense)
	}
	if !got.Income.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("income: got %s", got.Income)
	}
}

func TestMonthlyTotalsEmpty(t *testing.T) {
	got := MonthlyTotals(nil, 2024, 5)
	if !got.Income.IsZero() || !got.Expense.IsZero() {
		t.Fatalf("expected zero totals, got %+v", got)
	}
}

func TestPeriodDelta(t *testing.T) {
	cases := []struct {
		current, previous, want string
	}{
		{"150", "100", "50"},
		{"50", "100", "-50"},
		{"100", "100", "0"},
		// Zero previous pins the delta to the +100% sentinel, even when the
		// current period is zero as well.
		{"10", "0", "100"},
		{"0", "0", "100"},
	}
	for i, tc := range cases {
		got := PeriodDelta(decimal.RequireFromString(tc.current), decimal.RequireFromString(tc.previous))
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("case %d: got %s, want %s", i, got, tc.want)
		}
	}
}

func TestCategoryBreakdown(t *testing.T) {
	bills := []core.Bill{
		bill("Lunch", "10", "Food", core.Expense, "2024-05-01"),
		bill("Dinner", "5", "Food", core.Expense, "2024-05-02"),
		bill("Salary", "100", "Salary", core.Income, "2024-05-03"),
	}

	got := CategoryBreakdown(bills)
	if len(got) != 1 {
		t.Fatalf("expected income excluded, got %v", got)
	}
	if !got["Food"].Equal(decimal.NewFromInt(15)) {
		t.Fatalf("Food: got %s", got["Food"])
	}
}

func TestTopCategories(t *testing.T) {
	bills := []core.Bill{
		bill("a", "5", "Transport", core.Expense, "2024-05-01"),
		bill("b", "30", "Food", core.Expense, "2024-05-01"),
		bill("c", "10", "Fun", core.Expense, "2024-05-01"),
		bill("d", "10", "Books", core.Expense, "2024-05-01"),
	}

	got := TopCategories(bills, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if got[0].Category != "Food" {
		t.Fatalf("rank 0: got %s", got[0].Category)
	}
	// Amount tie breaks alphabetically.
	if got[1].Category != "Books" || got[2].Category != "Fun" {
		t.Fatalf("tie break: got %s, %s", got[1].Category, got[2].Category)
	}
}

func TestMonthDaily(t *testing.T) {
	bills := []core.Bill{
		bill("a", "10", "Food", core.Expense, "2024-05-03"),
		bill("b", "5", "Food", core.Expense, "2024-05-01"),
		bill("c", "7", "Work", core.Income, "2024-05-03"),
		bill("d", "99", "Food", core.Expense, "2024-06-01"),
	}

	got := MonthDaily(bills, 2024, 5)
	if len(got) != 2 {
		t.Fatalf("expected 2 days with records, got %d", len(got))
	}
	if !got[0].Date.Equal(core.NewDate(2024, 5, 1)) || !got[1].Date.Equal(core.NewDate(2024, 5, 3)) {
		t.Fatalf("order: got %s, %s", got[0].Date, got[1].Date)
	}
	if !got[1].Income.Equal(decimal.NewFromInt(7)) || !got[1].Expense.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("day totals: %+v", got[1])
	}
}

func TestWeekDaily(t *testing.T) {
	end := core.NewDate(2024, 5, 7)
	bills := []core.Bill{
		bill("a", "10", "Food", core.Expense, "2024-05-07"),
		bill("b", "5", "Food", core.Expense, "2024-05-01"),
		bill("old", "99", "Food", core.Expense, "2024-04-30"),
	}

	got := WeekDaily(bills, end)
	if len(got) != 7 {
		t.Fatalf("expected full 7-day window, got %d", len(got))
	}
	if !got[0].Date.Equal(core.NewDate(2024, 5, 1)) || !got[6].Date.Equal(end) {
		t.Fatalf("window bounds: %s .. %s", got[0].Date, got[6].Date)
	}
	if !got[0].Expense.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("first day: got %s", got[0].Expense)
	}
	// Day without records is zero-filled.
	if !got[1].Expense.IsZero() || !got[1].Income.IsZero() {
		t.Fatalf("expected zero fill: %+v", got[1])
	}
}

func TestGroupByDate(t *testing.T) {
	now := core.NewDate(2024, 5, 10) // a Friday
	bills := []core.Bill{
		bill("today1", "1", "c", core.Expense, "2024-05-10"),
		bill("today2", "2", "c", core.Expense, "2024-05-10"),
		bill("yesterday", "3", "c", core.Expense, "2024-05-09"),
		bill("weekday", "4", "c", core.Expense, "2024-05-06"),
		bill("older", "5", "c", core.Expense, "2024-04-01"),
	}

	got := GroupByDate(bills, now)
	if len(got) != 4 {
		t.Fatalf("expected 4 groups, got %d", len(got))
	}
	if got[0].Label != "today" || len(got[0].Bills) != 2 {
		t.Fatalf("group 0: %+v", got[0])
	}
	if got[1].Label != "yesterday" {
		t.Fatalf("group 1 label: %s", got[1].Label)
	}
	if got[2].Label != "Monday" {
		t.Fatalf("group 2 label: %s", got[2].Label)
	}
	if got[3].Label != "2024-04-01" {
		t.Fatalf("group 3 label: %s", got[3].Label)
	}
}
