// Package stats computes derived aggregates over bill snapshots. Every
// function is pure: it takes a snapshot slice and returns fresh values,
// recomputed on each request. With a single user's local history that is
// cheaper than maintaining incremental aggregates.
package stats

import (
	"sort"

	"billbook/internal/core"

	"github.com/shopspring/decimal"
)

// Totals is an income/expense pair of summed magnitudes.
type Totals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

func (t *Totals) add(b core.Bill) {
	if b.Type == core.Income {
		t.Income = t.Income.Add(b.Amount)
	} else {
		t.Expense = t.Expense.Add(b.Amount)
	}
}

// MonthlyTotals sums amounts for bills falling in the given calendar month,
// split by type. An empty snapshot yields zero totals.
func MonthlyTotals(bills []core.Bill, year, month int) Totals {
	var t Totals
	for _, b := range bills {
		if b.Date.InMonth(year, month) {
			t.add(b)
		}
	}
	return t
}

// deltaSentinel is returned when the previous period is zero: there is no
// meaningful ratio, so the delta is pinned to +100%. Callers that care must
// special-case a genuinely zero previous period themselves.
var deltaSentinel = decimal.NewFromInt(100)

// PeriodDelta returns the period-over-period change as a percentage,
// (current-previous)/previous*100. A zero previous period yields the fixed
// sentinel 100 instead of a division by zero.
func PeriodDelta(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return deltaSentinel
	}
	return current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100))
}

// CategoryBreakdown sums expense amounts per category. Income is excluded.
func CategoryBreakdown(bills []core.Bill) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, b := range bills {
		if b.Type != core.Expense {
			continue
		}
		out[b.Category] = out[b.Category].Add(b.Amount)
	}
	return out
}

// CategoryTotal is one row of a ranked category breakdown.
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// TopCategories ranks the expense breakdown by summed amount, largest first,
// and keeps at most n entries. Ties break alphabetically so the order is
// stable. n <= 0 means no limit.
func TopCategories(bills []core.Bill, n int) []CategoryTotal {
	breakdown := CategoryBreakdown(bills)
	out := make([]CategoryTotal, 0, len(breakdown))
	for cat, amount := range breakdown {
		out = append(out, CategoryTotal{Category: cat, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].Category < out[j].Category
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// DayTotals is one day of a trend series.
type DayTotals struct {
	Date    core.Date       `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// GroupByCalendarDay buckets bills by their calendar date.
func GroupByCalendarDay(bills []core.Bill) map[core.Date]Totals {
	out := make(map[core.Date]Totals)
	for _, b := range bills {
		t := out[b.Date]
		t.add(b)
		out[b.Date] = t
	}
	return out
}

// MonthDaily returns the per-day trend series for a calendar month,
// ascending, covering only days that have records.
func MonthDaily(bills []core.Bill, year, month int) []DayTotals {
	var inMonth []core.Bill
	for _, b := range bills {
		if b.Date.InMonth(year, month) {
			inMonth = append(inMonth, b)
		}
	}
	buckets := GroupByCalendarDay(inMonth)
	out := make([]DayTotals, 0, len(buckets))
	for d, t := range buckets {
		out = append(out, DayTotals{Date: d, Income: t.Income, Expense: t.Expense})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// WeekDaily returns the rolling 7-day trend series ending at end, oldest
// first. Days without records are zero-filled so charts get a full window.
func WeekDaily(bills []core.Bill, end core.Date) []DayTotals {
	buckets := GroupByCalendarDay(bills)
	out := make([]DayTotals, 0, 7)
	for i := 6; i >= 0; i-- {
		d := end.AddDays(-i)
		t := buckets[d]
		out = append(out, DayTotals{Date: d, Income: t.Income, Expense: t.Expense})
	}
	return out
}
