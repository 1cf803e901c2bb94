package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"billbook/internal/core"
	"billbook/internal/stats"

	"github.com/shopspring/decimal"
)

type monthlyStatsResponse struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	Totals       stats.Totals    `json:"totals"`
	Previous     stats.Totals    `json:"previous"`
	ExpenseDelta decimal.Decimal `json:"expense_delta"`
	IncomeDelta  decimal.Decimal `json:"income_delta"`
}

// handleMonthlyStats returns the income and expense totals for a month,
// alongside the previous month and the percentage deltas between them.
func (s *Server) handleMonthlyStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	year, month, err := parseYearMonth(r.URL.Query(), s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := fmt.Sprintf("monthly:%d-%02d", year, month)
	if cached, ok := s.statsCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	bills, err := s.bills.List(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	prevYear, prevMonth := previousMonth(year, month)
	current := stats.MonthlyTotals(bills, year, month)
	previous := stats.MonthlyTotals(bills, prevYear, prevMonth)

	resp := monthlyStatsResponse{
		Year:         year,
		Month:        month,
		Totals:       current,
		Previous:     previous,
		ExpenseDelta: stats.PeriodDelta(current.Expense, previous.Expense),
		IncomeDelta:  stats.PeriodDelta(current.Income, previous.Income),
	}
	s.statsCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

// handleCategoryStats returns the expense breakdown by category, largest
// first. Scope defaults to the current month; limit bounds the list.
func (s *Server) handleCategoryStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	q := r.URL.Query()
	year, month, err := parseYearMonth(q, s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := 0
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", v))
			return
		}
	}

	key := fmt.Sprintf("categories:%d-%02d:%d", year, month, limit)
	if cached, ok := s.statsCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	bills, err := s.bills.List(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	var inMonth []core.Bill
	for _, b := range bills {
		if b.Date.InMonth(year, month) {
			inMonth = append(inMonth, b)
		}
	}

	resp := struct {
		Year       int                   `json:"year"`
		Month      int                   `json:"month"`
		Categories []stats.CategoryTotal `json:"categories"`
	}{year, month, stats.TopCategories(inMonth, limit)}

	s.statsCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

// handleDailyStats returns a per-day trend series. period=month gives the
// days of a calendar month that have records; period=week gives a
// zero-filled rolling window of 7 days ending at end (default today).
func (s *Server) handleDailyStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	q := r.URL.Query()
	period := strings.TrimSpace(q.Get("period"))
	if period == "" {
		period = "month"
	}

	var key string
	var compute func(bills []core.Bill) []stats.DayTotals

	switch period {
	case "month":
		year, month, err := parseYearMonth(q, s.now())
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		key = fmt.Sprintf("daily:month:%d-%02d", year, month)
		compute = func(bills []core.Bill) []stats.DayTotals {
			return stats.MonthDaily(bills, year, month)
		}

	case "week":
		end := core.DateOf(s.now())
		if v := strings.TrimSpace(q.Get("end")); v != "" {
			d, err := parseQueryDate(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid end date %q", v))
				return
			}
			end = d
		}
		key = "daily:week:" + end.String()
		compute = func(bills []core.Bill) []stats.DayTotals {
			return stats.WeekDaily(bills, end)
		}

	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid period %q", period))
		return
	}

	if cached, ok := s.statsCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	bills, err := s.bills.List(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	resp := struct {
		Period string            `json:"period"`
		Days   []stats.DayTotals `json:"days"`
	}{period, compute(bills)}

	s.statsCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

func previousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}
