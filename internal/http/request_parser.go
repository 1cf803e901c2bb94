package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"billbook/internal/core"
	"billbook/internal/filter"
	"billbook/internal/store"
)

// billPayload is the wire shape for creating a bill. All fields arrive as
// strings; the store applies its own coercion.
type billPayload struct {
	Title    string `json:"title"`
	Amount   string `json:"amount"`
	Category string `json:"category"`
	Type     string `json:"type"`
	Date     string `json:"date"`
}

func (p billPayload) toInput() store.Input {
	return store.Input{
		Title:    p.Title,
		Amount:   p.Amount,
		Category: p.Category,
		Type:     p.Type,
		Date:     p.Date,
	}
}

// patchPayload is the wire shape for partial updates. Absent fields stay nil
// and keep the stored value.
type patchPayload struct {
	Title    *string `json:"title"`
	Amount   *string `json:"amount"`
	Category *string `json:"category"`
	Type     *string `json:"type"`
	Date     *string `json:"date"`
}

func (p patchPayload) toPatch() store.Patch {
	return store.Patch{
		Title:    p.Title,
		Amount:   p.Amount,
		Category: p.Category,
		Type:     p.Type,
		Date:     p.Date,
	}
}

// parseFilterOptions reads start, end, type and category query parameters.
// Unlike bill dates, filter dates are strict: a malformed bound is an error
// rather than a silent fallback.
func parseFilterOptions(q url.Values) (filter.Options, error) {
	var opts filter.Options

	if v := strings.TrimSpace(q.Get("start")); v != "" {
		d, err := parseQueryDate(v)
		if err != nil {
			return filter.Options{}, fmt.Errorf("invalid start date %q", v)
		}
		opts.Start = &d
	}
	if v := strings.TrimSpace(q.Get("end")); v != "" {
		d, err := parseQueryDate(v)
		if err != nil {
			return filter.Options{}, fmt.Errorf("invalid end date %q", v)
		}
		opts.End = &d
	}
	if v := strings.TrimSpace(q.Get("type")); v != "" && v != filter.TypeAll {
		if _, err := core.ParseBillType(v); err != nil {
			return filter.Options{}, fmt.Errorf("invalid type %q", v)
		}
		opts.Type = v
	}
	opts.Category = strings.TrimSpace(q.Get("category"))
	return opts, nil
}

func parseQueryDate(v string) (core.Date, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return core.Date{}, err
	}
	return core.DateOf(t), nil
}

// parseYearMonth reads year and month parameters, defaulting to now.
func parseYearMonth(q url.Values, now time.Time) (int, int, error) {
	year := now.Year()
	month := int(now.Month())

	if v := strings.TrimSpace(q.Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1970 || y > 9999 {
			return 0, 0, fmt.Errorf("invalid year %q", v)
		}
		year = y
	}
	if v := strings.TrimSpace(q.Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, fmt.Errorf("invalid month %q", v)
		}
		month = m
	}
	return year, month, nil
}
