package stats

import (
	"sort"

	"billbook/internal/core"
)

// DateGroup is a display grouping of bills sharing a calendar date, tagged
// with a human label.
type DateGroup struct {
	Date  core.Date   `json:"date"`
	Label string      `json:"label"`
	Bills []core.Bill `json:"bills"`
}

// GroupByDate groups bills by calendar date, most recent group first, and
// labels each group relative to now ("today", "yesterday", weekday name,
// full date once outside the week). Read-time only; the input is not
// mutated.
func GroupByDate(bills []core.Bill, now core.Date) []DateGroup {
	byDate := make(map[core.Date][]core.Bill)
	for _, b := range bills {
		byDate[b.Date] = append(byDate[b.Date], b)
	}

	out := make([]DateGroup, 0, len(byDate))
	for d, group := range byDate {
		out = append(out, DateGroup{Date: d, Label: DayLabel(d, now), Bills: group})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// DayLabel names a date relative to now.
func DayLabel(d, now core.Date) string {
	switch {
	case d.Equal(now):
		return "today"
	case d.Equal(now.AddDays(-1)):
		return "yesterday"
	case d.After(now.AddDays(-7)) && d.Before(now):
		return d.Weekday().String()
	default:
		return d.String()
	}
}
