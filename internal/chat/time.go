package chat

import (
	"fmt"
	"time"
)

// DividerThreshold is the gap between consecutive messages beyond which the
// transcript view inserts a time divider.
const DividerThreshold = 15 * time.Minute

// ShouldShowTimeDivider reports whether a divider belongs before the current
// message. A zero last timestamp means there is no previous message, which
// always gets a divider.
func ShouldShowTimeDivider(last, current time.Time) bool {
	if last.IsZero() {
		return true
	}
	return current.Sub(last) > DividerThreshold
}

// FormatRelativeTime renders a timestamp the way the transcript shows it:
// "today 14:05", "yesterday 09:30", "May 1" within the current year, and the
// full date otherwise.
func FormatRelativeTime(t, now time.Time) string {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterday := today.AddDate(0, 0, -1)

	switch {
	case !t.Before(today):
		return fmt.Sprintf("today %s", t.Format("15:04"))
	case !t.Before(yesterday):
		return fmt.Sprintf("yesterday %s", t.Format("15:04"))
	case t.Year() == now.Year():
		return t.Format("Jan 2")
	default:
		return t.Format("Jan 2, 2006")
	}
}
