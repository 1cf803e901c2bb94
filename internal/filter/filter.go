// Package filter narrows bill snapshots by date range, type and category.
package filter

import (
	"billbook/internal/core"
)

// TypeAll matches both expenses and income.
const TypeAll = "all"

// Options are the filter constraints. Zero-valued fields bind nothing: a
// bill passes when it satisfies every constraint that is actually supplied.
type Options struct {
	Start    *core.Date
	End      *core.Date
	Type     string // "all", "expense" or "income"; empty means all
	Category string
}

// Apply returns the bills matching every supplied constraint, as a new
// slice in the input's order. The input is never mutated.
func Apply(bills []core.Bill, opts Options) []core.Bill {
	out := make([]core.Bill, 0, len(bills))
	for _, b := range bills {
		if matches(b, opts) {
			out = append(out, b)
		}
	}
	return out
}

func matches(b core.Bill, opts Options) bool {
	if opts.Start != nil && b.Date.Before(*opts.Start) {
		return false
	}
	if opts.End != nil && b.Date.After(*opts.End) {
		return false
	}
	if opts.Type != "" && opts.Type != TypeAll && string(b.Type) != opts.Type {
		return false
	}
	if opts.Category != "" && b.Category != opts.Category {
		return false
	}
	return true
}
