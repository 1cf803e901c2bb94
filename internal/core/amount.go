// Package core holds the bill domain model shared by every other package.
//
// This file contains amount parsing. Amounts are non-negative decimal
// magnitudes; the sign of a bill is carried by its type, never by the number.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// amountEpsilon is the tolerance used when comparing amounts that may have
// passed through floating-point representations (chat-extracted values).
var amountEpsilon = decimal.NewFromFloat(0.01)

// ParseAmount parses a monetary magnitude from user or assistant input.
//
// Currency symbols, spaces and thousands separators are stripped before
// parsing, mirroring how loosely formatted the inputs are ("¥35.5",
// "35,5 €", " 35.50"). A comma is treated as a decimal separator only when
// no dot is present. Negative or unparsable values are an error; callers
// decide whether to coerce or reject.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	if !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" || strings.Count(cleaned, ".") > 1 {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// AmountsClose reports whether two amounts are equal within the epsilon used
// by the fuzzy title+amount lookup.
func AmountsClose(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(amountEpsilon)
}
