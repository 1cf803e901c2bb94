package assistant

import (
	"encoding/json"
	"strings"

	"billbook/internal/core"

	"github.com/shopspring/decimal"
)

// BillCandidate is the wire shape the assistant's reply may embed. The
// amount tolerates both string and number encodings.
type BillCandidate struct {
	Title    string     `json:"title"`
	Amount   FlexAmount `json:"amount"`
	Category string     `json:"category"`
	Type     string     `json:"type"`
	Date     string     `json:"date"`
}

// FlexAmount accepts a JSON string or number.
type FlexAmount string

func (a *FlexAmount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = FlexAmount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = FlexAmount(n.String())
	return nil
}

// ExtractCandidate scans free text for the first balanced JSON object and
// decodes it as a bill candidate. The second return is false when no object
// is present or it does not decode.
func ExtractCandidate(text string) (BillCandidate, bool) {
	raw, ok := firstJSONObject(text)
	if !ok {
		return BillCandidate{}, false
	}
	var c BillCandidate
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return BillCandidate{}, false
	}
	return c, true
}

// Validate applies the chat-path policy: an incomplete or unparsable
// candidate is rejected outright, never coerced into the store.
func (c BillCandidate) Validate() (core.Bill, error) {
	amount, err := core.ParseAmount(string(c.Amount))
	if err != nil {
		return core.Bill{}, core.ErrInvalidAmount
	}
	if !amount.IsPositive() {
		return core.Bill{}, core.ErrInvalidAmount
	}
	billType, err := core.ParseBillType(c.Type)
	if err != nil {
		return core.Bill{}, err
	}
	bill := core.Bill{
		Title:    strings.TrimSpace(c.Title),
		Amount:   amount,
		Category: strings.TrimSpace(c.Category),
		Type:     billType,
		Date:     core.ParseDate(c.Date),
	}
	if err := bill.Validate(); err != nil {
		return core.Bill{}, err
	}
	return bill, nil
}

// ParsedAmount returns the candidate's amount without the full validation,
// for callers that only need the lookup key.
func (c BillCandidate) ParsedAmount() (decimal.Decimal, error) {
	return core.ParseAmount(string(c.Amount))
}

// firstJSONObject returns the first balanced top-level {...} span in text,
// respecting strings and escapes so braces inside values do not confuse the
// scan.
func firstJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
