package assistant

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestExtractCandidate(t *testing.T) {
	cases := []struct {
		name string
		text string
		ok   bool
		want string // title
	}{
		{
			"embedded in prose",
			`Sure! Here is your bill: {"title": "Lunch", "amount": 35.5, "category": "Food", "type": "expense", "date": "2024-05-01"} enjoy!`,
			true, "Lunch",
		},
		{
			"fenced code block",
			"```json\n{\"title\": \"Coffee\", \"amount\": \"4.50\", \"category\": \"Food\", \"type\": \"expense\", \"date\": \"2024-05-01\"}\n```",
			true, "Coffee",
		},
		{
			"braces inside string values",
			`{"title": "Rent {May}", "amount": "900", "category": "Home", "type": "expense", "date": ""}`,
			true, "Rent {May}",
		},
		{"no object", "Just a chatty reply with no data.", false, ""},
		{"unbalanced", `{"title": "Lunch", "amount":`, false, ""},
		{"not bill json", `[1, 2, 3]`, false, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractCandidate(tc.text)
			if ok != tc.ok {
				t.Fatalf("ok: got %v, want %v", ok, tc.ok)
			}
			if ok && got.Title != tc.want {
				t.Fatalf("title: got %q, want %q", got.Title, tc.want)
			}
		})
	}
}

func TestFlexAmount(t *testing.T) {
	// Number encoding.
	c, ok := ExtractCandidate(`{"title": "a", "amount": 35.5, "category": "c", "type": "expense"}`)
	if !ok {
		t.Fatal("extract failed")
	}
	got, err := c.ParsedAmount()
	if err != nil || !got.Equal(decimal.RequireFromString("35.5")) {
		t.Fatalf("number amount: %s, %v", got, err)
	}

	// String encoding.
	c, ok = ExtractCandidate(`{"title": "a", "amount": "12", "category": "c", "type": "expense"}`)
	if !ok {
		t.Fatal("extract failed")
	}
	got, err = c.ParsedAmount()
	if err != nil || !got.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("string amount: %s, %v", got, err)
	}
}

func TestCandidateValidate(t *testing.T) {
	valid := BillCandidate{Title: "Lunch", Amount: "35.5", Category: "Food", Type: "expense", Date: "2024-05-01"}
	bill, err := valid.Validate()
	if err != nil {
		t.Fatal(err)
	}
	if bill.Title != "Lunch" || !bill.Amount.Equal(decimal.RequireFromString("35.5")) {
		t.Fatalf("bill: %+v", bill)
	}

	bads := []BillCandidate{
		{Title: "", Amount: "1", Category: "c", Type: "expense"},
		{Title: "a", Amount: "0", Category: "c", Type: "expense"},
		{Title: "a", Amount: "oops", Category: "c", Type: "expense"},
		{Title: "a", Amount: "1", Category: "", Type: "expense"},
		{Title: "a", Amount: "1", Category: "c", Type: "loan"},
	}
	for i, c := range bads {
		if _, err := c.Validate(); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}
