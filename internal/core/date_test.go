package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d := ParseDate("2024-05-01")
	if d.Year() != 2024 || d.Month() != 5 || d.Day() != 1 {
		t.Fatalf("got %s", d)
	}

	rfc := ParseDate("2024-05-01T18:30:00Z")
	if !rfc.Equal(NewDate(2024, 5, 1)) {
		t.Fatalf("rfc3339: got %s", rfc)
	}

	// Absent or garbage input falls back to today, never an error.
	today := Today()
	for _, in := range []string{"", "today", "not-a-date", "32/13/2024"} {
		if got := ParseDate(in); !got.Equal(today) {
			t.Fatalf("ParseDate(%q) = %s, want %s", in, got, today)
		}
	}
}

func TestDateOfTruncates(t *testing.T) {
	d := DateOf(time.Date(2024, 5, 1, 23, 59, 58, 0, time.UTC))
	if !d.Equal(NewDate(2024, 5, 1)) {
		t.Fatalf("got %s", d)
	}
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2024, 5, 1))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2024-05-01"` {
		t.Fatalf("marshal: got %s", b)
	}

	var d Date
	if err := json.Unmarshal([]byte(`"2024-05-01"`), &d); err != nil {
		t.Fatal(err)
	}
	if !d.Equal(NewDate(2024, 5, 1)) {
		t.Fatalf("unmarshal: got %s", d)
	}
}

func TestDateInMonth(t *testing.T) {
	d := NewDate(2024, 5, 31)
	if !d.InMonth(2024, 5) {
		t.Fatal("expected in month")
	}
	if d.InMonth(2024, 6) || d.InMonth(2023, 5) {
		t.Fatal("expected out of month")
	}
}
