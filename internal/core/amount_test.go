package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"35.5", "35.5", true},
		{"35,5", "35.5", true},
		{"¥35.50", "35.5", true},
		{"12 €", "12", true},
		{" 0.01 ", "0.01", true},
		{"0", "0", true},
		{"", "", false},
		{"-5", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
	}
	for i, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("case %d (%q): unexpected error %v", i, tc.in, err)
			}
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("case %d (%q): got %s, want %s", i, tc.in, got, tc.want)
			}
			continue
		}
		if err == nil {
			t.Fatalf("case %d (%q): expected error, got %s", i, tc.in, got)
		}
	}
}

func TestAmountsClose(t *testing.T) {
	a := decimal.RequireFromString("35.5")
	if !AmountsClose(a, decimal.RequireFromString("35.509")) {
		t.Fatal("expected amounts within epsilon to match")
	}
	if AmountsClose(a, decimal.RequireFromString("35.52")) {
		t.Fatal("expected amounts beyond epsilon to differ")
	}
}
