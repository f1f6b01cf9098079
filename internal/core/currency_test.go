package core

import "testing"

func TestFormatAmountPlacement(t *testing.T) {
	cases := []struct {
		amount Money
		code   Currency
		want   string
	}{
		{Money{Cents: 1050}, USD, "$10.50"},
		{Money{Cents: 1050}, SAR, "10.50 ريال"},
		{Money{Cents: 1050}, EGP, "10.50 ج.م"},
		{Money{Cents: 5}, USD, "$0.05"},
		{Money{Cents: -2500}, SAR, "-25.00 ريال"},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.amount, tc.code); got != tc.want {
			t.Fatalf("FormatAmount(%d, %s) = %q, want %q", tc.amount.Cents, tc.code, got, tc.want)
		}
	}
}

func TestFormatAmountDeterministic(t *testing.T) {
	a := FormatAmount(Money{Cents: 123456}, EGP)
	b := FormatAmount(Money{Cents: 123456}, EGP)
	if a != b {
		t.Fatalf("formatting must be deterministic: %q != %q", a, b)
	}
}
