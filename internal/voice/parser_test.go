package voice

import (
	"testing"

	"masarif/internal/core"
)

func TestParseExpenseWithDigits(t *testing.T) {
	got := Parse("دفعت 50 ريال على مطعم")
	if got == nil {
		t.Fatal("expected a parsed transaction")
	}
	if got.Amount.Cents != 5000 {
		t.Fatalf("amount = %d, want 5000", got.Amount.Cents)
	}
	if got.Category != "طعام" {
		t.Fatalf("category = %s, want طعام", got.Category)
	}
	if got.Type != core.Expense {
		t.Fatalf("type = %s, want expense", got.Type)
	}
	if got.Description != "دفعت 50 ريال على مطعم" {
		t.Fatalf("description = %q", got.Description)
	}
}

func TestParseDecimalAmount(t *testing.T) {
	got := Parse("قهوة 12.5")
	if got == nil || got.Amount.Cents != 1250 {
		t.Fatalf("got %+v, want 12.50", got)
	}
	if got.Category != "طعام" {
		t.Fatalf("category = %s, want طعام", got.Category)
	}
}

func TestParseRoundsThirdDecimal(t *testing.T) {
	got := Parse("دفعت 12.345 على قهوة")
	if got == nil || got.Amount.Cents != 1235 {
		t.Fatalf("got %+v, want 1235 cents", got)
	}
}

func TestParseNumberWords(t *testing.T) {
	cases := []struct {
		text  string
		cents int64
	}{
		{"خمسين ريال بنزين", 5000},
		{"مئة ريال هدية", 10000},
		{"ألف ريال راتب", 100000},
	}
	for _, tc := range cases {
		got := Parse(tc.text)
		if got == nil || got.Amount.Cents != tc.cents {
			t.Fatalf("Parse(%q) = %+v, want %d cents", tc.text, got, tc.cents)
		}
	}
}

func TestParseIncomeKeywords(t *testing.T) {
	cases := []struct {
		text     string
		category string
	}{
		{"استلمت راتب 3000", "راتب"},
		{"مكافأة 500 من العمل", "عمل حر"}, // عمل matches before مكافأة in table order
		{"دخل استثمار 200", "راتب"},       // دخل is a راتب keyword
	}
	for _, tc := range cases {
		got := Parse(tc.text)
		if got == nil {
			t.Fatalf("Parse(%q) = nil", tc.text)
		}
		if got.Type != core.Income {
			t.Fatalf("Parse(%q).Type = %s, want income", tc.text, got.Type)
		}
		if got.Category != tc.category {
			t.Fatalf("Parse(%q).Category = %s, want %s", tc.text, got.Category, tc.category)
		}
	}
}

func TestParseFallbackCategory(t *testing.T) {
	got := Parse("صرفت 75 على أشياء متنوعة")
	if got == nil {
		t.Fatal("expected a parsed transaction")
	}
	if got.Category != FallbackCategory {
		t.Fatalf("category = %s, want %s", got.Category, FallbackCategory)
	}
	if got.Type != core.Expense {
		t.Fatalf("type = %s, want expense", got.Type)
	}
}

func TestParseRejectsUnusable(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"اشتريت شيئا ما", // no amount at all
		"دفعت 0 ريال",    // zero amount
	}
	for _, text := range cases {
		if got := Parse(text); got != nil {
			t.Fatalf("Parse(%q) = %+v, want nil", text, got)
		}
	}
}

func TestParseFirstCategoryWins(t *testing.T) {
	// سوق belongs to both طعام and تسوق keyword lists; table order
	// resolves to طعام.
	got := Parse("رحت السوق ب 30")
	if got == nil || got.Category != "طعام" {
		t.Fatalf("got %+v, want طعام", got)
	}
}
