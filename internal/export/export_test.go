package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"masarif/internal/core"
)

func sampleTransactions() []core.Transaction {
	return []core.Transaction{
		{
			ID:          "1",
			Type:        core.Expense,
			Amount:      core.Money{Cents: 5050},
			Category:    "طعام",
			Description: "غداء",
			Date:        time.Date(2026, 8, 20, 13, 30, 0, 0, time.UTC),
			Currency:    core.USD,
		},
		{
			ID:          "2",
			Type:        core.Income,
			Amount:      core.Money{Cents: 300000},
			Category:    "راتب",
			Description: "أغسطس",
			Date:        time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		},
	}
}

func TestToCSVHeaderOnlyWhenEmpty(t *testing.T) {
	got := ToCSV(nil, core.SAR)
	if got != "Date,Type,Amount,Category,Description,Currency" {
		t.Fatalf("empty export = %q", got)
	}
}

func TestToCSVRows(t *testing.T) {
	got := ToCSV(sampleTransactions(), core.SAR)
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[1] != `"2026-08-20T13:30:00.000Z","expense","50.5","طعام","غداء","USD"` {
		t.Fatalf("row 1 = %s", lines[1])
	}
	// Missing transaction currency inherits the store currency.
	if !strings.HasSuffix(lines[2], `"SAR"`) {
		t.Fatalf("row 2 = %s", lines[2])
	}
}

func TestToCSVEscapesQuotes(t *testing.T) {
	txs := []core.Transaction{{
		Type:        core.Expense,
		Amount:      core.Money{Cents: 100},
		Category:    "x",
		Description: `say "hi"`,
		Date:        time.Unix(0, 0).UTC(),
	}}
	got := ToCSV(txs, core.SAR)
	if !strings.Contains(got, `"say ""hi"""`) {
		t.Fatalf("quotes not escaped: %s", got)
	}
}

func TestToJSONRoundTrip(t *testing.T) {
	content, err := ToJSON(sampleTransactions())
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if !strings.HasPrefix(content, "[\n  {") {
		t.Fatalf("expected indented array, got %q", content[:20])
	}

	var decoded []core.Transaction
	if err := json.Unmarshal([]byte(content), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Amount.Cents != 5050 {
		t.Fatalf("round trip lost data: %+v", decoded)
	}
}

func TestToJSONEmptyList(t *testing.T) {
	content, err := ToJSON(nil)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if content != "[]" {
		t.Fatalf("empty export = %q, want []", content)
	}
}

func TestToTextArabic(t *testing.T) {
	txs := sampleTransactions()
	totals := core.ComputeTotals(txs)
	got := ToText(txs, core.SAR, totals, "ar")

	for _, want := range []string{
		"ملخص المعاملات المالية",
		"إجمالي المدخلات: 3000.00 ريال",
		"إجمالي المصروفات: 50.50 ريال",
		"عدد المعاملات: 2",
		strings.Repeat("=", 50),
		"1. مصروف",
		"المبلغ: $50.50", // transaction's own currency wins
		"2. مدخل",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in:\n%s", want, got)
		}
	}
}

func TestToTextEnglishEmpty(t *testing.T) {
	got := ToText(nil, core.USD, core.Totals{}, "en")
	for _, want := range []string{
		"Financial Transactions Summary",
		"Total Income: $0.00",
		"Total Transactions: 0",
		"No transactions",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in:\n%s", want, got)
		}
	}
}

func TestRenderMetadata(t *testing.T) {
	cases := []struct {
		format   Format
		language string
		title    string
		mime     string
	}{
		{FormatCSV, "en", "Financial Transactions.csv", "text/csv"},
		{FormatCSV, "ar", "المعاملات المالية.csv", "text/csv"},
		{FormatJSON, "en", "Financial Transactions.json", "application/json"},
		{FormatText, "ar", "ملخص المعاملات المالية", "text/plain"},
		{Format("bogus"), "en", "Financial Transactions Summary", "text/plain"},
	}
	for _, tc := range cases {
		doc, err := Render(nil, core.SAR, core.Totals{}, tc.language, tc.format)
		if err != nil {
			t.Fatalf("Render(%s): %v", tc.format, err)
		}
		if doc.Title != tc.title || doc.MIMEType != tc.mime {
			t.Fatalf("Render(%s, %s) = %q %q", tc.format, tc.language, doc.Title, doc.MIMEType)
		}
	}
}
