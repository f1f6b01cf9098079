package analytics

import (
	"testing"
	"time"

	"masarif/internal/core"
)

func TestSpendingTrendsMonthlyBuckets(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	txs := []core.Transaction{
		expenseAt(10000, "طعام", now.AddDate(0, 0, -10)), // current month bucket
		expenseAt(20000, "طعام", now.AddDate(0, -1, -10)),
		expenseAt(20000, "طعام", now.AddDate(0, -2, -10)),
	}

	trends := SpendingTrends(txs, now, PeriodMonth)
	if len(trends) != 6 {
		t.Fatalf("got %d buckets, want 6", len(trends))
	}

	last := trends[5]
	if last.Amount.Cents != 10000 {
		t.Fatalf("latest bucket amount = %d, want 10000", last.Amount.Cents)
	}
	if last.Trend != "down" || last.Change != -50 {
		t.Fatalf("latest bucket = %s %v, want down -50", last.Trend, last.Change)
	}
	if trends[4].Trend != "stable" {
		t.Fatalf("flat month classified %s, want stable", trends[4].Trend)
	}
	// First bucket has no predecessor.
	if trends[0].Trend != "stable" || trends[0].Change != 0 {
		t.Fatalf("first bucket = %s %v, want stable 0", trends[0].Trend, trends[0].Change)
	}
}

func TestSpendingTrendsPeriodCounts(t *testing.T) {
	now := time.Now()
	cases := []struct {
		period Period
		want   int
	}{
		{PeriodWeek, 4},
		{PeriodMonth, 6},
		{PeriodYear, 3},
		{Period("bogus"), 6}, // falls back to monthly
	}
	for _, tc := range cases {
		if got := len(SpendingTrends(nil, now, tc.period)); got != tc.want {
			t.Fatalf("%s: got %d buckets, want %d", tc.period, got, tc.want)
		}
	}
}

func TestMonthlyComparisons(t *testing.T) {
	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	thisMonth := time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2026, 7, 5, 0, 0, 0, 0, time.UTC)

	txs := []core.Transaction{
		{Type: core.Income, Amount: core.Money{Cents: 300000}, Category: "راتب", Date: thisMonth},
		expenseAt(100000, "طعام", thisMonth),
		expenseAt(50000, "طعام", lastMonth),
	}

	comparisons := MonthlyComparisons(txs, now, 6)
	if len(comparisons) != 6 {
		t.Fatalf("got %d months, want 6", len(comparisons))
	}

	current := comparisons[5]
	if current.Month != "Aug 2026" {
		t.Fatalf("newest month = %s, want Aug 2026", current.Month)
	}
	if current.Income.Cents != 300000 || current.Expenses.Cents != 100000 {
		t.Fatalf("current month totals = %d/%d", current.Income.Cents, current.Expenses.Cents)
	}
	if current.Savings.Cents != 200000 {
		t.Fatalf("savings = %d, want 200000", current.Savings.Cents)
	}
	if current.SavingsRate != 66.7 {
		t.Fatalf("savings rate = %v, want 66.7", current.SavingsRate)
	}

	prev := comparisons[4]
	if prev.Expenses.Cents != 50000 || prev.Income.Cents != 0 {
		t.Fatalf("previous month totals = %d/%d", prev.Income.Cents, prev.Expenses.Cents)
	}
	if prev.SavingsRate != 0 {
		t.Fatalf("zero-income month rate = %v, want 0", prev.SavingsRate)
	}
}
