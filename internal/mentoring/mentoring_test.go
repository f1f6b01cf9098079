package mentoring

import (
	"strings"
	"testing"

	"masarif/internal/analytics"
	"masarif/internal/core"
)

func TestGenerateTipsCappedAtFive(t *testing.T) {
	// Overspending, a dominant category, an increasing category and few
	// transactions fire four rules before the always-on general tip.
	insights := []analytics.CategoryInsight{
		{Category: "طعام", TotalAmount: core.Money{Cents: 50000}, Percentage: 50, Trend: analytics.TrendIncreasing},
		{Category: "ترفيه", TotalAmount: core.Money{Cents: 50000}, Percentage: 50, Trend: analytics.TrendStable},
	}
	tips := GenerateTips(nil, core.Money{Cents: 100000}, core.Money{Cents: 120000}, insights)

	if len(tips) != 5 {
		t.Fatalf("got %d tips, want 5", len(tips))
	}
	wantIDs := []string{"tip-1", "tip-3", "tip-4", "tip-5", "tip-7"}
	for i, id := range wantIDs {
		if tips[i].ID != id {
			t.Fatalf("tips[%d].ID = %s, want %s", i, tips[i].ID, id)
		}
	}
	if tips[0].Priority != PriorityHigh || !tips[0].Actionable {
		t.Fatalf("overspending tip must be high priority and actionable")
	}
}

func TestGenerateTipsHealthySaver(t *testing.T) {
	// 40% savings rate with enough transactions: emergency fund, general
	// and investment tips.
	txs := make([]core.Transaction, 12)
	tips := GenerateTips(txs, core.Money{Cents: 100000}, core.Money{Cents: 60000}, nil)

	wantIDs := []string{"tip-6", "tip-7", "tip-8"}
	if len(tips) != len(wantIDs) {
		t.Fatalf("got %d tips, want %d", len(tips), len(wantIDs))
	}
	for i, id := range wantIDs {
		if tips[i].ID != id {
			t.Fatalf("tips[%d].ID = %s, want %s", i, tips[i].ID, id)
		}
	}
	if tips[2].Actionable {
		t.Fatalf("investment tip is not actionable")
	}
}

func TestGenerateTipsTopCategoryMessage(t *testing.T) {
	insights := []analytics.CategoryInsight{
		{Category: "طعام", TotalAmount: core.Money{Cents: 45000}, Percentage: 45.4},
	}
	txs := make([]core.Transaction, 12)
	tips := GenerateTips(txs, core.Money{Cents: 100000}, core.Money{Cents: 85000}, insights)

	var found bool
	for _, tip := range tips {
		if tip.ID == "tip-3" {
			found = true
			if !strings.Contains(tip.Description, "45% of your budget on طعام") {
				t.Fatalf("unexpected description: %s", tip.Description)
			}
		}
	}
	if !found {
		t.Fatalf("dominant-category tip missing: %v", tips)
	}
}

func TestBudgetRecommendations(t *testing.T) {
	income := core.Money{Cents: 100000}
	insights := []analytics.CategoryInsight{
		// Needs: allowance 100000*0.5*0.4 = 20000; 30000 > 24000 -> flagged.
		{Category: "فواتير", TotalAmount: core.Money{Cents: 30000}, Percentage: 40},
		// Wants: allowance 100000*0.3*0.3 = 9000; 10000 < 10800 -> ok.
		{Category: "ترفيه", TotalAmount: core.Money{Cents: 10000}, Percentage: 30},
		// Outside both sets: never flagged.
		{Category: "طعام", TotalAmount: core.Money{Cents: 90000}, Percentage: 30},
	}

	recs := BudgetRecommendations(income, insights)
	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1: %+v", len(recs), recs)
	}
	rec := recs[0]
	if rec.Category != "فواتير" {
		t.Fatalf("category = %s, want فواتير", rec.Category)
	}
	if rec.RecommendedBudget.Cents != 20000 {
		t.Fatalf("recommended = %d, want 20000", rec.RecommendedBudget.Cents)
	}
	if !strings.Contains(rec.Reason, "50% of income") {
		t.Fatalf("unexpected reason: %s", rec.Reason)
	}
}

func TestBudgetRecommendationsWantsOverspend(t *testing.T) {
	income := core.Money{Cents: 100000}
	insights := []analytics.CategoryInsight{
		{Category: "تسوق", TotalAmount: core.Money{Cents: 50000}, Percentage: 100},
	}
	recs := BudgetRecommendations(income, insights)
	if len(recs) != 1 || !strings.Contains(recs[0].Reason, "30% of income") {
		t.Fatalf("wants overspend not flagged: %+v", recs)
	}
}

func TestMotivationalMessage(t *testing.T) {
	cases := []struct {
		status   analytics.HealthStatus
		language string
		want     string
	}{
		{analytics.StatusExcellent, "en", "Excellent! You are managing your finances very well. Keep it up!"},
		{analytics.StatusExcellent, "ar", "ممتاز! أنت تدير أموالك بشكل رائع. استمر في هذا النهج!"},
		{analytics.StatusPoor, "en", "Your financial situation needs improvement. Start by creating a budget and sticking to it."},
		{analytics.HealthStatus("unknown"), "ar", "ابدأ بتتبع مصروفاتك للحصول على رؤى أفضل."},
	}
	for _, tc := range cases {
		if got := MotivationalMessage(tc.status, tc.language); got != tc.want {
			t.Fatalf("MotivationalMessage(%s, %s) = %q", tc.status, tc.language, got)
		}
	}
}
