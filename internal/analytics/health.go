package analytics

import (
	"time"

	"masarif/internal/core"
)

const (
	StatusExcellent HealthStatus = "excellent"
	StatusGood      HealthStatus = "good"
	StatusFair      HealthStatus = "fair"
	StatusPoor      HealthStatus = "poor"
)

type (
	HealthStatus string

	// FinancialHealth is a bounded heuristic score with the tier and the
	// recommendations produced by the rules that fired.
	FinancialHealth struct {
		Score           int          `json:"score"`
		Status          HealthStatus `json:"status"`
		Recommendations []string     `json:"recommendations"`
	}
)

// SavingsRate returns (income - expenses) / income as a percentage, 0 when
// income is zero.
func SavingsRate(income, expenses core.Money) float64 {
	if income.Cents <= 0 {
		return 0
	}
	return float64(income.Cents-expenses.Cents) / float64(income.Cents) * 100
}

// FinancialHealthScore applies the fixed rule set and clamps to [0,100].
// The thresholds and deltas are tuned values; callers depend on them
// staying exactly as they are.
func FinancialHealthScore(transactions []core.Transaction, income, expenses core.Money, now time.Time) FinancialHealth {
	var recommendations []string
	score := 100

	savingsRate := SavingsRate(income, expenses)
	switch {
	case savingsRate < 0:
		score -= 30
		recommendations = append(recommendations,
			"You are spending more than you earn. Consider reducing expenses or increasing income.")
	case savingsRate < 10:
		score -= 15
		recommendations = append(recommendations,
			"Your savings rate is low. Try to save at least 10-20% of your income.")
	case savingsRate >= 20:
		score += 10
		recommendations = append(recommendations,
			"Great! You have a healthy savings rate.")
	}

	// Trailing 30 days, always divided by 30 regardless of how many days
	// actually carry expenses.
	cutoff := now.AddDate(0, 0, -30)
	var last30 int64
	var hasRecent bool
	for _, tx := range transactions {
		if tx.Type == core.Expense && !tx.Date.Before(cutoff) {
			last30 += tx.Amount.Cents
			hasRecent = true
		}
	}
	avgDailyExpense := 0.0
	if hasRecent {
		avgDailyExpense = float64(last30) / 30
	}
	if avgDailyExpense > float64(income.Cents)/30 {
		score -= 20
		recommendations = append(recommendations,
			"Your daily expenses exceed your daily income. Review your spending habits.")
	}

	categories := make(map[string]struct{})
	for _, tx := range transactions {
		categories[tx.Category] = struct{}{}
	}
	if len(categories) < 3 {
		score -= 10
		recommendations = append(recommendations,
			"Consider diversifying your spending categories for better tracking.")
	}

	if len(transactions) < 5 {
		score -= 5
		recommendations = append(recommendations,
			"Add more transactions to get better insights.")
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	if len(recommendations) == 0 {
		recommendations = []string{"Keep up the good work!"}
	}

	return FinancialHealth{
		Score:           score,
		Status:          statusFor(score),
		Recommendations: recommendations,
	}
}

func statusFor(score int) HealthStatus {
	switch {
	case score >= 80:
		return StatusExcellent
	case score >= 60:
		return StatusGood
	case score >= 40:
		return StatusFair
	default:
		return StatusPoor
	}
}
