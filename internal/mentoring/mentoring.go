// Package mentoring turns analytics output into advice: prioritized tips,
// budget recommendations following the 50/30/20 rule and a motivational
// message per health tier.
package mentoring

import (
	"fmt"
	"math"
	"strings"

	"masarif/internal/analytics"
	"masarif/internal/core"
)

const (
	CategorySaving     TipCategory = "saving"
	CategorySpending   TipCategory = "spending"
	CategoryBudgeting  TipCategory = "budgeting"
	CategoryInvestment TipCategory = "investment"
	CategoryGeneral    TipCategory = "general"

	PriorityHigh   TipPriority = "high"
	PriorityMedium TipPriority = "medium"
	PriorityLow    TipPriority = "low"
)

// maxTips caps the generated list; rules earlier in the sequence win.
const maxTips = 5

type (
	TipCategory string
	TipPriority string

	FinancialTip struct {
		ID          string      `json:"id"`
		Title       string      `json:"title"`
		Description string      `json:"description"`
		Category    TipCategory `json:"category"`
		Priority    TipPriority `json:"priority"`
		Actionable  bool        `json:"actionable"`
	}

	BudgetRecommendation struct {
		Category          string     `json:"category"`
		CurrentSpending   core.Money `json:"currentSpending"`
		RecommendedBudget core.Money `json:"recommendedBudget"`
		Reason            string     `json:"reason"`
	}
)

// GenerateTips evaluates the rule sequence in fixed order and returns at
// most five tips. Tip ids are stable per rule, not per call.
func GenerateTips(
	transactions []core.Transaction,
	income, expenses core.Money,
	insights []analytics.CategoryInsight,
) []FinancialTip {
	var tips []FinancialTip

	savingsRate := analytics.SavingsRate(income, expenses)
	if savingsRate < 0 {
		tips = append(tips, FinancialTip{
			ID:          "tip-1",
			Title:       "Reduce Overspending",
			Description: "You are spending more than you earn. Create a budget and stick to it. Consider cutting non-essential expenses.",
			Category:    CategoryBudgeting,
			Priority:    PriorityHigh,
			Actionable:  true,
		})
	} else if savingsRate < 10 {
		tips = append(tips, FinancialTip{
			ID:          "tip-2",
			Title:       "Increase Savings Rate",
			Description: "Aim to save at least 10-20% of your income. Start by saving small amounts regularly.",
			Category:    CategorySaving,
			Priority:    PriorityHigh,
			Actionable:  true,
		})
	}

	if len(insights) > 0 && insights[0].Percentage > 40 {
		top := insights[0]
		tips = append(tips, FinancialTip{
			ID:    "tip-3",
			Title: fmt.Sprintf("Review %s Spending", top.Category),
			Description: fmt.Sprintf(
				"You're spending %d%% of your budget on %s. Consider if this aligns with your priorities.",
				int(math.Round(top.Percentage)), top.Category),
			Category:   CategorySpending,
			Priority:   PriorityMedium,
			Actionable: true,
		})
	}

	var increasing []string
	for _, in := range insights {
		if in.Trend == analytics.TrendIncreasing {
			increasing = append(increasing, in.Category)
		}
	}
	if len(increasing) > 0 {
		tips = append(tips, FinancialTip{
			ID:    "tip-4",
			Title: "Monitor Increasing Expenses",
			Description: fmt.Sprintf(
				"Your spending on %s is increasing. Review these categories to ensure they're necessary.",
				strings.Join(increasing, ", ")),
			Category:   CategorySpending,
			Priority:   PriorityMedium,
			Actionable: true,
		})
	}

	if len(transactions) < 10 {
		tips = append(tips, FinancialTip{
			ID:          "tip-5",
			Title:       "Track More Transactions",
			Description: "Tracking more transactions helps you understand your spending patterns better. Try to log all expenses.",
			Category:    CategoryBudgeting,
			Priority:    PriorityLow,
			Actionable:  true,
		})
	}

	if savingsRate > 20 {
		tips = append(tips, FinancialTip{
			ID:          "tip-6",
			Title:       "Build Emergency Fund",
			Description: "Great savings rate! Consider building an emergency fund covering 3-6 months of expenses.",
			Category:    CategorySaving,
			Priority:    PriorityMedium,
			Actionable:  true,
		})
	}

	tips = append(tips, FinancialTip{
		ID:          "tip-7",
		Title:       "Review Monthly Reports",
		Description: "Regularly review your spending reports to identify trends and areas for improvement.",
		Category:    CategoryGeneral,
		Priority:    PriorityLow,
		Actionable:  true,
	})

	if income.Cents > 0 && float64(expenses.Cents)/float64(income.Cents) < 0.7 {
		tips = append(tips, FinancialTip{
			ID:          "tip-8",
			Title:       "Consider Investments",
			Description: "You have a good savings rate. Consider investing your savings to grow your wealth over time.",
			Category:    CategoryInvestment,
			Priority:    PriorityLow,
			Actionable:  false,
		})
	}

	if len(tips) > maxTips {
		tips = tips[:maxTips]
	}
	return tips
}

// 50/30/20 category sets. Categories outside both sets never produce a
// recommendation.
var (
	needsCategories = map[string]struct{}{
		"فواتير":  {},
		"صحة":     {},
		"مواصلات": {},
	}
	wantsCategories = map[string]struct{}{
		"ترفيه": {},
		"تسوق":  {},
		"ملابس": {},
	}
)

// BudgetRecommendations flags needs and wants categories whose spending
// exceeds their 50/30/20 allowance by more than 20%. The allowance scales
// with the category's share of window spending.
func BudgetRecommendations(income core.Money, insights []analytics.CategoryInsight) []BudgetRecommendation {
	var recommendations []BudgetRecommendation

	for _, in := range insights {
		var share float64
		var reason string
		if _, ok := needsCategories[in.Category]; ok {
			share = 0.5
			reason = "Needs should not exceed 50% of income. Consider reducing this category."
		} else if _, ok := wantsCategories[in.Category]; ok {
			share = 0.3
			reason = "Wants should not exceed 30% of income. Try to reduce discretionary spending."
		} else {
			continue
		}

		recommended := float64(income.Cents) * share * (in.Percentage / 100)
		if float64(in.TotalAmount.Cents) > recommended*1.2 {
			recommendations = append(recommendations, BudgetRecommendation{
				Category:          in.Category,
				CurrentSpending:   in.TotalAmount,
				RecommendedBudget: core.Money{Cents: int64(math.Round(recommended))},
				Reason:            reason,
			})
		}
	}
	return recommendations
}

// MotivationalMessage maps the health tier to a fixed message in the
// requested language. Anything other than "en" gets Arabic.
func MotivationalMessage(status analytics.HealthStatus, language string) string {
	arabic := language != "en"

	switch status {
	case analytics.StatusExcellent:
		if arabic {
			return "ممتاز! أنت تدير أموالك بشكل رائع. استمر في هذا النهج!"
		}
		return "Excellent! You are managing your finances very well. Keep it up!"
	case analytics.StatusGood:
		if arabic {
			return "جيد! أنت على الطريق الصحيح. يمكنك تحسين الوضع أكثر."
		}
		return "Good! You are on the right track. You can improve further."
	case analytics.StatusFair:
		if arabic {
			return "لا بأس، لكن هناك مجال للتحسين. راجع مصروفاتك وابدأ في التوفير."
		}
		return "Not bad, but there is room for improvement. Review your expenses and start saving."
	case analytics.StatusPoor:
		if arabic {
			return "يحتاج وضعك المالي إلى تحسين. ابدأ بإنشاء ميزانية والتزم بها."
		}
		return "Your financial situation needs improvement. Start by creating a budget and sticking to it."
	default:
		if arabic {
			return "ابدأ بتتبع مصروفاتك للحصول على رؤى أفضل."
		}
		return "Start tracking your expenses to get better insights."
	}
}
