package analytics

import (
	"fmt"
	"math"
	"time"

	"masarif/internal/core"
)

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

type (
	Period string

	// SpendingTrend is one period's expense total with the change against
	// the previous period.
	SpendingTrend struct {
		Period string     `json:"period"`
		Amount core.Money `json:"amount"`
		Change float64    `json:"change"`
		Trend  string     `json:"trend"`
	}

	// MonthlyComparison summarizes one calendar month.
	MonthlyComparison struct {
		Month       string     `json:"month"`
		Income      core.Money `json:"income"`
		Expenses    core.Money `json:"expenses"`
		Savings     core.Money `json:"savings"`
		SavingsRate float64    `json:"savingsRate"`
	}
)

func (p Period) Valid() bool {
	return p == PeriodWeek || p == PeriodMonth || p == PeriodYear
}

// SpendingTrends buckets expense totals into consecutive periods ending at
// now (4 weeks, 6 months or 3 years) and classifies the change against the
// previous bucket: above +5% up, below -5% down, else stable. The first
// bucket compares against itself and is always stable.
func SpendingTrends(transactions []core.Transaction, now time.Time, period Period) []SpendingTrend {
	var periods int
	switch period {
	case PeriodWeek:
		periods = 4
	case PeriodYear:
		periods = 3
	default:
		period = PeriodMonth
		periods = 6
	}

	type bucketTotal struct {
		start  time.Time
		amount int64
	}
	buckets := make([]bucketTotal, 0, periods)

	for i := periods - 1; i >= 0; i-- {
		var start, end time.Time
		switch period {
		case PeriodWeek:
			start = now.AddDate(0, 0, -(i+1)*7)
			end = now.AddDate(0, 0, -i*7)
		case PeriodYear:
			start = now.AddDate(-(i + 1), 0, 0)
			end = now.AddDate(-i, 0, 0)
		default:
			start = now.AddDate(0, -(i + 1), 0)
			end = now.AddDate(0, -i, 0)
		}

		var total int64
		for _, tx := range transactions {
			if tx.Type != core.Expense {
				continue
			}
			if !tx.Date.Before(start) && tx.Date.Before(end) {
				total += tx.Amount.Cents
			}
		}
		buckets = append(buckets, bucketTotal{start: start, amount: total})
	}

	trends := make([]SpendingTrend, 0, len(buckets))
	for i, b := range buckets {
		previous := b.amount
		if i > 0 {
			previous = buckets[i-1].amount
		}
		change := 0.0
		if previous > 0 {
			change = float64(b.amount-previous) / float64(previous) * 100
		}

		trend := "stable"
		if change > 5 {
			trend = "up"
		} else if change < -5 {
			trend = "down"
		}

		trends = append(trends, SpendingTrend{
			Period: periodLabel(period, b.start, now),
			Amount: core.Money{Cents: b.amount},
			Change: math.Round(change*10) / 10,
			Trend:  trend,
		})
	}
	return trends
}

func periodLabel(period Period, start, now time.Time) string {
	switch period {
	case PeriodWeek:
		weeks := int(math.Ceil(now.Sub(start).Hours() / (24 * 7)))
		return fmt.Sprintf("Week %d", weeks)
	case PeriodYear:
		return fmt.Sprintf("%d", start.Year())
	default:
		return start.Format("Jan 2006")
	}
}

// MonthlyComparisons returns per-calendar-month income/expense/savings for
// the trailing months, oldest first.
func MonthlyComparisons(transactions []core.Transaction, now time.Time, months int) []MonthlyComparison {
	if months <= 0 {
		months = 6
	}

	comparisons := make([]MonthlyComparison, 0, months)
	for i := months - 1; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0)

		var income, expenses int64
		for _, tx := range transactions {
			if tx.Date.Before(monthStart) || !tx.Date.Before(monthEnd) {
				continue
			}
			switch tx.Type {
			case core.Income:
				income += tx.Amount.Cents
			case core.Expense:
				expenses += tx.Amount.Cents
			}
		}

		savings := income - expenses
		rate := 0.0
		if income > 0 {
			rate = float64(savings) / float64(income) * 100
		}

		comparisons = append(comparisons, MonthlyComparison{
			Month:       monthStart.Format("Jan 2006"),
			Income:      core.Money{Cents: income},
			Expenses:    core.Money{Cents: expenses},
			Savings:     core.Money{Cents: savings},
			SavingsRate: math.Round(rate*10) / 10,
		})
	}
	return comparisons
}
