// Package analytics computes derived views over a transaction snapshot:
// per-category insights, spending trends, monthly comparisons and the
// financial health score. Every function here is pure in (transactions,
// now, window); nothing is cached or persisted.
package analytics

import (
	"sort"
	"time"

	"masarif/internal/core"
)

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

type (
	Trend string

	// CategoryInsight describes spending in one category over a lookback
	// window. Percentage is the share of the window's expense total.
	CategoryInsight struct {
		Category              string     `json:"category"`
		TotalAmount           core.Money `json:"totalAmount"`
		Percentage            float64    `json:"percentage"`
		AveragePerTransaction core.Money `json:"averagePerTransaction"`
		TransactionCount      int        `json:"transactionCount"`
		Trend                 Trend      `json:"trend"`
	}
)

// DefaultWindowDays is the standard lookback window.
const DefaultWindowDays = 30

// CategoryInsights groups expense transactions from the trailing window,
// computes per-category totals, shares and averages, and classifies each
// category's trend against the immediately preceding window of equal
// length: above +10% change is increasing, below -10% decreasing, else
// stable; an empty prior window forces stable. Output is sorted by total,
// descending.
func CategoryInsights(transactions []core.Transaction, now time.Time, windowDays int) []CategoryInsight {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	cutoff := now.AddDate(0, 0, -windowDays)
	previousCutoff := cutoff.AddDate(0, 0, -windowDays)

	type bucket struct {
		amount int64
		count  int
	}
	current := make(map[string]*bucket)
	previous := make(map[string]int64)
	var windowTotal int64

	for _, tx := range transactions {
		if tx.Type != core.Expense {
			continue
		}
		switch {
		case !tx.Date.Before(cutoff):
			b := current[tx.Category]
			if b == nil {
				b = &bucket{}
				current[tx.Category] = b
			}
			b.amount += tx.Amount.Cents
			b.count++
			windowTotal += tx.Amount.Cents
		case !tx.Date.Before(previousCutoff) && tx.Date.Before(cutoff):
			previous[tx.Category] += tx.Amount.Cents
		}
	}

	insights := make([]CategoryInsight, 0, len(current))
	for category, b := range current {
		percentage := 0.0
		if windowTotal > 0 {
			percentage = float64(b.amount) / float64(windowTotal) * 100
		}

		trend := TrendStable
		if prev := previous[category]; prev > 0 {
			change := float64(b.amount-prev) / float64(prev) * 100
			if change > 10 {
				trend = TrendIncreasing
			} else if change < -10 {
				trend = TrendDecreasing
			}
		}

		insights = append(insights, CategoryInsight{
			Category:              category,
			TotalAmount:           core.Money{Cents: b.amount},
			Percentage:            percentage,
			AveragePerTransaction: core.Money{Cents: b.amount / int64(b.count)},
			TransactionCount:      b.count,
			Trend:                 trend,
		})
	}

	sort.Slice(insights, func(i, j int) bool {
		if insights[i].TotalAmount.Cents != insights[j].TotalAmount.Cents {
			return insights[i].TotalAmount.Cents > insights[j].TotalAmount.Cents
		}
		return insights[i].Category < insights[j].Category
	})
	return insights
}
