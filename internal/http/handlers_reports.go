package http

import (
	"encoding/json"
	"net/http"
	"time"

	"masarif/internal/analytics"
	"masarif/internal/mentoring"
)

// Report windows are bounded: the computations are O(n) in the requested
// range and the results land in the response cache, so an arbitrary
// integer from the query string must not size the work.
const (
	maxInsightWindowDays = 365
	maxComparisonMonths  = 60
)

// cachedReport serves a report from the response cache, computing and
// caching it on miss. The key includes the query string so the same
// report with different parameters caches separately.
func (s *Server) cachedReport(w http.ResponseWriter, r *http.Request, compute func() (any, error)) {
	key := r.URL.Path + "?" + r.URL.RawQuery
	if body, ok := s.reportCache.Get(key); ok {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
		return
	}

	result, err := compute()
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Report computation failed", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "failed to compute report")
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode report")
		return
	}
	body = append(body, '\n')
	s.reportCache.Set(key, body)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}

// handleInsights serves GET /api/reports/insights?window=30.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	window := queryInt(r, "window", analytics.DefaultWindowDays)
	if window < 1 || window > maxInsightWindowDays {
		writeError(w, http.StatusUnprocessableEntity, "window must be between 1 and 365 days")
		return
	}
	s.cachedReport(w, r, func() (any, error) {
		return analytics.CategoryInsights(s.store.Transactions(), time.Now(), window), nil
	})
}

// handleFinancialHealth serves GET /api/reports/health.
func (s *Server) handleFinancialHealth(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	s.cachedReport(w, r, func() (any, error) {
		totals := s.store.Totals()
		return analytics.FinancialHealthScore(s.store.Transactions(), totals.Income, totals.Expenses, time.Now()), nil
	})
}

// handleTips serves GET /api/reports/tips.
func (s *Server) handleTips(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	s.cachedReport(w, r, func() (any, error) {
		transactions := s.store.Transactions()
		totals := s.store.Totals()
		insights := analytics.CategoryInsights(transactions, time.Now(), analytics.DefaultWindowDays)
		return mentoring.GenerateTips(transactions, totals.Income, totals.Expenses, insights), nil
	})
}

// handleBudget serves GET /api/reports/budget.
func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	s.cachedReport(w, r, func() (any, error) {
		totals := s.store.Totals()
		insights := analytics.CategoryInsights(s.store.Transactions(), time.Now(), analytics.DefaultWindowDays)
		recommendations := mentoring.BudgetRecommendations(totals.Income, insights)
		if recommendations == nil {
			recommendations = []mentoring.BudgetRecommendation{}
		}
		return recommendations, nil
	})
}

// handleTrends serves GET /api/reports/trends?period=week|month|year.
func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	period := analytics.Period(r.URL.Query().Get("period"))
	if period != "" && !period.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "period must be week, month or year")
		return
	}
	s.cachedReport(w, r, func() (any, error) {
		return analytics.SpendingTrends(s.store.Transactions(), time.Now(), period), nil
	})
}

// handleMonthly serves GET /api/reports/monthly?months=6.
func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	months := queryInt(r, "months", 6)
	if months < 1 || months > maxComparisonMonths {
		writeError(w, http.StatusUnprocessableEntity, "months must be between 1 and 60")
		return
	}
	s.cachedReport(w, r, func() (any, error) {
		return analytics.MonthlyComparisons(s.store.Transactions(), time.Now(), months), nil
	})
}

// handleMessage serves GET /api/reports/message?lang=ar|en.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	language := queryLanguage(r)
	s.cachedReport(w, r, func() (any, error) {
		totals := s.store.Totals()
		health := analytics.FinancialHealthScore(s.store.Transactions(), totals.Income, totals.Expenses, time.Now())
		return struct {
			Message string `json:"message"`
		}{Message: mentoring.MotivationalMessage(health.Status, language)}, nil
	})
}
