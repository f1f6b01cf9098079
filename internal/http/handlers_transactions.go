package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"masarif/internal/amqp"
	"masarif/internal/core"
	"masarif/internal/store"
)

// handleTransactions serves GET (list), POST (create) and DELETE (clear
// all) on /api/transactions.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.store.Transactions())
	case http.MethodPost:
		s.createTransaction(w, r)
	case http.MethodDelete:
		s.store.ClearAll(r.Context())
		s.invalidateReports()
		s.requestBackgroundSync(r)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.Header().Set("Allow", "GET, POST, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var in store.AddInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in.Category = sanitizeInput(in.Category)
	in.Description = sanitizeInput(in.Description)

	// The store accepts anything; the API boundary is where invalid
	// transactions are turned away.
	candidate := core.Transaction{
		ID:          "pending",
		Type:        in.Type,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		Currency:    in.Currency,
	}
	if err := candidate.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	tx := s.store.Add(r.Context(), in)
	s.invalidateReports()
	s.requestBackgroundSync(r)
	writeJSON(w, http.StatusCreated, tx)
}

// handleTransactionByID serves DELETE /api/transactions/{id}.
func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", "DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}

	// Removal of an absent id is a no-op; the result is the same either
	// way, so always 204.
	s.store.Delete(r.Context(), id)
	s.invalidateReports()
	s.requestBackgroundSync(r)
	w.WriteHeader(http.StatusNoContent)
}

// handleSummary serves GET /api/summary.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	totals := s.store.Totals()
	currency := s.store.Currency()
	writeJSON(w, http.StatusOK, struct {
		core.Totals
		Currency         core.Currency `json:"currency"`
		FormattedBalance string        `json:"formattedBalance"`
	}{
		Totals:           totals,
		Currency:         currency,
		FormattedBalance: core.FormatAmount(totals.Balance, currency),
	})
}

// requestBackgroundSync asks the worker to replicate after a write. Fire
// and forget: a missing publisher or a publish failure never affects the
// caller's request.
func (s *Server) requestBackgroundSync(r *http.Request) {
	if s.publisher == nil || s.syncSvc == nil {
		return
	}
	status := s.syncSvc.Status()
	if !status.Enabled {
		return
	}
	if err := s.publisher.PublishSyncRequest(r.Context(), s.syncSvc.UserID(), amqp.ReasonDataChanged); err != nil &&
		!errors.Is(err, r.Context().Err()) {
		s.logger.WarnContext(r.Context(), "Failed to publish sync request", "error", err)
	}
}
