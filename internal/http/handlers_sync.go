package http

import (
	"context"
	"errors"
	"net/http"

	"masarif/internal/cloud"
)

// handleSyncStatus serves GET /api/sync/status.
func (s *Server) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.syncSvc.Status())
}

// handleSyncEnable serves POST /api/sync/enable.
func (s *Server) handleSyncEnable(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	userID, err := s.syncSvc.Enable(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to enable sync", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to enable sync")
		return
	}
	// Enabling triggers one sync attempt right away. With a publisher the
	// worker picks it up; otherwise it runs inline. Either way a failure
	// lands on the sync status, not on this response.
	if s.publisher != nil {
		s.requestBackgroundSync(r)
	} else if err := s.runSync(r.Context()); err != nil {
		s.logger.WarnContext(r.Context(), "Initial sync after enable failed", "error", err)
	}
	writeJSON(w, http.StatusOK, struct {
		UserID string `json:"userId"`
	}{UserID: userID})
}

// handleSyncDisable serves POST /api/sync/disable.
func (s *Server) handleSyncDisable(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := s.syncSvc.Disable(r.Context()); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to disable sync", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to disable sync")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSyncNow serves POST /api/sync/now: a synchronous merge with the
// remote copy, adopting the merged snapshot locally.
func (s *Server) handleSyncNow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := s.runSync(r.Context()); err != nil {
		if errors.Is(err, cloud.ErrSyncInProgress) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		s.logger.ErrorContext(r.Context(), "Sync failed", "error", err)
		writeError(w, http.StatusBadGateway, "sync failed")
		return
	}
	writeJSON(w, http.StatusOK, s.syncSvc.Status())
}

// runSync performs one snapshot-merge-restore cycle against the remote.
func (s *Server) runSync(ctx context.Context) error {
	merged, err := s.syncSvc.Sync(ctx, s.snapshotFromStore())
	if err != nil {
		return err
	}
	s.store.Restore(ctx, merged.Transactions, merged.CustomCategories, merged.Currency, merged.MonthlyResetEnabled)
	s.invalidateReports()
	return nil
}

func (s *Server) snapshotFromStore() cloud.Snapshot {
	return cloud.Snapshot{
		Transactions:        s.store.Transactions(),
		CustomCategories:    s.store.CustomCategories(),
		Currency:            s.store.Currency(),
		MonthlyResetEnabled: s.store.MonthlyResetEnabled(),
	}
}
