package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"masarif/internal/core"
	"masarif/internal/storage"
)

type settingsResponse struct {
	Currency            core.Currency `json:"currency"`
	Language            string        `json:"language"`
	Theme               string        `json:"theme"`
	MonthlyResetEnabled bool          `json:"monthlyResetEnabled"`
}

// handleSettings serves GET and PATCH on /api/settings. PATCH applies
// only the fields present in the body.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.currentSettings(r))
	case http.MethodPatch:
		s.patchSettings(w, r)
	default:
		w.Header().Set("Allow", "GET, PATCH")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) currentSettings(r *http.Request) settingsResponse {
	resp := settingsResponse{
		Currency:            s.store.Currency(),
		Language:            "ar",
		Theme:               "light",
		MonthlyResetEnabled: s.store.MonthlyResetEnabled(),
	}
	if v, ok, err := s.kv.Get(r.Context(), storage.KeyLanguage); err == nil && ok {
		resp.Language = v
	}
	if v, ok, err := s.kv.Get(r.Context(), storage.KeyTheme); err == nil && ok {
		resp.Theme = v
	}
	return resp
}

func (s *Server) patchSettings(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Language            *string `json:"language"`
		Theme               *string `json:"theme"`
		MonthlyResetEnabled *bool   `json:"monthlyResetEnabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if body.Language != nil {
		if *body.Language != "ar" && *body.Language != "en" {
			writeError(w, http.StatusUnprocessableEntity, "language must be 'ar' or 'en'")
			return
		}
		if err := s.kv.Set(r.Context(), storage.KeyLanguage, *body.Language); err != nil {
			s.logger.ErrorContext(r.Context(), "Failed to persist language", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to persist settings")
			return
		}
	}
	if body.Theme != nil {
		if *body.Theme != "light" && *body.Theme != "dark" {
			writeError(w, http.StatusUnprocessableEntity, "theme must be 'light' or 'dark'")
			return
		}
		if err := s.kv.Set(r.Context(), storage.KeyTheme, *body.Theme); err != nil {
			s.logger.ErrorContext(r.Context(), "Failed to persist theme", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to persist settings")
			return
		}
	}
	if body.MonthlyResetEnabled != nil {
		s.store.SetMonthlyReset(r.Context(), *body.MonthlyResetEnabled)
		s.invalidateReports()
	}

	writeJSON(w, http.StatusOK, s.currentSettings(r))
}

// handleCurrency serves GET and PUT on /api/settings/currency.
func (s *Server) handleCurrency(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		code := s.store.Currency()
		writeJSON(w, http.StatusOK, core.Currencies[code])
	case http.MethodPut:
		var body struct {
			Currency core.Currency `json:"currency"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := s.store.SetCurrency(r.Context(), body.Currency); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.invalidateReports()
		s.requestBackgroundSync(r)
		writeJSON(w, http.StatusOK, core.Currencies[body.Currency])
	default:
		w.Header().Set("Allow", "GET, PUT")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleCategories serves GET /api/categories?type=expense|income: the
// built-in taxonomy followed by the matching custom categories.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	typ := core.TransactionType(strings.TrimSpace(r.URL.Query().Get("type")))
	if typ == "" {
		typ = core.Expense
	}
	if !typ.Valid() {
		writeError(w, http.StatusUnprocessableEntity, core.ErrInvalidType.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.store.Categories(typ))
}

// handleCustomCategories serves GET (list) and POST (create) on
// /api/categories/custom.
func (s *Server) handleCustomCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.store.CustomCategories())
	case http.MethodPost:
		var body struct {
			Name  string               `json:"name"`
			Type  core.TransactionType `json:"type"`
			Color string               `json:"color"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		body.Name = sanitizeInput(body.Name)

		cat, err := s.store.AddCustomCategory(r.Context(), body.Name, body.Type, sanitizeInput(body.Color))
		if err != nil {
			status := http.StatusUnprocessableEntity
			if errors.Is(err, core.ErrDuplicateCategory) {
				status = http.StatusConflict
			}
			writeError(w, status, err.Error())
			return
		}
		s.requestBackgroundSync(r)
		writeJSON(w, http.StatusCreated, cat)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleCustomCategoryByID serves DELETE /api/categories/custom/{id}.
func (s *Server) handleCustomCategoryByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", "DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/categories/custom/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}

	s.store.DeleteCustomCategory(r.Context(), id)
	s.requestBackgroundSync(r)
	w.WriteHeader(http.StatusNoContent)
}
