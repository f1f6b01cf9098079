package http

import (
	"net/http"

	"masarif/internal/export"
	"masarif/internal/log"
)

// handleExport serves GET /api/export?format=csv|json|text&lang=ar|en.
// The rendered document is returned directly with its MIME type and a
// download filename.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	format := export.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = export.FormatText
	}
	if !format.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "format must be csv, json or text")
		return
	}

	doc, err := export.Render(
		s.store.Transactions(),
		s.store.Currency(),
		s.store.Totals(),
		queryLanguage(r),
		format,
	)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Export failed", "error", err, log.FieldFormat, string(format))
		writeError(w, http.StatusInternalServerError, "failed to render export")
		return
	}

	w.Header().Set("Content-Type", doc.MIMEType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename*=UTF-8''`+urlEncodeFilename(doc.Title))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc.Content))
}

// handleExportShare serves POST /api/export/share?format=&lang=: renders
// the document and hands it off to the configured share surface. Hand-off
// failures come back as errors, never retries.
func (s *Server) handleExportShare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.sharer == nil {
		writeError(w, http.StatusServiceUnavailable, "sharing is not configured")
		return
	}

	format := export.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = export.FormatText
	}
	if !format.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "format must be csv, json or text")
		return
	}

	doc, err := export.Render(
		s.store.Transactions(),
		s.store.Currency(),
		s.store.Totals(),
		queryLanguage(r),
		format,
	)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Export failed", "error", err, log.FieldFormat, string(format))
		writeError(w, http.StatusInternalServerError, "failed to render export")
		return
	}

	if err := s.sharer.Share(r.Context(), doc); err != nil {
		s.logger.ErrorContext(r.Context(), "Share hand-off failed", "error", err, log.FieldFormat, string(format))
		writeError(w, http.StatusBadGateway, "failed to share document: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Title    string `json:"title"`
		MIMEType string `json:"mimeType"`
	}{Title: doc.Title, MIMEType: doc.MIMEType})
}
