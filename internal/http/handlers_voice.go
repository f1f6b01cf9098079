package http

import (
	"encoding/json"
	"net/http"

	"masarif/internal/voice"
)

// handleVoiceParse serves POST /api/voice/parse. It only extracts a
// transaction candidate from the transcript; the client confirms and
// creates it through /api/transactions.
func (s *Server) handleVoiceParse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	parsed := voice.Parse(sanitizeInput(body.Text))
	if parsed == nil {
		writeError(w, http.StatusUnprocessableEntity, "could not extract a transaction from the text")
		return
	}
	writeJSON(w, http.StatusOK, parsed)
}
