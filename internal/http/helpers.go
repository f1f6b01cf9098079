package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// writeJSON encodes v with the proper content type. Encoding failures are
// logged upstream by the middleware via the captured status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// queryLanguage returns "ar" unless the lang parameter explicitly asks
// for English.
func queryLanguage(r *http.Request) string {
	if strings.TrimSpace(r.URL.Query().Get("lang")) == "en" {
		return "en"
	}
	return "ar"
}

// urlEncodeFilename percent-encodes a filename for the RFC 5987 form of
// Content-Disposition, which Arabic titles require.
func urlEncodeFilename(name string) string {
	return url.PathEscape(name)
}

// queryInt returns the named integer parameter, or def when absent or
// malformed.
func queryInt(r *http.Request, name string, def int) int {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
