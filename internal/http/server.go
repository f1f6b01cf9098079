// Package http exposes the transaction store, analytics reports, export
// and sync operations as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"masarif/internal/cache"
	"masarif/internal/cloud"
	"masarif/internal/export"
	"masarif/internal/log"
	"masarif/internal/storage"
	"masarif/internal/store"
)

// SyncPublisher asks the worker to run a background sync. Implemented by
// the AMQP client; nil when messaging is not configured.
type SyncPublisher interface {
	PublishSyncRequest(ctx context.Context, userID, reason string) error
}

type Server struct {
	http.Server

	store       *store.Store
	syncSvc     *cloud.Service
	kv          storage.KV
	publisher   SyncPublisher
	sharer      export.Sharer
	logger      *log.Logger
	rateLimiter *rateLimiter
	metrics     *securityMetrics

	// Report responses are cached per query string and flushed on every
	// write to the transaction log.
	reportCache *cache.LRUCache[[]byte]

	cacheManager *cache.Manager
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server. publisher and sharer may be nil.
func NewServer(addr string, st *store.Store, syncSvc *cloud.Service, kv storage.KV, publisher SyncPublisher, sharer export.Sharer, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	httpLogger := logger.WithComponent(log.ComponentHTTP)
	metrics := &securityMetrics{}
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		store:        st,
		syncSvc:      syncSvc,
		kv:           kv,
		publisher:    publisher,
		sharer:       sharer,
		logger:       httpLogger,
		rateLimiter:  newRateLimiter(mutationRateLimit, httpLogger, metrics),
		metrics:      metrics,
		reportCache:  cache.NewLRUCache[[]byte](100, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.reportCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/api/transactions", s.withMiddleware(s.handleTransactions))
	mux.HandleFunc("/api/transactions/", s.withMiddleware(s.handleTransactionByID))
	mux.HandleFunc("/api/summary", s.withMiddleware(s.handleSummary))

	mux.HandleFunc("/api/settings", s.withMiddleware(s.handleSettings))
	mux.HandleFunc("/api/settings/currency", s.withMiddleware(s.handleCurrency))
	mux.HandleFunc("/api/categories", s.withMiddleware(s.handleCategories))
	mux.HandleFunc("/api/categories/custom", s.withMiddleware(s.handleCustomCategories))
	mux.HandleFunc("/api/categories/custom/", s.withMiddleware(s.handleCustomCategoryByID))

	mux.HandleFunc("/api/reports/insights", s.withMiddleware(s.handleInsights))
	mux.HandleFunc("/api/reports/health", s.withMiddleware(s.handleFinancialHealth))
	mux.HandleFunc("/api/reports/tips", s.withMiddleware(s.handleTips))
	mux.HandleFunc("/api/reports/budget", s.withMiddleware(s.handleBudget))
	mux.HandleFunc("/api/reports/trends", s.withMiddleware(s.handleTrends))
	mux.HandleFunc("/api/reports/monthly", s.withMiddleware(s.handleMonthly))
	mux.HandleFunc("/api/reports/message", s.withMiddleware(s.handleMessage))

	mux.HandleFunc("/api/export", s.withMiddleware(s.handleExport))
	mux.HandleFunc("/api/export/share", s.withMiddleware(s.handleExportShare))

	mux.HandleFunc("/api/sync/status", s.withMiddleware(s.handleSyncStatus))
	mux.HandleFunc("/api/sync/enable", s.withMiddleware(s.handleSyncEnable))
	mux.HandleFunc("/api/sync/disable", s.withMiddleware(s.handleSyncDisable))
	mux.HandleFunc("/api/sync/now", s.withMiddleware(s.handleSyncNow))

	mux.HandleFunc("/api/voice/parse", s.withMiddleware(s.handleVoiceParse))

	return s
}

// withMiddleware adds security headers, rate limiting and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		logger := s.logger.With(log.FieldRequestID, requestID)
		ctx := r.Context()
		r = r.WithContext(ctx)

		if detectSuspiciousRequest(r, s.metrics) {
			logger.WarnContext(ctx, "Suspicious request rejected",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		// Mutations are rate limited; reads are not.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			logger.WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		setSecurityHeaders(w)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		logger.InfoContext(ctx, "Request completed",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, time.Since(start).Milliseconds(),
			log.FieldClientIP, clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// invalidateReports drops all cached report responses. Called after any
// write to the transaction log or the settings.
func (s *Server) invalidateReports() {
	s.reportCache.Clear()
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
