package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"financeflow/internal/cache"
	"financeflow/internal/core"
	applog "financeflow/internal/log"
	"financeflow/internal/middleware/ratelimit"
	"financeflow/internal/middleware/security"
	"financeflow/internal/middleware/trace"
	"financeflow/internal/services"
	"financeflow/internal/storage"
)

const summaryCacheKey = "summary"

// Server is the JSON API server. Budgets, goals and alerts are served
// straight from the repository; transactions, categories and exports
// go through their services.
type Server struct {
	http.Server

	repo         *storage.SQLiteRepository
	transactions *services.TransactionService
	categories   *services.CategoryService
	exports      *services.ExportService

	rateLimiter *ratelimit.Limiter

	// Budget summaries are the one read-heavy endpoint; cached with a
	// short TTL and purged on every mutation that can change the sums.
	// The manager sweeps expired entries that are never read again.
	summaryCache *cache.LRUCache[[]core.BudgetDetail]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a
// ready-to-run server.
func NewServer(addr string, repo *storage.SQLiteRepository, ts *services.TransactionService, cs *services.CategoryService, es *services.ExportService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		repo:         repo,
		transactions: ts,
		categories:   cs,
		exports:      es,
		rateLimiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		summaryCache: cache.NewLRUCache[[]core.BudgetDetail](8, 30*time.Second),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /transactions", s.handleListTransactions)
	mux.HandleFunc("PUT /transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /categories", s.handleListCategories)
	mux.HandleFunc("POST /categories", s.handleCreateCategory)
	mux.HandleFunc("PUT /categories/{id}", s.handleUpdateCategory)
	mux.HandleFunc("POST /categories/{id}/hide", s.handleHideCategory)
	mux.HandleFunc("DELETE /categories/{id}", s.handleDeleteCategory)

	mux.HandleFunc("GET /budgets", s.handleListBudgets)
	mux.HandleFunc("POST /budgets", s.handleCreateBudget)
	mux.HandleFunc("PUT /budgets/{id}", s.handleUpdateBudget)
	mux.HandleFunc("DELETE /budgets/{id}", s.handleDeleteBudget)
	mux.HandleFunc("GET /budgets/summary", s.handleBudgetSummary)

	mux.HandleFunc("GET /alerts", s.handleListAlerts)
	mux.HandleFunc("POST /alerts/{id}/acknowledge", s.handleAcknowledgeAlert)

	mux.HandleFunc("GET /goals", s.handleListGoals)
	mux.HandleFunc("POST /goals", s.handleCreateGoal)
	mux.HandleFunc("PUT /goals/{id}", s.handleUpdateGoal)
	mux.HandleFunc("DELETE /goals/{id}", s.handleDeleteGoal)

	mux.HandleFunc("POST /export", s.handleExport)
	mux.HandleFunc("GET /export/estimate", s.handleExportEstimate)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(security.ExtractClientIP)

	s.Server = http.Server{
		Addr:    addr,
		Handler: headers.Middleware(tracer.Middleware(s.withRateLimit(mux))),
	}
	return s
}

// withRateLimit applies the per-client limiter to mutating requests
// only; reads are unthrottled.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			clientIP := security.ExtractClientIP(r)
			if !s.rateLimiter.Allow(clientIP) {
				slog.WarnContext(r.Context(), "Rate limit exceeded",
					applog.FieldComponent, applog.ComponentRateLimit,
					applog.FieldClientIP, clientIP,
					applog.FieldMethod, r.Method,
					applog.FieldPath, r.URL.Path)
				ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, try again later").
					Header("Retry-After", "60").
					Write(w)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops the rate limiter and cache cleanup goroutines and
// shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		s.cacheManager.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// invalidateSummaries drops cached budget summaries after any write
// that can change spent sums or the budget set itself.
func (s *Server) invalidateSummaries() {
	s.summaryCache.Purge()
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.repo.CountRecords(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("database unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
