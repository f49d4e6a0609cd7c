// Package http serves the ledger and its derived views as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	flog "fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
)

// Ledger is the part of the ledger service the handlers use.
type Ledger interface {
	Revision(ctx context.Context) (uint64, error)
	Snapshot(ctx context.Context) (services.Snapshot, error)

	ListTransactions(ctx context.Context, limit int) ([]core.Transaction, error)
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	AddTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, tx core.Transaction) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error

	ListBudgets(ctx context.Context, month string) ([]core.Budget, error)
	AddBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	UpdateBudget(ctx context.Context, id string, b core.Budget) (core.Budget, error)
	DeleteBudget(ctx context.Context, id string) error
}

var _ Ledger = (*services.LedgerService)(nil)

type Options struct {
	Addr              string
	CacheSize         int
	CacheTTL          time.Duration
	RequestsPerMinute int
	AllowedOrigins    []string
	RequestTimeout    time.Duration
}

func DefaultOptions() Options {
	return Options{
		Addr:              ":8081",
		CacheSize:         64,
		CacheTTL:          30 * time.Second,
		RequestsPerMinute: ratelimit.DefaultConfig().RequestsPerMinute,
		AllowedOrigins:    []string{"*"},
		RequestTimeout:    30 * time.Second,
	}
}

type Server struct {
	http.Server

	ledger Ledger
	logger *flog.Logger
	now    func() time.Time

	views        *cache.LRUCache[any]
	cacheManager *cache.Manager
	stopCleanup  context.CancelFunc
	rateLimiter  *ratelimit.Limiter
	tracer       *trace.Middleware
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(opts Options, ledger Ledger, logger *flog.Logger) *Server {
	def := DefaultOptions()
	if opts.Addr == "" {
		opts.Addr = def.Addr
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = def.CacheSize
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = def.RequestTimeout
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = def.AllowedOrigins
	}
	if logger == nil {
		logger = flog.New(flog.DefaultConfig())
	}
	logger = logger.WithComponent(flog.ComponentHTTP)

	s := &Server{
		ledger:       ledger,
		logger:       logger,
		now:          time.Now,
		views:        cache.NewLRUCache[any](opts.CacheSize, opts.CacheTTL),
		cacheManager: cache.NewManager(logger.WithComponent(flog.ComponentCache).Logger),
		rateLimiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RequestsPerMinute}),
		tracer:       trace.NewMiddleware(logger, extractClientIP),
	}
	s.cacheManager.Register(s.views)
	if opts.CacheTTL > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		s.stopCleanup = cancel
		s.cacheManager.StartCleanup(ctx, opts.CacheTTL)
	}

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.routes(opts),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      opts.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(s.tracer.Middleware)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", trace.RequestIDHeader},
		ExposedHeaders:   []string{trace.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.Timeout(opts.RequestTimeout))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.rateLimiter.Middleware(extractClientIP, func(w http.ResponseWriter, r *http.Request) {
			writeErrorMessage(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
		}))

		r.Get("/categories", s.handleListCategories)

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.handleListTransactions)
			r.Post("/", s.handleCreateTransaction)
			r.Get("/{id}", s.handleGetTransaction)
			r.Put("/{id}", s.handleUpdateTransaction)
			r.Delete("/{id}", s.handleDeleteTransaction)
		})

		r.Route("/budgets", func(r chi.Router) {
			r.Get("/", s.handleListBudgets)
			r.Post("/", s.handleCreateBudget)
			r.Put("/{id}", s.handleUpdateBudget)
			r.Delete("/{id}", s.handleDeleteBudget)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/monthly", s.handleMonthlyReport)
			r.Get("/categories", s.handleCategoryReport)
			r.Get("/budgets", s.handleBudgetReport)
			r.Get("/summary", s.handleSummaryReport)
		})

		r.Get("/insights", s.handleInsights)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorMessage(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Shutdown stops background goroutines and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.stopCleanup != nil {
			s.stopCleanup()
		}
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

type healthResponse struct {
	Status    string            `json:"status"`
	Revision  uint64            `json:"revision"`
	Cache     cache.Stats       `json:"cache"`
	Requests  trace.Metrics     `json:"requests"`
	RateLimit ratelimit.Metrics `json:"rateLimit"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	rev, err := s.ledger.Revision(r.Context())
	if err != nil {
		flog.NewStructuredLogger(flog.FromContext(r.Context())).
			LogError(r.Context(), "Ledger store unreachable", err, flog.OpRead, nil)
		status, code = "unavailable", http.StatusServiceUnavailable
	}
	writeJSON(w, code, healthResponse{
		Status:    status,
		Revision:  rev,
		Cache:     s.views.Stats(),
		Requests:  s.tracer.GetMetrics(),
		RateLimit: s.rateLimiter.GetMetrics(),
	})
}
