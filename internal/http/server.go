package http

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"expensetracker/internal/log"
	"expensetracker/internal/middleware/ratelimit"
	"expensetracker/internal/middleware/security"
	"expensetracker/internal/middleware/trace"
)

// Options configures the API server.
type Options struct {
	Ledger Ledger
	Store  Pinger
	Logger *log.Logger

	// RateLimitPerMinute bounds requests per client IP on /api/v1; 0 disables it.
	RateLimitPerMinute int

	// AllowedOrigins enables CORS on /api/v1 for the listed origins.
	AllowedOrigins []string
}

type Server struct {
	http.Server

	expenses *ExpenseHandler
	store    Pinger
	logger   *log.Logger
	trace    *trace.Middleware
	limiter  *ratelimit.Limiter
	origins  []string
	started  time.Time
}

func NewServer(addr string, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		expenses: NewExpenseHandler(opts.Ledger),
		store:    opts.Store,
		logger:   logger,
		trace:    trace.NewMiddleware(logger, clientIP),
		origins:  opts.AllowedOrigins,
		started:  time.Now(),
	}
	if opts.RateLimitPerMinute > 0 {
		s.limiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute})
	}

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RealIP)
	router.Use(s.trace.Handler)
	router.Use(log.Middleware(s.logger))
	router.Use(log.RequestIDMiddleware(trace.GetRequestID))
	router.Use(middleware.Recoverer)
	router.Use(security.Headers(security.DefaultHeadersConfig()))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NotFoundError("Not found").Write(w)
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		MethodNotAllowedError("Method not allowed").Write(w)
	})

	router.Get("/healthz", s.handleHealth)
	router.Get("/readyz", s.handleReady)
	router.Get("/metrics", s.handleMetrics)

	router.Route("/api/v1", func(r chi.Router) {
		if len(s.origins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: s.origins,
				AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
				AllowedHeaders: []string{"Accept", "Content-Type", trace.RequestIDHeader},
				ExposedHeaders: []string{trace.RequestIDHeader},
				MaxAge:         300,
			}))
		}
		if s.limiter != nil {
			r.Use(s.limiter.Middleware(clientIP, func(w http.ResponseWriter, r *http.Request) {
				TooManyRequestsError("Rate limit exceeded. Please try again later.", ratelimit.RetryAfterSeconds()).Write(w)
			}))
		}

		r.Route("/expenses", s.expenses.Routes)
		r.Get("/summary", s.expenses.summary)
		r.Get("/categories", s.handleCategories)
	})

	return router
}

// Shutdown stops the rate limiter and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	return s.Server.Shutdown(ctx)
}

// clientIP returns the remote host without port. RealIP has already
// replaced RemoteAddr when a proxy header was present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
