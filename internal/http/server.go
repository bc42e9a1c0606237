// Package http exposes the JSON API surface of the service.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/cache"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
	"fintrack/internal/middleware/metrics"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
)

// Pinger is implemented by storage backends that can report readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options collects the dependencies the server needs. Google is nil when
// OAuth sign-in is not configured; Collector is nil to disable metrics.
type Options struct {
	Addr              string
	Store             ledger.Store
	Records           *services.RecordService
	Dashboard         *services.DashboardService
	Password          *auth.PasswordAuthenticator
	Google            *auth.GoogleAuthenticator
	JWT               *auth.JWTManager
	Collector         *metrics.Collector
	Logger            *log.Logger
	RateLimitPerMin   int
	SummaryCacheOwner *cache.Manager
}

type Server struct {
	http.Server

	store     ledger.Store
	records   *services.RecordService
	dashboard *services.DashboardService
	password  *auth.PasswordAuthenticator
	google    *auth.GoogleAuthenticator
	jwt       *auth.JWTManager
	collector *metrics.Collector
	logger    *log.Logger

	limiter      *ratelimit.Limiter
	cacheManager *cache.Manager
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              opts.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		store:        opts.Store,
		records:      opts.Records,
		dashboard:    opts.Dashboard,
		password:     opts.Password,
		google:       opts.Google,
		jwt:          opts.JWT,
		collector:    opts.Collector,
		logger:       opts.Logger.WithComponent(log.ComponentHTTP),
		limiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMin}),
		cacheManager: opts.SummaryCacheOwner,
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	if s.collector != nil {
		mux.Handle("GET /metrics", s.collector.Handler())
	}

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	if s.google != nil {
		mux.HandleFunc("GET /api/auth/google", s.handleGoogleStart)
		mux.HandleFunc("GET /api/auth/google/callback", s.handleGoogleCallback)
	}

	mux.HandleFunc("GET /api/dashboard/summary", s.requireAuth(s.handleSummary))
	mux.HandleFunc("POST /api/expenses", s.requireAuth(s.handleCreateExpense))
	mux.HandleFunc("GET /api/expenses", s.requireAuth(s.handleListExpenses))
	mux.HandleFunc("POST /api/income", s.requireAuth(s.handleCreateIncome))
	mux.HandleFunc("GET /api/income", s.requireAuth(s.handleListIncome))
	mux.HandleFunc("GET /api/categories", s.requireAuth(s.handleListCategories))

	traceMW := trace.NewMiddleware(clientIP)
	limitMW := s.limiter.Middleware(clientIP, s.onRateLimited)

	var handler http.Handler = mux
	handler = limitMW(handler)
	if s.collector != nil {
		handler = s.collector.Middleware(handler)
	}
	handler = traceMW.Middleware(handler)
	s.Server.Handler = handler

	return s
}

// Shutdown stops background goroutines and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	w.Header().Set("Retry-After", "60")
	writeError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
}

// clientIP extracts the caller address, honoring proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.store.(Pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			s.logger.ErrorContext(r.Context(), "Readiness check failed", log.FieldError, err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("storage unavailable"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
