package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"paydash/internal/app"
	"paydash/internal/export"
	plog "paydash/internal/log"
	"paydash/internal/middleware/ratelimit"
	"paydash/internal/middleware/security"
	"paydash/internal/middleware/trace"
	"paydash/internal/notify"
)

// Deps is everything the server needs from the rest of the application.
type Deps struct {
	Controller *app.Controller
	Board      *notify.Board

	// Sheets is nil when no spreadsheet is configured.
	Sheets export.Sink

	// Ready reports whether storage is reachable. Nil means always ready.
	Ready func(ctx context.Context) error

	// Metrics serves /metrics. Nil leaves the route unregistered.
	Metrics http.Handler

	Logger             *plog.Logger
	RateLimitPerMinute int
}

type Server struct {
	http.Server
	ctrl    *app.Controller
	board   *notify.Board
	sheets  export.Sink
	ready   func(ctx context.Context) error
	limiter *ratelimit.Limiter
	logger  *plog.Logger
	now     func() time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = plog.New(plog.DefaultConfig())
	}
	board := deps.Board
	if board == nil {
		board = notify.NewBoard(notify.DefaultTTL)
	}

	s := &Server{
		ctrl:   deps.Controller,
		board:  board,
		sheets: deps.Sheets,
		ready:  deps.Ready,
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: deps.RateLimitPerMinute,
			Logger:            logger,
		}),
		logger: logger.WithComponent(plog.ComponentHTTP),
		now:    time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/payments/export.csv", s.handleExportCSV)
	mux.HandleFunc("POST /api/payments/export/sheets", s.handleExportSheets)
	mux.HandleFunc("GET /api/payments/{id}", s.handleGetPayment)
	mux.HandleFunc("POST /api/payments", s.handleCreatePayment)
	mux.HandleFunc("PUT /api/payments/{id}", s.handleUpdatePayment)
	mux.HandleFunc("DELETE /api/payments/{id}", s.handleDeletePayment)
	mux.HandleFunc("POST /api/filters/clear", s.handleClearFilters)
	mux.HandleFunc("GET /api/notification", s.handleNotification)
	mux.HandleFunc("DELETE /api/notification", s.handleDismissNotification)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	if deps.Metrics != nil {
		mux.Handle("GET /metrics", deps.Metrics)
	}

	clientIP := security.NewClientIP()
	tracer := trace.NewMiddleware(logger, clientIP.Extract)
	limited := s.limiter.Middleware(clientIP.Extract, s.handleRateLimited)(mux)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           tracer.Middleware(security.Headers(limited)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}
	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			plog.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", plog.FieldError, err)
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	TooManyRequestsError("Rate limit exceeded. Please try again later.").
		TriggerNotification(notify.SeverityWarning, "Too many changes, please slow down.", durationMs(s.board.TTL())).
		Write(w)
}
