// Package http serves the dashboard, the JSON API and the exports.
package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"finsight/internal/auth"
	"finsight/internal/log"
	"finsight/internal/middleware/ratelimit"
	"finsight/internal/middleware/security"
	"finsight/internal/middleware/trace"
	"finsight/internal/services"
	appweb "finsight/web"
)

// requestTimeout bounds ledger calls made while serving a request.
const requestTimeout = 7 * time.Second

type Config struct {
	Addr               string
	RateLimitPerMinute int
	TopCategories      int
	WindowDays         int
}

type Server struct {
	http.Server
	svc       *services.TransactionService
	templates *template.Template
	logger    *log.Logger
	limiter   *ratelimit.Limiter
	detector  *security.Detector
	tracer    *trace.Middleware
	opts      services.DashboardOptions
	now       func() time.Time

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware. Every route except the health
// probes and static assets requires a token accepted by verifier.
func NewServer(cfg Config, svc *services.TransactionService, verifier *auth.Verifier, logger *log.Logger) (*Server, error) {
	logger = logger.WithComponent(log.ComponentHTTP)

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}

	s := &Server{
		svc:       svc,
		templates: t,
		logger:    logger,
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RateLimitPerMinute}),
		detector:  security.NewDetector(),
		opts: services.DashboardOptions{
			TopCategories: cfg.TopCategories,
			WindowDays:    cfg.WindowDays,
		},
		now: time.Now,
	}
	s.tracer = trace.NewMiddleware(logger, s.detector.ExtractClientIP)

	protected := auth.Middleware(verifier, s.unauthorized)
	private := func(h http.HandlerFunc) http.Handler {
		return protected(security.NoStore(h))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(
		http.StripPrefix("/static/", http.FileServer(http.FS(static)))))

	mux.Handle("GET /{$}", private(s.handleDashboard))
	mux.Handle("GET /export.xlsx", private(s.handleExportXLSX))
	mux.Handle("GET /export.pdf", private(s.handleExportPDF))

	mux.Handle("GET /api/transactions", private(s.handleListTransactions))
	mux.Handle("POST /api/transactions", private(s.handleCreateTransaction))
	mux.Handle("DELETE /api/transactions/{id}", private(s.handleDeleteTransaction))
	mux.Handle("GET /api/summary", private(s.handleSummary))
	mux.Handle("GET /api/categories", private(s.handleCategories))
	mux.Handle("GET /api/daily", private(s.handleDaily))
	mux.Handle("GET /api/catalog", private(s.handleCatalog))

	var handler http.Handler = mux
	handler = security.SameOrigin(logger)(handler)
	handler = s.limiter.Middleware(s.detector.ExtractClientIP, nil)(handler)
	handler = s.detector.Middleware(logger)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Limiter is exposed so the caller can register it for periodic cleanup.
func (s *Server) Limiter() *ratelimit.Limiter {
	return s.limiter
}

func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.logger.InfoContext(ctx, "HTTP server shutting down",
			log.FieldOperation, log.OpShutdown,
			"requests_served", s.tracer.Metrics().TotalRequests,
			"rate_limited", s.limiter.Rejected(),
			"suspicious_blocked", s.detector.SuspiciousCount())
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	log.FromContext(r.Context()).WithComponent(log.ComponentAuth).WarnContext(r.Context(), "Unauthenticated request",
		log.NewFields().WithError(err).Args()...)
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeJSON(w, http.StatusUnauthorized, errorJSON{Error: "Authentication required"})
		return
	}
	http.Error(w, "Authentication required", http.StatusUnauthorized)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.svc.Ping(ctx); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed",
			log.NewFields().WithError(err).Args()...)
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// userID is only called behind auth.Middleware.
func userID(r *http.Request) string {
	uid, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		return ""
	}
	return uid.String()
}

func (s *Server) dashboard(r *http.Request) (services.Dashboard, error) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	return s.svc.BuildDashboard(ctx, userID(r), s.now(), s.opts)
}
