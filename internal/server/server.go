package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/HerbHall/phonedex/internal/version"
)

// RouteRegistrar is implemented by every API handler.
type RouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux)
}

// DatasetSizer reports the number of phones in the loaded catalog.
type DatasetSizer interface {
	Len() (int, error)
}

// Options tunes the middleware stack.
type Options struct {
	// AllowedOrigins lists the CORS origins; "*" allows any.
	AllowedOrigins []string
	// RateLimit is the sustained requests per second per client IP.
	// Zero disables rate limiting.
	RateLimit rate.Limit
	RateBurst int
	// TrustProxy keys the rate limiter on X-Forwarded-For. Enable only
	// behind a reverse proxy that overwrites the header.
	TrustProxy bool
	// Dataset is reported by the health endpoint. Optional.
	Dataset DatasetSizer
}

// HealthResponse is the body of GET /api/v1/health.
type HealthResponse struct {
	Status  string            `json:"status" example:"ok"`
	Service string            `json:"service" example:"phonedex"`
	Version map[string]string `json:"version"`
	Phones  int               `json:"phones" example:"16"`
}

// Server is the PhoneDex HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	logger     *zap.Logger
	mux        *http.ServeMux
	metrics    *httpMetrics
	dataset    DatasetSizer
}

// New creates a Server listening on addr with the given handlers mounted.
func New(addr string, opts Options, logger *zap.Logger, registrars ...RouteRegistrar) *Server {
	mux := http.NewServeMux()

	s := &Server{
		logger:  logger,
		mux:     mux,
		metrics: newHTTPMetrics(),
		dataset: opts.Dataset,
	}

	s.registerCoreRoutes()
	for _, rr := range registrars {
		rr.RegisterRoutes(mux)
	}

	mws := []Middleware{observe(logger, s.metrics), cors(opts.AllowedOrigins)}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		mws = append(mws, rateLimit(newIPRateLimiter(opts.RateLimit, burst), opts.TrustProxy, logger))
	}
	s.handler = chain(mux, mws...)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// registerCoreRoutes sets up routes that are always available.
func (s *Server) registerCoreRoutes() {
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	s.mux.Handle("GET /metrics", s.metrics.handler())
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// handleHealth returns the server health status.
//
//	@Summary		Health check
//	@Description	Reports service status, build version and the number of phones loaded.
//	@Tags			system
//	@Produce		json
//	@Success		200 {object} HealthResponse
//	@Failure		503 {object} HealthResponse
//	@Router			/health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-PhoneDex-Version", version.Short())

	resp := HealthResponse{
		Status:  "ok",
		Service: version.Service,
		Version: version.Map(),
	}
	status := http.StatusOK
	if s.dataset != nil {
		n, err := s.dataset.Len()
		if err != nil {
			s.logger.Error("catalog unavailable", zap.Error(err))
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
		}
		resp.Phones = n
	}
	WriteJSON(w, status, resp)
}
