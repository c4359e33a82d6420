// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/bmi/pkg/logger"
)

const defaultMaxBodyBytes = 1 << 20

// Server wires HTTP routes for the calculator API.
type Server struct {
	calculateHandler *CalculateHandler
	healthHandler    *HealthHandler
	log              logger.Logger
	maxBodyBytes     int64
	allowedOrigins   []string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used by handlers and middleware. Without it
// the server uses the global logger, which must be initialized.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMaxBodyBytes caps calculation request bodies. Non-positive values
// keep the default of 1 MiB.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithAllowedOrigins sets the CORS allow list. An empty list disables
// Access-Control-Allow-Origin.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(calc Calculator, opts ...Option) *Server {
	s := &Server{
		maxBodyBytes:   defaultMaxBodyBytes,
		allowedOrigins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("http")
	}
	s.calculateHandler = NewCalculateHandler(calc, s.log, s.maxBodyBytes)
	s.healthHandler = NewHealthHandler()
	return s
}

// Register attaches the API routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("POST /api/calculate", MetricsMiddleware(s.calculateHandler.HandleCalculate, "calculate"))
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
}

// Handler wraps h with the process-wide middleware. Request ids are
// assigned first so that panic and access logs carry them.
func (s *Server) Handler(h http.Handler) http.Handler {
	return Chain(h,
		RequestIDMiddleware(),
		RecoveryMiddleware(s.log),
		AccessLogMiddleware(s.log),
		CORSMiddleware(s.allowedOrigins),
	)
}

// writeJSON marshals v before writing headers; an encode failure is a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeText(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}
