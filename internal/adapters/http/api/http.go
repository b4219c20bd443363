// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	service "github.com/okian/kitcheck/internal/app"
	"github.com/okian/kitcheck/pkg/logger"
)

// Response messages.
const (
	HealthMessage      = "Jersey Color Checker API is running\nUse POST /analyze to test colors."
	msgInvalidJSON     = "Please provide valid JSON payload"
	msgBodyTooLarge    = "Request body too large"
	msgRouteNotFound   = "Route not found"
	msgUnexpectedError = "Unexpected server error, please try again later"
)

// Analyzer runs a kit analysis. *service.Service satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, req service.AnalyzeRequest) service.Report
}

// Server wires HTTP routes for the business API.
type Server struct {
	rootHandler    *RootHandler
	analyzeHandler *AnalyzeHandler
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler

	allowOrigin  string
	maxBodyBytes int64
	logger       logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithAllowOrigin sets the Access-Control-Allow-Origin value.
func WithAllowOrigin(origin string) Option {
	return func(s *Server) {
		if origin != "" {
			s.allowOrigin = origin
		}
	}
}

// WithMaxBodyBytes caps the accepted request body size.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithLogger sets the logger used for server errors and panics.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(analyzer Analyzer, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		allowOrigin:  "*",
		maxBodyBytes: 1 << 20,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("http")
	}
	s.analyzeHandler = NewAnalyzeHandler(analyzer, s.maxBodyBytes, s.logger)
	s.rootHandler = NewRootHandler(s.analyzeHandler)
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/analyze", MetricsMiddleware(s.analyzeHandler.HandleAnalyze, "analyze"))
	mux.HandleFunc("/", MetricsMiddleware(s.rootHandler.HandleRoot, "root"))
}

// Handler wraps mux with the middleware chain shared by every route.
func (s *Server) Handler(mux http.Handler) http.Handler {
	return RecoverMiddleware(RequestIDMiddleware(CORSMiddleware(mux, s.allowOrigin)), s.logger)
}

// RootHandler serves the health text on GET / and accepts analyses on
// POST / and POST /analyze/. Everything else is not found.
type RootHandler struct {
	analyze *AnalyzeHandler
}

// NewRootHandler creates a new root handler.
func NewRootHandler(analyze *AnalyzeHandler) *RootHandler {
	return &RootHandler{analyze: analyze}
}

// HandleRoot handles requests that matched no specific route.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	path := sanitizePath(r.URL.Path)
	switch {
	case path == "/" && r.Method == http.MethodGet:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(HealthMessage))
	case (path == "/" || path == "/analyze") && r.Method == http.MethodPost:
		h.analyze.HandleAnalyze(w, r)
	default:
		writeError(w, http.StatusNotFound, msgRouteNotFound)
	}
}

// sanitizePath drops trailing slashes; the bare root stays "/".
func sanitizePath(p string) string {
	p = strings.TrimRight(p, "/")
	if p == "" {
		return "/"
	}
	return p
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
