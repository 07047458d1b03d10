// Package server provides the HTTP REST API for the skill matcher.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/skill-matcher/internal/config"
	"github.com/jonathan/skill-matcher/internal/db"
	"github.com/jonathan/skill-matcher/internal/extraction"
	"github.com/jonathan/skill-matcher/internal/logging"
	"github.com/jonathan/skill-matcher/internal/matching"
	"github.com/jonathan/skill-matcher/internal/metrics"
	"github.com/jonathan/skill-matcher/internal/recommend"
	"github.com/jonathan/skill-matcher/internal/server/middleware"
	"github.com/jonathan/skill-matcher/internal/server/ratelimit"
	"github.com/jonathan/skill-matcher/internal/types"
	"github.com/jonathan/skill-matcher/internal/vocabulary"
)

// ServiceName is reported by /health.
const ServiceName = "skill-matcher"

// AnalysisStore persists analyses and answers history queries.
// *db.DB satisfies it.
type AnalysisStore interface {
	SaveAnalysis(ctx context.Context, a *types.Analysis) error
	GetAnalysis(ctx context.Context, id uuid.UUID) (*types.Analysis, error)
	ListAnalyses(ctx context.Context, limit int) ([]types.Analysis, error)
	TopMissingSkills(ctx context.Context, since time.Time, limit int) ([]db.SkillCount, error)
	AverageMatchScore(ctx context.Context, since time.Time) (*db.ScoreSummary, error)
	ScoreDistribution(ctx context.Context, since time.Time) ([]db.ScoreBucket, error)
	AnalysisTrends(ctx context.Context, since time.Time) ([]db.DailyTrend, error)
	TopJobTitles(ctx context.Context, since time.Time, limit int) ([]db.JobTitleCount, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	mux             *http.ServeMux
	handler         http.Handler
	vocab           *vocabulary.Store
	extractor       *extraction.Extractor
	matcher         *matching.Matcher
	recommender     *recommend.Recommender
	store           AnalysisStore
	logger          *zap.Logger
	metrics         *metrics.Metrics
	rateLimiter     *ratelimit.Limiter
	validate        *validator.Validate
	maxUploadBytes  int64
	allowedOrigin   string
	shutdownTimeout time.Duration
	now             func() time.Time
}

// Config holds server configuration
type Config struct {
	Port            int
	MaxUploadBytes  int64
	AllowedOrigin   string
	ShutdownTimeout time.Duration

	Vocabulary *vocabulary.Store // nil uses the embedded vocabulary
	Store      AnalysisStore     // nil disables history endpoints
	Logger     *zap.Logger       // nil discards logs
	Metrics    *metrics.Metrics  // nil uses the process-wide collectors
	RateLimit  *ratelimit.Config // nil loads RATE_LIMIT_* from the environment
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	vocab := cfg.Vocabulary
	if vocab == nil {
		vocab = vocabulary.Default()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = config.DefaultMaxUploadBytes
	}
	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = config.DefaultAllowedOrigin
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = config.DefaultShutdownTimeout
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewMetrics()
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = ratelimit.LoadConfig()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, fmt.Errorf("failed to register validator: %w", err)
	}

	extractor := extraction.New(vocab)
	matcher := matching.New(vocab, extractor)

	s := &Server{
		vocab:           vocab,
		extractor:       extractor,
		matcher:         matcher,
		recommender:     recommend.New(vocab, matcher),
		store:           cfg.Store,
		logger:          logging.OrNop(cfg.Logger),
		metrics:         cfg.Metrics,
		rateLimiter:     ratelimit.NewLimiter(cfg.RateLimit),
		validate:        validate,
		maxUploadBytes:  cfg.MaxUploadBytes,
		allowedOrigin:   cfg.AllowedOrigin,
		shutdownTimeout: cfg.ShutdownTimeout,
		now:             time.Now,
	}

	// Setup router
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())

	// Analysis endpoints
	mux.HandleFunc("POST /extract-text", s.handleExtractText)
	mux.HandleFunc("POST /extract-skills", s.handleExtractSkills)
	mux.HandleFunc("POST /match", s.handleMatch)
	mux.HandleFunc("POST /recommend", s.handleRecommend)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)

	// History endpoints
	mux.HandleFunc("GET /analyses", s.handleListAnalyses)
	mux.HandleFunc("GET /analyses/{id}", s.handleGetAnalysis)
	mux.HandleFunc("GET /analytics/top-missing-skills", s.handleTopMissingSkills)
	mux.HandleFunc("GET /analytics/average-score", s.handleAverageScore)
	mux.HandleFunc("GET /analytics/score-distribution", s.handleScoreDistribution)
	mux.HandleFunc("GET /analytics/trends", s.handleTrends)
	mux.HandleFunc("GET /analytics/top-job-titles", s.handleTopJobTitles)

	s.mux = mux
	s.handler = middleware.RequestID(s.withRateLimit(s.withLogging(s.withCORS(mux))))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and blocks until ctx is cancelled or
// the process receives SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr),
			zap.String("vocabulary_version", s.vocab.Version()),
			zap.Bool("history_enabled", s.store != nil))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.rateLimiter.Stop()
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	defer s.rateLimiter.Stop()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+middleware.RequestIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), s.routePath(r), r.Method)
		setRateLimitHeaders(w, info)

		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// routePath is the path of the mux pattern r will be routed to, so every
// /analyses/{id} request shares one limiter. Unrouted requests share "unmatched".
func (s *Server) routePath(r *http.Request) string {
	_, pattern := s.mux.Handler(r)
	if pattern == "" {
		return "unmatched"
	}
	if _, path, ok := strings.Cut(pattern, " "); ok {
		return path
	}
	return pattern
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// withLogging adds request logging and request metrics
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		// r.Pattern is filled in by the mux; unmatched paths share one label.
		endpoint := r.Pattern
		if endpoint == "" {
			endpoint = "unmatched"
		}
		elapsed := time.Since(start)
		s.metrics.ObserveRequest(endpoint, rec.status, elapsed)

		requestID, _ := middleware.GetRequestID(r.Context())
		s.logger.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String(logging.FieldEndpoint, endpoint),
			zap.Int("status", rec.status),
			zap.Duration("duration", elapsed),
			zap.String("request_id", requestID),
			zap.String("remote_addr", r.RemoteAddr),
		)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	history := "disabled"
	if s.store != nil {
		history = "enabled"
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":             "healthy",
		"service":            ServiceName,
		"vocabulary_version": s.vocab.Version(),
		"history":            history,
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// fail maps err to its status and writes it. Server-side failures are logged
// and their details withheld from the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		requestID, _ := middleware.GetRequestID(r.Context())
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestID),
			zap.Error(err))
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// extractClientID extracts the client identifier from the request.
// Uses the IP address from RemoteAddr; forwarded headers are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String("client", s.extractClientID(r)),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
