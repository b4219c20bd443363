// Package service provides the analysis service behind the HTTP API and the
// CLI.
package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/okian/kitcheck/internal/domain/colormetric"
	"github.com/okian/kitcheck/internal/domain/conflict"
	"github.com/okian/kitcheck/internal/domain/evalcache"
	"github.com/okian/kitcheck/internal/domain/kits"
	"github.com/okian/kitcheck/pkg/logger"
	"github.com/okian/kitcheck/pkg/metrics"
)

// Service runs kit color analyses. It is safe for concurrent use.
type Service struct {
	// Configuration
	baseDeltaE   float64
	baseContrast float64

	// Counters
	total       atomic.Int64
	ok          atomic.Int64
	conflicts   atomic.Int64
	failed      atomic.Int64
	comparisons atomic.Int64

	cache   evalcache.Cache
	logger  logger.Logger
	metrics *metrics.Manager
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDefaultThresholds sets the baselines used when a request omits them.
func WithDefaultThresholds(deltaE, contrast float64) Option {
	return func(s *Service) {
		if deltaE >= 0 {
			s.baseDeltaE = deltaE
		}
		if contrast >= 0 {
			s.baseContrast = contrast
		}
	}
}

// WithMetrics records analysis metrics on m instead of the global manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithEvaluationCache shares c across analyses. Comparisons repeated with the
// same baselines are served from it.
func WithEvaluationCache(c evalcache.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// New constructs a Service with default thresholds. The global logger must be
// initialized unless WithLogger is given.
func New(opts ...Option) *Service {
	s := &Service{
		baseDeltaE:   conflict.DefaultBaseDeltaE,
		baseContrast: conflict.DefaultBaseContrast,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("analyzer")
	}
	if s.metrics == nil {
		s.metrics = metrics.Default()
	}
	if s.cache == nil {
		s.cache = evalcache.New()
	}
	return s
}

// Analyze searches the request's kits for a non-conflicting pairing. Every
// failure is reported through the Report status; it never returns an error.
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) Report {
	start := time.Now()
	report := s.analyze(ctx, req)

	s.total.Add(1)
	switch report.Status {
	case StatusOK:
		s.ok.Add(1)
	case StatusConflict:
		s.conflicts.Add(1)
	default:
		s.failed.Add(1)
	}
	s.metrics.RecordAnalysis(report.Status)
	s.metrics.RecordAnalysisLatency(float64(time.Since(start).Microseconds()) / 1000)
	return report
}

func (s *Service) analyze(ctx context.Context, req AnalyzeRequest) Report {
	if req.Team1 == nil || req.Team2 == nil || req.Team1.HomeKit == "" || req.Team2.HomeKit == "" {
		s.logger.Info(ctx, "analysis rejected", logger.String("reason", "missing homekit"))
		return errorReport(ErrMissingRequiredColor.Error())
	}

	ev := conflict.NewEvaluator(
		conflict.WithBaseDeltaE(valueOr(req.DeltaEThreshold, s.baseDeltaE)),
		conflict.WithBaseContrast(valueOr(req.ContrastThreshold, s.baseContrast)),
	)
	pairing, log, err := kits.FindNonConflicting(*req.Team1, *req.Team2, evalcache.Wrap(s.cache, ev))
	s.observe(ctx, log)

	if err != nil {
		var fe *colormetric.FormatError
		if errors.As(err, &fe) {
			s.logger.Info(ctx, "analysis rejected", logger.String("reason", "invalid color"), logger.String("input", fe.Input))
			return errorReport(fe.Error())
		}
		s.logger.Error(ctx, "analysis failed", logger.Error(err))
		return errorReport(err.Error())
	}

	if pairing == nil {
		s.logger.Info(ctx, "all combinations clash", logger.Int("comparisons", len(log)))
		return conflictReport(log)
	}

	s.logger.Info(ctx, "found non-conflicting combination",
		logger.String("stage", pairing.Stage),
		logger.String("team1Kit", pairing.Team1.DisplayName),
		logger.String("team2Kit", pairing.Team2.DisplayName),
		logger.Int("comparisons", len(log)),
	)
	return okReport(pairing, log)
}

// observe logs and records every comparison of a search.
func (s *Service) observe(ctx context.Context, log kits.SearchLog) {
	s.comparisons.Add(int64(len(log)))
	s.metrics.RecordSearchDepth(len(log))
	for _, e := range log {
		s.metrics.RecordEvaluation(e.Evaluation.Conflict, e.Evaluation.Metrics.DeltaE)
		s.logger.Debug(ctx, "compared kits",
			logger.String("stage", e.Stage),
			logger.String("base", e.Base.Color),
			logger.String("compare", e.Compare.Color),
			logger.Float64("deltaE", e.Evaluation.Metrics.DeltaE),
			logger.Bool("conflict", e.Evaluation.Conflict),
		)
	}
}

// Thresholds returns the service's default baselines.
func (s *Service) Thresholds() (deltaE, contrast float64) {
	return s.baseDeltaE, s.baseContrast
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"analyses":                 s.total.Load(),
		"ok":                       s.ok.Load(),
		"conflicts":                s.conflicts.Load(),
		"errors":                   s.failed.Load(),
		"comparisons":              s.comparisons.Load(),
		"defaultDeltaEThreshold":   s.baseDeltaE,
		"defaultContrastThreshold": s.baseContrast,
		"cacheSize":                s.cache.Size(),
		"cacheHits":                s.cache.Hits(),
		"cacheMisses":              s.cache.Misses(),
	}
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
