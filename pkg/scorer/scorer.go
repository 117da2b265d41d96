package scorer

import (
	"fmt"

	"github.com/arnavshah/vendor-match-api/pkg/models"
	"go.uber.org/zap"
)

// Config selects the canonical constants of the engine
type Config struct {
	Weights Weights `mapstructure:"weights"`
	// UnknownCapacityScore is used when a vendor's capacity is unconstrained or
	// cannot be parsed. It must lie in (0, 100].
	UnknownCapacityScore float64 `mapstructure:"unknown_capacity_score"`
}

// DefaultConfig treats unknown capacity as flexible.
func DefaultConfig() Config {
	return Config{
		Weights:              DefaultWeights(),
		UnknownCapacityScore: 100,
	}
}

// Option customises a Scorer
type Option func(*Scorer)

// WithLogger sets the logger used to report fallbacks.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scorer) {
		if l != nil {
			s.log = l
		}
	}
}

// WithFallbackHook registers a callback invoked once per fallback field. It
// may be called from several goroutines by RankConcurrent.
func WithFallbackHook(fn func(field string)) Option {
	return func(s *Scorer) {
		s.onFallback = fn
	}
}

// Scorer ranks vendors against wedding requirements. It holds no mutable
// state and is safe for concurrent use.
type Scorer struct {
	cfg        Config
	log        *zap.Logger
	onFallback func(field string)
}

// New creates a scorer after validating the configuration
func New(cfg Config, opts ...Option) (*Scorer, error) {
	if err := cfg.Weights.Validate(); err != nil {
		return nil, fmt.Errorf("scorer weights: %w", err)
	}
	if cfg.UnknownCapacityScore <= 0 || cfg.UnknownCapacityScore > 100 {
		return nil, fmt.Errorf("unknown capacity score must be in (0, 100], got %v", cfg.UnknownCapacityScore)
	}
	s := &Scorer{cfg: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Config returns the configuration the scorer was built with
func (s *Scorer) Config() Config {
	return s.cfg
}

// Score computes the match of a single vendor
func (s *Scorer) Score(req models.WeddingRequirements, vendor models.VendorCandidate) (models.ScoreResult, error) {
	if err := validateRequirements(req); err != nil {
		return models.ScoreResult{}, err
	}
	return s.score(newRequirementProfile(req), vendor), nil
}

func (s *Scorer) score(p *requirementProfile, vendor models.VendorCandidate) models.ScoreResult {
	category, known := NormalizeCategory(vendor.Category)
	e := &evaluation{
		vendor:        vendor,
		profile:       p,
		category:      category,
		knownCategory: known,
	}
	if p.budget.Fallback {
		e.fallback("total_budget")
	}

	budget, allocated := s.budgetCompatibility(e)
	breakdown := map[string]float64{
		FactorBudget:       round1(clamp(budget)),
		FactorCapacity:     round1(clamp(s.capacityMatch(e))),
		FactorLocation:     round1(clamp(s.locationProximity(e))),
		FactorStyle:        round1(clamp(s.styleAlignment(e))),
		FactorRating:       round1(clamp(s.ratingQuality(e))),
		FactorAvailability: round1(clamp(s.availability(e))),
	}

	if len(e.fallbacks) > 0 {
		s.log.Debug("scoring fallback used",
			zap.String("vendor", vendor.Name),
			zap.Strings("fields", e.fallbacks),
		)
		if s.onFallback != nil {
			for _, f := range e.fallbacks {
				s.onFallback(f)
			}
		}
	}

	return buildResult(e, s.cfg.Weights, breakdown, allocated)
}
