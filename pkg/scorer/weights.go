package scorer

import (
	"fmt"
	"math"
)

// Factor names as they appear in a score breakdown.
const (
	FactorBudget       = "budget_compatibility"
	FactorCapacity     = "capacity_match"
	FactorLocation     = "location_proximity"
	FactorStyle        = "style_alignment"
	FactorRating       = "rating_quality"
	FactorAvailability = "availability"
)

// Factors lists every factor in reporting order.
var Factors = []string{
	FactorBudget,
	FactorCapacity,
	FactorLocation,
	FactorStyle,
	FactorRating,
	FactorAvailability,
}

const weightTolerance = 1e-6

// Weights is the relative importance of each factor. They must sum to 1.0.
type Weights struct {
	Budget       float64 `mapstructure:"budget" json:"budget"`
	Capacity     float64 `mapstructure:"capacity" json:"capacity"`
	Location     float64 `mapstructure:"location" json:"location"`
	Style        float64 `mapstructure:"style" json:"style"`
	Rating       float64 `mapstructure:"rating" json:"rating"`
	Availability float64 `mapstructure:"availability" json:"availability"`
}

// DefaultWeights returns the canonical six-factor weighting.
func DefaultWeights() Weights {
	return Weights{
		Budget:       0.25,
		Capacity:     0.15,
		Location:     0.20,
		Style:        0.15,
		Rating:       0.15,
		Availability: 0.10,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Budget + w.Capacity + w.Location + w.Style + w.Rating + w.Availability
}

// Validate checks that weights are non-negative and sum to 1.0.
func (w Weights) Validate() error {
	weights := w.byFactor()
	for _, f := range Factors {
		if weights[f] < 0 {
			return fmt.Errorf("negative weight for %s: %f", f, weights[f])
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("weights sum to %.6f, must sum to 1.0", sum)
	}
	return nil
}

func (w Weights) byFactor() map[string]float64 {
	return map[string]float64{
		FactorBudget:       w.Budget,
		FactorCapacity:     w.Capacity,
		FactorLocation:     w.Location,
		FactorStyle:        w.Style,
		FactorRating:       w.Rating,
		FactorAvailability: w.Availability,
	}
}

// Combine returns the weighted overall score for a breakdown, rounded to one
// decimal place. Missing factors count as zero.
func (w Weights) Combine(breakdown map[string]float64) float64 {
	weights := w.byFactor()
	total := 0.0
	for _, f := range Factors {
		total += breakdown[f] * weights[f]
	}
	return round1(clamp(total))
}
