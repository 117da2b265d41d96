package scorer

import (
	"fmt"
	"math"

	"github.com/arnavshah/vendor-match-api/pkg/models"
)

// Recommendation tiers, best first.
const (
	TierPerfectMatch = "PERFECT_MATCH"
	TierGreatMatch   = "GREAT_MATCH"
	TierGoodMatch    = "GOOD_MATCH"
	TierFairMatch    = "FAIR_MATCH"
	TierPoorMatch    = "POOR_MATCH"
)

// Confidence levels describing how consistent the sub-scores are.
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
)

var tiers = []struct {
	min         float64
	name        string
	description string
}{
	{85, TierPerfectMatch, "Excellent fit across your budget, guest count, location and style"},
	{70, TierGreatMatch, "Strong fit with only minor trade-offs"},
	{55, TierGoodMatch, "Solid option worth shortlisting"},
	{40, TierFairMatch, "Workable, but compare against alternatives"},
	{math.Inf(-1), TierPoorMatch, "Significant mismatch with your requirements"},
}

// TierFor returns the recommendation tier and its description. Each
// threshold includes its lower bound.
func TierFor(overall float64) (string, string) {
	for _, t := range tiers {
		if overall >= t.min {
			return t.name, t.description
		}
	}
	return TierPoorMatch, tiers[len(tiers)-1].description
}

// ConfidenceLevel derives an auxiliary signal from the spread and mean of the
// sub-scores. It plays no part in ranking.
func ConfidenceLevel(breakdown map[string]float64) string {
	if len(breakdown) == 0 {
		return ConfidenceLow
	}
	lo, hi, sum := math.Inf(1), math.Inf(-1), 0.0
	for _, f := range Factors {
		v := breakdown[f]
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		sum += v
	}
	mean := sum / float64(len(Factors))
	spread := hi - lo

	switch {
	case spread <= 30 && mean >= 75:
		return ConfidenceHigh
	case spread <= 50 && mean >= 55:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// explain builds the ordered reasons and warnings for a vendor.
func explain(e *evaluation, breakdown map[string]float64, allocated float64) ([]string, []string) {
	req := e.profile.req
	label := categoryLabel(e)
	reasons := []string{}
	warnings := []string{}

	if b := breakdown[FactorBudget]; b > 85 {
		reasons = append(reasons, fmt.Sprintf("Estimated cost fits within the %s allocated for %s", FormatINR(allocated), label))
	} else if b < 50 {
		warnings = append(warnings, fmt.Sprintf("Estimated cost of %s exceeds the %s allocated for %s", FormatINR(e.estimatedCost), FormatINR(allocated), label))
	}

	if c := breakdown[FactorCapacity]; c > 90 {
		reasons = append(reasons, fmt.Sprintf("Can comfortably host %d guests", req.GuestCount))
	} else if c < 60 {
		warnings = append(warnings, fmt.Sprintf("May not accommodate %d guests (capacity %s)", req.GuestCount, e.vendor.Capacity))
	}

	if l := breakdown[FactorLocation]; l >= 100 {
		reasons = append(reasons, fmt.Sprintf("Based in %s", req.Location))
	} else if l > 85 {
		reasons = append(reasons, fmt.Sprintf("Located close to %s", req.Location))
	} else if l < 50 {
		warnings = append(warnings, fmt.Sprintf("Based outside %s; travel and logistics costs may apply", req.Location))
	}

	if req.Style != "" {
		if st := breakdown[FactorStyle]; st > 70 {
			reasons = append(reasons, fmt.Sprintf("Experienced with %s style weddings", req.Style))
		} else if st < 55 {
			warnings = append(warnings, fmt.Sprintf("Limited evidence of %s style experience", req.Style))
		}
	}

	if r := breakdown[FactorRating]; r > 85 && e.vendor.Rating != nil {
		reasons = append(reasons, fmt.Sprintf("Highly rated at %.1f/5", *e.vendor.Rating))
	} else if r < 60 {
		warnings = append(warnings, "Below-average customer rating")
	}

	if a := breakdown[FactorAvailability]; a > 80 {
		reasons = append(reasons, "Good availability for your wedding date")
	} else if a < 50 {
		warnings = append(warnings, "Limited availability around your wedding date")
	}

	return reasons, warnings
}

func categoryLabel(e *evaluation) string {
	if e.knownCategory {
		return string(e.category)
	}
	if e.vendor.Category != "" {
		return e.vendor.Category
	}
	return "this category"
}

// FormatINR renders an amount the way Indian wedding budgets are quoted.
func FormatINR(amount float64) string {
	switch {
	case amount >= crore:
		return fmt.Sprintf("₹%.2f Cr", amount/crore)
	case amount >= lakh:
		return fmt.Sprintf("₹%.2f Lakh", amount/lakh)
	default:
		return fmt.Sprintf("₹%.0f", amount)
	}
}

func buildResult(e *evaluation, w Weights, breakdown map[string]float64, allocated float64) models.ScoreResult {
	overall := w.Combine(breakdown)
	tier, description := TierFor(overall)
	reasons, warnings := explain(e, breakdown, allocated)
	return models.ScoreResult{
		OverallScore:       overall,
		ScoresBreakdown:    breakdown,
		RecommendationTier: tier,
		TierDescription:    description,
		ConfidenceLevel:    ConfidenceLevel(breakdown),
		Reasons:            reasons,
		Warnings:           warnings,
		AllocatedBudget:    math.Round(allocated),
		DataQualityFlags:   e.fallbacks,
	}
}
