package scorer

import (
	"math"
	"regexp"
	"strings"

	"github.com/arnavshah/vendor-match-api/pkg/models"
)

// Neutral and default scores used when a field is missing or unmatched.
const (
	BudgetFloor           = 10.0
	CapacityFloor         = 10.0
	CapacityOversizeScore = 85.0
	LocationUnknownScore  = 50.0
	LocationDefaultScore  = 30.0
	SameStateScore        = 60.0
	StyleBaseScore        = 50.0
	StyleKeywordBonus     = 25.0
	RatingUnknownScore    = 60.0
	AvailabilityFloor     = 30.0
	LimitedPenalty        = 20.0
	MissingStatusPenalty  = 10.0
)

var seasonBase = map[Season]float64{
	SeasonPeak:    70,
	SeasonOffPeak: 90,
	SeasonUnknown: 80,
}

var capacitySentinelRe = regexp.MustCompile(`(?i)multiple events|unlimited|flexible|any size`)

// requirementProfile holds the requirement fields every factor needs, parsed
// once per ranking call and shared read-only between vendors.
type requirementProfile struct {
	req      models.WeddingRequirements
	budget   BudgetRange
	bracket  BudgetBracket
	city     string
	theme    string
	themed   bool
	keywords []string
	season   Season
}

func newRequirementProfile(req models.WeddingRequirements) *requirementProfile {
	budget := ParseBudgetRange(req.TotalBudget)
	theme, themed := resolveTheme(req.Style)
	keywords := themeKeywords[theme]
	if !themed {
		keywords = strings.Fields(strings.ToLower(req.Style))
	}
	return &requirementProfile{
		req:      req,
		budget:   budget,
		bracket:  BracketFor(budget.Avg),
		city:     canonicalCity(req.Location),
		theme:    theme,
		themed:   themed,
		keywords: keywords,
		season:   SeasonOf(req.WeddingDate),
	}
}

// evaluation is the per-vendor scratch state of a single score call
type evaluation struct {
	vendor        models.VendorCandidate
	profile       *requirementProfile
	category      Category
	knownCategory bool
	estimatedCost float64
	fallbacks     []string
}

func (e *evaluation) fallback(field string) {
	e.fallbacks = append(e.fallbacks, field)
}

// budgetCompatibility returns the budget score and the amount allocated to
// the vendor's category.
func (s *Scorer) budgetCompatibility(e *evaluation) (float64, float64) {
	p := e.profile
	pct, ok := Allocation(p.bracket, e.category)
	if !ok {
		e.fallback("category")
	}
	allocated := p.budget.Avg * pct

	price := ParseVendorPrice(e.vendor.Price)
	if price.Fallback {
		e.fallback("price")
	}
	cost := price.Avg
	if price.PerPerson {
		cost *= float64(p.req.GuestCount)
	}
	e.estimatedCost = cost

	var ratio float64
	switch {
	case cost <= 0:
		ratio = 0
	case allocated <= 0:
		ratio = math.Inf(1)
	default:
		ratio = cost / allocated
	}
	return BudgetScoreForRatio(ratio), allocated
}

// BudgetScoreForRatio maps vendor cost over allocated budget to a score. It is
// non-increasing in ratio and never drops below BudgetFloor.
func BudgetScoreForRatio(ratio float64) float64 {
	if math.IsNaN(ratio) {
		return BudgetFloor
	}
	switch {
	case ratio <= 0.8:
		return 100
	case ratio <= 0.9:
		return 95
	case ratio <= 1.0:
		return 90
	case ratio <= 1.1:
		return 75
	case ratio <= 1.2:
		return 60
	case ratio <= 1.3:
		return 40
	}
	return math.Max(BudgetFloor, 40-(ratio-1.3)*50)
}

func (s *Scorer) capacityMatch(e *evaluation) float64 {
	raw := strings.TrimSpace(e.vendor.Capacity)
	c := ParseCapacity(raw)
	if c.Flexible {
		if !capacitySentinelRe.MatchString(raw) {
			e.fallback("capacity")
		}
		return s.cfg.UnknownCapacityScore
	}

	guests := e.profile.req.GuestCount
	if guests > c.Max {
		ratio := float64(c.Max) / float64(guests)
		return math.Max(CapacityFloor, 100*ratio-20)
	}
	// a hall built for twice the party is a mild mismatch, never a failure
	if c.Min > 0 && 2*guests < c.Min {
		return CapacityOversizeScore
	}
	return 100
}

func (s *Scorer) locationProximity(e *evaluation) float64 {
	vendorCity := canonicalCity(e.vendor.Location)
	wanted := e.profile.city
	if vendorCity == "" || wanted == "" {
		e.fallback("location")
		return LocationUnknownScore
	}
	if vendorCity == wanted {
		return 100
	}
	// listed neighbours first, so "navi mumbai" is not read as "mumbai"
	if score, ok := nearbyCities[pairKey(vendorCity, wanted)]; ok {
		return score
	}
	if strings.Contains(vendorCity, wanted) || strings.Contains(wanted, vendorCity) {
		return 100
	}
	if sameState(vendorCity, wanted) {
		return SameStateScore
	}
	return LocationDefaultScore
}

func (s *Scorer) styleAlignment(e *evaluation) float64 {
	p := e.profile
	score := StyleBaseScore

	tags := strings.ToLower(strings.TrimSpace(e.vendor.Specialty + " " + e.vendor.Type))
	if tags == "" {
		e.fallback("specialty")
	}
	for _, kw := range p.keywords {
		if tags != "" && strings.Contains(tags, kw) {
			score += StyleKeywordBonus
			break
		}
	}
	if p.themed {
		score += categoryStyleBonus[e.category][p.theme]
	}
	return math.Min(score, 100)
}

// ratingQuality treats a missing, non-positive or non-finite rating as unrated.
func (s *Scorer) ratingQuality(e *evaluation) float64 {
	if !hasRating(e.vendor) {
		e.fallback("rating")
		return RatingUnknownScore
	}
	score := math.Min(*e.vendor.Rating, 5) * 20
	if e.vendor.ReviewCount != nil {
		switch n := *e.vendor.ReviewCount; {
		case n >= 50:
			score += 10
		case n >= 20:
			score += 5
		case n < 5:
			score -= 10
		}
	}
	return clamp(score)
}

func (s *Scorer) availability(e *evaluation) float64 {
	base := seasonBase[e.profile.season]
	status := strings.ToLower(strings.TrimSpace(e.vendor.AvailabilityStatus))
	switch {
	case status == "":
		e.fallback("availability")
		return base - MissingStatusPenalty
	case containsAny(status, "unavailable", "not available", "booked", "sold out"):
		return AvailabilityFloor
	case strings.Contains(status, "limited"):
		return base - LimitedPenalty
	case strings.Contains(status, "available"):
		return base
	default:
		return AvailabilityFloor
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasRating(v models.VendorCandidate) bool {
	return v.Rating != nil && *v.Rating > 0 && !math.IsInf(*v.Rating, 0)
}

// clamp bounds a sub-score to [0,100]; NaN becomes the neutral midpoint.
func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 50
	}
	return math.Max(0, math.Min(100, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
