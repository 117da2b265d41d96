package scorer

import (
	"math"
	"math/rand"
	"testing"

	"github.com/arnavshah/vendor-match-api/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func newTestScorer(t *testing.T, opts ...Option) *Scorer {
	t.Helper()
	s, err := New(DefaultConfig(), opts...)
	require.NoError(t, err)
	return s
}

func mumbaiRequirements() models.WeddingRequirements {
	return models.WeddingRequirements{
		TotalBudget: "₹20-30 Lakhs",
		GuestCount:  400,
		Location:    "Mumbai",
		Style:       "Traditional",
	}
}

func heritageVenue() models.VendorCandidate {
	return models.VendorCandidate{
		Name:      "Royal Heritage Palace",
		Category:  "venues",
		Location:  "Mumbai",
		Capacity:  "500-1000 guests",
		Price:     "₹2,00,000 - ₹5,00,000",
		Rating:    floatPtr(4.8),
		Specialty: "heritage luxury",
	}
}

func TestBudgetScoreForRatio(t *testing.T) {
	tests := []struct {
		ratio float64
		want  float64
	}{
		{0, 100},
		{0.5, 100},
		{0.8, 100},
		{0.85, 95},
		{1.0, 90},
		{1.05, 75},
		{1.15, 60},
		{1.25, 40},
		{1.5, 30},
		{2.0, BudgetFloor},
		{10, BudgetFloor},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, BudgetScoreForRatio(tt.ratio), 1e-9, "ratio %v", tt.ratio)
	}
}

func TestBudgetScoreIsMonotone(t *testing.T) {
	prev := BudgetScoreForRatio(0)
	for r := 0.01; r <= 5; r += 0.01 {
		cur := BudgetScoreForRatio(r)
		assert.LessOrEqual(t, cur, prev, "ratio %v", r)
		assert.GreaterOrEqual(t, cur, BudgetFloor)
		prev = cur
	}
}

func TestBudgetCompatibilityDoubleAllocation(t *testing.T) {
	s := newTestScorer(t)
	v := heritageVenue()
	// premium bracket gives venues 30% of 25 lakh
	v.Price = "15 lakh"

	res, err := s.Score(mumbaiRequirements(), v)
	require.NoError(t, err)
	assert.Equal(t, BudgetFloor, res.ScoresBreakdown[FactorBudget])
	assert.Equal(t, 750000.0, res.AllocatedBudget)
}

func TestBudgetCompatibilityPerPerson(t *testing.T) {
	s := newTestScorer(t)
	req := mumbaiRequirements()
	v := models.VendorCandidate{Name: "Annapurna Caterers", Category: "catering", Price: "₹1,000 per plate"}

	// 400 plates at 1000 against 25% of 25 lakh
	res, err := s.Score(req, v)
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.ScoresBreakdown[FactorBudget])

	v.Price = "₹1,600 per plate"
	res, err = s.Score(req, v)
	require.NoError(t, err)
	assert.Equal(t, 75.0, res.ScoresBreakdown[FactorBudget])
}

func TestUnknownCategoryUsesDefaultAllocation(t *testing.T) {
	s := newTestScorer(t)
	v := heritageVenue()
	v.Category = "fireworks"

	res, err := s.Score(mumbaiRequirements(), v)
	require.NoError(t, err)
	assert.InDelta(t, 25*lakh*DefaultAllocation, res.AllocatedBudget, 0.5)
	assert.Contains(t, res.DataQualityFlags, "category")
}

func TestCapacityMatch(t *testing.T) {
	s := newTestScorer(t)
	tests := []struct {
		capacity string
		want     float64
	}{
		{"500-1000 guests", 100},
		{"300-600", 100},
		{"100-200", 30},
		{"Up to 50", CapacityFloor},
		{"1000-2000", CapacityOversizeScore},
		{"Multiple events", 100},
		{"", 100},
	}
	for _, tt := range tests {
		v := heritageVenue()
		v.Capacity = tt.capacity
		res, err := s.Score(mumbaiRequirements(), v)
		require.NoError(t, err)
		assert.Equal(t, tt.want, res.ScoresBreakdown[FactorCapacity], tt.capacity)
	}
}

func TestCapacityUnknownScoreIsConfigurable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UnknownCapacityScore = 70
	s, err := New(cfg)
	require.NoError(t, err)

	v := heritageVenue()
	v.Capacity = "Multiple events"
	res, err := s.Score(mumbaiRequirements(), v)
	require.NoError(t, err)
	assert.Equal(t, 70.0, res.ScoresBreakdown[FactorCapacity])
	assert.NotContains(t, res.DataQualityFlags, "capacity")

	v.Capacity = "ask us"
	res, err = s.Score(mumbaiRequirements(), v)
	require.NoError(t, err)
	assert.Equal(t, 70.0, res.ScoresBreakdown[FactorCapacity])
	assert.Contains(t, res.DataQualityFlags, "capacity")
}

func TestLocationProximity(t *testing.T) {
	s := newTestScorer(t)
	tests := []struct {
		location string
		want     float64
	}{
		{"Mumbai", 100},
		{"Bombay", 100},
		{"Andheri, Mumbai", 100},
		{"Thane", 90},
		{"Navi Mumbai", 90},
		{"New Mumbai", 90},
		{"Bandra West Mumbai", 100},
		{"Pune", 70},
		{"Nagpur", SameStateScore},
		{"Delhi", LocationDefaultScore},
		{"", LocationUnknownScore},
	}
	for _, tt := range tests {
		v := heritageVenue()
		v.Location = tt.location
		res, err := s.Score(mumbaiRequirements(), v)
		require.NoError(t, err)
		assert.Equal(t, tt.want, res.ScoresBreakdown[FactorLocation], tt.location)
	}
}

func TestStyleAlignment(t *testing.T) {
	s := newTestScorer(t)
	req := mumbaiRequirements()

	photo := models.VendorCandidate{Name: "Frame Story", Category: "photography", Specialty: "candid, cinematic"}
	req.Style = "Modern"
	res, err := s.Score(req, photo)
	require.NoError(t, err)
	assert.Equal(t, 85.0, res.ScoresBreakdown[FactorStyle])

	photo.Specialty = "portraits"
	res, err = s.Score(req, photo)
	require.NoError(t, err)
	assert.Equal(t, 60.0, res.ScoresBreakdown[FactorStyle])

	req.Style = ""
	res, err = s.Score(req, photo)
	require.NoError(t, err)
	assert.Equal(t, StyleBaseScore, res.ScoresBreakdown[FactorStyle])
}

func TestRatingQuality(t *testing.T) {
	s := newTestScorer(t)
	tests := []struct {
		name    string
		rating  *float64
		reviews *int
		want    float64
	}{
		{"many reviews", floatPtr(4.5), intPtr(60), 100},
		{"some reviews", floatPtr(4.0), intPtr(25), 85},
		{"few reviews", floatPtr(4.0), intPtr(3), 70},
		{"no review count", floatPtr(4.8), nil, 96},
		{"clamped", floatPtr(5.0), intPtr(500), 100},
		{"missing", nil, nil, RatingUnknownScore},
		{"zero", floatPtr(0), intPtr(10), RatingUnknownScore},
		{"nan", floatPtr(math.NaN()), intPtr(60), RatingUnknownScore},
		{"infinite", floatPtr(math.Inf(1)), nil, RatingUnknownScore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := heritageVenue()
			v.Rating = tt.rating
			v.ReviewCount = tt.reviews
			res, err := s.Score(mumbaiRequirements(), v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.ScoresBreakdown[FactorRating])
		})
	}
}

func TestAvailability(t *testing.T) {
	s := newTestScorer(t)
	tests := []struct {
		date   string
		status string
		want   float64
	}{
		{"2025-12-10", "Available", 70},
		{"2025-12-10", "Limited dates", 50},
		{"2025-12-10", "Fully booked", AvailabilityFloor},
		{"2025-12-10", "Not available", AvailabilityFloor},
		{"2025-06-15", "Available", 90},
		{"monsoon", "Available", 90},
		{"", "Available", 80},
		{"", "", 70},
		{"", "call us", AvailabilityFloor},
	}
	for _, tt := range tests {
		req := mumbaiRequirements()
		req.WeddingDate = tt.date
		v := heritageVenue()
		v.AvailabilityStatus = tt.status
		res, err := s.Score(req, v)
		require.NoError(t, err)
		assert.Equal(t, tt.want, res.ScoresBreakdown[FactorAvailability], "%q/%q", tt.date, tt.status)
	}
}

func TestSeasonOf(t *testing.T) {
	assert.Equal(t, SeasonPeak, SeasonOf("2025-11-20"))
	assert.Equal(t, SeasonPeak, SeasonOf("February 2026"))
	assert.Equal(t, SeasonOffPeak, SeasonOf("2025-07-04"))
	assert.Equal(t, SeasonOffPeak, SeasonOf("off-peak"))
	assert.Equal(t, SeasonPeak, SeasonOf("winter"))
	assert.Equal(t, SeasonUnknown, SeasonOf(""))
	assert.Equal(t, SeasonUnknown, SeasonOf("soon"))
	assert.Equal(t, SeasonPeak, SeasonOf("early Dec"))
	assert.Equal(t, SeasonOffPeak, SeasonOf("mid-june, tentative"))
	assert.Equal(t, SeasonOffPeak, SeasonOf("sept end"))
	assert.Equal(t, SeasonUnknown, SeasonOf("court marriage"))
	assert.Equal(t, SeasonUnknown, SeasonOf("decide later"))
}

func TestBracketFor(t *testing.T) {
	assert.Equal(t, BracketEconomy, BracketFor(5*lakh))
	assert.Equal(t, BracketModerate, BracketFor(10*lakh))
	assert.Equal(t, BracketPremium, BracketFor(25*lakh))
	assert.Equal(t, BracketLuxury, BracketFor(35*lakh))
	assert.Equal(t, BracketUltraLuxury, BracketFor(2*crore))
}

func TestAllocationRowsLeaveMiscellaneous(t *testing.T) {
	for b, row := range allocations {
		sum := 0.0
		for _, pct := range row {
			sum += pct
		}
		assert.InDelta(t, 0.90, sum, 1e-9, b.String())
	}
}

func TestSubScoresAreBounded(t *testing.T) {
	s := newTestScorer(t)
	rng := rand.New(rand.NewSource(42))

	budgets := []string{"₹20-30 Lakhs", "Under 5 lakh", "Above 2 crore", "", "lots"}
	prices := []string{"₹50,000", "₹3 cr", "₹900 per plate", "free", "", "0"}
	capacities := []string{"10-20", "5000+", "Multiple events", "", "Up to 100"}
	locations := []string{"Mumbai", "Delhi", "", "Pune", "Atlantis"}
	ratings := []*float64{nil, floatPtr(0), floatPtr(2.5), floatPtr(5), floatPtr(7)}
	statuses := []string{"Available", "Limited", "", "Booked"}
	categories := []string{"venues", "catering", "photography", "decor", "unknown", ""}

	for i := 0; i < 500; i++ {
		req := models.WeddingRequirements{
			TotalBudget: budgets[rng.Intn(len(budgets))],
			GuestCount:  1 + rng.Intn(3000),
			Location:    locations[rng.Intn(len(locations))],
			Style:       []string{"Traditional", "Modern", "", "Boho"}[rng.Intn(4)],
		}
		v := models.VendorCandidate{
			Name:               "v",
			Category:           categories[rng.Intn(len(categories))],
			Location:           locations[rng.Intn(len(locations))],
			Price:              prices[rng.Intn(len(prices))],
			Capacity:           capacities[rng.Intn(len(capacities))],
			Rating:             ratings[rng.Intn(len(ratings))],
			AvailabilityStatus: statuses[rng.Intn(len(statuses))],
		}

		res, err := s.Score(req, v)
		require.NoError(t, err)
		require.Len(t, res.ScoresBreakdown, len(Factors))
		for f, score := range res.ScoresBreakdown {
			assert.GreaterOrEqual(t, score, 0.0, f)
			assert.LessOrEqual(t, score, 100.0, f)
		}
		assert.GreaterOrEqual(t, res.OverallScore, 0.0)
		assert.LessOrEqual(t, res.OverallScore, 100.0)
	}
}

func TestClampNeverReturnsNaN(t *testing.T) {
	assert.Equal(t, 50.0, clamp(math.NaN()))
	assert.Equal(t, 100.0, clamp(math.Inf(1)))
	assert.Equal(t, 0.0, clamp(-3))
}
