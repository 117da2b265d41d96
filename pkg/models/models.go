package models

// WeddingRequirements is what a couple asks for in a single ranking call
type WeddingRequirements struct {
	TotalBudget string   `json:"total_budget"`
	GuestCount  int      `json:"guest_count"`
	Location    string   `json:"location"`
	WeddingDate string   `json:"wedding_date,omitempty"`
	Style       string   `json:"style"`
	Priorities  []string `json:"priorities,omitempty"`
}

// VendorCandidate represents one vendor offered for ranking
type VendorCandidate struct {
	Name               string   `json:"name" binding:"required"`
	Category           string   `json:"category"`
	Location           string   `json:"location"`
	Rating             *float64 `json:"rating,omitempty"`
	ReviewCount        *int     `json:"reviews,omitempty"`
	Price              string   `json:"price"`
	Capacity           string   `json:"capacity"`
	Specialty          string   `json:"specialty,omitempty"`
	Type               string   `json:"type,omitempty"`
	AvailabilityStatus string   `json:"availability,omitempty"`
}

// ScoreResult is the computed match of one vendor against the requirements
type ScoreResult struct {
	OverallScore       float64            `json:"overall_score"`
	ScoresBreakdown    map[string]float64 `json:"scores_breakdown"`
	RecommendationTier string             `json:"recommendation_tier"`
	TierDescription    string             `json:"tier_description"`
	ConfidenceLevel    string             `json:"confidence_level"`
	Reasons            []string           `json:"reasons"`
	Warnings           []string           `json:"warnings"`
	AllocatedBudget    float64            `json:"allocated_budget"`
	DataQualityFlags   []string           `json:"data_quality_flags,omitempty"`
}

// ScoredVendor is a vendor augmented with its score
type ScoredVendor struct {
	VendorCandidate
	ScoreResult
}

// RankRequest is the JSON body accepted by the ranking endpoint
type RankRequest struct {
	City        string            `json:"city" binding:"required"`
	Budget      string            `json:"budget"`
	GuestCount  int               `json:"guestCount" binding:"required,gt=0"`
	WeddingType string            `json:"weddingType,omitempty"`
	Style       string            `json:"style,omitempty"`
	WeddingDate string            `json:"weddingDate,omitempty"`
	Priorities  []string          `json:"priorities,omitempty"`
	Vendors     []VendorCandidate `json:"vendors" binding:"required,dive"`
}

// Requirements converts the request into engine input.
// An explicit style wins over the wedding type.
func (r RankRequest) Requirements() WeddingRequirements {
	style := r.Style
	if style == "" {
		style = r.WeddingType
	}
	return WeddingRequirements{
		TotalBudget: r.Budget,
		GuestCount:  r.GuestCount,
		Location:    r.City,
		WeddingDate: r.WeddingDate,
		Style:       style,
		Priorities:  r.Priorities,
	}
}

// RankResponse is the result of a ranking call
type RankResponse struct {
	RunID        string              `json:"run_id"`
	Requirements WeddingRequirements `json:"requirements"`
	Count        int                 `json:"count"`
	Cached       bool                `json:"cached"`
	Vendors      []ScoredVendor      `json:"vendors"`
}

// ScoreRequest scores a single vendor
type ScoreRequest struct {
	Requirements WeddingRequirements `json:"requirements"`
	Vendor       VendorCandidate     `json:"vendor" binding:"required"`
}

// NormalizeRequest carries free-text fields to run through the parsers
type NormalizeRequest struct {
	Budget   string `json:"budget,omitempty"`
	Price    string `json:"price,omitempty"`
	Capacity string `json:"capacity,omitempty"`
}
