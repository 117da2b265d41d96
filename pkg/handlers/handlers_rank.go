package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/arnavshah/vendor-match-api/pkg/cache"
	"github.com/arnavshah/vendor-match-api/pkg/database"
	"github.com/arnavshah/vendor-match-api/pkg/metrics"
	"github.com/arnavshah/vendor-match-api/pkg/models"
	"github.com/arnavshah/vendor-match-api/pkg/scorer"
	"github.com/arnavshah/vendor-match-api/pkg/vendorcsv"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// rankForm carries the requirement fields of a multipart CSV upload
type rankForm struct {
	City        string `form:"city" binding:"required"`
	Budget      string `form:"budget"`
	GuestCount  int    `form:"guestCount" binding:"required,gt=0"`
	WeddingType string `form:"weddingType"`
	Style       string `form:"style"`
	WeddingDate string `form:"weddingDate"`
}

// RankJSON ranks the vendors in a JSON request body
func (h *Handler) RankJSON(c *gin.Context) {
	var in models.RankRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		h.respondBindError(c, err)
		return
	}

	resp, err := h.rank(c, metrics.SourceJSON, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RankCSV ranks vendors uploaded as a CSV file and returns the ranking as CSV
func (h *Handler) RankCSV(c *gin.Context) {
	var form rankForm
	if err := c.ShouldBind(&form); err != nil {
		h.respondBindError(c, err)
		return
	}

	file, err := c.FormFile("vendors_file")
	if err != nil || file == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "vendors_file is required"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to open vendors file"})
		return
	}
	defer f.Close()

	vendors, err := vendorcsv.Read(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	in := models.RankRequest{
		City:        form.City,
		Budget:      form.Budget,
		GuestCount:  form.GuestCount,
		WeddingType: form.WeddingType,
		Style:       form.Style,
		WeddingDate: form.WeddingDate,
		Vendors:     vendors,
	}
	if err := h.validate.Struct(in); err != nil {
		h.respondError(c, err)
		return
	}

	resp, err := h.rank(c, metrics.SourceCSV, in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var out strings.Builder
	if err := vendorcsv.Write(&out, resp.Vendors); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"run_id": resp.RunID,
		"count":  resp.Count,
		"csv":    out.String(),
	})
}

// rank runs a ranking through the cache and records it against the calling key.
func (h *Handler) rank(c *gin.Context, source string, in models.RankRequest) (*models.RankResponse, error) {
	if limit := h.Config.Scoring.MaxVendors; limit > 0 && len(in.Vendors) > limit {
		return nil, &scorer.InputError{Field: "vendors", Reason: fmt.Sprintf("at most %d vendors per request, got %d", limit, len(in.Vendors))}
	}

	ctx := c.Request.Context()
	req := in.Requirements()
	start := time.Now()

	key, keyErr := cache.Key(h.Scorer.Config(), req, in.Vendors)
	ranked, cached := h.lookup(ctx, key, keyErr)
	if !cached {
		var err error
		ranked, err = h.score(ctx, req, in.Vendors)
		if err != nil {
			return nil, err
		}
		if keyErr == nil {
			if err := h.Cache.Set(ctx, key, ranked); err != nil {
				h.Log.Warn("failed to cache ranking", zap.Error(err))
			}
		}
		metrics.VendorsScored.WithLabelValues(source).Add(float64(len(ranked)))
	}

	metrics.RankingsTotal.WithLabelValues(source).Inc()
	metrics.RankingDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	h.RecordUsage(c, len(in.Vendors), 1)

	resp := &models.RankResponse{
		Requirements: req,
		Count:        len(ranked),
		Cached:       cached,
		Vendors:      ranked,
	}
	resp.RunID = h.saveRun(c, source, resp)
	return resp, nil
}

func (h *Handler) lookup(ctx context.Context, key string, keyErr error) ([]models.ScoredVendor, bool) {
	if keyErr != nil {
		h.Log.Warn("failed to build cache key", zap.Error(keyErr))
		metrics.CacheRequests.WithLabelValues(metrics.CacheError).Inc()
		return nil, false
	}
	ranked, found, err := h.Cache.Get(ctx, key)
	switch {
	case err != nil:
		h.Log.Warn("ranking cache unavailable", zap.Error(err))
		metrics.CacheRequests.WithLabelValues(metrics.CacheError).Inc()
		return nil, false
	case found:
		metrics.CacheRequests.WithLabelValues(metrics.CacheHit).Inc()
		return ranked, true
	default:
		metrics.CacheRequests.WithLabelValues(metrics.CacheMiss).Inc()
		return nil, false
	}
}

// score ranks sequentially below the parallel threshold and on a bounded
// worker pool above it.
func (h *Handler) score(ctx context.Context, req models.WeddingRequirements, vendors []models.VendorCandidate) ([]models.ScoredVendor, error) {
	sc := h.Config.Scoring
	if sc.ParallelThreshold > 0 && len(vendors) >= sc.ParallelThreshold {
		return h.Scorer.RankConcurrent(ctx, req, vendors, sc.Workers)
	}
	return h.Scorer.Rank(req, vendors)
}

// saveRun persists the ranking and returns its id, or "" if it could not be stored.
func (h *Handler) saveRun(c *gin.Context, source string, resp *models.RankResponse) string {
	apiKey := apiKeyFromContext(c)
	if apiKey == nil {
		return ""
	}
	result, err := json.Marshal(resp.Vendors)
	if err != nil {
		h.Log.Warn("failed to encode ranking", zap.Error(err))
		return ""
	}

	run := database.RankingRun{
		ID:          uuid.NewString(),
		KeyID:       apiKey.ID,
		Source:      source,
		Location:    resp.Requirements.Location,
		Budget:      resp.Requirements.TotalBudget,
		GuestCount:  resp.Requirements.GuestCount,
		Style:       resp.Requirements.Style,
		VendorCount: resp.Count,
		Cached:      resp.Cached,
		Result:      string(result),
	}
	if len(resp.Vendors) > 0 {
		run.TopVendor = resp.Vendors[0].Name
		run.TopScore = resp.Vendors[0].OverallScore
	}
	if err := h.DB.Create(&run).Error; err != nil {
		h.Log.Warn("failed to save ranking run", zap.Error(err))
		return ""
	}
	return run.ID
}

// GetRanking returns a stored ranking created by the calling key
func (h *Handler) GetRanking(c *gin.Context) {
	apiKey := apiKeyFromContext(c)
	if apiKey == nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "API Key context missing"})
		return
	}

	var run database.RankingRun
	if err := h.DB.Where("id = ? AND key_id = ?", c.Param("id"), apiKey.ID).First(&run).Error; err != nil {
		h.respondError(c, err)
		return
	}

	var vendors []models.ScoredVendor
	if err := json.Unmarshal([]byte(run.Result), &vendors); err != nil {
		h.respondError(c, fmt.Errorf("decode ranking run %s: %w", run.ID, err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": run, "vendors": vendors})
}

// ScoreVendor scores a single vendor
func (h *Handler) ScoreVendor(c *gin.Context) {
	var in models.ScoreRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		h.respondBindError(c, err)
		return
	}

	res, err := h.Scorer.Score(in.Requirements, in.Vendor)
	if err != nil {
		h.respondError(c, err)
		return
	}
	metrics.VendorsScored.WithLabelValues(metrics.SourceJSON).Inc()
	h.RecordUsage(c, 1, 0)

	c.JSON(http.StatusOK, models.ScoredVendor{VendorCandidate: in.Vendor, ScoreResult: res})
}

// Normalize shows how free-text budget, price and capacity strings are parsed
func (h *Handler) Normalize(c *gin.Context) {
	var in models.NormalizeRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		h.respondBindError(c, err)
		return
	}
	if in.Budget == "" && in.Price == "" && in.Capacity == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "at least one of budget, price or capacity is required"})
		return
	}

	out := gin.H{}
	if in.Budget != "" {
		b := scorer.ParseBudgetRange(in.Budget)
		out["budget"] = b
		out["budget_bracket"] = scorer.BracketFor(b.Avg).String()
	}
	if in.Price != "" {
		out["price"] = scorer.ParseVendorPrice(in.Price)
	}
	if in.Capacity != "" {
		out["capacity"] = scorer.ParseCapacity(in.Capacity)
	}
	h.RecordUsage(c, 0, 0)
	c.JSON(http.StatusOK, out)
}
