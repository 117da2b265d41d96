package handlers

import (
	"net/http"

	"github.com/arnavshah/vendor-match-api/pkg/database"
	"github.com/gin-gonic/gin"
)

// GetMyUsage returns usage stats for the authenticated API key
func (h *Handler) GetMyUsage(c *gin.Context) {
	apiKey := apiKeyFromContext(c)
	if apiKey == nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "API Key context missing"})
		return
	}

	var usage []database.APIUsage
	if err := h.DB.Where("key_id = ?", apiKey.ID).Order("date desc").Limit(30).Find(&usage).Error; err != nil {
		h.respondError(c, err)
		return
	}

	var totalRequests, totalVendors, totalRankings int64
	for _, u := range usage {
		totalRequests += int64(u.RequestCount)
		totalVendors += int64(u.VendorsScored)
		totalRankings += int64(u.Rankings)
	}

	c.JSON(http.StatusOK, gin.H{
		"key_name":      apiKey.Name,
		"rate_limit":    apiKey.RateLimit,
		"usage_history": usage,
		"totals": gin.H{
			"requests":       totalRequests,
			"vendors_scored": totalVendors,
			"rankings":       totalRankings,
		},
	})
}
