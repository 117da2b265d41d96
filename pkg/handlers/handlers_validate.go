package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/arnavshah/vendor-match-api/pkg/models"
	"github.com/arnavshah/vendor-match-api/pkg/scorer"
	"github.com/gin-gonic/gin"
)

// ValidateInput checks a ranking request without scoring it and reports what
// the normalizer will have to guess.
func (h *Handler) ValidateInput(c *gin.Context) {
	var input models.RankRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid":               false,
			"error":               err.Error(),
		})
		return
	}

	if len(input.Vendors) == 0 {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": "At least one vendor is required"})
		return
	}
	if limit := h.Config.Scoring.MaxVendors; limit > 0 && len(input.Vendors) > limit {
		c.JSON(http.StatusOK, gin.H{
			"valid":               false,
			"error":               fmt.Sprintf("At most %d vendors per request", limit),
		})
		return
	}

	// Check for duplicate names
	names := make(map[string]bool)
	for _, v := range input.Vendors {
		key := strings.ToLower(strings.TrimSpace(v.Name))
		if names[key] {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Duplicate vendor name: " + v.Name})
			return
		}
		names[key] = true
	}

	categories := make(map[string]int)
	var unknownCategories, badPrices, flexibleCapacities []string
	for _, v := range input.Vendors {
		cat, ok := scorer.NormalizeCategory(v.Category)
		if !ok {
			unknownCategories = append(unknownCategories, v.Name)
			cat = "unknown"
		}
		categories[string(cat)]++
		if scorer.ParseVendorPrice(v.Price).Fallback {
			badPrices = append(badPrices, v.Name)
		}
		if v.Capacity != "" && scorer.ParseCapacity(v.Capacity).Flexible {
			flexibleCapacities = append(flexibleCapacities, v.Name)
		}
	}

	h.RecordUsage(c, 0, 0)
	budget := scorer.ParseBudgetRange(input.Budget)
	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"vendor_count":        len(input.Vendors),
			"categories":          categories,
			"unknown_categories":  unknownCategories,
			"unparseable_prices":  badPrices,
			"flexible_capacities": flexibleCapacities,
			"budget_fallback":     budget.Fallback,
			"budget_bracket":      scorer.BracketFor(budget.Avg).String(),
		},
	})
}
