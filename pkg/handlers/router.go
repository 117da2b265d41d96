package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter registers every route on a fresh gin engine.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(h.Log), Metrics(), Recovery(h.Log))

	r.GET("/", h.Root)
	r.GET("/healthz", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/admin/login", h.Login)

	// Admin Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	// Ranking Endpoints
	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware(), h.RateLimitMiddleware())
	{
		api.POST("/rank", h.RankJSON)
		api.POST("/rank/csv", h.RankCSV)
		api.POST("/score", h.ScoreVendor)
		api.POST("/normalize", h.Normalize)
		api.POST("/validate", h.ValidateInput)
		api.GET("/rankings/:id", h.GetRanking)
		api.GET("/usage", h.GetMyUsage)
	}

	return r
}
