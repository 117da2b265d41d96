package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/arnavshah/vendor-match-api/pkg/auth"
	"github.com/arnavshah/vendor-match-api/pkg/cache"
	"github.com/arnavshah/vendor-match-api/pkg/config"
	"github.com/arnavshah/vendor-match-api/pkg/database"
	"github.com/arnavshah/vendor-match-api/pkg/scorer"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Version is reported by the root endpoint
const Version = "1.0.0"

// Handler contains dependencies for the route handlers
type Handler struct {
	DB      *gorm.DB
	Scorer  *scorer.Scorer
	Cache   cache.RankingCache
	Auth    *auth.Authenticator
	Log     *zap.Logger
	Limiter *KeyRateLimiter
	Config  *config.Config

	validate *validator.Validate
}

// NewHandler wires a Handler. A nil cache disables caching.
func NewHandler(cfg *config.Config, db *gorm.DB, sc *scorer.Scorer, rc cache.RankingCache, a *auth.Authenticator, log *zap.Logger) *Handler {
	if rc == nil {
		rc = cache.Noop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	v := validator.New()
	// reuse the gin binding tags on request models
	v.SetTagName("binding")
	return &Handler{
		DB:       db,
		Scorer:   sc,
		Cache:    rc,
		Auth:     a,
		Log:      log,
		Limiter:  NewKeyRateLimiter(),
		Config:   cfg,
		validate: v,
	}
}

// Root describes the service
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Vendor Match API",
		"version": Version,
	})
}

// Health reports database and cache reachability
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{"database": "ok", "cache": "ok"}

	if sqlDB, err := h.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		status = http.StatusServiceUnavailable
		checks["database"] = "unreachable"
	}
	if err := h.Cache.Ping(ctx); err != nil {
		// the service still ranks without its cache
		checks["cache"] = "unreachable"
	}

	c.JSON(status, gin.H{"status": http.StatusText(status), "checks": checks})
}

func bearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:]
	}
	return header
}

// AuthMiddleware verifies the JWT token for admin routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header required"})
			return
		}

		claims, err := h.Auth.VerifyToken(bearerToken(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid token"})
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// APIKeyMiddleware verifies the HMAC API key for ranking routes
func (h *Handler) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("Authorization")
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "API Key required"})
			return
		}
		key = bearerToken(key)

		name, err := h.Auth.VerifyHMACKey(key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid API Key signature"})
			return
		}

		apiKey, err := auth.ResolveAPIKey(h.DB, key, name, h.Config.Auth.DefaultRateLimit)
		if errors.Is(err, auth.ErrKeyRevoked) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "API Key revoked"})
			return
		}
		if err != nil {
			h.respondError(c, err)
			c.Abort()
			return
		}

		c.Set(apiKeyKey, apiKey)
		c.Next()
	}
}

// RecordUsage records API usage in the database using an upsert
func (h *Handler) RecordUsage(c *gin.Context, vendorCount, rankings int) {
	apiKey := apiKeyFromContext(c)
	if apiKey == nil {
		return
	}

	today := time.Now().Format("2006-01-02")
	err := h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count":  gorm.Expr("request_count + ?", 1),
			"vendors_scored": gorm.Expr("vendors_scored + ?", vendorCount),
			"rankings":       gorm.Expr("rankings + ?", rankings),
		}),
	}).Create(&database.APIUsage{
		KeyID:         apiKey.ID,
		Date:          today,
		RequestCount:  1,
		VendorsScored: vendorCount,
		Rankings:      rankings,
	}).Error
	if err != nil {
		h.Log.Warn("failed to record usage", zap.Uint("key_id", apiKey.ID), zap.Error(err))
	}
}

// Login handles admin login
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	var user database.MasterUser
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid credentials"})
		return
	}
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid credentials"})
		return
	}

	token, err := h.Auth.CreateToken(user.Username)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// GenerateKey creates a new API key using the HMAC strategy
func (h *Handler) GenerateKey(c *gin.Context) {
	var req struct {
		Name      string `json:"name" binding:"required,excludes=.,max=64"`
		RateLimit int    `json:"rate_limit" binding:"gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}
	if req.RateLimit == 0 {
		req.RateLimit = h.Config.Auth.DefaultRateLimit
	}

	key := h.Auth.GenerateHMACKey(req.Name)
	apiKey := database.APIKey{
		Key:        key,
		Name:       req.Name,
		KeyPreview: auth.KeyPreview(key),
		RateLimit:  req.RateLimit,
	}
	if err := h.DB.Create(&apiKey).Error; err != nil {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Could not create key record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         apiKey.ID,
		"name":       req.Name,
		"key":        key,
		"rate_limit": apiKey.RateLimit,
	})
}

// ListKeys returns all API keys, masked
func (h *Handler) ListKeys(c *gin.Context) {
	var keys []database.APIKey
	if err := h.DB.Order("id").Find(&keys).Error; err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"keys": keys})
}

// RevokeKey soft deletes an API key so later requests with it are refused
func (h *Handler) RevokeKey(c *gin.Context) {
	res := h.DB.Delete(&database.APIKey{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		h.respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		h.respondError(c, gorm.ErrRecordNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Key revoked"})
}

// UpdateKeyLimit updates the rate limit for a key
func (h *Handler) UpdateKeyLimit(c *gin.Context) {
	var req struct {
		RateLimit int `json:"rate_limit" form:"rate_limit"`
	}
	// JSON body first, then query string
	if err := c.ShouldBindJSON(&req); err != nil {
		if err := c.ShouldBindQuery(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "rate_limit is required"})
			return
		}
	}
	if req.RateLimit <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid rate limit"})
		return
	}

	res := h.DB.Model(&database.APIKey{}).Where("id = ?", c.Param("id")).Update("rate_limit", req.RateLimit)
	if res.Error != nil {
		h.respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		h.respondError(c, gorm.ErrRecordNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rate limit updated successfully"})
}

// GetUsage returns the last 30 days of usage for a key
func (h *Handler) GetUsage(c *gin.Context) {
	var usage []database.APIUsage
	if err := h.DB.Where("key_id = ?", c.Param("id")).Order("date desc").Limit(30).Find(&usage).Error; err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"usage": usage})
}
