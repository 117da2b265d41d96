package handlers

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/arnavshah/vendor-match-api/pkg/database"
	"github.com/arnavshah/vendor-match-api/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	requestIDKey    = "requestId"
	requestIDHeader = "X-Request-Id"
	apiKeyKey       = "apiKey"
)

// RequestID attaches a request ID to the context and the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// RequestIDFromContext fetches the request ID stored by RequestID.
func RequestIDFromContext(c *gin.Context) string {
	if id, ok := c.Get(requestIDKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

// RequestLogger emits one structured log line per request.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("request_id", RequestIDFromContext(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if key := apiKeyFromContext(c); key != nil {
			fields = append(fields, zap.String("key", key.Name))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			log.Error("request complete", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("request complete", fields...)
		default:
			log.Info("request complete", fields...)
		}
	}
}

// Metrics records request counts and latency per route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Recovery turns a panic into a logged 500.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		log.Error("panic recovered",
			zap.String("request_id", RequestIDFromContext(c)),
			zap.Any("panic", err),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	})
}

func apiKeyFromContext(c *gin.Context) *database.APIKey {
	raw, ok := c.Get(apiKeyKey)
	if !ok {
		return nil
	}
	key, _ := raw.(*database.APIKey)
	return key
}

// KeyRateLimiter holds one token bucket per API key. A key's daily limit is
// spread evenly over the day, with up to an hour's worth as burst.
type KeyRateLimiter struct {
	mu       sync.Mutex
	limiters map[uint]*keyLimiter
}

type keyLimiter struct {
	perDay  int
	limiter *rate.Limiter
}

// NewKeyRateLimiter creates an empty limiter set
func NewKeyRateLimiter() *KeyRateLimiter {
	return &KeyRateLimiter{limiters: make(map[uint]*keyLimiter)}
}

// Allow reports whether a request for keyID may proceed. Changing perDay
// replaces the key's bucket.
func (l *KeyRateLimiter) Allow(keyID uint, perDay int) bool {
	if perDay <= 0 {
		return false
	}

	l.mu.Lock()
	kl, ok := l.limiters[keyID]
	if !ok || kl.perDay != perDay {
		burst := perDay / 24
		if burst < 1 {
			burst = 1
		}
		kl = &keyLimiter{
			perDay:  perDay,
			limiter: rate.NewLimiter(rate.Limit(float64(perDay)/86400), burst),
		}
		l.limiters[keyID] = kl
	}
	l.mu.Unlock()

	return kl.limiter.Allow()
}

// RateLimitMiddleware rejects requests over the calling key's rate limit.
// It must run after APIKeyMiddleware.
func (h *Handler) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := apiKeyFromContext(c)
		if key == nil {
			c.Next()
			return
		}
		if !h.Limiter.Allow(key.ID, key.RateLimit) {
			h.Log.Warn("rate limit exceeded",
				zap.String("key", key.Name),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
