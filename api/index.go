package handler

import (
	"net/http"
	"sync"

	"github.com/arnavshah/vendor-match-api/pkg/app"
	"github.com/arnavshah/vendor-match-api/pkg/config"
	"github.com/arnavshah/vendor-match-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	once   sync.Once
	router http.Handler
)

// setup builds the service once per cold start. A failed build serves 503s
// so the error is visible instead of crashing the function.
func setup() {
	cfg, err := config.Load()
	if err != nil {
		router = unavailable(err)
		return
	}
	log := logger.Must(cfg.Logging.Level, cfg.Logging.Format)

	a, err := app.Build(cfg, log)
	if err != nil {
		log.Error("failed to build service", zap.Error(err))
		router = unavailable(err)
		return
	}
	router = a.Router
}

func unavailable(err error) http.Handler {
	r := gin.New()
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service unavailable", "details": err.Error()})
	})
	return r
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(setup)
	router.ServeHTTP(w, r)
}
