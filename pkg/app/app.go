package app

import (
	"errors"
	"fmt"

	"github.com/arnavshah/vendor-match-api/pkg/auth"
	"github.com/arnavshah/vendor-match-api/pkg/cache"
	"github.com/arnavshah/vendor-match-api/pkg/config"
	"github.com/arnavshah/vendor-match-api/pkg/database"
	"github.com/arnavshah/vendor-match-api/pkg/handlers"
	"github.com/arnavshah/vendor-match-api/pkg/metrics"
	"github.com/arnavshah/vendor-match-api/pkg/scorer"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// App is a fully wired service
type App struct {
	Router  *gin.Engine
	Handler *handlers.Handler
	cache   cache.RankingCache
}

// Build opens the database, seeds the admin user and wires the handlers.
func Build(cfg *config.Config, log *zap.Logger) (*App, error) {
	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}

	a, err := auth.New(cfg.Auth)
	if err != nil {
		return nil, err
	}
	created, err := a.EnsureAdminExists(db, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("seed admin user: %w", err)
	}
	if created {
		log.Info("created admin user", zap.String("username", cfg.Auth.AdminUsername))
	}

	sc, err := NewScorer(cfg, log)
	if err != nil {
		return nil, err
	}

	rc := cache.New(cfg.Redis)
	if cfg.Redis.Address != "" {
		log.Info("ranking cache enabled",
			zap.String("address", cfg.Redis.Address),
			zap.Duration("ttl", cfg.Redis.CacheTTL),
		)
	}

	h := handlers.NewHandler(cfg, db, sc, rc, a, log)
	return &App{
		Router:  handlers.NewRouter(h),
		Handler: h,
		cache:   rc,
	}, nil
}

// NewScorer builds the scoring engine with fallback metrics attached.
func NewScorer(cfg *config.Config, log *zap.Logger) (*scorer.Scorer, error) {
	sc, err := scorer.New(cfg.Scoring.Engine(),
		scorer.WithLogger(log.Named("scorer")),
		scorer.WithFallbackHook(metrics.RecordFallback),
	)
	if err != nil {
		return nil, fmt.Errorf("create scorer: %w", err)
	}
	return sc, nil
}

// Close releases the cache and database connections.
func (a *App) Close() error {
	var errs []error
	if err := a.cache.Close(); err != nil {
		errs = append(errs, err)
	}
	if sqlDB, err := a.Handler.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
