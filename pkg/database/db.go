package database

import (
	"fmt"
	"time"

	"github.com/arnavshah/vendor-match-api/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// APIKey represents the api_keys table. Revoked keys are soft deleted so
// their signature can never be re-registered.
type APIKey struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Key        string         `gorm:"unique;not null" json:"-"`
	Name       string         `gorm:"not null" json:"name"`
	KeyPreview string         `json:"key_preview"`
	RateLimit  int            `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time      `json:"created_at"`
	LastUsed   *time.Time     `json:"last_used"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// APIUsage represents the api_usages table, one row per key per day
type APIUsage struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	KeyID         uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date          string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount  int    `gorm:"default:0" json:"request_count"`
	VendorsScored int    `gorm:"default:0" json:"vendors_scored"`
	Rankings      int    `gorm:"default:0" json:"rankings"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// RankingRun is one persisted ranking, retrievable by the key that created it
type RankingRun struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	KeyID       uint      `gorm:"index;not null" json:"key_id"`
	Source      string    `gorm:"size:16" json:"source"`
	Location    string    `json:"location"`
	Budget      string    `json:"budget"`
	GuestCount  int       `json:"guest_count"`
	Style       string    `json:"style"`
	VendorCount int       `json:"vendor_count"`
	TopVendor   string    `json:"top_vendor"`
	TopScore    float64   `json:"top_score"`
	Cached      bool      `json:"cached"`
	Result      string    `gorm:"type:text" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// Open connects to Postgres when a URL is configured, SQLite otherwise, and
// migrates the schema.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if cfg.URL != "" {
		gormCfg.PrepareStmt = false
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.URL,
			PreferSimpleProtocol: true,
		}), gormCfg)
	} else {
		dbPath := cfg.DataPath
		if dbPath == "" {
			dbPath = "vendor_match.db"
		}
		db, err = gorm.Open(sqlite.Open(dbPath), gormCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&APIKey{}, &APIUsage{}, &MasterUser{}, &RankingRun{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
