package config

import (
	"time"

	"github.com/arnavshah/vendor-match-api/pkg/scorer"
)

// Config is the full service configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Scoring  ScoringConfig  `mapstructure:"scoring"`

	// EnvFile is the .env file that was loaded, if any
	EnvFile string `mapstructure:"-"`
}

type ServerConfig struct {
	Port    string `mapstructure:"port"`
	GinMode string `mapstructure:"gin_mode"`
}

// DatabaseConfig selects Postgres when URL is set, otherwise SQLite at DataPath.
type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	DataPath string `mapstructure:"data_path"`
}

type AuthConfig struct {
	JWTSecret        string        `mapstructure:"jwt_secret"`
	APIMasterSecret  string        `mapstructure:"api_master_secret"`
	AdminUsername    string        `mapstructure:"admin_username"`
	AdminPassword    string        `mapstructure:"admin_password"`
	TokenTTL         time.Duration `mapstructure:"token_ttl"`
	BcryptCost       int           `mapstructure:"bcrypt_cost"`
	DefaultRateLimit int           `mapstructure:"default_rate_limit"` // requests per day
}

// RedisConfig configures the ranking cache. An empty Address disables it.
type RedisConfig struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ScoringConfig holds the engine constants plus how the service runs it.
type ScoringConfig struct {
	Weights              scorer.Weights `mapstructure:"weights"`
	UnknownCapacityScore float64        `mapstructure:"unknown_capacity_score"`
	// ParallelThreshold is the vendor count from which rankings are scored concurrently.
	ParallelThreshold int `mapstructure:"parallel_threshold"`
	Workers           int `mapstructure:"workers"`
	MaxVendors        int `mapstructure:"max_vendors"`
}

// Engine returns the scorer configuration.
func (s ScoringConfig) Engine() scorer.Config {
	return scorer.Config{
		Weights:              s.Weights,
		UnknownCapacityScore: s.UnknownCapacityScore,
	}
}
