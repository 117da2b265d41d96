package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arnavshah/vendor-match-api/pkg/scorer"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envBindings maps config keys to the flat environment variables used in deployment.
var envBindings = map[string]string{
	"server.port":                    "PORT",
	"server.gin_mode":                "GIN_MODE",
	"database.url":                   "DATABASE_URL",
	"database.data_path":             "DATA_PATH",
	"auth.jwt_secret":                "JWT_SECRET",
	"auth.api_master_secret":         "API_MASTER_SECRET",
	"auth.admin_username":            "ADMIN_USERNAME",
	"auth.admin_password":            "ADMIN_PASSWORD",
	"auth.token_ttl":                 "JWT_TTL",
	"auth.bcrypt_cost":               "BCRYPT_COST",
	"auth.default_rate_limit":        "DEFAULT_RATE_LIMIT",
	"redis.address":                  "REDIS_ADDR",
	"redis.password":                 "REDIS_PASSWORD",
	"redis.db":                       "REDIS_DB",
	"redis.cache_ttl":                "REDIS_CACHE_TTL",
	"logging.level":                  "LOG_LEVEL",
	"logging.format":                 "LOG_FORMAT",
	"scoring.weights.budget":         "SCORING_WEIGHT_BUDGET",
	"scoring.weights.capacity":       "SCORING_WEIGHT_CAPACITY",
	"scoring.weights.location":       "SCORING_WEIGHT_LOCATION",
	"scoring.weights.style":          "SCORING_WEIGHT_STYLE",
	"scoring.weights.rating":         "SCORING_WEIGHT_RATING",
	"scoring.weights.availability":   "SCORING_WEIGHT_AVAILABILITY",
	"scoring.unknown_capacity_score": "SCORING_UNKNOWN_CAPACITY_SCORE",
	"scoring.parallel_threshold":     "SCORING_PARALLEL_THRESHOLD",
	"scoring.workers":                "SCORING_WORKERS",
	"scoring.max_vendors":            "SCORING_MAX_VENDORS",
}

// Load reads config.yaml (optional), a .env file (optional) and the
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	envFile := loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	if root := findProjectRoot(); root != "" {
		v.AddConfigPath(filepath.Join(root, "configs"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg, err := load(v)
	if err != nil {
		return nil, err
	}
	cfg.EnvFile = envFile
	return cfg, nil
}

// LoadFromFile reads configuration from a specific YAML file plus the environment.
func LoadFromFile(path string) (*Config, error) {
	envFile := loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := load(v)
	if err != nil {
		return nil, err
	}
	cfg.EnvFile = envFile
	return cfg, nil
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8000")
	v.SetDefault("database.data_path", "vendor_match.db")

	v.SetDefault("auth.admin_username", "admin")
	v.SetDefault("auth.admin_password", "admin123")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.bcrypt_cost", 14)
	v.SetDefault("auth.default_rate_limit", 10000)

	v.SetDefault("redis.cache_ttl", 10*time.Minute)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	w := scorer.DefaultWeights()
	v.SetDefault("scoring.weights.budget", w.Budget)
	v.SetDefault("scoring.weights.capacity", w.Capacity)
	v.SetDefault("scoring.weights.location", w.Location)
	v.SetDefault("scoring.weights.style", w.Style)
	v.SetDefault("scoring.weights.rating", w.Rating)
	v.SetDefault("scoring.weights.availability", w.Availability)
	v.SetDefault("scoring.unknown_capacity_score", scorer.DefaultConfig().UnknownCapacityScore)
	v.SetDefault("scoring.parallel_threshold", 50)
	v.SetDefault("scoring.workers", 8)
	v.SetDefault("scoring.max_vendors", 1000)
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if err := cfg.Scoring.Weights.Validate(); err != nil {
		return fmt.Errorf("scoring.weights: %w", err)
	}
	if s := cfg.Scoring.UnknownCapacityScore; s <= 0 || s > 100 {
		return fmt.Errorf("scoring.unknown_capacity_score must be in (0, 100], got %v", s)
	}
	if cfg.Scoring.Workers < 0 {
		return fmt.Errorf("scoring.workers must not be negative")
	}
	if cfg.Scoring.MaxVendors <= 0 {
		return fmt.Errorf("scoring.max_vendors must be positive")
	}
	if cfg.Auth.DefaultRateLimit <= 0 {
		return fmt.Errorf("auth.default_rate_limit must be positive")
	}
	return nil
}

// loadEnvFile loads the first .env found, trying the working directory, its
// parents and the module root. It returns the path loaded, or "".
func loadEnvFile() string {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	if root := findProjectRoot(); root != "" {
		possiblePaths = append(possiblePaths, filepath.Join(root, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
