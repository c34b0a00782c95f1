package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// engine knobs
	POLeadTimeDays    int
	DefaultHourlyRate float64
	PurgeMaxOpenAge   time.Duration
	RateLimit         string
}

// LoadConfig reads configuration from a .env file (if present) and the
// environment, applying defaults for everything but the database URL.
func LoadConfig() (*Config, error) {
	// .env is a development convenience; the environment wins
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("PO_LEAD_TIME_DAYS", 14)
	v.SetDefault("DEFAULT_HOURLY_RATE", 95.0)
	v.SetDefault("PURGE_MAX_OPEN_AGE", "24h")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:       v.GetString("PGSQL_URL"),
		Port:              v.GetString("PORT"),
		IsProduction:      v.GetBool("IS_PRODUCTION"),
		POLeadTimeDays:    v.GetInt("PO_LEAD_TIME_DAYS"),
		DefaultHourlyRate: v.GetFloat64("DEFAULT_HOURLY_RATE"),
		RateLimit:         v.GetString("RATE_LIMIT"),
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("PGSQL_URL is required")
	}

	maxOpenAge, err := time.ParseDuration(v.GetString("PURGE_MAX_OPEN_AGE"))
	if err != nil {
		return nil, fmt.Errorf("invalid PURGE_MAX_OPEN_AGE: %w", err)
	}
	cfg.PurgeMaxOpenAge = maxOpenAge

	if cfg.POLeadTimeDays <= 0 {
		return nil, fmt.Errorf("PO_LEAD_TIME_DAYS must be positive")
	}
	if cfg.DefaultHourlyRate <= 0 {
		return nil, fmt.Errorf("DEFAULT_HOURLY_RATE must be positive")
	}
	return cfg, nil
}
