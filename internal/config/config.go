package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/Simplici0/quoteworks/internal/logging"
)

const (
	defaultEnvironment = "development"
	defaultDBPath      = "./dev.db"
	defaultPort        = "8080"
	defaultCurrency    = "USD"
	defaultLeadTimeout = 10 * time.Second
)

// Config holds application configuration sourced from the environment and
// an optional .env file.
type Config struct {
	Environment   string
	Port          string
	DBPath        string
	SessionSecret string
	Currency      string
	Lead          LeadConfig
	Logging       logging.Config

	// Warnings lists non-fatal problems found while loading.
	Warnings []string
}

// LeadConfig configures delivery of quotes and leads to the sales backend.
type LeadConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// IsDev reports whether the application runs in development mode.
func (c Config) IsDev() bool {
	return c.Environment == defaultEnvironment
}

// Load reads .env from the working directory (if present) and the process
// environment. Environment variables win over the file.
func Load() Config {
	return load(".env")
}

func load(envFile string) Config {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", defaultEnvironment)
	v.SetDefault("PORT", defaultPort)
	v.SetDefault("DB_PATH", defaultDBPath)
	v.SetDefault("CURRENCY", defaultCurrency)
	v.SetDefault("LEAD_TIMEOUT", defaultLeadTimeout)
	defaults := logging.DefaultConfig()
	v.SetDefault("LOG_LEVEL", defaults.Level)
	v.SetDefault("LOG_FORMAT", defaults.Format)
	v.SetDefault("LOG_OUTPUT", defaults.Output)

	// Best-effort: production injects real environment variables.
	_ = v.ReadInConfig()

	cfg := Config{
		Environment:   v.GetString("APP_ENV"),
		Port:          v.GetString("PORT"),
		DBPath:        v.GetString("DB_PATH"),
		SessionSecret: v.GetString("SESSION_SECRET"),
		Currency:      v.GetString("CURRENCY"),
		Lead: LeadConfig{
			Endpoint: v.GetString("LEAD_ENDPOINT"),
			Timeout:  v.GetDuration("LEAD_TIMEOUT"),
		},
		Logging: logging.Config{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
			Output: v.GetString("LOG_OUTPUT"),
		},
	}
	cfg.Logging.Development = cfg.IsDev()

	if cfg.SessionSecret == "" {
		cfg.Warnings = append(cfg.Warnings, "SESSION_SECRET is not set; cart sessions use a per-process key and end on restart")
	}
	if cfg.Lead.Endpoint == "" {
		cfg.Warnings = append(cfg.Warnings, "LEAD_ENDPOINT is not set; quote submission is disabled")
	}
	if cfg.Lead.Timeout <= 0 {
		cfg.Lead.Timeout = defaultLeadTimeout
	}

	return cfg
}
