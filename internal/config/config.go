package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds the configuration for the reminder service.
// Environment variables are parsed from the REMINDLY_ prefix,
// e.g. REMINDLY_HTTP_PORT, REMINDLY_POSTGRES_DSN.
type Config struct {
	// HTTP server
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Storage. Driver "auto" resolves to postgres when a DSN is set,
	// otherwise sqlite.
	DBDriver    string `envconfig:"DB_DRIVER" default:"auto"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:""`
	DataDir     string `envconfig:"DATA_DIR" default:"data"`

	// Auth
	JWTSecret     string `envconfig:"JWT_SECRET" default:"local-dev-secret"`
	TokenTTLHours int    `envconfig:"TOKEN_TTL_HOURS" default:"72"`

	// Remote spreadsheet mirror. Empty URL disables mirroring entirely.
	SheetURL            string `envconfig:"SHEET_URL" default:""`
	SheetRetryCount     int    `envconfig:"SHEET_RETRY_COUNT" default:"3"`
	SheetBackoffSeconds int    `envconfig:"SHEET_BACKOFF_SECONDS" default:"1"`
	SyncPullSpec        string `envconfig:"SYNC_PULL_SPEC" default:"@every 15m"`

	// AI assistant
	AssistantProvider    string  `envconfig:"ASSISTANT_PROVIDER" default:"deepseek"`
	AssistantModel       string  `envconfig:"ASSISTANT_MODEL" default:"deepseek-chat"`
	AssistantAPIKey      string  `envconfig:"ASSISTANT_API_KEY" default:""`
	AssistantTemperature float32 `envconfig:"ASSISTANT_TEMPERATURE" default:"0.7"`

	// Health monitoring
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
}

// ResolveDefaults derives the storage driver and sqlite path when left on
// "auto", and rejects unsupported selections.
func (c *Config) ResolveDefaults() error {
	if c.DBDriver == "" || c.DBDriver == "auto" {
		if c.PostgresDSN != "" {
			c.DBDriver = "postgres"
		} else {
			c.DBDriver = "sqlite"
		}
	}
	switch c.DBDriver {
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("DB_DRIVER=postgres requires POSTGRES_DSN")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			c.SQLitePath = c.DataDir + "/remindly.db"
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.SheetRetryCount < 0 {
		return fmt.Errorf("SHEET_RETRY_COUNT must be non-negative")
	}
	return nil
}

// New creates a Config from REMINDLY_-prefixed environment variables.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("REMINDLY", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Int("port", cfg.HTTPPort).
		Str("db_driver", cfg.DBDriver).
		Bool("sheet_mirror", cfg.SheetURL != "").
		Str("assistant_provider", cfg.AssistantProvider).
		Str("assistant_model", cfg.AssistantModel).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting returns a config suitable for unit tests: sqlite in a
// temporary location, no remote mirror, no assistant key.
func NewForTesting(dir string) *Config {
	cfg := &Config{
		HTTPPort:                  8080,
		DBDriver:                  "sqlite",
		SQLitePath:                dir + "/remindly-test.db",
		DataDir:                   dir,
		JWTSecret:                 "test-secret",
		TokenTTLHours:             1,
		SheetRetryCount:           3,
		SheetBackoffSeconds:       1,
		SyncPullSpec:              "@every 15m",
		AssistantProvider:         "deepseek",
		AssistantModel:            "deepseek-chat",
		AssistantTemperature:      0.7,
		HealthIntervalSeconds:     30,
		HealthProbeTimeoutSeconds: 2,
	}
	return cfg
}

// GetHTTPAddr returns the HTTP listen address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
