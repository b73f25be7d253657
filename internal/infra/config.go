package infra

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   string `env:"PORT" envDefault:"8000"`

	// Provider credentials and models.
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	VeoModel      string `env:"VEO_MODEL" envDefault:"veo-3.1-fast-generate-preview"`
	ImagenModel   string `env:"IMAGEN_MODEL" envDefault:"imagen-4.0-fast-generate-001"`
	TTSBaseURL    string `env:"TTS_BASE_URL" envDefault:"https://translate.google.com"`

	// Optional Airtable audit integration.
	AirtableAPIKey    string `env:"AIRTABLE_API_KEY"`
	AirtableBaseID    string `env:"AIRTABLE_BASE_ID"`
	AirtableTableName string `env:"AIRTABLE_TABLE_NAME" envDefault:"AI_Influencer_Videos"`

	// Artifact storage.
	DataDir string `env:"DATA_DIR" envDefault:"./data"`

	// Video defaults.
	DefaultAspectRatio string `env:"DEFAULT_ASPECT_RATIO" envDefault:"9:16"`
	DefaultDuration    int    `env:"DEFAULT_DURATION_SECONDS" envDefault:"8"`

	// Long-running operation polling.
	PollBudget   time.Duration `env:"POLL_BUDGET" envDefault:"120s"`
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"5s"`

	// Background execution.
	WorkerPoolSize int `env:"WORKER_POOL_SIZE" envDefault:"32"`

	// HTTP server.
	HTTPReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	HTTPIdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if cfg.WorkerPoolSize < 1 {
		cfg.WorkerPoolSize = 1
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.PollBudget < cfg.PollInterval {
		cfg.PollBudget = cfg.PollInterval
	}

	return cfg, nil
}

// AirtableEnabled reports whether the audit integration is configured.
func (c *Config) AirtableEnabled() bool {
	return c.AirtableAPIKey != "" && c.AirtableBaseID != ""
}
