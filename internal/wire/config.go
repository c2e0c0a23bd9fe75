package wire

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alanyang/stlc-manager/internal/adapter/openai"
	"github.com/alanyang/stlc-manager/internal/service/runner"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is everything read from the environment at startup.
type Config struct {
	Port        string
	StoreDriver string
	DatabaseURL string

	Generation       openai.Config
	DefaultModel     string
	ModelCatalogPath string

	FailurePolicy  runner.FailurePolicy
	TokenEstimator string

	UploadDir      string
	JanitorEvery   time.Duration
	UploadMaxAge   time.Duration
	IdempotencyTTL time.Duration

	SeedOnStartup bool
	LogLevel      slog.Level
}

// LoadConfig reads the environment and validates the result.
func LoadConfig() (Config, error) {
	gen := openai.DefaultConfig()
	gen.BaseURL = envString("MODEL_API_BASE_URL", gen.BaseURL)
	gen.APIKey = envString("MODEL_API_KEY", gen.APIKey)
	gen.Temperature = envFloat("GENERATION_TEMPERATURE", gen.Temperature)
	gen.MaxTokens = int64(envInt("GENERATION_MAX_TOKENS", int(gen.MaxTokens)))
	gen.Timeout = envDuration("GENERATION_TIMEOUT_SECONDS", 0)

	policy, err := runner.ParseFailurePolicy(envString("CHUNK_FAILURE_POLICY", string(runner.PolicyFailFast)))
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	level, err := parseLogLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	cfg := Config{
		Port:             envString("PORT", "8080"),
		StoreDriver:      strings.ToLower(envString("STORE_DRIVER", DriverPostgres)),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		Generation:       gen,
		DefaultModel:     os.Getenv("DEFAULT_MODEL"),
		ModelCatalogPath: os.Getenv("MODEL_CATALOG_PATH"),
		FailurePolicy:    policy,
		TokenEstimator:   envString("TOKEN_ESTIMATOR", "words"),
		UploadDir:        envString("UPLOAD_DIR", filepath.Join(os.TempDir(), "stlc-uploads")),
		JanitorEvery:     envDuration("UPLOAD_JANITOR_SECONDS", 10*time.Minute),
		UploadMaxAge:     envDuration("UPLOAD_MAX_AGE_SECONDS", time.Hour),
		IdempotencyTTL:   envDuration("IDEMPOTENCY_TTL_SECONDS", 24*time.Hour),
		SeedOnStartup:    envBool("SEED_ON_STARTUP", true),
		LogLevel:         level,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL not set")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if err := c.Generation.Validate(); err != nil {
		return fmt.Errorf("invalid generation config: %w", err)
	}
	return nil
}

// Logger builds the JSON logger at the configured level.
func (c Config) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}

// parseLogLevel maps LOG_LEVEL onto slog levels; empty means info.
func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
	return level, nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// envDuration reads an integer-seconds env var and returns a Duration.
// Falls back to defaultVal if the var is unset or invalid.
func envDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func envFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func envBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}
