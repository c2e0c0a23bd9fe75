package wire

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/stlc-manager/internal/service/runner"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{
		"PORT", "MODEL_API_BASE_URL", "GENERATION_TEMPERATURE", "GENERATION_MAX_TOKENS",
		"GENERATION_TIMEOUT_SECONDS", "CHUNK_FAILURE_POLICY", "TOKEN_ESTIMATOR",
		"UPLOAD_JANITOR_SECONDS", "UPLOAD_MAX_AGE_SECONDS", "SEED_ON_STARTUP", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, "http://localhost:1234/v1", cfg.Generation.BaseURL)
	assert.Equal(t, 0.7, cfg.Generation.Temperature)
	assert.Equal(t, int64(4096), cfg.Generation.MaxTokens)
	assert.Zero(t, cfg.Generation.Timeout)
	assert.Equal(t, runner.PolicyFailFast, cfg.FailurePolicy)
	assert.Equal(t, "words", cfg.TokenEstimator)
	assert.Equal(t, 10*time.Minute, cfg.JanitorEvery)
	assert.Equal(t, time.Hour, cfg.UploadMaxAge)
	assert.True(t, cfg.SeedOnStartup)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/stlc")
	t.Setenv("PORT", "9090")
	t.Setenv("GENERATION_TIMEOUT_SECONDS", "30")
	t.Setenv("GENERATION_TEMPERATURE", "0.2")
	t.Setenv("CHUNK_FAILURE_POLICY", "best_effort")
	t.Setenv("SEED_ON_STARTUP", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, 0.2, cfg.Generation.Temperature)
	assert.Equal(t, runner.PolicyBestEffort, cfg.FailurePolicy)
	assert.False(t, cfg.SeedOnStartup)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"postgres without url", map[string]string{"STORE_DRIVER": "postgres", "DATABASE_URL": ""}},
		{"unknown driver", map[string]string{"STORE_DRIVER": "mongo"}},
		{"unknown policy", map[string]string{"STORE_DRIVER": "memory", "CHUNK_FAILURE_POLICY": "retry"}},
		{"bad log level", map[string]string{"STORE_DRIVER": "memory", "LOG_LEVEL": "loud"}},
		{"temperature out of range", map[string]string{"STORE_DRIVER": "memory", "GENERATION_TEMPERATURE": "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestEnvDuration_IgnoresInvalid(t *testing.T) {
	t.Setenv("X_SECONDS", "-5")
	assert.Equal(t, time.Minute, envDuration("X_SECONDS", time.Minute))
	t.Setenv("X_SECONDS", "abc")
	assert.Equal(t, time.Minute, envDuration("X_SECONDS", time.Minute))
	t.Setenv("X_SECONDS", "7")
	assert.Equal(t, 7*time.Second, envDuration("X_SECONDS", time.Minute))
}

func TestConfig_LoggerHonoursLevel(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("LOG_LEVEL", "debug")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Logger(io.Discard).Enabled(context.Background(), slog.LevelDebug))

	t.Setenv("LOG_LEVEL", "")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	logger := cfg.Logger(io.Discard)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
}
