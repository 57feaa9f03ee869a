package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctfarena/backend/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GATEWAY_JWT_SECRET", "s3cret")

	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "http://interpreter:8000", cfg.Interpreter.BaseURL)
	assert.Equal(t, 20*time.Second, cfg.Interpreter.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.Interpreter.ConnectTimeout)
	assert.Equal(t, "http://orchestrator:8080", cfg.Orchestrator.BaseURL)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, "100-M", cfg.Server.RateLimit)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("GATEWAY_JWT_SECRET", "s3cret")
	t.Setenv("GATEWAY_INTERPRETER_BASE_URL", "http://localhost:9000")
	t.Setenv("GATEWAY_SERVER_PORT", "9090")
	t.Setenv("GATEWAY_LOG_LEVEL", "debug")

	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000", cfg.Interpreter.BaseURL)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("GATEWAY_JWT_SECRET", "")

	_, err := config.Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")
}
