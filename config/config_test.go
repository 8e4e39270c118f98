package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orcastack/dummy-agent/core"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.DevMode)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 300*time.Millisecond, cfg.StreamDelay)
	assert.False(t, cfg.StorageEnabled())
	assert.False(t, cfg.IsLambda())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ORCA_DEV_MODE", "true")
	t.Setenv("ORCA_WORKSPACE", "ws-1")
	t.Setenv("ORCA_TOKEN", "secret")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STREAM_DELAY", "50ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.DevMode)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 50*time.Millisecond, cfg.StreamDelay)
	assert.True(t, cfg.StorageEnabled())
}

func TestLoad_InvalidPortRejected(t *testing.T) {
	t.Setenv("PORT", "99999")

	_, err := Load()
	require.Error(t, err)
	se, ok := core.AsError(err)
	require.True(t, ok)
	assert.Equal(t, core.ErrConfiguration, se.Kind)
	assert.Equal(t, "CONFIG_INVALID", se.Code)
}

func TestLoad_InvalidLogLevelRejected(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := Load()
	require.Error(t, err)
}

func TestConfig_IsLambda(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "dummy-agent-fn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsLambda())
}

func TestConfig_StorageEnabledRequiresBothCredentials(t *testing.T) {
	t.Setenv("ORCA_WORKSPACE", "ws-1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.StorageEnabled(), "token missing")
}
