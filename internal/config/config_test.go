package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"GADA_API_BASE", "GADA_TOKEN_STORE", "GADA_SHARED_REFRESH", "GADA_HTTP_TIMEOUT", "REDIS_DB", "SNOWFLAKE_NODE"} {
		t.Setenv(k, "")
	}
	cfg := ConfigFromEnv()
	assert.Equal(t, "http://127.0.0.1:55060", cfg.APIBase)
	assert.Equal(t, StoreFile, cfg.TokenStore)
	assert.True(t, cfg.SharedRefresh)
	assert.Zero(t, cfg.HTTPTimeout)
	assert.EqualValues(t, 1, cfg.ClientNode)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("GADA_API_BASE", "https://api.gada.example/ ")
	t.Setenv("GADA_TOKEN_STORE", "Redis")
	t.Setenv("GADA_SHARED_REFRESH", "false")
	t.Setenv("GADA_HTTP_TIMEOUT", "15s")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SNOWFLAKE_NODE", "42")

	cfg := ConfigFromEnv()
	assert.Equal(t, "https://api.gada.example", cfg.APIBase)
	assert.Equal(t, StoreRedis, cfg.TokenStore)
	assert.False(t, cfg.SharedRefresh)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.EqualValues(t, 42, cfg.ClientNode)
}

func TestConfigFromEnvBadValuesFallBack(t *testing.T) {
	t.Setenv("GADA_SHARED_REFRESH", "maybe")
	t.Setenv("GADA_HTTP_TIMEOUT", "soon")
	t.Setenv("REDIS_DB", "x")
	t.Setenv("SNOWFLAKE_NODE", "node-7")

	cfg := ConfigFromEnv()
	assert.True(t, cfg.SharedRefresh)
	assert.Zero(t, cfg.HTTPTimeout)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.EqualValues(t, 1, cfg.ClientNode)
}
