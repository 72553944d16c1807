package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
env: dev
http_server:
  port: "8181"
store_db:
  dsn: postgres://localhost/checkout
kafka:
  brokers: ["k1:9092", "k2:9092"]
currency:
  rates_ttl: 30m
stores:
  protect_demo: true
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "0.0.0.0:8181", cfg.HTTPAddr())
	assert.Equal(t, "0.0.0.0:9090", cfg.GRPCAddr())
	assert.Equal(t, "postgres://localhost/checkout", cfg.StoreDB.Dsn)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 30*time.Minute, cfg.Currency.RatesTTL)
	assert.Equal(t, 24*time.Hour, cfg.GeoIP.CacheTTL)
	assert.Equal(t, "BRL", cfg.Currency.WarmupBase)
	assert.True(t, cfg.Stores.SeedDemo)
	assert.True(t, cfg.Stores.ProtectDemo)
	assert.Equal(t, "info", cfg.LogConfig.LogLevel)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("STORES_SEED_DEMO", "false")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.HTTPServer.Port)
	assert.False(t, cfg.Stores.SeedDemo)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
