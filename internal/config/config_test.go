package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninja0404/old-runners/pkg/cache"
)

const testYAML = `
server:
  addr: "${TEST_HTTP_ADDR::9090}"
radar:
  ttl: ${TEST_RADAR_TTL:30}
  networks: ${TEST_RADAR_NETWORKS:solana}
  concurrency: 2
upstream:
  dexscreener:
    base_url: http://dex.local
    max_retries: 3
cache:
  kind: redis
  addr: "${TEST_REDIS_ADDR:127.0.0.1:6379}"
`

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestManager_Load(t *testing.T) {
	t.Setenv("TEST_RADAR_TTL", "45")
	t.Setenv("TEST_RADAR_NETWORKS", "solana, base,,ethereum")

	m := NewManager()
	require.NoError(t, m.Load(writeConfig(t, testYAML)))
	cfg := m.GetAppConfig()

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 45, cfg.Radar.TTLSec)
	assert.Equal(t, 45*time.Second, cfg.Radar.TTL())
	assert.Equal(t, []string{"solana", "base", "ethereum"}, cfg.Radar.NetworkList())
	assert.Equal(t, 2, cfg.Radar.Concurrency)
	assert.Equal(t, cache.KindRedis, cfg.Cache.Kind)
	assert.Equal(t, "127.0.0.1:6379", cfg.Cache.Addr)
	assert.Equal(t, "http://dex.local", cfg.Upstream.DexScreener.BaseURL)
	assert.Equal(t, 3, cfg.Upstream.DexScreener.MaxRetries)

	// untouched sections keep their defaults
	assert.Equal(t, 150, cfg.Radar.MaxCandidates)
	assert.Equal(t, 30, cfg.Radar.ChunkSize)
	assert.Equal(t, "https://api.geckoterminal.com/api/v2", cfg.Upstream.GeckoTerminal.BaseURL)
}

func TestManager_LoadMissingFile(t *testing.T) {
	assert.Error(t, NewManager().Load(filepath.Join(t.TempDir(), "absent.yaml")))
}

func TestRadarConfig_NetworkListFallback(t *testing.T) {
	assert.Equal(t, []string{"solana"}, RadarConfig{Networks: " , "}.NetworkList())
}

func TestAppConfig_Redacted(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.Cache.Password = "secret"
	cfg.Sentry.DSN = "https://key@sentry.local/1"

	r := cfg.Redacted()
	assert.Equal(t, "******", r.Cache.Password)
	assert.Equal(t, "******", r.Sentry.DSN)
	assert.Equal(t, "secret", cfg.Cache.Password)

	assert.Empty(t, DefaultAppConfig().Redacted().Sentry.DSN)
}

func TestAppConfig_HTTPServerOutlivesScan(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.Server.WriteTimeoutSec = 30
	cfg.Radar.ScanTimeoutSec = 90
	assert.Equal(t, 95, cfg.HTTPServer().WriteTimeoutSec)
	assert.Equal(t, 30, cfg.Server.WriteTimeoutSec)

	cfg.Server.WriteTimeoutSec = 120
	assert.Equal(t, 120, cfg.HTTPServer().WriteTimeoutSec)

	cfg.Radar.ScanTimeoutSec = 0
	assert.Equal(t, 55*time.Second, cfg.Radar.ScanTimeout())
}

func TestManager_LoadShippedConfig(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Load(filepath.Join("..", "..", "config", "config.yaml")))
	cfg := m.GetAppConfig()

	assert.Equal(t, []string{"trending_pools", "new_pools"}, cfg.Radar.CategoryList())
	assert.Greater(t, time.Duration(cfg.HTTPServer().WriteTimeoutSec)*time.Second, cfg.Radar.ScanTimeout())
}
