package config

import (
	"time"

	"github.com/pkg/errors"

	"github.com/ninja0404/old-runners/pkg/cache"
	pconfig "github.com/ninja0404/old-runners/pkg/config"
	"github.com/ninja0404/old-runners/pkg/config/source"
	"github.com/ninja0404/old-runners/pkg/config/source/file"
	"github.com/ninja0404/old-runners/pkg/config/source/mse"
	"github.com/ninja0404/old-runners/pkg/httpclient"
	"github.com/ninja0404/old-runners/pkg/logger"
	"github.com/ninja0404/old-runners/pkg/utils"
)

const DefaultConfigPath = "./config/config.yaml"

const (
	defaultScanTimeoutSec = 55
	// writeTimeoutSlack time left after a scan deadline to encode and flush the response
	writeTimeoutSlack = 5 * time.Second
)

// AppConfig application configuration
type AppConfig struct {
	Server   ServerConfig   `yaml:"server" json:"server"`
	Radar    RadarConfig    `yaml:"radar" json:"radar"`
	Upstream UpstreamConfig `yaml:"upstream" json:"upstream"`
	Cache    cache.Config   `yaml:"cache" json:"cache"`
	Sentry   SentryConfig   `yaml:"sentry" json:"sentry"`
}

type ServerConfig struct {
	Addr            string `yaml:"addr" json:"addr"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec" json:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec" json:"write_timeout_sec"`
	// CORSOrigin Access-Control-Allow-Origin value, empty disables CORS headers
	CORSOrigin string `yaml:"cors_origin" json:"cors_origin"`
}

// RadarConfig scan settings, read once at startup
type RadarConfig struct {
	// TTLSec upstream cache TTL and Cache-Control max age
	TTLSec int `yaml:"ttl" json:"ttl"`
	// Networks comma separated default network list
	Networks          string `yaml:"networks" json:"networks"`
	MaxCandidates     int    `yaml:"max_candidates" json:"max_candidates"`
	Concurrency       int    `yaml:"concurrency" json:"concurrency"`
	NetworkTimeoutSec int    `yaml:"network_timeout_sec" json:"network_timeout_sec"`
	// ScanTimeoutSec deadline of one whole scan across all networks
	ScanTimeoutSec int `yaml:"scan_timeout_sec" json:"scan_timeout_sec"`
	MaxPages       int `yaml:"max_pages" json:"max_pages"`
	ChunkSize      int `yaml:"chunk_size" json:"chunk_size"`
	// Categories comma separated GeckoTerminal listings, empty means trending and new
	Categories string `yaml:"categories" json:"categories"`
}

type UpstreamConfig struct {
	GeckoTerminal httpclient.Config `yaml:"geckoterminal" json:"geckoterminal"`
	DexScreener   httpclient.Config `yaml:"dexscreener" json:"dexscreener"`
}

type SentryConfig struct {
	DSN         string `yaml:"dsn" json:"dsn"`
	Environment string `yaml:"environment" json:"environment"`
}

func (r RadarConfig) TTL() time.Duration {
	return time.Duration(r.TTLSec) * time.Second
}

func (r RadarConfig) NetworkTimeout() time.Duration {
	return time.Duration(r.NetworkTimeoutSec) * time.Second
}

func (r RadarConfig) ScanTimeout() time.Duration {
	if r.ScanTimeoutSec <= 0 {
		return defaultScanTimeoutSec * time.Second
	}
	return time.Duration(r.ScanTimeoutSec) * time.Second
}

func (r RadarConfig) CategoryList() []string {
	return utils.SplitList(r.Categories)
}

// NetworkList default networks, "solana" when none are configured
func (r RadarConfig) NetworkList() []string {
	if list := utils.SplitList(r.Networks); len(list) > 0 {
		return list
	}
	return []string{"solana"}
}

// HTTPServer server settings with the write timeout raised to outlive a full scan
func (c AppConfig) HTTPServer() ServerConfig {
	srv := c.Server
	need := c.Radar.ScanTimeout() + writeTimeoutSlack
	if time.Duration(srv.WriteTimeoutSec)*time.Second < need {
		srv.WriteTimeoutSec = int((need + time.Second - 1) / time.Second)
	}
	return srv
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeoutSec:  10,
			WriteTimeoutSec: 60,
			CORSOrigin:      "*",
		},
		Radar: RadarConfig{
			TTLSec:            30,
			Networks:          "solana",
			MaxCandidates:     150,
			Concurrency:       1,
			NetworkTimeoutSec: 25,
			ScanTimeoutSec:    defaultScanTimeoutSec,
			MaxPages:          3,
			ChunkSize:         30,
		},
		Upstream: UpstreamConfig{
			GeckoTerminal: httpclient.Config{
				BaseURL:         "https://api.geckoterminal.com/api/v2",
				TimeoutMs:       8000,
				RequestsPerSec:  0.5,
				Burst:           3,
				MaxRetries:      1,
				BreakerFailures: 5,
			},
			DexScreener: httpclient.Config{
				BaseURL:         "https://api.dexscreener.com",
				TimeoutMs:       8000,
				RequestsPerSec:  5,
				Burst:           5,
				MaxRetries:      1,
				BreakerFailures: 5,
			},
		},
		Cache: cache.Config{Kind: cache.KindMemory},
	}
}

const redacted = "******"

// Redacted returns a copy safe to print, credentials masked
func (c AppConfig) Redacted() AppConfig {
	if c.Cache.Password != "" {
		c.Cache.Password = redacted
	}
	if c.Sentry.DSN != "" {
		c.Sentry.DSN = redacted
	}
	return c
}

// Manager loads the application config
type Manager struct {
	config *AppConfig
}

func NewManager() *Manager {
	return &Manager{}
}

// Load reads configPath, or the nacos MSE source when CONFIG_TYPE=MSE.
func (m *Manager) Load(configPath string) error {
	var src source.Source
	if utils.IsFileConfig() {
		src = file.NewSource(
			file.WithPath(utils.GetConfigFilePath(configPath)),
			source.WithFormat("yaml"),
		)
	} else {
		src = mse.NewSource(
			mse.WithMseConfig(mse.ConfigFromEnv(utils.EnvPrefix())),
			source.WithFormat("yaml"),
		)
	}

	if err := pconfig.Load(src); err != nil {
		return errors.Wrapf(err, "load config from %s", src.String())
	}

	appConfig := DefaultAppConfig()
	if err := pconfig.Scan(&appConfig); err != nil {
		return errors.Wrap(err, "scan config")
	}

	m.config = &appConfig
	return nil
}

func (m *Manager) GetAppConfig() *AppConfig {
	return m.config
}

// InitLogger builds the process logger from the "logger" section
func (m *Manager) InitLogger() error {
	loggerConfig := logger.FromConfig("logger")
	if m.config != nil && m.config.Sentry.DSN != "" {
		loggerConfig.DisableSentry = false
	}
	logger.SetDefault(loggerConfig.Build())
	return nil
}
