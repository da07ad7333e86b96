package httpclient

import (
	"time"
)

// Config tunes one upstream client. Zero values fall back to defaults.
type Config struct {
	BaseURL        string  `json:"base_url" yaml:"base_url"`
	TimeoutMs      int     `json:"timeout_ms" yaml:"timeout_ms"`
	RequestsPerSec float64 `json:"requests_per_sec" yaml:"requests_per_sec"`
	Burst          int     `json:"burst" yaml:"burst"`
	MaxRetries     int     `json:"max_retries" yaml:"max_retries"`
	// consecutive failures before the breaker opens, 0 disables the breaker
	BreakerFailures uint32 `json:"breaker_failures" yaml:"breaker_failures"`
	BreakerCooldown int    `json:"breaker_cooldown_sec" yaml:"breaker_cooldown_sec"`
	UserAgent       string `json:"user_agent" yaml:"user_agent"`
}

const (
	defaultTimeout   = 10 * time.Second
	defaultRPS       = 5
	defaultCooldown  = 30 * time.Second
	defaultUserAgent = "old-runners/1.0"
)

func (c Config) timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return defaultTimeout
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

func (c Config) rps() float64 {
	if c.RequestsPerSec <= 0 {
		return defaultRPS
	}
	return c.RequestsPerSec
}

func (c Config) burst() int {
	if c.Burst <= 0 {
		return 1
	}
	return c.Burst
}

func (c Config) cooldown() time.Duration {
	if c.BreakerCooldown <= 0 {
		return defaultCooldown
	}
	return time.Duration(c.BreakerCooldown) * time.Second
}

func (c Config) userAgent() string {
	if c.UserAgent == "" {
		return defaultUserAgent
	}
	return c.UserAgent
}

type Option func(*Client)

// WithHTTPClient swaps the transport, mainly for tests
func WithHTTPClient(hc Doer) Option {
	return func(c *Client) {
		c.hc = hc
	}
}

// WithBackOff overrides the retry schedule
func WithBackOff(fn func() BackOff) Option {
	return func(c *Client) {
		c.newBackOff = fn
	}
}
