package logger

import (
	"fmt"
	"time"

	pconfig "github.com/ninja0404/old-runners/pkg/config"
)

type Config struct {
	// OUTPUT stdout, file or discard
	OUTPUT string `yaml:"output" json:"output" toml:"output"`
	// Dir log directory when OUTPUT is file
	Dir string `yaml:"dir" json:"dir" toml:"dir"`
	// Name log file name, also the root logger name
	Name string `yaml:"name" json:"name" toml:"name"`
	// Level debug, info, warn, error
	Level string `yaml:"level" json:"level" toml:"level"`
	// AddCaller annotate entries with file:line
	AddCaller bool `yaml:"add_caller" json:"add_caller" toml:"add_caller"`
	// MaxSize single file size in MB
	MaxSize int `yaml:"max_size" json:"max_size" toml:"max_size"`
	// MaxAge days to keep rotated files
	MaxAge int `yaml:"max_age" json:"max_age" toml:"max_age"`
	// MaxBackup rotated files to keep
	MaxBackup int `yaml:"max_backup" json:"max_backup" toml:"max_backup"`
	CallerSkip int `yaml:"caller_skip" json:"caller_skip" toml:"caller_skip"`
	// Async buffer writes and flush on FlushInterval
	Async           bool          `yaml:"async" json:"async" toml:"async"`
	FlushBufferSize int           `yaml:"flush_buffer_size" json:"flush_buffer_size" toml:"flush_buffer_size"`
	FlushInterval   time.Duration `yaml:"flush_interval" json:"flush_interval" toml:"flush_interval"`
	// Debug colored console encoder instead of JSON
	Debug bool `yaml:"debug" json:"debug" toml:"debug"`
	// Discard drop everything
	Discard bool `yaml:"discard" json:"discard" toml:"discard"`
	// DisableSentry do not tee entries into sentry
	DisableSentry bool `yaml:"disable_sentry" json:"disable_sentry" toml:"disable_sentry"`
	// SentryLevel lowest level forwarded to sentry
	SentryLevel string `yaml:"sentry_level" json:"sentry_level" toml:"sentry_level"`
}

func (c *Config) Filename() string {
	return fmt.Sprintf("%s/%s", c.Dir, c.Name)
}

func (c *Config) Build() *Logger {
	return newLogger(c)
}

// FromConfig reads the logger section at key on top of the defaults.
func FromConfig(key string) *Config {
	var conf = DefaultConfig()
	if err := pconfig.Get(key).Scan(conf); err != nil {
		panic(err)
	}
	return conf
}

func DefaultConfig() *Config {
	return &Config{
		Name:            "old-runners",
		OUTPUT:          "stdout",
		Dir:             "./logs/",
		Level:           "info",
		MaxSize:         1000, // 1000M
		MaxAge:          1,    // 1 day
		MaxBackup:       10,   // 10 backup
		CallerSkip:      0,
		AddCaller:       true,
		Async:           false,
		FlushBufferSize: 256 * 1024,
		FlushInterval:   5 * time.Second,
		DisableSentry:   true,
		SentryLevel:     "error",
	}
}
