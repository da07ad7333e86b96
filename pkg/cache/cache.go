package cache

import (
	"context"
	"time"
)

const (
	KindMemory = "memory"
	KindRedis  = "redis"
	KindNone   = "none"
)

// Cache stores raw upstream payloads. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

type Config struct {
	// Kind memory, redis or none
	Kind     string `json:"kind" yaml:"kind"`
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
	Prefix   string `json:"prefix" yaml:"prefix"`
}

// New builds the cache described by cfg. Unknown kinds disable caching.
func New(cfg Config) Cache {
	switch cfg.Kind {
	case KindRedis:
		return NewRedis(cfg)
	case KindMemory:
		return NewMemory()
	default:
		return Nop{}
	}
}

// Nop never stores anything
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error)          { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Nop) Close() error                                              { return nil }
