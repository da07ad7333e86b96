// Package config is an interface for dynamic configuration.
package config

import (
	"context"
	"sync"

	"github.com/ninja0404/old-runners/pkg/config/loader"
	"github.com/ninja0404/old-runners/pkg/config/loader/memory"
	"github.com/ninja0404/old-runners/pkg/config/reader"
	"github.com/ninja0404/old-runners/pkg/config/reader/json"
	"github.com/ninja0404/old-runners/pkg/config/source"
)

// Config is an interface abstraction for dynamic configuration
type Config interface {
	// provide the reader.Values interface
	reader.Values
	// Options in the config
	Options() Options
	// Stop the config loader/watcher
	Close() error
	// Load config sources
	Load(source ...source.Source) error
	// Force a source changeset sync
	Sync() error
}

// Options for the config
type Options struct {
	Loader loader.Loader
	Reader reader.Reader
	Source []source.Source

	Context context.Context
}

// Option is a config option
type Option func(o *Options)

var (
	// DefaultConfig is the process wide config
	DefaultConfig = NewConfig()
)

type config struct {
	opts Options

	sync.RWMutex
	// the current snapshot
	snap *loader.Snapshot
	// the current values
	vals reader.Values
}

// NewConfig returns a new config
func NewConfig(opts ...Option) Config {
	options := Options{
		Reader:  json.NewReader(),
		Context: context.Background(),
	}
	for _, o := range opts {
		o(&options)
	}
	if options.Loader == nil {
		options.Loader = memory.NewLoader(memory.WithReader(options.Reader))
	}

	c := &config{opts: options}
	c.vals, _ = options.Reader.Values(&source.ChangeSet{Data: []byte("{}"), Format: "json"})

	if len(options.Source) > 0 {
		_ = c.Load(options.Source...)
	}
	return c
}

func (c *config) Options() Options {
	return c.opts
}

func (c *config) Load(sources ...source.Source) error {
	if err := c.opts.Loader.Load(sources...); err != nil {
		return err
	}
	return c.refresh()
}

func (c *config) Sync() error {
	if err := c.opts.Loader.Sync(); err != nil {
		return err
	}
	return c.refresh()
}

// refresh picks up a newer loader snapshot, e.g. after a watched file changed
func (c *config) refresh() error {
	snap, err := c.opts.Loader.Snapshot()
	if err != nil {
		return err
	}

	c.RLock()
	same := c.snap != nil && c.snap.Version == snap.Version
	c.RUnlock()
	if same {
		return nil
	}

	vals, err := c.opts.Reader.Values(snap.ChangeSet)
	if err != nil {
		return err
	}

	c.Lock()
	c.snap = snap
	c.vals = vals
	c.Unlock()
	return nil
}

func (c *config) values() reader.Values {
	if c.snap != nil {
		_ = c.refresh()
	}
	c.RLock()
	defer c.RUnlock()
	return c.vals
}

func (c *config) Close() error {
	return c.opts.Loader.Close()
}

func (c *config) Get(path ...string) reader.Value {
	return c.values().Get(path...)
}

func (c *config) Bytes() []byte {
	return c.values().Bytes()
}

func (c *config) Map() map[string]interface{} {
	return c.values().Map()
}

func (c *config) Scan(v interface{}) error {
	return c.values().Scan(v)
}

// Load config sources into the default config
func Load(source ...source.Source) error {
	return DefaultConfig.Load(source...)
}

// Get a value from the default config
func Get(path ...string) reader.Value {
	return DefaultConfig.Get(path...)
}

// Scan the whole default config into v
func Scan(v interface{}) error {
	return DefaultConfig.Scan(v)
}

// Map returns the default config as a map
func Map() map[string]interface{} {
	return DefaultConfig.Map()
}

// Sync the default config with its sources
func Sync() error {
	return DefaultConfig.Sync()
}
