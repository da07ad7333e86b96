// Package loader manages loading from multiple sources
package loader

import (
	"context"

	"github.com/ninja0404/old-runners/pkg/config/reader"
	"github.com/ninja0404/old-runners/pkg/config/source"
)

// Loader manages loading sources
type Loader interface {
	// Close stops the loader
	Close() error
	// Load the sources
	Load(...source.Source) error
	// Snapshot returns a snapshot of the current loaded config
	Snapshot() (*Snapshot, error)
	// Sync forces a sync of the sources
	Sync() error
	// String returns the name of the loader
	String() string
}

// Snapshot is a merged ChangeSet
type Snapshot struct {
	// The merged ChangeSet
	ChangeSet *source.ChangeSet
	// Deterministic and comparable version of the snapshot
	Version string
}

type Options struct {
	Reader reader.Reader
	Source []source.Source

	// for alternative data
	Context context.Context
}

type Option func(o *Options)

// Copy snapshot
func Copy(s *Snapshot) *Snapshot {
	cs := *(s.ChangeSet)

	return &Snapshot{
		ChangeSet: &cs,
		Version:   s.Version,
	}
}
