package memory

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/ninja0404/old-runners/pkg/config/loader"
	"github.com/ninja0404/old-runners/pkg/config/reader"
	"github.com/ninja0404/old-runners/pkg/config/reader/json"
	"github.com/ninja0404/old-runners/pkg/config/source"
)

type memory struct {
	exit chan bool
	opts loader.Options

	sync.RWMutex
	// the current snapshot
	snap *loader.Snapshot
	// the current values
	vals reader.Values
	// all the sets
	sets []*source.ChangeSet
	// all the sources
	sources []source.Source

	watchers []source.Watcher
}

func (m *memory) watch(idx int, s source.Source) {
	w, err := s.Watch()
	if err != nil {
		return
	}

	m.Lock()
	m.watchers = append(m.watchers, w)
	m.Unlock()

	for {
		cs, err := w.Next()
		if err != nil {
			return
		}

		m.Lock()
		m.sets[idx] = cs
		set, err := m.opts.Reader.Merge(m.sets...)
		if err == nil {
			m.vals, _ = m.opts.Reader.Values(set)
			m.snap = &loader.Snapshot{
				ChangeSet: set,
				Version:   fmt.Sprintf("%d", time.Now().UnixNano()),
			}
		}
		m.Unlock()
	}
}

func (m *memory) loaded() bool {
	var loaded bool
	m.RLock()
	if m.vals != nil {
		loaded = true
	}
	m.RUnlock()
	return loaded
}

// Snapshot returns a snapshot of the current loaded config
func (m *memory) Snapshot() (*loader.Snapshot, error) {
	if m.loaded() {
		m.RLock()
		snap := loader.Copy(m.snap)
		m.RUnlock()
		return snap, nil
	}

	// not loaded, sync
	if err := m.Sync(); err != nil {
		return nil, err
	}

	// make copy
	m.RLock()
	snap := loader.Copy(m.snap)
	m.RUnlock()

	return snap, nil
}

// Sync loads all the sources, calls the parser and updates the config
func (m *memory) Sync() error {
	//nolint:prealloc
	var sets []*source.ChangeSet

	m.Lock()

	// read the source
	var merr error

	for _, source := range m.sources {
		ch, err := source.Read()
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		sets = append(sets, ch)
	}

	if merr != nil && len(sets) == 0 {
		m.Unlock()
		return merr
	}

	// merge sets
	set, err := m.opts.Reader.Merge(sets...)
	if err != nil {
		m.Unlock()
		return err
	}

	// set values
	vals, err := m.opts.Reader.Values(set)
	if err != nil {
		m.Unlock()
		return err
	}
	m.vals = vals
	m.sets = sets
	m.snap = &loader.Snapshot{
		ChangeSet: set,
		Version:   fmt.Sprintf("%d", time.Now().UnixNano()),
	}

	m.Unlock()

	return merr
}

func (m *memory) Close() error {
	select {
	case <-m.exit:
		return nil
	default:
		close(m.exit)
	}

	m.RLock()
	defer m.RUnlock()
	var merr error
	for _, w := range m.watchers {
		if err := w.Stop(); err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	return merr
}

// Load loads the sources and starts watching them in the background
func (m *memory) Load(sources ...source.Source) error {
	if len(sources) == 0 {
		return errors.New("no config source")
	}

	m.Lock()
	m.sources = append(m.sources, sources...)
	m.Unlock()

	if err := m.Sync(); err != nil {
		return err
	}

	m.RLock()
	n := len(m.sets)
	srcs := m.sources
	m.RUnlock()

	// only watch the sources that were read successfully
	if n == len(srcs) {
		for idx, s := range srcs {
			go m.watch(idx, s)
		}
	}

	return nil
}

func (m *memory) String() string {
	return "memory"
}

// NewLoader returns a new memory loader
func NewLoader(opts ...loader.Option) *memory {
	options := loader.Options{
		Reader: json.NewReader(),
	}

	for _, o := range opts {
		o(&options)
	}

	m := &memory{
		exit: make(chan bool),
		opts: options,
	}

	m.sources = append(m.sources, options.Source...)

	return m
}
