package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/ninja0404/old-runners/internal/detector"
	"github.com/ninja0404/old-runners/internal/metrics"
	"github.com/ninja0404/old-runners/internal/model"
	"github.com/ninja0404/old-runners/internal/source"
	"github.com/ninja0404/old-runners/pkg/httpclient"
	"github.com/ninja0404/old-runners/pkg/logger"
	"github.com/ninja0404/old-runners/pkg/utils"
)

const (
	DefaultMaxCandidates  = 150
	DefaultConcurrency    = 1
	DefaultNetworkTimeout = 25 * time.Second
	DefaultScanTimeout    = 55 * time.Second
)

// Config per scan limits
type Config struct {
	// MaxCandidates discovered addresses passed to enrichment
	MaxCandidates int
	// Concurrency networks scanned at once, 1 scans them in order
	Concurrency    int
	NetworkTimeout time.Duration
	// ScanTimeout bounds the whole Run; networks still pending when it
	// expires fail with a deadline error instead of running late.
	ScanTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxCandidates:  DefaultMaxCandidates,
		Concurrency:    DefaultConcurrency,
		NetworkTimeout: DefaultNetworkTimeout,
		ScanTimeout:    DefaultScanTimeout,
	}
}

type Option func(*Pipeline)

func WithConfig(c Config) Option {
	return func(p *Pipeline) {
		if c.MaxCandidates > 0 {
			p.cfg.MaxCandidates = c.MaxCandidates
		}
		if c.Concurrency > 0 {
			p.cfg.Concurrency = c.Concurrency
		}
		if c.NetworkTimeout > 0 {
			p.cfg.NetworkTimeout = c.NetworkTimeout
		}
		if c.ScanTimeout > 0 {
			p.cfg.ScanTimeout = c.ScanTimeout
		}
	}
}

func WithFilter(f *detector.Filter) Option {
	return func(p *Pipeline) {
		p.filter = f
	}
}

func WithMetrics(m *metrics.Registry) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// Pipeline runs discover, enrich, filter and rank for each network
type Pipeline struct {
	discoverer source.PoolDiscoverer
	enricher   source.PairEnricher
	filter     *detector.Filter
	metrics    *metrics.Registry
	cfg        Config
}

func NewPipeline(discoverer source.PoolDiscoverer, enricher source.PairEnricher, opts ...Option) *Pipeline {
	p := &Pipeline{
		discoverer: discoverer,
		enricher:   enricher,
		filter:     detector.NewFilter(),
		cfg:        DefaultConfig(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NetworkResult outcome of one network. Err set means Candidates is empty.
type NetworkResult struct {
	Network    string
	Candidates []model.RankedCandidate
	Relaxed    bool
	Discovered int
	Enriched   int
	Took       time.Duration
	Err        error
}

type Result struct {
	Networks []string
	ByChain  []NetworkResult
	Merged   []model.RankedCandidate
	Took     time.Duration
}

// Network result for name, nil when it was not requested
func (r *Result) Network(name string) *NetworkResult {
	for i := range r.ByChain {
		if r.ByChain[i].Network == name {
			return &r.ByChain[i]
		}
	}
	return nil
}

// Err all network failures, nil when every network succeeded
func (r *Result) Err() error {
	var merr *multierror.Error
	for _, nr := range r.ByChain {
		if nr.Err != nil {
			merr = multierror.Append(merr, errors.Wrap(nr.Err, nr.Network))
		}
	}
	return merr.ErrorOrNil()
}

// Run scans every network. It never fails: a failing network contributes an
// empty list and its error is kept on its NetworkResult.
func (p *Pipeline) Run(ctx context.Context, networks []string, cfg model.FilterConfig) *Result {
	started := time.Now()
	networks = normalizeNetworks(networks)
	res := &Result{
		Networks: networks,
		ByChain:  make([]NetworkResult, len(networks)),
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.ScanTimeout)
	defer cancel()

	var g errgroup.Group
	g.SetLimit(p.cfg.Concurrency)
	for i, network := range networks {
		g.Go(func() error {
			res.ByChain[i] = p.runNetwork(ctx, network, cfg)
			return nil
		})
	}
	_ = g.Wait()

	for _, nr := range res.ByChain {
		res.Merged = append(res.Merged, nr.Candidates...)
	}
	if res.Merged == nil {
		res.Merged = []model.RankedCandidate{}
	}
	detector.Rank(res.Merged)

	res.Took = time.Since(started)
	p.metrics.ObserveScan(started)
	return res
}

func (p *Pipeline) runNetwork(ctx context.Context, network string, cfg model.FilterConfig) (nr NetworkResult) {
	started := time.Now()
	nr.Network = network
	log := logger.With(logger.FieldMod("pipeline"), logger.FieldNetwork(network))

	defer func() {
		if r := recover(); r != nil {
			nr.Err = errors.Errorf("panic: %v", r)
			log.Error("network scan panicked", logger.Any("panic", r), logger.FieldStack(utils.GetStack()))
		}
		if nr.Err != nil {
			nr.Candidates, nr.Relaxed = []model.RankedCandidate{}, false
			log.Error("network scan failed", logger.FieldErr(nr.Err), logger.FieldCost(time.Since(started)))
		}
		nr.Took = time.Since(started)
		p.metrics.ObserveNetwork(network, len(nr.Candidates), nr.Relaxed, nr.Err)
	}()

	ctx, cancel := context.WithTimeout(httpclient.WithPartition(ctx, network), p.cfg.NetworkTimeout)
	defer cancel()
	if err := ctx.Err(); err != nil {
		nr.Err = errors.Wrap(err, "scan budget exhausted")
		return nr
	}

	stage := time.Now()
	pools, err := p.discoverer.Discover(ctx, network)
	p.metrics.ObserveStage(network, "discover", stage, err)
	if err != nil {
		nr.Err = errors.Wrap(err, "discover")
		return nr
	}
	nr.Discovered = pools.Len()

	stage = time.Now()
	raw, err := p.enricher.Enrich(ctx, network, pools.Addresses(p.cfg.MaxCandidates))
	p.metrics.ObserveStage(network, "enrich", stage, err)
	if err != nil {
		nr.Err = errors.Wrap(err, "enrich")
		return nr
	}
	nr.Enriched = len(raw)

	stage = time.Now()
	pairs := make([]model.EnrichedPair, 0, len(raw))
	for _, r := range raw {
		pairs = append(pairs, model.NewEnrichedPair(network, r))
	}
	filtered := p.filter.Apply(pairs, cfg)
	p.metrics.ObserveStage(network, "filter", stage, nil)

	nr.Candidates = filtered.Candidates
	nr.Relaxed = filtered.Relaxed

	log.Debug("filter stages", filtered.LogFields()...)
	log.Info("network scanned",
		logger.Int("discovered", nr.Discovered),
		logger.Int("enriched", nr.Enriched),
		logger.Int("candidates", len(nr.Candidates)),
		logger.Bool("relaxed", nr.Relaxed),
		logger.FieldCost(time.Since(started)))
	return nr
}

// normalizeNetworks trims names and drops blanks and repeats, keeping order.
func normalizeNetworks(networks []string) []string {
	seen := make(map[string]struct{}, len(networks))
	out := make([]string, 0, len(networks))
	for _, n := range networks {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func (r NetworkResult) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: error %v", r.Network, r.Err)
	}
	return fmt.Sprintf("%s: %d candidates", r.Network, len(r.Candidates))
}
