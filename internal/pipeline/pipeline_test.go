package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninja0404/old-runners/internal/detector"
	"github.com/ninja0404/old-runners/internal/metrics"
	"github.com/ninja0404/old-runners/internal/model"
	"github.com/ninja0404/old-runners/internal/source"
)

var testNow = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

type fakeDiscoverer struct {
	pools map[string][]string
	err   map[string]error
}

func (f *fakeDiscoverer) String() string { return "fake" }

func (f *fakeDiscoverer) Discover(_ context.Context, network string) (*model.PoolSet, error) {
	if err := f.err[network]; err != nil {
		return nil, err
	}
	s := model.NewPoolSet()
	for _, a := range f.pools[network] {
		s.Add(a)
	}
	return s, nil
}

type fakeEnricher struct {
	mu      sync.Mutex
	pairs   map[string]map[string]model.DexPair
	err     map[string]error
	panics  map[string]bool
	got     map[string][]string
	running int32
	peak    int32
}

func (f *fakeEnricher) String() string { return "fake" }

func (f *fakeEnricher) Enrich(ctx context.Context, chain string, addrs []string) ([]model.DexPair, error) {
	n := atomic.AddInt32(&f.running, 1)
	defer atomic.AddInt32(&f.running, -1)
	for {
		p := atomic.LoadInt32(&f.peak)
		if n <= p || atomic.CompareAndSwapInt32(&f.peak, p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	f.mu.Lock()
	if f.got == nil {
		f.got = make(map[string][]string)
	}
	f.got[chain] = addrs
	f.mu.Unlock()

	if f.panics[chain] {
		panic("decoder exploded")
	}
	if err := f.err[chain]; err != nil {
		return nil, err
	}
	out := make([]model.DexPair, 0, len(addrs))
	for _, a := range addrs {
		if p, ok := f.pairs[chain][a]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func runner(chain, addr string, deltaPct float64) model.DexPair {
	created := float64(testNow.Add(-50000 * time.Minute).UnixMilli())
	return model.DexPair{
		ChainID:     chain,
		PairAddress: addr,
		Liquidity:   &model.Liquidity{Usd: model.NewNumber(50000)},
		Volume: &model.Volume{
			M5: model.NewNumber(1000 * (1 + deltaPct/100)),
			H1: model.NewNumber(12000),
		},
		Txns: &model.Txns{
			M5: &model.TxnCount{Buys: model.NewNumber(70), Sells: model.NewNumber(30)},
			H1: &model.TxnCount{Buys: model.NewNumber(80), Sells: model.NewNumber(40)},
		},
		PriceChange:   model.PriceChange{M5: model.NewNumber(3), H1: model.NewNumber(4)},
		PairCreatedAt: model.NewNumber(created),
	}
}

func newTestPipeline(d source.PoolDiscoverer, e *fakeEnricher, opts ...Option) *Pipeline {
	opts = append([]Option{WithFilter(detector.NewFilter(detector.WithClock(func() time.Time { return testNow })))}, opts...)
	return NewPipeline(d, e, opts...)
}

func candidateAddrs(c []model.RankedCandidate) []string {
	out := make([]string, 0, len(c))
	for _, x := range c {
		out = append(out, x.Pair.PairAddress)
	}
	return out
}

func twoChains() (*fakeDiscoverer, *fakeEnricher) {
	d := &fakeDiscoverer{pools: map[string][]string{
		"solana":   {"s1", "s2"},
		"ethereum": {"e1"},
	}}
	e := &fakeEnricher{pairs: map[string]map[string]model.DexPair{
		"solana": {
			"s1": runner("solana", "s1", 30),
			"s2": runner("solana", "s2", 90),
		},
		"ethereum": {
			"e1": runner("ethereum", "e1", 60),
		},
	}}
	return d, e
}

func TestRun_MergesAndRanks(t *testing.T) {
	d, e := twoChains()
	res := newTestPipeline(d, e).Run(context.Background(), []string{"solana", "ethereum"}, model.DefaultFilterConfig())

	require.NoError(t, res.Err())
	assert.Equal(t, []string{"solana", "ethereum"}, res.Networks)
	assert.Equal(t, []string{"s2", "s1"}, candidateAddrs(res.Network("solana").Candidates))
	assert.Equal(t, []string{"e1"}, candidateAddrs(res.Network("ethereum").Candidates))
	assert.Equal(t, []string{"s2", "e1", "s1"}, candidateAddrs(res.Merged))
}

func TestRun_FaultIsolation(t *testing.T) {
	d, e := twoChains()
	e.err = map[string]error{"ethereum": errors.New("dexscreener 503")}
	reg := metrics.NewRegistry()

	res := newTestPipeline(d, e, WithMetrics(reg)).Run(context.Background(),
		[]string{"ethereum", "solana"}, model.DefaultFilterConfig())

	eth := res.Network("ethereum")
	require.NotNil(t, eth)
	assert.Error(t, eth.Err)
	assert.NotNil(t, eth.Candidates)
	assert.Empty(t, eth.Candidates)

	sol := res.Network("solana")
	require.NoError(t, sol.Err)
	assert.Equal(t, []string{"s2", "s1"}, candidateAddrs(sol.Candidates))
	assert.Equal(t, []string{"s2", "s1"}, candidateAddrs(res.Merged))

	require.Error(t, res.Err())
	assert.Contains(t, res.Err().Error(), "ethereum")
}

func TestRun_DiscoveryErrorAndPanicAreIsolated(t *testing.T) {
	d, e := twoChains()
	d.pools["base"] = []string{"b1"}
	d.err = map[string]error{"ethereum": context.DeadlineExceeded}
	e.panics = map[string]bool{"base": true}

	res := newTestPipeline(d, e).Run(context.Background(),
		[]string{"ethereum", "base", "solana"}, model.DefaultFilterConfig())

	assert.Error(t, res.Network("ethereum").Err)
	assert.ErrorContains(t, res.Network("base").Err, "panic")
	assert.NoError(t, res.Network("solana").Err)
	assert.Len(t, res.Merged, 2)
}

func TestRun_CapsCandidates(t *testing.T) {
	addrs := make([]string, 200)
	for i := range addrs {
		addrs[i] = string(rune('a'+i%26)) + string(rune('0'+i/26))
	}
	d := &fakeDiscoverer{pools: map[string][]string{"solana": addrs}}
	e := &fakeEnricher{}

	newTestPipeline(d, e).Run(context.Background(), []string{"solana"}, model.DefaultFilterConfig())
	assert.Equal(t, addrs[:DefaultMaxCandidates], e.got["solana"])
}

func TestRun_SequentialByDefault(t *testing.T) {
	d, e := twoChains()
	d.pools["base"] = []string{"b1"}
	newTestPipeline(d, e).Run(context.Background(), []string{"solana", "ethereum", "base"}, model.DefaultFilterConfig())
	assert.EqualValues(t, 1, atomic.LoadInt32(&e.peak))
}

func TestRun_ConcurrentNetworks(t *testing.T) {
	d, e := twoChains()
	e.err = map[string]error{"ethereum": errors.New("boom")}
	res := newTestPipeline(d, e, WithConfig(Config{Concurrency: 4})).Run(context.Background(),
		[]string{"solana", "ethereum"}, model.DefaultFilterConfig())

	assert.Equal(t, []string{"solana", "ethereum"}, res.Networks)
	assert.Len(t, res.Network("solana").Candidates, 2)
	assert.Error(t, res.Network("ethereum").Err)
}

func TestRun_NormalizesNetworks(t *testing.T) {
	d, e := twoChains()
	res := newTestPipeline(d, e).Run(context.Background(), []string{" solana", "", "solana ", "ethereum"}, model.DefaultFilterConfig())
	assert.Equal(t, []string{"solana", "ethereum"}, res.Networks)
	assert.Len(t, res.ByChain, 2)
}

func TestRun_NoNetworks(t *testing.T) {
	d, e := twoChains()
	res := newTestPipeline(d, e).Run(context.Background(), nil, model.DefaultFilterConfig())
	assert.Empty(t, res.ByChain)
	assert.NotNil(t, res.Merged)
	assert.NoError(t, res.Err())
}
