package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninja0404/old-runners/internal/model"
	"github.com/ninja0404/old-runners/internal/source/geckoterminal"
	"github.com/ninja0404/old-runners/pkg/httpclient"
)

// geckoServer serves pools for solana and 404s every other network.
func geckoServer(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/networks/solana/") {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("page") != "1" {
			fmt.Fprint(w, `{"data":[]}`)
			return
		}
		fmt.Fprint(w, `{"data":[{"id":"solana_s1","attributes":{"address":"s1"}},{"id":"solana_s2","attributes":{"address":"s2"}}]}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRun_UnknownNetworksDoNotBlankOthers(t *testing.T) {
	srv := geckoServer(t)
	client := httpclient.New("geckoterminal",
		httpclient.Config{RequestsPerSec: 1000, Burst: 10, BreakerFailures: 5, MaxRetries: 1},
		httpclient.WithBackOff(func() httpclient.BackOff { return &backoff.ZeroBackOff{} }))
	_, e := twoChains()
	p := newTestPipeline(geckoterminal.NewSource(srv.URL, client), e)

	res := p.Run(context.Background(),
		[]string{"foo", "bar", "baz", "qux", "quux", "solana"}, model.DefaultFilterConfig())
	sol := res.Network("solana")
	require.NotNil(t, sol)
	require.NoError(t, sol.Err)
	assert.Equal(t, 2, sol.Discovered)
	assert.Equal(t, []string{"s2", "s1"}, candidateAddrs(sol.Candidates))

	again := p.Run(context.Background(), []string{"solana"}, model.DefaultFilterConfig())
	assert.Equal(t, 2, again.Network("solana").Discovered)
	assert.Len(t, again.Merged, 2)
}

type stuckDiscoverer struct{ fakeDiscoverer }

func (s *stuckDiscoverer) Discover(ctx context.Context, network string) (*model.PoolSet, error) {
	if network == "stuck" {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.fakeDiscoverer.Discover(ctx, network)
}

func TestRun_ScanTimeoutBoundsWholeScan(t *testing.T) {
	d, e := twoChains()
	p := newTestPipeline(&stuckDiscoverer{fakeDiscoverer: *d}, e,
		WithConfig(Config{NetworkTimeout: 5 * time.Second, ScanTimeout: 50 * time.Millisecond}))

	started := time.Now()
	res := p.Run(context.Background(), []string{"stuck", "solana"}, model.DefaultFilterConfig())

	assert.Less(t, time.Since(started), 2*time.Second)
	assert.ErrorIs(t, res.Network("stuck").Err, context.DeadlineExceeded)
	assert.ErrorIs(t, res.Network("solana").Err, context.DeadlineExceeded)
	assert.NotNil(t, res.Network("solana").Candidates)
	assert.Empty(t, res.Merged)
}
