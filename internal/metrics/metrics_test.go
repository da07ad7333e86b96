package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegistry_ObserveNetwork(t *testing.T) {
	r := NewRegistry()
	r.ObserveNetwork("solana", 4, true, nil)
	r.ObserveNetwork("ethereum", 0, false, errors.New("upstream down"))

	assert.Equal(t, 4.0, testutil.ToFloat64(r.Candidates.WithLabelValues("solana")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.RelaxedRuns.WithLabelValues("solana")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.NetworkFailures.WithLabelValues("ethereum")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.Candidates.WithLabelValues("ethereum")))
}

func TestRegistry_NilIsNoop(t *testing.T) {
	var r *Registry
	assert.NotPanics(t, func() {
		r.ObserveStage("solana", "discover", time.Now(), nil)
		r.ObserveNetwork("solana", 1, false, nil)
		r.ObserveScan(time.Now())
		r.ObserveHTTP("/", 200, time.Now())
	})
}

func TestRegistry_HTTP(t *testing.T) {
	r := NewRegistry()
	r.ObserveHTTP("/api/old-runners", 200, time.Now())
	r.ObserveHTTP("/api/old-runners", 200, time.Now())
	assert.Equal(t, 2.0, testutil.ToFloat64(r.HTTPRequests.WithLabelValues("/api/old-runners", "200")))
}
