package source

import (
	"context"

	"github.com/ninja0404/old-runners/internal/model"
)

// PoolDiscoverer lists candidate pool addresses for a network
type PoolDiscoverer interface {
	// Discover never fails on a single bad page, only on cancellation
	Discover(ctx context.Context, network string) (*model.PoolSet, error)

	String() string
}

// PairEnricher fetches market statistics for pool addresses
type PairEnricher interface {
	// Enrich returns pairs in request chunk order. Any failed chunk fails the call.
	Enrich(ctx context.Context, chain string, addresses []string) ([]model.DexPair, error)

	String() string
}

// Fetcher GET a JSON document
type Fetcher interface {
	GetJSON(ctx context.Context, url string) ([]byte, error)
}
