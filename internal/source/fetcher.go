package source

import (
	"context"
	"time"

	"github.com/ninja0404/old-runners/pkg/cache"
	"github.com/ninja0404/old-runners/pkg/logger"
	"github.com/ninja0404/old-runners/pkg/utils"
)

// CachedFetcher serves repeated upstream GETs from cache for ttl. Cache
// failures degrade to a direct fetch.
type CachedFetcher struct {
	next   Fetcher
	cache  cache.Cache
	ttl    time.Duration
	prefix string
}

func NewCachedFetcher(next Fetcher, c cache.Cache, ttl time.Duration, prefix string) Fetcher {
	if c == nil || ttl <= 0 {
		return next
	}
	return &CachedFetcher{next: next, cache: c, ttl: ttl, prefix: prefix}
}

func (f *CachedFetcher) GetJSON(ctx context.Context, url string) ([]byte, error) {
	key := utils.HashKey(f.prefix, url)

	body, found, err := f.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache get failed", logger.FieldMod("source"), logger.FieldURL(url), logger.FieldErr(err))
	} else if found {
		return body, nil
	}

	body, err = f.next.GetJSON(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := f.cache.Set(ctx, key, body, f.ttl); err != nil {
		logger.Warn("cache set failed", logger.FieldMod("source"), logger.FieldURL(url), logger.FieldErr(err))
	}
	return body, nil
}
