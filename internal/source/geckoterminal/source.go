package geckoterminal

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/ninja0404/old-runners/internal/model"
	"github.com/ninja0404/old-runners/internal/source"
	"github.com/ninja0404/old-runners/pkg/logger"
)

const (
	DefaultBaseURL  = "https://api.geckoterminal.com/api/v2"
	DefaultMaxPages = 3

	CategoryTrending = "trending_pools"
	CategoryNew      = "new_pools"
)

var defaultCategories = []string{CategoryTrending, CategoryNew}

type poolsPage struct {
	Data []struct {
		ID         string `json:"id"`
		Attributes struct {
			Address string `json:"address"`
		} `json:"attributes"`
	} `json:"data"`
}

type Option func(*Source)

func WithMaxPages(n int) Option {
	return func(s *Source) {
		if n > 0 {
			s.maxPages = n
		}
	}
}

func WithCategories(categories ...string) Option {
	return func(s *Source) {
		if len(categories) > 0 {
			s.categories = categories
		}
	}
}

// Source discovers pools from the GeckoTerminal trending and new listings.
type Source struct {
	baseURL    string
	fetcher    source.Fetcher
	maxPages   int
	categories []string
	log        *logger.Logger
}

func NewSource(baseURL string, fetcher source.Fetcher, opts ...Option) *Source {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	s := &Source{
		baseURL:    strings.TrimRight(baseURL, "/"),
		fetcher:    fetcher,
		maxPages:   DefaultMaxPages,
		categories: defaultCategories,
		log:        logger.With(logger.FieldMod("geckoterminal")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Source) String() string {
	return "geckoterminal"
}

func (s *Source) Discover(ctx context.Context, network string) (*model.PoolSet, error) {
	pools := model.NewPoolSet()
	for _, category := range s.categories {
		s.paginate(ctx, network, category, pools)
		if err := ctx.Err(); err != nil {
			return pools, errors.Wrapf(err, "discover %s", network)
		}
	}
	return pools, nil
}

type pageState int

const (
	stateFetching pageState = iota
	stateDone
)

// paginate walks one category until a page is empty, fails, or maxPages is
// reached. Failures end the category and are only logged.
func (s *Source) paginate(ctx context.Context, network, category string, pools *model.PoolSet) {
	state, page := stateFetching, 1
	for state == stateFetching {
		addrs, err := s.fetchPage(ctx, network, category, page)
		switch {
		case err != nil:
			s.log.Warn("discovery page failed",
				logger.FieldNetwork(network),
				logger.String("category", category),
				logger.Int("page", page),
				logger.FieldErr(err))
			state = stateDone
		case len(addrs) == 0:
			state = stateDone
		default:
			for _, addr := range addrs {
				pools.Add(addr)
			}
			if page++; page > s.maxPages {
				state = stateDone
			}
		}
	}
}

func (s *Source) fetchPage(ctx context.Context, network, category string, page int) ([]string, error) {
	url := fmt.Sprintf("%s/networks/%s/%s?page=%d", s.baseURL, network, category, page)
	body, err := s.fetcher.GetJSON(ctx, url)
	if err != nil {
		return nil, err
	}

	var resp poolsPage
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrapf(err, "decode %s", url)
	}

	addrs := make([]string, 0, len(resp.Data))
	for _, d := range resp.Data {
		if d.Attributes.Address != "" {
			addrs = append(addrs, d.Attributes.Address)
		}
	}
	return addrs, nil
}
