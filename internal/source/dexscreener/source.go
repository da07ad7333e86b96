package dexscreener

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
	DefaultBaseURL   = "https://api.dexscreener.com"
	DefaultChunkSize = 30
)

type pairsResponse struct {
	Pairs []model.DexPair `json:"pairs"`
}

// Source enriches pool addresses through the DexScreener pairs endpoint.
type Source struct {
	baseURL   string
	fetcher   source.Fetcher
	chunkSize int
	log       *logger.Logger
}

func NewSource(baseURL string, fetcher source.Fetcher, chunkSize int) *Source {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Source{
		baseURL:   strings.TrimRight(baseURL, "/"),
		fetcher:   fetcher,
		chunkSize: chunkSize,
		log:       logger.With(logger.FieldMod("dexscreener")),
	}
}

func (s *Source) String() string {
	return "dexscreener"
}

func (s *Source) Enrich(ctx context.Context, chain string, addresses []string) ([]model.DexPair, error) {
	if len(addresses) == 0 {
		return nil, nil
	}

	var pairs []model.DexPair
	for i, chunk := range Chunk(addresses, s.chunkSize) {
		got, err := s.fetchChunk(ctx, chain, chunk)
		if err != nil {
			return nil, errors.Wrapf(err, "enrich %s chunk %d", chain, i)
		}
		pairs = append(pairs, got...)
	}
	s.log.Debug("enriched pairs",
		logger.FieldNetwork(chain),
		logger.Int("addresses", len(addresses)),
		logger.Int("pairs", len(pairs)))
	return pairs, nil
}

func (s *Source) fetchChunk(ctx context.Context, chain string, chunk []string) ([]model.DexPair, error) {
	url := fmt.Sprintf("%s/latest/dex/pairs/%s/%s", s.baseURL, chain, strings.Join(chunk, ","))
	body, err := s.fetcher.GetJSON(ctx, url)
	if err != nil {
		return nil, err
	}

	var resp pairsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "decode pairs")
	}
	return resp.Pairs, nil
}

// Chunk splits items into consecutive slices of at most size elements.
func Chunk(items []string, size int) [][]string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	chunks := make([][]string, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
