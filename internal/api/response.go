package api

import (
	"encoding/json"
	"fmt"

	"github.com/ninja0404/old-runners/internal/model"
	"github.com/ninja0404/old-runners/internal/pipeline"
	"github.com/ninja0404/old-runners/pkg/utils"
)

const Description = "Old pools that just started running"

type Response struct {
	Meta    Meta                   `json:"meta"`
	Data    []Candidate            `json:"data"`
	ByChain map[string][]Candidate `json:"byChain"`
	Summary Summary                `json:"summary"`
}

// Meta echoes the networks and thresholds a response was computed with
type Meta struct {
	Networks []string `json:"networks"`
	model.FilterConfig
	TTL         int    `json:"ttl"`
	Description string `json:"description"`
	// Relaxed per network, true when only the relaxed tier matched
	Relaxed map[string]bool `json:"relaxed"`
}

type Summary struct {
	TotalFound int            `json:"totalFound"`
	ByChain    map[string]int `json:"byChain"`
}

type Links struct {
	DexScreener string `json:"dexscreener"`
}

// Candidate client view of a ranked pair
type Candidate struct {
	ChainID       string          `json:"chainId"`
	PairAddress   string          `json:"pairAddress"`
	Token         model.Token     `json:"token"`
	Quote         string          `json:"quote"`
	PriceUsd      float64         `json:"priceUsd"`
	LP            float64         `json:"lp"`
	Vol5m         float64         `json:"vol5m"`
	Vol1h         float64         `json:"vol1h"`
	Vol24h        float64         `json:"vol24h"`
	Trades1h      float64         `json:"trades1h"`
	AgeMin        float64         `json:"ageMin"`
	AgeDays       float64         `json:"ageDays"`
	DVolPct       float64         `json:"dVolPct"`
	PriceChange   json.RawMessage `json:"priceChange"`
	PriceChangeH1 float64         `json:"priceChangeH1"`
	PriceChangeM5 float64         `json:"priceChangeM5"`
	BuySkew5m     float64         `json:"buySkew5m"`
	Fdv           *float64        `json:"fdv"`
	DexID         *string         `json:"dexId"`
	Score         float64         `json:"score"`
	Links         Links           `json:"links"`
}

func DexScreenerLink(chainID, pairAddress string) string {
	return fmt.Sprintf("https://dexscreener.com/%s/%s", chainID, pairAddress)
}

func NewCandidate(c model.RankedCandidate) Candidate {
	p, m := c.Pair, c.Metrics
	return Candidate{
		ChainID:       p.ChainID,
		PairAddress:   p.PairAddress,
		Token:         p.BaseToken,
		Quote:         p.QuoteSymbol,
		PriceUsd:      p.PriceUsd,
		LP:            m.LiquidityUSD,
		Vol5m:         p.Volume5m,
		Vol1h:         p.Volume1h,
		Vol24h:        p.Volume24h,
		Trades1h:      m.Trades1h,
		AgeMin:        utils.RoundTo(m.AgeMinutes, 0),
		AgeDays:       utils.RoundTo(m.AgeMinutes/1440, 0),
		DVolPct:       utils.RoundTo(m.VolumeDeltaPct, 1),
		PriceChange:   p.PriceChangeRaw,
		PriceChangeH1: utils.RoundTo(m.PriceChange1h, 1),
		PriceChangeM5: utils.RoundTo(m.PriceChange5m, 1),
		BuySkew5m:     utils.RoundTo(m.BuySkew5m, 1),
		Fdv:           p.Fdv,
		DexID:         p.DexID,
		Score:         utils.RoundTo(c.Score, 2),
		Links:         Links{DexScreener: DexScreenerLink(p.ChainID, p.PairAddress)},
	}
}

func newCandidates(in []model.RankedCandidate) []Candidate {
	out := make([]Candidate, 0, len(in))
	for _, c := range in {
		out = append(out, NewCandidate(c))
	}
	return out
}

// BuildResponse shapes a scan result. Failed networks appear with empty
// lists and a zero count.
func BuildResponse(res *pipeline.Result, cfg model.FilterConfig, ttl int) *Response {
	resp := &Response{
		Meta: Meta{
			Networks:     res.Networks,
			FilterConfig: cfg,
			TTL:          ttl,
			Description:  Description,
			Relaxed:      make(map[string]bool, len(res.ByChain)),
		},
		Data:    newCandidates(res.Merged),
		ByChain: make(map[string][]Candidate, len(res.ByChain)),
		Summary: Summary{ByChain: make(map[string]int, len(res.ByChain))},
	}
	if resp.Meta.Networks == nil {
		resp.Meta.Networks = []string{}
	}

	for _, nr := range res.ByChain {
		resp.ByChain[nr.Network] = newCandidates(nr.Candidates)
		resp.Summary.ByChain[nr.Network] = len(nr.Candidates)
		resp.Meta.Relaxed[nr.Network] = nr.Relaxed
	}
	resp.Summary.TotalFound = len(resp.Data)
	return resp
}
