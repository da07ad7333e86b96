package model

import (
	"time"

	"github.com/ninja0404/old-runners/pkg/utils"
)

const (
	// AgeSentinelMinutes age of a pair without a creation timestamp
	AgeSentinelMinutes float64 = 1e9
	// NeutralBuySkew buy skew when there were no 5m transactions
	NeutralBuySkew float64 = 50
	// slicesPerHour 5 minute slices in one hour
	slicesPerHour = 12
)

// Metrics derived once per EnrichedPair. Every field is finite.
type Metrics struct {
	AgeMinutes     float64 `json:"ageMinutes"`
	LiquidityUSD   float64 `json:"liquidityUsd"`
	Trades1h       float64 `json:"trades1h"`
	VolumeDeltaPct float64 `json:"volumeDeltaPct"`
	PriceChange1h  float64 `json:"priceChange1h"`
	PriceChange5m  float64 `json:"priceChange5m"`
	BuySkew5m      float64 `json:"buySkew5m"`
	Buys5m         float64 `json:"buys5m"`
	Sells5m        float64 `json:"sells5m"`
	TotalTxns5m    float64 `json:"totalTxns5m"`
}

// ComputeMetrics derives the filter metrics. Non-finite results, from
// overflowing or NaN inputs, fall back to the field's neutral value.
func ComputeMetrics(p EnrichedPair, now time.Time) Metrics {
	m := Metrics{
		AgeMinutes:    AgeSentinelMinutes,
		LiquidityUSD:  utils.Finite(p.LiquidityUSD, 0),
		Trades1h:      utils.Finite(p.Buys1h+p.Sells1h, 0),
		PriceChange1h: utils.Finite(p.PriceChange1h, 0),
		PriceChange5m: utils.Finite(p.PriceChange5m, 0),
		BuySkew5m:     NeutralBuySkew,
		Buys5m:        utils.Finite(p.Buys5m, 0),
		Sells5m:       utils.Finite(p.Sells5m, 0),
		TotalTxns5m:   utils.Finite(p.Buys5m+p.Sells5m, 0),
	}
	if p.CreatedAt != nil {
		m.AgeMinutes = utils.Finite(now.Sub(*p.CreatedAt).Minutes(), AgeSentinelMinutes)
	}
	if slice := p.Volume1h / slicesPerHour; slice > 0 {
		m.VolumeDeltaPct = utils.Finite((p.Volume5m-slice)/slice*100, 0)
	}
	if m.TotalTxns5m > 0 {
		m.BuySkew5m = utils.Finite(m.Buys5m/m.TotalTxns5m*100, NeutralBuySkew)
	}
	return m
}

// RankedCandidate pair that survived the filter, with its score
type RankedCandidate struct {
	Pair    EnrichedPair
	Metrics Metrics
	Score   float64
}
