package detector

import (
	"math"

	"github.com/ninja0404/old-runners/internal/detector/condition"
	"github.com/ninja0404/old-runners/internal/model"
)

// RelaxPolicy scales the strict thresholds into the fallback tier. The
// factors are empirical and kept configurable.
type RelaxPolicy struct {
	LiquidityFactor float64 `json:"liquidity_factor" yaml:"liquidity_factor"`
	LiquidityFloor  float64 `json:"liquidity_floor" yaml:"liquidity_floor"`
	TradesFactor    float64 `json:"trades_factor" yaml:"trades_factor"`
	TradesFloor     float64 `json:"trades_floor" yaml:"trades_floor"`
	DeltaFactor     float64 `json:"delta_factor" yaml:"delta_factor"`
	PriceM5Factor   float64 `json:"price_m5_factor" yaml:"price_m5_factor"`
	PriceH1Factor   float64 `json:"price_h1_factor" yaml:"price_h1_factor"`
	SkewFactor      float64 `json:"skew_factor" yaml:"skew_factor"`
	// ThinTxns5m below this many 5m transactions the buy skew is waived
	ThinTxns5m float64 `json:"thin_txns_5m" yaml:"thin_txns_5m"`
}

func DefaultRelaxPolicy() RelaxPolicy {
	return RelaxPolicy{
		LiquidityFactor: 0.5,
		LiquidityFloor:  5000,
		TradesFactor:    0.5,
		TradesFloor:     15,
		DeltaFactor:     0.7,
		PriceM5Factor:   2,
		PriceH1Factor:   1.5,
		SkewFactor:      0.9,
		ThinTxns5m:      5,
	}
}

var factory = condition.NewConditionFactory()

// StrictCondition the seven threshold stages, in evaluation order
func StrictCondition(cfg model.FilterConfig) condition.Condition {
	return condition.NewBuilder().
		Name("strict").
		Description("old runner strict thresholds").
		And(factory.CreateRangeCondition("age", condition.MetricAge, cfg.MinAgeMin, cfg.MaxAgeMin)).
		And(factory.AtLeast("liquidity", condition.MetricLiquidity, cfg.MinLP)).
		And(factory.AtLeast("trades_1h", condition.MetricTrades1h, cfg.MinTrades1h)).
		And(factory.AtLeast("volume_delta", condition.MetricVolumeDelta, cfg.MinDeltaPct)).
		And(factory.AtLeast("price_change_1h", condition.MetricPriceChange1h, cfg.MinPriceChangeH1)).
		And(factory.AtLeast("price_change_5m", condition.MetricPriceChange5m, cfg.MinPriceChangeM5)).
		And(factory.AtLeast("buy_skew_5m", condition.MetricBuySkew5m, cfg.MinBuySkew5m)).
		Build()
}

// Condition the relaxed tier derived from cfg
func (p RelaxPolicy) Condition(cfg model.FilterConfig) condition.Condition {
	momentum := condition.NewBuilder().
		Name("momentum").
		Or(factory.AtLeast("volume_delta", condition.MetricVolumeDelta, cfg.MinDeltaPct*p.DeltaFactor)).
		Or(factory.AtLeast("price_change_5m", condition.MetricPriceChange5m, cfg.MinPriceChangeM5*p.PriceM5Factor)).
		Build()

	buyPressure := condition.NewBuilder().
		Name("buy_pressure").
		Or(factory.AtLeast("buy_skew_5m", condition.MetricBuySkew5m, cfg.MinBuySkew5m*p.SkewFactor)).
		Or(factory.Below("thin_5m", condition.MetricTotalTxns5m, p.ThinTxns5m)).
		Build()

	return condition.NewBuilder().
		Name("relaxed").
		Description("old runner relaxed thresholds").
		And(factory.CreateRangeCondition("age", condition.MetricAge, cfg.MinAgeMin, cfg.MaxAgeMin)).
		And(factory.AtLeast("liquidity", condition.MetricLiquidity, math.Max(p.LiquidityFloor, cfg.MinLP*p.LiquidityFactor))).
		And(factory.AtLeast("trades_1h", condition.MetricTrades1h, math.Max(p.TradesFloor, cfg.MinTrades1h*p.TradesFactor))).
		And(momentum).
		And(factory.AtLeast("price_change_1h", condition.MetricPriceChange1h, cfg.MinPriceChangeH1*p.PriceH1Factor)).
		And(buyPressure).
		Build()
}
