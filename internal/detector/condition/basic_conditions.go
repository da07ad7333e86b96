package condition

import (
	"fmt"

	"github.com/ninja0404/old-runners/internal/model"
)

// Metric selects one derived metric
type Metric string

const (
	MetricAge           Metric = "age_min"
	MetricLiquidity     Metric = "liquidity_usd"
	MetricTrades1h      Metric = "trades_1h"
	MetricVolumeDelta   Metric = "volume_delta_pct"
	MetricPriceChange1h Metric = "price_change_1h"
	MetricPriceChange5m Metric = "price_change_5m"
	MetricBuySkew5m     Metric = "buy_skew_5m"
	MetricTotalTxns5m   Metric = "total_txns_5m"
)

func (m Metric) Value(metrics model.Metrics) (float64, bool) {
	switch m {
	case MetricAge:
		return metrics.AgeMinutes, true
	case MetricLiquidity:
		return metrics.LiquidityUSD, true
	case MetricTrades1h:
		return metrics.Trades1h, true
	case MetricVolumeDelta:
		return metrics.VolumeDeltaPct, true
	case MetricPriceChange1h:
		return metrics.PriceChange1h, true
	case MetricPriceChange5m:
		return metrics.PriceChange5m, true
	case MetricBuySkew5m:
		return metrics.BuySkew5m, true
	case MetricTotalTxns5m:
		return metrics.TotalTxns5m, true
	default:
		return 0, false
	}
}

// MetricCondition compares one metric against a fixed threshold
type MetricCondition struct {
	BaseCondition
	Metric    Metric
	Threshold float64
}

func (c *MetricCondition) Evaluate(context *EvaluationContext) bool {
	if context == nil {
		return false
	}
	v, ok := c.Metric.Value(context.Metrics)
	if !ok {
		return false
	}
	return c.CompareFloat64(v, c.Threshold)
}

// RangeCondition inclusive [Min, Max] window on one metric
type RangeCondition struct {
	BaseCondition
	Metric Metric
	Min    float64
	Max    float64
}

func (c *RangeCondition) Evaluate(context *EvaluationContext) bool {
	if context == nil {
		return false
	}
	v, ok := c.Metric.Value(context.Metrics)
	return ok && v >= c.Min && v <= c.Max
}

// ConditionFactory creates conditions from thresholds
type ConditionFactory struct{}

func NewConditionFactory() *ConditionFactory {
	return &ConditionFactory{}
}

func (f *ConditionFactory) CreateMetricCondition(name string, metric Metric, operator string, threshold float64) Condition {
	return &MetricCondition{
		BaseCondition: BaseCondition{
			Name:        name,
			Description: fmt.Sprintf("%s %s %g", metric, operator, threshold),
			Operator:    operator,
		},
		Metric:    metric,
		Threshold: threshold,
	}
}

// AtLeast metric >= threshold
func (f *ConditionFactory) AtLeast(name string, metric Metric, threshold float64) Condition {
	return f.CreateMetricCondition(name, metric, ">=", threshold)
}

// Below metric < threshold
func (f *ConditionFactory) Below(name string, metric Metric, threshold float64) Condition {
	return f.CreateMetricCondition(name, metric, "<", threshold)
}

func (f *ConditionFactory) CreateRangeCondition(name string, metric Metric, lo, hi float64) Condition {
	return &RangeCondition{
		BaseCondition: BaseCondition{
			Name:        name,
			Description: fmt.Sprintf("%g <= %s <= %g", lo, metric, hi),
		},
		Metric: metric,
		Min:    lo,
		Max:    hi,
	}
}
