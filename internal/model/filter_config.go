package model

// FilterConfig thresholds for one scan. Passed by value.
type FilterConfig struct {
	MinAgeMin        float64 `json:"minAgeMin"`
	MaxAgeMin        float64 `json:"maxAgeMin"`
	MinLP            float64 `json:"minLP"`
	MinTrades1h      float64 `json:"minTrades1h"`
	MinDeltaPct      float64 `json:"minDeltaPct"`
	MinPriceChangeH1 float64 `json:"minPriceChangeH1"`
	MinPriceChangeM5 float64 `json:"minPriceChangeM5"`
	MinBuySkew5m     float64 `json:"minBuySkew5m"`
}

// DefaultFilterConfig defaults of the HTTP endpoint
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		MinAgeMin:        43200,
		MaxAgeMin:        259200,
		MinLP:            20000,
		MinTrades1h:      50,
		MinDeltaPct:      20,
		MinPriceChangeH1: 0,
		MinPriceChangeM5: 2,
		MinBuySkew5m:     55,
	}
}

// BroadFilterConfig looser preset: LP $10k, 30 trades, +15% volume delta,
// 1h drawdown down to -5%, +1% 5m move, 52% buys.
func BroadFilterConfig() FilterConfig {
	return FilterConfig{
		MinAgeMin:        43200,
		MaxAgeMin:        259200,
		MinLP:            10000,
		MinTrades1h:      30,
		MinDeltaPct:      15,
		MinPriceChangeH1: -5,
		MinPriceChangeM5: 1,
		MinBuySkew5m:     52,
	}
}
