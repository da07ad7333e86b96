package api

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/ninja0404/old-runners/internal/model"
	"github.com/ninja0404/old-runners/pkg/utils"
)

// ParseFilterConfig reads thresholds from the query. Missing, empty,
// malformed or non-finite values keep their default.
func ParseFilterConfig(q url.Values) model.FilterConfig {
	cfg := model.DefaultFilterConfig()
	floatParam(q, "minAgeMin", &cfg.MinAgeMin)
	floatParam(q, "maxAgeMin", &cfg.MaxAgeMin)
	floatParam(q, "minLP", &cfg.MinLP)
	floatParam(q, "minTrades1h", &cfg.MinTrades1h)
	floatParam(q, "minDeltaPct", &cfg.MinDeltaPct)
	floatParam(q, "minPriceChangeH1", &cfg.MinPriceChangeH1)
	floatParam(q, "minPriceChangeM5", &cfg.MinPriceChangeM5)
	floatParam(q, "minBuySkew5m", &cfg.MinBuySkew5m)
	return cfg
}

func floatParam(q url.Values, key string, dst *float64) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	*dst = v
}

// ParseNetworks comma separated networks param, def when absent or blank
func ParseNetworks(q url.Values, def []string) []string {
	if list := utils.SplitList(q.Get("networks")); len(list) > 0 {
		return list
	}
	return def
}
