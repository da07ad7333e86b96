package api

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ninja0404/old-runners/internal/model"
)

func TestParseFilterConfig_Defaults(t *testing.T) {
	assert.Equal(t, model.DefaultFilterConfig(), ParseFilterConfig(url.Values{}))
}

func TestParseFilterConfig_Overrides(t *testing.T) {
	q, _ := url.ParseQuery("minAgeMin=100&maxAgeMin=2e5&minLP=5000.5&minTrades1h=&minDeltaPct=abc&minPriceChangeH1=-5&minBuySkew5m=NaN&minPriceChangeM5=Inf")
	cfg := ParseFilterConfig(q)

	want := model.DefaultFilterConfig()
	want.MinAgeMin = 100
	want.MaxAgeMin = 200000
	want.MinLP = 5000.5
	want.MinPriceChangeH1 = -5
	assert.Equal(t, want, cfg)
}

func TestParseNetworks(t *testing.T) {
	def := []string{"solana"}
	assert.Equal(t, def, ParseNetworks(url.Values{}, def))
	assert.Equal(t, def, ParseNetworks(url.Values{"networks": {"  "}}, def))
	assert.Equal(t, []string{"eth", "base"}, ParseNetworks(url.Values{"networks": {" eth, ,base "}}, def))
}
