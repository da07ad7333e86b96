package detector

import (
	"math"
	"sort"

	"github.com/ninja0404/old-runners/internal/model"
	"github.com/ninja0404/old-runners/pkg/utils"
)

const (
	weightVolumeDelta = 0.30
	weightBuySkew     = 0.25
	weightPrice5m     = 0.20
	weightPrice1h     = 0.15
	weightTrades      = 0.10
)

// Score composite hotness of a runner, 0 when the sum is not finite.
// Negative trade counts count as none.
func Score(m model.Metrics) float64 {
	s := weightVolumeDelta*m.VolumeDeltaPct +
		weightBuySkew*(m.BuySkew5m-model.NeutralBuySkew) +
		weightPrice5m*m.PriceChange5m +
		weightPrice1h*m.PriceChange1h +
		weightTrades*math.Log10(1+math.Max(m.Trades1h, 0)/10)
	return utils.Finite(s, 0)
}

// Rank sorts by score descending in place; equal scores keep input order.
func Rank(candidates []model.RankedCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
}
