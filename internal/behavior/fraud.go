package behavior

import (
	"math"

	"github.com/ringwatch/ringwatch/internal/model"
)

// DetectFraudulentTransactions scores transaction-amount irregularity per
// actor as the variance coefficient sigma/(mu+1), clamped to [0,1]. The +1
// stabilizes small means and is kept as-is. Actors with fewer than two
// amount-bearing events score zero and are omitted.
func DetectFraudulentTransactions(logs []model.Event) map[string]float64 {
	amounts := make(map[string][]float64)
	for i := range logs {
		ev := &logs[i]
		if ev.Actor == "" || ev.Amount == nil {
			continue
		}
		amounts[ev.Actor] = append(amounts[ev.Actor], ev.Amount.InexactFloat64())
	}
	out := make(map[string]float64)
	for actor, xs := range amounts {
		if len(xs) < 2 {
			continue
		}
		mean := 0.0
		for _, x := range xs {
			mean += x
		}
		mean /= float64(len(xs))
		variance := 0.0
		for _, x := range xs {
			variance += (x - mean) * (x - mean)
		}
		variance /= float64(len(xs))
		score := clamp01(math.Sqrt(variance) / (mean + 1))
		out[actor] = score
	}
	return out
}
