// Package indicator computes the technical indicator columns carried
// alongside each candle. Calculators are streaming: one Update per bar, O(1)
// state, and no values emitted until the warm-up window is full.
package indicator

import (
	"github.com/rxtech-lab/argo-chart/internal/types"
)

// Calculator consumes candles one at a time and exposes its current column
// values. Snapshot returns an empty map while the calculator is warming up.
type Calculator interface {
	Update(candle types.Candle)
	Snapshot() map[string]float64
}

// Enrich runs the calculators over the candles in order and writes each
// bar's column values into its indicator set. Bars inside a warm-up window
// carry no value for that column. The input slice is annotated in place and
// returned.
func Enrich(candles []types.Candle, calculators []Calculator) []types.Candle {
	for i := range candles {
		if candles[i].Indicators == nil {
			candles[i].Indicators = make(types.IndicatorSet)
		}

		for _, calc := range calculators {
			calc.Update(candles[i])

			for name, value := range calc.Snapshot() {
				candles[i].Indicators.Set(name, value)
			}
		}
	}

	return candles
}
