package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-chart/internal/types"
)

// Bollinger computes the three Bollinger band columns over close prices:
// BB_middle is the simple moving average, BB_upper and BB_lower sit stdDev
// population standard deviations above and below it.
type Bollinger struct {
	period int
	stdDev float64
	window []float64
}

// NewBollinger creates a Bollinger band calculator.
func NewBollinger(period int, stdDev float64) *Bollinger {
	return &Bollinger{
		period: period,
		stdDev: stdDev,
		window: nil,
	}
}

// Update consumes one bar.
func (b *Bollinger) Update(candle types.Candle) {
	b.window = append(b.window, candle.Close)
	if len(b.window) > b.period {
		b.window = b.window[1:]
	}
}

// Snapshot implements Calculator.
func (b *Bollinger) Snapshot() map[string]float64 {
	if len(b.window) < b.period {
		return nil
	}

	var sum float64
	for _, price := range b.window {
		sum += price
	}

	mean := sum / float64(b.period)

	var variance float64
	for _, price := range b.window {
		diff := price - mean
		variance += diff * diff
	}

	sigma := math.Sqrt(variance / float64(b.period))

	return map[string]float64{
		"BB_upper":  mean + b.stdDev*sigma,
		"BB_middle": mean,
		"BB_lower":  mean - b.stdDev*sigma,
	}
}
