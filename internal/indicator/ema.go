package indicator

import (
	"fmt"

	"github.com/rxtech-lab/argo-chart/internal/types"
)

// EMA is an exponential moving average over close prices, seeded with the
// simple average of the first period closes.
type EMA struct {
	column     string
	period     int
	multiplier float64
	count      int
	sum        float64
	current    float64
}

// NewEMA creates an EMA calculator emitting the EMA_<period> column.
func NewEMA(period int) *EMA {
	return &EMA{
		column:     fmt.Sprintf("EMA_%d", period),
		period:     period,
		multiplier: 2.0 / float64(period+1),
		count:      0,
		sum:        0,
		current:    0,
	}
}

// Update consumes one bar.
func (e *EMA) Update(candle types.Candle) {
	price := candle.Close
	e.count++

	if e.count <= e.period {
		e.sum += price
		if e.count == e.period {
			e.current = e.sum / float64(e.period)
		}

		return
	}

	e.current = price*e.multiplier + e.current*(1-e.multiplier)
}

// Snapshot implements Calculator.
func (e *EMA) Snapshot() map[string]float64 {
	if e.count < e.period {
		return nil
	}

	return map[string]float64{e.column: e.current}
}
