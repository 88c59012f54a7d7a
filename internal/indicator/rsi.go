package indicator

import (
	"fmt"

	"github.com/rxtech-lab/argo-chart/internal/types"
)

// RSI is the relative strength index with Wilder's smoothing. The first
// value is emitted after period+1 bars (period deltas).
type RSI struct {
	column    string
	period    int
	count     int
	prevClose float64
	avgGain   float64
	avgLoss   float64
	current   float64
}

// NewRSI creates an RSI calculator emitting the RSI_<period> column.
func NewRSI(period int) *RSI {
	return &RSI{
		column:    fmt.Sprintf("RSI_%d", period),
		period:    period,
		count:     0,
		prevClose: 0,
		avgGain:   0,
		avgLoss:   0,
		current:   0,
	}
}

// Update consumes one bar.
func (r *RSI) Update(candle types.Candle) {
	price := candle.Close
	r.count++

	if r.count == 1 {
		r.prevClose = price

		return
	}

	delta := price - r.prevClose
	r.prevClose = price

	var gain, loss float64
	if delta > 0 {
		gain = delta
	} else {
		loss = -delta
	}

	if r.count <= r.period+1 {
		r.avgGain += gain
		r.avgLoss += loss

		if r.count == r.period+1 {
			r.avgGain /= float64(r.period)
			r.avgLoss /= float64(r.period)
			r.current = r.strength()
		}

		return
	}

	p := float64(r.period)
	r.avgGain = (r.avgGain*(p-1) + gain) / p
	r.avgLoss = (r.avgLoss*(p-1) + loss) / p
	r.current = r.strength()
}

func (r *RSI) strength() float64 {
	if r.avgLoss == 0 {
		return 100
	}

	rs := r.avgGain / r.avgLoss

	return 100 - 100/(1+rs)
}

// Snapshot implements Calculator.
func (r *RSI) Snapshot() map[string]float64 {
	if r.count <= r.period {
		return nil
	}

	return map[string]float64{r.column: r.current}
}
