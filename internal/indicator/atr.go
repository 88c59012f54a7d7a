package indicator

import (
	"fmt"
	"math"

	"github.com/rxtech-lab/argo-chart/internal/types"
)

// ATR is the average true range with Wilder's smoothing.
type ATR struct {
	column    string
	period    int
	count     int
	prevClose float64
	sum       float64
	current   float64
}

// NewATR creates an ATR calculator emitting the ATR_<period> column.
func NewATR(period int) *ATR {
	return &ATR{
		column:    fmt.Sprintf("ATR_%d", period),
		period:    period,
		count:     0,
		prevClose: 0,
		sum:       0,
		current:   0,
	}
}

// Update consumes one bar.
func (a *ATR) Update(candle types.Candle) {
	a.count++

	trueRange := candle.High - candle.Low
	if a.count > 1 {
		trueRange = math.Max(trueRange, math.Max(
			math.Abs(candle.High-a.prevClose),
			math.Abs(candle.Low-a.prevClose),
		))
	}

	a.prevClose = candle.Close

	if a.count <= a.period {
		a.sum += trueRange
		if a.count == a.period {
			a.current = a.sum / float64(a.period)
		}

		return
	}

	p := float64(a.period)
	a.current = (a.current*(p-1) + trueRange) / p
}

// Snapshot implements Calculator.
func (a *ATR) Snapshot() map[string]float64 {
	if a.count < a.period {
		return nil
	}

	return map[string]float64{a.column: a.current}
}
