package indicator

import (
	"fmt"

	"github.com/rxtech-lab/argo-chart/internal/types"
)

// SMA is a simple moving average over close prices.
type SMA struct {
	column string
	period int
	window []float64
	sum    float64
}

// NewSMA creates an SMA calculator emitting the SMA_<period> column.
func NewSMA(period int) *SMA {
	return &SMA{
		column: fmt.Sprintf("SMA_%d", period),
		period: period,
		window: nil,
		sum:    0,
	}
}

// Update consumes one bar.
func (s *SMA) Update(candle types.Candle) {
	s.window = append(s.window, candle.Close)
	s.sum += candle.Close

	if len(s.window) > s.period {
		s.sum -= s.window[0]
		s.window = s.window[1:]
	}
}

// Snapshot implements Calculator.
func (s *SMA) Snapshot() map[string]float64 {
	if len(s.window) < s.period {
		return nil
	}

	return map[string]float64{s.column: s.sum / float64(s.period)}
}
