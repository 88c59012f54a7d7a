package indicator

import (
	"github.com/rxtech-lab/argo-chart/internal/types"
)

// MACD computes the moving average convergence divergence columns: MACD_line
// (fast EMA minus slow EMA), MACD_signal (EMA of the line) and
// MACD_histogram (line minus signal). Values are emitted once the slow EMA
// and the signal EMA have both warmed up.
type MACD struct {
	fast   *EMA
	slow   *EMA
	signal *EMA
}

// NewMACD creates a MACD calculator with the given fast/slow/signal periods.
func NewMACD(fast, slow, signal int) *MACD {
	return &MACD{
		fast:   NewEMA(fast),
		slow:   NewEMA(slow),
		signal: NewEMA(signal),
	}
}

// Update consumes one bar.
func (m *MACD) Update(candle types.Candle) {
	m.fast.Update(candle)
	m.slow.Update(candle)

	fast := m.fast.Snapshot()
	slow := m.slow.Snapshot()

	if fast == nil || slow == nil {
		return
	}

	// The signal line is an EMA over the MACD line, fed as a synthetic close.
	line := fast[m.fast.column] - slow[m.slow.column]
	m.signal.Update(types.Candle{Close: line}) //nolint:exhaustruct // only the close feeds the EMA
}

// Snapshot implements Calculator.
func (m *MACD) Snapshot() map[string]float64 {
	fast := m.fast.Snapshot()
	slow := m.slow.Snapshot()
	signal := m.signal.Snapshot()

	if fast == nil || slow == nil || signal == nil {
		return nil
	}

	line := fast[m.fast.column] - slow[m.slow.column]
	signalValue := signal[m.signal.column]

	return map[string]float64{
		"MACD_line":      line,
		"MACD_signal":    signalValue,
		"MACD_histogram": line - signalValue,
	}
}
