package chartsync

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-chart/internal/logger"
	"github.com/rxtech-lab/argo-chart/internal/types"
	"github.com/rxtech-lab/argo-chart/pkg/chart"
	"go.uber.org/zap"
)

// PositionLineManager owns the up-to-three horizontal reference lines tied to
// the currently open position: entry, stop, and target. Every change is a
// full replace; changing a single level still redraws all lines.
type PositionLineManager struct {
	series chart.CandlestickSeries
	log    *logger.Logger
	lines  []chart.PriceLine
}

// NewPositionLineManager creates a manager drawing on the given series.
func NewPositionLineManager(series chart.CandlestickSeries, log *logger.Logger) *PositionLineManager {
	return &PositionLineManager{
		series: series,
		log:    log,
		lines:  nil,
	}
}

// Apply reconciles the drawn reference lines against the active position.
// None removes everything. Removal errors are ignored: a chart reset may have
// already invalidated the handles.
func (m *PositionLineManager) Apply(position optional.Option[types.Position]) error {
	for _, line := range m.lines {
		if err := m.series.RemovePriceLine(line); err != nil {
			m.log.Debug("ignoring removal of invalidated price line", zap.Error(err))
		}
	}

	m.lines = nil

	if position.IsNone() {
		return nil
	}

	pos := position.Unwrap()

	entry, err := m.series.CreatePriceLine(chart.PriceLineOptions{
		Price: pos.OpenPrice,
		Color: chart.ColorBlue,
		Style: chart.LineStyleSolid,
		Title: fmt.Sprintf("entry (%s)", pos.Side),
	})
	if err != nil {
		return err
	}

	m.lines = append(m.lines, entry)

	if pos.StopLoss.IsSome() {
		stop, err := m.series.CreatePriceLine(chart.PriceLineOptions{
			Price: pos.StopLoss.Unwrap(),
			Color: chart.ColorOrange,
			Style: chart.LineStyleDashed,
			Title: "stop loss",
		})
		if err != nil {
			return err
		}

		m.lines = append(m.lines, stop)
	}

	if pos.TakeProfit.IsSome() {
		target, err := m.series.CreatePriceLine(chart.PriceLineOptions{
			Price: pos.TakeProfit.Unwrap(),
			Color: chart.ColorGreen,
			Style: chart.LineStyleDashed,
			Title: "take profit",
		})
		if err != nil {
			return err
		}

		m.lines = append(m.lines, target)
	}

	return nil
}

// LineCount returns how many reference lines are currently drawn.
func (m *PositionLineManager) LineCount() int {
	return len(m.lines)
}
