package chartsync

import (
	"fmt"
	"sort"

	"github.com/rxtech-lab/argo-chart/internal/logger"
	"github.com/rxtech-lab/argo-chart/internal/types"
	"github.com/rxtech-lab/argo-chart/pkg/chart"
	"go.uber.org/zap"
)

// MarkerManager owns the trade-event marker layer on the price series. Every
// change replaces the full set atomically; there is no incremental add or
// remove, so re-applying an identical set is idempotent.
type MarkerManager struct {
	series chart.CandlestickSeries
	log    *logger.Logger
}

// NewMarkerManager creates a manager drawing markers on the given series.
func NewMarkerManager(series chart.CandlestickSeries, log *logger.Logger) *MarkerManager {
	return &MarkerManager{
		series: series,
		log:    log,
	}
}

// Apply replaces the rendered marker set. An empty set clears all markers.
func (m *MarkerManager) Apply(markers []types.TradeMarker) error {
	if len(markers) == 0 {
		return m.series.SetMarkers(nil)
	}

	visual := make([]chart.Marker, 0, len(markers))
	for _, marker := range markers {
		visual = append(visual, toVisualMarker(marker))
	}

	sort.SliceStable(visual, func(i, j int) bool {
		return visual[i].Time < visual[j].Time
	})

	if err := m.series.SetMarkers(visual); err != nil {
		return err
	}

	m.log.Debug("marker layer replaced", zap.Int("count", len(visual)))

	return nil
}

// toVisualMarker maps a domain marker onto its fixed rendering: entries sit
// below the bar as green upward arrows, everything else above the bar as red
// downward arrows.
func toVisualMarker(marker types.TradeMarker) chart.Marker {
	visual := chart.Marker{
		Time:     marker.Time,
		Position: chart.MarkerAboveBar,
		Shape:    chart.MarkerArrowDown,
		Color:    chart.ColorRed,
		Text:     marker.Label,
	}

	if marker.Kind == types.MarkerKindEntry {
		visual.Position = chart.MarkerBelowBar
		visual.Shape = chart.MarkerArrowUp
		visual.Color = chart.ColorGreen
	}

	if visual.Text == "" {
		visual.Text = fmt.Sprintf("%s %s @ %g", marker.Kind, marker.Direction, marker.Price)
	}

	return visual
}
