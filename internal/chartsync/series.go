// Package chartsync reconciles the live feed against the chart surface: the
// candlestick series and its indicator overlays, the oscillator subplot, the
// trade marker layer, and the position reference lines. Each manager owns
// exactly one visual layer and is the only writer to it.
package chartsync

import (
	"github.com/rxtech-lab/argo-chart/internal/logger"
	"github.com/rxtech-lab/argo-chart/internal/types"
	"github.com/rxtech-lab/argo-chart/pkg/chart"
	"github.com/rxtech-lab/argo-chart/pkg/errors"
	"go.uber.org/zap"
)

// Oscillator pane layout and thresholds.
const (
	oscillatorPane       = 1
	primaryPaneWeight    = 3
	oscillatorPaneWeight = 1
	overboughtLevel      = 70
	oversoldLevel        = 30
)

// OverlaySpec declares one indicator overlay. The set of overlays is fixed
// up front; the manager never invents overlay series at runtime.
type OverlaySpec struct {
	// Name is the indicator column name carried by the feed (e.g. "EMA_50").
	Name string
	// Title is the display title of the overlay line.
	Title string
	// Color is the line color.
	Color chart.Color
}

// overlayState is the explicit per-indicator tri-state behind the overlay
// creation policy: an overlay is created during bulk load iff at least one
// historical bar carries a finite value for it, and once absent it stays
// absent for the whole session.
type overlayState int

const (
	overlayPending overlayState = iota
	overlayActive
	overlayAbsent
)

// SeriesManager owns the candlestick series, the indicator overlay series,
// and the oscillator subplot. It reconciles one bulk historical load with a
// stream of single-candle updates.
type SeriesManager struct {
	surface        chart.Surface
	log            *logger.Logger
	specs          []OverlaySpec
	oscillatorName string

	candles       chart.CandlestickSeries
	overlays      map[string]chart.LineSeries
	overlayStates map[string]overlayState
	oscillator    chart.LineSeries
	loaded        bool

	// droppedUpdates counts live overlay values that arrived for overlays
	// the bulk load never created. They are dropped, never drawn late.
	droppedUpdates int
}

// NewSeriesManager creates a manager drawing on the given surface. The
// oscillatorName selects the bounded-range indicator plotted in the subplot
// pane; empty means no oscillator pane is created.
func NewSeriesManager(surface chart.Surface, specs []OverlaySpec, oscillatorName string, log *logger.Logger) *SeriesManager {
	states := make(map[string]overlayState, len(specs))
	for _, spec := range specs {
		states[spec.Name] = overlayPending
	}

	return &SeriesManager{
		surface:        surface,
		log:            log,
		specs:          specs,
		oscillatorName: oscillatorName,
		candles:        nil,
		overlays:       make(map[string]chart.LineSeries, len(specs)),
		overlayStates:  states,
		oscillator:     nil,
		loaded:         false,
		droppedUpdates: 0,
	}
}

// Load performs the one-time bulk historical load: the candlestick series in
// one pass, one overlay series per declared indicator that has at least one
// finite historical value, and the oscillator pane if configured. Finishes by
// fitting the visible range to the loaded data.
func (m *SeriesManager) Load(candles []types.Candle) error {
	if m.loaded {
		return errors.New(errors.ErrCodeInvalidParameter, "historical data already loaded")
	}

	series, err := m.surface.AddCandlestickSeries()
	if err != nil {
		return errors.Wrap(errors.ErrCodeSeriesNotLoaded, "failed to create candlestick series", err)
	}

	if err := series.SetData(candles); err != nil {
		return err
	}

	m.candles = series

	for _, spec := range m.specs {
		if err := m.loadOverlay(spec, candles); err != nil {
			return err
		}
	}

	if m.oscillatorName != "" {
		if err := m.loadOscillator(candles); err != nil {
			return err
		}
	}

	m.surface.FitContent()
	m.loaded = true

	m.log.Info("bulk load complete",
		zap.Int("bars", len(candles)),
		zap.Int("overlays", len(m.overlays)),
		zap.Bool("oscillator", m.oscillator != nil),
	)

	return nil
}

// loadOverlay creates and populates one overlay line, or marks the indicator
// permanently absent when no historical bar carries a finite value for it.
func (m *SeriesManager) loadOverlay(spec OverlaySpec, candles []types.Candle) error {
	points := collectPoints(candles, spec.Name)
	if len(points) == 0 {
		m.overlayStates[spec.Name] = overlayAbsent

		return nil
	}

	line, err := m.surface.AddLineSeries(chart.LineSeriesOptions{
		Title: spec.Title,
		Color: spec.Color,
		Pane:  0,
	})
	if err != nil {
		return errors.Wrapf(errors.ErrCodeSeriesNotLoaded, err, "failed to create %q overlay", spec.Name)
	}

	if err := line.SetData(points); err != nil {
		return err
	}

	m.overlays[spec.Name] = line
	m.overlayStates[spec.Name] = overlayActive

	return nil
}

// loadOscillator creates the subplot pane at the fixed 3:1 stretch ratio,
// populates it, and draws the static overbought/oversold reference lines.
func (m *SeriesManager) loadOscillator(candles []types.Candle) error {
	line, err := m.surface.AddLineSeries(chart.LineSeriesOptions{
		Title: m.oscillatorName,
		Color: chart.ColorBlue,
		Pane:  oscillatorPane,
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodePaneNotCreated, "failed to create oscillator series", err)
	}

	if err := line.SetData(collectPoints(candles, m.oscillatorName)); err != nil {
		return err
	}

	if err := m.surface.SetPaneStretch(0, primaryPaneWeight); err != nil {
		return err
	}

	if err := m.surface.SetPaneStretch(oscillatorPane, oscillatorPaneWeight); err != nil {
		return err
	}

	for _, level := range []float64{overboughtLevel, oversoldLevel} {
		_, err := line.CreatePriceLine(chart.PriceLineOptions{
			Price: level,
			Color: chart.ColorGray,
			Style: chart.LineStyleDashed,
			Title: "",
		})
		if err != nil {
			return err
		}
	}

	m.oscillator = line

	return nil
}

// ApplyUpdate upserts one live candle into every layer it feeds: the
// candlestick series always, each active overlay when the update carries a
// finite value for it, and the oscillator when its pane exists. Values for
// overlays the bulk load marked absent are dropped.
func (m *SeriesManager) ApplyUpdate(candle types.Candle) error {
	if !m.loaded {
		return errors.New(errors.ErrCodeSeriesNotLoaded, "cannot apply update before bulk load")
	}

	if err := m.candles.Update(candle); err != nil {
		return err
	}

	for _, spec := range m.specs {
		value, ok := candle.Indicator(spec.Name)
		if !ok {
			continue
		}

		switch m.overlayStates[spec.Name] {
		case overlayActive:
			if err := m.overlays[spec.Name].Update(chart.LinePoint{Time: candle.Time, Value: value}); err != nil {
				return err
			}
		case overlayAbsent:
			// Overlays are never created lazily after bulk load, even when
			// the indicator becomes available later in the session.
			m.droppedUpdates++
			m.log.Debug("dropping live value for absent overlay", zap.String("indicator", spec.Name))
		case overlayPending:
			// Unreachable once loaded; left explicit for the tri-state.
		}
	}

	if m.oscillator != nil {
		if value, ok := candle.Indicator(m.oscillatorName); ok {
			if err := m.oscillator.Update(chart.LinePoint{Time: candle.Time, Value: value}); err != nil {
				return err
			}
		}
	}

	return nil
}

// OverlayActive reports whether the named overlay was created at bulk load.
func (m *SeriesManager) OverlayActive(name string) bool {
	return m.overlayStates[name] == overlayActive
}

// DroppedUpdates returns how many live overlay values were dropped because
// their overlay was never created.
func (m *SeriesManager) DroppedUpdates() int {
	return m.droppedUpdates
}

// Loaded reports whether the bulk load has completed.
func (m *SeriesManager) Loaded() bool {
	return m.loaded
}

// collectPoints extracts the time-ordered subsequence of finite values for
// one indicator name. Gaps are omitted, not interpolated or zero-filled.
func collectPoints(candles []types.Candle, name string) []chart.LinePoint {
	var points []chart.LinePoint

	for _, candle := range candles {
		if value, ok := candle.Indicator(name); ok {
			points = append(points, chart.LinePoint{Time: candle.Time, Value: value})
		}
	}

	return points
}
