// Package chart specifies the rendering surface the synchronization engine
// draws on. The surface itself (pixel layout, pane stretch math, interaction)
// is an external collaborator; this package only pins down the interface the
// engine needs, plus an in-memory implementation for tests and headless use.
package chart

import "github.com/rxtech-lab/argo-chart/internal/types"

// MarkerPosition places a marker relative to its bar.
type MarkerPosition string

const (
	MarkerAboveBar MarkerPosition = "above_bar"
	MarkerBelowBar MarkerPosition = "below_bar"
)

// MarkerShape is the glyph drawn for a marker.
type MarkerShape string

const (
	MarkerArrowUp   MarkerShape = "arrow_up"
	MarkerArrowDown MarkerShape = "arrow_down"
)

// Color is a named or hex color understood by the surface.
type Color string

const (
	ColorGreen  Color = "green"
	ColorRed    Color = "red"
	ColorBlue   Color = "blue"
	ColorOrange Color = "orange"
	ColorGray   Color = "gray"
)

// LineStyle is the stroke style of a plotted or reference line.
type LineStyle string

const (
	LineStyleSolid  LineStyle = "solid"
	LineStyleDashed LineStyle = "dashed"
)

// LinePoint is one value of one plotted line at one time (unix seconds).
type LinePoint struct {
	Time  int64
	Value float64
}

// Marker is one visual marker rendered on a series.
type Marker struct {
	Time     int64
	Position MarkerPosition
	Shape    MarkerShape
	Color    Color
	Text     string
}

// PriceLineOptions configures a horizontal reference line.
type PriceLineOptions struct {
	Price float64
	Color Color
	Style LineStyle
	Title string
}

// LineSeriesOptions configures a plotted line series.
type LineSeriesOptions struct {
	Title string
	Color Color
	// Pane is the index of the pane the line is drawn in. Pane 0 is the
	// price pane; higher indexes are subplots below it.
	Pane int
}

// PriceLine is an opaque handle to one drawn reference line.
type PriceLine interface {
	// Options returns the options the line was created with.
	Options() PriceLineOptions
}

// CandlestickSeries is the handle to the main price series.
type CandlestickSeries interface {
	// SetData replaces the whole series with a strictly time-ordered sequence.
	SetData(candles []types.Candle) error
	// Update upserts one bar by time: equal to the last bar replaces it,
	// strictly greater appends, smaller is rejected.
	Update(candle types.Candle) error
	// SetMarkers atomically replaces the full marker set. The set must be
	// sorted ascending by time. An empty set clears all markers.
	SetMarkers(markers []Marker) error
	// CreatePriceLine draws a horizontal reference line on the series.
	CreatePriceLine(opts PriceLineOptions) (PriceLine, error)
	// RemovePriceLine removes a previously created reference line.
	RemovePriceLine(line PriceLine) error
}

// LineSeries is the handle to one plotted line (overlay or subplot).
type LineSeries interface {
	// SetData replaces the whole line with a strictly time-ordered sequence.
	SetData(points []LinePoint) error
	// Update upserts one point by time, with the same semantics as
	// CandlestickSeries.Update.
	Update(point LinePoint) error
	// CreatePriceLine draws a static horizontal line on this series' scale.
	CreatePriceLine(opts PriceLineOptions) (PriceLine, error)
}

// Surface is the chart region the engine renders into. Implementations are
// not required to be safe for concurrent use; the engine is single-writer.
type Surface interface {
	// AddCandlestickSeries creates the price series on pane 0.
	AddCandlestickSeries() (CandlestickSeries, error)
	// AddLineSeries creates a plotted line in the pane named by opts.Pane,
	// creating the pane if it does not exist yet.
	AddLineSeries(opts LineSeriesOptions) (LineSeries, error)
	// SetPaneStretch sets the relative vertical weight of a pane.
	SetPaneStretch(pane int, weight float64) error
	// FitContent adjusts the visible time range to the loaded data.
	FitContent()
}
