package chart

import (
	"sync"

	"github.com/rxtech-lab/argo-chart/internal/types"
	"github.com/rxtech-lab/argo-chart/pkg/errors"
)

// MemorySurface is an in-memory Surface implementation. It keeps every
// series, marker set, reference line and pane weight it was handed, so tests
// and headless embedders can inspect exactly what a renderer would have drawn.
type MemorySurface struct {
	mu          sync.RWMutex
	candles     *MemoryCandleSeries
	lines       []*MemoryLineSeries
	paneStretch map[int]float64
	fitCalls    int
}

// NewMemorySurface creates an empty in-memory surface.
func NewMemorySurface() *MemorySurface {
	return &MemorySurface{
		candles:     nil,
		lines:       nil,
		paneStretch: make(map[int]float64),
		fitCalls:    0,
	}
}

// AddCandlestickSeries implements Surface. At most one candlestick series
// can exist per surface.
func (s *MemorySurface) AddCandlestickSeries() (CandlestickSeries, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.candles != nil {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "candlestick series already exists")
	}

	s.candles = &MemoryCandleSeries{} //nolint:exhaustruct // zero value is an empty series

	return s.candles, nil
}

// AddLineSeries implements Surface.
func (s *MemorySurface) AddLineSeries(opts LineSeriesOptions) (LineSeries, error) {
	if opts.Pane < 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "invalid pane index %d", opts.Pane)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	line := &MemoryLineSeries{opts: opts} //nolint:exhaustruct // zero value is an empty series
	s.lines = append(s.lines, line)

	return line, nil
}

// SetPaneStretch implements Surface.
func (s *MemorySurface) SetPaneStretch(pane int, weight float64) error {
	if pane < 0 || weight <= 0 {
		return errors.Newf(errors.ErrCodeInvalidParameter, "invalid pane stretch pane=%d weight=%f", pane, weight)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.paneStretch[pane] = weight

	return nil
}

// FitContent implements Surface.
func (s *MemorySurface) FitContent() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fitCalls++
}

// CandleSeries returns the candlestick series, or nil if none was created.
func (s *MemorySurface) CandleSeries() *MemoryCandleSeries {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.candles
}

// LineSeriesByTitle returns the first line series created with the given title.
func (s *MemorySurface) LineSeriesByTitle(title string) *MemoryLineSeries {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, line := range s.lines {
		if line.opts.Title == title {
			return line
		}
	}

	return nil
}

// LineCount returns the number of line series on the surface.
func (s *MemorySurface) LineCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.lines)
}

// PaneStretch returns the stretch weight recorded for the given pane.
func (s *MemorySurface) PaneStretch(pane int) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.paneStretch[pane]
}

// FitCount returns how many times FitContent was called.
func (s *MemorySurface) FitCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.fitCalls
}

// memoryPriceLine is the opaque handle returned for reference lines.
type memoryPriceLine struct {
	opts PriceLineOptions
}

// Options implements PriceLine.
func (l *memoryPriceLine) Options() PriceLineOptions {
	return l.opts
}

// MemoryCandleSeries is the in-memory candlestick series.
type MemoryCandleSeries struct {
	mu         sync.RWMutex
	data       []types.Candle
	markers    []Marker
	priceLines []*memoryPriceLine
}

// SetData implements CandlestickSeries.
func (c *MemoryCandleSeries) SetData(candles []types.Candle) error {
	for i := 1; i < len(candles); i++ {
		if candles[i].Time <= candles[i-1].Time {
			return errors.Newf(errors.ErrCodeNonMonotonicTime,
				"candle times must strictly increase: %d then %d", candles[i-1].Time, candles[i].Time)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = make([]types.Candle, len(candles))
	copy(c.data, candles)

	return nil
}

// Update implements CandlestickSeries.
func (c *MemoryCandleSeries) Update(candle types.Candle) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n := len(c.data); n > 0 {
		last := c.data[n-1].Time

		switch {
		case candle.Time == last:
			c.data[n-1] = candle

			return nil
		case candle.Time < last:
			return errors.Newf(errors.ErrCodeNonMonotonicTime,
				"update time %d is older than last bar %d", candle.Time, last)
		}
	}

	c.data = append(c.data, candle)

	return nil
}

// SetMarkers implements CandlestickSeries.
func (c *MemoryCandleSeries) SetMarkers(markers []Marker) error {
	for i := 1; i < len(markers); i++ {
		if markers[i].Time < markers[i-1].Time {
			return errors.New(errors.ErrCodeInvalidParameter, "markers must be sorted ascending by time")
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.markers = make([]Marker, len(markers))
	copy(c.markers, markers)

	return nil
}

// CreatePriceLine implements CandlestickSeries.
func (c *MemoryCandleSeries) CreatePriceLine(opts PriceLineOptions) (PriceLine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	line := &memoryPriceLine{opts: opts}
	c.priceLines = append(c.priceLines, line)

	return line, nil
}

// RemovePriceLine implements CandlestickSeries.
func (c *MemoryCandleSeries) RemovePriceLine(line PriceLine) error {
	handle, ok := line.(*memoryPriceLine)
	if !ok {
		return errors.New(errors.ErrCodeLineRemoveFailed, "price line was not created by this series")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, existing := range c.priceLines {
		if existing == handle {
			c.priceLines = append(c.priceLines[:i], c.priceLines[i+1:]...)

			return nil
		}
	}

	return errors.New(errors.ErrCodeLineRemoveFailed, "price line not found")
}

// Data returns a copy of the series data.
func (c *MemoryCandleSeries) Data() []types.Candle {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]types.Candle, len(c.data))
	copy(out, c.data)

	return out
}

// Len returns the number of bars in the series.
func (c *MemoryCandleSeries) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.data)
}

// Markers returns a copy of the current marker set.
func (c *MemoryCandleSeries) Markers() []Marker {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Marker, len(c.markers))
	copy(out, c.markers)

	return out
}

// PriceLines returns the options of all currently drawn reference lines.
func (c *MemoryCandleSeries) PriceLines() []PriceLineOptions {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]PriceLineOptions, 0, len(c.priceLines))
	for _, line := range c.priceLines {
		out = append(out, line.opts)
	}

	return out
}

// MemoryLineSeries is the in-memory plotted line series.
type MemoryLineSeries struct {
	mu         sync.RWMutex
	opts       LineSeriesOptions
	data       []LinePoint
	priceLines []*memoryPriceLine
}

// SetData implements LineSeries.
func (l *MemoryLineSeries) SetData(points []LinePoint) error {
	for i := 1; i < len(points); i++ {
		if points[i].Time <= points[i-1].Time {
			return errors.Newf(errors.ErrCodeNonMonotonicTime,
				"line times must strictly increase: %d then %d", points[i-1].Time, points[i].Time)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.data = make([]LinePoint, len(points))
	copy(l.data, points)

	return nil
}

// Update implements LineSeries.
func (l *MemoryLineSeries) Update(point LinePoint) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n := len(l.data); n > 0 {
		last := l.data[n-1].Time

		switch {
		case point.Time == last:
			l.data[n-1] = point

			return nil
		case point.Time < last:
			return errors.Newf(errors.ErrCodeNonMonotonicTime,
				"update time %d is older than last point %d", point.Time, last)
		}
	}

	l.data = append(l.data, point)

	return nil
}

// CreatePriceLine implements LineSeries.
func (l *MemoryLineSeries) CreatePriceLine(opts PriceLineOptions) (PriceLine, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	line := &memoryPriceLine{opts: opts}
	l.priceLines = append(l.priceLines, line)

	return line, nil
}

// Options returns the options the line series was created with.
func (l *MemoryLineSeries) Options() LineSeriesOptions {
	return l.opts
}

// Data returns a copy of the line data.
func (l *MemoryLineSeries) Data() []LinePoint {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]LinePoint, len(l.data))
	copy(out, l.data)

	return out
}

// Len returns the number of points in the line.
func (l *MemoryLineSeries) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.data)
}

// PriceLines returns the options of all static lines drawn on this series.
func (l *MemoryLineSeries) PriceLines() []PriceLineOptions {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]PriceLineOptions, 0, len(l.priceLines))
	for _, line := range l.priceLines {
		out = append(out, line.opts)
	}

	return out
}
