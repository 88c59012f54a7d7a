package chart

import (
	"testing"

	"github.com/rxtech-lab/argo-chart/internal/types"
	"github.com/rxtech-lab/argo-chart/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type MemorySurfaceTestSuite struct {
	suite.Suite
	surface *MemorySurface
}

func TestMemorySurfaceSuite(t *testing.T) {
	suite.Run(t, new(MemorySurfaceTestSuite))
}

func (suite *MemorySurfaceTestSuite) SetupTest() {
	suite.surface = NewMemorySurface()
}

func (suite *MemorySurfaceTestSuite) TestAddCandlestickSeriesOnce() {
	series, err := suite.surface.AddCandlestickSeries()
	suite.Require().NoError(err)
	suite.Require().NotNil(series)

	_, err = suite.surface.AddCandlestickSeries()
	suite.Error(err)
}

func (suite *MemorySurfaceTestSuite) TestSetDataRejectsUnorderedTimes() {
	series, err := suite.surface.AddCandlestickSeries()
	suite.Require().NoError(err)

	err = series.SetData([]types.Candle{
		{Time: 200},
		{Time: 100},
	})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeNonMonotonicTime))
}

func (suite *MemorySurfaceTestSuite) TestUpdateUpsertsByTime() {
	series, err := suite.surface.AddCandlestickSeries()
	suite.Require().NoError(err)

	suite.Require().NoError(series.SetData([]types.Candle{
		{Time: 100, Close: 1.0},
		{Time: 160, Close: 1.1},
	}))

	// Same time replaces the forming bar.
	suite.Require().NoError(series.Update(types.Candle{Time: 160, Close: 1.15}))

	memSeries := suite.surface.CandleSeries()
	suite.Equal(2, memSeries.Len())
	suite.Equal(1.15, memSeries.Data()[1].Close)

	// Greater time appends.
	suite.Require().NoError(series.Update(types.Candle{Time: 220, Close: 1.2}))
	suite.Equal(3, memSeries.Len())

	// Older time is rejected.
	err = series.Update(types.Candle{Time: 100, Close: 0.9})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeNonMonotonicTime))
}

func (suite *MemorySurfaceTestSuite) TestSetMarkersRequiresSortedSet() {
	series, err := suite.surface.AddCandlestickSeries()
	suite.Require().NoError(err)

	err = series.SetMarkers([]Marker{
		{Time: 200, Position: MarkerAboveBar, Shape: MarkerArrowDown, Color: ColorRed},
		{Time: 100, Position: MarkerBelowBar, Shape: MarkerArrowUp, Color: ColorGreen},
	})
	suite.Error(err)

	suite.Require().NoError(series.SetMarkers([]Marker{
		{Time: 100, Position: MarkerBelowBar, Shape: MarkerArrowUp, Color: ColorGreen},
		{Time: 200, Position: MarkerAboveBar, Shape: MarkerArrowDown, Color: ColorRed},
	}))
	suite.Len(suite.surface.CandleSeries().Markers(), 2)

	// Empty set clears all markers.
	suite.Require().NoError(series.SetMarkers(nil))
	suite.Empty(suite.surface.CandleSeries().Markers())
}

func (suite *MemorySurfaceTestSuite) TestPriceLineLifecycle() {
	series, err := suite.surface.AddCandlestickSeries()
	suite.Require().NoError(err)

	line, err := series.CreatePriceLine(PriceLineOptions{
		Price: 1.1000,
		Color: ColorBlue,
		Style: LineStyleSolid,
		Title: "entry",
	})
	suite.Require().NoError(err)
	suite.Len(suite.surface.CandleSeries().PriceLines(), 1)

	suite.Require().NoError(series.RemovePriceLine(line))
	suite.Empty(suite.surface.CandleSeries().PriceLines())

	// Removing an already removed line fails with a line removal code.
	err = series.RemovePriceLine(line)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeLineRemoveFailed))
}

func (suite *MemorySurfaceTestSuite) TestLineSeriesUpsert() {
	line, err := suite.surface.AddLineSeries(LineSeriesOptions{Title: "EMA_20", Color: ColorOrange, Pane: 0})
	suite.Require().NoError(err)

	suite.Require().NoError(line.SetData([]LinePoint{
		{Time: 100, Value: 1.0},
		{Time: 220, Value: 1.2},
	}))

	suite.Require().NoError(line.Update(LinePoint{Time: 220, Value: 1.25}))

	memLine := suite.surface.LineSeriesByTitle("EMA_20")
	suite.Require().NotNil(memLine)
	suite.Equal(2, memLine.Len())
	suite.Equal(1.25, memLine.Data()[1].Value)

	suite.Require().NoError(line.Update(LinePoint{Time: 280, Value: 1.3}))
	suite.Equal(3, memLine.Len())
}

func (suite *MemorySurfaceTestSuite) TestPaneStretchAndFit() {
	suite.Require().NoError(suite.surface.SetPaneStretch(0, 3))
	suite.Require().NoError(suite.surface.SetPaneStretch(1, 1))
	suite.Equal(3.0, suite.surface.PaneStretch(0))
	suite.Equal(1.0, suite.surface.PaneStretch(1))

	suite.Error(suite.surface.SetPaneStretch(0, 0))
	suite.Error(suite.surface.SetPaneStretch(-1, 1))

	suite.surface.FitContent()
	suite.Equal(1, suite.surface.FitCount())
}
