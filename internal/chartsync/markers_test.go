package chartsync

import (
	"testing"

	"github.com/rxtech-lab/argo-chart/internal/logger"
	"github.com/rxtech-lab/argo-chart/internal/types"
	"github.com/rxtech-lab/argo-chart/pkg/chart"
	"github.com/stretchr/testify/suite"
)

type MarkerManagerTestSuite struct {
	suite.Suite
	series  *chart.MemoryCandleSeries
	manager *MarkerManager
}

func TestMarkerManagerSuite(t *testing.T) {
	suite.Run(t, new(MarkerManagerTestSuite))
}

func (suite *MarkerManagerTestSuite) SetupTest() {
	log, err := logger.NewLogger()
	suite.Require().NoError(err)

	surface := chart.NewMemorySurface()
	series, err := surface.AddCandlestickSeries()
	suite.Require().NoError(err)

	suite.series = surface.CandleSeries()
	suite.manager = NewMarkerManager(series, log)
}

func (suite *MarkerManagerTestSuite) TestEntryAndExitMapping() {
	markers := []types.TradeMarker{
		{Time: 200, Kind: types.MarkerKindExit, Direction: types.TradeDirectionClose, Price: 12, Label: "closed"},
		{Time: 100, Kind: types.MarkerKindEntry, Direction: types.TradeDirectionBuy, Price: 10, Label: "opened"},
	}

	suite.Require().NoError(suite.manager.Apply(markers))

	rendered := suite.series.Markers()
	suite.Require().Len(rendered, 2)

	// Sorted ascending by time regardless of input order.
	suite.Equal(int64(100), rendered[0].Time)
	suite.Equal(chart.MarkerBelowBar, rendered[0].Position)
	suite.Equal(chart.MarkerArrowUp, rendered[0].Shape)
	suite.Equal(chart.ColorGreen, rendered[0].Color)
	suite.Equal("opened", rendered[0].Text)

	suite.Equal(int64(200), rendered[1].Time)
	suite.Equal(chart.MarkerAboveBar, rendered[1].Position)
	suite.Equal(chart.MarkerArrowDown, rendered[1].Shape)
	suite.Equal(chart.ColorRed, rendered[1].Color)
}

func (suite *MarkerManagerTestSuite) TestDefaultLabel() {
	markers := []types.TradeMarker{
		{Time: 100, Kind: types.MarkerKindEntry, Direction: types.TradeDirectionSell, Price: 1.25},
	}

	suite.Require().NoError(suite.manager.Apply(markers))

	rendered := suite.series.Markers()
	suite.Require().Len(rendered, 1)
	suite.Equal("entry sell @ 1.25", rendered[0].Text)
}

func (suite *MarkerManagerTestSuite) TestApplyReplacesFullSet() {
	first := []types.TradeMarker{
		{Time: 100, Kind: types.MarkerKindEntry, Direction: types.TradeDirectionBuy, Price: 10},
		{Time: 200, Kind: types.MarkerKindExit, Direction: types.TradeDirectionClose, Price: 12},
	}
	suite.Require().NoError(suite.manager.Apply(first))

	second := []types.TradeMarker{
		{Time: 300, Kind: types.MarkerKindEntry, Direction: types.TradeDirectionBuy, Price: 13},
	}
	suite.Require().NoError(suite.manager.Apply(second))

	rendered := suite.series.Markers()
	suite.Require().Len(rendered, 1)
	suite.Equal(int64(300), rendered[0].Time)
}

func (suite *MarkerManagerTestSuite) TestApplyIsIdempotent() {
	markers := []types.TradeMarker{
		{Time: 100, Kind: types.MarkerKindEntry, Direction: types.TradeDirectionBuy, Price: 10},
	}

	suite.Require().NoError(suite.manager.Apply(markers))
	suite.Require().NoError(suite.manager.Apply(markers))

	suite.Len(suite.series.Markers(), 1)
}

func (suite *MarkerManagerTestSuite) TestEmptySetClears() {
	markers := []types.TradeMarker{
		{Time: 100, Kind: types.MarkerKindEntry, Direction: types.TradeDirectionBuy, Price: 10},
	}
	suite.Require().NoError(suite.manager.Apply(markers))

	suite.Require().NoError(suite.manager.Apply(nil))
	suite.Empty(suite.series.Markers())
}
