package stream

import (
	"testing"

	"github.com/rxtech-lab/argo-chart/internal/logger"
	"github.com/rxtech-lab/argo-chart/internal/types"
	"github.com/rxtech-lab/argo-chart/pkg/errors"
	"github.com/stretchr/testify/suite"
)

// recordedEvents collects everything the router dispatched during one test.
type recordedEvents struct {
	prices       []PriceUpdate
	positions    [][]types.Position
	accounts     []types.AccountSnapshot
	candles      []CandleUpdate
	algoStatuses []types.AlgoStatus
	serverErrors []string
	decodeErrors []error
}

type RouterTestSuite struct {
	suite.Suite
	router   *Router
	recorded *recordedEvents
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (suite *RouterTestSuite) SetupTest() {
	log, err := logger.NewLogger()
	suite.Require().NoError(err)

	recorded := &recordedEvents{}
	suite.recorded = recorded

	suite.router = NewRouter(Handlers{
		OnPrice: func(update PriceUpdate) {
			recorded.prices = append(recorded.prices, update)
		},
		OnPositions: func(positions []types.Position) {
			recorded.positions = append(recorded.positions, positions)
		},
		OnAccount: func(account types.AccountSnapshot) {
			recorded.accounts = append(recorded.accounts, account)
		},
		OnCandle: func(update CandleUpdate) {
			recorded.candles = append(recorded.candles, update)
		},
		OnAlgoStatus: func(status types.AlgoStatus) {
			recorded.algoStatuses = append(recorded.algoStatuses, status)
		},
		OnServerError: func(message string) {
			recorded.serverErrors = append(recorded.serverErrors, message)
		},
		OnDecodeError: func(err error) {
			recorded.decodeErrors = append(recorded.decodeErrors, err)
		},
	}, log)
}

// totalDispatched counts every handler invocation except decode errors.
func (r *recordedEvents) totalDispatched() int {
	return len(r.prices) + len(r.positions) + len(r.accounts) +
		len(r.candles) + len(r.algoStatuses) + len(r.serverErrors)
}

func (suite *RouterTestSuite) TestRoutePrice() {
	suite.router.Route([]byte(`{"type":"price","symbol":"EURUSD","bid":1.1000,"ask":1.1002,"last":1.1001,"time":1717200000}`))

	suite.Require().Len(suite.recorded.prices, 1)
	suite.Equal("EURUSD", suite.recorded.prices[0].Symbol)
	suite.Equal(1.1002, suite.recorded.prices[0].Ask)
	suite.Equal(1, suite.recorded.totalDispatched(), "exactly one handler must fire per frame")
}

func (suite *RouterTestSuite) TestRoutePositionsNormalizesLevels() {
	suite.router.Route([]byte(`{"type":"positions","positions":[
		{"ticket":42,"symbol":"EURUSD","type":"buy","volume":0.5,
		 "open_price":1.1000,"current_price":1.1010,"profit":5.0,
		 "stop_loss":1.0950,"take_profit":null,"open_time":1717200000},
		{"ticket":43,"symbol":"GBPUSD","type":"sell","volume":0.1,
		 "open_price":1.2500,"current_price":1.2490,"profit":1.0,
		 "stop_loss":0,"take_profit":1.2400,"open_time":1717201000}
	]}`))

	suite.Require().Len(suite.recorded.positions, 1)
	positions := suite.recorded.positions[0]
	suite.Require().Len(positions, 2)

	first := positions[0]
	suite.Equal(int64(42), first.Ticket)
	suite.Equal(types.PositionSideBuy, first.Side)
	suite.True(first.StopLoss.IsSome())
	suite.Equal(1.0950, first.StopLoss.Unwrap())
	suite.True(first.TakeProfit.IsNone(), "null take profit must normalize to None")

	second := positions[1]
	suite.True(second.StopLoss.IsNone(), "zero stop loss must normalize to None")
	suite.True(second.TakeProfit.IsSome())
}

func (suite *RouterTestSuite) TestRouteAccount() {
	suite.router.Route([]byte(`{"type":"account","balance":10000,"equity":10050,"margin":200,"free_margin":9850,"leverage":100,"currency":"USD","profit":50}`))

	suite.Require().Len(suite.recorded.accounts, 1)
	suite.Equal(10050.0, suite.recorded.accounts[0].Equity)
	suite.Equal("USD", suite.recorded.accounts[0].Currency)
}

func (suite *RouterTestSuite) TestRouteCandleWithIndicatorGaps() {
	suite.router.Route([]byte(`{"type":"candle","symbol":"EURUSD",
		"time":1717200000,"open":1.1,"high":1.102,"low":1.099,"close":1.101,"volume":321,
		"indicators":{"EMA_20":1.1005,"EMA_50":null,"RSI_14":58.3}}`))

	suite.Require().Len(suite.recorded.candles, 1)
	candle := suite.recorded.candles[0]
	suite.Equal("EURUSD", candle.Symbol)
	suite.Equal(int64(1717200000), candle.Time)

	_, ok := candle.Indicator("EMA_50")
	suite.False(ok, "null indicator values stay gaps")

	v, ok := candle.Indicator("RSI_14")
	suite.True(ok)
	suite.Equal(58.3, v)
}

func (suite *RouterTestSuite) TestRouteAlgoStatus() {
	suite.router.Route([]byte(`{"type":"algo","running":true,"symbol":"EURUSD","message":"scalper active"}`))

	suite.Require().Len(suite.recorded.algoStatuses, 1)
	suite.True(suite.recorded.algoStatuses[0].Running)
	suite.Equal("scalper active", suite.recorded.algoStatuses[0].Message)
}

func (suite *RouterTestSuite) TestRouteServerErrorNotice() {
	suite.router.Route([]byte(`{"type":"error","message":"symbol not found"}`))

	suite.Require().Len(suite.recorded.serverErrors, 1)
	suite.Equal("symbol not found", suite.recorded.serverErrors[0])
}

func (suite *RouterTestSuite) TestUnknownTypeIsIgnored() {
	suite.router.Route([]byte(`{"type":"heartbeat","sequence":7}`))

	suite.Zero(suite.recorded.totalDispatched())
	suite.Empty(suite.recorded.decodeErrors)
}

func (suite *RouterTestSuite) TestMalformedFrameReachesOnlyDecodeHandler() {
	suite.router.Route([]byte(`{"type":"price","bid":`))

	suite.Zero(suite.recorded.totalDispatched())
	suite.Require().Len(suite.recorded.decodeErrors, 1)
	suite.True(errors.HasCode(suite.recorded.decodeErrors[0], errors.ErrCodeFrameDecodeFailed))
}

func (suite *RouterTestSuite) TestClassifiedFrameWithBadPayloadIsDropped() {
	suite.router.Route([]byte(`{"type":"positions","positions":"not-an-array"}`))

	suite.Zero(suite.recorded.totalDispatched())
	suite.Require().Len(suite.recorded.decodeErrors, 1)
}

func (suite *RouterTestSuite) TestRouteNamedChannels() {
	suite.router.RouteNamed("price", []byte(`{"symbol":"EURUSD","bid":1.1,"ask":1.1002,"last":1.1001,"time":1717200000}`))
	suite.router.RouteNamed("account", []byte(`{"balance":500,"equity":510}`))
	suite.router.RouteNamed("algo_status", []byte(`{"running":false,"message":"stopped"}`))
	suite.router.RouteNamed("unknown_channel", []byte(`{}`))

	suite.Len(suite.recorded.prices, 1)
	suite.Len(suite.recorded.accounts, 1)
	suite.Len(suite.recorded.algoStatuses, 1)
	suite.Equal(3, suite.recorded.totalDispatched())
}

func (suite *RouterTestSuite) TestNilHandlersDropFramesSilently() {
	log, err := logger.NewLogger()
	suite.Require().NoError(err)

	router := NewRouter(Handlers{}, log) //nolint:exhaustruct // deliberately empty

	// Must not panic.
	router.Route([]byte(`{"type":"price","symbol":"EURUSD"}`))
	router.Route([]byte(`not json`))
}
