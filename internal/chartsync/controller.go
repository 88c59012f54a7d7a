package chartsync

import (
	"sync"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-chart/internal/logger"
	"github.com/rxtech-lab/argo-chart/internal/stream"
	"github.com/rxtech-lab/argo-chart/internal/types"
	"github.com/rxtech-lab/argo-chart/pkg/chart"
	"github.com/rxtech-lab/argo-chart/pkg/errors"
	"go.uber.org/zap"
)

// Controller composes the three layer managers into one consumer of the feed.
// It performs the bulk load, exposes the router handlers, keeps the latest
// account/algo snapshots, and guards against frames from a previous
// subscription arriving after a symbol switch.
type Controller struct {
	log *logger.Logger

	mu        sync.Mutex
	symbol    string
	series    *SeriesManager
	markers   *MarkerManager
	positions *PositionLineManager

	account   optional.Option[types.AccountSnapshot]
	algo      optional.Option[types.AlgoStatus]
	lastPrice optional.Option[stream.PriceUpdate]
	lastError error

	// staleDropped counts candle frames dropped by the resubscription guard.
	staleDropped int
}

// NewController creates a controller for one mounted chart session.
func NewController(surface chart.Surface, specs []OverlaySpec, oscillatorName, symbol string, log *logger.Logger) *Controller {
	return &Controller{
		log:          log,
		symbol:       symbol,
		series:       NewSeriesManager(surface, specs, oscillatorName, log),
		markers:      nil,
		positions:    nil,
		account:      optional.None[types.AccountSnapshot](),
		algo:         optional.None[types.AlgoStatus](),
		lastPrice:    optional.None[stream.PriceUpdate](),
		lastError:    nil,
		staleDropped: 0,
	}
}

// Load performs the bulk historical load and brings up the marker and
// position layers on the freshly created price series.
func (c *Controller) Load(candles []types.Candle) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.series.Load(candles); err != nil {
		return err
	}

	c.markers = NewMarkerManager(c.series.candles, c.log)
	c.positions = NewPositionLineManager(c.series.candles, c.log)

	return nil
}

// Handlers returns the typed callback surface to register with the router.
// Each channel has this controller as its single consumer.
func (c *Controller) Handlers() stream.Handlers {
	return stream.Handlers{
		OnPrice:       c.handlePrice,
		OnPositions:   c.handlePositions,
		OnAccount:     c.handleAccount,
		OnCandle:      c.handleCandle,
		OnAlgoStatus:  c.handleAlgoStatus,
		OnServerError: c.handleServerError,
		OnDecodeError: c.handleDecodeError,
	}
}

// SetSymbol switches the subscription the controller accepts candles for.
// Frames for the previous symbol that are still in flight will be dropped.
func (c *Controller) SetSymbol(symbol string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.symbol = symbol
}

// ApplyMarkers replaces the trade marker layer.
func (c *Controller) ApplyMarkers(markers []types.TradeMarker) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.markers == nil {
		return nil
	}

	return c.markers.Apply(markers)
}

// Account returns the latest account snapshot, if one arrived.
func (c *Controller) Account() optional.Option[types.AccountSnapshot] {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.account
}

// AlgoStatus returns the latest algorithm status, if one arrived.
func (c *Controller) AlgoStatus() optional.Option[types.AlgoStatus] {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.algo
}

// LastPrice returns the latest price tick, if one arrived.
func (c *Controller) LastPrice() optional.Option[stream.PriceUpdate] {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastPrice
}

// LastError returns the most recent server error notice as a typed error,
// or nil when the server has not reported one.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastError
}

// StaleDropped returns how many candle frames the resubscription guard dropped.
func (c *Controller) StaleDropped() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.staleDropped
}

func (c *Controller) handlePrice(update stream.PriceUpdate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if update.Symbol != "" && update.Symbol != c.symbol {
		return
	}

	c.lastPrice = optional.Some(update)
}

func (c *Controller) handleCandle(update stream.CandleUpdate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if update.Symbol != "" && update.Symbol != c.symbol {
		c.staleDropped++
		c.log.Debug("dropping candle for stale subscription",
			zap.String("frame_symbol", update.Symbol),
			zap.String("current_symbol", c.symbol),
		)

		return
	}

	if err := c.series.ApplyUpdate(update.Candle); err != nil {
		c.log.Warn("failed to apply candle update", zap.Error(err))
	}
}

func (c *Controller) handlePositions(positions []types.Position) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.positions == nil {
		return
	}

	active := optional.None[types.Position]()

	for _, pos := range positions {
		if pos.Symbol == c.symbol {
			active = optional.Some(pos)

			break
		}
	}

	if err := c.positions.Apply(active); err != nil {
		c.log.Warn("failed to reconcile position lines", zap.Error(err))
	}
}

func (c *Controller) handleAccount(account types.AccountSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.account = optional.Some(account)
}

func (c *Controller) handleAlgoStatus(status types.AlgoStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.algo = optional.Some(status)
}

func (c *Controller) handleServerError(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastError = errors.New(errors.ErrCodeServerError, message)
	c.log.Warn("server reported error", zap.String("message", message))
}

func (c *Controller) handleDecodeError(err error) {
	// Malformed frames are dropped without touching the connection state.
	c.log.Warn("malformed frame dropped", zap.Error(err))
}
