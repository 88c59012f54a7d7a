package stream

import (
	"encoding/json"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-chart/internal/logger"
	"github.com/rxtech-lab/argo-chart/internal/types"
	"github.com/rxtech-lab/argo-chart/pkg/errors"
	"github.com/valyala/fastjson"
	"go.uber.org/zap"
)

// FrameType is the discriminant carried in the "type" field of every
// inbound frame.
type FrameType string

const (
	FrameTypePrice     FrameType = "price"
	FrameTypePositions FrameType = "positions"
	FrameTypeAccount   FrameType = "account"
	FrameTypeCandle    FrameType = "candle"
	FrameTypeAlgo      FrameType = "algo"
	FrameTypeError     FrameType = "error"
)

// PriceUpdate is one quoted price tick.
type PriceUpdate struct {
	Symbol string  `json:"symbol"`
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
	Last   float64 `json:"last"`
	Time   int64   `json:"time"`
}

// CandleUpdate is one live candle for one symbol. The candle fields are flat
// in the frame next to the discriminant and symbol.
type CandleUpdate struct {
	Symbol string `json:"symbol"`
	types.Candle
}

// positionFrame is the wire shape of one open position. The backend reports
// unset stop/target levels as 0 or null; both normalize to None.
type positionFrame struct {
	Ticket       int64    `json:"ticket"`
	Symbol       string   `json:"symbol"`
	Type         string   `json:"type"`
	Volume       float64  `json:"volume"`
	OpenPrice    float64  `json:"open_price"`
	CurrentPrice float64  `json:"current_price"`
	Profit       float64  `json:"profit"`
	StopLoss     *float64 `json:"stop_loss"`
	TakeProfit   *float64 `json:"take_profit"`
	OpenTime     int64    `json:"open_time"`
}

func (f positionFrame) toPosition() types.Position {
	return types.Position{
		Ticket:       f.Ticket,
		Symbol:       f.Symbol,
		Side:         types.PositionSide(f.Type),
		Volume:       f.Volume,
		OpenPrice:    f.OpenPrice,
		CurrentPrice: f.CurrentPrice,
		Profit:       f.Profit,
		StopLoss:     optionalLevel(f.StopLoss),
		TakeProfit:   optionalLevel(f.TakeProfit),
		OpenTime:     f.OpenTime,
	}
}

func optionalLevel(v *float64) optional.Option[float64] {
	if v == nil || *v == 0 {
		return optional.None[float64]()
	}

	return optional.Some(*v)
}

// Handlers is the typed callback surface of the router. Each frame type has
// exactly one consumer; unset handlers drop their frames.
type Handlers struct {
	OnPrice      func(update PriceUpdate)
	OnPositions  func(positions []types.Position)
	OnAccount    func(account types.AccountSnapshot)
	OnCandle     func(update CandleUpdate)
	OnAlgoStatus func(status types.AlgoStatus)
	// OnServerError receives the message of an explicit server error notice.
	OnServerError func(message string)
	// OnDecodeError receives malformed-payload errors. The connection state
	// is not affected; the frame is dropped after this callback.
	OnDecodeError func(err error)
}

// Router decodes inbound frames and dispatches each to its single registered
// consumer. Unrecognized discriminants are silently ignored so newer backends
// can add frame types without breaking older clients.
//
// Router is not safe for concurrent use; frames for one session are routed in
// delivery order by a single goroutine.
type Router struct {
	handlers Handlers
	logger   *logger.Logger
	parser   fastjson.Parser
}

// NewRouter creates a router dispatching to the given handlers.
func NewRouter(handlers Handlers, log *logger.Logger) *Router {
	return &Router{
		handlers: handlers,
		logger:   log,
		parser:   fastjson.Parser{},
	}
}

// Route classifies one raw frame by its "type" field and hands it to the
// matching handler.
func (r *Router) Route(frame []byte) {
	value, err := r.parser.ParseBytes(frame)
	if err != nil {
		r.decodeError(errors.Wrap(errors.ErrCodeFrameDecodeFailed, "malformed frame", err))

		return
	}

	frameType := FrameType(value.GetStringBytes("type"))
	r.dispatch(frameType, frame)
}

// RouteNamed routes a payload whose discriminant arrived out of band, as the
// server-push transport delivers it (named channel events without a "type"
// field in the payload).
func (r *Router) RouteNamed(channel string, payload []byte) {
	frameType, ok := channelFrameType(channel)
	if !ok {
		r.logger.Debug("ignoring unknown stream channel", zap.String("channel", channel))

		return
	}

	r.dispatch(frameType, payload)
}

// channelFrameType maps server-push channel names onto frame types.
func channelFrameType(channel string) (FrameType, bool) {
	switch channel {
	case "price":
		return FrameTypePrice, true
	case "account":
		return FrameTypeAccount, true
	case "algo_status":
		return FrameTypeAlgo, true
	default:
		return "", false
	}
}

func (r *Router) dispatch(frameType FrameType, frame []byte) {
	switch frameType {
	case FrameTypePrice:
		var update PriceUpdate
		if !r.decode(frameType, frame, &update) {
			return
		}

		if r.handlers.OnPrice != nil {
			r.handlers.OnPrice(update)
		}
	case FrameTypePositions:
		var payload struct {
			Positions []positionFrame `json:"positions"`
		}

		if !r.decode(frameType, frame, &payload) {
			return
		}

		positions := make([]types.Position, 0, len(payload.Positions))
		for _, p := range payload.Positions {
			positions = append(positions, p.toPosition())
		}

		if r.handlers.OnPositions != nil {
			r.handlers.OnPositions(positions)
		}
	case FrameTypeAccount:
		var account types.AccountSnapshot
		if !r.decode(frameType, frame, &account) {
			return
		}

		if r.handlers.OnAccount != nil {
			r.handlers.OnAccount(account)
		}
	case FrameTypeCandle:
		var update CandleUpdate
		if !r.decode(frameType, frame, &update) {
			return
		}

		if r.handlers.OnCandle != nil {
			r.handlers.OnCandle(update)
		}
	case FrameTypeAlgo:
		var status types.AlgoStatus
		if !r.decode(frameType, frame, &status) {
			return
		}

		if r.handlers.OnAlgoStatus != nil {
			r.handlers.OnAlgoStatus(status)
		}
	case FrameTypeError:
		var notice struct {
			Message string `json:"message"`
		}

		if !r.decode(frameType, frame, &notice) {
			return
		}

		if r.handlers.OnServerError != nil {
			r.handlers.OnServerError(notice.Message)
		}
	default:
		// Forward-compatibility: newer backends may send frame types this
		// client does not know yet.
		r.logger.Debug("ignoring unknown frame type", zap.String("type", string(frameType)))
	}
}

// decode unmarshals a classified frame, reporting failures to the decode
// error handler. Returns false when the frame must be dropped.
func (r *Router) decode(frameType FrameType, frame []byte, target any) bool {
	if err := json.Unmarshal(frame, target); err != nil {
		r.decodeError(errors.Wrapf(errors.ErrCodeFrameDecodeFailed, err, "failed to decode %q frame", frameType))

		return false
	}

	return true
}

func (r *Router) decodeError(err error) {
	r.logger.Warn("dropping malformed frame", zap.Error(err))

	if r.handlers.OnDecodeError != nil {
		r.handlers.OnDecodeError(err)
	}
}
