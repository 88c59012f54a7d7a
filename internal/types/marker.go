package types

// MarkerKind classifies a discrete trade event.
type MarkerKind string

const (
	MarkerKindEntry MarkerKind = "entry"
	MarkerKindExit  MarkerKind = "exit"
)

// TradeDirection is the direction of the trade event.
type TradeDirection string

const (
	TradeDirectionBuy   TradeDirection = "buy"
	TradeDirectionSell  TradeDirection = "sell"
	TradeDirectionClose TradeDirection = "close"
)

// TradeMarker is a discrete entry/exit event rendered on the price series.
type TradeMarker struct {
	// Time is the bar time of the event in unix seconds.
	Time int64 `json:"time" validate:"required"`
	// Kind is the event kind.
	Kind MarkerKind `json:"kind" validate:"required,oneof=entry exit"`
	// Direction is the trade direction.
	Direction TradeDirection `json:"direction" validate:"required,oneof=buy sell close"`
	// Price is the execution price of the event.
	Price float64 `json:"price"`
	// Label is the text rendered next to the marker.
	Label string `json:"label"`
}
