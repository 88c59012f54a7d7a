package types

import "github.com/moznion/go-optional"

// PositionSide is the direction of an open position.
type PositionSide string

const (
	PositionSideBuy  PositionSide = "buy"
	PositionSideSell PositionSide = "sell"
)

// Position is one open position as reported by the trading backend.
type Position struct {
	// Ticket is the backend's unique position identifier.
	Ticket int64
	// Symbol is the instrument the position is open on.
	Symbol string
	// Side is the position direction.
	Side PositionSide
	// Volume is the position size in lots.
	Volume float64
	// OpenPrice is the entry price.
	OpenPrice float64
	// CurrentPrice is the latest quoted price.
	CurrentPrice float64
	// Profit is the floating profit in account currency.
	Profit float64
	// StopLoss is the stop level. None when no stop is set.
	StopLoss optional.Option[float64]
	// TakeProfit is the target level. None when no target is set.
	TakeProfit optional.Option[float64]
	// OpenTime is when the position was opened, in unix seconds.
	OpenTime int64
}

// AccountSnapshot mirrors the account fields the feed carries.
type AccountSnapshot struct {
	Balance    float64 `json:"balance"`
	Equity     float64 `json:"equity"`
	Margin     float64 `json:"margin"`
	FreeMargin float64 `json:"free_margin"`
	Leverage   int     `json:"leverage"`
	Currency   string  `json:"currency"`
	Profit     float64 `json:"profit"`
}

// AlgoStatus is the state of the server-side trading algorithm.
type AlgoStatus struct {
	Running bool   `json:"running"`
	Symbol  string `json:"symbol"`
	Message string `json:"message"`
}
