// Package history fetches historical candles from external market data
// vendors for the initial bulk chart load.
package history

import (
	"context"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-chart/internal/types"
	"github.com/rxtech-lab/argo-chart/pkg/errors"
)

// ProviderType selects the market data vendor.
type ProviderType string

const (
	ProviderBinance ProviderType = "binance"
	ProviderPolygon ProviderType = "polygon"
)

// Timeframe is a bar duration in the broker's notation.
type Timeframe string

const (
	Timeframe1m  Timeframe = "1m"
	Timeframe5m  Timeframe = "5m"
	Timeframe15m Timeframe = "15m"
	Timeframe30m Timeframe = "30m"
	Timeframe1h  Timeframe = "1h"
	Timeframe4h  Timeframe = "4h"
	Timeframe1d  Timeframe = "1d"
	Timeframe1w  Timeframe = "1w"
)

// OnFetchProgress reports download progress for long fetches.
type OnFetchProgress = func(current float64, total float64, message string)

// Provider fetches the most recent bars for one symbol and timeframe,
// ordered by strictly increasing time.
type Provider interface {
	Fetch(ctx context.Context, symbol string, timeframe Timeframe, bars int) ([]types.Candle, error)
}

// NewProvider creates a provider for the given vendor. Polygon requires an
// API key; Binance klines are public.
func NewProvider(providerType ProviderType, apiKey string) (Provider, error) {
	switch providerType {
	case ProviderBinance:
		return NewBinanceProvider(), nil
	case ProviderPolygon:
		return NewPolygonProvider(apiKey)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported history provider: %s", providerType)
	}
}

// Duration returns the wall-clock length of one bar.
func (t Timeframe) Duration() (time.Duration, error) {
	switch t {
	case Timeframe1m:
		return time.Minute, nil
	case Timeframe5m:
		return 5 * time.Minute, nil
	case Timeframe15m:
		return 15 * time.Minute, nil
	case Timeframe30m:
		return 30 * time.Minute, nil
	case Timeframe1h:
		return time.Hour, nil
	case Timeframe4h:
		return 4 * time.Hour, nil
	case Timeframe1d:
		return 24 * time.Hour, nil
	case Timeframe1w:
		return 7 * 24 * time.Hour, nil
	default:
		return 0, errors.Newf(errors.ErrCodeInvalidTimeframe, "unsupported timeframe: %s", t)
	}
}

// binanceInterval returns the Binance kline interval string. Binance uses
// the same notation as the feed, so only validity is checked.
func (t Timeframe) binanceInterval() (string, error) {
	if _, err := t.Duration(); err != nil {
		return "", err
	}

	return string(t), nil
}

// polygonSpan returns the aggregate multiplier and timespan for Polygon.
func (t Timeframe) polygonSpan() (int, models.Timespan, error) {
	switch t {
	case Timeframe1m:
		return 1, models.Minute, nil
	case Timeframe5m:
		return 5, models.Minute, nil
	case Timeframe15m:
		return 15, models.Minute, nil
	case Timeframe30m:
		return 30, models.Minute, nil
	case Timeframe1h:
		return 1, models.Hour, nil
	case Timeframe4h:
		return 4, models.Hour, nil
	case Timeframe1d:
		return 1, models.Day, nil
	case Timeframe1w:
		return 1, models.Week, nil
	default:
		return 0, "", errors.Newf(errors.ErrCodeInvalidTimeframe, "unsupported timeframe: %s", t)
	}
}
