package history

import (
	"context"
	"strconv"

	binance "github.com/adshao/go-binance/v2"
	"github.com/rxtech-lab/argo-chart/internal/types"
	"github.com/rxtech-lab/argo-chart/pkg/errors"
)

// binancePageLimit is the maximum klines Binance returns per request.
const binancePageLimit = 1000

// BinanceProvider fetches klines from the public Binance REST API.
type BinanceProvider struct {
	client *binance.Client
}

// NewBinanceProvider creates an unauthenticated Binance provider. Kline
// endpoints do not require credentials.
func NewBinanceProvider() *BinanceProvider {
	return &BinanceProvider{
		client: binance.NewClient("", ""),
	}
}

// Fetch implements Provider. It pages backwards from now until the requested
// number of bars is collected or history runs out.
func (p *BinanceProvider) Fetch(ctx context.Context, symbol string, timeframe Timeframe, bars int) ([]types.Candle, error) {
	if bars <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "bars must be positive, got %d", bars)
	}

	interval, err := timeframe.binanceInterval()
	if err != nil {
		return nil, err
	}

	var candles []types.Candle

	endTime := int64(0)

	for len(candles) < bars {
		limit := bars - len(candles)
		if limit > binancePageLimit {
			limit = binancePageLimit
		}

		service := p.client.NewKlinesService().
			Symbol(symbol).
			Interval(interval).
			Limit(limit)
		if endTime > 0 {
			service = service.EndTime(endTime)
		}

		klines, err := service.Do(ctx)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeHistoryFetchFailed, "failed to fetch klines from Binance", err)
		}

		if len(klines) == 0 {
			break
		}

		page, err := convertKlines(klines)
		if err != nil {
			return nil, err
		}

		candles = append(page, candles...)
		// Page backwards: everything strictly before the oldest bar seen.
		endTime = klines[0].OpenTime - 1
	}

	if len(candles) > bars {
		candles = candles[len(candles)-bars:]
	}

	return candles, nil
}

// convertKlines maps Binance klines onto candles, keyed by the bar open
// time in unix seconds.
func convertKlines(klines []*binance.Kline) ([]types.Candle, error) {
	candles := make([]types.Candle, 0, len(klines))

	for _, kline := range klines {
		candle := types.Candle{ //nolint:exhaustruct // indicators are computed downstream
			Time: kline.OpenTime / 1000,
		}

		fields := []struct {
			raw  string
			dest *float64
		}{
			{kline.Open, &candle.Open},
			{kline.High, &candle.High},
			{kline.Low, &candle.Low},
			{kline.Close, &candle.Close},
			{kline.Volume, &candle.Volume},
		}

		for _, field := range fields {
			value, err := strconv.ParseFloat(field.raw, 64)
			if err != nil {
				return nil, errors.Wrapf(errors.ErrCodeHistoryParseFailed, err, "invalid kline field %q", field.raw)
			}

			*field.dest = value
		}

		candles = append(candles, candle)
	}

	return candles, nil
}
