package history

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-chart/internal/types"
	"github.com/rxtech-lab/argo-chart/pkg/errors"
	"github.com/schollz/progressbar/v3"
)

// polygonPageLimit is the maximum aggregates Polygon returns per page.
const polygonPageLimit = 50000

// PolygonProvider fetches aggregate bars from the Polygon REST API.
type PolygonProvider struct {
	client *polygon.Client
	// now is swappable for tests.
	now func() time.Time
}

// NewPolygonProvider creates a Polygon provider. An API key is required.
func NewPolygonProvider(apiKey string) (*PolygonProvider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "polygon provider requires an API key")
	}

	return &PolygonProvider{
		client: polygon.New(apiKey),
		now:    time.Now,
	}, nil
}

// Fetch implements Provider. The window is sized from the bar duration, with
// headroom for market closures, and trimmed to the requested bar count.
func (p *PolygonProvider) Fetch(ctx context.Context, symbol string, timeframe Timeframe, bars int) ([]types.Candle, error) {
	if bars <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "bars must be positive, got %d", bars)
	}

	multiplier, timespan, err := timeframe.polygonSpan()
	if err != nil {
		return nil, err
	}

	duration, err := timeframe.Duration()
	if err != nil {
		return nil, err
	}

	endDate := p.now()
	// Triple the nominal window so weekends and halts still yield enough bars.
	startDate := endDate.Add(-3 * time.Duration(bars) * duration)

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: multiplier,
		Timespan:   timespan,
		From:       models.Millis(startDate),
		To:         models.Millis(endDate),
	}.WithLimit(polygonPageLimit)

	bar := progressbar.NewOptions(bars,
		progressbar.OptionSetDescription(fmt.Sprintf("Fetching %s", symbol)),
		progressbar.OptionShowCount(),
	)

	var candles []types.Candle

	iter := p.client.ListAggs(ctx, params)
	for iter.Next() {
		agg := iter.Item()
		candles = append(candles, types.Candle{ //nolint:exhaustruct // indicators are computed downstream
			Time:   time.Time(agg.Timestamp).Unix(),
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		})

		if len(candles)%100 == 0 {
			_ = bar.Set(min(len(candles), bars))
		}
	}

	if iter.Err() != nil {
		return nil, errors.Wrap(errors.ErrCodeHistoryFetchFailed, "failed to list polygon aggregates", iter.Err())
	}

	_ = bar.Finish()

	if len(candles) > bars {
		candles = candles[len(candles)-bars:]
	}

	return candles, nil
}
