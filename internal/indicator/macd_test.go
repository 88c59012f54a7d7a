package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMACDFlatSeriesIsZero(t *testing.T) {
	macd := NewMACD(2, 3, 2)

	for _, bar := range closes(5, 5, 5, 5, 5) {
		macd.Update(bar)
	}

	snapshot := macd.Snapshot()
	require.NotNil(t, snapshot)
	assert.InDelta(t, 0.0, snapshot["MACD_line"], 0.0001)
	assert.InDelta(t, 0.0, snapshot["MACD_signal"], 0.0001)
	assert.InDelta(t, 0.0, snapshot["MACD_histogram"], 0.0001)
}

func TestMACDWarmup(t *testing.T) {
	macd := NewMACD(2, 3, 2)
	bars := closes(1, 2, 3, 4, 5)

	// Slow EMA needs 3 bars, the signal EMA two line values on top of that.
	macd.Update(bars[0])
	macd.Update(bars[1])
	macd.Update(bars[2])
	assert.Nil(t, macd.Snapshot())

	macd.Update(bars[3])
	assert.NotNil(t, macd.Snapshot())
}

func TestMACDTrendingSeriesHasPositiveLine(t *testing.T) {
	macd := NewMACD(2, 3, 2)
	for _, bar := range closes(seq(1, 10)...) {
		macd.Update(bar)
	}

	snapshot := macd.Snapshot()
	require.NotNil(t, snapshot)
	assert.Greater(t, snapshot["MACD_line"], 0.0)
}
