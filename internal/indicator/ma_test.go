package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSMARollingWindow(t *testing.T) {
	sma := NewSMA(3)
	expected := []float64{0, 0, 2, 3, 4}

	for i, bar := range closes(1, 2, 3, 4, 5) {
		sma.Update(bar)

		snapshot := sma.Snapshot()
		if i < 2 {
			assert.Nil(t, snapshot)

			continue
		}

		assert.InDelta(t, expected[i], snapshot["SMA_3"], 0.0001)
	}
}
