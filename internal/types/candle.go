package types

import (
	"encoding/json"
	"math"
)

// IndicatorSet holds the named indicator values attached to one candle.
// Upstream computes indicator columns server-side and serializes missing
// values (warm-up bars) as JSON null, so decoding skips nulls and any
// non-finite value. A name absent from the set means "no value at this bar".
type IndicatorSet map[string]float64

// Value returns the indicator value for the given name.
// The second return value is false when the name is absent or the value is not finite.
func (s IndicatorSet) Value(name string) (float64, bool) {
	v, ok := s[name]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}

	return v, true
}

// Set stores a value for the given name, dropping non-finite values.
func (s IndicatorSet) Set(name string, value float64) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return
	}

	s[name] = value
}

// UnmarshalJSON decodes an indicator object, silently dropping null and
// non-finite entries so gaps stay gaps instead of becoming zeros.
func (s *IndicatorSet) UnmarshalJSON(data []byte) error {
	var raw map[string]*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(IndicatorSet, len(raw))

	for name, v := range raw {
		if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
			continue
		}

		out[name] = *v
	}

	*s = out

	return nil
}

// Candle represents one OHLCV bar plus optional named indicator values.
// Time is in unix seconds and strictly increases across a historical sequence;
// the currently forming bar may be replaced in place by successive updates
// sharing the same Time.
type Candle struct {
	Time       int64        `json:"time" validate:"required"`
	Open       float64      `json:"open"`
	High       float64      `json:"high"`
	Low        float64      `json:"low"`
	Close      float64      `json:"close"`
	Volume     float64      `json:"volume"`
	Indicators IndicatorSet `json:"indicators,omitempty"`
}

// Indicator returns the finite indicator value for the given name, if any.
func (c Candle) Indicator(name string) (float64, bool) {
	return c.Indicators.Value(name)
}
