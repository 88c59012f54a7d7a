package indicator

// DefaultSet returns the calculators behind the standard feed columns:
// EMA_20, EMA_50, SMA_20, RSI_14 and the three Bollinger bands.
func DefaultSet() []Calculator {
	return []Calculator{
		NewEMA(20),
		NewEMA(50),
		NewSMA(20),
		NewRSI(14),
		NewBollinger(20, 2),
	}
}

// FullSet extends DefaultSet with the momentum and volatility columns the
// backend also reports: MACD (12/26/9) and ATR_14.
func FullSet() []Calculator {
	return append(DefaultSet(),
		NewMACD(12, 26, 9),
		NewATR(14),
	)
}
