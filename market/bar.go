package market

import "time"

// Bar is an OHLCV sample for one symbol over a fixed window. Time is the
// start of the window.
type Bar struct {
	Symbol string
	Time   time.Time
	Period time.Duration

	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Price is the last traded price of the bar.
func (b Bar) Price() float64 {
	return b.Close
}

// EndTime is when the bar closed.
func (b Bar) EndTime() time.Time {
	return b.Time.Add(b.Period)
}

// Valid reports whether the bar has a symbol and a sane price range.
func (b Bar) Valid() bool {
	if b.Symbol == "" {
		return false
	}
	if b.Low <= 0 || b.High < b.Low {
		return false
	}
	return b.Open >= b.Low && b.Open <= b.High && b.Close >= b.Low && b.Close <= b.High
}
