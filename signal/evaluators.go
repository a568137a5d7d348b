package signal

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultTolerance is the MACD spread required before acting.
const DefaultTolerance = 0.0025

// MACD enters when the MACD line leads its signal by more than Tolerance
// (as a fraction of the fast average) and exits on the mirror condition.
type MACD struct {
	Tolerance float64
}

func (MACD) Mode() Mode { return ModeMACD }

func (e MACD) Evaluate(r Reading, quantity decimal.Decimal) (Intent, error) {
	m, ok := r.(MACDReading)
	if !ok {
		return Hold, mismatch(e, r)
	}
	if !m.Ready {
		return Hold, nil
	}
	delta, ok := m.Delta()
	if !ok {
		return Hold, nil
	}

	switch {
	case flat(quantity) && delta > e.Tolerance:
		return EnterLong, nil
	case !flat(quantity) && delta < -e.Tolerance:
		return ExitLong, nil
	default:
		return Hold, nil
	}
}

// SAR follows price through the parabolic stop: long while price trades
// above it.
type SAR struct{}

func (SAR) Mode() Mode { return ModeSAR }

func (e SAR) Evaluate(r Reading, quantity decimal.Decimal) (Intent, error) {
	s, ok := r.(SARReading)
	if !ok {
		return Hold, mismatch(e, r)
	}
	if !s.Ready {
		return Hold, nil
	}

	switch {
	case flat(quantity) && s.SAR < s.Price:
		return EnterLong, nil
	case !flat(quantity) && s.SAR > s.Price:
		return ExitLong, nil
	default:
		return Hold, nil
	}
}

// RSI buys oversold and sells overbought. Low and High gate different
// position states and are never compared with each other.
type RSI struct {
	Low  float64
	High float64
}

func (RSI) Mode() Mode { return ModeRSI }

func (e RSI) Evaluate(r Reading, quantity decimal.Decimal) (Intent, error) {
	v, ok := r.(RSIReading)
	if !ok {
		return Hold, mismatch(e, r)
	}
	if !v.Ready {
		return Hold, nil
	}

	switch {
	case flat(quantity) && v.Value < e.Low:
		return EnterLong, nil
	case !flat(quantity) && v.Value > e.High:
		return ExitLong, nil
	default:
		return Hold, nil
	}
}

func mismatch(e Evaluator, r Reading) error {
	if r == nil {
		return fmt.Errorf("%w: %s evaluator got no reading", ErrReadingMismatch, e.Mode())
	}
	return fmt.Errorf("%w: %s evaluator got %s reading", ErrReadingMismatch, e.Mode(), r.mode())
}
