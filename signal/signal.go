// Package signal turns indicator readings and the current position into
// entry/exit intents. Evaluators are pure: the same inputs always produce
// the same intent.
package signal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownMode     = errors.New("signal: unknown strategy mode")
	ErrReadingMismatch = errors.New("signal: reading does not match evaluator mode")
)

type Intent int

const (
	Hold Intent = iota
	EnterLong
	ExitLong
)

func (i Intent) String() string {
	switch i {
	case Hold:
		return "Hold"
	case EnterLong:
		return "EnterLong"
	case ExitLong:
		return "ExitLong"
	default:
		return fmt.Sprintf("Intent(%d)", int(i))
	}
}

type Mode int

const (
	ModeMACD Mode = iota + 1
	ModeSAR
	ModeRSI
)

func (m Mode) String() string {
	switch m {
	case ModeMACD:
		return "macd"
	case ModeSAR:
		return "sar"
	case ModeRSI:
		return "rsi"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts "macd", "sar" (or "histogram") and "rsi", any case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "macd":
		return ModeMACD, nil
	case "sar", "histogram", "parabolic-sar":
		return ModeSAR, nil
	case "rsi":
		return ModeRSI, nil
	default:
		return 0, fmt.Errorf("%w %q (supported: macd, sar, rsi)", ErrUnknownMode, s)
	}
}

// Evaluator decides what to do with the latest reading given the signed
// quantity currently held.
type Evaluator interface {
	Mode() Mode
	Evaluate(r Reading, quantity decimal.Decimal) (Intent, error)
}

// Params carries the thresholds for every mode; only the fields of the
// selected mode are read.
type Params struct {
	Tolerance float64 // MACD
	RSILow    float64
	RSIHigh   float64
}

// New picks the evaluator for mode once, at configuration time.
func New(mode Mode, p Params) (Evaluator, error) {
	switch mode {
	case ModeMACD:
		return MACD{Tolerance: p.Tolerance}, nil
	case ModeSAR:
		return SAR{}, nil
	case ModeRSI:
		return RSI{Low: p.RSILow, High: p.RSIHigh}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownMode, mode)
	}
}

func flat(quantity decimal.Decimal) bool {
	return quantity.Sign() <= 0
}
