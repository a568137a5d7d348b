package indicators

import (
	"fmt"

	"github.com/nkaradzhov/lean/market"
)

// RSI is Wilder's Relative Strength Index, bounded to [0, 100].
type RSI struct {
	period int

	prevClose float64
	count     int // closes seen
	gainSum   float64
	lossSum   float64
	avgGain   float64
	avgLoss   float64
}

func NewRSI(period int) (*RSI, error) {
	if period <= 0 {
		return nil, fmt.Errorf("indicators: rsi period must be positive, got %d", period)
	}
	return &RSI{period: period}, nil
}

func (r *RSI) Name() string {
	return fmt.Sprintf("RSI(%d)", r.period)
}

// Warmup is period+1 closes: period price changes.
func (r *RSI) Warmup() int {
	return r.period + 1
}

func (r *RSI) Reset() {
	*r = RSI{period: r.period}
}

func (r *RSI) Update(b market.Bar) {
	c := b.Close
	r.count++
	if r.count == 1 {
		r.prevClose = c
		return
	}

	change := c - r.prevClose
	r.prevClose = c

	gain, loss := 0.0, 0.0
	if change > 0 {
		gain = change
	} else {
		loss = -change
	}

	n := r.count - 1
	switch {
	case n < r.period:
		r.gainSum += gain
		r.lossSum += loss
	case n == r.period:
		r.gainSum += gain
		r.lossSum += loss
		r.avgGain = r.gainSum / float64(r.period)
		r.avgLoss = r.lossSum / float64(r.period)
	default:
		p := float64(r.period)
		r.avgGain = (r.avgGain*(p-1) + gain) / p
		r.avgLoss = (r.avgLoss*(p-1) + loss) / p
	}
}

func (r *RSI) Ready() bool {
	return r.count >= r.period+1
}

func (r *RSI) Value() float64 {
	if !r.Ready() {
		return 0
	}
	if r.avgLoss == 0 {
		if r.avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := r.avgGain / r.avgLoss
	return 100 - 100/(1+rs)
}
