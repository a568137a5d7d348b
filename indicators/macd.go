package indicators

import (
	"fmt"

	"github.com/nkaradzhov/lean/market"
)

// MACD is the Moving Average Convergence Divergence oscillator built from
// exponential averages: Value = Fast - Slow, Signal = EMA(Value).
type MACD struct {
	fast   *ExponentialMA
	slow   *ExponentialMA
	signal *ExponentialMA

	fastPeriod, slowPeriod, signalPeriod int
}

func NewMACD(fast, slow, signal int) (*MACD, error) {
	if fast <= 0 || slow <= 0 || signal <= 0 {
		return nil, fmt.Errorf("indicators: macd periods must be positive (fast=%d slow=%d signal=%d)", fast, slow, signal)
	}
	if fast >= slow {
		return nil, fmt.Errorf("indicators: macd fast period %d must be below slow period %d", fast, slow)
	}
	return &MACD{
		fast:         NewEMA(fast),
		slow:         NewEMA(slow),
		signal:       NewEMA(signal),
		fastPeriod:   fast,
		slowPeriod:   slow,
		signalPeriod: signal,
	}, nil
}

func (m *MACD) Name() string {
	return fmt.Sprintf("MACD(%d,%d,%d)", m.fastPeriod, m.slowPeriod, m.signalPeriod)
}

func (m *MACD) Warmup() int {
	return m.slowPeriod + m.signalPeriod - 1
}

func (m *MACD) Reset() {
	m.fast.Reset()
	m.slow.Reset()
	m.signal.Reset()
}

func (m *MACD) Update(b market.Bar) {
	m.fast.Update(b)
	m.slow.Update(b)
	if m.slow.Ready() {
		m.signal.Add(m.fast.Value() - m.slow.Value())
	}
}

func (m *MACD) Ready() bool {
	return m.signal.Ready()
}

// Value is the MACD line.
func (m *MACD) Value() float64 {
	if !m.slow.Ready() {
		return 0
	}
	return m.fast.Value() - m.slow.Value()
}

func (m *MACD) Signal() float64 { return m.signal.Value() }
func (m *MACD) Fast() float64   { return m.fast.Value() }
func (m *MACD) Slow() float64   { return m.slow.Value() }

func (m *MACD) Histogram() float64 {
	return m.Value() - m.Signal()
}
