package strategy

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nkaradzhov/lean/config"
	"github.com/nkaradzhov/lean/market"
	"github.com/nkaradzhov/lean/mocks"
	"github.com/nkaradzhov/lean/signal"
)

// rally holds flat at 100 for 40 bars, then compounds 2% per bar.
func rally(n int) []market.Bar {
	out := make([]market.Bar, 0, n)
	p := 100.0
	for i := 0; i < n; i++ {
		if i >= 40 {
			p = math.Round(p*1.02*1e4) / 1e4
		}
		out = append(out, testBar(0, p))
		out[i].Time = time.Date(2017, 12, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute)
	}
	return out
}

// ranged gives each close a one point high/low band.
func ranged(i int, c float64) market.Bar {
	b := testBar(0, c)
	b.Time = time.Date(2017, 12, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute)
	b.High, b.Low = c+1, c-1
	return b
}

func TestMACDSource_ReadingAndEntry(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	b := mocks.NewMockBroker(ctrl)

	c, err := New(config.Default().Strategy, b, nil)
	require.NoError(t, err)
	require.Equal(t, signal.ModeMACD, c.Mode())
	src, ok := c.src.(*macdSource)
	require.True(t, ok)

	b.EXPECT().Quantity(sym).Return(decimal.Zero).AnyTimes()

	ctx := context.Background()
	bars := rally(42)

	// Flat prices leave the lines equal: ready, but no spread.
	for _, bar := range bars[:41] {
		require.NoError(t, c.OnData(ctx, bar))
	}
	assert.True(t, src.macd.Ready())

	// Second rally bar (close 104.04) opens the spread past the tolerance.
	b.EXPECT().SetHoldings(gomock.Any(), sym, dec(1)).Return(nil, nil).Times(1)
	require.NoError(t, c.OnData(ctx, bars[41]))

	m := src.macd
	want := signal.MACDReading{Ready: true, Value: m.Value(), Signal: m.Signal(), Fast: m.Fast()}
	assert.Equal(t, want, src.Reading())
	assert.NotEqual(t, m.Signal(), m.Fast())
	assert.InDelta(t, 0.4455, m.Value(), 1e-3)
	assert.InDelta(t, 0.1146, m.Signal(), 1e-3)
	assert.InDelta(t, 100.8819, m.Fast(), 1e-3)
}

func TestSARSource_ReadingAndEntry(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	b := mocks.NewMockBroker(ctrl)

	cfg := config.Default().Strategy
	cfg.Mode = "sar"
	c, err := New(cfg, b, nil)
	require.NoError(t, err)
	src, ok := c.src.(*sarSource)
	require.True(t, ok)

	b.EXPECT().Quantity(sym).Return(decimal.Zero).AnyTimes()
	ctx := context.Background()

	// One bar is not enough to seed the trend.
	require.NoError(t, c.OnData(ctx, ranged(0, 100)))
	assert.False(t, src.Reading().IsReady())

	// Rising closes put the stop under price on every bar from the second.
	b.EXPECT().SetHoldings(gomock.Any(), sym, dec(1)).Return(nil, nil).Times(4)
	var last market.Bar
	for i := 1; i < 5; i++ {
		last = ranged(i, 100+float64(i)*2)
		require.NoError(t, c.OnData(ctx, last))
	}

	r, ok := src.Reading().(signal.SARReading)
	require.True(t, ok)
	assert.True(t, r.Ready)
	assert.Equal(t, last.Close, r.Price)
	assert.Equal(t, src.sar.Value(), r.SAR)
	assert.Less(t, r.SAR, r.Price)
}

func TestSARSource_FallingMarketHolds(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	b := mocks.NewMockBroker(ctrl)

	cfg := config.Default().Strategy
	cfg.Mode = "sar"
	c, err := New(cfg, b, nil)
	require.NoError(t, err)
	src := c.src.(*sarSource)

	// No SetHoldings is expected: the stop stays above a falling price.
	b.EXPECT().Quantity(sym).Return(decimal.Zero).AnyTimes()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, c.OnData(ctx, ranged(i, 100-float64(i)*2)))
	}

	r := src.Reading().(signal.SARReading)
	assert.True(t, r.Ready)
	assert.Greater(t, r.SAR, r.Price)
	assert.Equal(t, 92.0, r.Price)
}
