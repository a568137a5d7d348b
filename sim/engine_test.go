package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkaradzhov/lean/broker"
	"github.com/nkaradzhov/lean/journal"
	"github.com/nkaradzhov/lean/market"
)

type testJournal struct {
	fills  []journal.FillRecord
	equity []journal.EquitySnapshot
	err    error
}

func (j *testJournal) RecordFill(rec journal.FillRecord) error {
	j.fills = append(j.fills, rec)
	return j.err
}

func (j *testJournal) RecordEquity(rec journal.EquitySnapshot) error {
	j.equity = append(j.equity, rec)
	return j.err
}

func (j *testJournal) Close() error { return nil }

var t0 = time.Date(2017, 12, 1, 0, 0, 0, 0, time.UTC)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func newEngine(t *testing.T, cash float64) (*Engine, *testJournal) {
	t.Helper()
	j := &testJournal{}
	e := NewEngine(broker.Account{ID: "acct-1", Currency: "USD", Cash: d(cash)}, j, WithRunID("run-1"))
	return e, j
}

func bar(i int, o, h, l, c float64) market.Bar {
	return market.Bar{
		Symbol: "LTCUSD",
		Time:   t0.Add(time.Duration(i) * time.Minute),
		Period: time.Minute,
		Open:   o, High: h, Low: l, Close: c,
	}
}

func feed(t *testing.T, e *Engine, bars ...market.Bar) {
	t.Helper()
	for _, b := range bars {
		require.NoError(t, e.UpdateBar(context.Background(), b))
	}
}

func statuses(evs []broker.OrderEvent) []broker.OrderStatus {
	out := make([]broker.OrderStatus, 0, len(evs))
	for _, ev := range evs {
		out = append(out, ev.Status)
	}
	return out
}

// goLong buys 1000 LTCUSD at 100 with a 100k account.
func goLong(t *testing.T, e *Engine) broker.Ticket {
	t.Helper()
	feed(t, e, bar(0, 100, 100, 100, 100))
	tk, err := e.SetHoldings(context.Background(), "LTCUSD", decimal.NewFromInt(1))
	require.NoError(t, err)
	require.NotNil(t, tk)
	e.DrainEvents()
	return tk
}

func TestSetHoldings_FillsAtClose(t *testing.T) {
	t.Parallel()
	e, j := newEngine(t, 100000)
	ctx := context.Background()

	feed(t, e, bar(0, 99, 101, 98, 100))
	tk, err := e.SetHoldings(ctx, "LTCUSD", decimal.NewFromInt(1))
	require.NoError(t, err)
	require.NotNil(t, tk)

	assert.Equal(t, broker.StatusFilled, tk.Status())
	assert.Equal(t, broker.Market, tk.Type())
	assert.True(t, tk.Quantity().Equal(d(1000)), "quantity %s", tk.Quantity())
	assert.True(t, e.Quantity("LTCUSD").Equal(d(1000)))

	evs := e.DrainEvents()
	assert.Equal(t, []broker.OrderStatus{broker.StatusSubmitted, broker.StatusFilled}, statuses(evs))
	assert.Equal(t, broker.Buy, evs[1].Direction)
	assert.True(t, evs[1].FillPrice.Equal(d(100)))
	assert.Empty(t, e.DrainEvents())

	acct, err := e.GetAccount(ctx)
	require.NoError(t, err)
	assert.True(t, acct.Cash.IsZero())
	assert.True(t, acct.Equity.Equal(d(100000)))

	require.Len(t, j.fills, 1)
	assert.Equal(t, "run-1", j.fills[0].RunID)
	assert.Equal(t, "Market", j.fills[0].Type)
	assert.Equal(t, "Buy", j.fills[0].Direction)
	assert.Equal(t, t0.Add(time.Minute), j.fills[0].Time)
}

func TestSetHoldings_AlreadyAtTarget(t *testing.T) {
	t.Parallel()
	e, _ := newEngine(t, 100000)
	goLong(t, e)

	tk, err := e.SetHoldings(context.Background(), "LTCUSD", decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.Nil(t, tk)
	assert.Empty(t, e.DrainEvents())
}

func TestSetHoldings_NoPrice(t *testing.T) {
	t.Parallel()
	e, _ := newEngine(t, 100000)

	_, err := e.SetHoldings(context.Background(), "LTCUSD", decimal.NewFromInt(1))
	assert.True(t, errors.Is(err, ErrNoPrice))
}

func TestLiquidate(t *testing.T) {
	t.Parallel()
	e, _ := newEngine(t, 100000)
	ctx := context.Background()

	tk, err := e.Liquidate(ctx, "LTCUSD")
	require.NoError(t, err)
	assert.Nil(t, tk, "flat account has nothing to liquidate")

	goLong(t, e)
	feed(t, e, bar(1, 100, 111, 100, 110))

	tk, err = e.Liquidate(ctx, "LTCUSD")
	require.NoError(t, err)
	require.NotNil(t, tk)
	assert.True(t, tk.Quantity().Equal(d(-1000)))
	assert.True(t, e.Quantity("LTCUSD").IsZero())

	evs := e.DrainEvents()
	require.Len(t, evs, 2)
	assert.Equal(t, broker.Sell, evs[1].Direction)
	assert.True(t, evs[1].FillPrice.Equal(d(110)))

	trades := e.Trades()
	require.Len(t, trades, 1)
	assert.True(t, trades[0].RealizedPL.Equal(d(10000)))
	assert.True(t, trades[0].Win())
	assert.Equal(t, "liquidate", trades[0].ExitTag)
}

func TestStopLimitSell_TakeProfit(t *testing.T) {
	t.Parallel()
	e, j := newEngine(t, 100000)
	ctx := context.Background()
	goLong(t, e)

	tk, err := e.StopLimitOrder(ctx, "LTCUSD", d(-1000), d(115), d(115), "take-profit")
	require.NoError(t, err)
	assert.Equal(t, broker.StatusSubmitted, tk.Status())
	assert.Equal(t, []broker.OrderStatus{broker.StatusSubmitted}, statuses(e.DrainEvents()))

	// Low below the stop triggers, close below the limit does not fill.
	feed(t, e, bar(1, 100, 112, 99, 110))
	assert.Equal(t, broker.StatusSubmitted, tk.Status())
	o, ok := e.Order(tk.ID())
	require.True(t, ok)
	assert.True(t, o.Triggered())
	assert.Empty(t, e.DrainEvents())

	feed(t, e, bar(2, 110, 117, 110, 116))
	assert.Equal(t, broker.StatusFilled, tk.Status())
	assert.True(t, o.FillPrice().Equal(d(115)))
	assert.Equal(t, t0.Add(3*time.Minute), o.FillTime())

	evs := e.DrainEvents()
	require.Len(t, evs, 1)
	assert.Equal(t, broker.StatusFilled, evs[0].Status)
	assert.Equal(t, broker.Sell, evs[0].Direction)
	assert.True(t, evs[0].FillPrice.Equal(d(115)))
	assert.True(t, evs[0].FillQuantity.Equal(d(-1000)))

	acct, err := e.GetAccount(ctx)
	require.NoError(t, err)
	assert.True(t, acct.Cash.Equal(d(115000)))
	assert.Empty(t, e.OpenOrders("LTCUSD"))

	trades := e.Trades()
	require.Len(t, trades, 1)
	assert.Equal(t, "take-profit", trades[0].ExitTag)
	assert.True(t, trades[0].ExitPrice.Equal(d(115)))

	require.Len(t, j.fills, 2)
	assert.Equal(t, "StopLimit", j.fills[1].Type)
	assert.Equal(t, "take-profit", j.fills[1].Tag)
	assert.Len(t, j.equity, 3)
}

func TestStopLimitSell_StopLoss(t *testing.T) {
	t.Parallel()

	t.Run("fills on the trigger bar", func(t *testing.T) {
		t.Parallel()
		e, _ := newEngine(t, 100000)
		goLong(t, e)

		tk, err := e.StopLimitOrder(context.Background(), "LTCUSD", d(-1000), d(98), d(98), "stop-loss")
		require.NoError(t, err)

		feed(t, e, bar(1, 99, 99, 97.5, 98.5))
		assert.Equal(t, broker.StatusFilled, tk.Status())
		trades := e.Trades()
		require.Len(t, trades, 1)
		assert.True(t, trades[0].RealizedPL.Equal(d(-2000)))
		assert.False(t, trades[0].Win())
	})

	t.Run("trigger is sticky", func(t *testing.T) {
		t.Parallel()
		e, _ := newEngine(t, 100000)
		goLong(t, e)

		tk, err := e.StopLimitOrder(context.Background(), "LTCUSD", d(-1000), d(98), d(98), "stop-loss")
		require.NoError(t, err)

		feed(t, e, bar(1, 99, 99, 97, 97))
		assert.Equal(t, broker.StatusSubmitted, tk.Status())

		feed(t, e, bar(2, 97, 99, 97, 98))
		assert.Equal(t, broker.StatusFilled, tk.Status())
		assert.True(t, tk.(*Order).FillPrice().Equal(d(98)))
	})

	t.Run("untouched stop rests", func(t *testing.T) {
		t.Parallel()
		e, _ := newEngine(t, 100000)
		goLong(t, e)

		tk, err := e.StopLimitOrder(context.Background(), "LTCUSD", d(-1000), d(98), d(98), "stop-loss")
		require.NoError(t, err)

		feed(t, e, bar(1, 100, 102, 99, 101))
		assert.Equal(t, broker.StatusSubmitted, tk.Status())
		assert.False(t, tk.(*Order).Triggered())
		assert.Len(t, e.OpenOrders("LTCUSD"), 1)
	})
}

func TestStopLimitBuy(t *testing.T) {
	t.Parallel()
	e, _ := newEngine(t, 100000)
	feed(t, e, bar(0, 100, 100, 100, 100))

	tk, err := e.StopLimitOrder(context.Background(), "LTCUSD", d(10), d(105), d(106), "")
	require.NoError(t, err)

	feed(t, e, bar(1, 100, 107, 100, 107))
	assert.Equal(t, broker.StatusSubmitted, tk.Status(), "close above the limit")

	feed(t, e, bar(2, 107, 107, 104, 105))
	assert.Equal(t, broker.StatusFilled, tk.Status())
	assert.True(t, e.Quantity("LTCUSD").Equal(d(10)))
}

func TestStopLimit_RejectsOversell(t *testing.T) {
	t.Parallel()
	e, _ := newEngine(t, 100000)
	goLong(t, e)
	ctx := context.Background()

	tp, err := e.StopLimitOrder(ctx, "LTCUSD", d(-1000), d(101), d(101), "take-profit")
	require.NoError(t, err)
	sl, err := e.StopLimitOrder(ctx, "LTCUSD", d(-1000), d(98), d(98), "stop-loss")
	require.NoError(t, err)
	e.DrainEvents()

	// Both legs fill on the same bar: the second finds nothing left to sell.
	feed(t, e, bar(1, 100, 102, 97, 101))
	assert.Equal(t, broker.StatusFilled, tp.Status())
	assert.Equal(t, broker.StatusInvalid, sl.Status())
	assert.True(t, e.Quantity("LTCUSD").IsZero())

	evs := e.DrainEvents()
	require.Len(t, evs, 2)
	assert.Equal(t, broker.StatusInvalid, evs[1].Status)
	assert.Contains(t, evs[1].Message, "insufficient funds")
}

func TestStopLimit_RejectsUnaffordableBuy(t *testing.T) {
	t.Parallel()
	e, j := newEngine(t, 1000)
	feed(t, e, bar(0, 100, 100, 100, 100))

	tk, err := e.StopLimitOrder(context.Background(), "LTCUSD", d(20), d(101), d(101), "")
	require.NoError(t, err)

	feed(t, e, bar(1, 100, 102, 100, 100))
	assert.Equal(t, broker.StatusInvalid, tk.Status())
	assert.Empty(t, j.fills)
}

func TestStopLimitOrder_Validation(t *testing.T) {
	t.Parallel()
	e, _ := newEngine(t, 100000)
	ctx := context.Background()

	_, err := e.StopLimitOrder(ctx, "LTCUSD", decimal.Zero, d(1), d(1), "")
	assert.Error(t, err)

	_, err = e.StopLimitOrder(ctx, "LTCUSD", d(-1), decimal.Zero, d(1), "")
	assert.Error(t, err)
}

func TestCancelOrder(t *testing.T) {
	t.Parallel()
	e, _ := newEngine(t, 100000)
	ctx := context.Background()
	goLong(t, e)

	tk, err := e.StopLimitOrder(ctx, "LTCUSD", d(-1000), d(98), d(98), "stop-loss")
	require.NoError(t, err)
	e.DrainEvents()

	require.NoError(t, e.CancelOrder(ctx, tk.ID()))
	assert.Equal(t, broker.StatusCanceled, tk.Status())
	assert.Empty(t, e.OpenOrders("LTCUSD"))
	assert.Equal(t, []broker.OrderStatus{broker.StatusCanceled}, statuses(e.DrainEvents()))

	err = e.CancelOrder(ctx, tk.ID())
	assert.True(t, errors.Is(err, ErrOrderClosed))

	err = e.CancelOrder(ctx, "missing")
	assert.True(t, errors.Is(err, ErrOrderNotFound))

	// A canceled order never fills.
	feed(t, e, bar(1, 99, 99, 97, 98))
	assert.Equal(t, broker.StatusCanceled, tk.Status())
	assert.Empty(t, e.DrainEvents())
}

func TestUpdateBar_InvalidBar(t *testing.T) {
	t.Parallel()
	e, _ := newEngine(t, 100000)

	err := e.UpdateBar(context.Background(), market.Bar{Symbol: "LTCUSD", Low: 10, High: 5})
	assert.Error(t, err)

	_, ok := e.LastBar("LTCUSD")
	assert.False(t, ok)
}

func TestGetAccount_CanceledContext(t *testing.T) {
	t.Parallel()
	e, _ := newEngine(t, 100000)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.GetAccount(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLastBar(t *testing.T) {
	t.Parallel()
	e, _ := newEngine(t, 100000)
	feed(t, e, bar(0, 100, 101, 99, 100), bar(1, 100, 103, 100, 102))

	b, ok := e.LastBar("LTCUSD")
	require.True(t, ok)
	assert.Equal(t, 102.0, b.Close)
	assert.Equal(t, t0.Add(time.Minute), b.Time)

	_, ok = e.LastBar("BTCUSD")
	assert.False(t, ok)
}

func TestUpdateBar_JournalError(t *testing.T) {
	t.Parallel()
	e, j := newEngine(t, 100000)
	j.err = errors.New("disk full")

	err := e.UpdateBar(context.Background(), bar(0, 100, 100, 100, 100))
	assert.ErrorContains(t, err, "disk full")
}

func TestOrderIDs_Reproducible(t *testing.T) {
	t.Parallel()

	run := func() []string {
		e := NewEngine(broker.Account{Cash: d(100000)}, nil, WithSeed(7))
		feed(t, e, bar(0, 100, 100, 100, 100))
		var ids []string
		for i := 0; i < 3; i++ {
			tk, err := e.StopLimitOrder(context.Background(), "LTCUSD", d(1), d(200), d(200), "")
			require.NoError(t, err)
			ids = append(ids, tk.ID())
		}
		return ids
	}

	a, b := run(), run()
	assert.Equal(t, a, b)
	assert.Len(t, a, 3)
	assert.NotEqual(t, a[0], a[1])
}
