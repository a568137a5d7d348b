package backtest

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nkaradzhov/lean/broker"
	"github.com/nkaradzhov/lean/market"
	"github.com/nkaradzhov/lean/pkg/logger"
	"github.com/nkaradzhov/lean/sim"
)

// Strategy is what the runner drives: bars in, order events back.
type Strategy interface {
	broker.OrderEventHandler
	OnData(ctx context.Context, b market.Bar) error
}

// RunnerOptions controls how the backtest runner behaves.
type RunnerOptions struct {
	RunID  string
	Symbol string
	Mode   string

	// If true, sell any open position at the last close once the feed ends.
	LiquidateAtEnd bool

	// OnBar, when set, is called after each bar is fully processed.
	OnBar func(market.Bar)

	Log *zap.Logger
}

// Runner drives an engine forward using a feed and strategy.
type Runner struct {
	Engine   *sim.Engine
	Feed     BarFeed
	Strategy Strategy
	Options  RunnerOptions

	fills int
	exits map[string]int
}

// Run executes the backtest loop for each bar:
//  1. engine.UpdateBar fills resting orders
//  2. their events go to the strategy
//  3. strategy.OnData sees the bar
//  4. events are dispatched until the queue is empty
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.Engine == nil {
		return Result{}, fmt.Errorf("backtest: Engine is required")
	}
	if r.Feed == nil {
		return Result{}, fmt.Errorf("backtest: Feed is required")
	}
	if r.Strategy == nil {
		return Result{}, fmt.Errorf("backtest: Strategy is required")
	}
	defer r.Feed.Close()

	log := logger.OrNop(r.Options.Log)
	r.fills = 0
	r.exits = make(map[string]int)

	startAcct, err := r.Engine.GetAccount(ctx)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		RunID:     r.Options.RunID,
		Symbol:    r.Options.Symbol,
		Mode:      r.Options.Mode,
		StartCash: startAcct.Cash,
	}
	peak := startAcct.Equity
	maxDD := decimal.Zero

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		b, ok, err := r.Feed.Next()
		if err != nil {
			return res, err
		}
		if !ok {
			break
		}

		if res.Start.IsZero() || b.Time.Before(res.Start) {
			res.Start = b.Time
		}
		if end := b.EndTime(); end.After(res.End) {
			res.End = end
		}
		res.Bars++

		if err := r.Engine.UpdateBar(ctx, b); err != nil {
			return res, err
		}
		if err := r.dispatch(ctx); err != nil {
			return res, err
		}
		if err := r.Strategy.OnData(ctx, b); err != nil {
			return res, err
		}
		if err := r.dispatch(ctx); err != nil {
			return res, err
		}

		acct, err := r.Engine.GetAccount(ctx)
		if err != nil {
			return res, err
		}
		if acct.Equity.GreaterThan(peak) {
			peak = acct.Equity
		}
		if peak.IsPositive() {
			dd := peak.Sub(acct.Equity).Div(peak)
			if dd.GreaterThan(maxDD) {
				maxDD = dd
			}
		}

		if r.Options.OnBar != nil {
			r.Options.OnBar(b)
		}
	}

	if r.Options.LiquidateAtEnd && r.Options.Symbol != "" {
		if last, ok := r.Engine.LastBar(r.Options.Symbol); ok && !r.Engine.Quantity(r.Options.Symbol).IsZero() {
			log.Info("liquidating at end of data",
				zap.Time("time", last.Time),
				zap.Float64("close", last.Close),
			)
		}
		if _, err := r.Engine.Liquidate(ctx, r.Options.Symbol); err != nil {
			log.Warn("liquidate at end failed", zap.Error(err))
		} else if err := r.dispatch(ctx); err != nil {
			return res, err
		}
	}

	acct, err := r.Engine.GetAccount(ctx)
	if err != nil {
		return res, err
	}
	res.EndCash = acct.Cash
	res.EndEquity = acct.Equity
	res.NetPL = acct.Equity.Sub(res.StartCash)
	if res.StartCash.IsPositive() {
		res.ReturnPct = res.NetPL.Div(res.StartCash).Mul(decimal.NewFromInt(100))
	}
	res.MaxDrawdownPct = maxDD.Mul(decimal.NewFromInt(100))
	res.Fills = r.fills
	if r.Options.Symbol != "" {
		res.Position = r.Engine.Quantity(r.Options.Symbol)
	}

	for _, t := range r.Engine.Trades() {
		res.Trades++
		switch {
		case t.RealizedPL.IsPositive():
			res.Wins++
		case t.RealizedPL.IsNegative():
			res.Losses++
		}
	}
	res.ExitsByTag = r.exits

	log.Info("backtest finished",
		zap.String("run_id", res.RunID),
		zap.Int("bars", res.Bars),
		zap.Int("fills", res.Fills),
		zap.Int("trades", res.Trades),
		zap.Stringer("net_pl", res.NetPL),
	)
	return res, nil
}

// dispatch hands queued order events to the strategy until none are left.
// Placing orders from OnOrderEvent queues more events, picked up by the
// next pass.
func (r *Runner) dispatch(ctx context.Context) error {
	for {
		evs := r.Engine.DrainEvents()
		if len(evs) == 0 {
			return nil
		}
		for _, ev := range evs {
			if ev.Status == broker.StatusFilled {
				r.fills++
				if ev.Direction == broker.Sell {
					if o, ok := r.Engine.Order(ev.OrderID); ok {
						tag := o.Tag()
						if tag == "" {
							tag = "signal"
						}
						r.exits[tag]++
					}
				}
			}
			if err := r.Strategy.OnOrderEvent(ctx, ev); err != nil {
				return err
			}
		}
	}
}
