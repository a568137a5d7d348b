// Package strategy runs the single-instrument trading loop: indicator
// readings go through the signal evaluator, intents become orders, and
// entry fills get a take-profit and stop-loss bracket.
package strategy

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nkaradzhov/lean/bracket"
	"github.com/nkaradzhov/lean/broker"
	"github.com/nkaradzhov/lean/config"
	"github.com/nkaradzhov/lean/market"
	"github.com/nkaradzhov/lean/pkg/logger"
	"github.com/nkaradzhov/lean/signal"
)

type State int

const (
	Flat State = iota
	Long
)

func (s State) String() string {
	if s == Long {
		return "Long"
	}
	return "Flat"
}

// Controller is not safe for concurrent use; drive it from one event loop.
type Controller struct {
	symbol   string
	broker   broker.Broker
	eval     signal.Evaluator
	src      source
	cons     *market.Consolidator
	brackets *bracket.Manager
	log      *zap.Logger
}

var _ broker.OrderEventHandler = (*Controller)(nil)

func New(cfg config.StrategyConfig, b broker.Broker, log *zap.Logger) (*Controller, error) {
	if b == nil {
		return nil, errors.New("strategy: broker is required")
	}
	if cfg.Symbol == "" {
		return nil, errors.New("strategy: symbol is required")
	}
	log = logger.OrNop(log).With(zap.String("symbol", cfg.Symbol))

	mode, err := signal.ParseMode(cfg.Mode)
	if err != nil {
		return nil, fmt.Errorf("strategy: %w", err)
	}
	eval, err := signal.New(mode, signal.Params{
		Tolerance: cfg.MACD.Tolerance,
		RSILow:    cfg.RSI.Low,
		RSIHigh:   cfg.RSI.High,
	})
	if err != nil {
		return nil, fmt.Errorf("strategy: %w", err)
	}
	src, err := newSource(mode, cfg)
	if err != nil {
		return nil, fmt.Errorf("strategy: %w", err)
	}

	every := cfg.Every
	if every == 0 {
		every = 1
	}
	cons, err := market.NewConsolidator(every)
	if err != nil {
		return nil, fmt.Errorf("strategy: %w", err)
	}

	ind := src.Indicator()
	log.Debug("strategy configured",
		zap.Stringer("mode", mode),
		zap.String("indicator", ind.Name()),
		zap.Int("warmup_bars", ind.Warmup()*cons.Every()),
	)

	return &Controller{
		symbol: cfg.Symbol,
		broker: b,
		eval:   eval,
		src:    src,
		cons:   cons,
		brackets: bracket.New(b, cfg.Symbol,
			decimal.NewFromFloat(cfg.SecureProfitPercent),
			decimal.NewFromFloat(cfg.StopLossPercent),
			log.Named("bracket"),
		),
		log: log,
	}, nil
}

func (c *Controller) Symbol() string    { return c.symbol }
func (c *Controller) Mode() signal.Mode { return c.eval.Mode() }

// State is derived from the broker's position; the controller keeps no
// copy of it.
func (c *Controller) State() State {
	if c.broker.Quantity(c.symbol).IsPositive() {
		return Long
	}
	return Flat
}

// Brackets returns the bracket orders currently tracked.
func (c *Controller) Brackets() []broker.Ticket {
	return c.brackets.Tracked()
}

// OnData accepts raw bars and forwards each consolidated bar to OnBar.
func (c *Controller) OnData(ctx context.Context, b market.Bar) error {
	if b.Symbol != c.symbol {
		return nil
	}
	merged, ok := c.cons.Update(b)
	if !ok {
		return nil
	}
	return c.OnBar(ctx, merged)
}

// OnBar evaluates one consolidated bar and places at most one order.
func (c *Controller) OnBar(ctx context.Context, b market.Bar) error {
	c.src.Update(b)

	c.log.Debug("plot",
		append(c.src.Plot(),
			zap.Time("time", b.EndTime()),
			zap.Float64("open", b.Open),
			zap.Float64("close", b.Close),
		)...,
	)

	qty := c.broker.Quantity(c.symbol)
	intent, err := c.eval.Evaluate(c.src.Reading(), qty)
	if err != nil {
		c.log.Warn("evaluation failed, skipping bar", zap.Error(err))
		return nil
	}

	switch intent {
	case signal.EnterLong:
		c.log.Debug("buy", zap.Float64("price", b.Price()), zap.Time("time", b.EndTime()))
		c.brackets.CancelPending(ctx)
		if _, err := c.broker.SetHoldings(ctx, c.symbol, decimal.NewFromInt(1)); err != nil {
			return fmt.Errorf("strategy: enter long: %w", err)
		}
	case signal.ExitLong:
		c.log.Debug("sell", zap.Float64("price", b.Price()), zap.Time("time", b.EndTime()))
		c.brackets.CancelPending(ctx)
		if _, err := c.broker.Liquidate(ctx, c.symbol); err != nil {
			return fmt.Errorf("strategy: exit long: %w", err)
		}
	}
	return nil
}

// OnOrderEvent reacts to fills only. A buy fill opens the bracket; any other
// fill, including a bracket leg, cancels what is left of it. Partial fills
// and rejections are not acted on.
func (c *Controller) OnOrderEvent(ctx context.Context, ev broker.OrderEvent) error {
	c.log.Debug("order event", zap.Stringer("event", ev))

	if ev.Status != broker.StatusFilled || ev.Symbol != c.symbol {
		return nil
	}

	if ev.Direction == broker.Buy {
		return c.brackets.OnEntryFilled(ctx, ev.FillPrice, ev.FillQuantity)
	}

	n := c.brackets.OnExitFilled(ctx)
	c.log.Debug("position closed", zap.Int("cancel_requests", n))
	return nil
}
