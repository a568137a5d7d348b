// Package bracket keeps the protective orders placed after an entry fill.
//
// A bracket is two independent stop-limit sell orders: a take-profit above
// the fill and a stop-loss below it. They are not linked one-cancels-other;
// if one leg fills the other stays live until the next exit fill or the
// next strategy action sweeps it.
package bracket

import (
	"context"
	"errors"
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/nkaradzhov/lean/broker"
	"github.com/nkaradzhov/lean/pkg/logger"
	"github.com/nkaradzhov/lean/risk"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	TagTakeProfit = "take-profit"
	TagStopLoss   = "stop-loss"
)

// Manager owns the set of live bracket tickets. It is driven from a single
// event loop and is not safe for concurrent use.
type Manager struct {
	orders broker.OrderPlacer
	symbol string

	takeProfit decimal.Decimal
	stopLoss   decimal.Decimal

	tickets []broker.Ticket
	log     *zap.Logger
}

// New creates a manager for symbol. takeProfit and stopLoss multiply the
// entry fill price (1.15 and 0.98 place legs 15% above and 2% below); zero
// disables a leg.
func New(orders broker.OrderPlacer, symbol string, takeProfit, stopLoss decimal.Decimal, log *zap.Logger) *Manager {
	return &Manager{
		orders:     orders,
		symbol:     symbol,
		takeProfit: takeProfit,
		stopLoss:   stopLoss,
		log:        logger.OrNop(log).With(zap.String("symbol", symbol)),
	}
}

// Prices returns the trigger price of each leg for a fill at fillPrice.
// A non-positive multiplier yields None for that leg.
func Prices(fillPrice, takeProfit, stopLoss decimal.Decimal) (tp, sl optional.Option[decimal.Decimal]) {
	if takeProfit.IsPositive() {
		tp = optional.Some(fillPrice.Mul(takeProfit))
	}
	if stopLoss.IsPositive() {
		sl = optional.Some(fillPrice.Mul(stopLoss))
	}
	return tp, sl
}

// OnEntryFilled places the bracket for a buy of fillQuantity at fillPrice.
// Each leg sells the filled quantity with stop and limit at the same price.
// Legs that were accepted stay tracked even if the other one fails.
func (m *Manager) OnEntryFilled(ctx context.Context, fillPrice, fillQuantity decimal.Decimal) error {
	qty := fillQuantity.Abs().Neg()
	if qty.IsZero() {
		return nil
	}

	tp, sl := Prices(fillPrice, m.takeProfit, m.stopLoss)

	var errs []error
	place := func(leg optional.Option[decimal.Decimal], tag string) {
		price, err := leg.Take()
		if err != nil {
			return
		}
		m.log.Debug("placing bracket leg",
			zap.String("tag", tag),
			zap.Stringer("quantity", qty),
			zap.Stringer("price", price),
		)
		t, err := m.orders.StopLimitOrder(ctx, m.symbol, qty, price, price, tag)
		if err != nil {
			errs = append(errs, fmt.Errorf("bracket: place %s at %s: %w", tag, price, err))
			return
		}
		m.tickets = append(m.tickets, t)
	}

	place(tp, TagTakeProfit)
	place(sl, TagStopLoss)

	if tp.IsSome() && sl.IsSome() && len(errs) == 0 {
		target, stop := tp.Unwrap(), sl.Unwrap()
		m.log.Info("bracket placed",
			zap.Stringer("entry", fillPrice),
			zap.Stringer("reward_risk", risk.RR(fillPrice, stop, target).Round(2)),
			zap.Stringer("planned_risk", risk.PlannedRisk(qty, fillPrice, stop).Round(2)),
		)
	}

	return errors.Join(errs...)
}

// OnExitFilled drops the bracket once the position has been sold.
func (m *Manager) OnExitFilled(ctx context.Context) int {
	return m.CancelPending(ctx)
}

// CancelPending requests cancellation of every tracked order that is still
// New or Submitted and forgets the whole set. It returns the number of
// cancel requests issued; an empty set is a no-op.
func (m *Manager) CancelPending(ctx context.Context) int {
	n := 0
	for _, t := range m.tickets {
		if !t.Status().Pending() {
			continue
		}
		n++
		if err := m.orders.CancelOrder(ctx, t.ID()); err != nil {
			// the order system settles it later through an order event
			m.log.Debug("cancel request failed",
				zap.String("order_id", t.ID()),
				zap.String("tag", t.Tag()),
				zap.Error(err),
			)
		}
	}
	m.tickets = m.tickets[:0]
	return n
}

// Tracked returns a copy of the tracked tickets.
func (m *Manager) Tracked() []broker.Ticket {
	out := make([]broker.Ticket, len(m.tickets))
	copy(out, m.tickets)
	return out
}

func (m *Manager) Len() int { return len(m.tickets) }
