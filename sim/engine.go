package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nkaradzhov/lean/broker"
	"github.com/nkaradzhov/lean/journal"
	"github.com/nkaradzhov/lean/market"
	"github.com/nkaradzhov/lean/pkg/id"
	"github.com/nkaradzhov/lean/pkg/logger"
	"github.com/nkaradzhov/lean/risk"
)

var (
	ErrOrderNotFound     = errors.New("sim: order not found")
	ErrOrderClosed       = errors.New("sim: order is closed")
	ErrNoPrice           = errors.New("sim: no price")
	ErrInsufficientFunds = errors.New("sim: insufficient funds")
)

// Engine is an in-memory cash-account exchange. Market orders fill at the
// last bar close; stop-limit orders rest until UpdateBar fills them. Order
// events are queued and handed out by DrainEvents, never delivered inline.
type Engine struct {
	mu sync.Mutex

	acct    broker.Account
	runID   string
	journal journal.Journal
	log     *zap.Logger
	ids     *id.Generator

	now       time.Time
	last      map[string]market.Bar
	positions map[string]*position
	orders    map[string]*Order
	open      []*Order
	events    []broker.OrderEvent
	trades    []Trade
}

type Option func(*Engine)

// WithRunID tags every journal record with id.
func WithRunID(runID string) Option {
	return func(e *Engine) { e.runID = runID }
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = logger.OrNop(l) }
}

// WithSeed makes order ids reproducible across runs.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.ids = id.NewSeeded(seed, func() time.Time { return e.now })
	}
}

func NewEngine(acct broker.Account, j journal.Journal, opts ...Option) *Engine {
	if j == nil {
		j = journal.Discard{}
	}
	acct.Equity = acct.Cash

	e := &Engine{
		acct:      acct,
		journal:   j,
		log:       zap.NewNop(),
		last:      make(map[string]market.Bar),
		positions: make(map[string]*position),
		orders:    make(map[string]*Order),
	}
	e.ids = id.NewSeeded(1, func() time.Time { return e.now })

	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) GetAccount(ctx context.Context) (broker.Account, error) {
	if err := ctx.Err(); err != nil {
		return broker.Account{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.revalueLocked()
	return e.acct, nil
}

func (e *Engine) Quantity(symbol string) decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()

	if p, ok := e.positions[symbol]; ok {
		return p.quantity
	}
	return decimal.Zero
}

// SetHoldings places a market order that moves the position in symbol to
// fraction of account equity. It returns a nil ticket when the change is
// below the instrument's minimum order size.
func (e *Engine) SetHoldings(ctx context.Context, symbol string, fraction decimal.Decimal) (broker.Ticket, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	bar, ok := e.last[symbol]
	if !ok {
		return nil, fmt.Errorf("set holdings %s: %w", symbol, ErrNoPrice)
	}
	e.revalueLocked()

	var lot, minSize decimal.Decimal
	if meta, ok := market.Lookup(symbol); ok {
		lot = decimal.NewFromFloat(meta.LotSize)
		minSize = decimal.NewFromFloat(meta.MinimumOrderSize)
	}

	res, err := risk.TargetHoldings(risk.Inputs{
		Equity:   e.acct.Equity,
		Fraction: fraction,
		Price:    decimal.NewFromFloat(bar.Close),
		Holding:  e.quantityLocked(symbol),
		LotSize:  lot,
	})
	if err != nil {
		return nil, fmt.Errorf("set holdings %s: %w", symbol, err)
	}
	if res.Delta.IsZero() || res.Delta.Abs().LessThan(minSize) {
		e.log.Debug("set holdings: nothing to do",
			zap.String("symbol", symbol),
			zap.Stringer("target", res.Target),
			zap.Stringer("delta", res.Delta),
		)
		return nil, nil
	}

	return e.marketOrderLocked(symbol, res.Delta, "")
}

// Liquidate sells the whole position in symbol at market. Resting orders are
// left alone. It returns a nil ticket when already flat.
func (e *Engine) Liquidate(ctx context.Context, symbol string) (broker.Ticket, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	qty := e.quantityLocked(symbol)
	if qty.IsZero() {
		return nil, nil
	}
	return e.marketOrderLocked(symbol, qty.Neg(), "liquidate")
}

func (e *Engine) StopLimitOrder(ctx context.Context, symbol string, quantity, stop, limit decimal.Decimal, tag string) (broker.Ticket, error) {
	if quantity.IsZero() {
		return nil, fmt.Errorf("stop limit order %s: zero quantity", symbol)
	}
	if !stop.IsPositive() || !limit.IsPositive() {
		return nil, fmt.Errorf("stop limit order %s: prices must be positive (stop %s, limit %s)", symbol, stop, limit)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	o := e.newOrderLocked(symbol, broker.StopLimit, quantity, tag)
	o.stop = stop
	o.limit = limit
	o.status = broker.StatusSubmitted
	e.open = append(e.open, o)
	e.emitLocked(o, broker.StatusSubmitted, "")

	e.log.Debug("stop limit order submitted",
		zap.String("order_id", o.id),
		zap.String("symbol", symbol),
		zap.String("tag", tag),
		zap.Stringer("quantity", quantity),
		zap.Stringer("stop", stop),
		zap.Stringer("limit", limit),
	)
	return o, nil
}

func (e *Engine) CancelOrder(ctx context.Context, orderID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, ok := e.orders[orderID]
	if !ok {
		return fmt.Errorf("cancel %s: %w", orderID, ErrOrderNotFound)
	}
	if o.status.Closed() {
		return fmt.Errorf("cancel %s (%s): %w", orderID, o.status, ErrOrderClosed)
	}

	o.status = broker.StatusCanceled
	e.removeOpenLocked(o)
	e.emitLocked(o, broker.StatusCanceled, "")
	return nil
}

// UpdateBar records b as the latest price for its symbol, fills any resting
// orders it triggers and journals an equity snapshot.
func (e *Engine) UpdateBar(ctx context.Context, b market.Bar) error {
	if !b.Valid() {
		return fmt.Errorf("sim: invalid bar %s at %s", b.Symbol, b.Time)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.now = b.EndTime()
	e.last[b.Symbol] = b

	var errs []error
	resting := append([]*Order(nil), e.open...)
	for _, o := range resting {
		if o.symbol != b.Symbol || o.status.Closed() {
			continue
		}
		price, ok := stopLimitFill(o, b)
		if !ok {
			continue
		}
		e.removeOpenLocked(o)
		if err := e.fillLocked(o, price); err != nil {
			errs = append(errs, err)
		}
	}

	e.revalueLocked()
	err := e.journal.RecordEquity(journal.EquitySnapshot{
		RunID:    e.runID,
		Time:     e.now,
		Cash:     e.acct.Cash,
		Holdings: e.quantityLocked(b.Symbol),
		Price:    decimal.NewFromFloat(b.Close),
		Equity:   e.acct.Equity,
	})
	if err != nil {
		errs = append(errs, fmt.Errorf("sim: record equity: %w", err))
	}
	return errors.Join(errs...)
}

// DrainEvents returns the queued order events in emission order and empties
// the queue.
func (e *Engine) DrainEvents() []broker.OrderEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := e.events
	e.events = nil
	return out
}

func (e *Engine) Order(orderID string) (*Order, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, ok := e.orders[orderID]
	return o, ok
}

// OpenOrders returns resting orders for symbol, oldest first.
func (e *Engine) OpenOrders(symbol string) []*Order {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []*Order
	for _, o := range e.open {
		if o.symbol == symbol {
			out = append(out, o)
		}
	}
	return out
}

// Trades returns the completed round trips.
func (e *Engine) Trades() []Trade {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]Trade(nil), e.trades...)
}

func (e *Engine) LastBar(symbol string) (market.Bar, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, ok := e.last[symbol]
	return b, ok
}

func (e *Engine) marketOrderLocked(symbol string, qty decimal.Decimal, tag string) (broker.Ticket, error) {
	bar, ok := e.last[symbol]
	if !ok {
		return nil, fmt.Errorf("market order %s: %w", symbol, ErrNoPrice)
	}

	o := e.newOrderLocked(symbol, broker.Market, qty, tag)
	o.status = broker.StatusSubmitted
	e.emitLocked(o, broker.StatusSubmitted, "")

	if err := e.fillLocked(o, decimal.NewFromFloat(bar.Close)); err != nil {
		return o, err
	}
	return o, nil
}

// fillLocked settles o at price, or marks it Invalid when the account
// cannot cover it.
func (e *Engine) fillLocked(o *Order, price decimal.Decimal) error {
	held := e.quantityLocked(o.symbol)

	if o.quantity.IsPositive() {
		cost := o.quantity.Mul(price)
		if cost.GreaterThan(e.acct.Cash) {
			e.rejectLocked(o, fmt.Sprintf("%v: cost %s, cash %s", ErrInsufficientFunds, cost.StringFixed(2), e.acct.Cash.StringFixed(2)))
			return nil
		}
	} else if o.quantity.Abs().GreaterThan(held) {
		e.rejectLocked(o, fmt.Sprintf("%v: sell %s, holding %s", ErrInsufficientFunds, o.quantity.Abs(), held))
		return nil
	}

	e.acct.Cash = e.acct.Cash.Sub(o.quantity.Mul(price))

	p, ok := e.positions[o.symbol]
	if !ok {
		p = &position{}
		e.positions[o.symbol] = p
	}
	if t := p.apply(o.id, o.symbol, o.quantity, price, e.now, o.tag); t != nil {
		e.trades = append(e.trades, *t)
	}

	o.status = broker.StatusFilled
	o.fillPrice = price
	o.fillTime = e.now

	e.events = append(e.events, broker.OrderEvent{
		OrderID:      o.id,
		Symbol:       o.symbol,
		Time:         e.now,
		Status:       broker.StatusFilled,
		Direction:    o.direction(),
		FillPrice:    price,
		FillQuantity: o.quantity,
	})

	e.log.Debug("order filled",
		zap.String("order_id", o.id),
		zap.String("symbol", o.symbol),
		zap.Stringer("type", o.typ),
		zap.Stringer("quantity", o.quantity),
		zap.Stringer("price", price),
		zap.String("tag", o.tag),
	)

	err := e.journal.RecordFill(journal.FillRecord{
		RunID:     e.runID,
		OrderID:   o.id,
		Symbol:    o.symbol,
		Time:      e.now,
		Type:      o.typ.String(),
		Direction: o.direction().String(),
		Quantity:  o.quantity,
		Price:     price,
		Tag:       o.tag,
	})
	if err != nil {
		return fmt.Errorf("sim: record fill %s: %w", o.id, err)
	}
	return nil
}

func (e *Engine) rejectLocked(o *Order, msg string) {
	o.status = broker.StatusInvalid
	e.emitLocked(o, broker.StatusInvalid, msg)
	e.log.Warn("order rejected",
		zap.String("order_id", o.id),
		zap.String("symbol", o.symbol),
		zap.String("reason", msg),
	)
}

func (e *Engine) newOrderLocked(symbol string, typ broker.OrderType, qty decimal.Decimal, tag string) *Order {
	o := &Order{
		id:       e.ids.New(),
		symbol:   symbol,
		typ:      typ,
		quantity: qty,
		tag:      tag,
		status:   broker.StatusNew,
		created:  e.now,
	}
	e.orders[o.id] = o
	return o
}

func (e *Engine) emitLocked(o *Order, status broker.OrderStatus, msg string) {
	e.events = append(e.events, broker.OrderEvent{
		OrderID:   o.id,
		Symbol:    o.symbol,
		Time:      e.now,
		Status:    status,
		Direction: o.direction(),
		Message:   msg,
	})
}

func (e *Engine) removeOpenLocked(o *Order) {
	for i, x := range e.open {
		if x == o {
			e.open = append(e.open[:i], e.open[i+1:]...)
			return
		}
	}
}

func (e *Engine) quantityLocked(symbol string) decimal.Decimal {
	if p, ok := e.positions[symbol]; ok {
		return p.quantity
	}
	return decimal.Zero
}

// revalueLocked marks every position to its last close.
func (e *Engine) revalueLocked() {
	equity := e.acct.Cash
	for symbol, p := range e.positions {
		if p.quantity.IsZero() {
			continue
		}
		if b, ok := e.last[symbol]; ok {
			equity = equity.Add(p.quantity.Mul(decimal.NewFromFloat(b.Close)))
		}
	}
	e.acct.Equity = equity
}
