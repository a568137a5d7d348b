package sim

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nkaradzhov/lean/broker"
)

// Order is the engine's record of one order. It implements broker.Ticket;
// its status changes as the engine processes bars, so read it from the
// goroutine that drives the engine.
type Order struct {
	id       string
	symbol   string
	typ      broker.OrderType
	quantity decimal.Decimal
	stop     decimal.Decimal
	limit    decimal.Decimal
	tag      string
	status   broker.OrderStatus

	triggered bool
	created   time.Time

	fillPrice decimal.Decimal
	fillTime  time.Time
}

func (o *Order) ID() string                  { return o.id }
func (o *Order) Symbol() string              { return o.symbol }
func (o *Order) Type() broker.OrderType      { return o.typ }
func (o *Order) Quantity() decimal.Decimal   { return o.quantity }
func (o *Order) StopPrice() decimal.Decimal  { return o.stop }
func (o *Order) LimitPrice() decimal.Decimal { return o.limit }
func (o *Order) Tag() string                 { return o.tag }
func (o *Order) Status() broker.OrderStatus  { return o.status }

// Triggered reports whether a stop-limit order's stop has been touched.
func (o *Order) Triggered() bool { return o.triggered }

func (o *Order) FillPrice() decimal.Decimal { return o.fillPrice }
func (o *Order) FillTime() time.Time        { return o.fillTime }

func (o *Order) direction() broker.Direction {
	return broker.DirectionOf(o.quantity)
}
