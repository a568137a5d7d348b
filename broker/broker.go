package broker

import (
	"context"

	"github.com/shopspring/decimal"
)

// Portfolio answers holdings questions for the account.
type Portfolio interface {
	GetAccount(ctx context.Context) (Account, error)
	// Quantity is the signed quantity held for symbol; zero when flat.
	Quantity(symbol string) decimal.Decimal
}

// OrderPlacer submits and cancels resting orders. Requests are
// fire-and-forget: their outcome arrives later as an OrderEvent.
type OrderPlacer interface {
	StopLimitOrder(ctx context.Context, symbol string, quantity, stop, limit decimal.Decimal, tag string) (Ticket, error)
	CancelOrder(ctx context.Context, orderID string) error
}

type Broker interface {
	Portfolio
	OrderPlacer

	// SetHoldings moves the position in symbol to fraction of account equity.
	SetHoldings(ctx context.Context, symbol string, fraction decimal.Decimal) (Ticket, error)
	// Liquidate sells the whole position in symbol. It returns a nil ticket
	// when there is nothing to sell.
	Liquidate(ctx context.Context, symbol string) (Ticket, error)
}

// OrderEventHandler consumes order status changes.
type OrderEventHandler interface {
	OnOrderEvent(ctx context.Context, ev OrderEvent) error
}

type Account struct {
	ID       string
	Currency string
	Cash     decimal.Decimal
	Equity   decimal.Decimal
}
