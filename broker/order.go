package broker

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus int

const (
	StatusNew OrderStatus = iota
	StatusSubmitted
	StatusPartiallyFilled
	StatusFilled
	StatusCanceled
	StatusInvalid
)

func (s OrderStatus) String() string {
	switch s {
	case StatusNew:
		return "New"
	case StatusSubmitted:
		return "Submitted"
	case StatusPartiallyFilled:
		return "PartiallyFilled"
	case StatusFilled:
		return "Filled"
	case StatusCanceled:
		return "Canceled"
	case StatusInvalid:
		return "Invalid"
	default:
		return fmt.Sprintf("OrderStatus(%d)", int(s))
	}
}

// Pending reports whether the order has not reached the book's matching
// stage yet and can still be cancelled.
func (s OrderStatus) Pending() bool {
	return s == StatusNew || s == StatusSubmitted
}

// Closed reports a terminal status.
func (s OrderStatus) Closed() bool {
	return s == StatusFilled || s == StatusCanceled || s == StatusInvalid
}

type Direction int

const (
	Buy Direction = iota
	Sell
	Hold
)

func (d Direction) String() string {
	switch d {
	case Buy:
		return "Buy"
	case Sell:
		return "Sell"
	case Hold:
		return "Hold"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// DirectionOf maps a signed quantity to a direction.
func DirectionOf(quantity decimal.Decimal) Direction {
	switch quantity.Sign() {
	case 1:
		return Buy
	case -1:
		return Sell
	default:
		return Hold
	}
}

type OrderType int

const (
	Market OrderType = iota
	StopLimit
)

func (t OrderType) String() string {
	switch t {
	case Market:
		return "Market"
	case StopLimit:
		return "StopLimit"
	default:
		return fmt.Sprintf("OrderType(%d)", int(t))
	}
}

// Ticket is a live handle on a submitted order. Status changes as the
// order system processes it.
type Ticket interface {
	ID() string
	Symbol() string
	Type() OrderType
	Quantity() decimal.Decimal
	StopPrice() decimal.Decimal
	LimitPrice() decimal.Decimal
	Tag() string
	Status() OrderStatus
}

// OrderEvent reports a status change of one order. Fill fields are only
// meaningful for Filled and PartiallyFilled events.
type OrderEvent struct {
	OrderID      string
	Symbol       string
	Time         time.Time
	Status       OrderStatus
	Direction    Direction
	FillPrice    decimal.Decimal
	FillQuantity decimal.Decimal
	Message      string
}

func (e OrderEvent) String() string {
	s := fmt.Sprintf("%s %s order %s %s", e.Time.UTC().Format(time.RFC3339), e.Symbol, e.OrderID, e.Status)
	if e.Status == StatusFilled || e.Status == StatusPartiallyFilled {
		s += fmt.Sprintf(" %s %s @ %s", e.Direction, e.FillQuantity.Abs(), e.FillPrice)
	}
	if e.Message != "" {
		s += ": " + e.Message
	}
	return s
}
