package sim

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is one round trip: from flat to long and back to flat.
type Trade struct {
	ID         string
	Symbol     string
	Quantity   decimal.Decimal // peak quantity held
	EntryPrice decimal.Decimal // average cost
	ExitPrice  decimal.Decimal // average exit
	OpenTime   time.Time
	CloseTime  time.Time
	RealizedPL decimal.Decimal
	ExitTag    string // tag of the order that flattened the position
}

func (t Trade) Win() bool { return t.RealizedPL.IsPositive() }

type position struct {
	quantity decimal.Decimal
	avgPrice decimal.Decimal

	// open round trip
	trade     *Trade
	exitValue decimal.Decimal
	exitQty   decimal.Decimal
}

// apply books a fill and returns the round trip it closed, if any.
func (p *position) apply(id, symbol string, qty, price decimal.Decimal, at time.Time, tag string) *Trade {
	if qty.IsPositive() {
		if p.trade == nil {
			p.trade = &Trade{ID: id, Symbol: symbol, OpenTime: at}
			p.exitValue = decimal.Zero
			p.exitQty = decimal.Zero
		}
		cost := p.avgPrice.Mul(p.quantity).Add(price.Mul(qty))
		p.quantity = p.quantity.Add(qty)
		p.avgPrice = cost.Div(p.quantity)
		if p.quantity.GreaterThan(p.trade.Quantity) {
			p.trade.Quantity = p.quantity
		}
		p.trade.EntryPrice = p.avgPrice
		return nil
	}

	sold := qty.Abs()
	pl := price.Sub(p.avgPrice).Mul(sold)
	p.quantity = p.quantity.Sub(sold)

	if p.trade == nil {
		return nil
	}
	p.trade.RealizedPL = p.trade.RealizedPL.Add(pl)
	p.exitValue = p.exitValue.Add(price.Mul(sold))
	p.exitQty = p.exitQty.Add(sold)

	if !p.quantity.IsZero() {
		return nil
	}

	t := p.trade
	t.ExitPrice = p.exitValue.Div(p.exitQty)
	t.CloseTime = at
	t.ExitTag = tag
	p.trade = nil
	p.avgPrice = decimal.Zero
	return t
}
