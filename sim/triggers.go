package sim

import (
	"github.com/shopspring/decimal"

	"github.com/nkaradzhov/lean/broker"
	"github.com/nkaradzhov/lean/market"
)

// stopLimitFill advances a resting stop-limit order through bar b.
//
// A sell triggers once the low trades below the stop and then fills at the
// limit when the bar closes at or above it. A buy triggers once the high
// trades above the stop and fills at the limit when the bar closes at or
// below it. The trigger is sticky across bars.
func stopLimitFill(o *Order, b market.Bar) (decimal.Decimal, bool) {
	low := decimal.NewFromFloat(b.Low)
	high := decimal.NewFromFloat(b.High)
	closePx := decimal.NewFromFloat(b.Close)

	switch o.direction() {
	case broker.Sell:
		if o.triggered || low.LessThan(o.stop) {
			o.triggered = true
			if closePx.GreaterThanOrEqual(o.limit) {
				return o.limit, true
			}
		}
	case broker.Buy:
		if o.triggered || high.GreaterThan(o.stop) {
			o.triggered = true
			if closePx.LessThanOrEqual(o.limit) {
				return o.limit, true
			}
		}
	}
	return decimal.Decimal{}, false
}
