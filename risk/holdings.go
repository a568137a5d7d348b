package risk

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Inputs describe a "hold fraction of equity in one asset" request.
type Inputs struct {
	Equity   decimal.Decimal
	Fraction decimal.Decimal // 1.0 is the whole account
	Price    decimal.Decimal
	Holding  decimal.Decimal // signed quantity already held
	LotSize  decimal.Decimal // zero means no rounding
}

type Result struct {
	Target decimal.Decimal // quantity to hold after the order
	Delta  decimal.Decimal // signed order quantity
	Value  decimal.Decimal // Target at Price
}

// TargetHoldings sizes the order that moves Holding to Fraction of Equity.
// The target is rounded down to LotSize so the order never needs more cash
// than equity allows.
func TargetHoldings(in Inputs) (Result, error) {
	if !in.Price.IsPositive() {
		return Result{}, fmt.Errorf("risk: price must be positive, got %s", in.Price)
	}
	if in.Fraction.IsNegative() {
		return Result{}, fmt.Errorf("risk: negative fraction %s (short positions are not supported)", in.Fraction)
	}

	target := in.Equity.Mul(in.Fraction).Div(in.Price)
	if in.LotSize.IsPositive() {
		target = target.Div(in.LotSize).Floor().Mul(in.LotSize)
	}
	if target.IsNegative() {
		target = decimal.Zero
	}

	return Result{
		Target: target,
		Delta:  target.Sub(in.Holding),
		Value:  target.Mul(in.Price),
	}, nil
}
