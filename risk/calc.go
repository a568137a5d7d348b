package risk

import "github.com/shopspring/decimal"

// PlannedRisk is the account-currency loss if the stop is hit.
func PlannedRisk(quantity, entry, stop decimal.Decimal) decimal.Decimal {
	return quantity.Abs().Mul(entry.Sub(stop).Abs())
}

// RR is reward over risk for a bracket around entry. Zero when the stop
// sits at the entry price.
func RR(entry, stop, takeProfit decimal.Decimal) decimal.Decimal {
	risk := entry.Sub(stop).Abs()
	if risk.IsZero() {
		return decimal.Zero
	}
	return takeProfit.Sub(entry).Abs().Div(risk)
}
