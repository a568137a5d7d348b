// journal/journal.go
package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

// FillRecord is one executed order.
type FillRecord struct {
	RunID     string
	OrderID   string
	Symbol    string
	Time      time.Time
	Type      string // Market, StopLimit
	Direction string // Buy, Sell
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	Tag       string
}

// EquitySnapshot is the account marked to the last price.
type EquitySnapshot struct {
	RunID    string
	Time     time.Time
	Cash     decimal.Decimal
	Holdings decimal.Decimal
	Price    decimal.Decimal
	Equity   decimal.Decimal
}

type Journal interface {
	RecordFill(FillRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Discard drops every record.
type Discard struct{}

func (Discard) RecordFill(FillRecord) error       { return nil }
func (Discard) RecordEquity(EquitySnapshot) error { return nil }
func (Discard) Close() error                      { return nil }
