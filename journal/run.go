package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

// Run mirrors the backtest_runs table.
type Run struct {
	RunID   string
	Created time.Time

	Symbol   string
	Strategy string
	Config   []byte // strategy config as JSON

	Start time.Time
	End   time.Time
	Bars  int

	Fills  int
	Trades int
	Wins   int
	Losses int

	StartCash decimal.Decimal
	EndEquity decimal.Decimal
	NetPL     decimal.Decimal
	ReturnPct decimal.Decimal
}
