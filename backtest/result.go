package backtest

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nkaradzhov/lean/journal"
)

// Result is a lightweight summary of a backtest run.
type Result struct {
	RunID  string
	Symbol string
	Mode   string

	Start time.Time
	End   time.Time
	Bars  int

	StartCash decimal.Decimal
	EndCash   decimal.Decimal
	EndEquity decimal.Decimal
	NetPL     decimal.Decimal
	ReturnPct decimal.Decimal

	MaxDrawdownPct decimal.Decimal
	Position       decimal.Decimal // open quantity at the end

	Fills  int
	Trades int
	Wins   int
	Losses int

	// Sell fills keyed by order tag; untagged signal exits count as "signal".
	ExitsByTag map[string]int
}

func (r Result) WinRate() float64 {
	if r.Trades == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Trades) * 100
}

// Run converts r into the journal's run summary row.
func (r Result) Run(created time.Time, config []byte) journal.Run {
	return journal.Run{
		RunID:     r.RunID,
		Created:   created,
		Symbol:    r.Symbol,
		Strategy:  r.Mode,
		Config:    config,
		Start:     r.Start,
		End:       r.End,
		Bars:      r.Bars,
		Fills:     r.Fills,
		Trades:    r.Trades,
		Wins:      r.Wins,
		Losses:    r.Losses,
		StartCash: r.StartCash,
		EndEquity: r.EndEquity,
		NetPL:     r.NetPL,
		ReturnPct: r.ReturnPct,
	}
}

func PrintResult(w io.Writer, r Result) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	if r.RunID != "" {
		fmt.Fprintf(w, "Run ID:        %s\n", r.RunID)
	}
	fmt.Fprintf(w, "Symbol:        %s\n", r.Symbol)
	fmt.Fprintf(w, "Mode:          %s\n", r.Mode)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Period")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start:         %s\n", r.Start.Format(time.RFC3339))
	fmt.Fprintf(w, "End:           %s\n", r.End.Format(time.RFC3339))
	fmt.Fprintf(w, "Bars:          %d\n", r.Bars)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Fills:         %d\n", r.Fills)
	fmt.Fprintf(w, "Trades:        %d\n", r.Trades)
	fmt.Fprintf(w, "Wins:          %d\n", r.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", r.Losses)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", r.WinRate())

	if len(r.ExitsByTag) > 0 {
		tags := make([]string, 0, len(r.ExitsByTag))
		for tag := range r.ExitsByTag {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		for _, tag := range tags {
			fmt.Fprintf(w, "  %-12s %d\n", tag+":", r.ExitsByTag[tag])
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Cash:    %s\n", r.StartCash.StringFixed(2))
	fmt.Fprintf(w, "End Cash:      %s\n", r.EndCash.StringFixed(2))
	fmt.Fprintf(w, "End Equity:    %s\n", r.EndEquity.StringFixed(2))
	fmt.Fprintf(w, "Net P/L:       %s\n", r.NetPL.StringFixed(2))
	fmt.Fprintf(w, "Return:        %s%%\n", r.ReturnPct.StringFixed(2))
	if r.MaxDrawdownPct.IsPositive() {
		fmt.Fprintf(w, "Max Drawdown:  %s%%\n", r.MaxDrawdownPct.StringFixed(2))
	}
	if !r.Position.IsZero() {
		fmt.Fprintf(w, "Open Position: %s\n", r.Position)
	}
}
