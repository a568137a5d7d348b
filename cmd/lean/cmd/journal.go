package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nkaradzhov/lean/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect a SQLite backtest journal",
}

var journalShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the summary and fills of one run",
	Long: `Print a recorded run from a SQLite journal.

Example:
  lean journal show --db lean.db --run 01HV...`,
	RunE: runJournalShow,
}

var (
	journalDBPath string
	journalRunID  string
	journalEquity bool
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalShowCmd)

	journalShowCmd.Flags().StringVar(&journalDBPath, "db", "", "path to SQLite journal (required)")
	journalShowCmd.Flags().StringVar(&journalRunID, "run", "", "run id (required)")
	journalShowCmd.Flags().BoolVar(&journalEquity, "equity", false, "also print the equity curve")
	journalShowCmd.MarkFlagRequired("db")
	journalShowCmd.MarkFlagRequired("run")
}

func runJournalShow(cmd *cobra.Command, args []string) error {
	db, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	run, err := db.GetRun(ctx, journalRunID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s (%s %s)\n", run.RunID, run.Strategy, run.Symbol)
	fmt.Fprintf(out, "  %s .. %s, %d bars\n", run.Start.Format(time.RFC3339), run.End.Format(time.RFC3339), run.Bars)
	fmt.Fprintf(out, "  trades %d (wins %d, losses %d), net P/L %s (%s%%)\n\n",
		run.Trades, run.Wins, run.Losses, run.NetPL.StringFixed(2), run.ReturnPct.StringFixed(2))

	fills, err := db.ListFills(ctx, journalRunID)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tORDER\tTYPE\tSIDE\tQTY\tPRICE\tTAG")
	for _, f := range fills {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			f.Time.UTC().Format(time.RFC3339), f.OrderID, f.Type, f.Direction, f.Quantity, f.Price, f.Tag)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if !journalEquity {
		return nil
	}
	curve, err := db.ListEquity(ctx, journalRunID)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tCASH\tHOLDINGS\tPRICE\tEQUITY")
	for _, e := range curve {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.Time.UTC().Format(time.RFC3339), e.Cash.StringFixed(2), e.Holdings, e.Price, e.Equity.StringFixed(2))
	}
	return tw.Flush()
}
