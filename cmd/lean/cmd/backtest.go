package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nkaradzhov/lean/backtest"
	"github.com/nkaradzhov/lean/broker"
	"github.com/nkaradzhov/lean/config"
	"github.com/nkaradzhov/lean/journal"
	"github.com/nkaradzhov/lean/market"
	"github.com/nkaradzhov/lean/pkg/id"
	"github.com/nkaradzhov/lean/pkg/logger"
	"github.com/nkaradzhov/lean/sim"
	"github.com/nkaradzhov/lean/strategy"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run the strategy over a bar CSV file",
	Long: `Replay historical bars through the strategy and the simulated exchange.

Bars are read from a CSV file with the columns
  time,open,high,low,close[,volume]
where time is RFC3339 and marks the start of each bar.

Example:
  lean backtest -f lean.yaml --data data/LTCUSD-minute.csv --progress`,
	RunE: runBacktest,
}

var (
	backtestConfigPath string
	backtestDataPath   string
	backtestProgress   bool
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&backtestConfigPath, "file", "f", "", "path to config file (YAML or JSON) (required)")
	backtestCmd.Flags().StringVar(&backtestDataPath, "data", "", "bar CSV file (overrides backtest.data_file)")
	backtestCmd.Flags().BoolVar(&backtestProgress, "progress", false, "show a progress bar")
	backtestCmd.MarkFlagRequired("file")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(backtestConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if backtestDataPath != "" {
		cfg.Backtest.DataFile = backtestDataPath
	}
	if cfg.Backtest.DataFile == "" {
		return fmt.Errorf("no bar data: set backtest.data_file or pass --data")
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runID := id.New()
	log = log.With(zap.String("run_id", runID))

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	engine := sim.NewEngine(broker.Account{
		ID:       cfg.Account.ID,
		Currency: cfg.Account.Currency,
		Cash:     decimal.NewFromFloat(cfg.Account.Cash),
	}, j,
		sim.WithRunID(runID),
		sim.WithLogger(log.Named("sim")),
		sim.WithSeed(cfg.Backtest.Seed),
	)

	ctrl, err := strategy.New(cfg.Strategy, engine, log.Named("strategy"))
	if err != nil {
		return err
	}

	from, to, err := cfg.Backtest.Window()
	if err != nil {
		return err
	}
	feed, err := backtest.NewCSVBarFeed(cfg.Backtest.DataFile, cfg.Strategy.Symbol, cfg.Strategy.Period(), from, to)
	if err != nil {
		return fmt.Errorf("open bars: %w", err)
	}

	opts := backtest.RunnerOptions{
		RunID:          runID,
		Symbol:         cfg.Strategy.Symbol,
		Mode:           ctrl.Mode().String(),
		LiquidateAtEnd: cfg.Backtest.LiquidateAtEnd,
		Log:            log,
	}
	if backtestProgress {
		bar := progressbar.DefaultBytes(feed.Size(), "backtest")
		opts.OnBar = func(market.Bar) { _ = bar.Set64(feed.Offset()) }
		defer bar.Finish()
	}

	runner := &backtest.Runner{
		Engine:   engine,
		Feed:     feed,
		Strategy: ctrl,
		Options:  opts,
	}

	log.Info("starting backtest",
		zap.String("symbol", cfg.Strategy.Symbol),
		zap.String("mode", cfg.Strategy.Mode),
		zap.String("data", cfg.Backtest.DataFile),
	)

	res, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	backtest.PrintResult(out, res)

	if db, ok := j.(*journal.SQLite); ok {
		raw, _ := json.Marshal(cfg.Strategy)
		if err := db.RecordRun(ctx, res.Run(time.Now().UTC(), raw)); err != nil {
			return fmt.Errorf("record run: %w", err)
		}
	}

	switch cfg.Journal.Type {
	case "csv":
		fmt.Fprintf(out, "\nResults saved to:\n  - %s\n  - %s\n", cfg.Journal.FillsFile, cfg.Journal.EquityFile)
	case "sqlite":
		fmt.Fprintf(out, "\nResults saved to: %s (run %s)\n", cfg.Journal.DBPath, runID)
	}
	return nil
}

func newLogger(lc config.LogConfig) (*zap.Logger, error) {
	level, format := lc.Level, lc.Format
	if logLevel != "" {
		level = logLevel
	}
	if logFormat != "" {
		format = logFormat
	}
	return logger.New(level, format)
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "csv":
		return journal.NewCSV(jc.FillsFile, jc.EquityFile)
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	default:
		return journal.Discard{}, nil
	}
}
