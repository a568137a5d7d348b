package journal

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordFill(f FillRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO fills
		(run_id, order_id, symbol, time, type, direction, quantity, price, tag)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.RunID, f.OrderID, f.Symbol, f.Time, f.Type, f.Direction,
		f.Quantity, f.Price, f.Tag,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(run_id, time, cash, holdings, price, equity)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Time, e.Cash, e.Holdings, e.Price, e.Equity,
	)
	return err
}

func (j *SQLite) RecordRun(ctx context.Context, r Run) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO backtest_runs
		(run_id, created, symbol, strategy, config, start_time, end_time, bars,
		 fills, trades, wins, losses, start_cash, end_equity, net_pl, return_pct)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Symbol, r.Strategy, r.Config, r.Start, r.End, r.Bars,
		r.Fills, r.Trades, r.Wins, r.Losses, r.StartCash, r.EndEquity, r.NetPL, r.ReturnPct,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
