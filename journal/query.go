package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ListFills returns the fills of one run in execution order.
func (j *SQLite) ListFills(ctx context.Context, runID string) ([]FillRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, order_id, symbol, time, type, direction, quantity, price, tag
		FROM fills
		WHERE run_id = ?
		ORDER BY time ASC, rowid ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FillRecord
	for rows.Next() {
		var rec FillRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.OrderID,
			&rec.Symbol,
			&rec.Time,
			&rec.Type,
			&rec.Direction,
			&rec.Quantity,
			&rec.Price,
			&rec.Tag,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquity returns the equity curve of one run.
func (j *SQLite) ListEquity(ctx context.Context, runID string) ([]EquitySnapshot, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, time, cash, holdings, price, equity
		FROM equity
		WHERE run_id = ?
		ORDER BY time ASC, rowid ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var rec EquitySnapshot
		if err := rows.Scan(
			&rec.RunID,
			&rec.Time,
			&rec.Cash,
			&rec.Holdings,
			&rec.Price,
			&rec.Equity,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetRun returns a single run summary by ID.
func (j *SQLite) GetRun(ctx context.Context, runID string) (Run, error) {
	var r Run
	row := j.db.QueryRowContext(ctx, `
		SELECT run_id, created, symbol, strategy, config, start_time, end_time, bars,
		       fills, trades, wins, losses, start_cash, end_equity, net_pl, return_pct
		FROM backtest_runs
		WHERE run_id = ?`, runID)

	err := row.Scan(
		&r.RunID, &r.Created, &r.Symbol, &r.Strategy, &r.Config, &r.Start, &r.End, &r.Bars,
		&r.Fills, &r.Trades, &r.Wins, &r.Losses, &r.StartCash, &r.EndEquity, &r.NetPL, &r.ReturnPct,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, fmt.Errorf("run %q not found", runID)
		}
		return Run{}, err
	}
	return r, nil
}
