// journal/schema.go
package journal

// Decimal columns are TEXT so values round-trip exactly.
const Schema = `
CREATE TABLE IF NOT EXISTS fills (
	run_id TEXT NOT NULL,
	order_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	time DATETIME NOT NULL,
	type TEXT NOT NULL,
	direction TEXT NOT NULL,
	quantity TEXT NOT NULL,
	price TEXT NOT NULL,
	tag TEXT NOT NULL,
	PRIMARY KEY (run_id, order_id)
);

CREATE TABLE IF NOT EXISTS equity (
	run_id TEXT NOT NULL,
	time DATETIME NOT NULL,
	cash TEXT NOT NULL,
	holdings TEXT NOT NULL,
	price TEXT NOT NULL,
	equity TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_run_time ON equity(run_id, time);

CREATE TABLE IF NOT EXISTS backtest_runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	symbol TEXT NOT NULL,
	strategy TEXT NOT NULL,
	config BLOB,
	start_time DATETIME NOT NULL,
	end_time DATETIME NOT NULL,
	bars INTEGER NOT NULL,
	fills INTEGER NOT NULL,
	trades INTEGER NOT NULL,
	wins INTEGER NOT NULL,
	losses INTEGER NOT NULL,
	start_cash TEXT NOT NULL,
	end_equity TEXT NOT NULL,
	net_pl TEXT NOT NULL,
	return_pct TEXT NOT NULL
);
`
