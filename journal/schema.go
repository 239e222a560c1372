package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	entry_date DATETIME NOT NULL,
	exit_date DATETIME NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	shares REAL NOT NULL,
	pnl REAL NOT NULL,
	commission REAL NOT NULL,
	return_rate REAL NOT NULL,
	holding_days INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshots (
	date DATETIME NOT NULL,
	total_value REAL NOT NULL,
	cash REAL NOT NULL,
	market_value REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_date ON snapshots(date);

CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	strategy TEXT NOT NULL,
	symbol TEXT NOT NULL,
	dataset TEXT NOT NULL,
	start_date DATETIME,
	end_date DATETIME,
	start_cash REAL NOT NULL,
	end_value REAL NOT NULL,
	trades INTEGER NOT NULL,
	wins INTEGER NOT NULL,
	losses INTEGER NOT NULL,
	total_return REAL NOT NULL,
	sharpe REAL NOT NULL,
	max_dd_pct REAL NOT NULL,
	win_rate_pct REAL NOT NULL
);
`
