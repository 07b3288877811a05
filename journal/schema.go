package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	instrument TEXT NOT NULL,
	direction TEXT NOT NULL,
	entry_price REAL NOT NULL,
	stop_loss REAL NOT NULL DEFAULT 0,
	size REAL NOT NULL,
	leverage REAL NOT NULL DEFAULT 0,
	open_time DATETIME NOT NULL,
	close_time DATETIME,
	realized_pl REAL NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	session TEXT NOT NULL DEFAULT '',
	violations TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_trades_open_time ON trades(open_time);
CREATE INDEX IF NOT EXISTS idx_trades_close_time ON trades(close_time);

CREATE TABLE IF NOT EXISTS goals (
	goal_id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	period TEXT NOT NULL,
	metric TEXT NOT NULL,
	target REAL NOT NULL,
	current REAL NOT NULL DEFAULT 0,
	is_primary INTEGER NOT NULL DEFAULT 0,
	is_binding INTEGER NOT NULL DEFAULT 0,
	constraint_json TEXT NOT NULL DEFAULT '',
	consequence_json TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS goal_consequences (
	goal_id TEXT NOT NULL,
	failure_date TEXT NOT NULL,
	applied_at DATETIME NOT NULL,
	PRIMARY KEY (goal_id, failure_date)
);
`
