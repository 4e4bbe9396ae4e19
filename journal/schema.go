// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS transactions (
	run_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	date DATETIME NOT NULL,
	type TEXT NOT NULL,
	price REAL NOT NULL,
	shares REAL NOT NULL,
	value REAL NOT NULL,
	realized_pl REAL NOT NULL,
	consecutive INTEGER NOT NULL,
	requirement_pct REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS valuations (
	run_id TEXT NOT NULL,
	date DATETIME NOT NULL,
	cash REAL NOT NULL,
	deployed REAL NOT NULL,
	market_value REAL NOT NULL,
	equity REAL NOT NULL,
	margin_used REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS rejections (
	run_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	date DATETIME NOT NULL,
	reason TEXT NOT NULL,
	shortfall REAL NOT NULL,
	holders TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_run ON transactions(run_id, date);
CREATE INDEX IF NOT EXISTS idx_valuations_run ON valuations(run_id, date);
CREATE INDEX IF NOT EXISTS idx_rejections_run ON rejections(run_id, date);
`
