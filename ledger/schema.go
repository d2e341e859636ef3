// ledger/schema.go
package ledger

// Prices, costs and P&L figures are stored as TEXT: they are decimals, and
// round-tripping them through REAL would break exactness.
const Schema = `
CREATE TABLE IF NOT EXISTS intents (
	intent_id TEXT PRIMARY KEY,
	stream TEXT NOT NULL,
	instrument TEXT NOT NULL,
	direction TEXT NOT NULL,
	entry_price TEXT NOT NULL,
	entry_qty INTEGER NOT NULL,
	exit_qty INTEGER NOT NULL,
	avg_exit_price TEXT,
	total_costs TEXT NOT NULL,
	open_time DATETIME NOT NULL,
	close_time DATETIME,
	status TEXT NOT NULL,
	gross_pnl TEXT,
	costs_allocated TEXT NOT NULL,
	realized_pnl TEXT,
	pnl_confidence TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_intents_stream ON intents(stream);
`
