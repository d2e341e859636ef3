package ledger

// Store persists computed rows. CSV is write-only (flat files for
// spreadsheets); SQLite also backs the query side of the CLI.
type Store interface {
	SaveRows([]Row) error
	SaveSummary(Summary) error
	Close() error
}
