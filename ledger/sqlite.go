package ledger

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// SQLite persists computed rows in a single-file database. Rows upsert on
// intent_id, so re-ingesting the same logs (or recomputing a PARTIAL intent
// after new fills) is idempotent.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// SaveRows upserts a batch of rows in one transaction.
func (s *SQLite) SaveRows(rows []Row) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO intents
		(intent_id, stream, instrument, direction, entry_price, entry_qty, exit_qty,
		 avg_exit_price, total_costs, open_time, close_time, status,
		 gross_pnl, costs_allocated, realized_pnl, pnl_confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		var closeTime any
		if !r.CloseTime.IsZero() {
			closeTime = r.CloseTime
		}
		_, err := stmt.Exec(
			r.IntentID, r.Stream, r.Instrument, string(r.Direction),
			r.EntryPrice.String(), r.EntryQty, r.ExitQty,
			decToNullString(r.AvgExitPrice), r.TotalCosts.String(),
			r.OpenTime, closeTime, string(r.Status),
			decToNullString(r.GrossPnL), r.CostsAllocated.String(),
			decToNullString(r.RealizedPnL), string(r.PnLConfidence),
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("save intent %s: %w", r.IntentID, err)
		}
	}

	return tx.Commit()
}

// SaveSummary is a no-op for SQLite; summaries are derived on read and never
// persisted independently of their source rows.
func (s *SQLite) SaveSummary(Summary) error { return nil }

func (s *SQLite) Close() error {
	return s.db.Close()
}

func decToNullString(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func scanRow(scan func(dest ...any) error) (Row, error) {
	var (
		r          Row
		direction  string
		status     string
		confidence string
		entryPrice string
		totalCosts string
		costsAlloc string
		avgExit    sql.NullString
		gross      sql.NullString
		realized   sql.NullString
		closeTime  sql.NullTime
	)

	err := scan(
		&r.IntentID, &r.Stream, &r.Instrument, &direction,
		&entryPrice, &r.EntryQty, &r.ExitQty,
		&avgExit, &totalCosts, &r.OpenTime, &closeTime, &status,
		&gross, &costsAlloc, &realized, &confidence,
	)
	if err != nil {
		return Row{}, err
	}

	r.Direction = Direction(direction)
	r.Status = Status(status)
	r.PnLConfidence = Confidence(confidence)
	if closeTime.Valid {
		r.CloseTime = closeTime.Time
	}

	if r.EntryPrice, err = decimal.NewFromString(entryPrice); err != nil {
		return Row{}, fmt.Errorf("intent %s: entry_price: %w", r.IntentID, err)
	}
	if r.TotalCosts, err = decimal.NewFromString(totalCosts); err != nil {
		return Row{}, fmt.Errorf("intent %s: total_costs: %w", r.IntentID, err)
	}
	if r.CostsAllocated, err = decimal.NewFromString(costsAlloc); err != nil {
		return Row{}, fmt.Errorf("intent %s: costs_allocated: %w", r.IntentID, err)
	}
	if r.AvgExitPrice, err = nullStringToDec(avgExit); err != nil {
		return Row{}, fmt.Errorf("intent %s: avg_exit_price: %w", r.IntentID, err)
	}
	if r.GrossPnL, err = nullStringToDec(gross); err != nil {
		return Row{}, fmt.Errorf("intent %s: gross_pnl: %w", r.IntentID, err)
	}
	if r.RealizedPnL, err = nullStringToDec(realized); err != nil {
		return Row{}, fmt.Errorf("intent %s: realized_pnl: %w", r.IntentID, err)
	}
	return r, nil
}

func nullStringToDec(ns sql.NullString) (*decimal.Decimal, error) {
	if !ns.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(ns.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
