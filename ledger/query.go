package ledger

import (
	"database/sql"
	"fmt"
)

const selectCols = `
	intent_id, stream, instrument, direction, entry_price, entry_qty, exit_qty,
	avg_exit_price, total_costs, open_time, close_time, status,
	gross_pnl, costs_allocated, realized_pnl, pnl_confidence`

// GetIntent returns a single computed row by intent ID.
func (s *SQLite) GetIntent(intentID string) (Row, error) {
	row := s.db.QueryRow(`
		SELECT`+selectCols+`
		FROM intents
		WHERE intent_id = ?`, intentID)

	rec, err := scanRow(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return Row{}, fmt.Errorf("intent %q not found", intentID)
		}
		return Row{}, err
	}
	return rec, nil
}

// RowsByStream returns all rows for one stream in fill order.
func (s *SQLite) RowsByStream(stream string) ([]Row, error) {
	rows, err := s.db.Query(`
		SELECT`+selectCols+`
		FROM intents
		WHERE stream = ?
		ORDER BY open_time ASC, intent_id ASC`, stream)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRows(rows)
}

// Streams returns every stream present in the database, sorted.
func (s *SQLite) Streams() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT stream FROM intents ORDER BY stream ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var stream string
		if err := rows.Scan(&stream); err != nil {
			return nil, err
		}
		out = append(out, stream)
	}
	return out, rows.Err()
}

func collectRows(rows *sql.Rows) ([]Row, error) {
	var out []Row
	for rows.Next() {
		rec, err := scanRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
