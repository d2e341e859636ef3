package ledger

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	s, err := NewSQLite(path)
	require.NoError(t, err)

	return s, path
}

func closedRow(id, stream string) Row {
	return Row{
		IntentID:       id,
		Stream:         stream,
		Instrument:     "ES",
		Direction:      Long,
		EntryPrice:     d("100"),
		EntryQty:       2,
		ExitQty:        2,
		AvgExitPrice:   dp("105"),
		TotalCosts:     d("5"),
		OpenTime:       time.Date(2026, 3, 2, 9, 31, 0, 0, time.UTC),
		CloseTime:      time.Date(2026, 3, 2, 10, 15, 0, 0, time.UTC),
		Status:         StatusClosed,
		GrossPnL:       dp("500"),
		CostsAllocated: d("5"),
		RealizedPnL:    dp("495"),
		PnLConfidence:  ConfidenceHigh,
	}
}

func openRow(id, stream string) Row {
	return Row{
		IntentID:      id,
		Stream:        stream,
		Instrument:    "NQ",
		Direction:     Short,
		EntryPrice:    d("17250.25"),
		EntryQty:      1,
		TotalCosts:    d("2.10"),
		OpenTime:      time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
		Status:        StatusOpen,
		PnLConfidence: ConfidenceLow,
	}
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	s, path := newTestSQLite(t)
	require.NoError(t, s.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='intents'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "intents", name)
}

func TestSQLiteRoundTrip(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)
	defer s.Close()

	want := closedRow("T1", "ES1")
	require.NoError(t, s.SaveRows([]Row{want}))

	got, err := s.GetIntent("T1")
	require.NoError(t, err)

	assert.Equal(t, want.IntentID, got.IntentID)
	assert.Equal(t, want.Stream, got.Stream)
	assert.Equal(t, want.Instrument, got.Instrument)
	assert.Equal(t, want.Direction, got.Direction)
	assert.True(t, want.EntryPrice.Equal(got.EntryPrice))
	assert.Equal(t, want.EntryQty, got.EntryQty)
	assert.Equal(t, want.ExitQty, got.ExitQty)
	require.NotNil(t, got.AvgExitPrice)
	assert.True(t, want.AvgExitPrice.Equal(*got.AvgExitPrice))
	assert.True(t, want.TotalCosts.Equal(got.TotalCosts))
	assert.True(t, got.OpenTime.Equal(want.OpenTime))
	assert.True(t, got.CloseTime.Equal(want.CloseTime))
	assert.Equal(t, want.Status, got.Status)
	require.NotNil(t, got.GrossPnL)
	assert.True(t, want.GrossPnL.Equal(*got.GrossPnL))
	assert.True(t, want.CostsAllocated.Equal(got.CostsAllocated))
	require.NotNil(t, got.RealizedPnL)
	assert.True(t, want.RealizedPnL.Equal(*got.RealizedPnL))
	assert.Equal(t, want.PnLConfidence, got.PnLConfidence)
}

func TestSQLiteRoundTripOpenRow(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)
	defer s.Close()

	require.NoError(t, s.SaveRows([]Row{openRow("T2", "NQ1")}))

	got, err := s.GetIntent("T2")
	require.NoError(t, err)

	assert.Equal(t, StatusOpen, got.Status)
	assert.Nil(t, got.AvgExitPrice)
	assert.Nil(t, got.GrossPnL)
	assert.Nil(t, got.RealizedPnL)
	assert.True(t, got.CloseTime.IsZero())
	assert.True(t, got.CostsAllocated.IsZero())
}

func TestSQLiteUpsertIdempotent(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)
	defer s.Close()

	// Re-ingesting the same intent replaces the row rather than duplicating
	// it; a PARTIAL intent can be recomputed any number of times.
	row := closedRow("T3", "ES1")
	require.NoError(t, s.SaveRows([]Row{row}))

	row.RealizedPnL = dp("490")
	require.NoError(t, s.SaveRows([]Row{row}))

	rows, err := s.RowsByStream("ES1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, d("490").Equal(*rows[0].RealizedPnL))
}

func TestSQLiteGetIntentNotFound(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)
	defer s.Close()

	_, err := s.GetIntent("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
