package ingest

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/ledger"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ts(minute int) time.Time {
	return time.Date(2026, 3, 2, 9, 30+minute, 0, 0, time.UTC)
}

func fill(minute int, intentID, stream, side string, qty int64, price, commission string) Event {
	return Event{
		Time:       ts(minute),
		Type:       eventTypeFill,
		IntentID:   intentID,
		Stream:     stream,
		Instrument: "",
		Side:       side,
		Qty:        qty,
		Price:      d(price),
		Commission: d(commission),
	}
}

func TestBuildSingleIntent(t *testing.T) {
	t.Parallel()

	b := NewBuilder(nopLog())

	rows := b.Build([]Event{
		fill(0, "T1", "ES1", "BUY", 2, "5100.25", "2.50"),
		fill(15, "T1", "ES1", "SELL", 2, "5105.25", "2.50"),
	})

	require.Len(t, rows, 1)
	row := rows[0]

	assert.Equal(t, "T1", row.IntentID)
	assert.Equal(t, "ES1", row.Stream)
	assert.Equal(t, ledger.Long, row.Direction)
	assert.Equal(t, int64(2), row.EntryQty)
	assert.Equal(t, int64(2), row.ExitQty)
	assert.True(t, d("5100.25").Equal(row.EntryPrice))
	require.NotNil(t, row.AvgExitPrice)
	assert.True(t, d("5105.25").Equal(*row.AvgExitPrice))
	assert.True(t, d("5").Equal(row.TotalCosts))
	assert.True(t, row.OpenTime.Equal(ts(0)))
	assert.True(t, row.CloseTime.Equal(ts(15)))
	assert.Empty(t, row.Status)        // derived later by the calculator
	assert.Empty(t, row.PnLConfidence) // no hint needed for clean grouping
}

func TestBuildWeightedAverages(t *testing.T) {
	t.Parallel()

	b := NewBuilder(nopLog())

	// Scale in 1 @ 100 and 3 @ 104 -> weighted entry 103; scale out half.
	rows := b.Build([]Event{
		fill(0, "T1", "NQ1", "SELL", 1, "100", "1"),
		fill(1, "T1", "NQ1", "SELL", 3, "104", "1"),
		fill(10, "T1", "NQ1", "BUY", 2, "101", "1"),
	})

	require.Len(t, rows, 1)
	row := rows[0]

	assert.Equal(t, ledger.Short, row.Direction)
	assert.Equal(t, int64(4), row.EntryQty)
	assert.Equal(t, int64(2), row.ExitQty)
	assert.True(t, d("103").Equal(row.EntryPrice), "entry = %s", row.EntryPrice)
	require.NotNil(t, row.AvgExitPrice)
	assert.True(t, d("101").Equal(*row.AvgExitPrice))
	assert.True(t, d("3").Equal(row.TotalCosts))
	// Half the size is still on: not closed, so no close time yet.
	assert.True(t, row.CloseTime.IsZero())
}

func TestBuildSeparatesIntentsAndStreams(t *testing.T) {
	t.Parallel()

	b := NewBuilder(nopLog())

	rows := b.Build([]Event{
		fill(0, "T1", "ES1", "BUY", 1, "5100", "1"),
		fill(1, "T2", "NQ1", "BUY", 1, "17250", "1"),
		fill(2, "T1", "ES1", "SELL", 1, "5101", "1"),
	})

	require.Len(t, rows, 2)
	assert.Equal(t, "T1", rows[0].IntentID)
	assert.Equal(t, "T2", rows[1].IntentID)
	assert.Equal(t, int64(1), rows[0].ExitQty)
	assert.Equal(t, int64(0), rows[1].ExitQty)
}

func TestBuildOrphanFillsSynthesizeIntent(t *testing.T) {
	t.Parallel()

	b := NewBuilder(nopLog())

	rows := b.Build([]Event{
		fill(0, "", "GC2", "BUY", 1, "2350", "1.10"),
		fill(5, "", "GC2", "SELL", 1, "2352", "1.10"),
	})

	require.Len(t, rows, 1)
	row := rows[0]

	// Synthesized ULID, and the guesswork is flagged for the aggregator.
	assert.NotEmpty(t, row.IntentID)
	assert.Len(t, row.IntentID, 26)
	assert.Equal(t, ledger.ConfidenceMedium, row.PnLConfidence)
	assert.Equal(t, int64(1), row.EntryQty)
	assert.Equal(t, int64(1), row.ExitQty)
}

func TestBuildExitOverfillHintsMedium(t *testing.T) {
	t.Parallel()

	b := NewBuilder(nopLog())

	rows := b.Build([]Event{
		fill(0, "T1", "ES1", "BUY", 1, "5100", "1"),
		fill(1, "T1", "ES1", "SELL", 3, "5101", "1"),
	})

	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].EntryQty)
	assert.Equal(t, int64(3), rows[0].ExitQty)
	assert.Equal(t, ledger.ConfidenceMedium, rows[0].PnLConfidence)
}

func TestBuildSkipsUnknownSides(t *testing.T) {
	t.Parallel()

	b := NewBuilder(nopLog())

	rows := b.Build([]Event{
		fill(0, "T1", "ES1", "HOLD", 1, "5100", "1"),
		fill(1, "T1", "ES1", "BUY", 1, "5100", "1"),
	})

	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].EntryQty)
	assert.Equal(t, ledger.Long, rows[0].Direction)
	assert.True(t, d("1").Equal(rows[0].TotalCosts))
}

func TestBuildSortsEventsByTime(t *testing.T) {
	t.Parallel()

	b := NewBuilder(nopLog())

	// Exit logged before the entry (out-of-order flush); direction must
	// still come from the chronologically first fill.
	rows := b.Build([]Event{
		fill(10, "T1", "ES1", "SELL", 2, "5105", "1"),
		fill(0, "T1", "ES1", "BUY", 2, "5100", "1"),
	})

	require.Len(t, rows, 1)
	assert.Equal(t, ledger.Long, rows[0].Direction)
	assert.Equal(t, int64(2), rows[0].EntryQty)
	assert.Equal(t, int64(2), rows[0].ExitQty)
	assert.True(t, rows[0].OpenTime.Equal(ts(0)))
}
