package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowsByStream(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)
	defer s.Close()

	require.NoError(t, s.SaveRows([]Row{
		closedRow("T1", "ES1"),
		openRow("T2", "NQ1"),
		closedRow("T3", "ES1"),
	}))

	rows, err := s.RowsByStream("ES1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, "ES1", r.Stream)
	}

	rows, err = s.RowsByStream("GC1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStreams(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)
	defer s.Close()

	require.NoError(t, s.SaveRows([]Row{
		openRow("T1", "NQ1"),
		closedRow("T2", "ES1"),
		openRow("T3", "NQ1"),
	}))

	streams, err := s.Streams()
	require.NoError(t, err)
	assert.Equal(t, []string{"ES1", "NQ1"}, streams)
}
