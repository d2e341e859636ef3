// ledger/csv.go
package ledger

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// CSVStore writes computed rows and stream summaries to a pair of flat
// files. Write-only; use the SQLite store when the report side needs to
// query back.
type CSVStore struct {
	intents   *csv.Writer
	summaries *csv.Writer
	inf, sf   *os.File
}

func NewCSV(intentsPath, summariesPath string) (*CSVStore, error) {
	inf, err := os.Create(intentsPath)
	if err != nil {
		return nil, err
	}
	sf, err := os.Create(summariesPath)
	if err != nil {
		inf.Close()
		return nil, err
	}

	iw := csv.NewWriter(inf)
	sw := csv.NewWriter(sf)

	if err := iw.Write([]string{"intent_id", "stream", "instrument", "direction", "entry_price", "entry_qty", "exit_qty", "avg_exit_price", "total_costs", "open_time", "close_time", "status", "gross_pnl", "costs_allocated", "realized_pnl", "pnl_confidence"}); err != nil {
		return nil, err
	}
	if err := sw.Write([]string{"stream", "realized_pnl", "open_positions", "total_costs_realized", "intent_count", "closed_count", "partial_count", "open_count", "pnl_confidence"}); err != nil {
		return nil, err
	}

	iw.Flush()
	if err := iw.Error(); err != nil {
		return nil, err
	}
	sw.Flush()
	if err := sw.Error(); err != nil {
		return nil, err
	}

	return &CSVStore{iw, sw, inf, sf}, nil
}

func (c *CSVStore) SaveRows(rows []Row) error {
	for _, r := range rows {
		c.intents.Write([]string{
			r.IntentID,
			r.Stream,
			r.Instrument,
			string(r.Direction),
			r.EntryPrice.String(),
			strconv.FormatInt(r.EntryQty, 10),
			strconv.FormatInt(r.ExitQty, 10),
			decString(r.AvgExitPrice),
			r.TotalCosts.String(),
			r.OpenTime.Format(time.RFC3339),
			closeString(r.CloseTime),
			string(r.Status),
			decString(r.GrossPnL),
			r.CostsAllocated.String(),
			decString(r.RealizedPnL),
			string(r.PnLConfidence),
		})
	}
	c.intents.Flush()
	return c.intents.Error()
}

func (c *CSVStore) SaveSummary(s Summary) error {
	err := c.summaries.Write([]string{
		s.Stream,
		s.RealizedPnL.String(),
		strconv.Itoa(s.OpenPositions),
		s.TotalCostsRealized.String(),
		strconv.Itoa(s.IntentCount),
		strconv.Itoa(s.ClosedCount),
		strconv.Itoa(s.PartialCount),
		strconv.Itoa(s.OpenCount),
		string(s.PnLConfidence),
	})
	if err != nil {
		return err
	}

	c.summaries.Flush()
	return c.summaries.Error()
}

func (c *CSVStore) Close() error {
	c.intents.Flush()
	if err := c.intents.Error(); err != nil {
		return err
	}
	c.summaries.Flush()
	if err := c.summaries.Error(); err != nil {
		return err
	}
	if err := c.inf.Close(); err != nil {
		return err
	}
	return c.sf.Close()
}

func decString(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func closeString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
