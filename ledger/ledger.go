// ledger/ledger.go
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the side of a trading intent.
type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
)

// Status is the lifecycle state of an intent. It is a pure function of
// (exit qty, entry qty, avg exit price); see DeriveStatus.
type Status string

const (
	StatusOpen    Status = "OPEN"
	StatusPartial Status = "PARTIAL"
	StatusClosed  Status = "CLOSED"
)

// Confidence rates how trustworthy a computed P&L figure is. The ledger
// builder may supply a value upstream (e.g. MEDIUM when it had to guess at
// fill grouping); an upstream value always wins over the computed default.
type Confidence string

const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

// Row is one trading intent: a logical position opened by one or more entry
// fills and eventually closed, possibly across multiple exit fills.
//
// EntryPrice and AvgExitPrice are quantity-weighted averages over the
// respective legs. AvgExitPrice is nil until the first exit fill. TotalCosts
// is what the intent would owe in commissions and fees if fully closed;
// allocation of those costs to the closed fraction happens here.
type Row struct {
	IntentID   string    `json:"intent_id"`
	Stream     string    `json:"stream"`
	Instrument string    `json:"instrument,omitempty"` // may be empty; the resolver derives it from Stream
	Direction  Direction `json:"direction"`

	EntryPrice   decimal.Decimal  `json:"entry_price"`
	EntryQty     int64            `json:"entry_qty"`
	ExitQty      int64            `json:"exit_qty"`
	AvgExitPrice *decimal.Decimal `json:"avg_exit_price,omitempty"`
	TotalCosts   decimal.Decimal  `json:"total_costs"`

	OpenTime  time.Time `json:"open_time"`
	CloseTime time.Time `json:"close_time,omitzero"` // zero until the intent is fully closed

	// Derived by the calculator. Status and PnLConfidence may arrive
	// pre-populated from the ledger builder, in which case they are kept.
	Status         Status           `json:"status,omitempty"`
	GrossPnL       *decimal.Decimal `json:"gross_pnl,omitempty"`
	CostsAllocated decimal.Decimal  `json:"costs_allocated"`
	RealizedPnL    *decimal.Decimal `json:"realized_pnl,omitempty"`
	PnLConfidence  Confidence       `json:"pnl_confidence,omitempty"`
}

// Summary is the per-stream rollup of computed rows.
type Summary struct {
	Stream             string          `json:"stream"`
	RealizedPnL        decimal.Decimal `json:"realized_pnl"`
	OpenPositions      int             `json:"open_positions"` // mirrors OpenCount; kept as its own column for report consumers
	TotalCostsRealized decimal.Decimal `json:"total_costs_realized"`
	IntentCount        int             `json:"intent_count"`
	ClosedCount        int             `json:"closed_count"`
	PartialCount       int             `json:"partial_count"`
	OpenCount          int             `json:"open_count"`
	PnLConfidence      Confidence      `json:"pnl_confidence"`
}

// DeriveStatus computes the lifecycle state of an intent.
//
//	OPEN    - nothing has exited yet (or no exit price is known)
//	CLOSED  - the full entry quantity (or more) has exited
//	PARTIAL - anything in between
func DeriveStatus(entryQty, exitQty int64, avgExit *decimal.Decimal) Status {
	if exitQty == 0 || avgExit == nil {
		return StatusOpen
	}
	if exitQty >= entryQty {
		return StatusClosed
	}
	return StatusPartial
}
