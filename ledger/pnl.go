package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"tally/market"
)

// Calculator enriches rows with realized P&L attribution. It is stateless
// apart from the resolver's immutable tables, so one Calculator may be
// shared across goroutines.
type Calculator struct {
	resolver *market.Resolver
}

// NewCalculator returns a calculator using the given instrument resolver.
func NewCalculator(r *market.Resolver) *Calculator {
	return &Calculator{resolver: r}
}

// ComputeIntent fills in Status, GrossPnL, CostsAllocated, RealizedPnL and
// PnLConfidence for one row. The input is taken and returned by value; the
// caller's row is never touched.
//
// Recomputation is idempotent: the same inputs always produce the same
// derived fields, so OPEN and PARTIAL rows can be recomputed as new fills
// arrive.
//
// The only error is a malformed direction. A wrong sign is the most
// dangerous failure mode in a P&L engine, so that one is loud; everything
// else (missing exit data, unknown instruments, zero entry quantity)
// degrades deterministically instead.
func (c *Calculator) ComputeIntent(row Row) (Row, error) {
	if row.Direction != Long && row.Direction != Short {
		return row, fmt.Errorf("intent %s: invalid direction %q", row.IntentID, row.Direction)
	}

	mult, code := c.resolver.Resolve(row.Instrument, row.Stream)
	if row.Instrument == "" {
		row.Instrument = code
	}

	if row.Status == "" {
		row.Status = DeriveStatus(row.EntryQty, row.ExitQty, row.AvgExitPrice)
	}

	// Nothing has closed yet: no P&L, no allocated costs. An upstream
	// confidence hint survives; otherwise an open row is LOW by default.
	if row.Status == StatusOpen || row.AvgExitPrice == nil || row.ExitQty == 0 {
		row.GrossPnL = nil
		row.RealizedPnL = nil
		row.CostsAllocated = decimal.Zero
		if row.PnLConfidence == "" {
			row.PnLConfidence = ConfidenceLow
		}
		return row, nil
	}

	// Shorts profit when the exit prints below the entry, so the raw
	// difference flips sign.
	diff := row.AvgExitPrice.Sub(row.EntryPrice)
	if row.Direction == Short {
		diff = diff.Neg()
	}

	// Gross P&L covers only the quantity actually closed out, not the full
	// intended size.
	gross := diff.Mul(decimal.NewFromInt(row.ExitQty)).Mul(mult)

	// Cost allocation: a fully wound-down intent realizes all its costs; a
	// partial one realizes the traded-out fraction.
	var costs decimal.Decimal
	switch row.Status {
	case StatusClosed:
		costs = row.TotalCosts
	case StatusPartial:
		if row.EntryQty > 0 {
			costs = row.TotalCosts.
				Mul(decimal.NewFromInt(row.ExitQty)).
				Div(decimal.NewFromInt(row.EntryQty))
		}
	}

	realized := gross.Sub(costs)

	row.GrossPnL = &gross
	row.CostsAllocated = costs
	row.RealizedPnL = &realized
	if row.PnLConfidence == "" {
		// Reaching this branch means every required input was present.
		row.PnLConfidence = ConfidenceHigh
	}
	return row, nil
}
