package ingest

import (
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"tally/ledger"
	"tally/pkg/id"
)

// Builder folds execution fills into ledger rows, one per trading intent.
//
// Fills carrying an intent_id group exactly; orphan fills (engines drop the
// id on reconnects) are pooled per stream under a synthesized ULID and the
// resulting row is hinted MEDIUM confidence so downstream summaries flag it.
type Builder struct {
	log zerolog.Logger
}

func NewBuilder(log zerolog.Logger) *Builder {
	return &Builder{log: log.With().Str("component", "builder").Logger()}
}

type accumulator struct {
	row           ledger.Row
	entryNotional decimal.Decimal
	exitNotional  decimal.Decimal
	entrySide     string
	synthesized   bool
}

// Build returns one row per intent, in open order. The first fill of an
// intent fixes its direction: BUY opens a long, SELL opens a short. Further
// same-side fills scale into the entry; opposite-side fills exit.
func (b *Builder) Build(events []Event) []ledger.Row {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	groups := make(map[string]*accumulator)
	var order []string

	for _, ev := range sorted {
		side := strings.ToUpper(strings.TrimSpace(ev.Side))
		if side != "BUY" && side != "SELL" {
			b.log.Warn().Str("stream", ev.Stream).Str("side", ev.Side).Msg("skipping fill with unknown side")
			continue
		}

		key := ev.IntentID
		synthesized := false
		if key == "" {
			key = "orphan/" + ev.Stream
			synthesized = true
		}

		acc, ok := groups[key]
		if !ok {
			direction := ledger.Long
			if side == "SELL" {
				direction = ledger.Short
			}
			intentID := ev.IntentID
			if intentID == "" {
				intentID = id.New()
			}
			acc = &accumulator{
				row: ledger.Row{
					IntentID:  intentID,
					Stream:    ev.Stream,
					Direction: direction,
					OpenTime:  ev.Time,
				},
				entrySide:   side,
				synthesized: synthesized,
			}
			groups[key] = acc
			order = append(order, key)
		}

		if acc.row.Instrument == "" && ev.Instrument != "" {
			acc.row.Instrument = ev.Instrument
		}
		acc.row.TotalCosts = acc.row.TotalCosts.Add(ev.Commission)

		qty := decimal.NewFromInt(ev.Qty)
		if side == acc.entrySide {
			acc.row.EntryQty += ev.Qty
			acc.entryNotional = acc.entryNotional.Add(ev.Price.Mul(qty))
		} else {
			acc.row.ExitQty += ev.Qty
			acc.exitNotional = acc.exitNotional.Add(ev.Price.Mul(qty))
			acc.row.CloseTime = ev.Time
		}
	}

	rows := make([]ledger.Row, 0, len(order))
	for _, key := range order {
		acc := groups[key]
		row := acc.row

		if row.EntryQty > 0 {
			row.EntryPrice = acc.entryNotional.Div(decimal.NewFromInt(row.EntryQty))
		}
		if row.ExitQty > 0 {
			avg := acc.exitNotional.Div(decimal.NewFromInt(row.ExitQty))
			row.AvgExitPrice = &avg
		}

		// Close time only sticks once the full size is out.
		if row.ExitQty < row.EntryQty {
			row.CloseTime = time.Time{}
		}

		if acc.synthesized {
			row.PnLConfidence = ledger.ConfidenceMedium
		}
		if row.ExitQty > row.EntryQty {
			// More exited than entered means entry fills went missing.
			b.log.Warn().
				Str("intent", row.IntentID).
				Str("stream", row.Stream).
				Int64("entry_qty", row.EntryQty).
				Int64("exit_qty", row.ExitQty).
				Msg("exit overfill, entry fills likely missing")
			row.PnLConfidence = ledger.ConfidenceMedium
		}

		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].OpenTime.Before(rows[j].OpenTime) })
	return rows
}
