// ingest/event.go
package ingest

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is one execution-log record from the trading engine's JSONL feed.
// Only "fill" events matter here; everything else in the feed (heartbeats,
// order acks, strategy signals) is skipped.
type Event struct {
	Time       time.Time       `json:"ts"`
	Type       string          `json:"type"`
	IntentID   string          `json:"intent_id,omitempty"`
	Stream     string          `json:"stream"`
	Instrument string          `json:"instrument,omitempty"`
	Side       string          `json:"side"` // BUY or SELL
	Qty        int64           `json:"qty"`
	Price      decimal.Decimal `json:"price"`
	Commission decimal.Decimal `json:"commission"`
}

const eventTypeFill = "fill"
