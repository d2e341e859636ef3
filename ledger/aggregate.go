package ledger

// AggregateStream reduces one stream's computed rows to a Summary.
//
// Realized P&L and realized costs sum over CLOSED and PARTIAL rows only; a
// row with a nil RealizedPnL contributes zero but still counts. A malformed
// row never aborts the rest of the stream.
//
// An empty row list yields a zeroed summary with LOW confidence. That case
// is special-cased on purpose: "every row is HIGH" is vacuously true of an
// empty stream, and reporting HIGH confidence about no data would be
// misleading.
func AggregateStream(rows []Row, stream string) Summary {
	s := Summary{Stream: stream, PnLConfidence: ConfidenceLow}
	if len(rows) == 0 {
		return s
	}

	allHigh := true
	anyMedium := false

	for _, r := range rows {
		switch r.Status {
		case StatusClosed:
			s.ClosedCount++
		case StatusPartial:
			s.PartialCount++
		case StatusOpen:
			s.OpenCount++
		}

		if r.Status == StatusClosed || r.Status == StatusPartial {
			if r.RealizedPnL != nil {
				s.RealizedPnL = s.RealizedPnL.Add(*r.RealizedPnL)
			}
			s.TotalCostsRealized = s.TotalCostsRealized.Add(r.CostsAllocated)
		}

		if r.PnLConfidence != ConfidenceHigh {
			allHigh = false
		}
		if r.PnLConfidence == ConfidenceMedium {
			anyMedium = true
		}
	}

	s.IntentCount = len(rows)
	s.OpenPositions = s.OpenCount

	// Precedence is strict: all HIGH wins, then any MEDIUM, then LOW. A mix
	// of HIGH and LOW rows lands on LOW, not a majority vote.
	switch {
	case allHigh:
		s.PnLConfidence = ConfidenceHigh
	case anyMedium:
		s.PnLConfidence = ConfidenceMedium
	default:
		s.PnLConfidence = ConfidenceLow
	}
	return s
}
