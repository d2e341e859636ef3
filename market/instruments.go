// market/instruments.go
package market

import "github.com/shopspring/decimal"

// InstrumentMeta describes one tradable futures contract.
type InstrumentMeta struct {
	Code       string
	Name       string
	Multiplier decimal.Decimal // dollars per full point per contract
}

// DefaultInstruments returns the canonical contract table. Callers get a
// fresh map each time; the resolver keeps its own copy so nothing shared is
// ever mutated at runtime.
//
// Extending this table (via config) is the only supported way to add an
// instrument. Multipliers are never inferred.
func DefaultInstruments() map[string]InstrumentMeta {
	return map[string]InstrumentMeta{
		"ES": {
			Code:       "ES",
			Name:       "E-mini S&P 500",
			Multiplier: decimal.NewFromInt(50),
		},
		"NQ": {
			Code:       "NQ",
			Name:       "E-mini Nasdaq-100",
			Multiplier: decimal.NewFromInt(20),
		},
		"RTY": {
			Code:       "RTY",
			Name:       "E-mini Russell 2000",
			Multiplier: decimal.NewFromInt(50),
		},
		"YM": {
			Code:       "YM",
			Name:       "E-mini Dow",
			Multiplier: decimal.NewFromInt(5),
		},
		"GC": {
			Code:       "GC",
			Name:       "Gold",
			Multiplier: decimal.NewFromInt(100),
		},
		"NG": {
			Code:       "NG",
			Name:       "Natural Gas",
			Multiplier: decimal.NewFromInt(10000),
		},
	}
}

// DefaultMultipliers returns the canonical code -> multiplier table.
func DefaultMultipliers() map[string]decimal.Decimal {
	metas := DefaultInstruments()
	out := make(map[string]decimal.Decimal, len(metas))
	for code, meta := range metas {
		out[code] = meta.Multiplier
	}
	return out
}

// DefaultAliases returns the known non-canonical prefix spellings seen in
// stream identifiers.
func DefaultAliases() map[string]string {
	return map[string]string{
		"E": "ES",
	}
}
