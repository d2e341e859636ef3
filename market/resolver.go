package market

import (
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Resolver maps a ledger row's instrument code, or the prefix of its stream
// identifier, to the contract's dollar multiplier.
//
// The tables are copied at construction and never mutated afterwards, so a
// single Resolver is safe for concurrent use.
type Resolver struct {
	multipliers map[string]decimal.Decimal
	aliases     map[string]string
	log         zerolog.Logger
}

// NewResolver builds a resolver around the given multiplier and alias
// tables. Pass the tables from config.MultiplierTable / config.AliasTable,
// or use DefaultResolver for the canonical set.
func NewResolver(multipliers map[string]decimal.Decimal, aliases map[string]string, log zerolog.Logger) *Resolver {
	r := &Resolver{
		multipliers: make(map[string]decimal.Decimal, len(multipliers)),
		aliases:     make(map[string]string, len(aliases)),
		log:         log.With().Str("component", "resolver").Logger(),
	}
	for code, m := range multipliers {
		r.multipliers[strings.ToUpper(code)] = m
	}
	for from, to := range aliases {
		r.aliases[strings.ToUpper(from)] = strings.ToUpper(to)
	}
	return r
}

// DefaultResolver returns a resolver over the canonical tables.
func DefaultResolver(log zerolog.Logger) *Resolver {
	return NewResolver(DefaultMultipliers(), DefaultAliases(), log)
}

// Resolve returns the dollar multiplier for a row and the instrument code it
// settled on ("" when no code could be derived at all).
//
// Lookup order: the row's own instrument code, then the stream prefix run
// through the alias table. An unknown code degrades to multiplier 1 with a
// warning rather than failing; a flagged estimate beats no result.
func (r *Resolver) Resolve(instrument, stream string) (decimal.Decimal, string) {
	direct := strings.ToUpper(strings.TrimSpace(instrument))
	if direct != "" {
		if m, ok := r.multipliers[direct]; ok {
			return m, direct
		}
	}

	derived := StreamPrefix(stream)
	if derived != "" {
		if canonical, ok := r.aliases[derived]; ok {
			derived = canonical
		}
		if m, ok := r.multipliers[derived]; ok {
			return m, derived
		}
	}

	// Report the row's own code when it had one, otherwise the derived one.
	code := direct
	if code == "" {
		code = derived
	}
	if code == "" {
		r.log.Warn().
			Str("stream", stream).
			Msg("no instrument derivable from stream, using multiplier 1")
		return decimal.NewFromInt(1), ""
	}

	r.log.Warn().
		Str("instrument", code).
		Str("stream", stream).
		Msg("unknown instrument, using multiplier 1")
	return decimal.NewFromInt(1), code
}

// StreamPrefix extracts the candidate instrument code from a stream
// identifier: the leading non-digit run, upper-cased ("NQ1" -> "NQ",
// "rty2" -> "RTY"). Returns "" when the stream has no such prefix.
func StreamPrefix(stream string) string {
	s := strings.TrimSpace(stream)
	end := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			break
		}
		end += len(string(r))
	}
	return strings.ToUpper(s[:end])
}
