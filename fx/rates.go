// Package fx provides currency exchange rates for display conversions.
//
// Rates are the European Central Bank reference rates. Conversions pivot
// through the US dollar.
package fx

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/etnz/networth/date"
	"github.com/shopspring/decimal"
)

// ErrUnknownCurrency is returned when a conversion involves a currency
// without a rate.
var ErrUnknownCurrency = errors.New("unknown currency")

// Pivot is the currency every conversion goes through.
const Pivot = "USD"

// Rates is a set of exchange rates published on a day.
type Rates struct {
	Date date.Date
	// Base is the currency the quotes are expressed against.
	Base string
	// Quotes are units of currency per unit of Base. Base is quoted 1.
	Quotes map[string]decimal.Decimal
}

// Currencies returns the quoted currencies in alphabetical order.
func (r Rates) Currencies() []string {
	return slices.Sorted(maps.Keys(r.Quotes))
}

// IsZero reports whether r holds no quote.
func (r Rates) IsZero() bool { return len(r.Quotes) == 0 }

// perPivot returns the units of cur per unit of Pivot.
func (r Rates) perPivot(cur string) (decimal.Decimal, bool) {
	q, ok := r.Quotes[cur]
	p, pok := r.Quotes[Pivot]
	if !ok || !pok || !q.IsPositive() || !p.IsPositive() {
		return decimal.Zero, false
	}
	return q.Div(p), true
}

// Rate returns the units of to per unit of from.
//
// When a rate is missing, conversions from or to the pivot use the known side
// alone, and any other pair is left unconverted (rate 1). In that case the
// fallback rate is returned along with an error wrapping ErrUnknownCurrency.
func (r Rates) Rate(from, to string) (decimal.Decimal, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	one := decimal.NewFromInt(1)
	if from == to {
		return one, nil
	}
	f, fok := r.perPivot(from)
	t, tok := r.perPivot(to)
	if from == Pivot {
		f, fok = one, true
	}
	if to == Pivot {
		t, tok = one, true
	}
	switch {
	case fok && tok:
		return t.Div(f), nil
	case !fok:
		return one, fmt.Errorf("no rate for %s: %w", from, ErrUnknownCurrency)
	default:
		return one, fmt.Errorf("no rate for %s: %w", to, ErrUnknownCurrency)
	}
}

// Convert returns amount in from expressed in to. See Rate for the fallbacks
// applied, and the error returned, when a rate is missing.
func (r Rates) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	rate, err := r.Rate(from, to)
	return amount.Mul(rate), err
}
