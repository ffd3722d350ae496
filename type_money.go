package networth

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value for display.
//
// The engine computes in float64 in a single implied currency; Money is
// where those numbers meet a currency and its formatting rules.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M returns a Money of value in currency cur. Invalid floats are 0.
func M[T float64 | int64 | decimal.Decimal](value T, cur string) Money {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return Money{value: v, cur: cur}
	case int64:
		return Money{value: decimal.NewFromInt(v), cur: cur}
	default:
		return Money{value: decimal.NewFromFloat(num(any(value).(float64))), cur: cur}
	}
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the string representation of the money value.
func (m Money) String() string {
	cur := m.currency()
	if cur.Template == "" {
		// unknown currency code, go-money has no formatting rules for it.
		return m.value.StringFixed(2)
	}
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.Round(0).IntPart())
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.Round(int32(m.currency().Fraction)).IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

func (m Money) Currency() string   { return m.cur }
func (m Money) Equal(n Money) bool { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool       { return m.value.IsZero() }
func (m Money) Float() float64     { return m.value.InexactFloat64() }

// Convert returns m expressed in currency to, using rate units of to per unit of m.
func (m Money) Convert(to string, rate decimal.Decimal) Money {
	return Money{value: m.value.Mul(rate), cur: to}
}

// Add and Sub operate on amounts of the same currency, convert first otherwise.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// cur returns the common currency of a and b, the empty currency adopts the
// other one. It panics on mismatch.
func cur(a, b Money) string {
	switch {
	case a.cur == "":
		return b.cur
	case b.cur == "", a.cur == b.cur:
		return a.cur
	}
	panic("currency mismatch: " + a.cur + " != " + b.cur)
}
