package renderer

import (
	"github.com/etnz/networth"
	"github.com/shopspring/decimal"
)

// DefaultRows is the number of rows of a projection table when unspecified.
const DefaultRows = 11

// Options controls how amounts are displayed.
type Options struct {
	Currency string          // currency of the amounts, USD if empty
	Display  string          // currency to display, Currency if empty
	Rate     decimal.Decimal // units of Display per unit of Currency, zero means 1
	Rows     int             // projection table rows, DefaultRows if < 2
}

func (o Options) currency() string {
	if o.Currency == "" {
		return "USD"
	}
	return o.Currency
}

func (o Options) display() string {
	if o.Display == "" {
		return o.currency()
	}
	return o.Display
}

// money returns v, in the snapshot currency, as displayed.
func (o Options) money(v float64) networth.Money {
	m := networth.M(v, o.currency())
	if o.display() == o.currency() {
		return m
	}
	rate := o.Rate
	if rate.IsZero() {
		rate = decimal.NewFromInt(1)
	}
	return m.Convert(o.display(), rate)
}

func (o Options) rows() int {
	if o.Rows < 2 {
		return DefaultRows
	}
	return o.Rows
}
