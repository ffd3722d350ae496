package networth

import (
	"math"
	"time"

	"github.com/etnz/networth/date"
)

// position tracks how one asset of the working snapshot is valued over time.
//
// Non-stock assets are worth base × (1+rate)^(year-since). base and since
// are the snapshot value at year 0 and never change, except for the cash
// reservoir which is rebased every time cash is deposited or withdrawn: it
// alone compounds on its post-deposit value.
type position struct {
	asset   Asset
	base    float64
	since   float64 // in years from the projection start
	price   float64 // initial price per share, stocks only
	targets *date.History[float64]
}

func newPosition(a Asset) *position {
	p := &position{asset: a, base: num(a.Common().Value)}
	if st, ok := a.(*Stock); ok {
		p.price = st.PricePerShare()
		p.targets = targetHistory(st.Targets)
	}
	return p
}

// pricePerShare returns the stock price per share at year (instant t).
func (p *position) pricePerShare(year float64, t time.Time) float64 {
	st, ok := p.asset.(*Stock)
	if !ok {
		return 0
	}
	if st.growth() == StockGrowthTargets {
		return resolvePrice(p.price, p.targets, st.UseEstimation, t)
	}
	return num(p.price * math.Pow(1+st.GrowthRate.Rate(), year))
}

// valueAt returns the asset value at year (instant t).
func (p *position) valueAt(year float64, t time.Time) float64 {
	var rate Percent
	switch a := p.asset.(type) {
	case *Stock:
		return p.pricePerShare(year, t) * num(a.Quantity)
	case *Cash:
		rate = a.GrowthRate
	case *Holding:
		rate = a.GrowthRate
	}
	return num(p.base * math.Pow(1+rate.Rate(), year-p.since))
}

// deposit adds amount (possibly negative) to the asset value at year and
// compounds from the new value onward.
func (p *position) deposit(year float64, t time.Time, amount float64) {
	p.base = p.valueAt(year, t) + amount
	p.since = year
	p.asset.Common().Value = p.base
}

// ValueAt returns the value of asset a at instant t for a projection started
// at start.
//
// A stock is worth its price per share at t times its quantity, a non-stock
// asset compounds its value at its annual growth rate over the 365.25-day
// years elapsed since start.
func ValueAt(a Asset, start, t time.Time) float64 {
	return newPosition(a).valueAt(date.Years(start, t), t)
}
