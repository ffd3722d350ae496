package networth

import (
	"time"

	"github.com/sirupsen/logrus"
)

// flushTolerance absorbs the rounding of sample years when comparing the
// time elapsed since a flush to the distribution interval.
const flushTolerance = 1e-9

// accumulator collects savings until they are due to be distributed.
type accumulator struct {
	amount float64
	last   float64 // year of the last flush
	every  float64 // interval in years
}

func (a *accumulator) add(x float64) { a.amount += x }

// due reports whether the accumulator must flush at year.
func (a *accumulator) due(year float64, force bool) bool {
	return force || year-a.last >= a.every-flushTolerance
}

// flush empties the accumulator and returns what it held.
func (a *accumulator) flush(year float64) float64 {
	x := a.amount
	a.amount, a.last = 0, year
	return x
}

// distribute accrues savings over the step starting at year (instant t) and
// flushes the cash and investment accumulators that are due.
//
// Flushes are forced when last is true, so that every accrued saving is
// realized before the horizon ends.
func (s *simulation) distribute(year float64, t time.Time, step, savings float64, last bool) {
	amount := savings * step * 12
	next := year + step

	s.cash.add(amount)
	if s.invest != nil {
		s.invest.add(amount)
	}

	if s.cash.due(next, last) {
		x := s.cash.flush(next)
		r := s.reservoir()
		r.deposit(year, t, x)
		s.log.WithFields(logrus.Fields{"year": year, "amount": x, "balance": r.base}).Debug("cash distributed")
	}

	if s.invest == nil || !s.invest.due(next, last) {
		return
	}
	x := s.invest.flush(next) * num(s.policy.Percentage) / 100
	price := s.target.pricePerShare(year, t)
	if price <= 0 || x <= 0 {
		s.log.WithFields(logrus.Fields{"year": year, "amount": x, "price": price}).Debug("investment skipped")
		return
	}
	st := s.target.asset.(*Stock)
	shares := x / price
	st.Quantity = num(st.Quantity) + shares
	s.reservoir().deposit(year, t, -x)
	s.log.WithFields(logrus.Fields{
		"year":     year,
		"symbol":   st.Symbol,
		"amount":   x,
		"price":    price,
		"shares":   shares,
		"quantity": st.Quantity,
	}).Debug("shares bought")
}
