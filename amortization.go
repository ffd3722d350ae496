package networth

import "math"

// Amortization is the outcome of one step of a liability.
type Amortization struct {
	Interest float64 // accrued over the step
	Payment  float64 // paid over the step
	Balance  float64 // after the step, never negative
}

// Amortize accrues interest on l for years (annual compounding scaled to the
// step) and applies the minimum monthly payments due over the step. The
// payment never exceeds what is owed.
func (l Liability) Amortize(years float64) Amortization {
	balance := num(l.Balance)
	interest := num(balance * (math.Pow(1+l.InterestRate.Rate(), years) - 1))
	months := years * 12
	payment := min(num(l.MinimumPayment)*months, balance+interest)
	return Amortization{
		Interest: interest,
		Payment:  payment,
		Balance:  max(balance+interest-payment, 0),
	}
}
