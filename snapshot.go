package networth

import (
	"math"
	"slices"
	"strings"
	"time"
)

// Snapshot is the complete financial state of a household at year 0.
type Snapshot struct {
	Currency    string // ISO code of the single currency of every amount
	Assets      []Asset
	Liabilities []Liability
	Incomes     []Income
	Expenses    []Expense
	Policy      InvestmentPolicy
	Years       float64 // preferred projection horizon, 0 if unset
}

// Clone returns a deep copy of s sharing no memory with it.
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	c.Assets = make([]Asset, len(s.Assets))
	for i, a := range s.Assets {
		c.Assets[i] = a.clone()
	}
	c.Liabilities = slices.Clone(s.Liabilities)
	c.Incomes = slices.Clone(s.Incomes)
	c.Expenses = slices.Clone(s.Expenses)
	return &c
}

// Reservoir returns the cash reservoir or nil.
func (s *Snapshot) Reservoir() *Cash {
	for _, a := range s.Assets {
		if c, ok := a.(*Cash); ok && c.ID == ReservoirID {
			return c
		}
	}
	return nil
}

// EnsureReservoir adds an empty cash reservoir if there is none, and returns it.
func (s *Snapshot) EnsureReservoir() *Cash {
	if c := s.Reservoir(); c != nil {
		return c
	}
	c := NewReservoir()
	s.Assets = append(s.Assets, c)
	return c
}

// NormalizeSymbol returns the canonical form of a stock symbol: trimmed and
// upper case.
func NormalizeSymbol(symbol string) string { return strings.ToUpper(strings.TrimSpace(symbol)) }

// StockBySymbol returns the first stock asset with that symbol or nil.
// Symbols are compared in their canonical form.
func (s *Snapshot) StockBySymbol(symbol string) *Stock {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil
	}
	for _, a := range s.Assets {
		if st, ok := a.(*Stock); ok && NormalizeSymbol(st.Symbol) == symbol {
			return st
		}
	}
	return nil
}

// TotalAssets is the sum of the current asset values.
func (s *Snapshot) TotalAssets() float64 {
	var total float64
	for _, a := range s.Assets {
		total += num(a.Common().Value)
	}
	return total
}

// TotalLiabilities is the sum of the current liability balances.
func (s *Snapshot) TotalLiabilities() float64 {
	var total float64
	for _, l := range s.Liabilities {
		total += num(l.Balance)
	}
	return total
}

// NetWorth is total assets minus total liabilities.
func (s *Snapshot) NetWorth() float64 { return s.TotalAssets() - s.TotalLiabilities() }

// MonthlyNet returns the monthly savings at instant t: active incomes minus
// expenses, liability minimum payments and liability monthly interest.
func (s *Snapshot) MonthlyNet(t time.Time) float64 {
	return s.Summarize(t).MonthlySavings
}

// Summary is the current month's cash flow and the balance sheet of a snapshot.
type Summary struct {
	TotalAssets      float64
	TotalLiabilities float64
	NetWorth         float64
	MonthlyIncome    float64
	MonthlyExpenses  float64 // expenses only
	LoanPayments     float64 // sum of minimum payments
	LoanInterest     float64 // sum of monthly interest
	MonthlySavings   float64
}

// TotalMonthlyExpenses is expenses including loan payments and interest.
func (s Summary) TotalMonthlyExpenses() float64 {
	return s.MonthlyExpenses + s.LoanPayments + s.LoanInterest
}

// Summarize computes the Summary of s at instant t.
func (s *Snapshot) Summarize(t time.Time) Summary {
	sum := Summary{
		TotalAssets:      s.TotalAssets(),
		TotalLiabilities: s.TotalLiabilities(),
	}
	sum.NetWorth = sum.TotalAssets - sum.TotalLiabilities
	for _, i := range s.Incomes {
		if i.ActiveAt(t) {
			sum.MonthlyIncome += num(i.MonthlyAmount)
		}
	}
	for _, e := range s.Expenses {
		sum.MonthlyExpenses += num(e.MonthlyAmount)
	}
	for _, l := range s.Liabilities {
		sum.LoanPayments += num(l.MinimumPayment)
		sum.LoanInterest += l.monthlyInterest()
	}
	sum.MonthlySavings = sum.MonthlyIncome - sum.TotalMonthlyExpenses()
	return sum
}

// num returns x, or 0 when x is NaN or infinite.
func num(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
