package renderer

import (
	"fmt"
	"time"

	"github.com/etnz/networth"
	"github.com/etnz/networth/date"
)

// Line is one asset or liability of a Summary.
type Line struct {
	Name  string
	Kind  string
	Value networth.Money
}

// Summary is the view of a snapshot's balance sheet and monthly cash flow.
type Summary struct {
	Date     date.Date
	Currency string

	Assets           []Line
	Liabilities      []Line
	TotalAssets      networth.Money
	TotalLiabilities networth.Money
	NetWorth         networth.Money

	MonthlyIncome   networth.Money
	MonthlyExpenses networth.Money
	LoanPayments    networth.Money
	LoanInterest    networth.Money
	TotalExpenses   networth.Money // expenses, loan payments and interest
	MonthlySavings  networth.Money

	Policy string // automatic investment sentence, empty if none
}

// NewSummary builds the Summary of s at instant t.
func NewSummary(s *networth.Snapshot, t time.Time, opts Options) *Summary {
	if opts.Currency == "" {
		opts.Currency = s.Currency
	}
	sum := s.Summarize(t)
	v := &Summary{
		Date:             date.Of(t),
		Currency:         opts.display(),
		TotalAssets:      opts.money(sum.TotalAssets),
		TotalLiabilities: opts.money(sum.TotalLiabilities),
		NetWorth:         opts.money(sum.NetWorth),
		MonthlyIncome:    opts.money(sum.MonthlyIncome),
		MonthlyExpenses:  opts.money(sum.MonthlyExpenses),
		LoanPayments:     opts.money(sum.LoanPayments),
		LoanInterest:     opts.money(sum.LoanInterest),
		MonthlySavings:   opts.money(sum.MonthlySavings),
	}
	v.TotalExpenses = v.MonthlyExpenses.Add(v.LoanPayments).Add(v.LoanInterest)
	for _, a := range s.Assets {
		b := a.Common()
		name := b.Name
		if st, ok := a.(*networth.Stock); ok && st.Symbol != "" {
			name = fmt.Sprintf("%s (%g %s)", b.Name, st.Quantity, st.Symbol)
		}
		v.Assets = append(v.Assets, Line{Name: name, Kind: string(a.What()), Value: opts.money(b.Value)})
	}
	for _, l := range s.Liabilities {
		v.Liabilities = append(v.Liabilities, Line{Name: l.Name, Kind: string(l.Type), Value: opts.money(l.Balance)})
	}
	if p := s.Policy; p.Type == networth.InvestInStock && p.Percentage > 0 && p.StockSymbol != "" {
		v.Policy = fmt.Sprintf("%s of the monthly savings buy %s.", networth.Percent(p.Percentage), p.StockSymbol)
	}
	return v
}
