package networth

import (
	"fmt"
	"time"

	"github.com/etnz/networth/date"
)

// LiabilityType is the kind of debt.
type LiabilityType string

const (
	Mortgage   LiabilityType = "mortgage"
	AutoLoan   LiabilityType = "auto"
	CreditCard LiabilityType = "credit_card"
	Student    LiabilityType = "student"
	OtherDebt  LiabilityType = "other"
)

// ParseLiabilityType parses a liability type name, the empty string is OtherDebt.
func ParseLiabilityType(s string) (LiabilityType, error) {
	switch t := LiabilityType(s); t {
	case Mortgage, AutoLoan, CreditCard, Student, OtherDebt:
		return t, nil
	case "":
		return OtherDebt, nil
	default:
		return "", fmt.Errorf("unknown liability type %q", s)
	}
}

// Liability is a debt amortized by a minimum monthly payment.
type Liability struct {
	ID             string
	Name           string
	Balance        float64
	InterestRate   Percent // annual
	MinimumPayment float64 // monthly
	Type           LiabilityType
}

// monthlyInterest is the simple monthly interest on the current balance.
func (l Liability) monthlyInterest() float64 {
	return num(l.Balance) * l.InterestRate.Rate() / 12
}

// Income is a monthly revenue.
type Income struct {
	ID            string
	Source        string
	MonthlyAmount float64
	GrowthRate    Percent // carried, not compounded by the projection
	HasDateRange  bool
	StartDate     date.Date // optional, inclusive
	EndDate       date.Date // optional, inclusive
}

// ActiveAt reports whether the income contributes at instant t.
func (i Income) ActiveAt(t time.Time) bool {
	if !i.HasDateRange {
		return true
	}
	on := date.Of(t)
	if !i.StartDate.IsZero() && on.Before(i.StartDate) {
		return false
	}
	if !i.EndDate.IsZero() && on.After(i.EndDate) {
		return false
	}
	return true
}

// Expense is a monthly spending.
type Expense struct {
	ID            string
	Category      string
	MonthlyAmount float64
	GrowthRate    Percent // inflation, carried, not compounded by the projection
}

// InvestmentType selects what the automatic investment buys.
type InvestmentType string

const (
	InvestInRate  InvestmentType = "rate"
	InvestInStock InvestmentType = "stock"
	InvestInCash  InvestmentType = "cash"
)

// InvestmentPolicy diverts a share of the monthly savings into a stock.
type InvestmentPolicy struct {
	Percentage  float64 // 0-100, share of savings invested
	Type        InvestmentType
	Rate        Percent
	StockSymbol string // must match a stock asset to take effect
}

// Clamp bounds Percentage to [0, 100].
func (p *InvestmentPolicy) Clamp() {
	p.Percentage = min(max(num(p.Percentage), 0), 100)
}

// active reports whether the policy buys stocks at all.
func (p InvestmentPolicy) active() bool {
	return num(p.Percentage) > 0 && p.Type == InvestInStock && p.StockSymbol != ""
}
