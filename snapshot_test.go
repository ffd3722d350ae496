package networth

import (
	"math"
	"testing"

	"github.com/etnz/networth/date"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestSnapshot_Summarize(t *testing.T) {
	s := &Snapshot{
		Assets: []Asset{
			reservoir(2000, Quarterly),
			&Holding{AssetBase: AssetBase{Value: 8000}, Type: AssetInvestment},
			&Holding{AssetBase: AssetBase{Value: math.NaN()}, Type: AssetOther},
		},
		Liabilities: []Liability{{Balance: 1200, InterestRate: 10, MinimumPayment: 100}},
		Incomes: []Income{
			{MonthlyAmount: 3000},
			{MonthlyAmount: 700, HasDateRange: true, StartDate: date.New(2030, 1, 1)},
		},
		Expenses: []Expense{{MonthlyAmount: 1800}},
	}

	got := s.Summarize(start)
	want := Summary{
		TotalAssets:      10000,
		TotalLiabilities: 1200,
		NetWorth:         8800,
		MonthlyIncome:    3000,
		MonthlyExpenses:  1800,
		LoanPayments:     100,
		LoanInterest:     10,
		MonthlySavings:   1090,
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
	}
	assertNear(t, "TotalMonthlyExpenses()", got.TotalMonthlyExpenses(), 1910, 1e-9)
	assertNear(t, "NetWorth()", s.NetWorth(), 8800, 1e-9)
	assertNear(t, "MonthlyNet(2030)", s.MonthlyNet(date.New(2030, 6, 1).Time()), 1790, 1e-9)
}

func TestSnapshot_Clone(t *testing.T) {
	s := &Snapshot{
		Assets: []Asset{
			&Stock{AssetBase: AssetBase{ID: "acme", Value: 10}, Quantity: 1, Targets: []Target{{Date: date.New(2027, 1, 1), ExpectedPrice: 12}}},
		},
		Liabilities: []Liability{{Balance: 5}},
	}
	c := s.Clone()
	st := c.Assets[0].(*Stock)
	st.Quantity = 99
	st.Targets[0].ExpectedPrice = 99
	c.Liabilities[0].Balance = 99
	c.EnsureReservoir()

	orig := s.Assets[0].(*Stock)
	if orig.Quantity != 1 || orig.Targets[0].ExpectedPrice != 12 || s.Liabilities[0].Balance != 5 {
		t.Errorf("Clone() shares memory with the original: %+v %+v", orig, s.Liabilities)
	}
	if len(s.Assets) != 1 {
		t.Errorf("len(s.Assets) = %d, want 1", len(s.Assets))
	}
}

func TestSnapshot_EnsureReservoir(t *testing.T) {
	s := &Snapshot{}
	r := s.EnsureReservoir()
	if r == nil || r.ID != ReservoirID {
		t.Fatalf("EnsureReservoir() = %+v, want the reservoir", r)
	}
	if again := s.EnsureReservoir(); again != r || len(s.Assets) != 1 {
		t.Errorf("EnsureReservoir() created a second reservoir")
	}
}

func TestPolicy_Clamp(t *testing.T) {
	for _, tt := range []struct{ in, want float64 }{{-5, 0}, {42, 42}, {250, 100}, {math.NaN(), 0}} {
		p := InvestmentPolicy{Percentage: tt.in}
		p.Clamp()
		if p.Percentage != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, p.Percentage, tt.want)
		}
	}
}

func TestParseFrequency(t *testing.T) {
	for in, want := range map[string]Frequency{"monthly": Monthly, "Quarterly": Quarterly, "": Quarterly, "yearly": Yearly} {
		got, err := ParseFrequency(in)
		if err != nil || got != want {
			t.Errorf("ParseFrequency(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
	if _, err := ParseFrequency("weekly"); err == nil {
		t.Error("ParseFrequency(weekly) want error")
	}
}

func TestMoney(t *testing.T) {
	if got := USD(1234.5).String(); got != "$1,234.50" {
		t.Errorf("USD(1234.5).String() = %q, want $1,234.50", got)
	}
	if got := USD(3).SignedString(); got != "+$3.00" {
		t.Errorf("USD(3).SignedString() = %q, want +$3.00", got)
	}
	if got := USD(0.001).SignedString(); got != "-" {
		t.Errorf("USD(0.001).SignedString() = %q, want -", got)
	}
	if got := M(12.5, "").String(); got != "12.50" {
		t.Errorf("M(12.5, \"\").String() = %q, want 12.50", got)
	}
}

func TestMoney_Arithmetic(t *testing.T) {
	if got := USD(5).Add(M(2.5, "")); !got.Equal(USD(7.5)) {
		t.Errorf("USD(5).Add(2.5) = %v %v, want 7.5 USD", got.Float(), got.Currency())
	}
	if got := M(5.0, "").Sub(USD(8)); !got.Equal(USD(-3)) {
		t.Errorf("5.Sub(USD(8)) = %v %v, want -3 USD", got.Float(), got.Currency())
	}
	defer func() {
		if recover() == nil {
			t.Error("USD.Add(EUR) want panic")
		}
	}()
	USD(1).Add(M(1.0, "EUR"))
}

func TestPercent(t *testing.T) {
	for _, tt := range []struct {
		p           Percent
		str, signed string
	}{
		{12.5, "12.50%", "+12.50%"},
		{-3, "-3.00%", "-3.00%"},
		{0, "0.00%", "-"},
		{Percent(math.NaN()), "0.00%", "-"},
	} {
		if got := tt.p.String(); got != tt.str {
			t.Errorf("Percent(%v).String() = %q, want %q", float64(tt.p), got, tt.str)
		}
		if got := tt.p.SignedString(); got != tt.signed {
			t.Errorf("Percent(%v).SignedString() = %q, want %q", float64(tt.p), got, tt.signed)
		}
	}
}
