package networth

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/etnz/networth/date"
	"github.com/google/uuid"
	"gopkg.in/yaml.v2"
)

// Format is a snapshot file format.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatOf returns the format of a file from its extension, JSON by default.
func FormatOf(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// The wire records are flat: every asset field is present whatever the
// asset type, the type field selects which ones are read.

type targetRecord struct {
	Date          string  `json:"date" yaml:"date"`
	ExpectedPrice float64 `json:"expectedPrice" yaml:"expectedPrice"`
}

type assetRecord struct {
	ID                    string         `json:"id" yaml:"id"`
	Name                  string         `json:"name" yaml:"name"`
	Value                 float64        `json:"value" yaml:"value"`
	GrowthRate            Percent        `json:"growthRate" yaml:"growthRate"`
	Type                  string         `json:"type" yaml:"type"`
	StockSymbol           string         `json:"stockSymbol,omitempty" yaml:"stockSymbol,omitempty"`
	Quantity              float64        `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	StockGrowthType       string         `json:"stockGrowthType,omitempty" yaml:"stockGrowthType,omitempty"`
	StockTargets          []targetRecord `json:"stockTargets,omitempty" yaml:"stockTargets,omitempty"`
	UseEstimation         bool           `json:"useEstimation,omitempty" yaml:"useEstimation,omitempty"`
	DistributionFrequency string         `json:"distributionFrequency,omitempty" yaml:"distributionFrequency,omitempty"`
}

type liabilityRecord struct {
	ID             string  `json:"id" yaml:"id"`
	Name           string  `json:"name" yaml:"name"`
	Balance        float64 `json:"balance" yaml:"balance"`
	InterestRate   Percent `json:"interestRate" yaml:"interestRate"`
	MinimumPayment float64 `json:"minimumPayment" yaml:"minimumPayment"`
	Type           string  `json:"type" yaml:"type"`
}

type incomeRecord struct {
	ID            string    `json:"id" yaml:"id"`
	Source        string    `json:"source" yaml:"source"`
	MonthlyAmount float64   `json:"monthlyAmount" yaml:"monthlyAmount"`
	GrowthRate    Percent   `json:"growthRate" yaml:"growthRate"`
	HasDateRange  bool      `json:"hasDateRange,omitempty" yaml:"hasDateRange,omitempty"`
	StartDate     date.Date `json:"startDate" yaml:"startDate"`
	EndDate       date.Date `json:"endDate" yaml:"endDate"`
}

type expenseRecord struct {
	ID            string  `json:"id" yaml:"id"`
	Category      string  `json:"category" yaml:"category"`
	MonthlyAmount float64 `json:"monthlyAmount" yaml:"monthlyAmount"`
	GrowthRate    Percent `json:"growthRate" yaml:"growthRate"`
}

type snapshotRecord struct {
	Currency              string            `json:"currency,omitempty" yaml:"currency,omitempty"`
	Assets                []assetRecord     `json:"assets" yaml:"assets"`
	Liabilities           []liabilityRecord `json:"liabilities" yaml:"liabilities"`
	Income                []incomeRecord    `json:"income" yaml:"income"`
	Expenses              []expenseRecord   `json:"expenses" yaml:"expenses"`
	InvestmentPercentage  float64           `json:"investmentPercentage" yaml:"investmentPercentage"`
	InvestmentType        string            `json:"investmentType,omitempty" yaml:"investmentType,omitempty"`
	InvestmentRate        Percent           `json:"investmentRate,omitempty" yaml:"investmentRate,omitempty"`
	InvestmentStockSymbol string            `json:"investmentStockSymbol,omitempty" yaml:"investmentStockSymbol,omitempty"`
	YearsToProject        float64           `json:"yearsToProject,omitempty" yaml:"yearsToProject,omitempty"`
}

// DecodeSnapshot reads a snapshot in format f.
//
// Missing identities are generated, the investment percentage is clamped to
// [0, 100] and the cash reservoir is added if absent.
func DecodeSnapshot(r io.Reader, f Format) (*Snapshot, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read snapshot: %w", err)
	}
	var rec snapshotRecord
	switch f {
	case YAML:
		err = yaml.Unmarshal(content, &rec)
	default:
		err = json.Unmarshal(content, &rec)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot decode %s snapshot: %w", f, err)
	}
	s, err := rec.snapshot()
	if err != nil {
		return nil, err
	}
	s.Policy.Clamp()
	s.EnsureReservoir()
	return s, nil
}

// EncodeSnapshot writes s in format f.
func EncodeSnapshot(w io.Writer, s *Snapshot, f Format) error {
	rec := newSnapshotRecord(s)
	var content []byte
	var err error
	switch f {
	case YAML:
		content, err = yaml.Marshal(rec)
	default:
		content, err = json.MarshalIndent(rec, "", "  ")
		content = append(content, '\n')
	}
	if err != nil {
		return fmt.Errorf("cannot encode %s snapshot: %w", f, err)
	}
	if _, err := w.Write(content); err != nil {
		return fmt.Errorf("cannot write snapshot: %w", err)
	}
	return nil
}

func newID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func (rec snapshotRecord) snapshot() (*Snapshot, error) {
	s := &Snapshot{
		Currency: strings.ToUpper(rec.Currency),
		Years:    rec.YearsToProject,
		Policy: InvestmentPolicy{
			Percentage:  rec.InvestmentPercentage,
			Type:        InvestmentType(rec.InvestmentType),
			Rate:        rec.InvestmentRate,
			StockSymbol: NormalizeSymbol(rec.InvestmentStockSymbol),
		},
	}
	for i, a := range rec.Assets {
		asset, err := a.asset()
		if err != nil {
			return nil, fmt.Errorf("asset #%d %q: %w", i, a.Name, err)
		}
		s.Assets = append(s.Assets, asset)
	}
	for i, l := range rec.Liabilities {
		typ, err := ParseLiabilityType(l.Type)
		if err != nil {
			return nil, fmt.Errorf("liability #%d %q: %w", i, l.Name, err)
		}
		s.Liabilities = append(s.Liabilities, Liability{
			ID:             newID(l.ID),
			Name:           l.Name,
			Balance:        l.Balance,
			InterestRate:   l.InterestRate,
			MinimumPayment: l.MinimumPayment,
			Type:           typ,
		})
	}
	for _, i := range rec.Income {
		s.Incomes = append(s.Incomes, Income{
			ID:            newID(i.ID),
			Source:        i.Source,
			MonthlyAmount: i.MonthlyAmount,
			GrowthRate:    i.GrowthRate,
			HasDateRange:  i.HasDateRange,
			StartDate:     i.StartDate,
			EndDate:       i.EndDate,
		})
	}
	for _, e := range rec.Expenses {
		s.Expenses = append(s.Expenses, Expense{
			ID:            newID(e.ID),
			Category:      e.Category,
			MonthlyAmount: e.MonthlyAmount,
			GrowthRate:    e.GrowthRate,
		})
	}
	return s, nil
}

func (a assetRecord) asset() (Asset, error) {
	typ, err := ParseAssetType(a.Type)
	if err != nil {
		return nil, err
	}
	freq, err := ParseFrequency(a.DistributionFrequency)
	if err != nil {
		return nil, err
	}
	if a.ID == ReservoirID && typ != AssetCash {
		return nil, fmt.Errorf("id %q is reserved for the cash reservoir, not %s", ReservoirID, typ)
	}
	base := AssetBase{ID: newID(a.ID), Name: a.Name, Value: a.Value, Distribution: freq}

	switch typ {
	case AssetCash:
		return &Cash{AssetBase: base, GrowthRate: a.GrowthRate}, nil
	case AssetStock:
		st := &Stock{
			AssetBase:     base,
			Symbol:        NormalizeSymbol(a.StockSymbol),
			Quantity:      a.Quantity,
			Growth:        StockGrowth(a.StockGrowthType),
			GrowthRate:    a.GrowthRate,
			UseEstimation: a.UseEstimation,
		}
		for _, t := range a.StockTargets {
			// malformed dates are kept as zero dates, the projection ignores them.
			on, _ := date.Parse(t.Date)
			st.Targets = append(st.Targets, Target{Date: on, ExpectedPrice: t.ExpectedPrice})
		}
		return st, nil
	default:
		return &Holding{AssetBase: base, Type: typ, GrowthRate: a.GrowthRate}, nil
	}
}

func newSnapshotRecord(s *Snapshot) snapshotRecord {
	rec := snapshotRecord{
		Currency:              s.Currency,
		YearsToProject:        s.Years,
		InvestmentPercentage:  s.Policy.Percentage,
		InvestmentType:        string(s.Policy.Type),
		InvestmentRate:        s.Policy.Rate,
		InvestmentStockSymbol: s.Policy.StockSymbol,
		Assets:                make([]assetRecord, 0, len(s.Assets)),
		Liabilities:           make([]liabilityRecord, 0, len(s.Liabilities)),
		Income:                make([]incomeRecord, 0, len(s.Incomes)),
		Expenses:              make([]expenseRecord, 0, len(s.Expenses)),
	}
	for _, a := range s.Assets {
		rec.Assets = append(rec.Assets, newAssetRecord(a))
	}
	for _, l := range s.Liabilities {
		rec.Liabilities = append(rec.Liabilities, liabilityRecord{
			ID:             l.ID,
			Name:           l.Name,
			Balance:        l.Balance,
			InterestRate:   l.InterestRate,
			MinimumPayment: l.MinimumPayment,
			Type:           string(l.Type),
		})
	}
	for _, i := range s.Incomes {
		rec.Income = append(rec.Income, incomeRecord(i))
	}
	for _, e := range s.Expenses {
		rec.Expenses = append(rec.Expenses, expenseRecord(e))
	}
	return rec
}

func newAssetRecord(a Asset) assetRecord {
	b := a.Common()
	rec := assetRecord{
		ID:                    b.ID,
		Name:                  b.Name,
		Value:                 b.Value,
		Type:                  string(a.What()),
		DistributionFrequency: b.Distribution.String(),
	}
	switch a := a.(type) {
	case *Cash:
		rec.GrowthRate = a.GrowthRate
	case *Holding:
		rec.GrowthRate = a.GrowthRate
	case *Stock:
		rec.GrowthRate = a.GrowthRate
		rec.StockSymbol = a.Symbol
		rec.Quantity = a.Quantity
		rec.StockGrowthType = string(a.Growth)
		rec.UseEstimation = a.UseEstimation
		for _, t := range a.Targets {
			on := ""
			if !t.Date.IsZero() {
				on = t.Date.String()
			}
			rec.StockTargets = append(rec.StockTargets, targetRecord{Date: on, ExpectedPrice: t.ExpectedPrice})
		}
	}
	return rec
}
