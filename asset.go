package networth

import (
	"fmt"
	"slices"

	"github.com/etnz/networth/date"
)

// AssetType is the kind of an asset, it selects the Asset variant.
type AssetType string

// Asset types.
const (
	AssetCash       AssetType = "cash"
	AssetInvestment AssetType = "investment"
	AssetStock      AssetType = "stock"
	AssetProperty   AssetType = "property"
	AssetOther      AssetType = "other"
)

// ParseAssetType parses an asset type name.
func ParseAssetType(s string) (AssetType, error) {
	switch t := AssetType(s); t {
	case AssetCash, AssetInvestment, AssetStock, AssetProperty, AssetOther:
		return t, nil
	default:
		return "", fmt.Errorf("unknown asset type %q", s)
	}
}

// ReservoirID is the reserved identity of the permanent cash reservoir: the
// bank account receiving undistributed savings.
const ReservoirID = "permanent-bank-account"

// Asset is one holding of the snapshot. It is implemented by *Cash, *Holding
// and *Stock, each carrying only the fields relevant to its type.
type Asset interface {
	What() AssetType    // What returns the type of the asset.
	Common() *AssetBase // Common returns the fields shared by every asset type.
	clone() Asset
}

// AssetBase holds what every asset has.
type AssetBase struct {
	ID           string
	Name         string
	Value        float64   // current monetary value
	Distribution Frequency // how often it receives its share of savings
}

// Common returns a pointer to the shared fields.
func (a *AssetBase) Common() *AssetBase { return a }

// Cash is money held in an account, e.g. the cash reservoir.
type Cash struct {
	AssetBase
	GrowthRate Percent // annual interest
}

func (*Cash) What() AssetType { return AssetCash }

func (c *Cash) clone() Asset {
	x := *c
	return &x
}

// Holding is an asset valued by compounding its value at a fixed annual rate:
// investments, properties and anything else that is not a listed stock.
type Holding struct {
	AssetBase
	Type       AssetType // AssetInvestment, AssetProperty or AssetOther
	GrowthRate Percent
}

func (h *Holding) What() AssetType {
	if h.Type == "" {
		return AssetOther
	}
	return h.Type
}

func (h *Holding) clone() Asset {
	x := *h
	return &x
}

// StockGrowth selects how a stock's price per share evolves.
type StockGrowth string

const (
	StockGrowthRate    StockGrowth = "rate"    // compounding at GrowthRate
	StockGrowthTargets StockGrowth = "targets" // resolved from Targets
)

// Target is a known or assumed future price per share.
type Target struct {
	Date          date.Date
	ExpectedPrice float64
}

// Stock is a number of shares of a listed security.
type Stock struct {
	AssetBase
	Symbol        string
	Quantity      float64 // shares held
	Growth        StockGrowth
	GrowthRate    Percent
	Targets       []Target
	UseEstimation bool // interpolate between targets instead of holding the earlier one
}

func (*Stock) What() AssetType { return AssetStock }

func (s *Stock) clone() Asset {
	x := *s
	x.Targets = slices.Clone(s.Targets)
	return &x
}

// PricePerShare returns the price per share implied by the value and quantity, 0 if unknown.
func (s *Stock) PricePerShare() float64 {
	value, quantity := num(s.Value), num(s.Quantity)
	if value == 0 || quantity == 0 {
		return 0
	}
	return value / quantity
}

// growth returns the effective growth model: unset means targets when there
// is at least one.
func (s *Stock) growth() StockGrowth {
	switch s.Growth {
	case StockGrowthRate, StockGrowthTargets:
		return s.Growth
	}
	if len(s.Targets) > 0 {
		return StockGrowthTargets
	}
	return StockGrowthRate
}

// NewReservoir returns an empty cash reservoir.
func NewReservoir() *Cash {
	return &Cash{AssetBase: AssetBase{ID: ReservoirID, Name: "Bank account"}}
}
