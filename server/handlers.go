package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/networth"
	"github.com/etnz/networth/date"
	"github.com/etnz/networth/fx"
	"github.com/shopspring/decimal"
)

// StockPrice is the response of GET /stock-price.
type StockPrice struct {
	Symbol   string  `json:"symbol"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

// Point is one sample of the response of POST /projection.
type Point struct {
	Year             float64   `json:"year"`
	Date             time.Time `json:"date"`
	TotalAssets      float64   `json:"totalAssets"`
	TotalLiabilities float64   `json:"totalLiabilities"`
	NetWorth         float64   `json:"netWorth"`
	MonthlyIncome    float64   `json:"monthlyIncome"`
	MonthlyExpenses  float64   `json:"monthlyExpenses"`
	MonthlySavings   float64   `json:"monthlySavings"`
}

// Projection is the response of POST /projection.
type Projection struct {
	Currency string  `json:"currency,omitempty"`
	Years    float64 `json:"years"`
	Points   []Point `json:"points"`
}

// NewProjection returns the response form of points projected over years.
func NewProjection(currency string, years float64, points []networth.Point) Projection {
	resp := Projection{Currency: currency, Years: years, Points: make([]Point, 0, len(points))}
	for _, p := range points {
		resp.Points = append(resp.Points, Point(p))
	}
	return resp
}

// Summary is the response of POST /summary.
type Summary struct {
	Currency         string  `json:"currency,omitempty"`
	Date             string  `json:"date"`
	TotalAssets      float64 `json:"totalAssets"`
	TotalLiabilities float64 `json:"totalLiabilities"`
	NetWorth         float64 `json:"netWorth"`
	MonthlyIncome    float64 `json:"monthlyIncome"`
	MonthlyExpenses  float64 `json:"monthlyExpenses"`
	LoanPayments     float64 `json:"loanPayments"`
	LoanInterest     float64 `json:"loanInterest"`
	MonthlySavings   float64 `json:"monthlySavings"`
}

// Rates is the response of GET /rates: units of currency per US dollar.
type Rates struct {
	Date  string             `json:"date"`
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// handleStockPrice serves GET /stock-price?symbol=AAPL&currency=EUR.
func (s *Server) handleStockPrice(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))
	currency := strings.ToUpper(r.URL.Query().Get("currency"))
	if currency == "" {
		currency = fx.Pivot
	}
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "Symbol parameter is required")
		return
	}

	price, err := s.prices.Price(r.Context(), symbol, date.Of(s.now()))
	if err != nil {
		s.log.WithError(err).WithField("symbol", symbol).Warn("price lookup failed")
		if errors.Is(err, networth.ErrPriceUnavailable) {
			writeError(w, http.StatusNotFound, "Failed to fetch stock price")
		} else {
			writeError(w, http.StatusBadGateway, "Failed to fetch stock price")
		}
		return
	}
	// prices are quoted in US dollars.
	rate := s.rate(r, fx.Pivot, currency)
	converted := decimal.NewFromFloat(price).Mul(rate).InexactFloat64()
	writeJSON(w, http.StatusOK, StockPrice{Symbol: symbol, Price: converted, Currency: currency})
}

// rate returns the rate from one currency to another, or the fallback rate
// when rates are unavailable.
func (s *Server) rate(r *http.Request, from, to string) decimal.Decimal {
	one := decimal.NewFromInt(1)
	if from == to {
		return one
	}
	rates, err := s.rates.Rates(r.Context())
	if err != nil {
		s.log.WithError(err).Warn("exchange rates unavailable, amounts are not converted")
		return one
	}
	rate, err := rates.Rate(from, to)
	if err != nil {
		s.log.WithError(err).Warnf("missing exchange rate for %s or %s", from, to)
	}
	return rate
}

// handleProjection serves POST /projection?years=10&samples=100 with a JSON snapshot body.
func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.decodeSnapshot(w, r)
	if !ok {
		return
	}
	years, err := floatParam(r, "years", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	samples := networth.DefaultSamples
	if v := r.URL.Query().Get("samples"); v != "" {
		samples, err = strconv.Atoi(v)
	}
	if err != nil || samples < 1 || samples > 10000 {
		writeError(w, http.StatusBadRequest, "samples must be an integer in [1, 10000]")
		return
	}
	years = min(snap.Horizon(years), networth.MaxYears)

	points := networth.Project(snap, years, samples, networth.Options{Start: date.Of(s.now()).Time(), Log: s.log})
	writeJSON(w, http.StatusOK, NewProjection(snap.Currency, years, points))
}

// handleSummary serves POST /summary with a JSON snapshot body.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.decodeSnapshot(w, r)
	if !ok {
		return
	}
	on := date.Of(s.now())
	sum := snap.Summarize(on.Time())
	writeJSON(w, http.StatusOK, Summary{
		Currency:         snap.Currency,
		Date:             on.String(),
		TotalAssets:      sum.TotalAssets,
		TotalLiabilities: sum.TotalLiabilities,
		NetWorth:         sum.NetWorth,
		MonthlyIncome:    sum.MonthlyIncome,
		MonthlyExpenses:  sum.MonthlyExpenses,
		LoanPayments:     sum.LoanPayments,
		LoanInterest:     sum.LoanInterest,
		MonthlySavings:   sum.MonthlySavings,
	})
}

// handleRates serves GET /rates.
func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	rates, err := s.rates.Rates(r.Context())
	if err != nil {
		s.log.WithError(err).Warn("exchange rates unavailable")
		writeError(w, http.StatusServiceUnavailable, "Exchange rates unavailable")
		return
	}
	resp := Rates{Date: rates.Date.String(), Base: fx.Pivot, Rates: make(map[string]float64)}
	for _, cur := range rates.Currencies() {
		rate, err := rates.Rate(fx.Pivot, cur)
		if err != nil {
			continue
		}
		resp.Rates[cur] = rate.InexactFloat64()
	}
	writeJSON(w, http.StatusOK, resp)
}

// maxBody bounds the size of a snapshot body.
const maxBody = 1 << 20

func (s *Server) decodeSnapshot(w http.ResponseWriter, r *http.Request) (*networth.Snapshot, bool) {
	snap, err := networth.DecodeSnapshot(http.MaxBytesReader(w, r.Body, maxBody), networth.JSON)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid snapshot: %v", err))
		return nil, false
	}
	return snap, true
}

func floatParam(r *http.Request, name string, def float64) (float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return f, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
