package networth

import (
	"io"
	"time"

	"github.com/etnz/networth/date"
	"github.com/sirupsen/logrus"
)

// DefaultSamples is the number of points of a projection when unspecified.
const DefaultSamples = 100

// MaxYears bounds the projection horizon.
const MaxYears = 200

// DefaultYears is the projection horizon when neither the caller nor the
// snapshot sets one.
const DefaultYears = 3

// Horizon returns years if positive, else the snapshot's own horizon, else
// DefaultYears.
func (s *Snapshot) Horizon(years float64) float64 {
	switch {
	case years > 0:
		return years
	case s.Years > 0:
		return s.Years
	default:
		return DefaultYears
	}
}

// Point is one sample of a projection.
type Point struct {
	Year             float64   // years since the start, fractional
	Date             time.Time // start + Year average years
	TotalAssets      float64
	TotalLiabilities float64
	NetWorth         float64
	MonthlyIncome    float64
	MonthlyExpenses  float64 // including liability payments and interest
	MonthlySavings   float64
}

// Options tunes a projection.
type Options struct {
	// Start is the instant of year 0. The zero value means today at midnight UTC.
	Start time.Time
	// Log receives a debug trace of distributions and purchases. Nil is silent.
	Log logrus.FieldLogger
}

// simulation is the state threaded through a projection. It owns a deep copy
// of the snapshot.
type simulation struct {
	snap      *Snapshot
	positions []*position
	policy    InvestmentPolicy
	cash      accumulator
	invest    *accumulator // nil when the policy buys nothing
	target    *position    // the stock bought by the policy
	log       logrus.FieldLogger
}

func newSimulation(s *Snapshot, log logrus.FieldLogger) *simulation {
	sim := &simulation{snap: s.Clone(), policy: s.Policy, log: log}
	for _, a := range sim.snap.Assets {
		sim.positions = append(sim.positions, newPosition(a))
	}
	sim.cash.every = Quarterly.Years()
	if r := sim.snap.Reservoir(); r != nil {
		sim.cash.every = r.Distribution.Years()
	}
	if sim.policy.active() {
		for _, p := range sim.positions {
			if st, ok := p.asset.(*Stock); ok && NormalizeSymbol(st.Symbol) == NormalizeSymbol(sim.policy.StockSymbol) {
				sim.target = p
				sim.invest = &accumulator{every: st.Distribution.Years()}
				break
			}
		}
	}
	return sim
}

// reservoir returns the position of the cash reservoir, creating the asset
// if needed.
func (s *simulation) reservoir() *position {
	for _, p := range s.positions {
		if c, ok := p.asset.(*Cash); ok && c.ID == ReservoirID {
			return p
		}
	}
	p := newPosition(s.snap.EnsureReservoir())
	s.positions = append(s.positions, p)
	return p
}

// revalue sets every asset value to its value at year.
func (s *simulation) revalue(year float64, t time.Time) {
	for _, p := range s.positions {
		p.asset.Common().Value = p.valueAt(year, t)
	}
}

// amortize moves every liability forward by step years.
func (s *simulation) amortize(step float64) {
	for i, l := range s.snap.Liabilities {
		s.snap.Liabilities[i].Balance = l.Amortize(step).Balance
	}
}

// point records the current state.
func (s *simulation) point(year float64, t time.Time) Point {
	sum := s.snap.Summarize(t)
	return Point{
		Year:             year,
		Date:             t,
		TotalAssets:      sum.TotalAssets,
		TotalLiabilities: sum.TotalLiabilities,
		NetWorth:         sum.NetWorth,
		MonthlyIncome:    sum.MonthlyIncome,
		MonthlyExpenses:  sum.TotalMonthlyExpenses(),
		MonthlySavings:   sum.MonthlySavings,
	}
}

// Project simulates s over years and returns exactly samples evenly spaced
// points, the first at year 0 and the last at years.
//
// At each sample every asset is revalued and the totals are recorded; then,
// unless it is the last sample, the savings are distributed and the
// liabilities amortized to move to the next sample. s is not modified.
//
// It returns nil when samples < 1. years is bounded to [0, MaxYears].
func Project(s *Snapshot, years float64, samples int, opts Options) []Point {
	if samples < 1 {
		return nil
	}
	years = min(max(num(years), 0), MaxYears)
	start := opts.Start
	if start.IsZero() {
		start = date.Today().Time()
	}
	log := opts.Log
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	sim := newSimulation(s, log)
	var step float64
	if samples > 1 {
		step = years / float64(samples-1)
	}

	points := make([]Point, 0, samples)
	for i := range samples {
		year := 0.0
		if samples > 1 {
			year = years * float64(i) / float64(samples-1)
		}
		t := start.Add(time.Duration(year * float64(date.Year)))

		sim.revalue(year, t)
		p := sim.point(year, t)
		points = append(points, p)

		if i < samples-1 {
			sim.distribute(year, t, step, p.MonthlySavings, i == samples-2)
			sim.amortize(step)
		}
	}
	return points
}
