package renderer

import (
	"math"

	"github.com/etnz/networth"
	"github.com/etnz/networth/date"
)

// ProjectionRow is one sampled year of a Projection.
type ProjectionRow struct {
	Year             float64
	Date             date.Date
	TotalAssets      networth.Money
	TotalLiabilities networth.Money
	NetWorth         networth.Money
	MonthlySavings   networth.Money
}

// Projection is the view of a projection as a table of evenly picked points.
type Projection struct {
	Start    date.Date
	Years    float64
	Currency string
	Initial  ProjectionRow
	Final    ProjectionRow
	Growth   networth.Money   // final minus initial net worth
	Percent  networth.Percent // Growth relative to the initial net worth, 0 if it is zero
	Rows     []ProjectionRow
}

// NewProjection picks opts.Rows evenly spaced points, the first and the last
// included. It returns nil when points is empty.
func NewProjection(points []networth.Point, opts Options) *Projection {
	if len(points) == 0 {
		return nil
	}
	row := func(p networth.Point) ProjectionRow {
		return ProjectionRow{
			Year:             p.Year,
			Date:             date.Of(p.Date),
			TotalAssets:      opts.money(p.TotalAssets),
			TotalLiabilities: opts.money(p.TotalLiabilities),
			NetWorth:         opts.money(p.NetWorth),
			MonthlySavings:   opts.money(p.MonthlySavings),
		}
	}
	first, last := points[0], points[len(points)-1]
	v := &Projection{
		Start:    date.Of(first.Date),
		Years:    last.Year,
		Currency: opts.display(),
		Initial:  row(first),
		Final:    row(last),
	}
	v.Growth = v.Final.NetWorth.Sub(v.Initial.NetWorth)
	if !v.Initial.NetWorth.IsZero() {
		v.Percent = networth.Percent(v.Growth.Float() / math.Abs(v.Initial.NetWorth.Float()) * 100)
	}
	n := min(opts.rows(), len(points))
	if n == 1 {
		v.Rows = []ProjectionRow{v.Initial}
		return v
	}
	for i := range n {
		v.Rows = append(v.Rows, row(points[i*(len(points)-1)/(n-1)]))
	}
	return v
}
