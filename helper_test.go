package networth

import (
	"math"
	"testing"
	"time"

	"github.com/etnz/networth/date"
)

// start is the fixed "now" of every projection in tests.
var start = date.New(2026, time.January, 1).Time()

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// at returns the instant years after start.
func at(years float64) time.Time { return start.Add(time.Duration(years * float64(date.Year))) }

// reservoir returns a cash reservoir holding value.
func reservoir(value float64, f Frequency) *Cash {
	c := NewReservoir()
	c.Value = value
	c.Distribution = f
	return c
}

// assertNear fails the test if got is not within tolerance of want.
func assertNear(t *testing.T, name string, got, want, tolerance float64) {
	t.Helper()
	if math.Abs(got-want) > tolerance {
		t.Errorf("%s = %v, want %v (±%v)", name, got, want, tolerance)
	}
}
