package networth

import (
	"fmt"
	"strings"
)

// Frequency is how often an asset receives its share of the accumulated net
// savings, independently of the projection sampling.
type Frequency int

const (
	Quarterly Frequency = iota // zero value, the historical cadence
	Monthly
	Yearly
)

func (f Frequency) String() string {
	switch f {
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case Yearly:
		return "yearly"
	default:
		return "periodic"
	}
}

// Years returns the distribution interval as a fraction of a year.
func (f Frequency) Years() float64 {
	switch f {
	case Monthly:
		return 1.0 / 12
	case Yearly:
		return 1
	default:
		return 3.0 / 12
	}
}

// ParseFrequency parses a frequency name. The empty string is Quarterly.
func ParseFrequency(f string) (Frequency, error) {
	f = strings.ToLower(strings.TrimSpace(f))
	switch f {
	case "monthly", "month":
		return Monthly, nil
	case "quarterly", "quarter", "":
		return Quarterly, nil
	case "yearly", "year", "annual", "annually":
		return Yearly, nil
	default:
		return Quarterly, fmt.Errorf("unknown distribution frequency %q", f)
	}
}
