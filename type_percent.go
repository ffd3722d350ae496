package networth

import "fmt"

// Percent is an annual rate expressed in percent (5 means 5%).
type Percent float64

// Rate returns the percentage as a plain ratio (5% is 0.05). Invalid values are 0.
func (p Percent) Rate() float64 { return num(float64(p)) / 100 }

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", num(float64(p)))
}

// SignedString returns the percentage with its sign, 0 is "-".
func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", num(float64(p)))
	if res == "+0.00%" || res == "-0.00%" {
		return "-"
	}
	return res
}
