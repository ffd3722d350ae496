package networth

import (
	"context"
	"errors"

	"github.com/etnz/networth/date"
	"github.com/sirupsen/logrus"
)

// ErrPriceUnavailable is returned by a PriceSource that has no price for a symbol.
var ErrPriceUnavailable = errors.New("price unavailable")

// PriceSource looks up the price per share of a symbol on a day.
//
// It is only used to seed stock values before a projection; the projection
// itself derives future prices from growth rates and targets.
type PriceSource interface {
	Price(ctx context.Context, symbol string, on date.Date) (float64, error)
}

// PriceFunc adapts a function to a PriceSource.
type PriceFunc func(ctx context.Context, symbol string, on date.Date) (float64, error)

func (f PriceFunc) Price(ctx context.Context, symbol string, on date.Date) (float64, error) {
	return f(ctx, symbol, on)
}

// Reprice sets the value of every stock in s to its quantity times the price
// per share returned by src for day on. It returns the number of stocks
// repriced.
//
// A stock whose price is unavailable keeps its value and a warning is
// logged. Only a cancelled context aborts.
func (s *Snapshot) Reprice(ctx context.Context, src PriceSource, on date.Date, log logrus.FieldLogger) (int, error) {
	var n int
	for _, a := range s.Assets {
		st, ok := a.(*Stock)
		if !ok || st.Symbol == "" {
			continue
		}
		price, err := src.Price(ctx, st.Symbol, on)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return n, ctxErr
		}
		if err == nil && !(price > 0) {
			err = ErrPriceUnavailable
		}
		if err != nil {
			log.WithFields(logrus.Fields{"symbol": st.Symbol, "date": on.String()}).WithError(err).Warn("keeping snapshot value")
			continue
		}
		st.Value = price * num(st.Quantity)
		n++
	}
	return n, nil
}
