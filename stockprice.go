package networth

import (
	"time"

	"github.com/etnz/networth/date"
)

// targetHistory returns the valid targets as a chronological series.
// Targets without a date or with a non-positive price are dropped.
func targetHistory(targets []Target) *date.History[float64] {
	h := new(date.History[float64])
	for _, t := range targets {
		if t.Date.IsZero() || !(t.ExpectedPrice > 0) {
			continue
		}
		h.Append(t.Date, t.ExpectedPrice)
	}
	return h
}

// ResolvePrice returns the price per share at instant t given the initial
// price and a set of target anchors.
//
// Before the first anchor the initial price applies, there is no backward
// extrapolation. From the last anchor onward the price stays at the last
// anchor's price. In between, the price is interpolated linearly when
// estimate is true, otherwise it is the earlier anchor's price.
func ResolvePrice(initial float64, targets []Target, estimate bool, t time.Time) float64 {
	return resolvePrice(initial, targetHistory(targets), estimate, t)
}

func resolvePrice(initial float64, h *date.History[float64], estimate bool, t time.Time) float64 {
	if h.Len() == 0 {
		return initial
	}
	if first, _ := h.First(); t.Before(first.Time()) {
		return initial
	}
	if last, price := h.Latest(); !t.Before(last.Time()) {
		return price
	}
	if !estimate {
		// anchors are at midnight, so the day of t sees exactly the anchors before t.
		price, _ := h.ValueAsOf(date.Of(t.UTC()))
		return price
	}

	var prevDay date.Date
	var prevPrice float64
	for day, price := range h.Values() {
		if t.Before(day.Time()) {
			span := day.Time().Sub(prevDay.Time())
			progress := float64(t.Sub(prevDay.Time())) / float64(span)
			return prevPrice + (price-prevPrice)*progress
		}
		prevDay, prevPrice = day, price
	}
	return prevPrice // unreachable: t is before the last anchor.
}
