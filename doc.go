// Package networth projects a household's net worth forward in time.
//
// A Snapshot holds the financial state at year 0: assets, liabilities,
// incomes, expenses and an investment policy. Project simulates it over a
// horizon and returns evenly spaced Points.
//
// The core functionalities include:
//   - Valuation: stocks are worth their price per share times the shares held,
//     the price following either an annual growth rate or dated price targets
//     (see ResolvePrice). Other assets compound at their annual growth rate.
//   - Distribution: the monthly savings accrue and are deposited into the cash
//     reservoir at its distribution frequency. A share of them can buy a stock
//     automatically, at the stock's own frequency.
//   - Amortization: liabilities accrue interest and are paid down by their
//     minimum monthly payment, never below zero.
//
// The projection is pure: it never performs I/O and never modifies its
// input. Live prices are looked up beforehand through a PriceSource (see
// Snapshot.Reprice).
//
// This package serves as the foundational logic for the `nw` command-line
// tool and its HTTP server.
package networth
