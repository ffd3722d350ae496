package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/networth"
	"github.com/etnz/networth/date"
	"github.com/google/subcommands"
)

type priceCmd struct {
	date string
}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "fetch stock prices in US dollars" }
func (*priceCmd) Usage() string {
	return `nw price [-d <date>] <symbol>...

  Fetches the price of each symbol from EOD Historical Data. Today's price is
  the latest real-time quote, past dates use the closing price.
  Requires an EODHD API key.
`
}

func (c *priceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Date of the prices, YYYY-MM-DD.")
}

func (c *priceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one symbol is required.")
		return subcommands.ExitUsageError
	}
	on, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	prices, err := a.cfg.Prices(a.log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(priceTable(ctx, prices, on, f.Args()))
	return subcommands.ExitSuccess
}

// priceTable fetches every symbol and returns a markdown table, unavailable
// prices are reported in the table.
func priceTable(ctx context.Context, prices networth.PriceSource, on date.Date, symbols []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Prices on %s\n\n", on)
	b.WriteString("| Symbol | Price |\n|:---|---:|\n")
	for _, symbol := range symbols {
		symbol = strings.ToUpper(symbol)
		price, err := prices.Price(ctx, symbol, on)
		if err != nil {
			fmt.Fprintf(&b, "| %s | %v |\n", symbol, err)
			continue
		}
		fmt.Fprintf(&b, "| %s | %s |\n", symbol, networth.M(price, "USD"))
	}
	return b.String()
}
