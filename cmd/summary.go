package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/networth/date"
	"github.com/etnz/networth/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	date     string
	prices   bool
	currency string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the balance sheet and monthly cash flow of a snapshot" }
func (*summaryCmd) Usage() string {
	return `nw summary [-d <date>] [-prices] [-currency <code>] <snapshot>

  Displays the assets, liabilities, net worth and monthly savings of a snapshot.
  Use "-" to read a JSON snapshot from the standard input.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Date of the monthly cash flow, YYYY-MM-DD.")
	f.BoolVar(&c.prices, "prices", false, "Refresh stock values with current market prices.")
	f.StringVar(&c.currency, "currency", "", "Currency to display amounts in. Defaults to NW_CURRENCY, or the snapshot currency.")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "summary requires exactly one snapshot file")
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
	s, err := loadSnapshot(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding snapshot %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	if c.prices {
		if err := a.reprice(ctx, s); err != nil {
			fmt.Fprintf(os.Stderr, "Error updating prices: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	opts, err := a.renderOptions(ctx, s, c.currency, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error converting currency: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RenderSummary(renderer.NewSummary(s, on.Time(), opts)))
	return subcommands.ExitSuccess
}
