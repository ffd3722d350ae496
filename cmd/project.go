package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/networth"
	"github.com/etnz/networth/date"
	"github.com/etnz/networth/renderer"
	"github.com/etnz/networth/server"
	"github.com/google/subcommands"
)

// projectCmd holds the flags for the 'project' subcommand.
type projectCmd struct {
	years    float64
	samples  int
	rows     int
	prices   bool
	currency string
	json     bool
}

func (*projectCmd) Name() string     { return "project" }
func (*projectCmd) Synopsis() string { return "project the net worth of a snapshot over the years" }
func (*projectCmd) Usage() string {
	return `nw project [-years <n>] [-samples <n>] [-rows <n>] [-prices] [-currency <code>] [-json] <snapshot>

  Projects the snapshot from today over the horizon, sampled at -samples
  evenly spaced instants; savings reach each asset at its own distribution
  frequency. Displays the projected assets, liabilities and net worth.
  Use "-" to read a JSON snapshot from the standard input.
`
}

func (c *projectCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.years, "years", 0, "Horizon in years. Defaults to the snapshot's horizon, or 3.")
	f.IntVar(&c.samples, "samples", networth.DefaultSamples, "Number of projection samples.")
	f.IntVar(&c.rows, "rows", renderer.DefaultRows, "Number of rows in the projection table.")
	f.BoolVar(&c.prices, "prices", false, "Refresh stock values with current market prices.")
	f.StringVar(&c.currency, "currency", "", "Currency to display amounts in. Defaults to NW_CURRENCY, or the snapshot currency.")
	f.BoolVar(&c.json, "json", false, "Print every sample as JSON instead of a table.")
}

func (c *projectCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "project requires exactly one snapshot file")
		return subcommands.ExitUsageError
	}
	if c.samples < 1 {
		fmt.Fprintln(os.Stderr, "-samples must be positive")
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

	start := date.Today().Time()
	years := min(s.Horizon(c.years), networth.MaxYears)
	points := networth.Project(s, years, c.samples, networth.Options{Start: start, Log: a.log})

	if c.json {
		if err := writeProjection(server.NewProjection(s.Currency, years, points)); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing projection: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	opts, err := a.renderOptions(ctx, s, c.currency, c.rows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error converting currency: %v\n", err)
		return subcommands.ExitFailure
	}
	p := renderer.NewProjection(points, opts)
	if p == nil {
		fmt.Fprintln(os.Stderr, "Empty projection")
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderProjection(p))
	return subcommands.ExitSuccess
}

func writeProjection(p server.Projection) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
