package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/networth/fx"
	"github.com/google/subcommands"
)

type ratesCmd struct {
	base string
}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "display the daily exchange rates" }
func (*ratesCmd) Usage() string {
	return `nw rates [-base <code>] [<code>...]

  Displays the European Central Bank reference exchange rates, as units of
  each currency per unit of the base currency. Lists every known currency
  unless some are given.
`
}

func (c *ratesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.base, "base", fx.Pivot, "Base currency.")
}

func (c *ratesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	rates, err := a.cfg.Rates(a.log).Rates(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching exchange rates: %v\n", err)
		return subcommands.ExitFailure
	}
	md, err := ratesTable(rates, strings.ToUpper(c.base), f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

// ratesTable returns the markdown table of currencies per unit of base.
func ratesTable(rates fx.Rates, base string, currencies []string) (string, error) {
	if len(currencies) == 0 {
		currencies = rates.Currencies()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Exchange rates on %s\n\n", rates.Date)
	fmt.Fprintf(&b, "| Currency | Per %s |\n|:---|---:|\n", base)
	for _, cur := range currencies {
		cur = strings.ToUpper(cur)
		if cur == base {
			continue
		}
		rate, err := rates.Rate(base, cur)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "| %s | %s |\n", cur, rate.StringFixed(4))
	}
	return b.String(), nil
}
