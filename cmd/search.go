package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/networth/eodhd"
	"github.com/google/subcommands"
)

type searchCmd struct {
	limit int
}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "search stock symbols using EODHD API" }
func (*searchCmd) Usage() string {
	return `nw search [-n <limit>] <search term>

  Searches for stocks via EOD Historical Data API and prints the symbols
  to use in a snapshot.
  Requires an EODHD API key.
`
}

func (c *searchCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 15, "Maximum number of results.")
}

func (c *searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: a search term is required.")
		return subcommands.ExitUsageError
	}
	term := strings.Join(f.Args(), " ")
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	client, err := a.cfg.EODHD(a.log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	results, err := client.Search(ctx, term)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error searching stocks: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(results) == 0 {
		fmt.Fprintf(stdout, "No results found for '%s'.\n", term)
		return subcommands.ExitSuccess
	}
	if c.limit > 0 && len(results) > c.limit {
		results = results[:c.limit]
	}
	printMarkdown(searchTable(term, results))
	return subcommands.ExitSuccess
}

func searchTable(term string, results []eodhd.SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Results for '%s'\n\n", term)
	b.WriteString("| Symbol | Name | Type | Exchange | Currency | Prev. Close |\n")
	b.WriteString("|:---|:---|:---|:---|:---|---:|\n")
	for _, r := range results {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %.2f |\n",
			r.Symbol(), r.Name, r.Type, r.Exchange, r.Currency, r.PreviousClose)
	}
	return b.String()
}
