package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/networth"
	"github.com/google/subcommands"
)

type fmtCmd struct {
	output string
	write  bool
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats a snapshot file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `nw fmt [-w | -o <file>] <snapshot>

  Validates and formats a snapshot. Unknown fields are dropped, missing
  identifiers are generated and out of range percentages are clamped.
  The output format follows the file extension: .yaml, .yml or .json.

Usage Examples:
# Converts a JSON snapshot to YAML.
$ nw fmt -o snapshot.yaml snapshot.json

# Formats a snapshot in place.
$ nw fmt -w snapshot.json
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file. Defaults to the standard output.")
	f.BoolVar(&c.write, "w", false, "Write the result to the snapshot file instead of the standard output.")
}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "fmt requires exactly one snapshot file")
		return subcommands.ExitUsageError
	}
	input := f.Arg(0)
	if c.write && c.output != "" {
		fmt.Fprintln(os.Stderr, "-w and -o are mutually exclusive")
		return subcommands.ExitUsageError
	}
	s, err := loadSnapshot(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding snapshot %q: %v\n", input, err)
		return subcommands.ExitFailure
	}

	output := c.output
	if c.write {
		output = input
	}
	format := networth.FormatOf(input)
	if output != "" {
		format = networth.FormatOf(output)
	}

	var b bytes.Buffer
	if err := networth.EncodeSnapshot(&b, s, format); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding snapshot: %v\n", err)
		return subcommands.ExitFailure
	}
	if output == "" || output == "-" {
		stdout.Write(b.Bytes())
		return subcommands.ExitSuccess
	}
	if err := os.WriteFile(output, b.Bytes(), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", output, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Formatted snapshot written to %s\n", output)
	return subcommands.ExitSuccess
}
