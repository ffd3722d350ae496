// Package cmd implements the CLI application to project a net worth.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/networth"
	"github.com/etnz/networth/date"
	"github.com/etnz/networth/renderer"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
)

// Commands is the list of the application subcommands, in help order.
var Commands = []subcommands.Command{
	&summaryCmd{},
	&projectCmd{},
	&fmtCmd{},
	&priceCmd{},
	&searchCmd{},
	&ratesCmd{},
	&serveCmd{},
	&topicCmd{},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands {
		c.Register(cmd, group(cmd.Name()))
	}
}

func group(name string) string {
	switch name {
	case "summary", "project", "fmt":
		return "snapshot"
	case "price", "search", "rates":
		return "market"
	default:
		return ""
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var envFile = flag.String("env-file", ".env", "Path to an optional .env file loaded into the environment")
var eodhdAPIKey = flag.String("eodhd-api-key", "", "EODHD API key, takes precedence over EODHD_API_KEY. Get one at https://eodhd.com/")
var logLevel = flag.String("log-level", "", "Log level (debug, info, warning, error), takes precedence over NW_LOG_LEVEL")

// app is the configuration and logger shared by a command execution.
type app struct {
	cfg Config
	log *logrus.Logger
}

// newApp loads the configuration, applying global flags over the environment.
func newApp() (*app, error) {
	cfg, err := LoadConfig(*envFile)
	if err != nil {
		return nil, err
	}
	if *eodhdAPIKey != "" {
		cfg.EODHDAPIKey = *eodhdAPIKey
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	log, err := cfg.Logger(os.Stderr)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log}, nil
}

// loadSnapshot decodes the snapshot stored in filename, "-" reads JSON from stdin.
func loadSnapshot(filename string) (*networth.Snapshot, error) {
	if filename == "-" {
		return networth.DecodeSnapshot(os.Stdin, networth.JSON)
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return networth.DecodeSnapshot(f, networth.FormatOf(filename))
}

// reprice updates the snapshot stock values from the configured price source.
func (a *app) reprice(ctx context.Context, s *networth.Snapshot) error {
	prices, err := a.cfg.Prices(a.log)
	if err != nil {
		return err
	}
	n, err := s.Reprice(ctx, prices, date.Today(), a.log)
	if err != nil {
		return err
	}
	a.log.WithField("stocks", n).Info("repriced snapshot")
	return nil
}

// renderOptions returns the renderer options to display amounts of
// s in currency, or in the configured currency when empty.
func (a *app) renderOptions(ctx context.Context, s *networth.Snapshot, currency string, rows int) (renderer.Options, error) {
	opts := renderer.Options{Currency: s.Currency, Rows: rows}
	if currency == "" {
		currency = a.cfg.Currency
	}
	currency = strings.ToUpper(currency)
	if currency == "" || currency == opts.Currency || (opts.Currency == "" && currency == "USD") {
		return opts, nil
	}
	rates, err := a.cfg.Rates(a.log).Rates(ctx)
	if err != nil {
		return opts, fmt.Errorf("exchange rates: %w", err)
	}
	from := s.Currency
	if from == "" {
		from = "USD"
	}
	rate, err := rates.Rate(from, currency)
	if err != nil {
		return opts, err
	}
	opts.Display, opts.Rate = currency, rate
	return opts, nil
}
