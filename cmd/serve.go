package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/networth/server"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the projection HTTP API" }
func (*serveCmd) Usage() string {
	return `nw serve [-addr <host:port>]

  Serves stock prices, exchange rates, summaries and projections over HTTP,
  until interrupted. Exchange rates are refreshed on NW_RATES_SCHEDULE.
  Requires an EODHD API key.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address. Defaults to NW_ADDR.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	a.log.SetFormatter(&logrus.JSONFormatter{})
	addr := c.addr
	if addr == "" {
		addr = a.cfg.Addr
	}

	prices, err := a.cfg.Prices(a.log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	rates := a.cfg.Rates(a.log)
	if err := rates.Refresh(ctx); err != nil {
		a.log.WithError(err).Warn("initial exchange rates fetch failed")
	}
	if a.cfg.RatesSchedule != "" {
		cron, err := server.Schedule(a.cfg.RatesSchedule, rates, a.log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error scheduling rates refresh: %v\n", err)
			return subcommands.ExitUsageError
		}
		defer cron.Stop()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.ListenAndServe(ctx, addr, server.New(prices, rates, a.log), a.log); err != nil {
		a.log.WithError(err).Error("server stopped")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
