package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/etnz/networth"
	"github.com/etnz/networth/date"
	"github.com/etnz/networth/eodhd"
	"github.com/etnz/networth/fx"
	"github.com/etnz/networth/server"
	"github.com/google/go-cmp/cmp"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const snapshotJSON = `{
	"assets": [{"id": "permanent-bank-account", "name": "Bank", "value": 1000, "growthRate": 0, "type": "cash"}],
	"income": [{"source": "Salary", "monthlyAmount": 500}],
	"investmentPercentage": 0,
	"yearsToProject": 2
}`

var configKeys = []string{
	"EODHD_API_KEY", "NW_PRICE_TTL", "NW_RATES_TTL", "NW_RATES_URL", "NW_RATES_SCHEDULE",
	"NW_CURRENCY", "NW_LOG_LEVEL", "NW_ADDR", "NW_CACHE_DIR",
}

// isolate clears the configuration environment, restored after the test,
// and points the global flags to a missing .env file.
func isolate(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	prev := *envFile
	*envFile = filepath.Join(t.TempDir(), "missing.env")
	t.Cleanup(func() { *envFile = prev })
}

// capture redirects the commands output to a buffer for the test duration.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var b bytes.Buffer
	prev := stdout
	stdout = &b
	t.Cleanup(func() { stdout = prev })
	return &b
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("%s: parse %v: %v", c.Name(), args, err)
	}
	return c.Execute(context.Background(), f)
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)
	got, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() unexpected error: %v", err)
	}
	want := Config{
		PriceTTL:      30 * time.Second,
		RatesTTL:      time.Hour,
		RatesSchedule: "@hourly",
		LogLevel:      "warning",
		Addr:          ":8080",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_EnvFile(t *testing.T) {
	isolate(t)
	t.Setenv("NW_ADDR", ":9999")
	file := writeFile(t, ".env", "EODHD_API_KEY=fromfile\nNW_PRICE_TTL=5s\nNW_ADDR=:7777\n")

	got, err := LoadConfig(file)
	if err != nil {
		t.Fatalf("LoadConfig() unexpected error: %v", err)
	}
	if got.EODHDAPIKey != "fromfile" || got.PriceTTL != 5*time.Second {
		t.Errorf("LoadConfig() = %+v, want the .env values", got)
	}
	if got.Addr != ":9999" {
		t.Errorf("Addr = %q, want the environment to win over the .env file", got.Addr)
	}

	// a missing file is not an error.
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "none")); err != nil {
		t.Errorf("LoadConfig(missing) unexpected error: %v", err)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	isolate(t)
	t.Setenv("NW_RATES_TTL", "soon")
	if _, err := LoadConfig(""); err == nil {
		t.Errorf("LoadConfig() with NW_RATES_TTL=soon: expected an error")
	}
}

func TestConfig_Logger(t *testing.T) {
	log, err := Config{LogLevel: "debug"}.Logger(&bytes.Buffer{})
	if err != nil {
		t.Fatalf("Logger() unexpected error: %v", err)
	}
	if log.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", log.GetLevel())
	}
	if _, err := (Config{LogLevel: "chatty"}).Logger(&bytes.Buffer{}); err == nil {
		t.Errorf("Logger() with an unknown level: expected an error")
	}
}

func TestConfig_Prices(t *testing.T) {
	log := logrus.New()
	if _, err := (Config{}).Prices(log); err == nil {
		t.Errorf("Prices() without API key: expected an error")
	}
	if _, err := (Config{EODHDAPIKey: "secret", CacheDir: t.TempDir()}).Prices(log); err != nil {
		t.Errorf("Prices() unexpected error: %v", err)
	}
}

func TestLoadSnapshot(t *testing.T) {
	s, err := loadSnapshot(writeFile(t, "s.json", snapshotJSON))
	if err != nil {
		t.Fatalf("loadSnapshot() unexpected error: %v", err)
	}
	if s.NetWorth() != 1000 || s.Years != 2 {
		t.Errorf("snapshot net worth %v over %v years, want 1000 over 2", s.NetWorth(), s.Years)
	}
	if _, err := loadSnapshot(writeFile(t, "s.yaml", "assets: [")); err == nil {
		t.Errorf("loadSnapshot() of broken yaml: expected an error")
	}
	if _, err := loadSnapshot(filepath.Join(t.TempDir(), "none.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("loadSnapshot() of a missing file = %v, want ErrNotExist", err)
	}
}

func TestProjectCmd_JSON(t *testing.T) {
	isolate(t)
	out := capture(t)
	file := writeFile(t, "s.json", snapshotJSON)

	if status := execute(t, &projectCmd{}, "-json", "-samples", "5", file); status != subcommands.ExitSuccess {
		t.Fatalf("project exit status = %v", status)
	}
	var got server.Projection
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invalid output: %v\n%s", err, out)
	}
	if got.Years != 2 || len(got.Points) != 5 {
		t.Fatalf("got %v years and %d points, want 2 and 5", got.Years, len(got.Points))
	}
	if first := got.Points[0]; first.NetWorth != 1000 || !first.Date.Equal(date.Today().Time()) {
		t.Errorf("first point = %+v, want 1000 today", first)
	}
	if last := got.Points[4].NetWorth; math.Abs(last-13000) > 1e-6 {
		t.Errorf("last NetWorth = %v, want 13000", last)
	}
}

func TestProjectCmd_Usage(t *testing.T) {
	isolate(t)
	capture(t)
	if status := execute(t, &projectCmd{}); status != subcommands.ExitUsageError {
		t.Errorf("project without snapshot = %v, want usage error", status)
	}
	if status := execute(t, &projectCmd{}, "-samples", "0", "s.json"); status != subcommands.ExitUsageError {
		t.Errorf("project -samples 0 = %v, want usage error", status)
	}
	if status := execute(t, &projectCmd{}, filepath.Join(t.TempDir(), "none.json")); status != subcommands.ExitFailure {
		t.Errorf("project of a missing file = %v, want failure", status)
	}
}

func TestProjectCmd_UsageText(t *testing.T) {
	usage := (&projectCmd{}).Usage()
	for _, want := range []string{"-samples", "evenly spaced", "distribution"} {
		if !strings.Contains(usage, want) {
			t.Errorf("project usage misses %q:\n%s", want, usage)
		}
	}
}

func TestProjectCmd_Table(t *testing.T) {
	isolate(t)
	out := capture(t)
	file := writeFile(t, "s.json", snapshotJSON)
	if status := execute(t, &projectCmd{}, "-years", "1", "-rows", "3", file); status != subcommands.ExitSuccess {
		t.Fatalf("project exit status = %v", status)
	}
	if !strings.Contains(out.String(), "7,000") {
		t.Errorf("project output does not show the final net worth:\n%s", out)
	}
}

func TestSummaryCmd(t *testing.T) {
	isolate(t)
	out := capture(t)
	file := writeFile(t, "s.json", snapshotJSON)
	if status := execute(t, &summaryCmd{}, "-d", "2026-03-02", file); status != subcommands.ExitSuccess {
		t.Fatalf("summary exit status = %v", status)
	}
	if !strings.Contains(out.String(), "1,000") {
		t.Errorf("summary output does not show the net worth:\n%s", out)
	}
	if status := execute(t, &summaryCmd{}, "-d", "someday", file); status != subcommands.ExitUsageError {
		t.Errorf("summary -d someday = %v, want usage error", status)
	}
}

func TestSummaryCmd_PricesWithoutKey(t *testing.T) {
	isolate(t)
	capture(t)
	file := writeFile(t, "s.json", snapshotJSON)
	if status := execute(t, &summaryCmd{}, "-prices", file); status != subcommands.ExitFailure {
		t.Errorf("summary -prices without API key = %v, want failure", status)
	}
}

func TestFmtCmd(t *testing.T) {
	isolate(t)
	capture(t)
	in := writeFile(t, "s.json", snapshotJSON)
	out := filepath.Join(filepath.Dir(in), "s.yaml")

	if status := execute(t, &fmtCmd{}, "-o", out, in); status != subcommands.ExitSuccess {
		t.Fatalf("fmt exit status = %v", status)
	}
	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if strings.HasPrefix(strings.TrimSpace(string(content)), "{") {
		t.Errorf("fmt -o s.yaml wrote JSON:\n%s", content)
	}
	got, err := loadSnapshot(out)
	if err != nil {
		t.Fatalf("formatted snapshot does not decode: %v", err)
	}
	want, _ := loadSnapshot(in)
	if got.NetWorth() != want.NetWorth() || got.Years != want.Years || len(got.Incomes) != len(want.Incomes) {
		t.Errorf("formatted snapshot = %+v, want %+v", got, want)
	}

	if status := execute(t, &fmtCmd{}, "-w", "-o", out, in); status != subcommands.ExitUsageError {
		t.Errorf("fmt -w -o = %v, want usage error", status)
	}
}

func TestFmtCmd_Stdout(t *testing.T) {
	isolate(t)
	b := capture(t)
	in := writeFile(t, "s.json", snapshotJSON)
	if status := execute(t, &fmtCmd{}, in); status != subcommands.ExitSuccess {
		t.Fatalf("fmt exit status = %v", status)
	}
	s, err := networth.DecodeSnapshot(b, networth.JSON)
	if err != nil {
		t.Fatalf("fmt output is not a JSON snapshot: %v\n%s", err, b)
	}
	if s.NetWorth() != 1000 {
		t.Errorf("NetWorth() = %v, want 1000", s.NetWorth())
	}
}

func TestPriceTable(t *testing.T) {
	on := date.New(2026, 3, 2)
	prices := networth.PriceFunc(func(_ context.Context, symbol string, day date.Date) (float64, error) {
		if day != on {
			t.Errorf("price asked on %v, want %v", day, on)
		}
		if symbol == "AAPL" {
			return 1234.5, nil
		}
		return 0, networth.ErrPriceUnavailable
	})

	got := priceTable(context.Background(), prices, on, []string{"aapl", "nope"})
	for _, want := range []string{"# Prices on 2026-03-02", "| AAPL | $1,234.50 |", "| NOPE | price unavailable |"} {
		if !strings.Contains(got, want) {
			t.Errorf("priceTable() missing %q in:\n%s", want, got)
		}
	}
}

func TestRatesTable(t *testing.T) {
	rates := fx.Rates{
		Date: date.New(2026, 3, 2),
		Base: "EUR",
		Quotes: map[string]decimal.Decimal{
			"EUR": decimal.NewFromInt(1),
			"USD": decimal.RequireFromString("1.25"),
			"GBP": decimal.RequireFromString("0.8"),
		},
	}
	got, err := ratesTable(rates, "USD", nil)
	if err != nil {
		t.Fatalf("ratesTable() unexpected error: %v", err)
	}
	for _, want := range []string{"| Currency | Per USD |", "| EUR | 0.8000 |", "| GBP | 0.6400 |"} {
		if !strings.Contains(got, want) {
			t.Errorf("ratesTable() missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "| USD |") {
		t.Errorf("ratesTable() lists the base currency:\n%s", got)
	}
	if _, err := ratesTable(rates, "USD", []string{"XXX"}); !errors.Is(err, fx.ErrUnknownCurrency) {
		t.Errorf("ratesTable(XXX) error = %v, want ErrUnknownCurrency", err)
	}
}

func TestSearchTable(t *testing.T) {
	got := searchTable("apple", []eodhd.SearchResult{
		{Code: "AAPL", Exchange: "US", Name: "Apple Inc", Type: "Common Stock", Currency: "USD", PreviousClose: 227.5},
		{Code: "APC", Exchange: "F", Name: "Apple Inc", Type: "Common Stock", Currency: "EUR", PreviousClose: 210},
	})
	for _, want := range []string{
		"# Results for 'apple'",
		"| AAPL | Apple Inc | Common Stock | US | USD | 227.50 |",
		"| APC.F | Apple Inc | Common Stock | F | EUR | 210.00 |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("searchTable() missing %q in:\n%s", want, got)
		}
	}
}

func TestTopicCmd(t *testing.T) {
	out := capture(t)
	if status := execute(t, &topicCmd{}); status != subcommands.ExitSuccess {
		t.Fatalf("topic exit status = %v", status)
	}
	if out.Len() == 0 {
		t.Errorf("topic printed nothing")
	}
	if status := execute(t, &topicCmd{}, "no-such-topic"); status != subcommands.ExitFailure {
		t.Errorf("topic no-such-topic = %v, want failure", status)
	}
}

func TestCompletion(t *testing.T) {
	c := Completion(Commands)
	if len(c.Sub) != len(Commands) {
		t.Fatalf("completion has %d commands, want %d", len(c.Sub), len(Commands))
	}
	project := c.Sub["project"]
	if project == nil {
		t.Fatalf("completion misses the project command")
	}
	for _, name := range []string{"years", "samples", "rows", "prices", "currency", "json"} {
		if _, ok := project.Flags[name]; !ok {
			t.Errorf("project completion misses flag -%s", name)
		}
	}
	if got := c.Sub["topic"].Args.Predict(""); !contains(got, "snapshot") {
		t.Errorf("topic completion = %v, want the snapshot topic", got)
	}
	if _, ok := c.Flags["eodhd-api-key"]; !ok {
		t.Errorf("completion misses the global -eodhd-api-key flag")
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
