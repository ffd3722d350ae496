// Package eodhd looks up stock prices on the EOD Historical Data API
// (https://eodhd.com).
package eodhd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/networth"
	"github.com/etnz/networth/date"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is the root of the EODHD API.
const DefaultBaseURL = "https://eodhd.com/api"

// Client is a networth.PriceSource backed by EODHD.
//
// Symbols without an exchange suffix are looked up on the US exchanges
// ("AAPL" is "AAPL.US").
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	log     logrus.FieldLogger
	today   func() date.Date
}

// New returns a client for apiKey. A nil log discards messages.
func New(apiKey string, log logrus.FieldLogger) *Client {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     log,
		today:   date.Today,
	}
}

// WithBaseURL makes c query another server, for tests or proxies.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimSuffix(u, "/")
	return c
}

// WithDiskCache makes c keep successful responses in dir for the rest of the day.
func (c *Client) WithDiskCache(dir string) *Client {
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.http.Transport = &diskCache{base: base, dir: dir, today: c.today, log: c.log}
	return c
}

// Ticker returns the EODHD ticker of a symbol.
func Ticker(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if !strings.Contains(symbol, ".") {
		symbol += ".US"
	}
	return symbol
}

// Price implements networth.PriceSource.
//
// For today (or a zero date) it returns the real-time quote, otherwise the
// last close on or before day on.
func (c *Client) Price(ctx context.Context, symbol string, on date.Date) (float64, error) {
	if symbol == "" {
		return 0, fmt.Errorf("empty symbol: %w", networth.ErrPriceUnavailable)
	}
	var (
		p   decimal.Decimal
		err error
	)
	if on.IsZero() || !on.Before(c.today()) {
		p, err = c.realTime(ctx, Ticker(symbol))
	} else {
		p, err = c.eodClose(ctx, Ticker(symbol), on)
	}
	if err != nil {
		return 0, fmt.Errorf("cannot get price of %s: %w", symbol, err)
	}
	if !p.IsPositive() {
		return 0, fmt.Errorf("price of %s is %v: %w", symbol, p, networth.ErrPriceUnavailable)
	}
	return p.InexactFloat64(), nil
}

// realTime fetches the delayed live quote of ticker.
func (c *Client) realTime(ctx context.Context, ticker string) (decimal.Decimal, error) {
	// https://eodhd.com/api/real-time/AAPL.US?api_token=demo&fmt=json
	// {
	//   "code": "AAPL.US",
	//   "timestamp": 1714766400,
	//   "close": 183.38,
	//   "previousClose": 173.03,
	//   ...
	// }
	// out of market hours "close" can be "NA".
	addr := fmt.Sprintf("%s/real-time/%s?fmt=json&api_token=%s", c.baseURL, url.PathEscape(ticker), url.QueryEscape(c.apiKey))
	var jobj any
	if err := jwget(ctx, c.http, addr, &jobj); err != nil {
		return decimal.Zero, err
	}
	var errs []error
	for _, path := range []string{"$.close", "$.previousClose"} {
		p, err := readDecimal(jobj, path)
		if err == nil && p.IsPositive() {
			return p, nil
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return decimal.Zero, fmt.Errorf("no quote in response %v: %w", errs, networth.ErrPriceUnavailable)
}

// eodClose fetches the last daily close of ticker on or before day on.
func (c *Client) eodClose(ctx context.Context, ticker string, on date.Date) (decimal.Decimal, error) {
	// https://eodhd.com/api/eod/NVD.F?api_token=demo&fmt=json&from=2024-02-01&to=2024-02-13
	// [
	//	{
	//		"date": "2024-02-13",
	//		"open": 675.066,
	//		"close": 668.445,
	//		...
	//	},
	// bounds are included, a week back covers week-ends and holidays.
	addr := fmt.Sprintf("%s/eod/%s?fmt=json&api_token=%s&from=%s&to=%s", c.baseURL, url.PathEscape(ticker), url.QueryEscape(c.apiKey), on.Add(-10), on)
	type Info struct {
		Date  date.Date       `json:"date"`
		Close decimal.Decimal `json:"close"`
	}
	content := make([]Info, 0)
	if err := jwget(ctx, c.http, addr, &content); err != nil {
		return decimal.Zero, err
	}
	var last *Info
	for i, info := range content {
		if info.Date.After(on) {
			continue
		}
		if last == nil || info.Date.After(last.Date) {
			last = &content[i]
		}
	}
	if last == nil {
		return decimal.Zero, fmt.Errorf("no close on or before %s: %w", on, networth.ErrPriceUnavailable)
	}
	c.log.WithFields(logrus.Fields{"ticker": ticker, "date": last.Date.String(), "close": last.Close.String()}).Debug("eod close")
	return last.Close, nil
}

// readDecimal reads the number at path in jobj. Numbers sent as strings are accepted.
func readDecimal(jobj any, path string) (decimal.Decimal, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", path, err)
	}
	// jsonpath may return a list of 1 answer, or a single answer.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	switch v := jval.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero, fmt.Errorf("%s: %q is not a number", path, v)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("%s: %v is not a number", path, jval)
	}
}
