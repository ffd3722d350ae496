package fx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/etnz/networth/date"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ECBDailyURL publishes the latest ECB reference rates, against the euro.
const ECBDailyURL = "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml"

// Client fetches ECB reference rates.
type Client struct {
	url    string
	client *http.Client
	log    logrus.FieldLogger
}

// NewClient returns a client for the rates published at url, ECBDailyURL if empty.
func NewClient(url string, log logrus.FieldLogger) *Client {
	if url == "" {
		url = ECBDailyURL
	}
	return &Client{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

// Fetch downloads and parses the current rates.
func (c *Client) Fetch(ctx context.Context) (Rates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Rates{}, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return Rates{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Rates{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Rates{}, fmt.Errorf("failed to read response: %w", err)
	}
	c.log.Debugf("ECB XML response: %s", body)

	r, err := Parse(body)
	if err != nil {
		return Rates{}, err
	}
	c.log.WithFields(logrus.Fields{"date": r.Date.String(), "currencies": len(r.Quotes)}).Info("exchange rates fetched")
	return r, nil
}

// Parse reads an ECB eurofxref document.
//
//	<gesmes:Envelope>
//	  <Cube>
//	    <Cube time="2026-03-02">
//	      <Cube currency="USD" rate="1.0745"/>
//	      ...
func Parse(content []byte) (Rates, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(content); err != nil {
		return Rates{}, fmt.Errorf("failed to parse XML: %w", err)
	}
	day := doc.FindElement("//Cube[@time]")
	if day == nil {
		return Rates{}, fmt.Errorf("no rates date found in XML")
	}
	on, err := date.Parse(day.SelectAttrValue("time", ""))
	if err != nil {
		return Rates{}, fmt.Errorf("invalid rates date: %w", err)
	}

	r := Rates{Date: on, Base: "EUR", Quotes: map[string]decimal.Decimal{"EUR": decimal.NewFromInt(1)}}
	for _, e := range day.FindElements("./Cube[@currency]") {
		cur := strings.ToUpper(e.SelectAttrValue("currency", ""))
		rate, err := decimal.NewFromString(e.SelectAttrValue("rate", ""))
		if err != nil {
			return Rates{}, fmt.Errorf("failed to parse %s rate: %w", cur, err)
		}
		r.Quotes[cur] = rate
	}
	if len(r.Quotes) == 1 {
		return Rates{}, fmt.Errorf("no rate found in XML")
	}
	return r, nil
}
