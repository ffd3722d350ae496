package eodhd

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// SearchResult is a single item of the EODHD search API response.
type SearchResult struct {
	Code          string  `json:"Code"`
	Exchange      string  `json:"Exchange"`
	Name          string  `json:"Name"`
	Type          string  `json:"Type"`
	Country       string  `json:"Country"`
	Currency      string  `json:"Currency"`
	ISIN          string  `json:"ISIN"`
	PreviousClose float64 `json:"previousClose"`
}

// Symbol returns the symbol to use in a snapshot for r.
func (r SearchResult) Symbol() string {
	if r.Exchange == "" || r.Exchange == "US" {
		return r.Code
	}
	return r.Code + "." + r.Exchange
}

// Search searches securities by symbol, name or ISIN.
func (c *Client) Search(ctx context.Context, term string) ([]SearchResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	addr := fmt.Sprintf("%s/search/%s?fmt=json&api_token=%s", c.baseURL, url.PathEscape(term), url.QueryEscape(c.apiKey))
	var results []SearchResult
	if err := jwget(ctx, c.http, addr, &results); err != nil {
		return nil, fmt.Errorf("cannot search %q: %w", term, err)
	}
	return results, nil
}
