// Package price fetches the current BTC/USD spot price from a
// CoinDesk-style quote endpoint.
package price

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// ErrUnavailable is returned for every failure mode of a fetch:
// transport error, non-2xx status, or a body the parser cannot use.
// Callers treat an unavailable price as a normal, non-fatal outcome.
var ErrUnavailable = errors.New("price unavailable")

const currentPricePath = "/v1/bpi/currentprice.json"

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
}

// NewWithHTTPClient is used by tests to inject a transport.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	c := New(baseURL)
	c.httpClient = hc
	return c
}

type quoteResponse struct {
	BPI struct {
		USD struct {
			Rate      string   `json:"rate"`
			RateFloat *float64 `json:"rate_float"`
		} `json:"USD"`
	} `json:"bpi"`
}

// Fetch performs one GET against the quote endpoint and extracts the
// USD rate. It prefers the numeric rate_float field and falls back to
// the comma-formatted rate string some responses carry instead.
func (c *Client) Fetch(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+currentPricePath, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	var q quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&q); err != nil {
		return 0, fmt.Errorf("%w: decode body: %v", ErrUnavailable, err)
	}

	if q.BPI.USD.RateFloat != nil {
		return *q.BPI.USD.RateFloat, nil
	}
	if q.BPI.USD.Rate != "" {
		v, err := strconv.ParseFloat(strings.ReplaceAll(q.BPI.USD.Rate, ",", ""), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: parse rate %q: %v", ErrUnavailable, q.BPI.USD.Rate, err)
		}
		return v, nil
	}
	return 0, fmt.Errorf("%w: no rate field in response", ErrUnavailable)
}
