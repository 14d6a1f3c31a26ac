package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"
)

// HTTPDoer abstracts http.Client for ease of testing.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPFeed fetches rounds from a JSON price endpoint. The endpoint is expected
// to answer GET requests with a body of the form:
//
//	{"price": "300000000000", "decimals": 8, "round_id": "42", "updated_at": 1700000000}
//
// price is a decimal string in the feed's own fixed-point representation.
type HTTPFeed struct {
	client   HTTPDoer
	endpoint string
	apiKey   string
}

// NewHTTPFeed constructs a feed client. When client is nil http.DefaultClient
// is used. The API key is optional and only attached when supplied.
func NewHTTPFeed(client HTTPDoer, endpoint, apiKey string) *HTTPFeed {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFeed{client: client, endpoint: strings.TrimSpace(endpoint), apiKey: strings.TrimSpace(apiKey)}
}

// Endpoint reports the configured feed URL.
func (f *HTTPFeed) Endpoint() string {
	if f == nil {
		return ""
	}
	return f.endpoint
}

// LatestRound performs one read against the feed endpoint.
func (f *HTTPFeed) LatestRound(ctx context.Context) (Round, error) {
	if f == nil || f.endpoint == "" {
		return Round{}, fmt.Errorf("%w: endpoint not configured", ErrUnavailable)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint, nil)
	if err != nil {
		return Round{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if f.apiKey != "" {
		req.Header.Set("x-api-key", f.apiKey)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return Round{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Round{}, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Price     string `json:"price"`
		Decimals  uint8  `json:"decimals"`
		RoundID   string `json:"round_id"`
		UpdatedAt int64  `json:"updated_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Round{}, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}

	priceStr := strings.TrimSpace(payload.Price)
	if priceStr == "" {
		return Round{}, fmt.Errorf("%w: empty price", ErrInvalidPrice)
	}
	price, ok := new(big.Int).SetString(priceStr, 10)
	if !ok {
		return Round{}, fmt.Errorf("%w: unparsable price %q", ErrInvalidPrice, payload.Price)
	}

	return Round{
		Price:     price,
		Decimals:  payload.Decimals,
		RoundID:   payload.RoundID,
		UpdatedAt: time.Unix(payload.UpdatedAt, 0).UTC(),
	}, nil
}
