package oracle

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

type stubDoer struct {
	status int
	body   string
	err    error
	last   *http.Request
}

func (d *stubDoer) Do(req *http.Request) (*http.Response, error) {
	d.last = req
	if d.err != nil {
		return nil, d.err
	}
	return &http.Response{
		StatusCode: d.status,
		Body:       io.NopCloser(strings.NewReader(d.body)),
		Header:     make(http.Header),
	}, nil
}

func TestHTTPFeedLatestRound(t *testing.T) {
	doer := &stubDoer{
		status: http.StatusOK,
		body:   `{"price":"300000000000","decimals":8,"round_id":"42","updated_at":1700000000}`,
	}
	feed := NewHTTPFeed(doer, "https://oracle.example/latest", "secret-key")

	round, err := feed.LatestRound(context.Background())
	if err != nil {
		t.Fatalf("latest round: %v", err)
	}
	if round.Price.String() != "300000000000" {
		t.Fatalf("unexpected price %s", round.Price)
	}
	if round.Decimals != 8 || round.RoundID != "42" {
		t.Fatalf("unexpected round metadata: %+v", round)
	}
	if round.UpdatedAt.Unix() != 1700000000 {
		t.Fatalf("unexpected timestamp: %v", round.UpdatedAt)
	}
	if got := doer.last.Header.Get("x-api-key"); got != "secret-key" {
		t.Fatalf("expected api key header, got %q", got)
	}
}

func TestHTTPFeedCarriesNegativePriceThrough(t *testing.T) {
	// Sign validation belongs to the rate normalization layer; the client
	// reports what the feed said.
	doer := &stubDoer{status: http.StatusOK, body: `{"price":"-100","decimals":8}`}
	feed := NewHTTPFeed(doer, "https://oracle.example/latest", "")

	round, err := feed.LatestRound(context.Background())
	if err != nil {
		t.Fatalf("latest round: %v", err)
	}
	if round.Price.Sign() >= 0 {
		t.Fatalf("expected negative price preserved, got %s", round.Price)
	}
}

func TestHTTPFeedErrors(t *testing.T) {
	cases := []struct {
		name string
		doer *stubDoer
		want error
	}{
		{"transport error", &stubDoer{err: errors.New("connection refused")}, ErrUnavailable},
		{"server error", &stubDoer{status: http.StatusBadGateway, body: "upstream down"}, ErrUnavailable},
		{"malformed body", &stubDoer{status: http.StatusOK, body: "not json"}, ErrUnavailable},
		{"empty price", &stubDoer{status: http.StatusOK, body: `{"decimals":8}`}, ErrInvalidPrice},
		{"unparsable price", &stubDoer{status: http.StatusOK, body: `{"price":"12.5","decimals":8}`}, ErrInvalidPrice},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			feed := NewHTTPFeed(tc.doer, "https://oracle.example/latest", "")
			if _, err := feed.LatestRound(context.Background()); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestHTTPFeedRequiresEndpoint(t *testing.T) {
	feed := NewHTTPFeed(&stubDoer{}, "  ", "")
	if _, err := feed.LatestRound(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestStaticFeedLifecycle(t *testing.T) {
	feed := NewStaticFeed()
	if _, err := feed.LatestRound(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable before first set, got %v", err)
	}

	feed.SetInt64(3000_00000000, 8)
	round, err := feed.LatestRound(context.Background())
	if err != nil {
		t.Fatalf("latest round: %v", err)
	}
	first := round.RoundID

	feed.SetInt64(3100_00000000, 8)
	round, err = feed.LatestRound(context.Background())
	if err != nil {
		t.Fatalf("latest round: %v", err)
	}
	if round.RoundID == first {
		t.Fatalf("round id did not advance: %s", round.RoundID)
	}

	feed.Fail(errors.New("manual outage"))
	if _, err := feed.LatestRound(context.Background()); err == nil {
		t.Fatal("expected failure after Fail")
	}
}
