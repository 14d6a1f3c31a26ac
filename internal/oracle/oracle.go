package oracle

import (
	"context"
	"errors"
	"math/big"
	"time"
)

var (
	// ErrUnavailable indicates the upstream price feed could not be reached or
	// returned an unusable response.
	ErrUnavailable = errors.New("price feed unavailable")

	// ErrInvalidPrice indicates the feed answered but the reported price cannot
	// be used (missing, zero or negative).
	ErrInvalidPrice = errors.New("price feed returned invalid price")
)

// Round is a single price observation as reported by the upstream feed. Price
// is carried as reported, including sign, so callers decide how to treat
// out-of-range values. Decimals is the feed's own fixed-point exponent.
type Round struct {
	Price     *big.Int
	Decimals  uint8
	RoundID   string
	UpdatedAt time.Time
}

// PriceFeed resolves the feed's latest round. Implementations perform a single
// point read per call: no caching, retrying or averaging.
type PriceFeed interface {
	LatestRound(ctx context.Context) (Round, error)
}
