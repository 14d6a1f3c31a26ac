package oracle

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"
)

// StaticFeed is an in-memory feed used in tests, dev mode and manual overrides
// during incident response. Concurrency-safe.
type StaticFeed struct {
	mu    sync.RWMutex
	round Round
	err   error
	seq   uint64
}

// NewStaticFeed builds an empty static feed. Until Set is called LatestRound
// reports ErrUnavailable.
func NewStaticFeed() *StaticFeed {
	return &StaticFeed{}
}

// Set records a price observation using the supplied decimals exponent.
func (f *StaticFeed) Set(price *big.Int, decimals uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.err = nil
	f.round = Round{
		Price:     new(big.Int).Set(price),
		Decimals:  decimals,
		RoundID:   fmt.Sprintf("static-%d", f.seq),
		UpdatedAt: time.Now().UTC(),
	}
}

// SetInt64 is a convenience wrapper over Set for small prices.
func (f *StaticFeed) SetInt64(price int64, decimals uint8) {
	f.Set(big.NewInt(price), decimals)
}

// Fail makes subsequent LatestRound calls return err until Set is called again.
func (f *StaticFeed) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// LatestRound returns the stored observation.
func (f *StaticFeed) LatestRound(_ context.Context) (Round, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.err != nil {
		return Round{}, f.err
	}
	if f.round.Price == nil {
		return Round{}, fmt.Errorf("%w: no round recorded", ErrUnavailable)
	}
	round := f.round
	round.Price = new(big.Int).Set(f.round.Price)
	return round, nil
}
