package stablecoin

import (
	"context"
	"math/big"
	"sync"
)

type inMemoryLedger struct {
	mu         sync.RWMutex
	balances   map[string]*big.Int
	allowances map[string]*big.Int
	supply     *big.Int
}

// NewInMemory creates a concurrency-safe in-memory ledger useful for unit
// tests and dev mode.
func NewInMemory() Ledger {
	return &inMemoryLedger{
		balances:   make(map[string]*big.Int),
		allowances: make(map[string]*big.Int),
		supply:     big.NewInt(0),
	}
}

func allowanceKey(owner, spender string) string {
	return owner + "|" + spender
}

func (l *inMemoryLedger) Mint(_ context.Context, to string, amount *big.Int) error {
	if err := validAmount(amount); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	balance, ok := l.balances[to]
	if !ok {
		balance = big.NewInt(0)
	}
	l.balances[to] = new(big.Int).Add(balance, amount)
	l.supply = new(big.Int).Add(l.supply, amount)
	return nil
}

func (l *inMemoryLedger) Burn(_ context.Context, from string, amount *big.Int) error {
	if err := validAmount(amount); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	balance, ok := l.balances[from]
	if !ok || balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	l.balances[from] = new(big.Int).Sub(balance, amount)
	l.supply = new(big.Int).Sub(l.supply, amount)
	return nil
}

func (l *inMemoryLedger) BalanceOf(_ context.Context, account string) (*big.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	balance, ok := l.balances[account]
	if !ok {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(balance), nil
}

func (l *inMemoryLedger) TotalSupply(_ context.Context) (*big.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return new(big.Int).Set(l.supply), nil
}

func (l *inMemoryLedger) Approve(_ context.Context, owner, spender string, amount *big.Int) error {
	if err := validAmount(amount); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.allowances[allowanceKey(owner, spender)] = new(big.Int).Set(amount)
	return nil
}

func (l *inMemoryLedger) Allowance(_ context.Context, owner, spender string) (*big.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	allowance, ok := l.allowances[allowanceKey(owner, spender)]
	if !ok {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(allowance), nil
}
