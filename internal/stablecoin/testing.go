package stablecoin

import "math/big"

// SeedBalance is a test helper that sets an account balance directly when
// using the in-memory ledger, adjusting total supply to keep it conserved.
func SeedBalance(l Ledger, account string, amount *big.Int) {
	mem, ok := l.(*inMemoryLedger)
	if !ok {
		return
	}
	mem.mu.Lock()
	defer mem.mu.Unlock()
	previous, exists := mem.balances[account]
	if !exists {
		previous = big.NewInt(0)
	}
	mem.supply = new(big.Int).Sub(mem.supply, previous)
	mem.balances[account] = new(big.Int).Set(amount)
	mem.supply = new(big.Int).Add(mem.supply, amount)
}
