package stablecoin

import (
	"context"
	"errors"
	"math/big"
)

var (
	// ErrInsufficientBalance occurs when a burn or allowance spend exceeds the
	// holder's available balance.
	ErrInsufficientBalance = errors.New("insufficient stablecoin balance")

	// ErrInvalidAmount indicates a nil or negative amount was supplied.
	ErrInvalidAmount = errors.New("amount must be non-negative")
)

// Ledger is the fungible pegged-asset ledger consumed by the vault. The vault
// service is the sole component wired to Mint and Burn; the ledger itself only
// enforces conservation (total supply equals the sum of balances). Amounts are
// integral base units carried as big integers.
type Ledger interface {
	Mint(ctx context.Context, to string, amount *big.Int) error
	Burn(ctx context.Context, from string, amount *big.Int) error
	BalanceOf(ctx context.Context, account string) (*big.Int, error)
	TotalSupply(ctx context.Context) (*big.Int, error)
	Approve(ctx context.Context, owner, spender string, amount *big.Int) error
	Allowance(ctx context.Context, owner, spender string) (*big.Int, error)
}

func validAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	return nil
}
