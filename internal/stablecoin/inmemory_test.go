package stablecoin

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"
)

func TestInMemoryMintBurnConservation(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()

	if err := l.Mint(ctx, "acct-a", big.NewInt(10_000)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := l.Mint(ctx, "acct-b", big.NewInt(5_000)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := l.Burn(ctx, "acct-a", big.NewInt(2_500)); err != nil {
		t.Fatalf("burn: %v", err)
	}

	supply, err := l.TotalSupply(ctx)
	if err != nil {
		t.Fatalf("total supply: %v", err)
	}
	balanceA, _ := l.BalanceOf(ctx, "acct-a")
	balanceB, _ := l.BalanceOf(ctx, "acct-b")
	sum := new(big.Int).Add(balanceA, balanceB)
	if supply.Cmp(sum) != 0 {
		t.Fatalf("supply %s does not match balance sum %s", supply, sum)
	}
	if supply.Cmp(big.NewInt(12_500)) != 0 {
		t.Fatalf("expected supply 12500, got %s", supply)
	}
}

func TestInMemoryBurnOverBalance(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()

	if err := l.Burn(ctx, "acct-a", big.NewInt(1)); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance for unknown account, got %v", err)
	}

	if err := l.Mint(ctx, "acct-a", big.NewInt(100)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := l.Burn(ctx, "acct-a", big.NewInt(101)); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}

	balance, _ := l.BalanceOf(ctx, "acct-a")
	if balance.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("balance changed on failed burn: %s", balance)
	}
}

func TestInMemoryRejectsNegativeAmounts(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()

	if err := l.Mint(ctx, "acct-a", big.NewInt(-1)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount on mint, got %v", err)
	}
	if err := l.Burn(ctx, "acct-a", nil); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount on burn, got %v", err)
	}
	if err := l.Approve(ctx, "acct-a", "acct-b", big.NewInt(-5)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount on approve, got %v", err)
	}
}

func TestInMemoryAllowanceBookkeeping(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()

	allowance, err := l.Allowance(ctx, "acct-a", "vault")
	if err != nil {
		t.Fatalf("allowance: %v", err)
	}
	if allowance.Sign() != 0 {
		t.Fatalf("expected zero allowance, got %s", allowance)
	}

	if err := l.Approve(ctx, "acct-a", "vault", big.NewInt(750)); err != nil {
		t.Fatalf("approve: %v", err)
	}
	allowance, _ = l.Allowance(ctx, "acct-a", "vault")
	if allowance.Cmp(big.NewInt(750)) != 0 {
		t.Fatalf("expected allowance 750, got %s", allowance)
	}

	// Re-approval replaces, it does not accumulate.
	if err := l.Approve(ctx, "acct-a", "vault", big.NewInt(100)); err != nil {
		t.Fatalf("approve: %v", err)
	}
	allowance, _ = l.Allowance(ctx, "acct-a", "vault")
	if allowance.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("expected allowance 100, got %s", allowance)
	}
}

func TestInMemoryConcurrentMints(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()

	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			account := fmt.Sprintf("acct-%d", i)
			if err := l.Mint(ctx, account, big.NewInt(1_000)); err != nil {
				t.Errorf("mint %d failed: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	supply, err := l.TotalSupply(ctx)
	if err != nil {
		t.Fatalf("total supply: %v", err)
	}
	if supply.Cmp(big.NewInt(workers*1_000)) != 0 {
		t.Fatalf("supply not conserved under concurrency: %s", supply)
	}
}

func TestSeedBalanceKeepsSupplyConserved(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()

	if err := l.Mint(ctx, "acct-a", big.NewInt(400)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	SeedBalance(l, "acct-a", big.NewInt(900))
	SeedBalance(l, "acct-b", big.NewInt(100))

	supply, _ := l.TotalSupply(ctx)
	if supply.Cmp(big.NewInt(1_000)) != 0 {
		t.Fatalf("expected supply 1000 after seeding, got %s", supply)
	}
}
