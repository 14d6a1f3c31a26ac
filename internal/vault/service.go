package vault

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/peg-vault/peg_vault/internal/events"
	"github.com/peg-vault/peg_vault/internal/oracle"
	"github.com/peg-vault/peg_vault/internal/stablecoin"
)

var (
	// ErrIncorrectPayment occurs when the attached payment does not exactly
	// match the declared deposit amount.
	ErrIncorrectPayment = errors.New("payment does not match declared amount")

	// ErrWithdrawLimitExceeded occurs when a repayment exceeds the depositor's
	// recorded debt, or when the computed collateral release would exceed the
	// collateral actually held.
	ErrWithdrawLimitExceeded = errors.New("withdraw limit exceeded")

	// ErrInsufficientBalance occurs when the depositor lacks the stablecoin
	// funds to cover the repayment.
	ErrInsufficientBalance = errors.New("insufficient stablecoin balance")

	// ErrUnauthorized occurs when a non-owner calls an owner-only operation.
	ErrUnauthorized = errors.New("caller is not the vault owner")

	// ErrOracleFailure occurs when the price feed is unavailable or reports an
	// invalid price.
	ErrOracleFailure = errors.New("oracle failure")

	// ErrInvalidAmount indicates a nil or negative amount was supplied.
	ErrInvalidAmount = errors.New("amount must be non-negative")
)

// Service owns the depositor records and converts between collateral and
// stablecoin units through the configured price feed. A single mutex
// serializes every operation, so no caller ever observes a partially updated
// record and the read-modify-write sequences of concurrent operations cannot
// interleave.
type Service struct {
	mu     sync.Mutex
	repo   Repository
	coins  stablecoin.Ledger
	feed   oracle.PriceFeed
	owner  string
	events events.Publisher
}

// NewService builds a vault service. The owner account gates price-feed swaps
// and ownership transfer; every other operation is open to any authenticated
// depositor acting on their own record.
func NewService(repo Repository, coins stablecoin.Ledger, feed oracle.PriceFeed, owner string, publisher events.Publisher) *Service {
	return &Service{repo: repo, coins: coins, feed: feed, owner: owner, events: publisher}
}

// DepositResult describes the outcome of a successful deposit.
type DepositResult struct {
	Minted      *big.Int
	Record      Record
	Rate        Rate
	CompletedAt time.Time
}

// WithdrawResult describes the outcome of a successful withdrawal.
type WithdrawResult struct {
	CollateralReleased *big.Int
	Record             Record
	Rate               Rate
	CompletedAt        time.Time
}

// Deposit takes custody of the attached collateral payment, mints stablecoin
// at the current rate and grows the depositor's record. The attached payment
// must exactly equal the declared amount. The record is persisted before the
// external mint and restored under the held lock if the mint fails, so a
// failure at any point leaves no partial state behind.
func (s *Service) Deposit(ctx context.Context, depositor string, amount, payment *big.Int) (DepositResult, error) {
	if amount == nil || amount.Sign() < 0 {
		return DepositResult{}, ErrInvalidAmount
	}
	if payment == nil || payment.Cmp(amount) != 0 {
		return DepositResult{}, ErrIncorrectPayment
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rate, err := s.currentRate(ctx)
	if err != nil {
		return DepositResult{}, err
	}
	minted := rate.StablecoinForCollateral(amount)

	record, err := s.repo.Get(ctx, depositor)
	if err != nil {
		return DepositResult{}, err
	}
	previous := record.Clone()
	record.StablecoinDebt.Add(record.StablecoinDebt, minted)
	record.CollateralAmount.Add(record.CollateralAmount, amount)

	if err := s.repo.Put(ctx, depositor, record); err != nil {
		return DepositResult{}, err
	}
	if err := s.coins.Mint(ctx, depositor, minted); err != nil {
		if restoreErr := s.repo.Put(ctx, depositor, previous); restoreErr != nil {
			return DepositResult{}, fmt.Errorf("mint failed (%v) and record restore failed: %w", err, restoreErr)
		}
		return DepositResult{}, err
	}

	now := time.Now().UTC()
	if s.events != nil {
		_ = s.events.Publish(ctx, events.KindDeposit, events.Deposit{
			Depositor:           depositor,
			CollateralDeposited: amount.String(),
			StablecoinMinted:    minted.String(),
			RoundID:             rate.RoundID(),
			OccurredAt:          now,
		})
	}

	return DepositResult{Minted: minted, Record: record.Clone(), Rate: rate, CompletedAt: now}, nil
}

// Withdraw burns the repayment from the depositor's stablecoin balance and
// releases the corresponding collateral, floored at the current rate.
// Preconditions are checked in order: repayment against recorded debt, then
// the depositor's actual stablecoin balance. The burn precedes the collateral
// release; if the burn fails the record is restored under the held lock.
func (s *Service) Withdraw(ctx context.Context, depositor string, repayment *big.Int) (WithdrawResult, error) {
	if repayment == nil || repayment.Sign() < 0 {
		return WithdrawResult{}, ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.repo.Get(ctx, depositor)
	if err != nil {
		return WithdrawResult{}, err
	}
	if repayment.Cmp(record.StablecoinDebt) > 0 {
		return WithdrawResult{}, ErrWithdrawLimitExceeded
	}

	balance, err := s.coins.BalanceOf(ctx, depositor)
	if err != nil {
		return WithdrawResult{}, err
	}
	if balance.Cmp(repayment) < 0 {
		return WithdrawResult{}, ErrInsufficientBalance
	}

	rate, err := s.currentRate(ctx)
	if err != nil {
		return WithdrawResult{}, err
	}
	released := rate.CollateralForStablecoin(repayment)
	// A rate drop since deposit can price the repayment above the custodied
	// collateral; releasing more than was deposited is never allowed.
	if released.Cmp(record.CollateralAmount) > 0 {
		return WithdrawResult{}, ErrWithdrawLimitExceeded
	}

	previous := record.Clone()
	record.StablecoinDebt.Sub(record.StablecoinDebt, repayment)
	record.CollateralAmount.Sub(record.CollateralAmount, released)

	if err := s.repo.Put(ctx, depositor, record); err != nil {
		return WithdrawResult{}, err
	}
	if err := s.coins.Burn(ctx, depositor, repayment); err != nil {
		if restoreErr := s.repo.Put(ctx, depositor, previous); restoreErr != nil {
			return WithdrawResult{}, fmt.Errorf("burn failed (%v) and record restore failed: %w", err, restoreErr)
		}
		if errors.Is(err, stablecoin.ErrInsufficientBalance) {
			return WithdrawResult{}, ErrInsufficientBalance
		}
		return WithdrawResult{}, err
	}

	now := time.Now().UTC()
	if s.events != nil {
		_ = s.events.Publish(ctx, events.KindWithdraw, events.Withdraw{
			Depositor:           depositor,
			CollateralWithdrawn: released.String(),
			StablecoinBurned:    repayment.String(),
			RoundID:             rate.RoundID(),
			OccurredAt:          now,
		})
	}

	return WithdrawResult{CollateralReleased: released, Record: record.Clone(), Rate: rate, CompletedAt: now}, nil
}

// Vault returns the depositor's record, zero-valued for unknown depositors.
func (s *Service) Vault(ctx context.Context, depositor string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Get(ctx, depositor)
}

// CurrentRate reads the price feed and normalizes its latest round. The rate
// is derived fresh on every call; nothing is cached.
func (s *Service) CurrentRate(ctx context.Context) (Rate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentRate(ctx)
}

// EstimateStablecoin previews the stablecoin amount a collateral deposit would
// mint at the current rate. No state is touched.
func (s *Service) EstimateStablecoin(ctx context.Context, collateral *big.Int) (*big.Int, error) {
	if collateral == nil || collateral.Sign() < 0 {
		return nil, ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rate, err := s.currentRate(ctx)
	if err != nil {
		return nil, err
	}
	return rate.StablecoinForCollateral(collateral), nil
}

// EstimateCollateral previews the collateral a stablecoin repayment would
// release at the current rate, with the same floor semantics as Withdraw.
func (s *Service) EstimateCollateral(ctx context.Context, stablecoinAmount *big.Int) (*big.Int, error) {
	if stablecoinAmount == nil || stablecoinAmount.Sign() < 0 {
		return nil, ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rate, err := s.currentRate(ctx)
	if err != nil {
		return nil, err
	}
	return rate.CollateralForStablecoin(stablecoinAmount), nil
}

// UpdatePriceFeed swaps the feed used by all subsequent rate reads. Owner only.
// Existing records are untouched.
func (s *Service) UpdatePriceFeed(caller string, feed oracle.PriceFeed) error {
	if feed == nil {
		return fmt.Errorf("price feed is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if caller != s.owner {
		return ErrUnauthorized
	}
	s.feed = feed
	return nil
}

// TransferOwnership hands the owner role to another account. Owner only.
func (s *Service) TransferOwnership(caller, newOwner string) error {
	if newOwner == "" {
		return fmt.Errorf("new owner is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if caller != s.owner {
		return ErrUnauthorized
	}
	s.owner = newOwner
	return nil
}

// Owner reports the current owner account.
func (s *Service) Owner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner
}

func (s *Service) currentRate(ctx context.Context) (Rate, error) {
	round, err := s.feed.LatestRound(ctx)
	if err != nil {
		return Rate{}, fmt.Errorf("%w: %v", ErrOracleFailure, err)
	}
	rate, err := RateFromRound(round)
	if err != nil {
		return Rate{}, fmt.Errorf("%w: %v", ErrOracleFailure, err)
	}
	return rate, nil
}
