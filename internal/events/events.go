package events

import (
	"context"
	"time"
)

const (
	// KindDeposit marks a collateral deposit / stablecoin mint audit record.
	KindDeposit = "vault_deposit"
	// KindWithdraw marks a stablecoin burn / collateral release audit record.
	KindWithdraw = "vault_withdraw"
)

// Deposit is the audit record for a completed deposit. Amounts are decimal
// strings of integral base units.
type Deposit struct {
	Depositor           string    `json:"depositor"`
	CollateralDeposited string    `json:"collateral_deposited"`
	StablecoinMinted    string    `json:"stablecoin_minted"`
	RoundID             string    `json:"round_id"`
	OccurredAt          time.Time `json:"occurred_at"`
}

// Withdraw is the audit record for a completed withdrawal.
type Withdraw struct {
	Depositor           string    `json:"depositor"`
	CollateralWithdrawn string    `json:"collateral_withdrawn"`
	StablecoinBurned    string    `json:"stablecoin_burned"`
	RoundID             string    `json:"round_id"`
	OccurredAt          time.Time `json:"occurred_at"`
}

// Publisher delivers audit records to downstream systems. Publishing happens
// after the vault has committed its state change; a delivery failure must not
// roll the operation back.
type Publisher interface {
	Publish(ctx context.Context, kind string, event any) error
}
