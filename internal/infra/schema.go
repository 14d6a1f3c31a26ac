package infra

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS vault_records (
        depositor         text PRIMARY KEY,
        stablecoin_debt   numeric(78,0) NOT NULL DEFAULT 0,
        collateral_amount numeric(78,0) NOT NULL DEFAULT 0,
        updated_at        timestamptz NOT NULL DEFAULT now()
    )`,
	`CREATE TABLE IF NOT EXISTS stablecoin_balances (
        account text PRIMARY KEY,
        balance numeric(78,0) NOT NULL DEFAULT 0
    )`,
	`CREATE TABLE IF NOT EXISTS stablecoin_allowances (
        owner_account   text NOT NULL,
        spender_account text NOT NULL,
        amount          numeric(78,0) NOT NULL DEFAULT 0,
        PRIMARY KEY (owner_account, spender_account)
    )`,
	`CREATE TABLE IF NOT EXISTS stablecoin_operations (
        id         uuid PRIMARY KEY,
        kind       text NOT NULL,
        account    text NOT NULL,
        amount     numeric(78,0) NOT NULL,
        created_at timestamptz NOT NULL DEFAULT now()
    )`,
}

// EnsureSchema creates the vault and stablecoin tables when they do not exist
// yet. Statements are idempotent so repeated startups are safe.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
