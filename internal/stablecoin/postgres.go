package stablecoin

import (
	"context"
	"errors"
	"math/big"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLedger persists stablecoin balances and allowances in PostgreSQL.
// Every mint and burn is also journaled into stablecoin_operations for audit.
type PostgresLedger struct {
	db *pgxpool.Pool
}

// NewPostgresLedger constructs a Postgres-backed ledger implementation.
func NewPostgresLedger(db *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// Mint credits freshly issued units to the target account.
func (l *PostgresLedger) Mint(ctx context.Context, to string, amount *big.Int) error {
	if err := validAmount(amount); err != nil {
		return err
	}
	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if _, err := tx.Exec(ctx, `INSERT INTO stablecoin_balances (account, balance) VALUES ($1, $2::numeric)
        ON CONFLICT (account) DO UPDATE SET balance = stablecoin_balances.balance + EXCLUDED.balance`,
		to, amount.String()); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO stablecoin_operations (id, kind, account, amount) VALUES ($1, 'mint', $2, $3::numeric)`,
		uuid.New(), to, amount.String()); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Burn removes units from the holder, failing when the balance is too small.
func (l *PostgresLedger) Burn(ctx context.Context, from string, amount *big.Int) error {
	if err := validAmount(amount); err != nil {
		return err
	}
	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	var balance string
	err = tx.QueryRow(ctx, `SELECT balance::text FROM stablecoin_balances WHERE account = $1 FOR UPDATE`, from).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInsufficientBalance
		}
		return err
	}
	current, ok := new(big.Int).SetString(balance, 10)
	if !ok || current.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}

	if _, err := tx.Exec(ctx, `UPDATE stablecoin_balances SET balance = balance - $2::numeric WHERE account = $1`,
		from, amount.String()); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO stablecoin_operations (id, kind, account, amount) VALUES ($1, 'burn', $2, $3::numeric)`,
		uuid.New(), from, amount.String()); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// BalanceOf returns the holder's balance, zero for unknown accounts.
func (l *PostgresLedger) BalanceOf(ctx context.Context, account string) (*big.Int, error) {
	var balance string
	err := l.db.QueryRow(ctx, `SELECT balance::text FROM stablecoin_balances WHERE account = $1`, account).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return big.NewInt(0), nil
		}
		return nil, err
	}
	return parseNumeric(balance)
}

// TotalSupply sums all balances.
func (l *PostgresLedger) TotalSupply(ctx context.Context) (*big.Int, error) {
	var supply string
	if err := l.db.QueryRow(ctx, `SELECT COALESCE(SUM(balance), 0)::text FROM stablecoin_balances`).Scan(&supply); err != nil {
		return nil, err
	}
	return parseNumeric(supply)
}

// Approve records the spender's allowance over the owner's balance.
func (l *PostgresLedger) Approve(ctx context.Context, owner, spender string, amount *big.Int) error {
	if err := validAmount(amount); err != nil {
		return err
	}
	_, err := l.db.Exec(ctx, `INSERT INTO stablecoin_allowances (owner_account, spender_account, amount)
        VALUES ($1, $2, $3::numeric)
        ON CONFLICT (owner_account, spender_account) DO UPDATE SET amount = EXCLUDED.amount`,
		owner, spender, amount.String())
	return err
}

// Allowance returns the amount the spender may draw from the owner.
func (l *PostgresLedger) Allowance(ctx context.Context, owner, spender string) (*big.Int, error) {
	var amount string
	err := l.db.QueryRow(ctx, `SELECT amount::text FROM stablecoin_allowances
        WHERE owner_account = $1 AND spender_account = $2`, owner, spender).Scan(&amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return big.NewInt(0), nil
		}
		return nil, err
	}
	return parseNumeric(amount)
}

func parseNumeric(value string) (*big.Int, error) {
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, errors.New("unparsable numeric value " + value)
	}
	return parsed, nil
}
