package vault

import (
	"context"
	"errors"
	"math/big"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists depositor records. Get returns a zero record for unknown
// depositors; Put upserts.
type Repository interface {
	Get(ctx context.Context, depositor string) (Record, error)
	Put(ctx context.Context, depositor string, record Record) error
}

// PostgresRepository stores records in PostgreSQL. Amounts live in
// numeric(78,0) columns and cross the driver boundary as decimal strings.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get fetches the depositor's record, zero-valued when absent.
func (r *PostgresRepository) Get(ctx context.Context, depositor string) (Record, error) {
	var debt, collateral string
	err := r.db.QueryRow(ctx, `SELECT stablecoin_debt::text, collateral_amount::text
        FROM vault_records WHERE depositor = $1`, depositor).Scan(&debt, &collateral)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ZeroRecord(), nil
		}
		return Record{}, err
	}
	record := ZeroRecord()
	if _, ok := record.StablecoinDebt.SetString(debt, 10); !ok {
		return Record{}, errors.New("unparsable stablecoin_debt " + debt)
	}
	if _, ok := record.CollateralAmount.SetString(collateral, 10); !ok {
		return Record{}, errors.New("unparsable collateral_amount " + collateral)
	}
	return record, nil
}

// Put upserts the depositor's record.
func (r *PostgresRepository) Put(ctx context.Context, depositor string, record Record) error {
	debt := record.StablecoinDebt
	if debt == nil {
		debt = big.NewInt(0)
	}
	collateral := record.CollateralAmount
	if collateral == nil {
		collateral = big.NewInt(0)
	}
	_, err := r.db.Exec(ctx, `INSERT INTO vault_records (depositor, stablecoin_debt, collateral_amount, updated_at)
        VALUES ($1, $2::numeric, $3::numeric, now())
        ON CONFLICT (depositor) DO UPDATE
        SET stablecoin_debt = EXCLUDED.stablecoin_debt,
            collateral_amount = EXCLUDED.collateral_amount,
            updated_at = now()`,
		depositor, debt.String(), collateral.String())
	return err
}
