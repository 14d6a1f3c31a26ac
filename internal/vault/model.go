package vault

import "math/big"

// Record is the per-depositor accounting pair: outstanding stablecoin debt and
// collateral custodied against it. Both are integral base units. A depositor
// with no record is represented by a zero-valued Record; records are created
// implicitly on first deposit and never deleted.
type Record struct {
	StablecoinDebt   *big.Int
	CollateralAmount *big.Int
}

// ZeroRecord returns a fresh all-zero record.
func ZeroRecord() Record {
	return Record{StablecoinDebt: big.NewInt(0), CollateralAmount: big.NewInt(0)}
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (r Record) Clone() Record {
	out := ZeroRecord()
	if r.StablecoinDebt != nil {
		out.StablecoinDebt.Set(r.StablecoinDebt)
	}
	if r.CollateralAmount != nil {
		out.CollateralAmount.Set(r.CollateralAmount)
	}
	return out
}

// IsZero reports whether the record holds no debt and no collateral.
func (r Record) IsZero() bool {
	return (r.StablecoinDebt == nil || r.StablecoinDebt.Sign() == 0) &&
		(r.CollateralAmount == nil || r.CollateralAmount.Sign() == 0)
}
