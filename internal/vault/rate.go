package vault

import (
	"fmt"
	"math/big"

	"github.com/peg-vault/peg_vault/internal/oracle"
)

// rateDecimals is the fixed-point precision of a normalized exchange rate:
// stablecoin base units per collateral base unit, scaled by 1e18.
const rateDecimals = 18

var rateScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(rateDecimals), nil)

// Rate is a normalized 18-decimal fixed-point exchange rate together with the
// oracle round it was derived from. A Rate is always strictly positive.
type Rate struct {
	value   *big.Int
	roundID string
}

// RateFromRound normalizes an oracle round to 18-decimal fixed point. Feeds
// report prices with their own exponent (commonly 8 decimals); the price is
// scaled up or down accordingly. Non-positive prices are rejected rather than
// widened into a huge unsigned value.
func RateFromRound(round oracle.Round) (Rate, error) {
	if round.Price == nil || round.Price.Sign() <= 0 {
		return Rate{}, fmt.Errorf("%w: non-positive price", oracle.ErrInvalidPrice)
	}
	value := new(big.Int).Set(round.Price)
	switch {
	case round.Decimals < rateDecimals:
		shift := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(rateDecimals-round.Decimals)), nil)
		value.Mul(value, shift)
	case round.Decimals > rateDecimals:
		shift := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(round.Decimals-rateDecimals)), nil)
		value.Quo(value, shift)
		if value.Sign() <= 0 {
			return Rate{}, fmt.Errorf("%w: price underflows 18-decimal precision", oracle.ErrInvalidPrice)
		}
	}
	return Rate{value: value, roundID: round.RoundID}, nil
}

// Value returns a copy of the raw 18-decimal fixed-point rate.
func (r Rate) Value() *big.Int {
	if r.value == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(r.value)
}

// RoundID reports the oracle round the rate was derived from.
func (r Rate) RoundID() string { return r.roundID }

// String renders the raw fixed-point value, mainly for responses and events.
func (r Rate) String() string {
	if r.value == nil {
		return "0"
	}
	return r.value.String()
}

// StablecoinForCollateral converts collateral base units into stablecoin base
// units: amount * rate / 1e18, floored. Flooring on mint keeps issuance from
// ever exceeding the fair conversion.
func (r Rate) StablecoinForCollateral(amount *big.Int) *big.Int {
	if r.value == nil || amount == nil || amount.Sign() <= 0 {
		return big.NewInt(0)
	}
	out := new(big.Int).Mul(amount, r.value)
	return out.Quo(out, rateScale)
}

// CollateralForStablecoin converts stablecoin base units into collateral base
// units: amount * 1e18 / rate, floored. Rounding down on release is the
// vault's solvency bias: the depositor may get marginally less collateral than
// the fair rate implies, never more.
func (r Rate) CollateralForStablecoin(amount *big.Int) *big.Int {
	if r.value == nil || r.value.Sign() == 0 || amount == nil || amount.Sign() <= 0 {
		return big.NewInt(0)
	}
	out := new(big.Int).Mul(amount, rateScale)
	return out.Quo(out, r.value)
}
