package vault

import (
	"errors"
	"math/big"
	"testing"

	"github.com/peg-vault/peg_vault/internal/oracle"
)

func mustRate(t *testing.T, price int64, decimals uint8) Rate {
	t.Helper()
	rate, err := RateFromRound(oracle.Round{Price: big.NewInt(price), Decimals: decimals, RoundID: "r1"})
	if err != nil {
		t.Fatalf("rate from round: %v", err)
	}
	return rate
}

func TestRateFromRoundScalesUp(t *testing.T) {
	// 3000.00000000 with 8 decimals must become 3000e18.
	rate := mustRate(t, 3000_00000000, 8)

	want := new(big.Int).Mul(big.NewInt(3000), rateScale)
	if rate.Value().Cmp(want) != 0 {
		t.Fatalf("expected %s, got %s", want, rate.Value())
	}
	if rate.RoundID() != "r1" {
		t.Fatalf("expected round id r1, got %s", rate.RoundID())
	}
}

func TestRateFromRoundScalesDown(t *testing.T) {
	// 20 decimals shifts down by 100.
	round := oracle.Round{Price: new(big.Int).Mul(big.NewInt(3000), new(big.Int).Exp(big.NewInt(10), big.NewInt(20), nil)), Decimals: 20}
	rate, err := RateFromRound(round)
	if err != nil {
		t.Fatalf("rate from round: %v", err)
	}
	want := new(big.Int).Mul(big.NewInt(3000), rateScale)
	if rate.Value().Cmp(want) != 0 {
		t.Fatalf("expected %s, got %s", want, rate.Value())
	}
}

func TestRateFromRoundRejectsNonPositivePrices(t *testing.T) {
	cases := []struct {
		name  string
		price *big.Int
	}{
		{"nil", nil},
		{"zero", big.NewInt(0)},
		{"negative", big.NewInt(-100_00000000)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := RateFromRound(oracle.Round{Price: tc.price, Decimals: 8}); !errors.Is(err, oracle.ErrInvalidPrice) {
				t.Fatalf("expected ErrInvalidPrice, got %v", err)
			}
		})
	}
}

func TestStablecoinForCollateralFloors(t *testing.T) {
	// Rate 1.5 stablecoin per collateral unit: 15e17.
	rate, err := RateFromRound(oracle.Round{Price: big.NewInt(1_50000000), Decimals: 8})
	if err != nil {
		t.Fatalf("rate from round: %v", err)
	}

	minted := rate.StablecoinForCollateral(big.NewInt(3))
	if minted.Cmp(big.NewInt(4)) != 0 {
		t.Fatalf("expected floor(3*1.5)=4, got %s", minted)
	}
}

func TestCollateralForStablecoinFloors(t *testing.T) {
	rate := mustRate(t, 3000_00000000, 8)

	// 1000 stablecoin base units at 3000/unit is 0.333... collateral units,
	// floored to 0.
	released := rate.CollateralForStablecoin(big.NewInt(1000))
	if released.Sign() != 0 {
		t.Fatalf("expected floor to zero, got %s", released)
	}

	// 1500e18 stablecoin at 3000/unit releases exactly half a collateral unit.
	repayment := new(big.Int).Mul(big.NewInt(1500), rateScale)
	released = rate.CollateralForStablecoin(repayment)
	half := new(big.Int).Div(rateScale, big.NewInt(2))
	if released.Cmp(half) != 0 {
		t.Fatalf("expected %s, got %s", half, released)
	}

	// Never rounds up: converting the release back must not exceed the repayment.
	back := rate.StablecoinForCollateral(released)
	if back.Cmp(repayment) > 0 {
		t.Fatalf("release rounded up: %s stablecoin for %s collateral", back, released)
	}
}

func TestConversionsOnZeroAmounts(t *testing.T) {
	rate := mustRate(t, 3000_00000000, 8)
	if got := rate.StablecoinForCollateral(big.NewInt(0)); got.Sign() != 0 {
		t.Fatalf("expected zero mint, got %s", got)
	}
	if got := rate.CollateralForStablecoin(nil); got.Sign() != 0 {
		t.Fatalf("expected zero release, got %s", got)
	}
}
