package staker

import (
	"math/big"

	sdkmath "cosmossdk.io/math"
)

// SharePrice is the exchange rate between INJ and TruINJ as a rational
// number. Keeping the numerator and denominator separate means repeated
// re-derivation from raw totals stays exact under both growth and slashing.
type SharePrice struct {
	Num   sdkmath.Int `json:"numerator"`
	Denom sdkmath.Int `json:"denominator"`
}

// ComputeSharePrice derives the current share price from the pool totals.
// The compounding fee is discounted from the rewards portion up front, so the
// price already reflects the treasury shares that will later be minted.
func ComputeSharePrice(totalStaked, totalIdle, totalRewards, sharesSupply sdkmath.Int, fee uint16) SharePrice {
	if sharesSupply.IsZero() {
		return SharePrice{Num: SharePriceScalingFactor, Denom: sdkmath.OneInt()}
	}

	precision := big.NewInt(int64(FeePrecision))
	afterFee := big.NewInt(int64(FeePrecision - fee))

	capital := new(big.Int).Mul(new(big.Int).Add(totalStaked.BigInt(), totalIdle.BigInt()), precision)
	capital.Add(capital, new(big.Int).Mul(totalRewards.BigInt(), afterFee))

	num := capital.Mul(capital, SharePriceScalingFactor.BigInt())
	denom := new(big.Int).Mul(sharesSupply.BigInt(), precision)

	return SharePrice{
		Num:   sdkmath.NewIntFromBigInt(num),
		Denom: sdkmath.NewIntFromBigInt(denom),
	}
}

// ConvertToShares converts an INJ amount to the equivalent TruINJ amount.
// The full product is computed before dividing; truncating early would lose
// precision or overflow spuriously.
func ConvertToShares(amount sdkmath.Int, price SharePrice) (sdkmath.Int, error) {
	if price.Num.IsZero() {
		return sdkmath.Int{}, ErrDivideByZero
	}

	mul := new(big.Int).Mul(price.Denom.BigInt(), amount.BigInt())
	mul.Mul(mul, SharePriceScalingFactor.BigInt())
	shares := mul.Quo(mul, price.Num.BigInt())

	return narrowToUint128(shares)
}

// ConvertToAssets converts a TruINJ amount to the equivalent INJ amount.
// Rounding up is only done on explicit request and uses the exact remainder.
func ConvertToAssets(shares sdkmath.Int, price SharePrice, roundUp bool) (sdkmath.Int, error) {
	x := shares.BigInt()
	y := price.Num.BigInt()
	denominator := new(big.Int).Mul(price.Denom.BigInt(), SharePriceScalingFactor.BigInt())
	if denominator.Sign() == 0 {
		return sdkmath.Int{}, ErrDivideByZero
	}

	product := new(big.Int).Mul(x, y)
	assets, remainder := new(big.Int).QuoRem(product, denominator, new(big.Int))

	if roundUp && remainder.Sign() != 0 {
		assets.Add(assets, big.NewInt(1))
	}

	return narrowToUint128(assets)
}

func narrowToUint128(v *big.Int) (sdkmath.Int, error) {
	if v.Sign() < 0 || v.BitLen() > 128 {
		return sdkmath.Int{}, ErrNumericOverflow
	}
	return sdkmath.NewIntFromBigInt(v), nil
}

func narrowToUint256(v *big.Int) (sdkmath.Int, error) {
	if v.Sign() < 0 || v.BitLen() > 256 {
		return sdkmath.Int{}, ErrNumericOverflow
	}
	return sdkmath.NewIntFromBigInt(v), nil
}
