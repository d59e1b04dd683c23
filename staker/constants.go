package staker

import (
	"time"

	sdkmath "cosmossdk.io/math"
)

const (
	// Denom is the base asset denomination, in its smallest unit.
	Denom = "inj"

	// FeePrecision is the basis-point denominator for fee arithmetic.
	FeePrecision uint16 = 10_000

	// UnbondingPeriod is how long an unstake claim must wait before settlement.
	UnbondingPeriod = 21 * 24 * time.Hour
)

// OneInj is 1 INJ in its smallest unit (18 decimals).
var OneInj = sdkmath.NewIntWithDecimal(1, 18)

// SharePriceScalingFactor scales the share price numerator so integer
// division keeps 18 decimals of precision.
var SharePriceScalingFactor = sdkmath.NewIntWithDecimal(1, 18)
