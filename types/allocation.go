package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// Allocation is a standing promise by Allocator to distribute the staking
// rewards earned on InjAmount to Recipient. The share price components record
// the weighted average price at which the allocated amounts were set aside.
type Allocation struct {
	Allocator       string
	Recipient       string
	InjAmount       sdkmath.Int
	SharePriceNum   sdkmath.Int
	SharePriceDenom sdkmath.Int
}

func (a *Allocation) Key() string {
	return fmt.Sprintf("Allocation_%s_%s", a.Allocator, a.Recipient)
}

func AllocationPrefix(allocator string) string {
	return fmt.Sprintf("Allocation_%s_", allocator)
}
