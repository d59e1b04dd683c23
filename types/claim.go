package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// Claim is an unbonding entry owed to User once ReleaseAt has passed.
type Claim struct {
	ID        uint64
	User      string
	Amount    sdkmath.Int
	ReleaseAt int64
}

func (c *Claim) Key() string {
	return fmt.Sprintf("Claim_%s_%020d", c.User, c.ID)
}

func (c *Claim) Prefix() string {
	return fmt.Sprintf("Claim_%s_", c.User)
}

func (c *Claim) SetId(id uint64) {
	c.ID = id
}
