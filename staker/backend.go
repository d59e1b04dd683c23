package staker

import (
	sdkmath "cosmossdk.io/math"
)

// Delegation is the staker account's position on one validator: the
// delegated principal and the accrued, not yet withdrawn rewards.
type Delegation struct {
	Staked  sdkmath.Int
	Rewards sdkmath.Int
}

// Backend is the staking layer underneath the ledger. The chain
// implementation issues real delegation messages; the local implementation
// simulates them for development and tests.
type Backend interface {
	// IsValidator reports whether addr is in the chain's validator set.
	IsValidator(addr string) (bool, error)

	// Delegation returns the staker account's delegation on the validator.
	// A validator with no delegation returns zero values.
	Delegation(validator string) (Delegation, error)

	// BankBalance returns the INJ balance of an account.
	BankBalance(addr string) (sdkmath.Int, error)

	Delegate(validator string, amount sdkmath.Int) error
	Undelegate(validator string, amount sdkmath.Int) error
	WithdrawRewards(validator string) error

	// Send transfers INJ from the staker account to another account.
	Send(to string, amount sdkmath.Int) error
}
