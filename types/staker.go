package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// StakerInfo carries the protocol parameters set by the owner.
type StakerInfo struct {
	Treasury        string
	Fee             uint16
	DistributionFee uint16
	MinDeposit      sdkmath.Int
}

func (s *StakerInfo) Key() string {
	return "StakerInfo"
}

type Owner struct {
	Addr string
}

func (o *Owner) Key() string {
	return "Owner"
}

type PendingOwner struct {
	Addr string
}

func (p *PendingOwner) Key() string {
	return "PendingOwner"
}

type DefaultValidator struct {
	Addr string
}

func (d *DefaultValidator) Key() string {
	return "DefaultValidator"
}

type Paused struct {
	Value bool
}

func (p *Paused) Key() string {
	return "Paused"
}

// ContractRewards tracks rewards already swept to the staker account but not
// yet folded back into a delegation.
type ContractRewards struct {
	Amount sdkmath.Int
}

func (c *ContractRewards) Key() string {
	return "ContractRewards"
}

type ValidatorState uint8

const (
	ValidatorEnabled ValidatorState = iota
	ValidatorDisabled
)

func (s ValidatorState) String() string {
	switch s {
	case ValidatorEnabled:
		return "enabled"
	case ValidatorDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

type Validator struct {
	Addr  string
	State ValidatorState
}

func (v *Validator) Key() string {
	return fmt.Sprintf("Validator_%s", v.Addr)
}

func ValidatorPrefix() string {
	return "Validator_"
}
