package staker

import (
	sdkmath "cosmossdk.io/math"

	"inj-staker/db"
	"inj-staker/types"
)

// CompoundRewards sweeps every registered validator's accrued rewards back
// into its own delegation, minting the treasury's cut at the pre-compound
// share price. A sweep touching the default validator also folds in the
// reward float held by the staker account.
func (e *Engine) CompoundRewards() (*Response, error) {
	res := &Response{}

	type restake struct {
		validator string
		amount    sdkmath.Int
	}
	var restakes []restake

	err := e.run(func(txn *db.Txn, cmds *[]command) error {
		totalStaked := sdkmath.ZeroInt()
		totalRewards := sdkmath.ZeroInt()

		err := e.forEachValidator(txn, func(v *types.Validator) error {
			delegation, err := e.backend.Delegation(v.Addr)
			if err != nil {
				return err
			}
			totalStaked = totalStaked.Add(delegation.Staked)
			if delegation.Rewards.IsPositive() {
				totalRewards = totalRewards.Add(delegation.Rewards)
				validator := v.Addr
				*cmds = append(*cmds, func() error {
					return e.backend.WithdrawRewards(validator)
				})
				restakes = append(restakes, restake{validator: validator, amount: delegation.Rewards})
			}
			return nil
		})
		if err != nil {
			return err
		}

		if totalRewards.IsZero() {
			return nil
		}

		info, err := getStakerInfo(txn)
		if err != nil {
			return err
		}

		fees := totalRewards.MulRaw(int64(info.Fee)).QuoRaw(int64(FeePrecision))
		treasuryShares := sdkmath.ZeroInt()
		if fees.IsPositive() {
			supply, err := e.token.TotalSupply(txn)
			if err != nil {
				return err
			}
			contractRewards, err := getContractRewards(txn)
			if err != nil {
				return err
			}
			price := ComputeSharePrice(totalStaked, contractRewards, totalRewards, supply, info.Fee)
			treasuryShares, err = ConvertToShares(fees, price)
			if err != nil {
				return err
			}
			if err := e.token.Mint(txn, info.Treasury, treasuryShares); err != nil {
				return err
			}
		}

		treasuryBalance, err := e.token.BalanceOf(txn, info.Treasury)
		if err != nil {
			return err
		}

		res.addEvent(types.NewEvent("restaked").
			Add("amount", totalRewards.String()).
			Add("treasury_shares_minted", treasuryShares.String()).
			Add("treasury_balance", treasuryBalance.String()))

		// re-delegate each withdrawal within the same transaction
		for _, r := range restakes {
			if err := e.restake(txn, cmds, r.amount, r.validator); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Restake re-delegates swept rewards to a validator. Only callable by the
// staker account itself as the second half of a compounding sweep.
func (e *Engine) Restake(sender string, amount sdkmath.Int, validator string) (*Response, error) {
	if sender != e.addr {
		return nil, ErrUnauthorized
	}
	res := &Response{}
	err := e.run(func(txn *db.Txn, cmds *[]command) error {
		return e.restake(txn, cmds, amount, validator)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (e *Engine) restake(txn *db.Txn, cmds *[]command, amount sdkmath.Int, validator string) error {
	defaultValidator, err := getDefaultValidator(txn)
	if err != nil {
		return err
	}
	restakeAmount := amount
	if validator == defaultValidator {
		contractRewards, err := getContractRewards(txn)
		if err != nil {
			return err
		}
		restakeAmount = restakeAmount.Add(contractRewards)
		if err := txn.PutRecord(&types.ContractRewards{Amount: sdkmath.ZeroInt()}); err != nil {
			return err
		}
	}
	target := validator
	delegate := restakeAmount
	*cmds = append(*cmds, func() error {
		return e.backend.Delegate(target, delegate)
	})
	return nil
}
