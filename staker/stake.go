package staker

import (
	sdkmath "cosmossdk.io/math"

	"inj-staker/db"
	"inj-staker/types"
)

// Stake deposits the attached INJ with the default validator.
func (e *Engine) Stake(sender string, attached sdkmath.Int) (*Response, error) {
	res := &Response{}
	err := e.run(func(txn *db.Txn, cmds *[]command) error {
		if err := checkNotPaused(txn); err != nil {
			return err
		}
		if err := checkWhitelisted(txn, sender); err != nil {
			return err
		}
		validator, err := getDefaultValidator(txn)
		if err != nil {
			return err
		}
		return e.internalStake(txn, cmds, res, sender, validator, attached)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// StakeToSpecificValidator deposits the attached INJ with the given validator.
func (e *Engine) StakeToSpecificValidator(sender, validator string, attached sdkmath.Int) (*Response, error) {
	res := &Response{}
	err := e.run(func(txn *db.Txn, cmds *[]command) error {
		if err := checkNotPaused(txn); err != nil {
			return err
		}
		if err := checkWhitelisted(txn, sender); err != nil {
			return err
		}
		return e.internalStake(txn, cmds, res, sender, validator, attached)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (e *Engine) internalStake(txn *db.Txn, cmds *[]command, res *Response, sender, validator string, attached sdkmath.Int) error {
	if err := checkValidator(txn, validator); err != nil {
		return err
	}

	info, err := getStakerInfo(txn)
	if err != nil {
		return err
	}
	if attached.IsNil() || !attached.IsPositive() {
		return ErrNoFundsAttached
	}
	if attached.LT(info.MinDeposit) {
		return ErrDepositBelowMinDeposit
	}

	totalStaked, totalRewards, err := e.totalStakedAndRewards(txn)
	if err != nil {
		return err
	}
	contractRewards, err := getContractRewards(txn)
	if err != nil {
		return err
	}
	supply, err := e.token.TotalSupply(txn)
	if err != nil {
		return err
	}
	price := ComputeSharePrice(totalStaked, contractRewards, totalRewards, supply, info.Fee)

	// the target validator's liquid rewards become the new reward float;
	// the backend sweeps them to the staker account as a side effect of
	// the delegation below
	delegation, err := e.backend.Delegation(validator)
	if err != nil {
		return err
	}
	validatorRewards := delegation.Rewards
	if err := txn.PutRecord(&types.ContractRewards{Amount: validatorRewards}); err != nil {
		return err
	}

	treasuryShares, err := e.mintTreasuryFees(txn, validatorRewards, info.Fee, info.Treasury, price)
	if err != nil {
		return err
	}

	userShares, err := ConvertToShares(attached, price)
	if err != nil {
		return err
	}
	if err := e.token.Mint(txn, sender, userShares); err != nil {
		return err
	}
	userBalance, err := e.token.BalanceOf(txn, sender)
	if err != nil {
		return err
	}
	treasuryBalance, err := e.token.BalanceOf(txn, info.Treasury)
	if err != nil {
		return err
	}

	// the deposit sweeps the previous reward float back into principal
	newStakeAmount := attached.Add(contractRewards)
	*cmds = append(*cmds, func() error {
		return e.backend.Delegate(validator, newStakeAmount)
	})

	newSupply := supply.Add(userShares).Add(treasuryShares)

	res.addEvent(types.NewEvent("deposited").
		Add("user", sender).
		Add("validator_addr", validator).
		Add("amount", attached.String()).
		Add("contract_rewards", contractRewards.String()).
		Add("user_shares_minted", userShares.String()).
		Add("treasury_shares_minted", treasuryShares.String()).
		Add("treasury_balance", treasuryBalance.String()).
		Add("total_staked", totalStaked.Add(newStakeAmount).String()).
		Add("total_supply", newSupply.String()).
		Add("share_price_num", price.Num.String()).
		Add("share_price_denom", price.Denom.String()).
		Add("user_balance", userBalance.String()))
	return nil
}
