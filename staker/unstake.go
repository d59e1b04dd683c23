package staker

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	"inj-staker/db"
	"inj-staker/token"
	"inj-staker/types"
)

// Unstake requests a withdrawal from the default validator. The amount is
// owed to the caller after the unbonding period via the claim ledger.
func (e *Engine) Unstake(sender string, amount sdkmath.Int) (*Response, error) {
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
		return e.internalUnstake(txn, cmds, res, sender, validator, amount)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (e *Engine) UnstakeFromSpecificValidator(sender, validator string, amount sdkmath.Int) (*Response, error) {
	res := &Response{}
	err := e.run(func(txn *db.Txn, cmds *[]command) error {
		if err := checkNotPaused(txn); err != nil {
			return err
		}
		if err := checkWhitelisted(txn, sender); err != nil {
			return err
		}
		exists, err := hasValidator(txn, validator)
		if err != nil {
			return err
		}
		if !exists {
			return ErrValidatorDoesNotExist
		}
		return e.internalUnstake(txn, cmds, res, sender, validator, amount)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (e *Engine) internalUnstake(txn *db.Txn, cmds *[]command, res *Response, sender, validator string, assets sdkmath.Int) error {
	if assets.IsNil() || !assets.IsPositive() {
		return ErrUnstakeAmountTooLow
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
	info, err := getStakerInfo(txn)
	if err != nil {
		return err
	}
	price := ComputeSharePrice(totalStaked, contractRewards, totalRewards, supply, info.Fee)

	sharesBalance, err := e.token.BalanceOf(txn, sender)
	if err != nil {
		return err
	}
	maxWithdraw, err := ConvertToAssets(sharesBalance, price, true)
	if err != nil {
		return err
	}
	if assets.GT(maxWithdraw) {
		return ErrInsufficientTruINJBalance
	}

	// if the remaining balance would fall below the minimum deposit the
	// entire position is withdrawn and all shares are burnt
	assetsToUnstake := assets
	var sharesToBurn sdkmath.Int
	if maxWithdraw.Sub(assets).LT(info.MinDeposit) {
		assetsToUnstake = maxWithdraw
		sharesToBurn = sharesBalance
	} else {
		sharesToBurn, err = ConvertToShares(assets, price)
		if err != nil {
			return err
		}
	}
	if !sharesToBurn.IsPositive() {
		return ErrSharesAmountTooLow
	}

	delegation, err := e.backend.Delegation(validator)
	if err != nil {
		return err
	}
	validatorStaked := delegation.Staked
	validatorRewards := delegation.Rewards

	// the user may withdraw more than is delegated on the validator; the
	// excess is funded from the validator's liquid rewards and the reward
	// float held by the staker account
	actualAmountToUnstake := assetsToUnstake
	excess := sdkmath.ZeroInt()
	if actualAmountToUnstake.GT(validatorStaked) {
		excess = actualAmountToUnstake.Sub(validatorStaked)
		actualAmountToUnstake = validatorStaked
	}
	if excess.GT(validatorRewards.Add(contractRewards)) {
		return ErrInsufficientValidatorFunds
	}

	// unstaking withdraws the validator's accrued rewards; the excess
	// already belongs to this user via the claim below
	newContractRewards := contractRewards.Add(validatorRewards).Sub(excess)
	if err := txn.PutRecord(&types.ContractRewards{Amount: newContractRewards}); err != nil {
		return err
	}

	expiresAt := e.now().Add(UnbondingPeriod).Unix()
	if err := txn.StoreRecordWithAutoId(&types.Claim{
		User:      sender,
		Amount:    assetsToUnstake,
		ReleaseAt: expiresAt,
	}); err != nil {
		return err
	}

	treasuryShares, err := e.mintTreasuryFees(txn, validatorRewards, info.Fee, info.Treasury, price)
	if err != nil {
		return err
	}

	if err := e.token.Burn(txn, sender, sharesToBurn); err != nil {
		if err == token.ErrInsufficientBalance {
			return ErrInsufficientTruINJBalance
		}
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

	newTotalStaked := totalStaked.Sub(actualAmountToUnstake)
	newSupply := supply.Add(treasuryShares).Sub(sharesToBurn)

	if actualAmountToUnstake.IsPositive() {
		undelegate := actualAmountToUnstake
		*cmds = append(*cmds, func() error {
			return e.backend.Undelegate(validator, undelegate)
		})
	}

	res.addEvent(types.NewEvent("unstaked").
		Add("user", sender).
		Add("amount", assetsToUnstake.String()).
		Add("validator_addr", validator).
		Add("user_balance", userBalance.String()).
		Add("user_shares_burned", sharesToBurn.String()).
		Add("treasury_shares_minted", treasuryShares.String()).
		Add("treasury_balance", treasuryBalance.String()).
		Add("total_staked", newTotalStaked.String()).
		Add("total_supply", newSupply.String()).
		Add("expires_at", fmt.Sprintf("%d", expiresAt)))
	return nil
}
