package staker_test

import (
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"inj-staker/db"
	"inj-staker/staker"
	"inj-staker/types"
)

func TestStake(t *testing.T) {
	f := newFixture(t)

	res := f.stake(alice, inj(10))
	require.Equal(t, inj(10).String(), eventAttr(t, res, "deposited", "amount"))
	require.Equal(t, inj(10).String(), eventAttr(t, res, "deposited", "user_shares_minted"))
	require.Equal(t, inj(10).String(), eventAttr(t, res, "deposited", "total_supply"))
	require.Equal(t, validator1, eventAttr(t, res, "deposited", "validator_addr"))

	balance, err := f.engine.BalanceOf(alice)
	require.NoError(t, err)
	require.True(t, balance.Equal(inj(10)))

	totalStaked, err := f.engine.TotalStaked()
	require.NoError(t, err)
	require.True(t, totalStaked.Equal(inj(10)))

	supply, err := f.engine.TotalSupply()
	require.NoError(t, err)
	require.True(t, supply.Equal(inj(10)))
}

func TestStakeRejectsSmallDeposits(t *testing.T) {
	f := newFixture(t)

	f.local.FundAccount(stakerAddr, inj(1))
	_, err := f.engine.Stake(alice, staker.OneInj.QuoRaw(2))
	require.ErrorIs(t, err, staker.ErrDepositBelowMinDeposit)

	_, err = f.engine.Stake(alice, sdkmath.ZeroInt())
	require.ErrorIs(t, err, staker.ErrNoFundsAttached)
}

func TestStakeSweepsRewardFloat(t *testing.T) {
	f := newFixture(t)

	f.stake(alice, inj(10))
	f.local.AccrueRewards(validator1, inj(1))

	// the deposit snapshots the validator's rewards as the new float and
	// mints at the grown price
	res := f.stake(alice, inj(10))
	require.Equal(t, "0", eventAttr(t, res, "deposited", "contract_rewards"))
	require.Equal(t, "9090909090909090909", eventAttr(t, res, "deposited", "user_shares_minted"))

	totalStaked, err := f.engine.TotalStaked()
	require.NoError(t, err)
	require.True(t, totalStaked.Equal(inj(20)))

	// reserve plus the swept rewards sit in the staker account
	assets, err := f.engine.TotalAssets()
	require.NoError(t, err)
	require.True(t, assets.Equal(inj(2)))

	// the next deposit folds the float back into principal
	res = f.stake(alice, inj(10))
	require.Equal(t, inj(1).String(), eventAttr(t, res, "deposited", "contract_rewards"))

	totalStaked, err = f.engine.TotalStaked()
	require.NoError(t, err)
	require.True(t, totalStaked.Equal(inj(31)))

	assets, err = f.engine.TotalAssets()
	require.NoError(t, err)
	require.True(t, assets.Equal(inj(1)))
}

func TestStakeMintsTreasuryFees(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.SetFee(owner, 1000)
	require.NoError(t, err)

	f.stake(alice, inj(10))
	f.local.AccrueRewards(validator1, inj(2))

	res := f.stake(alice, inj(10))
	require.Equal(t, "169491525423728813", eventAttr(t, res, "deposited", "treasury_shares_minted"))

	treasuryBalance, err := f.engine.BalanceOf(treasury)
	require.NoError(t, err)
	require.Equal(t, "169491525423728813", treasuryBalance.String())
}

func TestUnstakePartial(t *testing.T) {
	f := newFixture(t)
	f.stake(alice, inj(10))
	f.local.AccrueRewards(validator1, inj(1))

	res, err := f.engine.Unstake(alice, inj(5))
	require.NoError(t, err)
	require.Equal(t, inj(5).String(), eventAttr(t, res, "unstaked", "amount"))
	require.Equal(t, "4545454545454545454", eventAttr(t, res, "unstaked", "user_shares_burned"))

	balance, err := f.engine.BalanceOf(alice)
	require.NoError(t, err)
	require.Equal(t, "5454545454545454546", balance.String())

	totalStaked, err := f.engine.TotalStaked()
	require.NoError(t, err)
	require.True(t, totalStaked.Equal(inj(5)))

	claims, err := f.engine.ClaimableAssets(alice)
	require.NoError(t, err)
	require.Len(t, claims, 1)
	require.True(t, claims[0].Amount.Equal(inj(5)))
	wantRelease := time.Now().Add(staker.UnbondingPeriod).Unix()
	require.InDelta(t, wantRelease, claims[0].ReleaseAt, 5)

	// undelegated funds and swept rewards land in the staker account
	assets, err := f.engine.TotalAssets()
	require.NoError(t, err)
	require.True(t, assets.Equal(inj(7)))
}

func TestUnstakeDustSweep(t *testing.T) {
	f := newFixture(t)
	f.stake(alice, inj(2))

	// the remainder would be under the minimum deposit, so the whole
	// position is withdrawn
	res, err := f.engine.Unstake(alice, staker.OneInj.MulRaw(3).QuoRaw(2))
	require.NoError(t, err)
	require.Equal(t, inj(2).String(), eventAttr(t, res, "unstaked", "amount"))
	require.Equal(t, inj(2).String(), eventAttr(t, res, "unstaked", "user_shares_burned"))

	balance, err := f.engine.BalanceOf(alice)
	require.NoError(t, err)
	require.True(t, balance.IsZero())

	claims, err := f.engine.ClaimableAssets(alice)
	require.NoError(t, err)
	require.Len(t, claims, 1)
	require.True(t, claims[0].Amount.Equal(inj(2)))
}

func TestUnstakeErrors(t *testing.T) {
	f := newFixture(t)
	f.stake(alice, inj(10))

	_, err := f.engine.Unstake(alice, sdkmath.ZeroInt())
	require.ErrorIs(t, err, staker.ErrUnstakeAmountTooLow)

	_, err = f.engine.Unstake(alice, inj(11))
	require.ErrorIs(t, err, staker.ErrInsufficientTruINJBalance)

	_, err = f.engine.UnstakeFromSpecificValidator(alice, "injvaloper1unknown", inj(1))
	require.ErrorIs(t, err, staker.ErrValidatorDoesNotExist)
}

func TestUnstakeExcessCoverage(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.AddValidator(owner, validator2)
	require.NoError(t, err)

	f.stake(alice, inj(10))
	f.stakeTo(alice, validator2, inj(10))

	// more than the validator holds and nothing liquid to cover the gap
	_, err = f.engine.UnstakeFromSpecificValidator(alice, validator2, inj(12))
	require.ErrorIs(t, err, staker.ErrInsufficientValidatorFunds)

	// with accrued rewards the excess is funded from the reward float
	f.local.AccrueRewards(validator2, inj(3))
	res, err := f.engine.UnstakeFromSpecificValidator(alice, validator2, inj(12))
	require.NoError(t, err)
	require.Equal(t, inj(12).String(), eventAttr(t, res, "unstaked", "amount"))

	f.matureClaims(alice)
	res, err = f.engine.Claim(alice)
	require.NoError(t, err)
	require.Equal(t, inj(12).String(), eventAttr(t, res, "claimed", "amount"))

	aliceBank, err := f.local.BankBalance(alice)
	require.NoError(t, err)
	require.True(t, aliceBank.Equal(inj(12)))

	// the reserve and the remaining float stay behind
	assets, err := f.engine.TotalAssets()
	require.NoError(t, err)
	require.True(t, assets.Equal(inj(2)))
}

func TestClaim(t *testing.T) {
	f := newFixture(t)
	f.stake(alice, inj(10))

	_, err := f.engine.Claim(alice)
	require.ErrorIs(t, err, staker.ErrNothingToClaim)

	_, err = f.engine.Unstake(alice, inj(3))
	require.NoError(t, err)

	// not matured yet
	_, err = f.engine.Claim(alice)
	require.ErrorIs(t, err, staker.ErrNothingToClaim)

	claimable, err := f.engine.ClaimableAmount(alice)
	require.NoError(t, err)
	require.True(t, claimable.IsZero())

	f.matureClaims(alice)

	claimable, err = f.engine.ClaimableAmount(alice)
	require.NoError(t, err)
	require.True(t, claimable.Equal(inj(3)))

	res, err := f.engine.Claim(alice)
	require.NoError(t, err)
	require.Equal(t, inj(3).String(), eventAttr(t, res, "claimed", "amount"))

	claims, err := f.engine.ClaimableAssets(alice)
	require.NoError(t, err)
	require.Empty(t, claims)

	_, err = f.engine.Claim(alice)
	require.ErrorIs(t, err, staker.ErrNothingToClaim)
}

func TestClaimInsufficientStakerFunds(t *testing.T) {
	f := newFixture(t)

	err := f.ldb.Transaction(func(txn *db.Txn) error {
		return txn.StoreRecordWithAutoId(&types.Claim{
			User:      alice,
			Amount:    inj(100),
			ReleaseAt: time.Now().Add(-time.Hour).Unix(),
		})
	})
	require.NoError(t, err)

	_, err = f.engine.Claim(alice)
	require.ErrorIs(t, err, staker.ErrInsufficientStakerFunds)

	// the claim survives the failed settlement
	claims, err := f.engine.ClaimableAssets(alice)
	require.NoError(t, err)
	require.Len(t, claims, 1)
}
