package staker_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"inj-staker/staker"
)

func TestCompoundNoRewards(t *testing.T) {
	f := newFixture(t)
	f.stake(alice, inj(10))

	res, err := f.engine.CompoundRewards()
	require.NoError(t, err)
	require.Empty(t, res.Events)

	totalStaked, err := f.engine.TotalStaked()
	require.NoError(t, err)
	require.True(t, totalStaked.Equal(inj(10)))
}

func TestCompound(t *testing.T) {
	f := newFixture(t)
	f.stake(alice, inj(10))
	f.local.AccrueRewards(validator1, inj(2))

	res, err := f.engine.CompoundRewards()
	require.NoError(t, err)
	require.Equal(t, inj(2).String(), eventAttr(t, res, "restaked", "amount"))

	totalStaked, err := f.engine.TotalStaked()
	require.NoError(t, err)
	require.True(t, totalStaked.Equal(inj(12)))

	totalRewards, err := f.engine.TotalRewards()
	require.NoError(t, err)
	require.True(t, totalRewards.IsZero())

	// only the reserve remains liquid
	assets, err := f.engine.TotalAssets()
	require.NoError(t, err)
	require.True(t, assets.Equal(inj(1)))
}

func TestCompoundMintsTreasuryFees(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.SetFee(owner, 1000)
	require.NoError(t, err)

	f.stake(alice, inj(10))
	f.local.AccrueRewards(validator1, inj(2))

	res, err := f.engine.CompoundRewards()
	require.NoError(t, err)
	require.Equal(t, "169491525423728813", eventAttr(t, res, "restaked", "treasury_shares_minted"))

	treasuryBalance, err := f.engine.BalanceOf(treasury)
	require.NoError(t, err)
	require.Equal(t, "169491525423728813", treasuryBalance.String())
}

func TestCompoundFoldsRewardFloat(t *testing.T) {
	f := newFixture(t)
	f.stake(alice, inj(10))
	f.local.AccrueRewards(validator1, inj(1))

	// the second deposit leaves a 1 INJ reward float behind
	f.stake(alice, inj(10))
	f.local.AccrueRewards(validator1, inj(2))

	res, err := f.engine.CompoundRewards()
	require.NoError(t, err)
	require.Equal(t, inj(2).String(), eventAttr(t, res, "restaked", "amount"))

	// the float is folded into the default validator's re-delegation
	totalStaked, err := f.engine.TotalStaked()
	require.NoError(t, err)
	require.True(t, totalStaked.Equal(inj(23)))

	assets, err := f.engine.TotalAssets()
	require.NoError(t, err)
	require.True(t, assets.Equal(inj(1)))
}

func TestRestakeOnlySelf(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.Restake(alice, inj(1), validator1)
	require.ErrorIs(t, err, staker.ErrUnauthorized)
}
