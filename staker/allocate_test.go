package staker_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"inj-staker/staker"
)

func TestAllocate(t *testing.T) {
	f := newFixture(t)
	f.stake(alice, inj(10))

	_, err := f.engine.Allocate(alice, alice, inj(5))
	require.ErrorIs(t, err, staker.ErrInvalidRecipient)

	_, err = f.engine.Allocate(alice, bob, staker.OneInj.QuoRaw(2))
	require.ErrorIs(t, err, staker.ErrAllocationUnderOneInj)

	res, err := f.engine.Allocate(alice, bob, inj(5))
	require.NoError(t, err)
	require.Equal(t, inj(5).String(), eventAttr(t, res, "allocated", "total_amount"))
	require.Equal(t, inj(5).String(), eventAttr(t, res, "allocated", "total_allocated_amount"))

	allocations, err := f.engine.Allocations(alice)
	require.NoError(t, err)
	require.Len(t, allocations, 1)
	require.Equal(t, bob, allocations[0].Recipient)
	require.True(t, allocations[0].InjAmount.Equal(inj(5)))
}

func TestAllocateMergesTranches(t *testing.T) {
	f := newFixture(t)
	f.stake(alice, inj(10))

	_, err := f.engine.Allocate(alice, bob, inj(5))
	require.NoError(t, err)

	// the price grows to 1.1 before the top-up; the merged snapshot keeps
	// each tranche's share equivalent at its own price
	f.local.AccrueRewards(validator1, inj(1))
	_, err = f.engine.Allocate(alice, bob, inj(3))
	require.NoError(t, err)

	allocations, err := f.engine.Allocations(alice)
	require.NoError(t, err)
	require.Len(t, allocations, 1)
	require.True(t, allocations[0].InjAmount.Equal(inj(8)))
	require.True(t, allocations[0].SharePriceNum.Equal(inj(8).Mul(staker.SharePriceScalingFactor)))
	require.Equal(t, "7727272727272727272", allocations[0].SharePriceDenom.String())
}

func TestDeallocate(t *testing.T) {
	f := newFixture(t)
	f.stake(alice, inj(10))
	_, err := f.engine.Allocate(alice, bob, inj(5))
	require.NoError(t, err)

	_, err = f.engine.Deallocate(alice, "inj1unknown", inj(1))
	require.ErrorIs(t, err, staker.ErrNoAllocationToRecipient)

	_, err = f.engine.Deallocate(alice, bob, inj(6))
	require.ErrorIs(t, err, staker.ErrExcessiveDeallocation)

	// a nonzero remainder under 1 INJ is rejected
	_, err = f.engine.Deallocate(alice, bob, inj(5).Sub(staker.OneInj.QuoRaw(2)))
	require.ErrorIs(t, err, staker.ErrAllocationUnderOneInj)

	res, err := f.engine.Deallocate(alice, bob, inj(2))
	require.NoError(t, err)
	require.Equal(t, inj(3).String(), eventAttr(t, res, "deallocated", "total_amount"))

	// reducing to exactly zero removes the record
	res, err = f.engine.Deallocate(alice, bob, inj(3))
	require.NoError(t, err)
	require.Equal(t, "0", eventAttr(t, res, "deallocated", "total_amount"))

	allocations, err := f.engine.Allocations(alice)
	require.NoError(t, err)
	require.Empty(t, allocations)
}

func TestDistributeNothingAccrued(t *testing.T) {
	f := newFixture(t)
	f.stake(alice, inj(10))
	_, err := f.engine.Allocate(alice, bob, inj(5))
	require.NoError(t, err)

	// no growth since allocation: nothing to distribute, attached funds
	// come straight back
	f.local.FundAccount(stakerAddr, inj(1))
	res, err := f.engine.DistributeRewards(alice, bob, true, inj(1))
	require.NoError(t, err)
	require.Empty(t, res.Events)

	aliceBank, err := f.local.BankBalance(alice)
	require.NoError(t, err)
	require.True(t, aliceBank.Equal(inj(1)))

	// after slashing the global price sits below the snapshot; still a no-op
	f.local.Slash(validator1, inj(2))
	res, err = f.engine.DistributeRewards(alice, bob, false, sdkmath.ZeroInt())
	require.NoError(t, err)
	require.Empty(t, res.Events)
}

func TestDistributeInTruINJ(t *testing.T) {
	f := newFixture(t)
	f.stake(alice, inj(10))
	_, err := f.engine.Allocate(alice, bob, inj(5))
	require.NoError(t, err)
	f.local.AccrueRewards(validator1, inj(1))

	amounts, err := f.engine.DistributionAmounts(alice, bob)
	require.NoError(t, err)
	require.Equal(t, "454545454545454546", amounts.TruinjAmount.String())
	require.Equal(t, "500000000000000000", amounts.InjAmount.String())
	require.True(t, amounts.DistributionFee.IsZero())

	res, err := f.engine.DistributeRewards(alice, bob, false, sdkmath.ZeroInt())
	require.NoError(t, err)
	require.Equal(t, "454545454545454546", eventAttr(t, res, "distributed_rewards", "shares"))

	bobBalance, err := f.engine.BalanceOf(bob)
	require.NoError(t, err)
	require.Equal(t, "454545454545454546", bobBalance.String())

	// the allocation is reconciled at the current price, so a second pass
	// owes nothing
	amounts, err = f.engine.DistributionAmounts(alice, bob)
	require.NoError(t, err)
	require.True(t, amounts.TruinjAmount.IsZero())
}

func TestDistributeInInj(t *testing.T) {
	f := newFixture(t)
	f.stake(alice, inj(10))
	_, err := f.engine.Allocate(alice, bob, inj(5))
	require.NoError(t, err)
	f.local.AccrueRewards(validator1, inj(1))

	_, err = f.engine.DistributeRewards(alice, bob, true, sdkmath.NewInt(1))
	require.ErrorIs(t, err, staker.ErrInsufficientInjAttached)

	f.local.FundAccount(stakerAddr, inj(1))
	res, err := f.engine.DistributeRewards(alice, bob, true, inj(1))
	require.NoError(t, err)
	require.Equal(t, "500000000000000000", eventAttr(t, res, "distributed_rewards", "inj_amount"))
	require.Equal(t, "true", eventAttr(t, res, "distributed_rewards", "in_inj"))

	bobBank, err := f.local.BankBalance(bob)
	require.NoError(t, err)
	require.Equal(t, "500000000000000000", bobBank.String())

	// the unused half of the attached funds is refunded
	aliceBank, err := f.local.BankBalance(alice)
	require.NoError(t, err)
	require.Equal(t, "500000000000000000", aliceBank.String())

	// bob's TruINJ balance is untouched by an INJ distribution
	bobBalance, err := f.engine.BalanceOf(bob)
	require.NoError(t, err)
	require.True(t, bobBalance.IsZero())
}

func TestDistributeFailedPayoutKeepsAllocation(t *testing.T) {
	f := newFixture(t)
	f.stake(alice, inj(10))
	_, err := f.engine.Allocate(alice, bob, inj(5))
	require.NoError(t, err)
	f.local.AccrueRewards(validator1, inj(10))

	before, err := f.engine.DistributionAmounts(alice, bob)
	require.NoError(t, err)
	require.Equal(t, inj(5).String(), before.InjAmount.String())

	// the attached amount never arrives in the staker bank, so the
	// payout to bob cannot be sent
	_, err = f.engine.DistributeRewards(alice, bob, true, inj(5))
	require.Error(t, err)

	bobBank, err := f.local.BankBalance(bob)
	require.NoError(t, err)
	require.True(t, bobBank.IsZero())

	// the failed send rolls back the reconciliation, leaving the
	// accrued rewards still distributable
	after, err := f.engine.DistributionAmounts(alice, bob)
	require.NoError(t, err)
	require.Equal(t, before.InjAmount.String(), after.InjAmount.String())
}

func TestDistributeFees(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.SetDistributionFee(owner, 1000)
	require.NoError(t, err)

	f.stake(alice, inj(10))
	_, err = f.engine.Allocate(alice, bob, inj(5))
	require.NoError(t, err)
	f.local.AccrueRewards(validator1, inj(1))

	res, err := f.engine.DistributeRewards(alice, bob, false, sdkmath.ZeroInt())
	require.NoError(t, err)
	require.Equal(t, "45454545454545454", eventAttr(t, res, "distributed_rewards", "fees"))
	require.Equal(t, "409090909090909092", eventAttr(t, res, "distributed_rewards", "shares"))

	treasuryBalance, err := f.engine.BalanceOf(treasury)
	require.NoError(t, err)
	require.Equal(t, "45454545454545454", treasuryBalance.String())
}

func TestDistributeAll(t *testing.T) {
	f := newFixture(t)
	carol := "inj1carol"

	f.stake(alice, inj(10))
	_, err := f.engine.Allocate(alice, bob, inj(2))
	require.NoError(t, err)
	_, err = f.engine.Allocate(alice, carol, inj(3))
	require.NoError(t, err)
	f.local.AccrueRewards(validator1, inj(1))

	res, err := f.engine.DistributeAll(alice, false, sdkmath.ZeroInt())
	require.NoError(t, err)
	require.True(t, hasEvent(res, "distributed_all"))

	distributed := 0
	for _, event := range res.Events {
		if event.Type == "distributed_rewards" {
			distributed++
		}
	}
	require.Equal(t, 2, distributed)

	bobBalance, err := f.engine.BalanceOf(bob)
	require.NoError(t, err)
	require.Equal(t, "181818181818181819", bobBalance.String())
	carolBalance, err := f.engine.BalanceOf(carol)
	require.NoError(t, err)
	require.Equal(t, "272727272727272728", carolBalance.String())

	amounts, err := f.engine.DistributionAmounts(alice, "")
	require.NoError(t, err)
	require.True(t, amounts.TruinjAmount.IsZero())
	require.True(t, amounts.InjAmount.IsZero())
}

func TestDistributeErrors(t *testing.T) {
	f := newFixture(t)
	f.stake(alice, inj(10))

	_, err := f.engine.DistributeRewards(alice, bob, false, sdkmath.ZeroInt())
	require.ErrorIs(t, err, staker.ErrNoAllocations)
	_, err = f.engine.DistributeAll(alice, false, sdkmath.ZeroInt())
	require.ErrorIs(t, err, staker.ErrNoAllocations)

	_, err = f.engine.Allocate(alice, bob, inj(5))
	require.NoError(t, err)
	_, err = f.engine.DistributeRewards(alice, "inj1unknown", false, sdkmath.ZeroInt())
	require.ErrorIs(t, err, staker.ErrNoAllocationToRecipient)

	// distributing in TruINJ needs the shares in the allocator's balance
	f.local.AccrueRewards(validator1, inj(1))
	_, err = f.engine.Transfer(alice, "inj1elsewhere", inj(10))
	require.NoError(t, err)
	_, err = f.engine.DistributeRewards(alice, bob, false, sdkmath.ZeroInt())
	require.ErrorIs(t, err, staker.ErrInsufficientTruINJBalance)
}
