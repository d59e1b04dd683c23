package staker

import (
	"fmt"
	"math/big"

	sdkmath "cosmossdk.io/math"

	"inj-staker/db"
	"inj-staker/types"
)

// DistributeRewards reconciles the caller's allocation to one recipient
// against the current share price, paying the accrued reward delta either in
// INJ (from the attached funds) or in TruINJ. Fees are always paid in TruINJ
// to the treasury.
func (e *Engine) DistributeRewards(sender, recipient string, inInj bool, attached sdkmath.Int) (*Response, error) {
	res := &Response{}
	err := e.run(func(txn *db.Txn, cmds *[]command) error {
		if err := checkNotPaused(txn); err != nil {
			return err
		}
		if err := checkWhitelisted(txn, sender); err != nil {
			return err
		}

		allocations, err := e.allocationsOf(txn, sender)
		if err != nil {
			return err
		}
		if len(allocations) == 0 {
			return ErrNoAllocations
		}

		allocation := &types.Allocation{Allocator: sender, Recipient: recipient}
		found, err := txn.GetRecord(allocation)
		if err != nil {
			return err
		}
		if !found {
			return ErrNoAllocationToRecipient
		}

		price, err := e.sharePrice(txn)
		if err != nil {
			return err
		}
		info, err := getStakerInfo(txn)
		if err != nil {
			return err
		}
		if attached.IsNil() {
			attached = sdkmath.ZeroInt()
		}

		event, refund, distributed, err := e.internalDistribute(txn, cmds, allocation, inInj, price, attached, info)
		if err != nil {
			return err
		}
		if !distributed {
			// nothing owed; return any attached funds untouched
			if attached.IsPositive() {
				refundAmount := attached
				*cmds = append(*cmds, func() error {
					return e.backend.Send(sender, refundAmount)
				})
			}
			return nil
		}

		if refund.IsPositive() {
			refundAmount := refund
			*cmds = append(*cmds, func() error {
				return e.backend.Send(sender, refundAmount)
			})
		}

		totalAllocated, err := e.totalAllocated(txn, sender)
		if err != nil {
			return err
		}
		event.Add("total_allocated_amount", totalAllocated.InjAmount.String()).
			Add("total_allocated_share_price_num", totalAllocated.SharePriceNum.String()).
			Add("total_allocated_share_price_denom", totalAllocated.SharePriceDenom.String())
		res.addEvent(event)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// DistributeAll reconciles every allocation the caller holds against one
// share price snapshot taken at the start, threading the attached INJ
// through the iterations and refunding whatever remains.
func (e *Engine) DistributeAll(sender string, inInj bool, attached sdkmath.Int) (*Response, error) {
	res := &Response{}
	err := e.run(func(txn *db.Txn, cmds *[]command) error {
		if err := checkNotPaused(txn); err != nil {
			return err
		}
		if err := checkWhitelisted(txn, sender); err != nil {
			return err
		}

		allocations, err := e.allocationsOf(txn, sender)
		if err != nil {
			return err
		}
		if len(allocations) == 0 {
			return ErrNoAllocations
		}

		price, err := e.sharePrice(txn)
		if err != nil {
			return err
		}
		info, err := getStakerInfo(txn)
		if err != nil {
			return err
		}

		injAvailable := attached
		if injAvailable.IsNil() {
			injAvailable = sdkmath.ZeroInt()
		}

		var events []*types.Event
		for _, allocation := range allocations {
			event, refund, distributed, err := e.internalDistribute(txn, cmds, allocation, inInj, price, injAvailable, info)
			if err != nil {
				return err
			}
			if distributed {
				events = append(events, event)
				injAvailable = refund
			}
		}

		if injAvailable.IsPositive() {
			refundAmount := injAvailable
			*cmds = append(*cmds, func() error {
				return e.backend.Send(sender, refundAmount)
			})
		}

		totalAllocated, err := e.totalAllocated(txn, sender)
		if err != nil {
			return err
		}
		for _, event := range events {
			event.Add("total_allocated_amount", totalAllocated.InjAmount.String()).
				Add("total_allocated_share_price_num", totalAllocated.SharePriceNum.String()).
				Add("total_allocated_share_price_denom", totalAllocated.SharePriceDenom.String())
			res.addEvent(event)
		}
		res.addEvent(types.NewEvent("distributed_all").Add("user", sender))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// internalDistribute reconciles one allocation. It reports distributed=false
// when the allocation's snapshot price is not below the global price, which
// happens after slashing or when nothing accrued since last reconciliation.
func (e *Engine) internalDistribute(txn *db.Txn, cmds *[]command, allocation *types.Allocation, inInj bool, globalPrice SharePrice, attached sdkmath.Int, info *types.StakerInfo) (*types.Event, sdkmath.Int, bool, error) {
	if !allocationBelowPrice(allocation, globalPrice) {
		return nil, sdkmath.Int{}, false, nil
	}

	assetsToDistribute, sharesToDistribute, fees, err := calculateDistributionAmounts(allocation, globalPrice, info.DistributionFee)
	if err != nil {
		return nil, sdkmath.Int{}, false, err
	}

	distributorBalance, err := e.token.BalanceOf(txn, allocation.Allocator)
	if err != nil {
		return nil, sdkmath.Int{}, false, err
	}

	if inInj {
		if attached.LT(assetsToDistribute) {
			return nil, sdkmath.Int{}, false, ErrInsufficientInjAttached
		}
		if distributorBalance.LT(fees) {
			return nil, sdkmath.Int{}, false, ErrInsufficientTruINJBalance
		}
		recipient := allocation.Recipient
		amount := assetsToDistribute
		*cmds = append(*cmds, func() error {
			return e.backend.Send(recipient, amount)
		})
	} else {
		if distributorBalance.LT(sharesToDistribute.Add(fees)) {
			return nil, sdkmath.Int{}, false, ErrInsufficientTruINJBalance
		}
		if err := e.token.Transfer(txn, allocation.Allocator, allocation.Recipient, sharesToDistribute); err != nil {
			return nil, sdkmath.Int{}, false, err
		}
	}

	if fees.IsPositive() {
		if err := e.token.Transfer(txn, allocation.Allocator, info.Treasury, fees); err != nil {
			return nil, sdkmath.Int{}, false, err
		}
	}

	// mark the allocation reconciled at the current price
	allocation.SharePriceNum = globalPrice.Num
	allocation.SharePriceDenom = globalPrice.Denom
	if err := txn.PutRecord(allocation); err != nil {
		return nil, sdkmath.Int{}, false, err
	}

	refund := attached
	if inInj {
		refund = attached.Sub(assetsToDistribute)
	}

	userBalance, err := e.token.BalanceOf(txn, allocation.Allocator)
	if err != nil {
		return nil, sdkmath.Int{}, false, err
	}
	recipientBalance, err := e.token.BalanceOf(txn, allocation.Recipient)
	if err != nil {
		return nil, sdkmath.Int{}, false, err
	}
	treasuryBalance, err := e.token.BalanceOf(txn, info.Treasury)
	if err != nil {
		return nil, sdkmath.Int{}, false, err
	}

	event := types.NewEvent("distributed_rewards").
		Add("user", allocation.Allocator).
		Add("recipient", allocation.Recipient).
		Add("user_balance", userBalance.String()).
		Add("recipient_balance", recipientBalance.String()).
		Add("treasury_balance", treasuryBalance.String()).
		Add("fees", fees.String()).
		Add("shares", sharesToDistribute.String()).
		Add("inj_amount", assetsToDistribute.String()).
		Add("in_inj", fmt.Sprintf("%t", inInj)).
		Add("share_price_num", globalPrice.Num.String()).
		Add("share_price_denom", globalPrice.Denom.String())

	return event, refund, true, nil
}

// allocationBelowPrice reports whether the allocation's snapshot price is
// strictly below the global price. The comparison uses truncated integer
// division of each rational, matching the reconciliation skip rule.
func allocationBelowPrice(allocation *types.Allocation, globalPrice SharePrice) bool {
	if allocation.SharePriceDenom.IsZero() || globalPrice.Denom.IsZero() {
		return false
	}
	allocRate := new(big.Int).Quo(allocation.SharePriceNum.BigInt(), allocation.SharePriceDenom.BigInt())
	globalRate := new(big.Int).Quo(globalPrice.Num.BigInt(), globalPrice.Denom.BigInt())
	return allocRate.Cmp(globalRate) < 0
}

// calculateDistributionAmounts returns the INJ and TruINJ amounts a
// distribution of the allocation would move, plus the TruINJ fee owed to the
// treasury.
func calculateDistributionAmounts(allocation *types.Allocation, globalPrice SharePrice, distributionFee uint16) (sdkmath.Int, sdkmath.Int, sdkmath.Int, error) {
	scaling := SharePriceScalingFactor.BigInt()
	amount := allocation.InjAmount.BigInt()

	allocDenom := new(big.Int).Mul(allocation.SharePriceDenom.BigInt(), scaling)
	globalDenom := new(big.Int).Mul(globalPrice.Denom.BigInt(), scaling)
	if allocation.SharePriceNum.IsZero() || globalPrice.Num.IsZero() {
		return sdkmath.Int{}, sdkmath.Int{}, sdkmath.Int{}, ErrDivideByZero
	}

	lhs := new(big.Int).Mul(amount, allocDenom)
	lhs.Quo(lhs, allocation.SharePriceNum.BigInt())
	rhs := new(big.Int).Mul(amount, globalDenom)
	rhs.Quo(rhs, globalPrice.Num.BigInt())

	sharesBeforeFees, err := narrowToUint128(lhs.Sub(lhs, rhs))
	if err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, sdkmath.Int{}, err
	}

	fees := sharesBeforeFees.MulRaw(int64(distributionFee)).QuoRaw(int64(FeePrecision))
	sharesToDistribute := sharesBeforeFees.Sub(fees)

	assetsToDistribute, err := ConvertToAssets(sharesToDistribute, globalPrice, false)
	if err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, sdkmath.Int{}, err
	}

	return assetsToDistribute, sharesToDistribute, fees, nil
}
