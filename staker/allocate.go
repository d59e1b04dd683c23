package staker

import (
	"math/big"

	sdkmath "cosmossdk.io/math"

	"inj-staker/db"
	"inj-staker/types"
)

// Allocate sets aside amount INJ whose future rewards go to the recipient.
// Topping up an existing allocation merges the two tranches into one record
// whose price snapshot preserves each tranche's share-equivalent at its own
// historical price.
func (e *Engine) Allocate(sender, recipient string, amount sdkmath.Int) (*Response, error) {
	res := &Response{}
	err := e.run(func(txn *db.Txn, cmds *[]command) error {
		if err := checkNotPaused(txn); err != nil {
			return err
		}
		if err := checkWhitelisted(txn, sender); err != nil {
			return err
		}
		if recipient == sender {
			return ErrInvalidRecipient
		}
		if amount.IsNil() || amount.LT(OneInj) {
			return ErrAllocationUnderOneInj
		}

		price, err := e.sharePrice(txn)
		if err != nil {
			return err
		}

		allocation := &types.Allocation{Allocator: sender, Recipient: recipient}
		found, err := txn.GetRecord(allocation)
		if err != nil {
			return err
		}
		if !found {
			allocation.InjAmount = amount
			allocation.SharePriceNum = price.Num
			allocation.SharePriceDenom = price.Denom
		} else {
			allocation, err = calculateUpdatedAllocation(allocation, amount, price)
			if err != nil {
				return err
			}
		}
		if err := txn.PutRecord(allocation); err != nil {
			return err
		}

		totalAllocated, err := e.totalAllocated(txn, sender)
		if err != nil {
			return err
		}

		res.addEvent(types.NewEvent("allocated").
			Add("user", sender).
			Add("recipient", recipient).
			Add("amount", amount.String()).
			Add("total_amount", allocation.InjAmount.String()).
			Add("share_price_num", allocation.SharePriceNum.String()).
			Add("share_price_denom", allocation.SharePriceDenom.String()).
			Add("total_allocated_amount", totalAllocated.InjAmount.String()).
			Add("total_allocated_share_price_num", totalAllocated.SharePriceNum.String()).
			Add("total_allocated_share_price_denom", totalAllocated.SharePriceDenom.String()))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Deallocate reduces an allocation. Reducing to exactly zero deletes the
// record; a nonzero remainder below 1 INJ is rejected. The price snapshot is
// left untouched.
func (e *Engine) Deallocate(sender, recipient string, amount sdkmath.Int) (*Response, error) {
	res := &Response{}
	err := e.run(func(txn *db.Txn, cmds *[]command) error {
		if err := checkNotPaused(txn); err != nil {
			return err
		}
		if err := checkWhitelisted(txn, sender); err != nil {
			return err
		}

		allocation := &types.Allocation{Allocator: sender, Recipient: recipient}
		found, err := txn.GetRecord(allocation)
		if err != nil {
			return err
		}
		if !found {
			return ErrNoAllocationToRecipient
		}
		if amount.GT(allocation.InjAmount) {
			return ErrExcessiveDeallocation
		}

		remaining := allocation.InjAmount.Sub(amount)
		if remaining.IsZero() {
			if err := txn.DeleteRecord(allocation); err != nil {
				return err
			}
		} else {
			if remaining.LT(OneInj) {
				return ErrAllocationUnderOneInj
			}
			allocation.InjAmount = remaining
			if err := txn.PutRecord(allocation); err != nil {
				return err
			}
		}

		totalAllocated, err := e.totalAllocated(txn, sender)
		if err != nil {
			return err
		}

		res.addEvent(types.NewEvent("deallocated").
			Add("user", sender).
			Add("recipient", recipient).
			Add("amount", amount.String()).
			Add("total_amount", remaining.String()).
			Add("share_price_num", allocation.SharePriceNum.String()).
			Add("share_price_denom", allocation.SharePriceDenom.String()).
			Add("total_allocated_amount", totalAllocated.InjAmount.String()).
			Add("total_allocated_share_price_num", totalAllocated.SharePriceNum.String()).
			Add("total_allocated_share_price_denom", totalAllocated.SharePriceDenom.String()))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// calculateUpdatedAllocation merges a new tranche into an existing
// allocation. The merged denominator is the sum of each tranche's
// share-equivalent at its own price, so distribution math later recovers the
// combined owed shares exactly.
func calculateUpdatedAllocation(existing *types.Allocation, amount sdkmath.Int, price SharePrice) (*types.Allocation, error) {
	if existing.SharePriceNum.IsZero() || price.Num.IsZero() {
		return nil, ErrDivideByZero
	}

	mulLhs := new(big.Int).Mul(existing.InjAmount.BigInt(), SharePriceScalingFactor.BigInt())
	mulLhs.Mul(mulLhs, existing.SharePriceDenom.BigInt())
	denomLhs, err := narrowToUint256(mulLhs.Quo(mulLhs, existing.SharePriceNum.BigInt()))
	if err != nil {
		return nil, err
	}

	mulRhs := new(big.Int).Mul(amount.BigInt(), SharePriceScalingFactor.BigInt())
	mulRhs.Mul(mulRhs, price.Denom.BigInt())
	denomRhs, err := narrowToUint256(mulRhs.Quo(mulRhs, price.Num.BigInt()))
	if err != nil {
		return nil, err
	}

	newAmount := existing.InjAmount.Add(amount)
	newNum := new(big.Int).Mul(newAmount.BigInt(), SharePriceScalingFactor.BigInt())
	num, err := narrowToUint256(newNum)
	if err != nil {
		return nil, err
	}

	return &types.Allocation{
		Allocator:       existing.Allocator,
		Recipient:       existing.Recipient,
		InjAmount:       newAmount,
		SharePriceNum:   num,
		SharePriceDenom: denomLhs.Add(denomRhs),
	}, nil
}

// allocationsOf returns every allocation the allocator holds, in recipient order.
func (e *Engine) allocationsOf(s db.Store, allocator string) ([]*types.Allocation, error) {
	var allocations []*types.Allocation
	err := s.IteratePrefix(types.AllocationPrefix(allocator), func(key string, value []byte) error {
		allocation := &types.Allocation{}
		if err := unmarshalRecord(value, allocation); err != nil {
			return err
		}
		allocations = append(allocations, allocation)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return allocations, nil
}

// totalAllocated folds all of the allocator's allocations into one merged
// record carrying the weighted average price. An allocator with no
// allocations yields a zero record.
func (e *Engine) totalAllocated(s db.Store, allocator string) (*types.Allocation, error) {
	allocations, err := e.allocationsOf(s, allocator)
	if err != nil {
		return nil, err
	}
	if len(allocations) == 0 {
		return &types.Allocation{
			Allocator:       allocator,
			InjAmount:       sdkmath.ZeroInt(),
			SharePriceNum:   sdkmath.ZeroInt(),
			SharePriceDenom: sdkmath.ZeroInt(),
		}, nil
	}

	total := allocations[0]
	for _, allocation := range allocations[1:] {
		total, err = calculateUpdatedAllocation(total, allocation.InjAmount, SharePrice{
			Num:   allocation.SharePriceNum,
			Denom: allocation.SharePriceDenom,
		})
		if err != nil {
			return nil, err
		}
	}
	return total, nil
}
