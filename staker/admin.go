package staker

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	"inj-staker/db"
	"inj-staker/types"
)

// SetFee sets the treasury fee charged on rewards, in basis points.
func (e *Engine) SetFee(sender string, newFee uint16) (*Response, error) {
	res := &Response{}
	err := e.run(func(txn *db.Txn, cmds *[]command) error {
		if err := checkOwner(txn, sender); err != nil {
			return err
		}
		if newFee >= FeePrecision {
			return ErrFeeTooLarge
		}
		info, err := getStakerInfo(txn)
		if err != nil {
			return err
		}
		oldFee := info.Fee
		info.Fee = newFee
		if err := txn.PutRecord(info); err != nil {
			return err
		}
		res.addEvent(types.NewEvent("set_fee").
			Add("old_fee", fmt.Sprintf("%d", oldFee)).
			Add("new_fee", fmt.Sprintf("%d", newFee)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// SetDistributionFee sets the fee charged on distributed rewards, in basis points.
func (e *Engine) SetDistributionFee(sender string, newFee uint16) (*Response, error) {
	res := &Response{}
	err := e.run(func(txn *db.Txn, cmds *[]command) error {
		if err := checkOwner(txn, sender); err != nil {
			return err
		}
		if newFee >= FeePrecision {
			return ErrFeeTooLarge
		}
		info, err := getStakerInfo(txn)
		if err != nil {
			return err
		}
		oldFee := info.DistributionFee
		info.DistributionFee = newFee
		if err := txn.PutRecord(info); err != nil {
			return err
		}
		res.addEvent(types.NewEvent("set_distribution_fee").
			Add("old_distribution_fee", fmt.Sprintf("%d", oldFee)).
			Add("new_distribution_fee", fmt.Sprintf("%d", newFee)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// SetMinimumDeposit sets the smallest accepted stake. The floor is 1 INJ.
func (e *Engine) SetMinimumDeposit(sender string, newMinDeposit sdkmath.Int) (*Response, error) {
	res := &Response{}
	err := e.run(func(txn *db.Txn, cmds *[]command) error {
		if err := checkOwner(txn, sender); err != nil {
			return err
		}
		if newMinDeposit.LT(OneInj) {
			return ErrMinimumDepositTooSmall
		}
		info, err := getStakerInfo(txn)
		if err != nil {
			return err
		}
		oldMinDeposit := info.MinDeposit
		info.MinDeposit = newMinDeposit
		if err := txn.PutRecord(info); err != nil {
			return err
		}
		res.addEvent(types.NewEvent("set_min_deposit").
			Add("old_min_deposit", oldMinDeposit.String()).
			Add("new_min_deposit", newMinDeposit.String()))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (e *Engine) SetTreasury(sender, newTreasury string) (*Response, error) {
	res := &Response{}
	err := e.run(func(txn *db.Txn, cmds *[]command) error {
		if err := checkOwner(txn, sender); err != nil {
			return err
		}
		info, err := getStakerInfo(txn)
		if err != nil {
			return err
		}
		oldTreasury := info.Treasury
		info.Treasury = newTreasury
		if err := txn.PutRecord(info); err != nil {
			return err
		}
		res.addEvent(types.NewEvent("set_treasury").
			Add("new_treasury_addr", newTreasury).
			Add("old_treasury_addr", oldTreasury))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// SetDefaultValidator points the default at another validator, which must be
// registered and enabled.
func (e *Engine) SetDefaultValidator(sender, validator string) (*Response, error) {
	res := &Response{}
	err := e.run(func(txn *db.Txn, cmds *[]command) error {
		if err := checkOwner(txn, sender); err != nil {
			return err
		}
		if err := checkValidator(txn, validator); err != nil {
			return err
		}
		oldValidator, err := getDefaultValidator(txn)
		if err != nil {
			return err
		}
		if err := txn.PutRecord(&types.DefaultValidator{Addr: validator}); err != nil {
			return err
		}
		res.addEvent(types.NewEvent("set_default_validator").
			Add("new_default_validator_addr", validator).
			Add("old_default_validator_addr", oldValidator))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// SetPendingOwner proposes a new owner. The pending owner has no privileges
// until they claim ownership.
func (e *Engine) SetPendingOwner(sender, newOwner string) (*Response, error) {
	res := &Response{}
	err := e.run(func(txn *db.Txn, cmds *[]command) error {
		if err := checkOwner(txn, sender); err != nil {
			return err
		}
		if err := txn.PutRecord(&types.PendingOwner{Addr: newOwner}); err != nil {
			return err
		}
		res.addEvent(types.NewEvent("set_pending_owner").
			Add("current_owner", sender).
			Add("pending_owner", newOwner))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (e *Engine) ClaimOwnership(sender string) (*Response, error) {
	res := &Response{}
	err := e.run(func(txn *db.Txn, cmds *[]command) error {
		pending := &types.PendingOwner{}
		found, err := txn.GetRecord(pending)
		if err != nil {
			return err
		}
		if !found {
			return ErrNoPendingOwnerSet
		}
		if sender != pending.Addr {
			return ErrNotPendingOwner
		}
		oldOwner, err := getOwner(txn)
		if err != nil {
			return err
		}
		if err := txn.PutRecord(&types.Owner{Addr: sender}); err != nil {
			return err
		}
		if err := txn.DeleteRecord(pending); err != nil {
			return err
		}
		res.addEvent(types.NewEvent("claimed_ownership").
			Add("new_owner", sender).
			Add("old_owner", oldOwner))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// AddValidator registers a new validator that can be staked to.
func (e *Engine) AddValidator(sender, validator string) (*Response, error) {
	res := &Response{}
	err := e.run(func(txn *db.Txn, cmds *[]command) error {
		if err := checkOwner(txn, sender); err != nil {
			return err
		}
		exists, err := hasValidator(txn, validator)
		if err != nil {
			return err
		}
		if exists {
			return ErrValidatorAlreadyExists
		}
		ok, err := e.backend.IsValidator(validator)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotInValidatorSet
		}
		if err := txn.PutRecord(&types.Validator{Addr: validator, State: types.ValidatorEnabled}); err != nil {
			return err
		}
		res.addEvent(types.NewEvent("validator_added").
			Add("validator_address", validator))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (e *Engine) EnableValidator(sender, validator string) (*Response, error) {
	res := &Response{}
	err := e.run(func(txn *db.Txn, cmds *[]command) error {
		if err := checkOwner(txn, sender); err != nil {
			return err
		}
		record := &types.Validator{Addr: validator}
		found, err := txn.GetRecord(record)
		if err != nil {
			return err
		}
		if !found {
			return ErrValidatorDoesNotExist
		}
		if record.State == types.ValidatorEnabled {
			return ErrValidatorAlreadyEnabled
		}
		record.State = types.ValidatorEnabled
		if err := txn.PutRecord(record); err != nil {
			return err
		}
		res.addEvent(types.NewEvent("validator_enabled").
			Add("validator_address", validator))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// DisableValidator stops new stake going to the validator. Existing stake can
// still be unstaked and withdrawn as normal.
func (e *Engine) DisableValidator(sender, validator string) (*Response, error) {
	res := &Response{}
	err := e.run(func(txn *db.Txn, cmds *[]command) error {
		if err := checkOwner(txn, sender); err != nil {
			return err
		}
		record := &types.Validator{Addr: validator}
		found, err := txn.GetRecord(record)
		if err != nil {
			return err
		}
		if !found {
			return ErrValidatorDoesNotExist
		}
		if record.State == types.ValidatorDisabled {
			return ErrValidatorAlreadyDisabled
		}
		record.State = types.ValidatorDisabled
		if err := txn.PutRecord(record); err != nil {
			return err
		}
		res.addEvent(types.NewEvent("validator_disabled").
			Add("validator_address", validator))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Pause blocks user operations until Unpause.
func (e *Engine) Pause(sender string) (*Response, error) {
	res := &Response{}
	err := e.run(func(txn *db.Txn, cmds *[]command) error {
		if err := checkOwner(txn, sender); err != nil {
			return err
		}
		if err := checkNotPaused(txn); err != nil {
			return err
		}
		if err := txn.PutRecord(&types.Paused{Value: true}); err != nil {
			return err
		}
		res.addEvent(types.NewEvent("paused"))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (e *Engine) Unpause(sender string) (*Response, error) {
	res := &Response{}
	err := e.run(func(txn *db.Txn, cmds *[]command) error {
		if err := checkOwner(txn, sender); err != nil {
			return err
		}
		paused := &types.Paused{}
		if _, err := txn.GetRecord(paused); err != nil {
			return err
		}
		if !paused.Value {
			return ErrNotPaused
		}
		if err := txn.PutRecord(&types.Paused{Value: false}); err != nil {
			return err
		}
		res.addEvent(types.NewEvent("unpaused"))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
