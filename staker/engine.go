package staker

import (
	"encoding/json"
	"time"

	sdkmath "cosmossdk.io/math"

	"inj-staker/db"
	"inj-staker/token"
	"inj-staker/types"
)

// Engine is the liquid-staking ledger. Every state-changing operation runs
// inside one store transaction; backend commands queued by the operation
// execute after its state writes, still inside the transaction, so a failed
// command takes every write down with it.
type Engine struct {
	ldb     *db.LDB
	token   *token.Ledger
	backend Backend
	addr    string
	now     func() time.Time
}

func New(ldb *db.LDB, tok *token.Ledger, backend Backend, addr string) *Engine {
	return &Engine{
		ldb:     ldb,
		token:   tok,
		backend: backend,
		addr:    addr,
		now:     time.Now,
	}
}

// Addr returns the staker account address.
func (e *Engine) Addr() string {
	return e.addr
}

// Response carries the events emitted by one operation.
type Response struct {
	Events []*types.Event
}

func (r *Response) addEvent(ev *types.Event) {
	r.Events = append(r.Events, ev)
}

type command func() error

// run executes fc in a transaction and then dispatches the backend commands
// fc queued, in order, before the transaction commits. A command error
// discards the transaction, so no operation ever leaves half its state
// behind. The store's write lock is held across both phases.
func (e *Engine) run(fc func(txn *db.Txn, cmds *[]command) error) error {
	return e.ldb.Transaction(func(txn *db.Txn) error {
		var cmds []command
		if err := fc(txn, &cmds); err != nil {
			return err
		}
		for _, cmd := range cmds {
			if err := cmd(); err != nil {
				return err
			}
		}
		return nil
	})
}

// Init sets up the ledger. The attached reserve makes up for rounding errors
// when unbonding and must be positive.
func (e *Engine) Init(owner, treasury, defaultValidator string, attached sdkmath.Int) (*Response, error) {
	res := &Response{}
	err := e.run(func(txn *db.Txn, cmds *[]command) error {
		if found, err := txn.GetRecord(&types.Owner{}); err != nil {
			return err
		} else if found {
			return ErrAlreadyInitialized
		}

		ok, err := e.backend.IsValidator(defaultValidator)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotInValidatorSet
		}

		if attached.IsNil() || !attached.IsPositive() {
			return ErrNoFundsAttached
		}

		if err := txn.PutRecord(&types.StakerInfo{
			Treasury:        treasury,
			Fee:             0,
			DistributionFee: 0,
			MinDeposit:      OneInj,
		}); err != nil {
			return err
		}
		if err := txn.PutRecord(&types.Owner{Addr: owner}); err != nil {
			return err
		}
		if err := txn.PutRecord(&types.DefaultValidator{Addr: defaultValidator}); err != nil {
			return err
		}
		if err := txn.PutRecord(&types.Paused{Value: false}); err != nil {
			return err
		}
		if err := txn.PutRecord(&types.ContractRewards{Amount: sdkmath.ZeroInt()}); err != nil {
			return err
		}
		if err := e.token.Init(txn); err != nil {
			return err
		}
		if err := txn.PutRecord(&types.Validator{Addr: defaultValidator, State: types.ValidatorEnabled}); err != nil {
			return err
		}

		res.addEvent(types.NewEvent("instantiated").
			Add("owner", owner).
			Add("default_validator", defaultValidator).
			Add("treasury", treasury).
			Add("token_name", token.Name))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Transfer moves TruINJ between accounts through the token ledger.
func (e *Engine) Transfer(sender, recipient string, amount sdkmath.Int) (*Response, error) {
	res := &Response{}
	err := e.run(func(txn *db.Txn, cmds *[]command) error {
		if err := e.token.Transfer(txn, sender, recipient, amount); err != nil {
			if err == token.ErrInsufficientBalance {
				return ErrInsufficientTruINJBalance
			}
			return err
		}
		res.addEvent(types.NewEvent("transfer").
			Add("from", sender).
			Add("to", recipient).
			Add("amount", amount.String()))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func getStakerInfo(s db.Store) (*types.StakerInfo, error) {
	info := &types.StakerInfo{}
	found, err := s.GetRecord(info)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotInitialized
	}
	return info, nil
}

func getOwner(s db.Store) (string, error) {
	owner := &types.Owner{}
	found, err := s.GetRecord(owner)
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrNotInitialized
	}
	return owner.Addr, nil
}

func getDefaultValidator(s db.Store) (string, error) {
	dv := &types.DefaultValidator{}
	found, err := s.GetRecord(dv)
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrNotInitialized
	}
	return dv.Addr, nil
}

func getContractRewards(s db.Store) (sdkmath.Int, error) {
	cr := &types.ContractRewards{}
	found, err := s.GetRecord(cr)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if !found {
		return sdkmath.ZeroInt(), nil
	}
	return cr.Amount, nil
}

func checkOwner(s db.Store, sender string) error {
	owner, err := getOwner(s)
	if err != nil {
		return err
	}
	if sender != owner {
		return ErrOnlyOwner
	}
	return nil
}

func checkNotPaused(s db.Store) error {
	paused := &types.Paused{}
	if _, err := s.GetRecord(paused); err != nil {
		return err
	}
	if paused.Value {
		return ErrContractPaused
	}
	return nil
}

// checkValidator ensures the validator is registered and enabled.
func checkValidator(s db.Store, addr string) error {
	validator := &types.Validator{Addr: addr}
	found, err := s.GetRecord(validator)
	if err != nil {
		return err
	}
	if !found {
		return ErrValidatorDoesNotExist
	}
	if validator.State != types.ValidatorEnabled {
		return ErrValidatorNotEnabled
	}
	return nil
}

func hasValidator(s db.Store, addr string) (bool, error) {
	return s.GetRecord(&types.Validator{Addr: addr})
}

// totalStakedAndRewards sums delegated principal and accrued rewards across
// all registered validators.
func (e *Engine) totalStakedAndRewards(s db.Store) (sdkmath.Int, sdkmath.Int, error) {
	totalStaked := sdkmath.ZeroInt()
	totalRewards := sdkmath.ZeroInt()

	err := e.forEachValidator(s, func(v *types.Validator) error {
		delegation, err := e.backend.Delegation(v.Addr)
		if err != nil {
			return err
		}
		totalStaked = totalStaked.Add(delegation.Staked)
		totalRewards = totalRewards.Add(delegation.Rewards)
		return nil
	})
	if err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}
	return totalStaked, totalRewards, nil
}

func (e *Engine) forEachValidator(s db.Store, fn func(v *types.Validator) error) error {
	return s.IteratePrefix(types.ValidatorPrefix(), func(key string, value []byte) error {
		validator := &types.Validator{}
		if err := unmarshalRecord(value, validator); err != nil {
			return err
		}
		return fn(validator)
	})
}

// sharePrice computes the current global share price within the store view s.
func (e *Engine) sharePrice(s db.Store) (SharePrice, error) {
	totalStaked, totalRewards, err := e.totalStakedAndRewards(s)
	if err != nil {
		return SharePrice{}, err
	}
	contractRewards, err := getContractRewards(s)
	if err != nil {
		return SharePrice{}, err
	}
	supply, err := e.token.TotalSupply(s)
	if err != nil {
		return SharePrice{}, err
	}
	info, err := getStakerInfo(s)
	if err != nil {
		return SharePrice{}, err
	}
	return ComputeSharePrice(totalStaked, contractRewards, totalRewards, supply, info.Fee), nil
}

func unmarshalRecord(data []byte, record types.DbRecord) error {
	return json.Unmarshal(data, record)
}

// mintTreasuryFees mints the treasury's TruINJ cut of the given rewards at
// the supplied share price.
func (e *Engine) mintTreasuryFees(txn *db.Txn, rewards sdkmath.Int, fee uint16, treasury string, price SharePrice) (sdkmath.Int, error) {
	if fee == 0 || rewards.IsZero() {
		return sdkmath.ZeroInt(), nil
	}
	fees := rewards.MulRaw(int64(fee)).QuoRaw(int64(FeePrecision))
	treasuryShares, err := ConvertToShares(fees, price)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if err := e.token.Mint(txn, treasury, treasuryShares); err != nil {
		return sdkmath.Int{}, err
	}
	return treasuryShares, nil
}
