package token

import (
	"errors"
	"fmt"

	sdkmath "cosmossdk.io/math"

	"inj-staker/db"
)

var ErrInsufficientBalance = errors.New("insufficient TruINJ balance")

const (
	Name     = "TruINJ"
	Symbol   = "TRUINJ"
	Decimals = 18
)

// Info is the persisted token metadata and running supply.
type Info struct {
	Name        string
	Symbol      string
	Decimals    uint8
	TotalSupply sdkmath.Int
}

func (i *Info) Key() string {
	return "TokenInfo"
}

type Balance struct {
	Addr   string
	Amount sdkmath.Int
}

func (b *Balance) Key() string {
	return fmt.Sprintf("Balance_%s", b.Addr)
}

// Ledger is the receipt token book. Mint, burn and transfer run inside the
// caller's transaction so token moves commit together with staking state.
type Ledger struct{}

func NewLedger() *Ledger {
	return &Ledger{}
}

func (lg *Ledger) Init(txn *db.Txn) error {
	info := &Info{}
	found, err := txn.GetRecord(info)
	if err != nil {
		return err
	}
	if found {
		return nil
	}
	info.Name = Name
	info.Symbol = Symbol
	info.Decimals = Decimals
	info.TotalSupply = sdkmath.ZeroInt()
	return txn.PutRecord(info)
}

func (lg *Ledger) GetInfo(s db.Store) (*Info, error) {
	info := &Info{}
	found, err := s.GetRecord(info)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("token not initialised")
	}
	return info, nil
}

func (lg *Ledger) TotalSupply(s db.Store) (sdkmath.Int, error) {
	info, err := lg.GetInfo(s)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return info.TotalSupply, nil
}

func (lg *Ledger) BalanceOf(s db.Store, addr string) (sdkmath.Int, error) {
	bal := &Balance{Addr: addr}
	found, err := s.GetRecord(bal)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if !found {
		return sdkmath.ZeroInt(), nil
	}
	return bal.Amount, nil
}

func (lg *Ledger) Mint(txn *db.Txn, to string, amount sdkmath.Int) error {
	if amount.IsZero() {
		return nil
	}
	info, err := lg.GetInfo(txn)
	if err != nil {
		return err
	}
	info.TotalSupply = info.TotalSupply.Add(amount)
	if err := txn.PutRecord(info); err != nil {
		return err
	}
	return lg.credit(txn, to, amount)
}

func (lg *Ledger) Burn(txn *db.Txn, from string, amount sdkmath.Int) error {
	if amount.IsZero() {
		return nil
	}
	info, err := lg.GetInfo(txn)
	if err != nil {
		return err
	}
	if err := lg.debit(txn, from, amount); err != nil {
		return err
	}
	info.TotalSupply = info.TotalSupply.Sub(amount)
	return txn.PutRecord(info)
}

func (lg *Ledger) Transfer(txn *db.Txn, from, to string, amount sdkmath.Int) error {
	if err := lg.debit(txn, from, amount); err != nil {
		return err
	}
	return lg.credit(txn, to, amount)
}

func (lg *Ledger) credit(txn *db.Txn, addr string, amount sdkmath.Int) error {
	bal, err := lg.BalanceOf(txn, addr)
	if err != nil {
		return err
	}
	return txn.PutRecord(&Balance{Addr: addr, Amount: bal.Add(amount)})
}

func (lg *Ledger) debit(txn *db.Txn, addr string, amount sdkmath.Int) error {
	bal, err := lg.BalanceOf(txn, addr)
	if err != nil {
		return err
	}
	if bal.LT(amount) {
		return ErrInsufficientBalance
	}
	return txn.PutRecord(&Balance{Addr: addr, Amount: bal.Sub(amount)})
}
