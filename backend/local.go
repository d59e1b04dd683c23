package backend

import (
	"errors"
	"sync"

	sdkmath "cosmossdk.io/math"

	"inj-staker/staker"
)

// Local simulates the staking layer in memory for development and tests.
// Delegation changes settle immediately; the unbonding delay is enforced by
// the claim ledger, not here. Reward withdrawal on delegation changes mirrors
// the chain: any delegate or undelegate sweeps the validator's accrued
// rewards into the delegator's bank balance.
type Local struct {
	mu    sync.Mutex
	addr  string
	set   map[string]bool
	del   map[string]*position
	bank  map[string]sdkmath.Int
}

type position struct {
	staked  sdkmath.Int
	rewards sdkmath.Int
}

func NewLocal(addr string) *Local {
	return &Local{
		addr: addr,
		set:  make(map[string]bool),
		del:  make(map[string]*position),
		bank: make(map[string]sdkmath.Int),
	}
}

// AddValidatorToSet registers a validator in the simulated validator set.
func (l *Local) AddValidatorToSet(validator string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.set[validator] = true
}

// AccrueRewards adds accrued rewards to a validator position.
func (l *Local) AccrueRewards(validator string, amount sdkmath.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pos(validator).rewards = l.pos(validator).rewards.Add(amount)
}

// Slash removes principal from a validator position.
func (l *Local) Slash(validator string, amount sdkmath.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p := l.pos(validator)
	p.staked = p.staked.Sub(amount)
	if p.staked.IsNegative() {
		p.staked = sdkmath.ZeroInt()
	}
}

// FundAccount credits an account's bank balance, standing in for funds
// attached to a call.
func (l *Local) FundAccount(addr string, amount sdkmath.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bank[addr] = l.balance(addr).Add(amount)
}

func (l *Local) IsValidator(addr string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set[addr], nil
}

func (l *Local) Delegation(validator string) (staker.Delegation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p := l.pos(validator)
	return staker.Delegation{Staked: p.staked, Rewards: p.rewards}, nil
}

func (l *Local) BankBalance(addr string) (sdkmath.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance(addr), nil
}

func (l *Local) Delegate(validator string, amount sdkmath.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.set[validator] {
		return errors.New("unknown validator")
	}
	if l.balance(l.addr).LT(amount) {
		return errors.New("insufficient bank balance to delegate")
	}
	l.bank[l.addr] = l.balance(l.addr).Sub(amount)
	l.sweepRewards(validator)
	p := l.pos(validator)
	p.staked = p.staked.Add(amount)
	return nil
}

func (l *Local) Undelegate(validator string, amount sdkmath.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	p := l.pos(validator)
	if p.staked.LT(amount) {
		return errors.New("undelegate exceeds delegation")
	}
	l.sweepRewards(validator)
	p.staked = p.staked.Sub(amount)
	l.bank[l.addr] = l.balance(l.addr).Add(amount)
	return nil
}

func (l *Local) WithdrawRewards(validator string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweepRewards(validator)
	return nil
}

func (l *Local) Send(to string, amount sdkmath.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balance(l.addr).LT(amount) {
		return errors.New("insufficient bank balance to send")
	}
	l.bank[l.addr] = l.balance(l.addr).Sub(amount)
	l.bank[to] = l.balance(to).Add(amount)
	return nil
}

func (l *Local) pos(validator string) *position {
	p, ok := l.del[validator]
	if !ok {
		p = &position{staked: sdkmath.ZeroInt(), rewards: sdkmath.ZeroInt()}
		l.del[validator] = p
	}
	return p
}

func (l *Local) balance(addr string) sdkmath.Int {
	b, ok := l.bank[addr]
	if !ok {
		return sdkmath.ZeroInt()
	}
	return b
}

func (l *Local) sweepRewards(validator string) {
	p := l.pos(validator)
	if p.rewards.IsPositive() {
		l.bank[l.addr] = l.balance(l.addr).Add(p.rewards)
		p.rewards = sdkmath.ZeroInt()
	}
}
