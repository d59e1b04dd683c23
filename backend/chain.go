package backend

import (
	"context"
	"errors"

	sdkmath "cosmossdk.io/math"
	probeClient "github.com/DefiantLabs/probe/client"
	sdk "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	distributionTypes "github.com/cosmos/cosmos-sdk/x/distribution/types"
	stakingTypes "github.com/cosmos/cosmos-sdk/x/staking/types"

	"inj-staker/rpc"
	"inj-staker/staker"
)

var ErrNoBroadcaster = errors.New("no broadcaster configured")

// Broadcaster signs and broadcasts messages on behalf of the staker account.
type Broadcaster interface {
	Broadcast(ctx context.Context, msgs []sdk.Msg) error
}

// Chain backs the ledger with a live Cosmos chain: reads go through gRPC
// query clients, commands are handed to the Broadcaster. A nil Broadcaster
// gives a read-only backend.
type Chain struct {
	cl          *probeClient.ChainClient
	addr        string
	denom       string
	broadcaster Broadcaster
}

func NewChain(cl *probeClient.ChainClient, addr, denom string, broadcaster Broadcaster) *Chain {
	return &Chain{
		cl:          cl,
		addr:        addr,
		denom:       denom,
		broadcaster: broadcaster,
	}
}

func (c *Chain) IsValidator(addr string) (bool, error) {
	validators, err := rpc.AllValidator(c.cl)
	if err != nil {
		return false, err
	}
	for _, v := range validators {
		if v == addr {
			return true, nil
		}
	}
	return false, nil
}

func (c *Chain) Delegation(validator string) (staker.Delegation, error) {
	staked, err := rpc.GetDelegation(c.cl, c.addr, validator, c.denom)
	if err != nil {
		return staker.Delegation{}, err
	}
	rewards, err := rpc.GetDelegationRewards(c.cl, c.addr, validator, c.denom)
	if err != nil {
		return staker.Delegation{}, err
	}
	return staker.Delegation{Staked: staked, Rewards: rewards}, nil
}

func (c *Chain) BankBalance(addr string) (sdkmath.Int, error) {
	return rpc.GetBankBalance(c.cl, addr, c.denom)
}

func (c *Chain) Delegate(validator string, amount sdkmath.Int) error {
	return c.broadcast(&stakingTypes.MsgDelegate{
		DelegatorAddress: c.addr,
		ValidatorAddress: validator,
		Amount:           sdk.NewCoin(c.denom, amount),
	})
}

func (c *Chain) Undelegate(validator string, amount sdkmath.Int) error {
	return c.broadcast(&stakingTypes.MsgUndelegate{
		DelegatorAddress: c.addr,
		ValidatorAddress: validator,
		Amount:           sdk.NewCoin(c.denom, amount),
	})
}

func (c *Chain) WithdrawRewards(validator string) error {
	return c.broadcast(&distributionTypes.MsgWithdrawDelegatorReward{
		DelegatorAddress: c.addr,
		ValidatorAddress: validator,
	})
}

func (c *Chain) Send(to string, amount sdkmath.Int) error {
	return c.broadcast(&banktypes.MsgSend{
		FromAddress: c.addr,
		ToAddress:   to,
		Amount:      sdk.NewCoins(sdk.NewCoin(c.denom, amount)),
	})
}

func (c *Chain) broadcast(msgs ...sdk.Msg) error {
	if c.broadcaster == nil {
		return ErrNoBroadcaster
	}
	return c.broadcaster.Broadcast(context.Background(), msgs)
}
