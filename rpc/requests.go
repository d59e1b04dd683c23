package rpc

import (
	"context"

	sdkmath "cosmossdk.io/math"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	distributionTypes "github.com/cosmos/cosmos-sdk/x/distribution/types"
	stakingTypes "github.com/cosmos/cosmos-sdk/x/staking/types"

	probeClient "github.com/DefiantLabs/probe/client"
	probeQuery "github.com/DefiantLabs/probe/query"
	"github.com/cosmos/cosmos-sdk/types/query"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// isNotFound reports whether a query failed because the record does not
// exist, as opposed to a transport or node error.
func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// AllValidator returns the operator addresses of every validator known to the
// chain, following pagination.
func AllValidator(cl *probeClient.ChainClient) ([]string, error) {
	client := stakingTypes.NewQueryClient(cl)
	res, err := client.Validators(context.Background(), &stakingTypes.QueryValidatorsRequest{})
	if err != nil {
		return nil, err
	}
	validators := []string{}
	for _, v := range res.Validators {
		validators = append(validators, v.OperatorAddress)
	}
	for uint64(len(validators)) < res.Pagination.Total {
		key := res.Pagination.NextKey
		res, err = client.Validators(context.Background(), &stakingTypes.QueryValidatorsRequest{
			Pagination: &query.PageRequest{
				Key: key,
			},
		})
		if err != nil {
			return nil, err
		}
		for _, v := range res.Validators {
			validators = append(validators, v.OperatorAddress)
		}
	}
	return validators, nil
}

// GetDelegation returns the principal a delegator has on a validator, or zero
// when no delegation exists.
func GetDelegation(cl *probeClient.ChainClient, delegator, validator, denom string) (sdkmath.Int, error) {
	client := stakingTypes.NewQueryClient(cl)
	res, err := client.Delegation(context.Background(), &stakingTypes.QueryDelegationRequest{
		DelegatorAddr: delegator,
		ValidatorAddr: validator,
	})
	if err != nil {
		if isNotFound(err) {
			return sdkmath.ZeroInt(), nil
		}
		return sdkmath.Int{}, err
	}
	balance := res.DelegationResponse.Balance
	if balance.Denom != denom {
		return sdkmath.ZeroInt(), nil
	}
	return balance.Amount, nil
}

// GetDelegationRewards returns the accrued, not yet withdrawn rewards a
// delegator has on a validator.
func GetDelegationRewards(cl *probeClient.ChainClient, delegator, validator, denom string) (sdkmath.Int, error) {
	client := distributionTypes.NewQueryClient(cl)
	res, err := client.DelegationRewards(context.Background(), &distributionTypes.QueryDelegationRewardsRequest{
		DelegatorAddress: delegator,
		ValidatorAddress: validator,
	})
	if err != nil {
		if isNotFound(err) {
			return sdkmath.ZeroInt(), nil
		}
		return sdkmath.Int{}, err
	}
	coins, _ := res.Rewards.TruncateDecimal()
	return coins.AmountOfNoDenomValidation(denom), nil
}

// GetBankBalance returns an account's balance in the given denom.
func GetBankBalance(cl *probeClient.ChainClient, addr, denom string) (sdkmath.Int, error) {
	client := banktypes.NewQueryClient(cl)
	res, err := client.Balance(context.Background(), &banktypes.QueryBalanceRequest{
		Address: addr,
		Denom:   denom,
	})
	if err != nil {
		return sdkmath.Int{}, err
	}
	return res.Balance.Amount, nil
}

// IsCatchingUp true if the node is catching up to the chain, false otherwise
func IsCatchingUp(cl *probeClient.ChainClient) (bool, error) {
	query := probeQuery.Query{Client: cl, Options: &probeQuery.QueryOptions{}}
	ctx, cancel := query.GetQueryContext()
	defer cancel()

	resStatus, err := query.Client.RPCClient.Status(ctx)
	if err != nil {
		return false, err
	}
	return resStatus.SyncInfo.CatchingUp, nil
}

func GetLatestBlockHeight(cl *probeClient.ChainClient) (int64, error) {
	query := probeQuery.Query{Client: cl, Options: &probeQuery.QueryOptions{}}
	ctx, cancel := query.GetQueryContext()
	defer cancel()

	resStatus, err := query.Client.RPCClient.Status(ctx)
	if err != nil {
		return 0, err
	}
	return resStatus.SyncInfo.LatestBlockHeight, nil
}
