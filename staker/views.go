package staker

import (
	sdkmath "cosmossdk.io/math"

	"inj-staker/types"
)

// StakerInfoView mirrors the GetStakerInfo query payload.
type StakerInfoView struct {
	Owner            string      `json:"owner"`
	DefaultValidator string      `json:"default_validator"`
	Treasury         string      `json:"treasury"`
	Fee              uint16      `json:"fee"`
	DistributionFee  uint16      `json:"distribution_fee"`
	MinDeposit       sdkmath.Int `json:"min_deposit"`
	IsPaused         bool        `json:"is_paused"`
}

func (e *Engine) StakerInfo() (*StakerInfoView, error) {
	info, err := getStakerInfo(e.ldb)
	if err != nil {
		return nil, err
	}
	owner, err := getOwner(e.ldb)
	if err != nil {
		return nil, err
	}
	defaultValidator, err := getDefaultValidator(e.ldb)
	if err != nil {
		return nil, err
	}
	paused := &types.Paused{}
	if _, err := e.ldb.GetRecord(paused); err != nil {
		return nil, err
	}
	return &StakerInfoView{
		Owner:            owner,
		DefaultValidator: defaultValidator,
		Treasury:         info.Treasury,
		Fee:              info.Fee,
		DistributionFee:  info.DistributionFee,
		MinDeposit:       info.MinDeposit,
		IsPaused:         paused.Value,
	}, nil
}

type ValidatorView struct {
	Addr        string      `json:"addr"`
	TotalStaked sdkmath.Int `json:"total_staked"`
	State       string      `json:"state"`
}

func (e *Engine) Validators() ([]ValidatorView, error) {
	var views []ValidatorView
	err := e.forEachValidator(e.ldb, func(v *types.Validator) error {
		delegation, err := e.backend.Delegation(v.Addr)
		if err != nil {
			return err
		}
		views = append(views, ValidatorView{
			Addr:        v.Addr,
			TotalStaked: delegation.Staked,
			State:       v.State.String(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (e *Engine) TotalSupply() (sdkmath.Int, error) {
	return e.token.TotalSupply(e.ldb)
}

func (e *Engine) BalanceOf(addr string) (sdkmath.Int, error) {
	return e.token.BalanceOf(e.ldb, addr)
}

func (e *Engine) TotalStaked() (sdkmath.Int, error) {
	staked, _, err := e.totalStakedAndRewards(e.ldb)
	return staked, err
}

func (e *Engine) TotalRewards() (sdkmath.Int, error) {
	_, rewards, err := e.totalStakedAndRewards(e.ldb)
	return rewards, err
}

// TotalAssets is the INJ held by the staker account.
func (e *Engine) TotalAssets() (sdkmath.Int, error) {
	return e.backend.BankBalance(e.addr)
}

func (e *Engine) SharePrice() (SharePrice, error) {
	return e.sharePrice(e.ldb)
}

// MaxWithdraw is the most a user can unstake, rounded up so the user is
// never short-changed by truncation.
func (e *Engine) MaxWithdraw(user string) (sdkmath.Int, error) {
	shares, err := e.token.BalanceOf(e.ldb, user)
	if err != nil {
		return sdkmath.Int{}, err
	}
	price, err := e.sharePrice(e.ldb)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return ConvertToAssets(shares, price, true)
}

// ClaimableAssets lists the user's outstanding claims, matured or not.
func (e *Engine) ClaimableAssets(user string) ([]*types.Claim, error) {
	var claims []*types.Claim
	err := e.ldb.IteratePrefix((&types.Claim{User: user}).Prefix(), func(key string, value []byte) error {
		claim := &types.Claim{}
		if err := unmarshalRecord(value, claim); err != nil {
			return err
		}
		claims = append(claims, claim)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// ClaimableAmount sums the user's matured claims.
func (e *Engine) ClaimableAmount(user string) (sdkmath.Int, error) {
	claims, err := e.ClaimableAssets(user)
	if err != nil {
		return sdkmath.Int{}, err
	}
	now := e.now().Unix()
	total := sdkmath.ZeroInt()
	for _, claim := range claims {
		if claim.ReleaseAt <= now {
			total = total.Add(claim.Amount)
		}
	}
	return total, nil
}

func (e *Engine) Allocations(allocator string) ([]*types.Allocation, error) {
	return e.allocationsOf(e.ldb, allocator)
}

// TotalAllocated reports the allocator's combined allocation and its weighted
// average share price.
func (e *Engine) TotalAllocated(allocator string) (*types.Allocation, error) {
	return e.totalAllocated(e.ldb, allocator)
}

// DistributionAmounts reports the INJ, TruINJ and fee amounts a distributor
// needs to cover a distribution to one recipient, or to all recipients when
// recipient is empty.
type DistributionAmounts struct {
	InjAmount       sdkmath.Int `json:"inj_amount"`
	TruinjAmount    sdkmath.Int `json:"truinj_amount"`
	DistributionFee sdkmath.Int `json:"distribution_fee"`
}

func (e *Engine) DistributionAmounts(distributor, recipient string) (*DistributionAmounts, error) {
	price, err := e.sharePrice(e.ldb)
	if err != nil {
		return nil, err
	}
	info, err := getStakerInfo(e.ldb)
	if err != nil {
		return nil, err
	}

	var allocations []*types.Allocation
	if recipient != "" {
		allocation := &types.Allocation{Allocator: distributor, Recipient: recipient}
		found, err := e.ldb.GetRecord(allocation)
		if err != nil {
			return nil, err
		}
		if found {
			allocations = append(allocations, allocation)
		}
	} else {
		allocations, err = e.allocationsOf(e.ldb, distributor)
		if err != nil {
			return nil, err
		}
	}

	totals := &DistributionAmounts{
		InjAmount:       sdkmath.ZeroInt(),
		TruinjAmount:    sdkmath.ZeroInt(),
		DistributionFee: sdkmath.ZeroInt(),
	}
	for _, allocation := range allocations {
		if !allocationBelowPrice(allocation, price) {
			continue
		}
		assets, shares, fees, err := calculateDistributionAmounts(allocation, price, info.DistributionFee)
		if err != nil {
			return nil, err
		}
		totals.InjAmount = totals.InjAmount.Add(assets)
		totals.TruinjAmount = totals.TruinjAmount.Add(shares)
		totals.DistributionFee = totals.DistributionFee.Add(fees)
	}
	return totals, nil
}

func (e *Engine) IsAgent(addr string) (bool, error) {
	return isAgent(e.ldb, addr)
}

func (e *Engine) IsOwner(addr string) (bool, error) {
	owner, err := getOwner(e.ldb)
	if err != nil {
		return false, err
	}
	return addr == owner, nil
}

func (e *Engine) UserStatus(user string) (types.UserStatus, error) {
	return getUserStatus(e.ldb, user)
}

func (e *Engine) IsWhitelisted(user string) (bool, error) {
	status, err := getUserStatus(e.ldb, user)
	return status == types.Whitelisted, err
}

func (e *Engine) IsBlacklisted(user string) (bool, error) {
	status, err := getUserStatus(e.ldb, user)
	return status == types.Blacklisted, err
}

// Initialized reports whether Init has run.
func (e *Engine) Initialized() (bool, error) {
	return e.ldb.GetRecord(&types.Owner{})
}
