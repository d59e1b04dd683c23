package service

import (
	"time"

	sdkmath "cosmossdk.io/math"

	"inj-staker/db"
	"inj-staker/logger"
	"inj-staker/staker"
	"inj-staker/types"
)

// IService is the dispatcher surface consumed by the HTTP controller and the
// cron jobs: one entry per ledger operation plus the read-only queries.
type IService interface {
	Stake(sender string, attached sdkmath.Int) (*staker.Response, error)
	StakeToSpecificValidator(sender, validator string, attached sdkmath.Int) (*staker.Response, error)
	Unstake(sender string, amount sdkmath.Int) (*staker.Response, error)
	UnstakeFromSpecificValidator(sender, validator string, amount sdkmath.Int) (*staker.Response, error)
	Claim(sender string) (*staker.Response, error)
	Transfer(sender, recipient string, amount sdkmath.Int) (*staker.Response, error)
	Allocate(sender, recipient string, amount sdkmath.Int) (*staker.Response, error)
	Deallocate(sender, recipient string, amount sdkmath.Int) (*staker.Response, error)
	DistributeRewards(sender, recipient string, inInj bool, attached sdkmath.Int) (*staker.Response, error)
	DistributeAll(sender string, inInj bool, attached sdkmath.Int) (*staker.Response, error)
	CompoundRewards() (*staker.Response, error)

	SetFee(sender string, newFee uint16) (*staker.Response, error)
	SetDistributionFee(sender string, newFee uint16) (*staker.Response, error)
	SetMinimumDeposit(sender string, newMinDeposit sdkmath.Int) (*staker.Response, error)
	SetTreasury(sender, newTreasury string) (*staker.Response, error)
	SetDefaultValidator(sender, validator string) (*staker.Response, error)
	SetPendingOwner(sender, newOwner string) (*staker.Response, error)
	ClaimOwnership(sender string) (*staker.Response, error)
	AddValidator(sender, validator string) (*staker.Response, error)
	EnableValidator(sender, validator string) (*staker.Response, error)
	DisableValidator(sender, validator string) (*staker.Response, error)
	Pause(sender string) (*staker.Response, error)
	Unpause(sender string) (*staker.Response, error)
	AddAgent(sender, agent string) (*staker.Response, error)
	RemoveAgent(sender, agent string) (*staker.Response, error)
	AddUserToWhitelist(sender, user string) (*staker.Response, error)
	AddUserToBlacklist(sender, user string) (*staker.Response, error)
	ClearUserStatus(sender, user string) (*staker.Response, error)

	StakerInfo() (*staker.StakerInfoView, error)
	Validators() ([]staker.ValidatorView, error)
	SharePrice() (staker.SharePrice, error)
	TotalSupply() (sdkmath.Int, error)
	BalanceOf(addr string) (sdkmath.Int, error)
	TotalStaked() (sdkmath.Int, error)
	TotalRewards() (sdkmath.Int, error)
	TotalAssets() (sdkmath.Int, error)
	MaxWithdraw(user string) (sdkmath.Int, error)
	ClaimableAmount(user string) (sdkmath.Int, error)
	ClaimableAssets(user string) ([]*types.Claim, error)
	Allocations(user string) ([]*types.Allocation, error)
	TotalAllocated(user string) (*types.Allocation, error)
	DistributionAmounts(distributor, recipient string) (*staker.DistributionAmounts, error)
	IsAgent(addr string) (bool, error)
	IsOwner(addr string) (bool, error)
	UserStatus(user string) (types.UserStatus, error)
	EventHistory(limit, offset int, asc bool) ([]*types.EventRecord, int, error)
}

type Service struct {
	ldb    *db.LDB
	engine *staker.Engine
}

func NewService(ldb *db.LDB, engine *staker.Engine) *Service {
	return &Service{ldb: ldb, engine: engine}
}

// record appends the operation's events to the persisted history. History is
// best effort and does not fail the operation that produced it.
func (s *Service) record(res *staker.Response, err error) (*staker.Response, error) {
	if err != nil || res == nil {
		return res, err
	}
	storeErr := s.ldb.Transaction(func(txn *db.Txn) error {
		for _, event := range res.Events {
			record := &types.EventRecord{
				Type:       event.Type,
				Attributes: event.Attributes,
				Time:       time.Now(),
			}
			if err := txn.StoreRecordWithAutoId(record); err != nil {
				return err
			}
		}
		return nil
	})
	if storeErr != nil {
		logger.Logger.Errorf("store event history: %v", storeErr)
	}
	return res, nil
}

func (s *Service) Stake(sender string, attached sdkmath.Int) (*staker.Response, error) {
	return s.record(s.engine.Stake(sender, attached))
}

func (s *Service) StakeToSpecificValidator(sender, validator string, attached sdkmath.Int) (*staker.Response, error) {
	return s.record(s.engine.StakeToSpecificValidator(sender, validator, attached))
}

func (s *Service) Unstake(sender string, amount sdkmath.Int) (*staker.Response, error) {
	return s.record(s.engine.Unstake(sender, amount))
}

func (s *Service) UnstakeFromSpecificValidator(sender, validator string, amount sdkmath.Int) (*staker.Response, error) {
	return s.record(s.engine.UnstakeFromSpecificValidator(sender, validator, amount))
}

func (s *Service) Claim(sender string) (*staker.Response, error) {
	return s.record(s.engine.Claim(sender))
}

func (s *Service) Transfer(sender, recipient string, amount sdkmath.Int) (*staker.Response, error) {
	return s.record(s.engine.Transfer(sender, recipient, amount))
}

func (s *Service) Allocate(sender, recipient string, amount sdkmath.Int) (*staker.Response, error) {
	return s.record(s.engine.Allocate(sender, recipient, amount))
}

func (s *Service) Deallocate(sender, recipient string, amount sdkmath.Int) (*staker.Response, error) {
	return s.record(s.engine.Deallocate(sender, recipient, amount))
}

func (s *Service) DistributeRewards(sender, recipient string, inInj bool, attached sdkmath.Int) (*staker.Response, error) {
	return s.record(s.engine.DistributeRewards(sender, recipient, inInj, attached))
}

func (s *Service) DistributeAll(sender string, inInj bool, attached sdkmath.Int) (*staker.Response, error) {
	return s.record(s.engine.DistributeAll(sender, inInj, attached))
}

func (s *Service) CompoundRewards() (*staker.Response, error) {
	return s.record(s.engine.CompoundRewards())
}

func (s *Service) SetFee(sender string, newFee uint16) (*staker.Response, error) {
	return s.record(s.engine.SetFee(sender, newFee))
}

func (s *Service) SetDistributionFee(sender string, newFee uint16) (*staker.Response, error) {
	return s.record(s.engine.SetDistributionFee(sender, newFee))
}

func (s *Service) SetMinimumDeposit(sender string, newMinDeposit sdkmath.Int) (*staker.Response, error) {
	return s.record(s.engine.SetMinimumDeposit(sender, newMinDeposit))
}

func (s *Service) SetTreasury(sender, newTreasury string) (*staker.Response, error) {
	return s.record(s.engine.SetTreasury(sender, newTreasury))
}

func (s *Service) SetDefaultValidator(sender, validator string) (*staker.Response, error) {
	return s.record(s.engine.SetDefaultValidator(sender, validator))
}

func (s *Service) SetPendingOwner(sender, newOwner string) (*staker.Response, error) {
	return s.record(s.engine.SetPendingOwner(sender, newOwner))
}

func (s *Service) ClaimOwnership(sender string) (*staker.Response, error) {
	return s.record(s.engine.ClaimOwnership(sender))
}

func (s *Service) AddValidator(sender, validator string) (*staker.Response, error) {
	return s.record(s.engine.AddValidator(sender, validator))
}

func (s *Service) EnableValidator(sender, validator string) (*staker.Response, error) {
	return s.record(s.engine.EnableValidator(sender, validator))
}

func (s *Service) DisableValidator(sender, validator string) (*staker.Response, error) {
	return s.record(s.engine.DisableValidator(sender, validator))
}

func (s *Service) Pause(sender string) (*staker.Response, error) {
	return s.record(s.engine.Pause(sender))
}

func (s *Service) Unpause(sender string) (*staker.Response, error) {
	return s.record(s.engine.Unpause(sender))
}

func (s *Service) AddAgent(sender, agent string) (*staker.Response, error) {
	return s.record(s.engine.AddAgent(sender, agent))
}

func (s *Service) RemoveAgent(sender, agent string) (*staker.Response, error) {
	return s.record(s.engine.RemoveAgent(sender, agent))
}

func (s *Service) AddUserToWhitelist(sender, user string) (*staker.Response, error) {
	return s.record(s.engine.AddUserToWhitelist(sender, user))
}

func (s *Service) AddUserToBlacklist(sender, user string) (*staker.Response, error) {
	return s.record(s.engine.AddUserToBlacklist(sender, user))
}

func (s *Service) ClearUserStatus(sender, user string) (*staker.Response, error) {
	return s.record(s.engine.ClearUserStatus(sender, user))
}

func (s *Service) StakerInfo() (*staker.StakerInfoView, error) {
	return s.engine.StakerInfo()
}

func (s *Service) Validators() ([]staker.ValidatorView, error) {
	return s.engine.Validators()
}

func (s *Service) SharePrice() (staker.SharePrice, error) {
	return s.engine.SharePrice()
}

func (s *Service) TotalSupply() (sdkmath.Int, error) {
	return s.engine.TotalSupply()
}

func (s *Service) BalanceOf(addr string) (sdkmath.Int, error) {
	return s.engine.BalanceOf(addr)
}

func (s *Service) TotalStaked() (sdkmath.Int, error) {
	return s.engine.TotalStaked()
}

func (s *Service) TotalRewards() (sdkmath.Int, error) {
	return s.engine.TotalRewards()
}

func (s *Service) TotalAssets() (sdkmath.Int, error) {
	return s.engine.TotalAssets()
}

func (s *Service) MaxWithdraw(user string) (sdkmath.Int, error) {
	return s.engine.MaxWithdraw(user)
}

func (s *Service) ClaimableAmount(user string) (sdkmath.Int, error) {
	return s.engine.ClaimableAmount(user)
}

func (s *Service) ClaimableAssets(user string) ([]*types.Claim, error) {
	return s.engine.ClaimableAssets(user)
}

func (s *Service) Allocations(user string) ([]*types.Allocation, error) {
	return s.engine.Allocations(user)
}

func (s *Service) TotalAllocated(user string) (*types.Allocation, error) {
	return s.engine.TotalAllocated(user)
}

func (s *Service) DistributionAmounts(distributor, recipient string) (*staker.DistributionAmounts, error) {
	return s.engine.DistributionAmounts(distributor, recipient)
}

func (s *Service) IsAgent(addr string) (bool, error) {
	return s.engine.IsAgent(addr)
}

func (s *Service) IsOwner(addr string) (bool, error) {
	return s.engine.IsOwner(addr)
}

func (s *Service) UserStatus(user string) (types.UserStatus, error) {
	return s.engine.UserStatus(user)
}

func (s *Service) EventHistory(limit, offset int, asc bool) ([]*types.EventRecord, int, error) {
	recordsIFace, total, err := s.ldb.GetAllRecordsWithAutoId(&types.EventRecord{}, limit, offset, asc)
	records := []*types.EventRecord{}
	if err != nil {
		return nil, total, err
	}
	for _, record := range recordsIFace {
		if eventRecord, ok := record.(*types.EventRecord); ok {
			records = append(records, eventRecord)
		}
	}
	return records, total, nil
}
