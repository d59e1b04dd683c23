package service

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"inj-staker/backend"
	"inj-staker/db"
	"inj-staker/staker"
	"inj-staker/token"
)

const (
	stakerAddr = "inj1contract"
	owner      = "inj1owner"
	treasury   = "inj1treasury"
	alice      = "inj1alice"
	validator  = "injvaloper1primary"
)

func newTestService(t *testing.T) (*Service, *backend.Local) {
	tailFix := fmt.Sprintf("service_test_%d", time.Now().UnixNano())
	ldb := db.NewLdb(tailFix)
	t.Cleanup(func() {
		ldb.Close()
		homeDir, err := os.UserHomeDir()
		if err == nil {
			os.RemoveAll(homeDir + "/.inj_staker_" + tailFix)
		}
	})

	local := backend.NewLocal(stakerAddr)
	local.AddValidatorToSet(validator)
	local.FundAccount(stakerAddr, staker.OneInj)

	engine := staker.New(ldb, token.NewLedger(), local, stakerAddr)
	svc := NewService(ldb, engine)

	_, err := svc.engine.Init(owner, treasury, validator, staker.OneInj)
	require.NoError(t, err)
	_, err = svc.AddUserToWhitelist(owner, alice)
	require.NoError(t, err)
	return svc, local
}

func TestEventHistory(t *testing.T) {
	svc, local := newTestService(t)

	local.FundAccount(stakerAddr, staker.OneInj.MulRaw(10))
	res, err := svc.Stake(alice, staker.OneInj.MulRaw(10))
	require.NoError(t, err)
	require.NotEmpty(t, res.Events)

	records, total, err := svc.EventHistory(10, 0, false)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, records, 2)
	// newest first
	require.Equal(t, "deposited", records[0].Type)
	require.Equal(t, "whitelisting_status_changed", records[1].Type)

	found := false
	for _, attr := range records[0].Attributes {
		if attr.Key == "user" && attr.Value == alice {
			found = true
		}
	}
	require.True(t, found)
}

func TestQueriesPassThrough(t *testing.T) {
	svc, local := newTestService(t)

	local.FundAccount(stakerAddr, staker.OneInj.MulRaw(5))
	_, err := svc.Stake(alice, staker.OneInj.MulRaw(5))
	require.NoError(t, err)

	balance, err := svc.BalanceOf(alice)
	require.NoError(t, err)
	require.True(t, balance.Equal(staker.OneInj.MulRaw(5)))

	totalStaked, err := svc.TotalStaked()
	require.NoError(t, err)
	require.True(t, totalStaked.Equal(staker.OneInj.MulRaw(5)))

	info, err := svc.StakerInfo()
	require.NoError(t, err)
	require.Equal(t, owner, info.Owner)
}
