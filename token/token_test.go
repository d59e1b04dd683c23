package token

import (
	"fmt"
	"os"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"inj-staker/db"
)

func newTestLdb(t *testing.T) *db.LDB {
	tailFix := fmt.Sprintf("token_test_%d", time.Now().UnixNano())
	ldb := db.NewLdb(tailFix)
	t.Cleanup(func() {
		ldb.Close()
		homeDir, err := os.UserHomeDir()
		if err == nil {
			os.RemoveAll(homeDir + "/.inj_staker_" + tailFix)
		}
	})
	return ldb
}

func TestInitIsIdempotent(t *testing.T) {
	ldb := newTestLdb(t)
	lg := NewLedger()

	err := ldb.Transaction(func(txn *db.Txn) error {
		if err := lg.Init(txn); err != nil {
			return err
		}
		if err := lg.Mint(txn, "inj1alice", sdkmath.NewInt(7)); err != nil {
			return err
		}
		return lg.Init(txn)
	})
	require.NoError(t, err)

	info, err := lg.GetInfo(ldb)
	require.NoError(t, err)
	require.Equal(t, Name, info.Name)
	require.Equal(t, Symbol, info.Symbol)
	require.Equal(t, uint8(Decimals), info.Decimals)
	// the second Init must not reset the supply
	require.True(t, info.TotalSupply.Equal(sdkmath.NewInt(7)))
}

func TestMintBurnTransfer(t *testing.T) {
	ldb := newTestLdb(t)
	lg := NewLedger()

	err := ldb.Transaction(func(txn *db.Txn) error {
		if err := lg.Init(txn); err != nil {
			return err
		}
		if err := lg.Mint(txn, "inj1alice", sdkmath.NewInt(100)); err != nil {
			return err
		}
		if err := lg.Transfer(txn, "inj1alice", "inj1bob", sdkmath.NewInt(40)); err != nil {
			return err
		}
		return lg.Burn(txn, "inj1alice", sdkmath.NewInt(10))
	})
	require.NoError(t, err)

	supply, err := lg.TotalSupply(ldb)
	require.NoError(t, err)
	require.True(t, supply.Equal(sdkmath.NewInt(90)))

	aliceBalance, err := lg.BalanceOf(ldb, "inj1alice")
	require.NoError(t, err)
	require.True(t, aliceBalance.Equal(sdkmath.NewInt(50)))

	bobBalance, err := lg.BalanceOf(ldb, "inj1bob")
	require.NoError(t, err)
	require.True(t, bobBalance.Equal(sdkmath.NewInt(40)))
}

func TestInsufficientBalance(t *testing.T) {
	ldb := newTestLdb(t)
	lg := NewLedger()

	err := ldb.Transaction(func(txn *db.Txn) error {
		if err := lg.Init(txn); err != nil {
			return err
		}
		return lg.Mint(txn, "inj1alice", sdkmath.NewInt(5))
	})
	require.NoError(t, err)

	err = ldb.Transaction(func(txn *db.Txn) error {
		return lg.Transfer(txn, "inj1alice", "inj1bob", sdkmath.NewInt(6))
	})
	require.ErrorIs(t, err, ErrInsufficientBalance)

	err = ldb.Transaction(func(txn *db.Txn) error {
		return lg.Burn(txn, "inj1alice", sdkmath.NewInt(6))
	})
	require.ErrorIs(t, err, ErrInsufficientBalance)

	// the failed transaction left balances untouched
	aliceBalance, err := lg.BalanceOf(ldb, "inj1alice")
	require.NoError(t, err)
	require.True(t, aliceBalance.Equal(sdkmath.NewInt(5)))
}
