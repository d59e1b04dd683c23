package db

import (
	"fmt"
	"os"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"inj-staker/types"
)

func newTestLdb(t *testing.T) *LDB {
	tailFix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	ldb := NewLdb(tailFix)
	t.Cleanup(func() {
		ldb.Close()
		homeDir, err := os.UserHomeDir()
		if err == nil {
			os.RemoveAll(homeDir + "/." + dbName + tailFix)
		}
	})
	return ldb
}

func TestRecordRoundTrip(t *testing.T) {
	ldb := newTestLdb(t)

	stored := &types.Validator{
		Addr:  "injvaloper1xyz",
		State: types.ValidatorEnabled,
	}
	err := ldb.Transaction(func(txn *Txn) error {
		return txn.PutRecord(stored)
	})
	require.NoError(t, err)

	loaded := &types.Validator{Addr: "injvaloper1xyz"}
	found, err := ldb.GetRecord(loaded)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, types.ValidatorEnabled, loaded.State)

	missing := &types.Validator{Addr: "injvaloper1missing"}
	found, err = ldb.GetRecord(missing)
	require.NoError(t, err)
	require.False(t, found)
}

func TestTransactionRollback(t *testing.T) {
	ldb := newTestLdb(t)

	err := ldb.Transaction(func(txn *Txn) error {
		if err := txn.PutRecord(&types.Owner{Addr: "inj1owner"}); err != nil {
			return err
		}
		return fmt.Errorf("boom")
	})
	require.Error(t, err)

	found, err := ldb.GetRecord(&types.Owner{})
	require.NoError(t, err)
	require.False(t, found)
}

func TestStoreRecordWithAutoId(t *testing.T) {
	ldb := newTestLdb(t)

	for i := 0; i < 3; i++ {
		claim := &types.Claim{
			User:      "inj1user",
			Amount:    sdkmath.NewInt(int64(i + 1)),
			ReleaseAt: time.Now().Unix(),
		}
		err := ldb.Transaction(func(txn *Txn) error {
			return txn.StoreRecordWithAutoId(claim)
		})
		require.NoError(t, err)
		require.Equal(t, uint64(i+1), claim.ID)
	}
}

func TestGetAllRecordsWithAutoId(t *testing.T) {
	ldb := newTestLdb(t)

	err := ldb.Transaction(func(txn *Txn) error {
		for i := 0; i < 5; i++ {
			record := &types.EventRecord{
				Type: fmt.Sprintf("event_%d", i),
				Time: time.Now(),
			}
			if err := txn.StoreRecordWithAutoId(record); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	recordsIFace, total, err := ldb.GetAllRecordsWithAutoId(&types.EventRecord{}, 2, 0, true)
	require.NoError(t, err)
	require.Equal(t, 5, total)
	require.Len(t, recordsIFace, 2)
	first, ok := recordsIFace[0].(*types.EventRecord)
	require.True(t, ok)
	require.Equal(t, "event_0", first.Type)

	recordsIFace, total, err = ldb.GetAllRecordsWithAutoId(&types.EventRecord{}, 2, 1, false)
	require.NoError(t, err)
	require.Equal(t, 5, total)
	require.Len(t, recordsIFace, 2)
	first, ok = recordsIFace[0].(*types.EventRecord)
	require.True(t, ok)
	require.Equal(t, "event_3", first.Type)
}

func TestIteratePrefix(t *testing.T) {
	ldb := newTestLdb(t)

	err := ldb.Transaction(func(txn *Txn) error {
		for _, recipient := range []string{"inj1aaa", "inj1bbb"} {
			allocation := &types.Allocation{
				Allocator: "inj1allocator",
				Recipient: recipient,
				InjAmount: sdkmath.NewInt(1),
			}
			if err := txn.PutRecord(allocation); err != nil {
				return err
			}
		}
		return txn.PutRecord(&types.Allocation{
			Allocator: "inj1other",
			Recipient: "inj1ccc",
			InjAmount: sdkmath.NewInt(1),
		})
	})
	require.NoError(t, err)

	count := 0
	err = ldb.IteratePrefix(types.AllocationPrefix("inj1allocator"), func(key string, value []byte) error {
		count++
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, count)
}
