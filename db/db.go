package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"reflect"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"inj-staker/logger"
	"inj-staker/types"
)

const dbName = "inj_staker_"

type LDB struct {
	DB   *leveldb.DB
	lock sync.RWMutex
}

func NewLdb(tailFix string) *LDB {
	l := &LDB{}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatal(err)
	}
	db, err := leveldb.OpenFile(homeDir+"/."+dbName+tailFix, nil)
	if err != nil {
		panic(err)
	}
	l.DB = db
	return l
}

func (l *LDB) Close() error {
	return l.DB.Close()
}

// Store is the read surface shared by the database and an open transaction,
// so query helpers work in both contexts.
type Store interface {
	GetRecord(record types.DbRecord) (bool, error)
	IteratePrefix(prefix string, fn func(key string, value []byte) error) error
}

// reader is satisfied by both *leveldb.DB and *leveldb.Transaction.
type reader interface {
	Get(key []byte, ro *opt.ReadOptions) ([]byte, error)
	NewIterator(slice *util.Range, ro *opt.ReadOptions) iterator.Iterator
}

// Txn is a read-your-writes transaction. All state transitions go through
// Transaction so a failed step leaves nothing behind.
type Txn struct {
	tr *leveldb.Transaction
}

func (l *LDB) Transaction(fc func(txn *Txn) error) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	tr, err := l.DB.OpenTransaction()
	if err != nil {
		return err
	}
	if err := fc(&Txn{tr: tr}); err != nil {
		tr.Discard()
		return err
	}
	return tr.Commit()
}

func getRecord(r reader, record types.DbRecord) (bool, error) {
	data, err := r.Get([]byte(record.Key()), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, record); err != nil {
		return false, fmt.Errorf("failed to unmarshal record %s: %v", record.Key(), err)
	}
	return true, nil
}

func iteratePrefix(r reader, prefix string, fn func(key string, value []byte) error) error {
	iter := r.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	defer iter.Release()
	for iter.Next() {
		if err := fn(string(iter.Key()), iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}

func (l *LDB) GetRecord(record types.DbRecord) (bool, error) {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return getRecord(l.DB, record)
}

func (l *LDB) IteratePrefix(prefix string, fn func(key string, value []byte) error) error {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return iteratePrefix(l.DB, prefix, fn)
}

func (t *Txn) GetRecord(record types.DbRecord) (bool, error) {
	return getRecord(t.tr, record)
}

func (t *Txn) IteratePrefix(prefix string, fn func(key string, value []byte) error) error {
	return iteratePrefix(t.tr, prefix, fn)
}

func (t *Txn) PutRecord(record types.DbRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return t.tr.Put([]byte(record.Key()), data, nil)
}

func (t *Txn) DeleteRecord(record types.DbRecord) error {
	return t.tr.Delete([]byte(record.Key()), nil)
}

func (t *Txn) StoreRecordWithAutoId(record types.DbRecordAutoId) error {
	nextID, err := t.nextID(record.Prefix())
	if err != nil {
		return err
	}
	record.SetId(nextID)

	if err := t.PutRecord(record); err != nil {
		return err
	}

	return t.tr.Put([]byte(autoIncrementKey(record.Prefix())), Uint64ToBytes(nextID), nil)
}

func (t *Txn) nextID(recordType string) (uint64, error) {
	data, err := t.tr.Get([]byte(autoIncrementKey(recordType)), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return 1, nil
		}
		return 0, err
	}
	return BytesToUint64(data) + 1, nil
}

func autoIncrementKey(recordType string) string {
	return fmt.Sprintf("auto_increment_%s", recordType)
}

func (l *LDB) GetAllRecordsWithAutoId(record types.DbRecordAutoId, limit, offset int, ascending bool) ([]interface{}, int, error) {
	if limit <= 0 {
		return nil, 0, fmt.Errorf("limit must be greater than 0")
	}
	if offset < 0 {
		return nil, 0, fmt.Errorf("offset cannot be negative")
	}

	prefix := []byte(record.Prefix())

	l.lock.RLock()
	defer l.lock.RUnlock()

	iter := l.DB.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	total := 0
	for iter.Next() {
		total++
	}
	if err := iter.Error(); err != nil {
		logger.Logger.Errorf("iterator error during total count: %v", err)
		return nil, 0, err
	}
	iter.Release()

	iter = l.DB.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()
	advance := iter.Next
	if !ascending {
		advance = iter.Prev
		iter.Last()
		for i := 0; i < offset && iter.Valid(); i++ {
			iter.Prev()
		}
	} else {
		iter.First()
		for i := 0; i < offset && iter.Valid(); i++ {
			iter.Next()
		}
	}

	var records []interface{}
	for iter.Valid() && len(records) < limit {
		recordPtr := reflect.New(reflect.TypeOf(record).Elem()).Interface()
		if err := json.Unmarshal(iter.Value(), recordPtr); err != nil {
			return nil, 0, fmt.Errorf("failed to unmarshal record: %v", err)
		}
		records = append(records, recordPtr)
		advance()
	}

	if err := iter.Error(); err != nil {
		logger.Logger.Errorf("iterator error: %v", err)
		return nil, 0, err
	}
	return records, total, nil
}
