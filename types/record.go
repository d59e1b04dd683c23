package types

// DbRecord is implemented by every persisted record. Key returns the unique
// leveldb key of the record.
type DbRecord interface {
	Key() string
}

// DbRecordAutoId is a record whose key embeds a store-assigned sequence
// number, used for claims and event history rows.
type DbRecordAutoId interface {
	DbRecord
	Prefix() string
	SetId(uint64)
}
