package store

import (
	"github.com/iov-one/remit"
)

// Aliases so the store implementations read naturally.
type (
	ReadOnlyKVStore  = remit.ReadOnlyKVStore
	KVStore          = remit.KVStore
	Batch            = remit.Batch
	Iterator         = remit.Iterator
	SetDeleter       = remit.SetDeleter
	CacheableKVStore = remit.CacheableKVStore
	KVCacheWrap      = remit.KVCacheWrap
	CommitKVStore    = remit.CommitKVStore
	CommitID         = remit.CommitID
)
