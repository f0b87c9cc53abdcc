package app

import (
	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
)

// CommitStore handles loading from a CommitKVStore and maintains the
// cache collecting the writes of the current block.
type CommitStore struct {
	committed remit.CommitKVStore
	deliver   remit.KVCacheWrap
}

// NewCommitStore loads the latest version of the store and sets up the
// deliver cache.
func NewCommitStore(store remit.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	return &CommitStore{
		committed: store,
		deliver:   store.CacheWrap(),
	}, nil
}

// CommitInfo returns the current height and hash
func (cs *CommitStore) CommitInfo() (remit.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit flushes deliver to the underlying store and commits it to disk.
// It then sets up a new deliver cache.
func (cs *CommitStore) Commit() (remit.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return remit.CommitID{}, errors.Wrap(err, "write deliver cache")
	}
	res, err := cs.committed.Commit()
	if err != nil {
		return res, err
	}
	cs.deliver = cs.committed.CacheWrap()
	return res, nil
}

// DeliverStore returns the store holding the state of the current block.
func (cs *CommitStore) DeliverStore() remit.CacheableKVStore {
	return cs.deliver
}

// CheckStore returns a throwaway view of the current block state. Nothing
// written to it is ever persisted.
func (cs *CommitStore) CheckStore() remit.KVCacheWrap {
	return cs.deliver.CacheWrap()
}

// _rm: is a prefix for host internal data
const chainIDKey = "_rm:chainID"

// loadChainID returns the chain id stored if any
func loadChainID(kv remit.ReadOnlyKVStore) (string, error) {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(v), nil
}

// saveChainID stores a chain id in the kv store.
// Returns error if already set, or invalid name
func saveChainID(kv remit.KVStore, chainID string) error {
	if !remit.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	k := []byte(chainIDKey)
	exists, err := kv.Has(k)
	if err != nil {
		return errors.Wrap(err, "load chain id")
	}
	if exists {
		return errors.Wrap(errors.ErrUnauthorized, "can't modify chain id after genesis init")
	}
	if err := kv.Set(k, []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}
