package iavl

import (
	"testing"

	"github.com/iov-one/remit/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tendermint/libs/db"
)

func makeBase() (store.CacheableKVStore, func()) {
	commit := NewCommitStore(dbm.NewMemDB())
	return store.BTreeCacheable{KVStore: treeAdapter{commit.tree}}, func() {}
}

func TestCacheGetSet(t *testing.T) {
	store.NewTestSuite(makeBase).GetSet(t)
}

func TestCacheConflicts(t *testing.T) {
	store.NewTestSuite(makeBase).CacheConflicts(t)
}

func TestCacheIteratorWithConflicts(t *testing.T) {
	store.NewTestSuite(makeBase).IteratorWithConflicts(t)
}

func TestCommitVisibility(t *testing.T) {
	db := dbm.NewMemDB()
	s := NewCommitStore(db)
	require.NoError(t, s.LoadLatestVersion())

	k, v := []byte("escrow"), []byte("locked")
	cache := s.CacheWrap()
	require.NoError(t, cache.Set(k, v))
	require.NoError(t, cache.Write())

	got, err := s.Get(k)
	require.NoError(t, err)
	assert.Nil(t, got, "uncommitted data must not be visible")

	id, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)
	assert.NotEmpty(t, id.Hash)

	got, err = s.Get(k)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	// reopen from the same database
	reopened := NewCommitStore(db)
	require.NoError(t, reopened.LoadLatestVersion())
	latest, err := reopened.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, id, latest)
	got, err = reopened.Get(k)
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestDiscardedCacheLeavesTreeUntouched(t *testing.T) {
	s := NewCommitStore(dbm.NewMemDB())
	first := s.CacheWrap()
	require.NoError(t, first.Set([]byte("a"), []byte("1")))
	require.NoError(t, first.Write())
	before, err := s.Commit()
	require.NoError(t, err)

	second := s.CacheWrap()
	require.NoError(t, second.Set([]byte("b"), []byte("2")))
	second.Discard()
	after, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, before.Hash, after.Hash)
	assert.Equal(t, before.Version+1, after.Version)
}

func TestOpenDB(t *testing.T) {
	db, err := OpenDB("memdb", "", "state")
	require.NoError(t, err)
	require.NotNil(t, db)

	_, err = OpenDB("no-such-backend", "", "state")
	assert.Error(t, err)
}
