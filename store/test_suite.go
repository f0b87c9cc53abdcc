package store

import (
	"bytes"
	"crypto/rand"
	"sort"
	"testing"

	"github.com/iov-one/remit"
	"github.com/stretchr/testify/require"
)

// TestSuite runs generic KVStore checks against any CacheableKVStore
// implementation, so that the in-memory and the persistent stores are
// held to the same behaviour.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh store and a cleanup function.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{makeBase: constructor}
}

// GetSet checks that cached writes are only visible after Write.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	k, v := []byte("french"), []byte("fry")
	s.AssertGetHas(t, base, k, nil, false)
	require.NoError(t, base.Set(k, v))
	s.AssertGetHas(t, base, k, v, true)

	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, k, v, true)

	k2, v2 := []byte("LA"), []byte("Dodgers")
	require.NoError(t, cache.Set(k2, v2))
	s.AssertGetHas(t, cache, k2, v2, true)
	s.AssertGetHas(t, base, k2, nil, false)

	require.NoError(t, cache.Write())
	s.AssertGetHas(t, base, k2, v2, true)

	k3, v3 := []byte("Bayern"), []byte("Munich")
	discarded := base.CacheWrap()
	require.NoError(t, discarded.Set(k3, v3))
	require.NoError(t, discarded.Delete(k))
	s.AssertGetHas(t, discarded, k, nil, false)
	discarded.Discard()
	s.AssertGetHas(t, base, k, v, true)
	s.AssertGetHas(t, base, k3, nil, false)

	written := base.CacheWrap()
	require.NoError(t, written.Delete(k))
	require.NoError(t, written.Write())
	s.AssertGetHas(t, base, k, nil, false)
	s.AssertGetHas(t, base, k2, v2, true)
}

// CacheConflicts checks that nested caches shadow their parents and that
// the last write wins.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	k, v, v2 := []byte("key"), []byte("one"), []byte("two")
	require.NoError(t, base.Set(k, v))

	outer := base.CacheWrap()
	require.NoError(t, outer.Set(k, v2))
	inner := outer.CacheWrap()
	require.NoError(t, inner.Delete(k))
	s.AssertGetHas(t, inner, k, nil, false)
	s.AssertGetHas(t, outer, k, v2, true)
	s.AssertGetHas(t, base, k, v, true)

	require.NoError(t, inner.Write())
	s.AssertGetHas(t, outer, k, nil, false)
	require.NoError(t, outer.Set(k, v))
	require.NoError(t, outer.Write())
	s.AssertGetHas(t, base, k, v, true)
}

// IteratorWithConflicts checks iteration over data split between a base
// store and a cache with overrides and deletions.
func (s *TestSuite) IteratorWithConflicts(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	models := randModels(20, 8, 10)
	for _, m := range models[:12] {
		require.NoError(t, base.Set(m.Key, m.Value))
	}
	cache := base.CacheWrap()
	for _, m := range models[12:] {
		require.NoError(t, cache.Set(m.Key, m.Value))
	}
	deleted := models[3]
	require.NoError(t, cache.Delete(deleted.Key))
	override := remit.Pair(models[5].Key, []byte("override"))
	require.NoError(t, cache.Set(override.Key, override.Value))

	var want []remit.Model
	for i, m := range models {
		switch i {
		case 3:
		case 5:
			want = append(want, override)
		default:
			want = append(want, m)
		}
	}
	want = sortModels(want)

	it, err := cache.Iterator(nil, nil)
	require.NoError(t, err)
	verifyIterator(t, want, it)

	it, err = cache.ReverseIterator(nil, nil)
	require.NoError(t, err)
	verifyIterator(t, reverse(want), it)

	start, end := want[2].Key, want[9].Key
	it, err = cache.Iterator(start, end)
	require.NoError(t, err)
	verifyIterator(t, want[2:9], it)

	it, err = cache.ReverseIterator(start, end)
	require.NoError(t, err)
	verifyIterator(t, reverse(want[2:9]), it)

	require.NoError(t, cache.Write())
	it, err = base.Iterator(nil, nil)
	require.NoError(t, err)
	verifyIterator(t, want, it)
}

// AssertGetHas checks both Get and Has for the key.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	require.Equal(t, val, got)
	exists, err := kv.Has(key)
	require.NoError(t, err)
	require.Equal(t, has, exists)
}

func verifyIterator(t testing.TB, want []remit.Model, it Iterator) {
	t.Helper()
	defer it.Close()
	var got []remit.Model
	for ; it.Valid(); it.Next() {
		got = append(got, remit.Pair(it.Key(), it.Value()))
	}
	require.Equal(t, len(want), len(got))
	for i := range want {
		require.Equal(t, want[i].Key, got[i].Key, "key %d", i)
		require.Equal(t, want[i].Value, got[i].Value, "value %d", i)
	}
}

func randBytes(length int) []byte {
	res := make([]byte, length)
	if _, err := rand.Read(res); err != nil {
		panic(err)
	}
	return res
}

// randModels returns count models with unique keys.
func randModels(count, keySize, valueSize int) []remit.Model {
	seen := make(map[string]bool, count)
	res := make([]remit.Model, 0, count)
	for len(res) < count {
		key := randBytes(keySize)
		if seen[string(key)] {
			continue
		}
		seen[string(key)] = true
		res = append(res, remit.Pair(key, randBytes(valueSize)))
	}
	return res
}

func reverse(models []remit.Model) []remit.Model {
	res := make([]remit.Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}

func sortModels(models []remit.Model) []remit.Model {
	res := make([]remit.Model, len(models))
	copy(res, models)
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}
