/*
Package orm provides an easy to use db wrapper.

The state space is split into prefixed sections called Buckets. Each bucket
contains only one type of object and can be exposed on the query router.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket is a prefixed subspace of the DB. proto defines the type of all
// stored objects.
type Bucket struct {
	name   string
	prefix []byte
	proto  Cloneable
}

var _ remit.QueryHandler = Bucket{}

// NewBucket creates a bucket to store data. Panics on an invalid name.
func NewBucket(name string, proto Cloneable) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("illegal bucket: %s", name))
	}
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		proto:  proto,
	}
}

// Name returns the name of the bucket.
func (b Bucket) Name() string {
	return b.name
}

// Register exposes the bucket on the query router. An empty name
// registers it under the bucket name.
func (b Bucket) Register(name string, r remit.QueryRouter) {
	if name == "" {
		name = b.name
	}
	r.Register("/"+name, b)
}

// Query handles queries from the QueryRouter
func (b Bucket) Query(db remit.ReadOnlyKVStore, mod string, data []byte) ([]remit.Model, error) {
	switch mod {
	case remit.KeyQueryMod:
		key := b.DBKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []remit.Model{remit.Pair(key, value)}, nil
	case remit.PrefixQueryMod:
		return queryPrefix(db, b.DBKey(data))
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod: %q", mod)
	}
}

// DBKey is the full key we store in the db, including prefix. A new slice
// is allocated so that consecutive calls never share memory.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Get one element. Returns nil without error when missing.
func (b Bucket) Get(db remit.ReadOnlyKVStore, key []byte) (Object, error) {
	bz, err := db.Get(b.DBKey(key))
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, nil
	}
	return b.Parse(key, bz)
}

// Has returns true if an element is stored under the key.
func (b Bucket) Has(db remit.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// Parse takes a key and value data and reconstructs the stored object.
func (b Bucket) Parse(key, value []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := obj.Value().Unmarshal(value); err != nil {
		return nil, errors.Wrap(errors.ErrState, err.Error())
	}
	obj.SetKey(key)
	return obj, nil
}

// Save writes a model, it must be of the same type as proto
func (b Bucket) Save(db remit.KVStore, model Object) error {
	if err := model.Validate(); err != nil {
		return err
	}
	bz, err := model.Value().Marshal()
	if err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	if len(bz) == 0 {
		return errors.Wrap(errors.ErrModel, "empty serialization")
	}
	return db.Set(b.DBKey(model.Key()), bz)
}

// Delete removes the value at a key
func (b Bucket) Delete(db remit.KVStore, key []byte) error {
	return db.Delete(b.DBKey(key))
}
