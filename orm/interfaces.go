package orm

import (
	"github.com/iov-one/remit"
)

// Model is the data stored under a key in a Bucket.
type Model interface {
	remit.Persistent
	Validate() error
}

// Object is what is stored in the bucket. Key is joined with the bucket
// prefix to build the full database key.
type Object interface {
	Keyed
	Cloneable
	// Validate returns an error if the object cannot be saved.
	Validate() error
	Value() Model
}

// Keyed is anything that can identify itself
type Keyed interface {
	Key() []byte
	SetKey([]byte)
}

// Cloneable creates a new empty object that data can be loaded into
type Cloneable interface {
	Clone() Object
}

// Reader allows reading objects from the db
type Reader interface {
	Get(db remit.ReadOnlyKVStore, key []byte) (Object, error)
}
