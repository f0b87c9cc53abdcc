package owner

import (
	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/orm"
	amino "github.com/tendermint/go-amino"
)

const bucketName = "owner"

var (
	cdc = amino.NewCodec()

	// adminKey is the key of the singleton record.
	adminKey = []byte("admin")
)

// Record is the stored administrator identity.
type Record struct {
	Owner remit.Address `json:"owner"`
}

var _ orm.Model = (*Record)(nil)

func (r *Record) Validate() error {
	if r.Owner.IsEmpty() {
		return errors.Wrap(errors.ErrEmpty, "owner")
	}
	return r.Owner.Validate()
}

func (r *Record) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(r)
}

func (r *Record) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, r)
}

// Bucket stores the administrator record.
type Bucket struct {
	orm.Bucket
}

func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(bucketName, orm.NewSimpleObj(nil, new(Record))),
	}
}

// GetOwner returns the current administrator. It has no side effects.
func GetOwner(db remit.ReadOnlyKVStore) (remit.Address, error) {
	obj, err := NewBucket().Get(db, adminKey)
	if err != nil {
		return nil, errors.Wrap(err, "load owner")
	}
	if obj == nil {
		return nil, errors.Wrap(errors.ErrState, "owner not initialized")
	}
	rec, ok := obj.Value().(*Record)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return rec.Owner, nil
}

func setOwner(db remit.KVStore, owner remit.Address) error {
	return NewBucket().Save(db, orm.NewSimpleObj(adminKey, &Record{Owner: owner}))
}
