package breaker

import (
	"fmt"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/orm"
	amino "github.com/tendermint/go-amino"
)

// ErrNotActive is returned by the gate when the breaker is not Active.
var ErrNotActive = errors.Register(1000, "contract not active")

// State of the breaker. The zero value is Active.
type State int32

const (
	Active State = iota
	Paused
	Frozen
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Paused:
		return "paused"
	case Frozen:
		return "frozen"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Validate returns an error for unknown states.
func (s State) Validate() error {
	if s < Active || s > Frozen {
		return errors.Wrapf(errors.ErrState, "unknown breaker state %d", int32(s))
	}
	return nil
}

const bucketName = "breaker"

var (
	cdc      = amino.NewCodec()
	stateKey = []byte("state")
)

// Record is the stored breaker state together with the administrator
// that caused the last transition.
type Record struct {
	State     State         `json:"state"`
	UpdatedBy remit.Address `json:"updated_by,omitempty"`
}

var _ orm.Model = (*Record)(nil)

func (r *Record) Validate() error {
	if err := r.State.Validate(); err != nil {
		return err
	}
	if r.UpdatedBy != nil {
		return r.UpdatedBy.Validate()
	}
	return nil
}

func (r *Record) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(r)
}

func (r *Record) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, r)
}

// Bucket stores the breaker record.
type Bucket struct {
	orm.Bucket
}

func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(bucketName, orm.NewSimpleObj(nil, new(Record))),
	}
}

// GetState returns the current state, Active when never changed.
func GetState(db remit.ReadOnlyKVStore) (State, error) {
	obj, err := NewBucket().Get(db, stateKey)
	if err != nil {
		return Active, errors.Wrap(err, "load breaker")
	}
	if obj == nil {
		return Active, nil
	}
	rec, ok := obj.Value().(*Record)
	if !ok {
		return Active, errors.WithType(errors.ErrModel, obj.Value())
	}
	return rec.State, nil
}

// IsPaused returns true when the breaker is Paused.
func IsPaused(db remit.ReadOnlyKVStore) (bool, error) {
	s, err := GetState(db)
	return s == Paused, err
}

// IsFrozen returns true when the breaker is Frozen.
func IsFrozen(db remit.ReadOnlyKVStore) (bool, error) {
	s, err := GetState(db)
	return s == Frozen, err
}

// RequireActive is the gate of every value moving operation.
func RequireActive(db remit.ReadOnlyKVStore) error {
	s, err := GetState(db)
	if err != nil {
		return err
	}
	if s != Active {
		return errors.Wrapf(ErrNotActive, "breaker is %s", s)
	}
	return nil
}

func setState(db remit.KVStore, s State, by remit.Address) error {
	rec := &Record{State: s, UpdatedBy: by}
	return NewBucket().Save(db, orm.NewSimpleObj(stateKey, rec))
}
