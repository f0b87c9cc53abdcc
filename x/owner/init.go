package owner

import (
	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
)

const optKey = "owner"

// Genesis is the "owner" section of the genesis file.
type Genesis struct {
	Address remit.Address `json:"address"`
}

// Initializer sets the deploying administrator.
type Initializer struct{}

var _ remit.Initializer = Initializer{}

// FromGenesis requires the administrator to be declared, the escrow
// cannot exist without one.
func (Initializer) FromGenesis(opts remit.Options, db remit.KVStore) error {
	var gen Genesis
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return err
	}
	if gen.Address.IsEmpty() {
		return errors.Wrap(errors.ErrEmpty, "genesis owner")
	}
	return setOwner(db, gen.Address)
}
