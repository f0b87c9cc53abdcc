package remittance

import (
	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/gconf"
)

// Initializer loads the ledger configuration from genesis.
type Initializer struct{}

var _ remit.Initializer = Initializer{}

// FromGenesis stores conf.remittance. The section is optional, without it
// windows are not capped.
func (Initializer) FromGenesis(opts remit.Options, db remit.KVStore) error {
	var conf Configuration
	err := gconf.InitConfig(db, opts, packageName, &conf)
	if err != nil && !errors.ErrNotFound.Is(err) {
		return err
	}
	return nil
}
