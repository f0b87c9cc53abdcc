package cash

import (
	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file.
type GenesisAccount struct {
	Address remit.Address `json:"address"`
	Amount  uint64        `json:"amount"`
}

// Initializer fulfils the remit.Initializer interface to load wallets
// from the genesis file
type Initializer struct{}

var _ remit.Initializer = Initializer{}

// FromGenesis issues the initial balances.
func (Initializer) FromGenesis(opts remit.Options, db remit.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	ctrl := NewController(NewBucket())
	for i, acct := range accts {
		if acct.Amount == 0 {
			return errors.Wrapf(errors.ErrAmount, "account %d: zero amount", i)
		}
		if err := ctrl.IssueCoins(db, acct.Address, acct.Amount); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}

// RegisterQuery exposes the wallets under /wallets
func RegisterQuery(qr remit.QueryRouter) {
	NewBucket().Register("wallets", qr)
}
