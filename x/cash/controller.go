package cash

import (
	"math"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
)

// Controller is the functionality needed by other extensions to move
// value. The escrow never touches wallets directly.
type Controller interface {
	Balance(db remit.ReadOnlyKVStore, addr remit.Address) (uint64, error)
	MoveCoins(db remit.KVStore, src, dest remit.Address, amount uint64) error
	IssueCoins(db remit.KVStore, dest remit.Address, amount uint64) error
}

// BaseController is the default Controller implementation.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller over the given bucket.
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the amount held by the address, zero for unknown ones.
func (c BaseController) Balance(db remit.ReadOnlyKVStore, addr remit.Address) (uint64, error) {
	w, err := c.bucket.GetWallet(db, addr)
	if err != nil {
		return 0, err
	}
	if w == nil {
		return 0, nil
	}
	return w.Amount, nil
}

// MoveCoins moves the given amount from src to dest. It fails if src
// does not hold enough or dest would overflow.
func (c BaseController) MoveCoins(db remit.KVStore, src, dest remit.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero transfer")
	}
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}

	have, err := c.Balance(db, src)
	if err != nil {
		return err
	}
	if have < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "have %d, need %d", have, amount)
	}
	if src.Equals(dest) {
		return nil
	}

	got, err := c.Balance(db, dest)
	if err != nil {
		return err
	}
	if got > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "recipient balance")
	}

	if err := c.bucket.SetBalance(db, src, have-amount); err != nil {
		return errors.Wrap(err, "debit")
	}
	if err := c.bucket.SetBalance(db, dest, got+amount); err != nil {
		return errors.Wrap(err, "credit")
	}
	return nil
}

// IssueCoins creates value out of thin air on the destination. It is only
// used when loading the genesis.
func (c BaseController) IssueCoins(db remit.KVStore, dest remit.Address, amount uint64) error {
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	got, err := c.Balance(db, dest)
	if err != nil {
		return err
	}
	if got > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "recipient balance")
	}
	return c.bucket.SetBalance(db, dest, got+amount)
}
