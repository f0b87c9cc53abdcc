package cash

import (
	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/orm"
	amino "github.com/tendermint/go-amino"
)

// BucketName is where we store the balances
const BucketName = "cash"

var cdc = amino.NewCodec()

// Wallet holds the balance of one address.
type Wallet struct {
	Amount uint64 `json:"amount"`
}

var _ orm.Model = (*Wallet)(nil)

// Validate requires a positive balance, empty wallets are never stored.
func (w *Wallet) Validate() error {
	if w.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "empty wallet")
	}
	return nil
}

func (w *Wallet) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(w)
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, w)
}

// Bucket is a type-safe wrapper around orm.Bucket
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a cash.Bucket with default name
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, orm.NewSimpleObj(nil, new(Wallet))),
	}
}

// GetWallet returns the wallet of the address, nil when it holds nothing.
func (b Bucket) GetWallet(db remit.ReadOnlyKVStore, addr remit.Address) (*Wallet, error) {
	obj, err := b.Get(db, addr)
	if err != nil || obj == nil {
		return nil, err
	}
	w, ok := obj.Value().(*Wallet)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return w, nil
}

// SetBalance stores the balance of the address. A zero balance removes
// the wallet.
func (b Bucket) SetBalance(db remit.KVStore, addr remit.Address, amount uint64) error {
	if amount == 0 {
		return b.Delete(db, addr)
	}
	return b.Save(db, orm.NewSimpleObj(addr, &Wallet{Amount: amount}))
}
