package remittance

import (
	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/orm"
	amino "github.com/tendermint/go-amino"
)

const (
	packageName = "remittance"
	bucketName  = "packages"
)

var cdc = amino.NewCodec()

// Package is one escrow record. Everything but IsActive is fixed at
// creation.
type Package struct {
	Creator          remit.Address `json:"creator"`
	Dealer           remit.Address `json:"dealer"`
	Amount           uint64        `json:"amount"`
	ValidUntilHeight int64         `json:"valid_until_height"`
	IsActive         bool          `json:"is_active"`
}

var _ orm.Model = (*Package)(nil)

func (p *Package) Validate() error {
	if err := p.Creator.Validate(); err != nil {
		return errors.Wrap(err, "creator")
	}
	if err := p.Dealer.Validate(); err != nil {
		return errors.Wrap(err, "dealer")
	}
	if p.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero amount")
	}
	if p.ValidUntilHeight < 0 {
		return errors.Wrap(errors.ErrInput, "negative deadline")
	}
	return nil
}

func (p *Package) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(p)
}

func (p *Package) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, p)
}

// Claimable reports whether the dealer may still redeem the package at
// the given height. The deadline height itself belongs to the dealer.
func (p *Package) Claimable(height int64) bool {
	return height <= p.ValidUntilHeight
}

// Bucket stores packages by identifier.
type Bucket struct {
	orm.Bucket
}

func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(bucketName, orm.NewSimpleObj(nil, new(Package))),
	}
}

// GetPackage returns the package stored under id, nil when the slot is
// free.
func (b Bucket) GetPackage(db remit.ReadOnlyKVStore, id []byte) (*Package, error) {
	obj, err := b.Get(db, id)
	if err != nil || obj == nil {
		return nil, err
	}
	p, ok := obj.Value().(*Package)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return p, nil
}

// Occupied reports whether a package was ever created under id, claimed
// and cancelled ones included.
func (b Bucket) Occupied(db remit.ReadOnlyKVStore, id []byte) (bool, error) {
	p, err := b.GetPackage(db, id)
	if err != nil {
		return false, err
	}
	return p != nil && !p.Creator.IsEmpty(), nil
}

// CountActive returns the number of packages still waiting for a claim or
// a cancel.
func (b Bucket) CountActive(db remit.ReadOnlyKVStore) (int, error) {
	models, err := b.Query(db, remit.PrefixQueryMod, nil)
	if err != nil {
		return 0, err
	}
	var n int
	for _, m := range models {
		obj, err := b.Parse(m.Key, m.Value)
		if err != nil {
			return 0, err
		}
		p, ok := obj.Value().(*Package)
		if !ok {
			return 0, errors.WithType(errors.ErrModel, obj.Value())
		}
		if p.IsActive {
			n++
		}
	}
	return n, nil
}

func (b Bucket) savePackage(db remit.KVStore, id []byte, p *Package) error {
	return b.Save(db, orm.NewSimpleObj(id, p))
}

// Configuration of the escrow ledger.
type Configuration struct {
	// MaxWindow caps the number of blocks a package stays claimable.
	// Zero means no cap.
	MaxWindow int64 `json:"max_window"`
}

func (c *Configuration) Validate() error {
	if c.MaxWindow < 0 {
		return errors.Wrap(errors.ErrInput, "negative max window")
	}
	return nil
}

// Marshal is length prefixed, the zero configuration must not encode to
// an empty value.
func (c *Configuration) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryLengthPrefixed(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	if err := cdc.UnmarshalBinaryLengthPrefixed(raw, c); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}
