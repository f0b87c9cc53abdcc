package remittance

import (
	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
)

const (
	pathCreatePackageMsg       = "remittance/create"
	pathClaimPackageMsg        = "remittance/claim"
	pathCancelPackageMsg       = "remittance/cancel"
	pathUpdateConfigurationMsg = "remittance/update_configuration"
)

var (
	_ remit.Msg = (*CreatePackageMsg)(nil)
	_ remit.Msg = (*ClaimPackageMsg)(nil)
	_ remit.Msg = (*CancelPackageMsg)(nil)
	_ remit.Msg = (*UpdateConfigurationMsg)(nil)
)

// CreatePackageMsg deposits Amount for Dealer under PackageID. The
// package can be claimed for Window blocks.
type CreatePackageMsg struct {
	Dealer    remit.Address `json:"dealer"`
	PackageID []byte        `json:"package_id"`
	Window    uint64        `json:"window"`
	Amount    uint64        `json:"amount"`
}

func (CreatePackageMsg) Path() string {
	return pathCreatePackageMsg
}

func (m CreatePackageMsg) Validate() error {
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrInput, "zero deposit")
	}
	if m.Dealer.IsEmpty() {
		return errors.Wrap(errors.ErrInput, "null dealer")
	}
	if err := m.Dealer.Validate(); err != nil {
		return errors.Wrap(err, "dealer")
	}
	return validatePackageID(m.PackageID)
}

// ClaimPackageMsg redeems a package by revealing its secret.
type ClaimPackageMsg struct {
	PackageID []byte `json:"package_id"`
	Secret    string `json:"secret"`
}

func (ClaimPackageMsg) Path() string {
	return pathClaimPackageMsg
}

func (m ClaimPackageMsg) Validate() error {
	return validatePackageID(m.PackageID)
}

// CancelPackageMsg returns an expired package to its creator.
type CancelPackageMsg struct {
	PackageID []byte `json:"package_id"`
}

func (CancelPackageMsg) Path() string {
	return pathCancelPackageMsg
}

func (m CancelPackageMsg) Validate() error {
	return validatePackageID(m.PackageID)
}

// UpdateConfigurationMsg patches the ledger configuration.
type UpdateConfigurationMsg struct {
	Patch *Configuration `json:"patch"`
}

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}

func (m UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	return m.Patch.Validate()
}

func validatePackageID(id []byte) error {
	if len(id) != PackageIDLength {
		return errors.Wrapf(errors.ErrInput, "package id must be %d bytes, got %d", PackageIDLength, len(id))
	}
	return nil
}

// PackageCreated is emitted when a deposit is locked.
type PackageCreated struct {
	Owner     remit.Address
	Dealer    remit.Address
	Amount    uint64
	PackageID []byte
}

func (PackageCreated) EventName() string { return "PackageCreated" }

// PackageClaimed is emitted when the dealer redeems a package.
type PackageClaimed struct {
	Dealer    remit.Address
	Amount    uint64
	PackageID []byte
}

func (PackageClaimed) EventName() string { return "PackageClaimed" }

// PackageCancelled is emitted when the creator takes an expired deposit
// back.
type PackageCancelled struct {
	Owner     remit.Address
	PackageID []byte
}

func (PackageCancelled) EventName() string { return "PackageCancelled" }
