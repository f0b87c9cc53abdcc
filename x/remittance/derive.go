package remittance

import (
	"github.com/iov-one/remit"
	"golang.org/x/crypto/sha3"
)

// PackageIDLength is the size of every package identifier.
const PackageIDLength = 32

// Instance returns the identity of the escrow running on the given chain.
// It binds every package identifier to one deployment.
func Instance(chainID string) remit.Address {
	return remit.NewCondition("remit", "ledger", []byte(chainID)).Address()
}

// DerivePackageID computes the identifier of the package the creator
// funds for the dealer with the given secret. It is a pure function and
// may be probed with any arguments.
func DerivePackageID(instance, creator, dealer remit.Address, secret string) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(instance)
	h.Write(creator)
	h.Write(dealer)
	h.Write([]byte(secret))
	return h.Sum(nil)
}

// PackageID derives the identifier on the instance of the context chain.
func PackageID(ctx remit.Context, creator, dealer remit.Address, secret string) []byte {
	return DerivePackageID(Instance(remit.GetChainID(ctx)), creator, dealer, secret)
}

// PackageAddr returns the custody account holding the deposit of the
// package until it is claimed or cancelled.
func PackageAddr(id []byte) remit.Address {
	return remit.NewCondition("remit", "package", id).Address()
}
