package x

import (
	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
)

// Authenticator extracts authentication info from the context. It is
// passed into the constructor of handlers so that the source of
// authentication can be swapped, for example in tests.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled, in signing order
	GetConditions(remit.Context) []remit.Condition
	// HasAddress checks if any condition matches this address
	HasAddress(remit.Context, remit.Address) bool
}

// MainSigner returns the first permission if any, otherwise nil
func MainSigner(ctx remit.Context, auth Authenticator) remit.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// Caller returns the address of the main signer. Every operation of the
// escrow acts on behalf of exactly one caller, so a missing signer is an
// authorization failure.
func Caller(ctx remit.Context, auth Authenticator) (remit.Address, error) {
	signer := MainSigner(ctx, auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no caller")
	}
	return signer.Address(), nil
}
