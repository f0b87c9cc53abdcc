package app

import (
	"context"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/x"
)

type contextKey int // local to the app package

const (
	contextKeySigners contextKey = iota
)

// withSigners is private, only the host can declare who called.
func withSigners(ctx remit.Context, signers ...remit.Condition) remit.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate exposes the caller declared by the Host to the handlers.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns who called in the current Context.
// May be empty
func (Authenticate) GetConditions(ctx remit.Context) []remit.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySigners).([]remit.Condition)
	return val
}

// HasAddress returns true if the address called in the current Context.
func (a Authenticate) HasAddress(ctx remit.Context, addr remit.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
