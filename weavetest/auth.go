package weavetest

import (
	"context"
	"fmt"

	"github.com/iov-one/remit"
)

// Auth authenticates a fixed set of conditions. Signer and Signers are
// both considered, Signer is a shortcut for the common single caller case.
type Auth struct {
	Signer  remit.Condition
	Signers []remit.Condition
}

func (a *Auth) GetConditions(remit.Context) []remit.Condition {
	if a.Signer != nil {
		return append(a.Signers, a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx remit.Context, addr remit.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// CtxAuth stores and reads the authenticated conditions from the context,
// the same way the host passes the caller down to the handlers.
type CtxAuth struct {
	// Key used to set and retrieve conditions from the context.
	Key string
}

func (a *CtxAuth) SetConditions(ctx remit.Context, conds ...remit.Condition) remit.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx remit.Context) []remit.Condition {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	conds, ok := val.([]remit.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []remit.Condition got %T", val))
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx remit.Context, addr remit.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
