package owner

import (
	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/x"
)

// RegisterRoutes registers the ownership handler.
func RegisterRoutes(r remit.Registry, auth x.Authenticator) {
	r.Handle(pathTransferOwnershipMsg, TransferOwnershipHandler{auth: auth})
}

// RegisterQuery exposes the administrator record under /owner
func RegisterQuery(qr remit.QueryRouter) {
	NewBucket().Register("owner", qr)
}

// RequireOwner fails with ErrUnauthorized unless the administrator signed
// the transaction. It returns the administrator address.
func RequireOwner(ctx remit.Context, db remit.ReadOnlyKVStore, auth x.Authenticator) (remit.Address, error) {
	admin, err := GetOwner(db)
	if err != nil {
		return nil, err
	}
	if !auth.HasAddress(ctx, admin) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "caller is not the owner")
	}
	return admin, nil
}

// TransferOwnershipHandler replaces the administrator.
type TransferOwnershipHandler struct {
	auth x.Authenticator
}

var _ remit.Handler = TransferOwnershipHandler{}

func (h TransferOwnershipHandler) Check(ctx remit.Context, db remit.KVStore, tx remit.Tx) (*remit.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &remit.CheckResult{}, nil
}

func (h TransferOwnershipHandler) Deliver(ctx remit.Context, db remit.KVStore, tx remit.Tx) (*remit.DeliverResult, error) {
	msg, admin, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := setOwner(db, msg.NewOwner); err != nil {
		return nil, errors.Wrap(err, "save owner")
	}
	remit.GetLogger(ctx).Info("ownership transferred", "from", admin, "to", msg.NewOwner)
	return &remit.DeliverResult{
		Events: []remit.Event{OwnershipTransferred{From: admin, To: msg.NewOwner}},
	}, nil
}

func (h TransferOwnershipHandler) validate(ctx remit.Context, db remit.KVStore, tx remit.Tx) (*TransferOwnershipMsg, remit.Address, error) {
	admin, err := RequireOwner(ctx, db, h.auth)
	if err != nil {
		return nil, nil, err
	}
	var msg TransferOwnershipMsg
	if err := remit.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if msg.NewOwner.Equals(admin) {
		return nil, nil, errors.Wrap(errors.ErrInput, "new owner is the current owner")
	}
	return &msg, admin, nil
}
