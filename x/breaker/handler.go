package breaker

import (
	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/x"
	"github.com/iov-one/remit/x/owner"
)

// RegisterRoutes registers the pause, resume and freeze handlers.
func RegisterRoutes(r remit.Registry, auth x.Authenticator) {
	r.Handle(pathPauseMsg, TransitionHandler{
		auth: auth,
		from: Active,
		to:   Paused,
		msg:  func() remit.Msg { return new(PauseMsg) },
		event: func(by remit.Address) remit.Event {
			return ContractPaused{PausedBy: by}
		},
	})
	r.Handle(pathResumeMsg, TransitionHandler{
		auth: auth,
		from: Paused,
		to:   Active,
		msg:  func() remit.Msg { return new(ResumeMsg) },
		event: func(by remit.Address) remit.Event {
			return ContractResumed{ResumedBy: by}
		},
	})
	r.Handle(pathFreezeMsg, TransitionHandler{
		auth: auth,
		from: Paused,
		to:   Frozen,
		msg:  func() remit.Msg { return new(FreezeMsg) },
		event: func(by remit.Address) remit.Event {
			return ContractFrozen{FrozenBy: by}
		},
	})
}

// RegisterQuery exposes the breaker record under /breaker
func RegisterQuery(qr remit.QueryRouter) {
	NewBucket().Register("breaker", qr)
}

// TransitionHandler moves the breaker from one state to another. Only
// the administrator may trigger it.
type TransitionHandler struct {
	auth  x.Authenticator
	from  State
	to    State
	msg   func() remit.Msg
	event func(remit.Address) remit.Event
}

var _ remit.Handler = TransitionHandler{}

func (h TransitionHandler) Check(ctx remit.Context, db remit.KVStore, tx remit.Tx) (*remit.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &remit.CheckResult{}, nil
}

func (h TransitionHandler) Deliver(ctx remit.Context, db remit.KVStore, tx remit.Tx) (*remit.DeliverResult, error) {
	admin, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := setState(db, h.to, admin); err != nil {
		return nil, errors.Wrap(err, "save breaker")
	}
	remit.GetLogger(ctx).Info("breaker transition", "from", h.from, "to", h.to, "by", admin)
	return &remit.DeliverResult{Events: []remit.Event{h.event(admin)}}, nil
}

func (h TransitionHandler) validate(ctx remit.Context, db remit.KVStore, tx remit.Tx) (remit.Address, error) {
	admin, err := owner.RequireOwner(ctx, db, h.auth)
	if err != nil {
		return nil, err
	}
	if err := remit.LoadMsg(tx, h.msg()); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	current, err := GetState(db)
	if err != nil {
		return nil, err
	}
	if current != h.from {
		return nil, errors.Wrapf(errors.ErrState, "cannot move from %s to %s", current, h.to)
	}
	return admin, nil
}
