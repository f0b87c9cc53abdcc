package weavetest

import "github.com/iov-one/remit"

// Handler is a mock remit.Handler that counts its calls. When Key is set
// the value is written to the store before the result is returned, which
// allows to observe savepoint rollbacks.
type Handler struct {
	Key   []byte
	Value []byte

	checkCall   int
	CheckResult remit.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult remit.DeliverResult
	DeliverErr    error
}

var _ remit.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx remit.Context, db remit.KVStore, tx remit.Tx) (*remit.CheckResult, error) {
	h.checkCall++
	if err := h.write(db); err != nil {
		return nil, err
	}
	res := h.CheckResult
	return &res, h.CheckErr
}

func (h *Handler) Deliver(ctx remit.Context, db remit.KVStore, tx remit.Tx) (*remit.DeliverResult, error) {
	h.deliverCall++
	if err := h.write(db); err != nil {
		return nil, err
	}
	res := h.DeliverResult
	return &res, h.DeliverErr
}

func (h *Handler) write(db remit.KVStore) error {
	if h.Key == nil {
		return nil
	}
	return db.Set(h.Key, h.Value)
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
