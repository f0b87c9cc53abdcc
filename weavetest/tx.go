package weavetest

import "github.com/iov-one/remit"

// Tx carries a single message through the handler stack.
type Tx struct {
	Msg remit.Msg
	// Err if set is returned by GetMsg.
	Err error
}

var _ remit.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (remit.Msg, error) {
	return tx.Msg, tx.Err
}

// Msg is a message with a configurable route and validation result.
type Msg struct {
	// RoutePath is returned by Path and consumed by the router.
	RoutePath string
	// Err if set is returned by Validate.
	Err error
}

var _ remit.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}
