package app

import "github.com/iov-one/remit"

// Tx is the transaction the Host builds around a single message.
type Tx struct {
	Msg remit.Msg
}

var _ remit.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (remit.Msg, error) {
	return tx.Msg, nil
}
