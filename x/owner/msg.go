package owner

import (
	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
)

const pathTransferOwnershipMsg = "owner/transfer_ownership"

// TransferOwnershipMsg hands the administration over to NewOwner.
type TransferOwnershipMsg struct {
	NewOwner remit.Address `json:"new_owner"`
}

var _ remit.Msg = (*TransferOwnershipMsg)(nil)

func (TransferOwnershipMsg) Path() string {
	return pathTransferOwnershipMsg
}

func (m TransferOwnershipMsg) Validate() error {
	if m.NewOwner.IsEmpty() {
		return errors.Wrap(errors.ErrInput, "null new owner")
	}
	if err := m.NewOwner.Validate(); err != nil {
		return errors.Wrap(err, "new owner")
	}
	return nil
}

// OwnershipTransferred is emitted when the administrator changes.
type OwnershipTransferred struct {
	From remit.Address
	To   remit.Address
}

func (OwnershipTransferred) EventName() string { return "OwnershipTransferred" }
