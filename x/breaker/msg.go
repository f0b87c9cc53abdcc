package breaker

import "github.com/iov-one/remit"

const (
	pathPauseMsg  = "breaker/pause"
	pathResumeMsg = "breaker/resume"
	pathFreezeMsg = "breaker/freeze"
)

// PauseMsg moves an Active breaker to Paused.
type PauseMsg struct{}

// ResumeMsg moves a Paused breaker back to Active.
type ResumeMsg struct{}

// FreezeMsg moves a Paused breaker to Frozen, for good.
type FreezeMsg struct{}

var (
	_ remit.Msg = (*PauseMsg)(nil)
	_ remit.Msg = (*ResumeMsg)(nil)
	_ remit.Msg = (*FreezeMsg)(nil)
)

func (PauseMsg) Path() string  { return pathPauseMsg }
func (ResumeMsg) Path() string { return pathResumeMsg }
func (FreezeMsg) Path() string { return pathFreezeMsg }

func (PauseMsg) Validate() error  { return nil }
func (ResumeMsg) Validate() error { return nil }
func (FreezeMsg) Validate() error { return nil }

// ContractPaused is emitted when the administrator pauses the escrow.
type ContractPaused struct {
	PausedBy remit.Address
}

func (ContractPaused) EventName() string { return "ContractPaused" }

// ContractResumed is emitted when the administrator resumes the escrow.
type ContractResumed struct {
	ResumedBy remit.Address
}

func (ContractResumed) EventName() string { return "ContractResumed" }

// ContractFrozen is emitted when the administrator freezes the escrow.
type ContractFrozen struct {
	FrozenBy remit.Address
}

func (ContractFrozen) EventName() string { return "ContractFrozen" }
