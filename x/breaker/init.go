package breaker

import (
	"github.com/iov-one/remit"
)

const optKey = "breaker"

// Genesis is the optional "breaker" section of the genesis file.
type Genesis struct {
	// Paused starts the escrow paused, the administrator resumes it once
	// the launch is ready.
	Paused bool `json:"paused"`
}

// Initializer loads the initial breaker state.
type Initializer struct{}

var _ remit.Initializer = Initializer{}

func (Initializer) FromGenesis(opts remit.Options, db remit.KVStore) error {
	var gen Genesis
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return err
	}
	if !gen.Paused {
		return nil
	}
	return setState(db, Paused, nil)
}
