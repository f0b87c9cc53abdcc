package app

import (
	"encoding/json"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
)

// Genesis file format
type Genesis struct {
	ChainID  string        `json:"chain_id"`
	AppState remit.Options `json:"app_state"`
}

// parseGenesis decodes the genesis document. An empty chain id falls
// back to the configured one, a different one is rejected.
func parseGenesis(raw []byte, configured string) (Genesis, error) {
	var gen Genesis
	if len(raw) == 0 {
		return gen, errors.Wrap(errors.ErrEmpty, "genesis")
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrapf(errors.ErrInput, "cannot parse genesis: %s", err)
	}
	switch {
	case gen.ChainID == "":
		gen.ChainID = configured
	case configured != "" && gen.ChainID != configured:
		return gen, errors.Wrapf(errors.ErrInput, "genesis chain %q, configured %q", gen.ChainID, configured)
	}
	if len(gen.AppState) == 0 {
		return gen, errors.Wrap(errors.ErrEmpty, "app_state not set in genesis")
	}
	return gen, nil
}

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...remit.Initializer) remit.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []remit.Initializer
}

// FromGenesis passes opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts remit.Options, kv remit.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
