package orm

import (
	"github.com/iov-one/remit/errors"
	amino "github.com/tendermint/go-amino"
)

var testCodec = amino.NewCodec()

// counter is a minimal model used across the orm tests.
type counter struct {
	Name  string
	Count int64
}

func (c *counter) Marshal() ([]byte, error) {
	return testCodec.MarshalBinaryBare(c)
}

func (c *counter) Unmarshal(bz []byte) error {
	return testCodec.UnmarshalBinaryBare(bz, c)
}

func (c *counter) Validate() error {
	if c.Name == "" {
		return errors.Wrap(errors.ErrEmpty, "name")
	}
	if c.Count < 0 {
		return errors.Wrap(errors.ErrInput, "negative count")
	}
	return nil
}

func newCounter(key string, name string, count int64) *SimpleObj {
	return NewSimpleObj([]byte(key), &counter{Name: name, Count: count})
}
