package weavetest

import (
	"testing"

	"github.com/iov-one/remit"
)

// ParseAddress decodes an address in any of the formats accepted by
// remit.ParseAddress and fails the test if it cannot.
func ParseAddress(t testing.TB, encodedAddress string) remit.Address {
	t.Helper()

	addr, err := remit.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
