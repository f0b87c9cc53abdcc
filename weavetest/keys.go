package weavetest

import (
	"crypto/rand"

	"github.com/iov-one/remit"
	"golang.org/x/crypto/ed25519"
)

// NewKey generates a fresh ed25519 key pair.
func NewKey() (ed25519.PublicKey, ed25519.PrivateKey) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		panic(err)
	}
	return pub, priv
}

// NewCondition returns a signature condition for a fresh random key, so
// every call represents a distinct account.
func NewCondition() remit.Condition {
	pub, _ := NewKey()
	return remit.NewCondition("sigs", "ed25519", pub)
}
