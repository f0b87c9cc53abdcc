package remit_test

import (
	"testing"

	"github.com/iov-one/remit"
	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	defer func(commit string) { remit.GitCommit = commit }(remit.GitCommit)

	remit.GitCommit = ""
	assert.Equal(t, "v0.1.0-dev", remit.Version())

	remit.GitCommit = "12345678"
	assert.Equal(t, "v0.1.0-dev 12345678", remit.Version())
}
