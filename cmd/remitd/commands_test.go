package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/remit/app"
	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/weavetest"
	"github.com/iov-one/remit/x/remittance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempHome(t *testing.T) (string, func()) {
	t.Helper()
	dir, err := ioutil.TempDir("", "remitd")
	require.NoError(t, err)
	return filepath.Join(dir, "home"), func() { os.RemoveAll(dir) }
}

func writeGenesis(t *testing.T, home, chainID, owner, funded string) string {
	t.Helper()
	raw := fmt.Sprintf(`{
		"chain_id": %q,
		"app_state": {
			"owner": {"address": %q},
			"cash": [{"address": %q, "amount": 500}]
		}
	}`, chainID, owner, funded)
	path := filepath.Join(home, "genesis.json")
	require.NoError(t, ioutil.WriteFile(path, []byte(raw), 0644))
	return path
}

func TestInitCmd(t *testing.T) {
	home, cleanup := tempHome(t)
	defer cleanup()

	var out bytes.Buffer
	require.NoError(t, InitCmd(&out, home, []string{"-chain-id", "remitd-test", "-log-level", "error"}))
	assert.Contains(t, out.String(), configFile)

	cfg, err := app.LoadConfig(configPath(home))
	require.NoError(t, err)
	assert.Equal(t, "remitd-test", cfg.ChainID)
	assert.Equal(t, "goleveldb", cfg.DBBackend)
	assert.Equal(t, home, cfg.Home)
	assert.Equal(t, "error", cfg.LogLevel)

	err = InitCmd(&out, home, nil)
	assert.True(t, errors.ErrDuplicate.Is(err), "got %+v", err)

	other, cleanupOther := tempHome(t)
	defer cleanupOther()
	err = InitCmd(&out, other, []string{"-chain-id", "bad"})
	assert.True(t, errors.ErrInput.Is(err), "got %+v", err)
}

func TestGenesisQueryDerive(t *testing.T) {
	home, cleanup := tempHome(t)
	defer cleanup()
	var out bytes.Buffer
	require.NoError(t, InitCmd(&out, home, []string{"-log-level", "none"}))

	admin := weavetest.NewCondition().Address()
	creator := weavetest.NewCondition().Address()
	dealer := weavetest.NewCondition().Address()

	// state is empty before genesis
	err := DeriveCmd(&out, home, []string{creator.String(), dealer.String(), "s3cret"})
	assert.True(t, errors.ErrState.Is(err), "got %+v", err)

	genesis := writeGenesis(t, home, "remitd-chain", admin.String(), creator.String())
	out.Reset()
	require.NoError(t, GenesisCmd(&out, home, []string{genesis}))
	assert.True(t, strings.HasPrefix(out.String(), "chain remitd-chain version 1 hash "), out.String())

	// the genesis is persisted and cannot be loaded twice
	err = GenesisCmd(&out, home, []string{genesis})
	assert.True(t, errors.ErrState.Is(err), "got %+v", err)

	out.Reset()
	require.NoError(t, QueryCmd(&out, home, []string{"-prefix", "/wallets"}))
	var wallets []jsonModel
	require.NoError(t, json.Unmarshal(out.Bytes(), &wallets))
	require.Len(t, wallets, 1)
	assert.True(t, strings.HasSuffix(wallets[0].Key, hex.EncodeToString(creator)))

	out.Reset()
	require.NoError(t, QueryCmd(&out, home, []string{"/wallets", hex.EncodeToString(dealer)}))
	assert.Equal(t, "[]\n", out.String())

	err = QueryCmd(&out, home, []string{"/nothing"})
	assert.True(t, errors.ErrNotFound.Is(err), "got %+v", err)

	out.Reset()
	require.NoError(t, DeriveCmd(&out, home, []string{creator.String(), dealer.String(), "s3cret"}))
	want := remittance.DerivePackageID(remittance.Instance("remitd-chain"), creator, dealer, "s3cret")
	assert.Equal(t, fmt.Sprintf("%X\n", want), out.String())
}

func TestCommandUsage(t *testing.T) {
	home, cleanup := tempHome(t)
	defer cleanup()
	var out bytes.Buffer

	cases := map[string]error{
		"genesis":       GenesisCmd(&out, home, nil),
		"query":         QueryCmd(&out, home, nil),
		"query bad key": QueryCmd(&out, home, []string{"/wallets", "xyz"}),
		"derive":        DeriveCmd(&out, home, []string{"a"}),
		"derive addr":   DeriveCmd(&out, home, []string{"zz", "zz", "secret"}),
	}
	for name, err := range cases {
		assert.True(t, errors.ErrInput.Is(err), "%s: got %+v", name, err)
	}
}
