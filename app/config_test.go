package app

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/remit/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) (string, func()) {
	t.Helper()
	dir, err := ioutil.TempDir("", "remit-config")
	require.NoError(t, err)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0600))
	return path, func() { os.RemoveAll(dir) }
}

func TestLoadConfig(t *testing.T) {
	path, cleanup := writeConfig(t, `
chain_id = "remit-local"
log_level = "debug"
debug_errors = true
`)
	defer cleanup()
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "remit-local", cfg.ChainID)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DebugErrors)
	// not in the file
	assert.Equal(t, "memdb", cfg.DBBackend)
	assert.Equal(t, "", cfg.Home)
}

func TestLoadConfigErrors(t *testing.T) {
	cases := map[string]string{
		"not toml":           `chain_id = `,
		"unknown backend":    `db_backend = "sqlite"`,
		"leveldb needs home": `db_backend = "goleveldb"`,
		"bad log level":      `log_level = "loud"`,
		"bad chain id":       `chain_id = "x"`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path, cleanup := writeConfig(t, content)
			defer cleanup()
			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.True(t, errors.ErrInput.Is(err), "got %+v", err)
		})
	}

	_, err := LoadConfig(filepath.Join(os.TempDir(), "no-such-remit-config.toml"))
	assert.True(t, errors.ErrInput.Is(err))
}

func TestConfigLogger(t *testing.T) {
	var out bytes.Buffer
	cfg := DefaultConfig()
	cfg.LogLevel = "error"
	logger, err := cfg.NewLogger(&out)
	require.NoError(t, err)

	logger.Info("hidden")
	assert.Equal(t, 0, out.Len())
	logger.Error("shown", "key", "value")
	assert.Contains(t, out.String(), "shown")
}
