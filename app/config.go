package app

import (
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Config of a Host.
type Config struct {
	// ChainID is used when the genesis does not declare one.
	ChainID string `toml:"chain_id"`
	// Home is the directory holding the database.
	Home string `toml:"home"`
	// DBBackend is either "memdb" or "goleveldb".
	DBBackend string `toml:"db_backend"`
	// LogLevel is one of debug, info, error or none.
	LogLevel string `toml:"log_level"`
	// DebugErrors returns internal error details to the caller.
	DebugErrors bool `toml:"debug_errors"`
}

// DefaultConfig keeps everything in memory.
func DefaultConfig() Config {
	return Config{
		DBBackend: "memdb",
		LogLevel:  "info",
	}
}

// LoadConfig reads a TOML file. Keys missing from the file keep their
// default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	var raw Config
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return cfg, errors.Wrapf(errors.ErrInput, "load config %s: %s", path, err)
	}
	if meta.IsDefined("chain_id") {
		cfg.ChainID = strings.TrimSpace(raw.ChainID)
	}
	if meta.IsDefined("home") {
		cfg.Home = strings.TrimSpace(raw.Home)
	}
	if meta.IsDefined("db_backend") {
		cfg.DBBackend = strings.TrimSpace(raw.DBBackend)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("debug_errors") {
		cfg.DebugErrors = raw.DebugErrors
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Validate returns an error for unsupported values.
func (c Config) Validate() error {
	if c.ChainID != "" && !remit.IsValidChainID(c.ChainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %q", c.ChainID)
	}
	switch c.DBBackend {
	case "memdb":
	case "goleveldb":
		if c.Home == "" {
			return errors.Wrap(errors.ErrInput, "goleveldb requires a home directory")
		}
	default:
		return errors.Wrapf(errors.ErrInput, "db backend: %q", c.DBBackend)
	}
	if _, err := log.AllowLevel(c.LogLevel); err != nil {
		return errors.Wrapf(errors.ErrInput, "log level: %s", err)
	}
	return nil
}

// NewLogger returns a logger writing to out, filtered by the configured
// level.
func (c Config) NewLogger(out io.Writer) (log.Logger, error) {
	level, err := log.AllowLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "log level: %s", err)
	}
	return log.NewFilter(log.NewTMLogger(log.NewSyncWriter(out)), level), nil
}
