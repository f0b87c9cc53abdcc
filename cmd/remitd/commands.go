package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/iov-one/remit"
	"github.com/iov-one/remit/app"
	"github.com/iov-one/remit/errors"
)

const configFile = "config.toml"

func configPath(home string) string {
	return filepath.Join(home, configFile)
}

// InitCmd writes a configuration file persisting the state under home.
// An existing file is never overwritten.
func InitCmd(out io.Writer, home string, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	chainID := fs.String("chain-id", "", "chain id used when the genesis does not declare one")
	logLevel := fs.String("log-level", "info", "one of debug, info, error or none")
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	cfg := app.DefaultConfig()
	cfg.ChainID = *chainID
	cfg.Home = home
	cfg.DBBackend = "goleveldb"
	cfg.LogLevel = *logLevel
	if err := cfg.Validate(); err != nil {
		return err
	}

	path := configPath(home)
	if _, err := os.Stat(path); err == nil {
		return errors.Wrapf(errors.ErrDuplicate, "%s already exists", path)
	}
	if err := os.MkdirAll(home, 0755); err != nil {
		return errors.Wrap(err, "create home")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create config")
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return errors.Wrap(err, "encode config")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close config")
	}
	fmt.Fprintf(out, "Wrote %s\n", path)
	return nil
}

// openHost starts a host from the configuration stored under home. Logs
// go to stderr so that command output stays machine readable.
func openHost(home string) (*app.Host, error) {
	cfg, err := app.LoadConfig(configPath(home))
	if err != nil {
		return nil, err
	}
	if cfg.Home == "" {
		cfg.Home = home
	}
	return app.NewHost(cfg, app.WithLogOutput(os.Stderr))
}

// GenesisCmd loads the genesis file into the state and commits the first
// block.
func GenesisCmd(out io.Writer, home string, args []string) error {
	if len(args) != 1 {
		return errors.Wrap(errors.ErrInput, "Usage: remitd genesis <genesis.json>")
	}
	raw, err := ioutil.ReadFile(args[0])
	if err != nil {
		return errors.Wrap(err, "read genesis")
	}

	host, err := openHost(home)
	if err != nil {
		return err
	}
	defer host.Close()

	if err := host.InitChain(raw); err != nil {
		return err
	}
	id, err := host.Commit()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "chain %s version %d hash %X\n", host.ChainID(), id.Version, id.Hash)
	return nil
}

type jsonModel struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// QueryCmd prints the records found under a query path as JSON. The key
// is hex encoded.
func QueryCmd(out io.Writer, home string, args []string) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	prefix := fs.Bool("prefix", false, "treat the key as a prefix")
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		return errors.Wrap(errors.ErrInput, "Usage: remitd query [-prefix] <path> [hex key]")
	}
	var key []byte
	if fs.NArg() == 2 {
		k, err := hex.DecodeString(fs.Arg(1))
		if err != nil {
			return errors.Wrap(errors.ErrInput, "key must be hex encoded")
		}
		key = k
	}
	mod := remit.KeyQueryMod
	if *prefix {
		mod = remit.PrefixQueryMod
	}

	host, err := openHost(home)
	if err != nil {
		return err
	}
	defer host.Close()

	models, err := host.Query(fs.Arg(0), mod, key)
	if err != nil {
		return err
	}
	res := make([]jsonModel, len(models))
	for i, m := range models {
		res[i] = jsonModel{
			Key:   hex.EncodeToString(m.Key),
			Value: hex.EncodeToString(m.Value),
		}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// DeriveCmd prints the package identifier a creator would use for the
// given dealer and secret on the configured chain.
func DeriveCmd(out io.Writer, home string, args []string) error {
	if len(args) != 3 {
		return errors.Wrap(errors.ErrInput, "Usage: remitd derive <creator> <dealer> <secret>")
	}
	creator, err := remit.ParseAddress(args[0])
	if err != nil {
		return errors.Wrap(err, "creator")
	}
	dealer, err := remit.ParseAddress(args[1])
	if err != nil {
		return errors.Wrap(err, "dealer")
	}

	host, err := openHost(home)
	if err != nil {
		return err
	}
	defer host.Close()
	if host.ChainID() == "" {
		return errors.Wrap(errors.ErrState, "genesis not loaded")
	}

	fmt.Fprintf(out, "%X\n", host.DerivePackageID(creator, dealer, args[2]))
	return nil
}
