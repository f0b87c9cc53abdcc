package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/store/iavl"
	"github.com/iov-one/remit/x/breaker"
	"github.com/iov-one/remit/x/cash"
	"github.com/iov-one/remit/x/owner"
	"github.com/iov-one/remit/x/remittance"
	"github.com/iov-one/remit/x/utils"
	"github.com/prometheus/client_golang/prometheus"
	dbm "github.com/tendermint/tendermint/libs/db"
	"github.com/tendermint/tendermint/libs/log"
)

// dbName is the name of the database inside the home directory.
const dbName = "remit"

// Host runs the escrow in process. It plays the role of the execution
// host: it declares the caller and the block height of every operation
// and runs one operation at a time.
//
// Operations delivered in a block are written to the persistent store
// on Commit, which also moves to the next height.
type Host struct {
	mu sync.Mutex

	cfg     Config
	logger  log.Logger
	db      dbm.DB
	store   *CommitStore
	handler remit.Handler
	init    remit.Initializer
	queries remit.QueryRouter
	sink    remit.EventSink
	metrics *Metrics

	chainID string
	// height of the block being built
	height int64
}

// Option configures a Host.
type Option func(*hostOptions)

type hostOptions struct {
	logger   log.Logger
	logOut   io.Writer
	db       dbm.DB
	sink     remit.EventSink
	registry prometheus.Registerer
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger log.Logger) Option {
	return func(o *hostOptions) { o.logger = logger }
}

// WithLogOutput sets where the configured logger writes, stdout by
// default.
func WithLogOutput(out io.Writer) Option {
	return func(o *hostOptions) { o.logOut = out }
}

// WithDB uses an already opened database instead of the configured one.
func WithDB(db dbm.DB) Option {
	return func(o *hostOptions) { o.db = db }
}

// WithEventSink sets the sink receiving the events of delivered
// transactions.
func WithEventSink(sink remit.EventSink) Option {
	return func(o *hostOptions) { o.sink = sink }
}

// WithRegistry registers the host metrics with reg instead of a private
// registry.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(o *hostOptions) { o.registry = reg }
}

// NewHost opens the state and wires all extensions together.
func NewHost(cfg Config, opts ...Option) (*Host, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config")
	}
	o := hostOptions{
		logOut:   os.Stdout,
		sink:     remit.NopSink{},
		registry: prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		l, err := cfg.NewLogger(o.logOut)
		if err != nil {
			return nil, err
		}
		logger = l
	}
	db := o.db
	if db == nil {
		d, err := iavl.OpenDB(cfg.DBBackend, cfg.Home, dbName)
		if err != nil {
			return nil, err
		}
		db = d
	}
	store, err := NewCommitStore(iavl.NewCommitStore(db))
	if err != nil {
		return nil, err
	}
	metrics, err := NewMetrics(o.registry)
	if err != nil {
		return nil, err
	}
	if err := metrics.seed(store.DeliverStore()); err != nil {
		return nil, err
	}

	h := &Host{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		store:   store,
		handler: Stack(Authenticate{}),
		init: ChainInitializers(
			owner.Initializer{},
			breaker.Initializer{},
			cash.Initializer{},
			remittance.Initializer{},
		),
		queries: QueryRouter(),
		sink:    o.sink,
		metrics: metrics,
	}

	if h.chainID, err = loadChainID(store.DeliverStore()); err != nil {
		return nil, err
	}
	info, err := store.CommitInfo()
	if err != nil {
		return nil, err
	}
	h.height = info.Version + 1
	logger.Info("host started", "chain_id", h.chainID, "height", h.height, "hash", fmt.Sprintf("%X", info.Hash))
	return h, nil
}

// Stack returns the handler processing every transaction: the
// middlewares followed by the router of all extensions.
func Stack(auth Authenticate) remit.Handler {
	r := NewRouter()
	owner.RegisterRoutes(r, auth)
	breaker.RegisterRoutes(r, auth)
	remittance.RegisterRoutes(r, auth, cash.NewController(cash.NewBucket()))

	return ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewActionTagger(),
		utils.NewSavepoint().OnDeliver(),
	).WithHandler(r)
}

// QueryRouter returns a router serving every bucket of the escrow.
func QueryRouter() remit.QueryRouter {
	qr := remit.NewQueryRouter()
	qr.RegisterAll(
		cash.RegisterQuery,
		owner.RegisterQuery,
		breaker.RegisterQuery,
		remittance.RegisterQuery,
	)
	return qr
}

// InitChain loads the genesis document. It can only be called once in
// the lifetime of the state.
func (h *Host) InitChain(genesis []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.chainID != "" {
		return errors.Wrapf(errors.ErrState, "genesis previously loaded for chain %s", h.chainID)
	}
	gen, err := parseGenesis(genesis, h.cfg.ChainID)
	if err != nil {
		return err
	}

	cache := h.store.DeliverStore().CacheWrap()
	if err := saveChainID(cache, gen.ChainID); err != nil {
		cache.Discard()
		return err
	}
	if err := h.init.FromGenesis(gen.AppState, cache); err != nil {
		cache.Discard()
		return errors.Wrap(err, "genesis")
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write genesis")
	}
	h.chainID = gen.ChainID
	h.logger.Info("genesis loaded", "chain_id", h.chainID)
	return nil
}

// context returns the context of an operation of caller in the current
// block.
func (h *Host) context(caller remit.Condition, call string, tx remit.Tx) remit.Context {
	ctx := remit.WithLogger(remit.WithChainID(remit.WithHeight(context.Background(), h.height), h.chainID), h.logger)
	ctx = remit.WithLogInfo(ctx, "call", call, "path", remit.GetPath(tx))
	if caller != nil {
		ctx = withSigners(ctx, caller)
	}
	return ctx
}

func (h *Host) requireChain() error {
	if h.chainID == "" {
		return errors.Wrap(errors.ErrState, "genesis not loaded")
	}
	return nil
}

// Check runs msg on behalf of caller without keeping any state change.
func (h *Host) Check(caller remit.Condition, msg remit.Msg) (*remit.CheckResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.requireChain(); err != nil {
		return nil, err
	}
	tx := &Tx{Msg: msg}
	cache := h.store.CheckStore()
	defer cache.Discard()

	res, err := h.handler.Check(h.context(caller, "check_tx", tx), cache, tx)
	if err != nil {
		return nil, h.reject("check_tx", tx, err)
	}
	return res, nil
}

// Deliver executes msg on behalf of caller in the current block. Either
// all of its changes are kept or none is. The events of a successful
// operation are sent to the sink once its changes are written.
func (h *Host) Deliver(caller remit.Condition, msg remit.Msg) (*remit.DeliverResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.requireChain(); err != nil {
		return nil, err
	}
	tx := &Tx{Msg: msg}
	res, err := h.handler.Deliver(h.context(caller, "deliver_tx", tx), h.store.DeliverStore(), tx)
	h.metrics.observe(remit.GetPath(tx), res, err)
	if err != nil {
		return nil, h.reject("deliver_tx", tx, err)
	}
	for _, e := range res.Events {
		h.sink.Emit(e)
	}
	return res, nil
}

// reject logs the code and message reported to the caller and returns
// the error as the caller may see it.
func (h *Host) reject(call string, tx remit.Tx, err error) error {
	code, msg := errors.ABCIInfo(err, h.cfg.DebugErrors)
	h.logger.Debug("tx rejected", "call", call, "path", remit.GetPath(tx), "code", code, "log", msg)
	return errors.Redact(err, h.cfg.DebugErrors)
}

// Commit persists the current block and starts the next one.
func (h *Host) Commit() (remit.CommitID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id, err := h.store.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit")
	}
	h.height = id.Version + 1
	h.logger.Debug("commit synced", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return id, nil
}

// Query reads from the state of the current block. Path is the bucket
// path, for example "/packages", mod is "" for a key lookup or "prefix".
func (h *Host) Query(path, mod string, data []byte) ([]remit.Model, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	qh := h.queries.Handler(path)
	if qh == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "no query handler for path %q", path)
	}
	res, err := qh.Query(h.store.DeliverStore(), mod, data)
	if err != nil {
		return nil, errors.Redact(err, h.cfg.DebugErrors)
	}
	return res, nil
}

// Height returns the height of the block being built.
func (h *Host) Height() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.height
}

// ChainID returns the chain loaded from genesis, empty before InitChain.
func (h *Host) ChainID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.chainID
}

// DerivePackageID returns the identifier creator has to use to fund a
// package for dealer with the given secret on this escrow.
func (h *Host) DerivePackageID(creator, dealer remit.Address, secret string) []byte {
	return remittance.DerivePackageID(remittance.Instance(h.ChainID()), creator, dealer, secret)
}

// Close releases the database.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.db.Close()
	return nil
}
