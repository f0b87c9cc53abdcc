package app

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/weavetest"
	"github.com/iov-one/remit/x/breaker"
	"github.com/iov-one/remit/x/cash"
	"github.com/iov-one/remit/x/owner"
	"github.com/iov-one/remit/x/remittance"
	"github.com/iov-one/remit/x/utils"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tendermint/libs/db"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	testChainID = "remit-test"
	secret      = "the eagle lands at dawn"
)

type testEnv struct {
	host *Host
	sink *weavetest.RecordingSink

	admin   remit.Condition
	creator remit.Condition
	dealer  remit.Condition
}

func genesisFor(admin, creator remit.Condition) []byte {
	return []byte(fmt.Sprintf(`{
		"chain_id": %q,
		"app_state": {
			"owner": {"address": %q},
			"cash": [{"address": %q, "amount": 1000}]
		}
	}`, testChainID, admin.Address().String(), creator.Address().String()))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		sink:    &weavetest.RecordingSink{},
		admin:   weavetest.NewCondition(),
		creator: weavetest.NewCondition(),
		dealer:  weavetest.NewCondition(),
	}
	h, err := NewHost(DefaultConfig(),
		WithLogger(log.NewNopLogger()),
		WithDB(dbm.NewMemDB()),
		WithEventSink(env.sink),
	)
	require.NoError(t, err)
	require.NoError(t, h.InitChain(genesisFor(env.admin, env.creator)))
	_, err = h.Commit()
	require.NoError(t, err)
	env.host = h
	return env
}

// advanceTo commits blocks until the host builds the given height.
func (e *testEnv) advanceTo(t *testing.T, height int64) {
	t.Helper()
	for e.host.Height() < height {
		_, err := e.host.Commit()
		require.NoError(t, err)
	}
	require.Equal(t, height, e.host.Height())
}

func (e *testEnv) balance(t *testing.T, addr remit.Address) uint64 {
	t.Helper()
	res, err := e.host.Query("/wallets", remit.KeyQueryMod, addr)
	require.NoError(t, err)
	if len(res) == 0 {
		return 0
	}
	var w cash.Wallet
	require.NoError(t, w.Unmarshal(res[0].Value))
	return w.Amount
}

func (e *testEnv) pkg(t *testing.T, id []byte) remittance.Package {
	t.Helper()
	res, err := e.host.Query("/packages", remit.KeyQueryMod, id)
	require.NoError(t, err)
	require.Len(t, res, 1)
	var p remittance.Package
	require.NoError(t, p.Unmarshal(res[0].Value))
	return p
}

// create funds a package of 100 with a window of 10 at the current height.
func (e *testEnv) create(t *testing.T) []byte {
	t.Helper()
	id := e.host.DerivePackageID(e.creator.Address(), e.dealer.Address(), secret)
	res, err := e.host.Deliver(e.creator, &remittance.CreatePackageMsg{
		Dealer:    e.dealer.Address(),
		PackageID: id,
		Window:    10,
		Amount:    100,
	})
	require.NoError(t, err)
	require.Equal(t, id, res.Data)
	return id
}

func TestScenarioClaimBeforeDeadline(t *testing.T) {
	env := newTestEnv(t)
	start := env.host.Height()
	id := env.create(t)
	assert.Equal(t, uint64(900), env.balance(t, env.creator.Address()))

	env.advanceTo(t, start+10)
	_, err := env.host.Deliver(env.dealer, &remittance.ClaimPackageMsg{PackageID: id, Secret: secret})
	require.NoError(t, err)

	assert.Equal(t, uint64(100), env.balance(t, env.dealer.Address()))
	assert.Equal(t, uint64(900), env.balance(t, env.creator.Address()))
	assert.False(t, env.pkg(t, id).IsActive)

	events := env.sink.Events()
	require.Len(t, events, 2)
	assert.Equal(t, remittance.PackageClaimed{
		Dealer:    env.dealer.Address(),
		Amount:    100,
		PackageID: id,
	}, events[1])
}

func TestScenarioCancelAfterDeadline(t *testing.T) {
	env := newTestEnv(t)
	start := env.host.Height()
	id := env.create(t)

	env.advanceTo(t, start+10)
	_, err := env.host.Deliver(env.creator, &remittance.CancelPackageMsg{PackageID: id})
	assert.True(t, errors.ErrNotYetExpired.Is(err), "got %+v", err)

	env.advanceTo(t, start+11)
	_, err = env.host.Deliver(env.dealer, &remittance.ClaimPackageMsg{PackageID: id, Secret: secret})
	assert.True(t, errors.ErrExpired.Is(err), "got %+v", err)
	_, err = env.host.Deliver(env.creator, &remittance.CancelPackageMsg{PackageID: id})
	require.NoError(t, err)

	assert.Equal(t, uint64(1000), env.balance(t, env.creator.Address()))
	assert.Equal(t, uint64(0), env.balance(t, env.dealer.Address()))
	assert.False(t, env.pkg(t, id).IsActive)
	assert.Equal(t, []string{"PackageCreated", "PackageCancelled"}, env.sink.Names())
}

func TestScenarioPause(t *testing.T) {
	env := newTestEnv(t)
	id := env.create(t)

	_, err := env.host.Deliver(env.admin, &breaker.PauseMsg{})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = env.host.Deliver(env.dealer, &remittance.ClaimPackageMsg{PackageID: id, Secret: secret})
		assert.True(t, breaker.ErrNotActive.Is(err), "claim: got %+v", err)
		_, err = env.host.Deliver(env.creator, &remittance.CancelPackageMsg{PackageID: id})
		assert.True(t, breaker.ErrNotActive.Is(err), "cancel: got %+v", err)
		other := env.host.DerivePackageID(env.creator.Address(), env.dealer.Address(), "another")
		_, err = env.host.Deliver(env.creator, &remittance.CreatePackageMsg{
			Dealer: env.dealer.Address(), PackageID: other, Window: 1, Amount: 1,
		})
		assert.True(t, breaker.ErrNotActive.Is(err), "create: got %+v", err)

		_, err = env.host.Commit()
		require.NoError(t, err)
	}

	_, err = env.host.Deliver(env.admin, &breaker.ResumeMsg{})
	require.NoError(t, err)
	_, err = env.host.Deliver(env.dealer, &remittance.ClaimPackageMsg{PackageID: id, Secret: secret})
	require.NoError(t, err)

	assert.Equal(t, []string{"PackageCreated", "ContractPaused", "ContractResumed", "PackageClaimed"}, env.sink.Names())
}

func TestScenarioFreeze(t *testing.T) {
	env := newTestEnv(t)
	id := env.create(t)

	_, err := env.host.Deliver(env.admin, &breaker.PauseMsg{})
	require.NoError(t, err)
	_, err = env.host.Deliver(env.admin, &breaker.FreezeMsg{})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = env.host.Deliver(env.admin, &breaker.ResumeMsg{})
		assert.True(t, errors.ErrState.Is(err), "got %+v", err)
		_, err = env.host.Commit()
		require.NoError(t, err)
	}

	env.advanceTo(t, env.host.Height()+20)
	_, err = env.host.Deliver(env.creator, &remittance.CancelPackageMsg{PackageID: id})
	assert.True(t, breaker.ErrNotActive.Is(err), "got %+v", err)
	// frozen deposits stay in custody
	assert.Equal(t, uint64(100), env.balance(t, remittance.PackageAddr(id)))

	// the administration can still be handed over
	heir := weavetest.NewCondition()
	_, err = env.host.Deliver(env.admin, &owner.TransferOwnershipMsg{NewOwner: heir.Address()})
	require.NoError(t, err)
	_, err = env.host.Deliver(heir, &breaker.ResumeMsg{})
	assert.True(t, errors.ErrState.Is(err), "got %+v", err)
}

func TestFailedDeliveryHasNoEffect(t *testing.T) {
	env := newTestEnv(t)
	id := env.create(t)
	env.sink.Reset()

	_, err := env.host.Deliver(env.dealer, &remittance.ClaimPackageMsg{PackageID: id, Secret: "wrong"})
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %+v", err)
	assert.Empty(t, env.sink.Events())
	assert.True(t, env.pkg(t, id).IsActive)

	_, err = env.host.Deliver(nil, &remittance.CancelPackageMsg{PackageID: id})
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %+v", err)

	_, err = env.host.Deliver(env.dealer, &weavetest.Msg{RoutePath: "nothing/here"})
	assert.True(t, errors.ErrNotFound.Is(err), "got %+v", err)

	assert.Equal(t, 2.0, testutil.ToFloat64(env.host.metrics.failed.WithLabelValues("remittance/claim", "2"))+
		testutil.ToFloat64(env.host.metrics.failed.WithLabelValues("remittance/cancel", "2")))
}

func TestRejectionsAreLogged(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "debug"
	var out bytes.Buffer
	h, err := NewHost(cfg, WithLogOutput(&out), WithDB(dbm.NewMemDB()))
	require.NoError(t, err)
	defer h.Close()
	admin, creator := weavetest.NewCondition(), weavetest.NewCondition()
	require.NoError(t, h.InitChain(genesisFor(admin, creator)))
	_, err = h.Commit()
	require.NoError(t, err)

	out.Reset()
	_, err = h.Check(creator, &breaker.PauseMsg{})
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %+v", err)
	assert.Contains(t, out.String(), "tx rejected")
	assert.Contains(t, out.String(), "call=check_tx")
	assert.Contains(t, out.String(), "code=2")

	out.Reset()
	missing := h.DerivePackageID(creator.Address(), admin.Address(), secret)
	_, err = h.Deliver(admin, &remittance.ClaimPackageMsg{PackageID: missing, Secret: secret})
	assert.True(t, errors.ErrNotFound.Is(err), "got %+v", err)
	assert.Contains(t, out.String(), "call=deliver_tx")
	assert.Contains(t, out.String(), "code=3")
}

func TestDeliverResultTags(t *testing.T) {
	env := newTestEnv(t)
	id := env.host.DerivePackageID(env.creator.Address(), env.dealer.Address(), secret)
	res, err := env.host.Deliver(env.creator, &remittance.CreatePackageMsg{
		Dealer: env.dealer.Address(), PackageID: id, Window: 10, Amount: 100,
	})
	require.NoError(t, err)
	require.Len(t, res.Tags, 2)
	assert.Equal(t, utils.ActionKey, string(res.Tags[0].Key))
	assert.Equal(t, "remittance/create", string(res.Tags[0].Value))
	assert.Equal(t, "PackageCreated", string(res.Tags[1].Value))
}

func TestCheckKeepsNoState(t *testing.T) {
	env := newTestEnv(t)
	id := env.host.DerivePackageID(env.creator.Address(), env.dealer.Address(), secret)
	msg := &remittance.CreatePackageMsg{Dealer: env.dealer.Address(), PackageID: id, Window: 10, Amount: 100}

	_, err := env.host.Check(env.creator, msg)
	require.NoError(t, err)
	res, err := env.host.Query("/packages", remit.KeyQueryMod, id)
	require.NoError(t, err)
	assert.Empty(t, res)
	assert.Equal(t, uint64(1000), env.balance(t, env.creator.Address()))
	assert.Empty(t, env.sink.Events())

	_, err = env.host.Check(env.dealer, msg)
	assert.True(t, errors.ErrInput.Is(err), "self-dealing: got %+v", err)
}

func TestMetrics(t *testing.T) {
	env := newTestEnv(t)
	id := env.create(t)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.host.metrics.packages))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.host.metrics.delivered.WithLabelValues("remittance/create")))

	_, err := env.host.Deliver(env.dealer, &remittance.ClaimPackageMsg{PackageID: id, Secret: secret})
	require.NoError(t, err)
	assert.Equal(t, 0.0, testutil.ToFloat64(env.host.metrics.packages))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.host.metrics.delivered.WithLabelValues("remittance/claim")))
}

func TestQueries(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.host.Query("/owner", remit.KeyQueryMod, []byte("admin"))
	require.NoError(t, err)
	require.Len(t, res, 1)
	var rec owner.Record
	require.NoError(t, rec.Unmarshal(res[0].Value))
	assert.Equal(t, env.admin.Address(), rec.Owner)

	res, err = env.host.Query("/breaker", remit.KeyQueryMod, []byte("state"))
	require.NoError(t, err)
	assert.Empty(t, res)

	env.create(t)
	res, err = env.host.Query("/packages", remit.PrefixQueryMod, nil)
	require.NoError(t, err)
	assert.Len(t, res, 1)

	_, err = env.host.Query("/nothing", remit.KeyQueryMod, nil)
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = env.host.Query("/packages", "range", nil)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestInitChain(t *testing.T) {
	admin := weavetest.NewCondition()
	creator := weavetest.NewCondition()

	cases := map[string]struct {
		configured string
		genesis    []byte
		wantErr    *errors.Error
		wantChain  string
	}{
		"valid genesis": {
			genesis:   genesisFor(admin, creator),
			wantChain: testChainID,
		},
		"chain id from config": {
			configured: "remit-configured",
			genesis:    []byte(`{"app_state": {"owner": {"address": "` + admin.Address().String() + `"}}}`),
			wantChain:  "remit-configured",
		},
		"chain id mismatch": {
			configured: "remit-configured",
			genesis:    genesisFor(admin, creator),
			wantErr:    errors.ErrInput,
		},
		"empty genesis": {
			wantErr: errors.ErrEmpty,
		},
		"malformed genesis": {
			genesis: []byte(`{"chain_id": `),
			wantErr: errors.ErrInput,
		},
		"missing owner": {
			genesis: []byte(`{"chain_id": "remit-test", "app_state": {"cash": []}}`),
			wantErr: errors.ErrEmpty,
		},
		"invalid chain id": {
			genesis: []byte(`{"chain_id": "x", "app_state": {"owner": {"address": "` + admin.Address().String() + `"}}}`),
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ChainID = tc.configured
			h, err := NewHost(cfg, WithLogger(log.NewNopLogger()), WithDB(dbm.NewMemDB()))
			require.NoError(t, err)

			err = h.InitChain(tc.genesis)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %+v", err)
				assert.Equal(t, "", h.ChainID())
				_, err = h.Deliver(admin, &breaker.PauseMsg{})
				assert.True(t, errors.ErrState.Is(err), "got %+v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantChain, h.ChainID())

			err = h.InitChain(tc.genesis)
			assert.True(t, errors.ErrState.Is(err), "got %+v", err)
		})
	}
}

func TestHostPersistence(t *testing.T) {
	home, err := ioutil.TempDir("", "remit-host")
	require.NoError(t, err)
	defer os.RemoveAll(home)

	cfg := DefaultConfig()
	cfg.Home = home
	cfg.DBBackend = "goleveldb"
	admin := weavetest.NewCondition()
	creator := weavetest.NewCondition()
	dealer := weavetest.NewCondition()

	h, err := NewHost(cfg, WithLogger(log.NewNopLogger()))
	require.NoError(t, err)
	require.NoError(t, h.InitChain(genesisFor(admin, creator)))
	_, err = h.Commit()
	require.NoError(t, err)

	id := h.DerivePackageID(creator.Address(), dealer.Address(), secret)
	_, err = h.Deliver(creator, &remittance.CreatePackageMsg{
		Dealer: dealer.Address(), PackageID: id, Window: 5, Amount: 10,
	})
	require.NoError(t, err)
	committed, err := h.Commit()
	require.NoError(t, err)

	// delivered but never committed
	_, err = h.Deliver(admin, &breaker.PauseMsg{})
	require.NoError(t, err)
	require.NoError(t, h.Close())

	h, err = NewHost(cfg, WithLogger(log.NewNopLogger()))
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, testChainID, h.ChainID())
	assert.Equal(t, committed.Version+1, h.Height())
	res, err := h.Query("/packages", remit.KeyQueryMod, id)
	require.NoError(t, err)
	assert.Len(t, res, 1)
	res, err = h.Query("/breaker", remit.KeyQueryMod, []byte("state"))
	require.NoError(t, err)
	assert.Empty(t, res)

	err = h.InitChain(genesisFor(admin, creator))
	assert.True(t, errors.ErrState.Is(err), "got %+v", err)

	// the package created before the restart is counted
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.packages))
	_, err = h.Deliver(dealer, &remittance.ClaimPackageMsg{PackageID: id, Secret: secret})
	require.NoError(t, err)
	assert.Equal(t, 0.0, testutil.ToFloat64(h.metrics.packages))
}
