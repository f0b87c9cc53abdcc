package breaker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/store"
	"github.com/iov-one/remit/weavetest"
	"github.com/iov-one/remit/weavetest/assert"
	"github.com/iov-one/remit/x/owner"
	. "github.com/smartystreets/goconvey/convey"
)

// router is a minimal registry for tests.
type router map[string]remit.Handler

func (r router) Handle(path string, h remit.Handler) { r[path] = h }

func setup(t testing.TB) (remit.CacheableKVStore, remit.Condition, *weavetest.CtxAuth, router) {
	t.Helper()
	db := store.MemStore()
	admin := weavetest.NewCondition()
	opts := remit.Options{"owner": json.RawMessage(`{"address": "` + admin.Address().String() + `"}`)}
	if err := (owner.Initializer{}).FromGenesis(opts, db); err != nil {
		t.Fatalf("cannot set owner: %s", err)
	}
	auth := &weavetest.CtxAuth{Key: "auth"}
	r := make(router)
	RegisterRoutes(r, auth)
	return db, admin, auth, r
}

func deliver(r router, ctx remit.Context, db remit.KVStore, msg remit.Msg) (*remit.DeliverResult, error) {
	return r[msg.Path()].Deliver(ctx, db, &weavetest.Tx{Msg: msg})
}

func TestBreakerLattice(t *testing.T) {
	Convey("Given an active breaker", t, func() {
		db, admin, auth, r := setup(t)
		ctx := auth.SetConditions(context.Background(), admin)

		s, err := GetState(db)
		So(err, ShouldBeNil)
		So(s, ShouldEqual, Active)
		So(RequireActive(db), ShouldBeNil)

		Convey("Resume and freeze are rejected", func() {
			_, err := deliver(r, ctx, db, &ResumeMsg{})
			So(errors.ErrState.Is(err), ShouldBeTrue)
			_, err = deliver(r, ctx, db, &FreezeMsg{})
			So(errors.ErrState.Is(err), ShouldBeTrue)
		})

		Convey("Only the owner can pause", func() {
			stranger := auth.SetConditions(context.Background(), weavetest.NewCondition())
			_, err := deliver(r, stranger, db, &PauseMsg{})
			So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)
		})

		Convey("When paused", func() {
			res, err := deliver(r, ctx, db, &PauseMsg{})
			So(err, ShouldBeNil)
			So(res.Events, ShouldResemble, []remit.Event{ContractPaused{PausedBy: admin.Address()}})

			paused, err := IsPaused(db)
			So(err, ShouldBeNil)
			So(paused, ShouldBeTrue)
			So(ErrNotActive.Is(RequireActive(db)), ShouldBeTrue)

			Convey("Only the owner can resume or freeze", func() {
				stranger := auth.SetConditions(context.Background(), weavetest.NewCondition())
				_, err := deliver(r, stranger, db, &ResumeMsg{})
				So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)
				_, err = deliver(r, stranger, db, &FreezeMsg{})
				So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)

				s, err := GetState(db)
				So(err, ShouldBeNil)
				So(s, ShouldEqual, Paused)
			})

			Convey("Pausing again is rejected", func() {
				_, err := deliver(r, ctx, db, &PauseMsg{})
				So(errors.ErrState.Is(err), ShouldBeTrue)
			})

			Convey("It can be resumed", func() {
				res, err := deliver(r, ctx, db, &ResumeMsg{})
				So(err, ShouldBeNil)
				So(res.Events, ShouldResemble, []remit.Event{ContractResumed{ResumedBy: admin.Address()}})
				So(RequireActive(db), ShouldBeNil)
			})

			Convey("It can be frozen for good", func() {
				res, err := deliver(r, ctx, db, &FreezeMsg{})
				So(err, ShouldBeNil)
				So(res.Events, ShouldResemble, []remit.Event{ContractFrozen{FrozenBy: admin.Address()}})

				frozen, err := IsFrozen(db)
				So(err, ShouldBeNil)
				So(frozen, ShouldBeTrue)
				paused, err := IsPaused(db)
				So(err, ShouldBeNil)
				So(paused, ShouldBeFalse)
				So(ErrNotActive.Is(RequireActive(db)), ShouldBeTrue)

				for _, msg := range []remit.Msg{&PauseMsg{}, &ResumeMsg{}, &FreezeMsg{}} {
					_, err := deliver(r, ctx, db, msg)
					So(errors.ErrState.Is(err), ShouldBeTrue)
				}
			})
		})
	})
}

func TestCheckDoesNotChangeState(t *testing.T) {
	db, admin, auth, r := setup(t)
	ctx := auth.SetConditions(context.Background(), admin)

	_, err := r[pathPauseMsg].Check(ctx, db, &weavetest.Tx{Msg: &PauseMsg{}})
	assert.Nil(t, err)
	assert.Nil(t, RequireActive(db))
}

func TestGenesisPaused(t *testing.T) {
	db := store.MemStore()
	opts := remit.Options{optKey: json.RawMessage(`{"paused": true}`)}
	assert.Nil(t, Initializer{}.FromGenesis(opts, db))
	paused, err := IsPaused(db)
	assert.Nil(t, err)
	assert.Equal(t, true, paused)

	db = store.MemStore()
	assert.Nil(t, Initializer{}.FromGenesis(remit.Options{}, db))
	assert.Nil(t, RequireActive(db))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "frozen", Frozen.String())
	assert.Equal(t, "State(9)", State(9).String())
	assert.IsErr(t, errors.ErrState, State(9).Validate())
}
