package remittance

import (
	"bytes"
	"fmt"
	"math"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/gconf"
	"github.com/iov-one/remit/x"
	"github.com/iov-one/remit/x/breaker"
	"github.com/iov-one/remit/x/cash"
	"github.com/iov-one/remit/x/owner"
)

// RegisterRoutes registers the ledger handlers and the configuration
// update handler.
func RegisterRoutes(r remit.Registry, auth x.Authenticator, ctrl cash.Controller) {
	bucket := NewBucket()
	r.Handle(pathCreatePackageMsg, CreatePackageHandler{auth: auth, bucket: bucket, bank: ctrl})
	r.Handle(pathClaimPackageMsg, ClaimPackageHandler{auth: auth, bucket: bucket, bank: ctrl})
	r.Handle(pathCancelPackageMsg, CancelPackageHandler{auth: auth, bucket: bucket, bank: ctrl})
	r.Handle(pathUpdateConfigurationMsg,
		gconf.NewUpdateConfigurationHandler(packageName, &Configuration{}, auth, owner.GetOwner))
}

// RegisterQuery exposes the packages under /packages
func RegisterQuery(qr remit.QueryRouter) {
	NewBucket().Register("packages", qr)
}

// loadConf returns the stored configuration, the zero one when the
// genesis did not declare any.
func loadConf(db gconf.ReadStore) (Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, packageName, &conf); err != nil && !errors.ErrNotFound.Is(err) {
		return conf, errors.Wrap(err, "load configuration")
	}
	return conf, nil
}

func currentHeight(ctx remit.Context) (int64, error) {
	height, ok := remit.GetHeight(ctx)
	if !ok {
		return 0, errors.Wrap(errors.ErrHuman, "block height not set")
	}
	return height, nil
}

// CreatePackageHandler locks a deposit for a dealer.
type CreatePackageHandler struct {
	auth   x.Authenticator
	bucket Bucket
	bank   cash.Controller
}

var _ remit.Handler = CreatePackageHandler{}

// Check validates the message and that the caller can fund the deposit.
func (h CreatePackageHandler) Check(ctx remit.Context, db remit.KVStore, tx remit.Tx) (*remit.CheckResult, error) {
	msg, pkg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	have, err := h.bank.Balance(db, pkg.Creator)
	if err != nil {
		return nil, err
	}
	if have < msg.Amount {
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "have %d, need %d", have, msg.Amount)
	}
	return &remit.CheckResult{Data: msg.PackageID}, nil
}

// Deliver records the package and moves the deposit into its custody
// account.
func (h CreatePackageHandler) Deliver(ctx remit.Context, db remit.KVStore, tx remit.Tx) (*remit.DeliverResult, error) {
	msg, pkg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.bucket.savePackage(db, msg.PackageID, pkg); err != nil {
		return nil, errors.Wrap(err, "save package")
	}
	if err := h.bank.MoveCoins(db, pkg.Creator, PackageAddr(msg.PackageID), pkg.Amount); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}

	remit.GetLogger(ctx).Info("package created",
		"package", fmt.Sprintf("%X", msg.PackageID), "creator", pkg.Creator, "dealer", pkg.Dealer,
		"amount", pkg.Amount, "valid_until", pkg.ValidUntilHeight)
	return &remit.DeliverResult{
		Data: msg.PackageID,
		Events: []remit.Event{PackageCreated{
			Owner:     pkg.Creator,
			Dealer:    pkg.Dealer,
			Amount:    pkg.Amount,
			PackageID: msg.PackageID,
		}},
	}, nil
}

// validate does all common pre-processing between Check and Deliver and
// returns the package to be stored.
func (h CreatePackageHandler) validate(ctx remit.Context, db remit.KVStore, tx remit.Tx) (*CreatePackageMsg, *Package, error) {
	if err := breaker.RequireActive(db); err != nil {
		return nil, nil, err
	}
	var msg CreatePackageMsg
	if err := remit.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := x.Caller(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	if msg.Dealer.Equals(caller) {
		return nil, nil, errors.Wrap(errors.ErrInput, "self-dealing")
	}
	taken, err := h.bucket.Occupied(db, msg.PackageID)
	if err != nil {
		return nil, nil, err
	}
	if taken {
		return nil, nil, errors.Wrap(errors.ErrDuplicate, "identifier reuse")
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, err
	}
	if conf.MaxWindow > 0 && msg.Window > uint64(conf.MaxWindow) {
		return nil, nil, errors.Wrapf(errors.ErrInput, "window %d above maximum %d", msg.Window, conf.MaxWindow)
	}
	height, err := currentHeight(ctx)
	if err != nil {
		return nil, nil, err
	}
	if msg.Window > uint64(math.MaxInt64-height) {
		return nil, nil, errors.Wrapf(errors.ErrInput, "window %d overflows the height", msg.Window)
	}

	pkg := &Package{
		Creator:          caller,
		Dealer:           msg.Dealer,
		Amount:           msg.Amount,
		ValidUntilHeight: height + int64(msg.Window),
		IsActive:         true,
	}
	return &msg, pkg, nil
}

// ClaimPackageHandler pays the deposit out to the dealer that knows the
// secret.
type ClaimPackageHandler struct {
	auth   x.Authenticator
	bucket Bucket
	bank   cash.Controller
}

var _ remit.Handler = ClaimPackageHandler{}

func (h ClaimPackageHandler) Check(ctx remit.Context, db remit.KVStore, tx remit.Tx) (*remit.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &remit.CheckResult{}, nil
}

// Deliver closes the package and moves the whole amount to the dealer.
func (h ClaimPackageHandler) Deliver(ctx remit.Context, db remit.KVStore, tx remit.Tx) (*remit.DeliverResult, error) {
	msg, pkg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	pkg.IsActive = false
	if err := h.bucket.savePackage(db, msg.PackageID, pkg); err != nil {
		return nil, errors.Wrap(err, "save package")
	}
	if err := h.bank.MoveCoins(db, PackageAddr(msg.PackageID), pkg.Dealer, pkg.Amount); err != nil {
		return nil, errors.Wrap(err, "payout")
	}

	remit.GetLogger(ctx).Info("package claimed", "package", fmt.Sprintf("%X", msg.PackageID), "dealer", pkg.Dealer, "amount", pkg.Amount)
	return &remit.DeliverResult{
		Events: []remit.Event{PackageClaimed{
			Dealer:    pkg.Dealer,
			Amount:    pkg.Amount,
			PackageID: msg.PackageID,
		}},
	}, nil
}

func (h ClaimPackageHandler) validate(ctx remit.Context, db remit.KVStore, tx remit.Tx) (*ClaimPackageMsg, *Package, error) {
	if err := breaker.RequireActive(db); err != nil {
		return nil, nil, err
	}
	var msg ClaimPackageMsg
	if err := remit.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := x.Caller(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	pkg, err := loadActive(h.bucket, db, msg.PackageID)
	if err != nil {
		return nil, nil, err
	}
	if !pkg.Dealer.Equals(caller) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "caller is not the dealer")
	}
	height, err := currentHeight(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !pkg.Claimable(height) {
		return nil, nil, errors.Wrapf(errors.ErrExpired, "package expired at height %d", pkg.ValidUntilHeight)
	}
	// The identifier commits to the secret, recomputing it with the
	// caller as dealer proves knowledge of it.
	if !bytes.Equal(PackageID(ctx, pkg.Creator, caller, msg.Secret), msg.PackageID) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "wrong secret")
	}
	return &msg, pkg, nil
}

// CancelPackageHandler returns an expired deposit to its creator.
type CancelPackageHandler struct {
	auth   x.Authenticator
	bucket Bucket
	bank   cash.Controller
}

var _ remit.Handler = CancelPackageHandler{}

func (h CancelPackageHandler) Check(ctx remit.Context, db remit.KVStore, tx remit.Tx) (*remit.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &remit.CheckResult{}, nil
}

// Deliver closes the package and refunds the creator.
func (h CancelPackageHandler) Deliver(ctx remit.Context, db remit.KVStore, tx remit.Tx) (*remit.DeliverResult, error) {
	msg, pkg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	pkg.IsActive = false
	if err := h.bucket.savePackage(db, msg.PackageID, pkg); err != nil {
		return nil, errors.Wrap(err, "save package")
	}
	if err := h.bank.MoveCoins(db, PackageAddr(msg.PackageID), pkg.Creator, pkg.Amount); err != nil {
		return nil, errors.Wrap(err, "refund")
	}

	remit.GetLogger(ctx).Info("package cancelled", "package", fmt.Sprintf("%X", msg.PackageID), "creator", pkg.Creator, "amount", pkg.Amount)
	return &remit.DeliverResult{
		Events: []remit.Event{PackageCancelled{
			Owner:     pkg.Creator,
			PackageID: msg.PackageID,
		}},
	}, nil
}

func (h CancelPackageHandler) validate(ctx remit.Context, db remit.KVStore, tx remit.Tx) (*CancelPackageMsg, *Package, error) {
	if err := breaker.RequireActive(db); err != nil {
		return nil, nil, err
	}
	var msg CancelPackageMsg
	if err := remit.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := x.Caller(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	pkg, err := loadActive(h.bucket, db, msg.PackageID)
	if err != nil {
		return nil, nil, err
	}
	if !pkg.Creator.Equals(caller) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "caller is not the creator")
	}
	height, err := currentHeight(ctx)
	if err != nil {
		return nil, nil, err
	}
	if pkg.Claimable(height) {
		return nil, nil, errors.Wrapf(errors.ErrNotYetExpired, "package claimable until height %d", pkg.ValidUntilHeight)
	}
	return &msg, pkg, nil
}

// loadActive returns the package under id, failing when it does not
// exist or was already resolved.
func loadActive(bucket Bucket, db remit.ReadOnlyKVStore, id []byte) (*Package, error) {
	pkg, err := bucket.GetPackage(db, id)
	if err != nil {
		return nil, err
	}
	if pkg == nil || pkg.Creator.IsEmpty() {
		return nil, errors.Wrapf(errors.ErrNotFound, "package %X", id)
	}
	if !pkg.IsActive {
		return nil, errors.Wrapf(errors.ErrState, "package %X already resolved", id)
	}
	return pkg, nil
}
