package gconf

import (
	"reflect"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/x"
)

// AdminFunc returns the address allowed to change configurations.
type AdminFunc func(remit.ReadOnlyKVStore) (remit.Address, error)

// UpdateConfigurationHandler applies a configuration patch. The message
// must carry a "Patch" field of the same type as the configuration, zero
// fields of the patch leave the stored value untouched.
type UpdateConfigurationHandler struct {
	pkg   string
	proto reflect.Type
	auth  x.Authenticator
	admin AdminFunc
}

var _ remit.Handler = UpdateConfigurationHandler{}

// NewUpdateConfigurationHandler returns a handler patching the
// configuration of pkg. config is only used as the type template. Every
// message must be signed by the address returned by admin.
func NewUpdateConfigurationHandler(pkg string, config Configuration, auth x.Authenticator, admin AdminFunc) UpdateConfigurationHandler {
	t := reflect.TypeOf(config)
	if t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Struct {
		panic("configuration must be a pointer to a struct")
	}
	return UpdateConfigurationHandler{
		pkg:   pkg,
		proto: t,
		auth:  auth,
		admin: admin,
	}
}

func (h UpdateConfigurationHandler) Check(ctx remit.Context, store remit.KVStore, tx remit.Tx) (*remit.CheckResult, error) {
	if _, err := h.applyTx(ctx, store, tx); err != nil {
		return nil, err
	}
	return &remit.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx remit.Context, store remit.KVStore, tx remit.Tx) (*remit.DeliverResult, error) {
	conf, err := h.applyTx(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	return &remit.DeliverResult{
		Events: []remit.Event{ConfigurationUpdated{Package: h.pkg, Config: conf}},
	}, nil
}

func (h UpdateConfigurationHandler) applyTx(ctx remit.Context, store remit.KVStore, tx remit.Tx) (Configuration, error) {
	admin, err := h.admin(store)
	if err != nil {
		return nil, errors.Wrap(err, "get admin")
	}
	if !h.auth.HasAddress(ctx, admin) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "admin signature required")
	}

	conf := reflect.New(h.proto.Elem()).Interface().(Configuration)
	if err := Load(store, h.pkg, conf); err != nil && !errors.ErrNotFound.Is(err) {
		return nil, errors.Wrap(err, "load current configuration")
	}

	payload, err := patchPayload(tx)
	if err != nil {
		return nil, errors.Wrap(err, "cannot get message payload")
	}
	if err := patch(conf, payload); err != nil {
		return nil, errors.Wrap(err, "cannot patch config with message payload")
	}
	if err := Save(store, h.pkg, conf); err != nil {
		return nil, errors.Wrap(err, "cannot save updated config")
	}
	return conf, nil
}

func patch(config, payload Configuration) error {
	if reflect.TypeOf(payload) != reflect.TypeOf(config) {
		return errors.Wrapf(errors.ErrType, "want %T patch, got %T", config, payload)
	}

	cval := reflect.ValueOf(config).Elem()
	pval := reflect.ValueOf(payload).Elem()
	for i := 0; i < cval.NumField(); i++ {
		got := pval.Field(i)
		if isZero(got) {
			continue
		}
		cval.Field(i).Set(got)
	}
	return nil
}

func isZero(val reflect.Value) bool {
	zero := reflect.Zero(val.Type()).Interface()
	return reflect.DeepEqual(val.Interface(), zero)
}

// patchPayload extracts the "Patch" field of the validated message.
func patchPayload(tx remit.Tx) (Configuration, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrInput, "no message")
	}
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid message")
	}

	pval := reflect.ValueOf(msg)
	if pval.Kind() != reflect.Ptr || pval.Elem().Kind() != reflect.Struct {
		return nil, errors.Wrapf(errors.ErrInput, "invalid message container value: %T", msg)
	}
	field := pval.Elem().FieldByName("Patch")
	if !field.IsValid() || field.Kind() != reflect.Ptr || field.IsNil() {
		return nil, errors.Wrap(errors.ErrInput, `"Patch" field is required`)
	}
	payload, ok := field.Interface().(Configuration)
	if !ok {
		return nil, errors.Wrap(errors.ErrType, `"Patch" field is of a wrong type`)
	}
	return payload, nil
}

// ConfigurationUpdated is emitted when the administrator patches the
// configuration of a package.
type ConfigurationUpdated struct {
	Package string
	Config  Configuration
}

func (ConfigurationUpdated) EventName() string { return "ConfigurationUpdated" }
