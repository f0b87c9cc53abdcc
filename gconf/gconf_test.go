package gconf

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/store"
	"github.com/iov-one/remit/weavetest/assert"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

type myconfig struct {
	Num  int64  `json:"num"`
	Text string `json:"text"`
}

func (c *myconfig) Validate() error {
	if c.Num < 0 {
		return errors.Wrap(errors.ErrInput, "negative num")
	}
	return nil
}

func (c *myconfig) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryLengthPrefixed(c)
}

func (c *myconfig) Unmarshal(raw []byte) error {
	if err := cdc.UnmarshalBinaryLengthPrefixed(raw, c); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}

// emptyconfig serializes to nothing.
type emptyconfig struct{}

func (emptyconfig) Validate() error          { return nil }
func (emptyconfig) Marshal() ([]byte, error) { return nil, nil }

func TestSaveLoad(t *testing.T) {
	db := store.MemStore()

	var missing myconfig
	assert.IsErr(t, errors.ErrNotFound, Load(db, "mine", &missing))

	assert.Nil(t, Save(db, "mine", &myconfig{Num: 7, Text: "seven"}))
	var got myconfig
	assert.Nil(t, Load(db, "mine", &got))
	assert.Equal(t, myconfig{Num: 7, Text: "seven"}, got)

	// zero configuration is still stored
	assert.Nil(t, Save(db, "zero", &myconfig{}))
	assert.Nil(t, Load(db, "zero", &got))
	assert.Equal(t, myconfig{}, got)

	assert.IsErr(t, errors.ErrInput, Save(db, "mine", &myconfig{Num: -1}))
	assert.IsErr(t, errors.ErrModel, Save(db, "empty", emptyconfig{}))
}

func TestStoredWithModelCodec(t *testing.T) {
	db := store.MemStore()
	conf := &myconfig{Num: 11, Text: "eleven"}
	assert.Nil(t, Save(db, "mine", conf))

	raw, err := db.Get([]byte("_c:mine"))
	assert.Nil(t, err)
	want, err := conf.Marshal()
	assert.Nil(t, err)
	assert.Equal(t, want, raw)

	assert.Nil(t, db.Set([]byte("_c:broken"), []byte(`{"num": 1}`)))
	var got myconfig
	assert.IsErr(t, errors.ErrModel, Load(db, "broken", &got))
}

func TestInitConfig(t *testing.T) {
	cases := map[string]struct {
		genesis string
		wantErr *errors.Error
		want    myconfig
	}{
		"configured": {
			genesis: `{"conf": {"mine": {"num": 3, "text": "x"}}}`,
			want:    myconfig{Num: 3, Text: "x"},
		},
		"missing package": {
			genesis: `{"conf": {"other": {}}}`,
			wantErr: errors.ErrNotFound,
		},
		"invalid value": {
			genesis: `{"conf": {"mine": {"num": -3}}}`,
			wantErr: errors.ErrInput,
		},
		"malformed": {
			genesis: `{"conf": {"mine": {"num": "three"}}}`,
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts remit.Options
			assert.Nil(t, json.Unmarshal([]byte(tc.genesis), &opts))
			db := store.MemStore()

			err := InitConfig(db, opts, "mine", &myconfig{})
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
			var got myconfig
			assert.Nil(t, Load(db, "mine", &got))
			assert.Equal(t, tc.want, got)
		})
	}
}
