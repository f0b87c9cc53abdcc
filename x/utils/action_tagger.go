package utils

import (
	"github.com/iov-one/remit"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionTagger inspects the message being executed and adds a tag
// `action = msg.Path()` together with one `event = <name>` tag per event
// produced, so clients can search for, e.g., every claimed package.
type ActionTagger struct{}

var _ remit.Decorator = ActionTagger{}

const (
	// ActionKey is the key of the tag holding the message path
	ActionKey = "action"
	// EventKey is the key of the tags holding the event names
	EventKey = "event"
)

// NewActionTagger creates a ActionTagger decorator
func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

// Check just passes the request along
func (ActionTagger) Check(ctx remit.Context, db remit.KVStore, tx remit.Tx, next remit.Checker) (*remit.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver appends the tags on the result if there is a success.
func (ActionTagger) Deliver(ctx remit.Context, db remit.KVStore, tx remit.Tx, next remit.Deliverer) (*remit.DeliverResult, error) {
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, common.KVPair{
		Key:   []byte(ActionKey),
		Value: []byte(remit.GetPath(tx)),
	})
	for _, e := range res.Events {
		res.Tags = append(res.Tags, common.KVPair{
			Key:   []byte(EventKey),
			Value: []byte(e.EventName()),
		})
	}
	return res, nil
}
