package utils

import (
	"time"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ remit.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> error, success -> debug
func (Logging) Check(ctx remit.Context, store remit.KVStore, tx remit.Tx, next remit.Checker) (*remit.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (Logging) Deliver(ctx remit.Context, store remit.KVStore, tx remit.Tx, next remit.Deliverer) (*remit.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, false)
	return res, err
}

func logDuration(ctx remit.Context, tx remit.Tx, start time.Time, msg string, err error, lowPrio bool) {
	logger := remit.GetLogger(ctx).With(
		"path", remit.GetPath(tx),
		"duration", time.Since(start)/time.Microsecond,
	)
	if height, ok := remit.GetHeight(ctx); ok {
		logger = logger.With("height", height)
	}

	// An empty message is still logged, the key values carry the data.
	switch {
	case err != nil:
		logger.With("err", errors.String(err)).Error(msg)
	case lowPrio:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
