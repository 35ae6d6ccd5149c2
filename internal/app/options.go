package app

import (
	"github.com/google/uuid"

	"github.com/bft-labs/practicepicker/internal/ports"
	"github.com/bft-labs/practicepicker/pkg/log"
)

// Option configures optional behavior of a Session.
type Option func(*options)

type options struct {
	logger   log.Logger
	intn     func(n int) int
	observer ports.DrawObserver
	id       string
}

func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
		id:     uuid.NewString(),
	}
}

// WithLogger sets a logger for structured logging.
// If not provided, a no-op logger is used.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRandom replaces the random source used by draws. intn must return a
// value in [0, n).
func WithRandom(intn func(n int) int) Option {
	return func(o *options) {
		o.intn = intn
	}
}

// WithDrawObserver registers an observer that is told about every draw.
func WithDrawObserver(observer ports.DrawObserver) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}
