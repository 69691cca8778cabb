// Package retry wraps remote calls with bounded-attempt retries,
// exponential backoff and jitter. It is a single combinator shared by
// all remote operations of the publication pipeline, parameterized by
// a failure classifier.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/oneconcern/buildsync/pkg/errors"
	"github.com/oneconcern/buildsync/pkg/storage/status"
	"go.uber.org/zap"
)

// DefaultMaxAttempts bounds the total number of tries (first attempt included)
const DefaultMaxAttempts = 5

const defaultInitialInterval = 500 * time.Millisecond

// Option is a functor to tune the retry policy
type Option func(*policy)

type policy struct {
	maxAttempts     uint64
	initialInterval time.Duration
	transient       func(error) bool
	logger          *zap.Logger
}

// MaxAttempts overrides the attempt ceiling
func MaxAttempts(n uint64) Option {
	return func(p *policy) {
		if n > 0 {
			p.maxAttempts = n
		}
	}
}

// InitialInterval overrides the first backoff interval
func InitialInterval(d time.Duration) Option {
	return func(p *policy) {
		p.initialInterval = d
	}
}

// Classifier overrides the failure classifier. The classifier reports
// whether a failure is transient and worth another attempt.
func Classifier(transient func(error) bool) Option {
	return func(p *policy) {
		if transient != nil {
			p.transient = transient
		}
	}
}

// Logger specifies a logger for per-attempt diagnostics
func Logger(logger *zap.Logger) Option {
	return func(p *policy) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Transient is the default classifier for storage backend failures:
// authorization and malformed-request errors are terminal, not-found is
// meaningful to the caller and never retried, everything else (network
// errors, throttling, 5xx-class service errors) is worth retrying.
func Transient(err error) bool {
	switch {
	case errors.Is(err, status.ErrUnauthorized),
		errors.Is(err, status.ErrForbidden),
		errors.Is(err, status.ErrInvalidResource),
		errors.Is(err, status.ErrNotSupported):
		return false
	case errors.Is(err, status.ErrNotExists),
		errors.Is(err, status.ErrNotFound):
		return false
	default:
		return true
	}
}

// Do runs fn until it succeeds, fails terminally, or exhausts the
// attempt ceiling. The last failure is surfaced as is: there is no
// partial-success return from this layer.
func Do(ctx context.Context, op string, fn func() error, opts ...Option) error {
	p := policy{
		maxAttempts:     DefaultMaxAttempts,
		initialInterval: defaultInitialInterval,
		transient:       Transient,
		logger:          zap.NewNop(),
	}
	for _, apply := range opts {
		apply(&p)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.initialInterval
	bo.MaxElapsedTime = 0 // the attempt ceiling is the only bound

	return backoff.RetryNotify(
		func() error {
			err := fn()
			if err == nil {
				return nil
			}
			if !p.transient(err) {
				return backoff.Permanent(err)
			}
			return err
		},
		backoff.WithContext(backoff.WithMaxRetries(bo, p.maxAttempts-1), ctx),
		func(err error, next time.Duration) {
			p.logger.Warn("transient failure, retrying",
				zap.String("operation", op),
				zap.Duration("backoff", next),
				zap.Error(err),
			)
		},
	)
}
