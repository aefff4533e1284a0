// Package retry implements the exponential-backoff policy every
// page fetch in the scraper runs under. The target site sits behind
// an anti-bot challenge, so a failed fetch is indistinguishable from
// a page that has not rendered yet; both are retried identically.
package retry

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// ErrExhausted is returned once an operation has failed MaxRetries
// consecutive times. It is a soft failure: callers surface an empty
// result rather than terminating.
var ErrExhausted = errors.New("retry attempts exhausted")

// Policy retries an operation with exponential backoff. The wait
// before attempt n+1 is BaseWait << n, with no jitter and no cap
// other than MaxRetries itself.
type Policy struct {
	MaxRetries int
	BaseWait   time.Duration

	logger zerolog.Logger
	sleep  func(time.Duration)
}

func New(maxRetries int, baseWait time.Duration, logger zerolog.Logger) *Policy {
	return &Policy{
		MaxRetries: maxRetries,
		BaseWait:   baseWait,
		logger:     logger,
		sleep:      time.Sleep,
	}
}

// WithSleep substitutes the blocking sleep, for tests.
func (p *Policy) WithSleep(sleep func(time.Duration)) *Policy {
	p.sleep = sleep
	return p
}

// Do runs op under the policy and returns its result, or the zero
// value and ErrExhausted once the attempt budget is spent.
//
// MaxRetries = 0 runs op exactly once and exhausts immediately on
// failure, without sleeping.
func Do[T any](p *Policy, name string, op func() (T, error)) (T, error) {
	if p.MaxRetries <= 0 {
		v, err := op()
		if err == nil {
			return v, nil
		}
		p.logger.Warn().Err(err).Str("op", name).Msg("operation failed")
		return exhaust[T](p, name)
	}

	for attempt := 0; attempt < p.MaxRetries; attempt++ {
		v, err := op()
		if err == nil {
			return v, nil
		}

		wait := p.BaseWait << attempt
		p.logger.Warn().
			Err(err).
			Str("op", name).
			Int("attempt", attempt).
			Int("max_retries", p.MaxRetries).
			Dur("wait", wait).
			Msg("operation failed, backing off")
		p.sleep(wait)
	}

	return exhaust[T](p, name)
}

func exhaust[T any](p *Policy, name string) (T, error) {
	p.logger.Error().
		Str("op", name).
		Int("max_retries", p.MaxRetries).
		Msg("max retries reached; we may be stuck behind an anti-bot challenge, consider manual intervention")

	var zero T
	return zero, ErrExhausted
}
