package aurakit

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetryPolicy tries five times, waiting 1s, 2s, 4s and 8s in between.
var DefaultRetryPolicy = RetryPolicy{Attempts: 5, Delay: time.Second}

// Retry runs fn until it succeeds, the attempts run out or ctx ends. The
// delay doubles after every failure. Only use it for idempotent work.
func Retry(ctx context.Context, policy RetryPolicy, fn func() error) error {
	delay := policy.Delay
	var err error
	for attempt := 1; attempt <= max(policy.Attempts, 1); attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt >= policy.Attempts {
			break
		}

		log.Debug().Err(err).Int("attempt", attempt).Dur("delay", delay).Msg("Retrying after failure...")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}
