package lock

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ruralpay/accounts/internal/config"
)

// newBackOff builds the retry delay sequence for one Acquire call
func newBackOff(cfg *config.LockConfig) backoff.BackOff {
	var b backoff.BackOff = backoff.NewConstantBackOff(cfg.RetryDelay)

	if cfg.Backoff == config.BackoffExponential {
		eb := backoff.NewExponentialBackOff()
		eb.InitialInterval = cfg.RetryDelay
		eb.Multiplier = 2
		eb.RandomizationFactor = 0
		eb.MaxInterval = cfg.MaxRetryDelay
		if eb.MaxInterval <= 0 {
			eb.MaxInterval = time.Duration(math.MaxInt64)
		}
		// attempts bound the loop, not wall time
		eb.MaxElapsedTime = 0
		eb.Reset()
		b = eb
	}

	if cfg.Jitter {
		b = &fullJitter{BackOff: b}
	}
	return b
}

// fullJitter draws each delay uniformly from [0, d)
type fullJitter struct {
	backoff.BackOff
}

func (j *fullJitter) NextBackOff() time.Duration {
	d := j.BackOff.NextBackOff()
	if d <= 0 {
		return d
	}
	return time.Duration(rand.Int64N(int64(d)))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
