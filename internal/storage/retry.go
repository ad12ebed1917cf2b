package storage

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Defaults for RetryPolicy zero values.
const (
	DefaultMaxAttempts = 5
	DefaultDelay       = 3 * time.Second
)

// RetryPolicy bounds how long a repository keeps trying to acquire a
// connection before giving up.
type RetryPolicy struct {
	// MaxAttempts is the total number of connection attempts, not the
	// number of retries after the first.
	MaxAttempts int

	// Delay is the pause between attempts.
	Delay time.Duration
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.Delay <= 0 {
		p.Delay = DefaultDelay
	}
	return p
}

// Dial runs connect under the policy: up to MaxAttempts tries, Delay
// apart. The wait between attempts aborts promptly when ctx is done, so
// a canceled job is not stuck sleeping. target only labels the logs.
func Dial(ctx context.Context, p RetryPolicy, target string, connect func(ctx context.Context) error) error {
	p = p.withDefaults()

	var last error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		log.Printf("connecting to %s (attempt %d/%d)", target, attempt, p.MaxAttempts)
		err := connect(ctx)
		if err == nil {
			return nil
		}
		last = err
		log.Printf("connection attempt %d failed: %v", attempt, err)
		if attempt == p.MaxAttempts {
			break
		}
		log.Printf("retrying in %s", p.Delay)
		select {
		case <-time.After(p.Delay):
		case <-ctx.Done():
			return fmt.Errorf("connect to %s: %w", target, ctx.Err())
		}
	}
	return fmt.Errorf("connect to %s failed after %d attempts: %w", target, p.MaxAttempts, last)
}
