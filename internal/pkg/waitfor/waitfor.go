package waitfor

import (
	"context"
	"fmt"
	"time"
)

const (
	defaultDelay = time.Second
	maxDelay     = 10 * time.Second
)

// Ping calls ping until it succeeds, sleeping one second longer after each
// failure. It gives up once the delay would exceed ten seconds.
func Ping(ctx context.Context, ping func(context.Context) error) error {
	return pingWithDelays(ctx, ping, defaultDelay, maxDelay)
}

func pingWithDelays(ctx context.Context, ping func(context.Context) error, step, limit time.Duration) error {
	delay := step

	for {
		err := ping(ctx)
		if err == nil {
			return nil
		}

		if delay > limit {
			return fmt.Errorf("ping error: %w", err)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("context error: %w", ctx.Err())
		case <-time.After(delay):
		}

		delay += step
	}
}
