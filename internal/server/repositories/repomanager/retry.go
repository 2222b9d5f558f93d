package repomanager

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// connectAttempts and connectBase bound the startup wait for a database
// that is still coming up: exponential backoff from connectBase.
var (
	connectAttempts uint64 = 5
	connectBase            = 200 * time.Millisecond
)

// pingWithRetry retries ping with exponential backoff until it succeeds,
// the attempts run out or ctx is done.
func pingWithRetry(ctx context.Context, ping func(context.Context) error) error {
	b := retry.WithMaxRetries(connectAttempts, retry.NewExponential(connectBase))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		if err := ping(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}
