package square

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"

	pkgerrors "github.com/rmjobsites/jobsites-api/pkg/errors"
)

const (
	retryBaseDelay = 200 * time.Millisecond
	retryMaxDelay  = 2 * time.Second
)

// do runs fn with a per-attempt timeout and retries transient failures. fn must reuse the
// same idempotency key on every attempt. Typed errors returned by fn are local failures and
// are returned as is without a retry.
func do[T any](ctx context.Context, c *Client, op string, fn func(context.Context) (T, error)) (T, error) {
	base := c.retryBase
	if base <= 0 {
		base = retryBaseDelay
	}
	backoff := retry.WithMaxRetries(c.maxRetries, retry.WithCappedDuration(retryMaxDelay, retry.NewExponential(base)))
	attempt := 0
	return retry.DoValue(ctx, backoff, func(ctx context.Context) (T, error) {
		attempt++
		callCtx := ctx
		cancel := func() {}
		if c.timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		}
		defer cancel()

		out, err := fn(callCtx)
		if err == nil {
			return out, nil
		}
		if pkgerrors.As(err) != nil {
			return out, err
		}
		gwErr := newGatewayError(op, err)
		c.log(ctx, "error", op, map[string]any{"error": err.Error(), "attempt": attempt, "status": gwErr.StatusCode})
		if gwErr.Retryable() {
			return out, retry.RetryableError(gwErr)
		}
		return out, gwErr
	})
}
