// Package httputil retries transient HTTP failures.
//
// Network errors and 5xx responses are wrapped in [RetryableError] with
// [Retryable]; [Retry] attempts the call again with exponential backoff and
// returns any other error immediately:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//		return fetch(ctx)
//	})
package httputil
