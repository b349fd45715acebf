// Package httputil provides HTTP utilities shared by drawkit's network clients.
//
// # Retry
//
// [Retry] wraps an operation with automatic retry for transient failures.
// Only errors wrapped in [RetryableError] are retried; everything else is
// returned immediately:
//
//	err := httputil.Retry(ctx, 3, 0, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    ...
//	})
//
// [RetryN] passes the 1-based attempt number to the operation, which the
// upload client uses to pick a replica and label its log lines.
//
// The delay doubles after every failed attempt. A zero delay retries
// immediately, which is what the style-transfer upload does: it spreads
// attempts across replicas rather than waiting on one.
package httputil
