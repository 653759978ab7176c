// Package retry implements the SDK's resilient request core: an exponential
// backoff schedule, an error classifier deciding what is worth retrying, and
// a generic executor composing the two around any operation.
//
// # Executing an operation
//
// The executor is a single generic function:
//
//	resp, err := retry.Do(ctx, cfg, func(ctx context.Context) (*Response, error) {
//		return transport.Call(ctx, req)
//	})
//
// It performs up to cfg.MaxRetries+1 attempts. Success returns immediately.
// A non-retryable failure (ResponseError, ConfigError, or an unrecognized
// error) propagates unchanged after the first occurrence. A retryable chain
// that outlives the budget ends in *sdkerr.RetryExhaustedError carrying the
// attempt count and the final underlying failure.
//
// # Classification
//
// IsRetryable consults the sdkerr taxonomy first and falls back to a keyword
// scan of the message for errors nobody typed (gateway 502/503 strings and
// the like). Call sites can override it with WithClassifier, or bypass it
// with an explicit allow-list via WithRetryOn.
//
// # Suspension modes
//
// The wait between attempts is pluggable. ContextSleeper (default) parks the
// goroutine on a timer and reacts to cancellation immediately, which suits
// many concurrent in-flight calls. BlockingSleeper is a plain time.Sleep for
// simple synchronous call sites. Both run the same loop and produce identical
// attempt counts and final error types.
//
// Retry budgets are per invocation of Do: concurrent calls sharing one
// RetryConfig never contend on attempt state.
package retry
