// Package resilience retries failed operations with exponential backoff.
//
// Retry is generic over the operation's result and honours server delay
// hints (for example a rate-limit retryAfter) through RetryConfig.DelayHint:
//
//	cfg := resilience.DefaultRetryConfig()
//	cfg.RetryIf = errors.IsRetryable
//	cfg.DelayHint = errors.RetryAfter
//	resp, err := resilience.Retry(ctx, cfg, func() (*Response, error) {
//	    return send(ctx)
//	})
package resilience
