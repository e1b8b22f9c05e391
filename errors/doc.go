// Package errors defines the ChatRoutes client error taxonomy.
//
// Every failure surfaced by the client is an *Error whose Code tells the
// caller what went wrong: authentication, validation, not found, rate limit,
// server-side failure, or a network failure where no structured response was
// received at all. Use the Is* predicates or As to inspect an error:
//
//	if errors.IsRateLimit(err) {
//	    e, _ := errors.As(err)
//	    time.Sleep(e.RetryAfter)
//	}
package errors
