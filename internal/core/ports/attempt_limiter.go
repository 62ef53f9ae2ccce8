package ports

import "context"

// AttemptLimiter throttles repeated failed logins per email. Implementations
// should fail open: an unreachable backend must not lock everyone out.
type AttemptLimiter interface {
	// TooMany reports whether the email has exhausted its failure budget
	// for the current window.
	TooMany(ctx context.Context, email string) (bool, error)
	// RecordFailure counts one failed login against the email.
	RecordFailure(ctx context.Context, email string) error
	// Clear resets the counter after a successful login.
	Clear(ctx context.Context, email string) error
}
