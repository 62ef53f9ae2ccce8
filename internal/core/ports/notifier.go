package ports

import "context"

// Notifier delivers account-related notices. Sends are fire-and-forget from
// the core's perspective: a delivery failure is reported as
// domain.ErrNotifyFailed but never rolls back the mutation that preceded it.
type Notifier interface {
	SendRegistrationNotice(ctx context.Context, username, email string) error
	SendPasswordResetNotice(ctx context.Context, email string) error
	SendStartupNotice(ctx context.Context) error
}
