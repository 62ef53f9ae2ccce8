package domain

import "errors"

// Sentinel errors for the auth core. Handlers never branch on these directly;
// the central HTTP error handler maps each one to its status code.
var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so a caller cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountNotFound is returned when an account id or email does not
	// resolve to a stored account.
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicateEmail and ErrDuplicateUsername signal registration or
	// modification conflicts with an existing account.
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrAccountSuspended rejects operations on a suspended account.
	ErrAccountSuspended = errors.New("account is suspended")

	// ErrForbidden rejects a valid credential with insufficient privilege.
	ErrForbidden = errors.New("access forbidden")

	// Token verification failures. All three read as 401 to the caller but
	// carry distinct messages.
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenInvalid   = errors.New("token invalid")

	// ErrTooManyAttempts throttles repeated failed logins for one email.
	ErrTooManyAttempts = errors.New("too many failed attempts")

	// ErrNotifyFailed reports a notification delivery failure. It never
	// masks the account mutation that preceded the send.
	ErrNotifyFailed = errors.New("notification delivery failed")
)
