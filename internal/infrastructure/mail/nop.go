package mail

import (
	"context"

	"github.com/rs/zerolog"
)

// NopNotifier is used when no mail API is configured. Notices are logged at
// debug level and reported as delivered.
type NopNotifier struct {
	log zerolog.Logger
}

func NewNopNotifier(log zerolog.Logger) *NopNotifier {
	return &NopNotifier{log: log}
}

func (n *NopNotifier) SendRegistrationNotice(_ context.Context, username, email string) error {
	n.log.Debug().Str("username", username).Str("email", email).Msg("mail disabled, registration notice dropped")
	return nil
}

func (n *NopNotifier) SendPasswordResetNotice(_ context.Context, email string) error {
	n.log.Debug().Str("email", email).Msg("mail disabled, password reset notice dropped")
	return nil
}

func (n *NopNotifier) SendStartupNotice(_ context.Context) error {
	n.log.Debug().Msg("mail disabled, startup notice dropped")
	return nil
}
