package ports

import (
	"context"

	"github.com/encore-live/backstage-api/internal/core/domain"
)

// AuthService orchestrates the end-to-end auth flows: registration, login,
// access-token refresh, and password reset.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.Account, *domain.TokenPair, error)
	Login(ctx context.Context, email, password string) (*domain.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	ResetPassword(ctx context.Context, email, newPassword string) error
}

// AccountService applies admin-gated lifecycle transitions to an account.
type AccountService interface {
	SetEnabled(ctx context.Context, id int64, enabled bool) error
	Modify(ctx context.Context, id int64, update domain.AccountUpdate) error
	Delete(ctx context.Context, id int64) error
}
