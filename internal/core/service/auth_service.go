package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/encore-live/backstage-api/internal/core/domain"
	"github.com/encore-live/backstage-api/internal/core/ports"
)

// AuthService orchestrates registration, login, refresh, and password reset.
// Account rows are only ever written through the UserDirectory boundary.
type AuthService struct {
	directory ports.UserDirectory
	hasher    *PasswordHasher
	tokens    *TokenService
	notifier  ports.Notifier
	limiter   ports.AttemptLimiter
	log       zerolog.Logger
}

// NewAuthService wires the auth flows. A nil limiter disables login throttling.
func NewAuthService(
	directory ports.UserDirectory,
	hasher *PasswordHasher,
	tokens *TokenService,
	notifier ports.Notifier,
	limiter ports.AttemptLimiter,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		directory: directory,
		hasher:    hasher,
		tokens:    tokens,
		notifier:  notifier,
		limiter:   limiter,
		log:       log,
	}
}

// Register creates an active User-role account and mints its first token pair.
// The email-uniqueness check runs before any write; a duplicate registers
// nothing.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.Account, *domain.TokenPair, error) {
	if username == "" || email == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	if _, err := s.directory.FindByEmail(ctx, email); err == nil {
		return nil, nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	created, err := s.directory.Create(ctx, &domain.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Suspended:    false,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, nil, err
	}

	// Delivery failure must not undo the registration.
	if err := s.notifier.SendRegistrationNotice(ctx, created.Username, created.Email); err != nil {
		s.log.Warn().Err(err).Str("email", created.Email).Msg("registration notice failed")
	}

	pair, err := s.tokens.CreatePair(created)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info().Int64("account_id", created.ID).Str("username", created.Username).Msg("account registered")

	return created, pair, nil
}

// Login verifies the credential and mints a fresh token pair. An unknown
// email and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		over, err := s.limiter.TooMany(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("attempt limiter check failed, allowing login")
		} else if over {
			return nil, domain.ErrTooManyAttempts
		}
	}

	acct, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.recordFailure(ctx, email)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, acct.PasswordHash) {
		s.recordFailure(ctx, email)
		return nil, domain.ErrInvalidCredentials
	}

	if acct.Suspended {
		return nil, domain.ErrAccountSuspended
	}

	if s.limiter != nil {
		if err := s.limiter.Clear(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("attempt limiter clear failed")
		}
	}

	pair, err := s.tokens.CreatePair(acct)
	if err != nil {
		return nil, err
	}

	return pair, nil
}

// Refresh validates a refresh token and mints a new access token. The refresh
// token itself is not rotated. The subject account is re-resolved so a token
// for a deleted account fails with ErrAccountNotFound.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}

	acct, err := s.directory.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", err
	}

	access, err := s.tokens.CreateAccessToken(acct)
	if err != nil {
		return "", err
	}

	return access, nil
}

// ResetPassword re-hashes and stores a new password for the account matching
// email, then emits a reset notice. The notice is best-effort.
func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) error {
	acct, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	acct.PasswordHash = hash
	acct.UpdatedAt = time.Now().UTC()
	if _, err := s.directory.Update(ctx, acct); err != nil {
		return err
	}

	if err := s.notifier.SendPasswordResetNotice(ctx, acct.Email); err != nil {
		s.log.Warn().Err(err).Str("email", acct.Email).Msg("password reset notice failed")
	}

	return nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("attempt limiter record failed")
	}
}
