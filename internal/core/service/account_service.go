package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/encore-live/backstage-api/internal/core/domain"
	"github.com/encore-live/backstage-api/internal/core/ports"
)

// AccountService applies the admin-gated lifecycle transitions: suspension,
// profile modification, and deletion. Privilege is enforced at the routing
// layer; every method here fails ErrAccountNotFound on an unresolved id.
type AccountService struct {
	directory ports.UserDirectory
	hasher    *PasswordHasher
	log       zerolog.Logger
}

func NewAccountService(directory ports.UserDirectory, hasher *PasswordHasher, log zerolog.Logger) *AccountService {
	return &AccountService{directory: directory, hasher: hasher, log: log}
}

// SetEnabled flips the suspended flag: enabled=false suspends the account.
// Outstanding access tokens stay cryptographically valid until expiry; only
// the active-account gate starts rejecting the account.
func (s *AccountService) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	acct, err := s.directory.FindByID(ctx, id)
	if err != nil {
		return err
	}

	acct.Suspended = !enabled
	acct.UpdatedAt = time.Now().UTC()
	if _, err := s.directory.Update(ctx, acct); err != nil {
		return err
	}

	s.log.Info().Int64("account_id", id).Bool("enabled", enabled).Msg("account status updated")
	return nil
}

// Modify applies a partial update. Absent fields are left untouched; a new
// password is re-hashed before it reaches the directory.
func (s *AccountService) Modify(ctx context.Context, id int64, update domain.AccountUpdate) error {
	acct, err := s.directory.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if update.Empty() {
		return nil
	}

	if update.Username != nil {
		acct.Username = *update.Username
	}
	if update.Email != nil {
		acct.Email = *update.Email
	}
	if update.Password != nil {
		hash, err := s.hasher.Hash(*update.Password)
		if err != nil {
			return err
		}
		acct.PasswordHash = hash
	}

	acct.UpdatedAt = time.Now().UTC()
	if _, err := s.directory.Update(ctx, acct); err != nil {
		return err
	}

	s.log.Info().Int64("account_id", id).Msg("account modified")
	return nil
}

// Delete permanently removes the account. Terminal: already-issued tokens
// become logically stale but are not revoked.
func (s *AccountService) Delete(ctx context.Context, id int64) error {
	if err := s.directory.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Int64("account_id", id).Msg("account deleted")
	return nil
}
