package ports

import (
	"context"

	"github.com/encore-live/backstage-api/internal/core/domain"
)

// UserDirectory is the persistence boundary for accounts. Implementations
// must make Create/Update/Delete atomic per account row and report conflicts
// and misses with the domain sentinel errors.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) (*domain.Account, error)
	Delete(ctx context.Context, id int64) error
}
