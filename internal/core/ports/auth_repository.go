package ports

import (
	"context"

	"github.com/traymate/backend/internal/core/domain"
)

// UserRepository is the credential store. Emails passed in are already
// normalized.
type UserRepository interface {
	// FindByEmail returns domain.ErrUserNotFound when no user matches.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Save inserts the user and returns it with its assigned ID. A duplicate
	// email yields domain.ErrDuplicateEmail.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
