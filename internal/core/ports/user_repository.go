package ports

import (
	"context"

	"github.com/99minutos/user-directory/internal/core/domain"
)

// UserRepository is the credential store. Lookups return
// domain.ErrUserNotFound on absence; any other error is a transport failure
// and is propagated unchanged.
type UserRepository interface {
	FindAll(ctx context.Context) ([]*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail only populates PasswordHash when withSecret is true.
	FindByEmail(ctx context.Context, email string, withSecret bool) (*domain.User, error)
	// Insert assigns ID and returns domain.ErrConflict on a duplicate email.
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	// UpdateByID applies patch and bumps updated_at. It does not re-read the record.
	UpdateByID(ctx context.Context, id string, patch domain.UserPatch) error
}
