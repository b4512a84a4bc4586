package ports

import (
	"context"

	"github.com/99minutos/user-directory/internal/core/domain"
)

// CreateUserInput carries the data for a new directory entry.
// Empty Role and Status fall back to user/active.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
	Status   domain.UserStatus
}

// UpdateUserInput carries the optional fields of a partial update.
type UpdateUserInput struct {
	Name   *string
	Email  *string
	Role   *domain.Role
	Status *domain.UserStatus
}

// UserService owns the user lifecycle and the ownership policy.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput, actor *domain.User) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, id string, input UpdateUserInput, actor *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string, actor *domain.User) (*domain.User, error)
	ValidateUser(ctx context.Context, email, password string) (*domain.User, error)
	VerifyUser(ctx context.Context, id string, claims Claims) (*domain.User, error)
}
