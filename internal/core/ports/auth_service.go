package ports

import (
	"context"

	"github.com/99minutos/user-directory/internal/core/domain"
)

// LoginInput is an email/password pair.
type LoginInput struct {
	Email    string
	Password string
}

type AuthService interface {
	SignIn(ctx context.Context, email, password string) (string, error)
	ValidateUser(ctx context.Context, input LoginInput) (*domain.User, error)
	// Authenticate resolves the caller behind a bearer token.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}
