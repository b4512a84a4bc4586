package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-directory/internal/core/domain"
	"github.com/99minutos/user-directory/internal/core/ports"
)

// AuthService implements login and bearer-token identity resolution.
type AuthService struct {
	users  ports.UserService
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	log    zerolog.Logger
}

func NewAuthService(users ports.UserService, hasher ports.PasswordHasher, tokens ports.TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, log: log}
}

// SignIn checks the credentials and returns a signed token. An unknown email
// and a wrong password produce the same error.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", domain.ErrUnauthorized
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrUnauthorized
		}
		return "", err
	}

	if !s.hasher.Compare(password, user.PasswordHash) {
		return "", domain.ErrUnauthorized
	}
	if !user.Status.CanAuthenticate() {
		s.log.Debug().Str("user_id", user.ID).Str("status", string(user.Status)).Msg("sign in refused for inactive user")
		return "", domain.ErrUnauthorized
	}

	token, err := s.tokens.Issue(claimsFor(user.Sanitized()))
	if err != nil {
		return "", fmt.Errorf("sign in: issue token: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user signed in")
	return token, nil
}

// ValidateUser is the secondary credential check used outside of login.
func (s *AuthService) ValidateUser(ctx context.Context, in ports.LoginInput) (*domain.User, error) {
	return s.users.ValidateUser(ctx, in.Email, in.Password)
}

// Authenticate verifies the token and re-validates the identity it carries
// against the store.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.VerifyUser(ctx, claims.Subject, *claims)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("authenticate: %w", domain.ErrUnauthorized)
		}
		return nil, err
	}
	return user, nil
}

func claimsFor(u *domain.User) ports.Claims {
	return ports.Claims{
		Subject:   u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedBy: u.CreatedBy,
	}
}

var _ ports.AuthService = (*AuthService)(nil)
