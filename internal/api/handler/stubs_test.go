package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-directory/internal/api/middleware"
	"github.com/99minutos/user-directory/internal/core/domain"
	"github.com/99minutos/user-directory/internal/core/ports"
)

type stubAuthService struct {
	signInFn func(ctx context.Context, email, password string) (string, error)
}

func (s *stubAuthService) SignIn(ctx context.Context, email, password string) (string, error) {
	return s.signInFn(ctx, email, password)
}

func (s *stubAuthService) ValidateUser(context.Context, ports.LoginInput) (*domain.User, error) {
	return nil, nil
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUnauthorized
}

type stubUserService struct {
	createFn   func(ctx context.Context, in ports.CreateUserInput, actor *domain.User) (*domain.User, error)
	findAllFn  func(ctx context.Context) ([]*domain.User, error)
	findByIDFn func(ctx context.Context, id string) (*domain.User, error)
	updateFn   func(ctx context.Context, id string, in ports.UpdateUserInput, actor *domain.User) (*domain.User, error)
	deleteFn   func(ctx context.Context, id string, actor *domain.User) (*domain.User, error)
}

func (s *stubUserService) Create(ctx context.Context, in ports.CreateUserInput, actor *domain.User) (*domain.User, error) {
	return s.createFn(ctx, in, actor)
}

func (s *stubUserService) FindAll(ctx context.Context) ([]*domain.User, error) {
	return s.findAllFn(ctx)
}

func (s *stubUserService) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.findByIDFn(ctx, id)
}

func (s *stubUserService) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubUserService) Update(ctx context.Context, id string, in ports.UpdateUserInput, actor *domain.User) (*domain.User, error) {
	return s.updateFn(ctx, id, in, actor)
}

func (s *stubUserService) Delete(ctx context.Context, id string, actor *domain.User) (*domain.User, error) {
	return s.deleteFn(ctx, id, actor)
}

func (s *stubUserService) ValidateUser(context.Context, string, string) (*domain.User, error) {
	return nil, nil
}

func (s *stubUserService) VerifyUser(context.Context, string, ports.Claims) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

// newContext builds an echo context with the validator installed and, when
// actor is non-nil, an authenticated caller.
func newContext(method, target, body string, actor *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if actor != nil {
		c.Set(middleware.ActorKey, actor)
	}
	return c, rec
}
