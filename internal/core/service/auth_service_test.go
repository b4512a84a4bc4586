package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/99minutos/user-directory/internal/core/domain"
	"github.com/99minutos/user-directory/internal/core/ports"
	"github.com/99minutos/user-directory/internal/infrastructure/security"
)

type authFixture struct {
	repo   *stubUserRepo
	users  *UserService
	tokens *security.JWTIssuer
	svc    *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	repo := newStubUserRepo()
	users := newUserSvc(repo, &recordingPublisher{})
	tokens, err := security.NewJWTIssuer("secret", time.Hour, "test")
	if err != nil {
		t.Fatalf("NewJWTIssuer: %v", err)
	}
	return &authFixture{
		repo:   repo,
		users:  users,
		tokens: tokens,
		svc:    NewAuthService(users, testHasher, tokens, zerolog.Nop()),
	}
}

func TestAuthService_SignIn_Success(t *testing.T) {
	f := newAuthFixture(t)
	carol := seedUser(t, f.repo, "Carol", "carol@example.com", "s3cret", domain.RoleAdmin, domain.StatusActive)

	token, err := f.svc.SignIn(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != carol.ID {
		t.Fatalf("expected sub %q, got %v", carol.ID, claims["sub"])
	}
	if claims["role"] != string(domain.RoleAdmin) || claims["email"] != "carol@example.com" {
		t.Fatalf("unexpected claims: %v", claims)
	}
	for _, k := range []string{"password", "password_hash", "PasswordHash"} {
		if _, ok := claims[k]; ok {
			t.Fatalf("token must not carry %q", k)
		}
	}
	for _, v := range claims {
		if s, ok := v.(string); ok && s == f.repo.byID[carol.ID].PasswordHash {
			t.Fatalf("password hash leaked into claims")
		}
	}
}

func TestAuthService_SignIn_UnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	f := newAuthFixture(t)
	seedUser(t, f.repo, "Dave", "dave@example.com", "goodpass", domain.RoleUser, domain.StatusActive)

	_, wrongPass := f.svc.SignIn(context.Background(), "dave@example.com", "badpass")
	_, unknown := f.svc.SignIn(context.Background(), "ghost@example.com", "goodpass")

	if !errors.Is(wrongPass, domain.ErrUnauthorized) || !errors.Is(unknown, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for both, got %v / %v", wrongPass, unknown)
	}
	if wrongPass.Error() != unknown.Error() {
		t.Fatalf("errors must be indistinguishable: %q vs %q", wrongPass, unknown)
	}
	if errors.Is(unknown, domain.ErrUserNotFound) {
		t.Fatalf("ErrUserNotFound must not leak to the login caller")
	}
}

func TestAuthService_SignIn_InactiveUsers(t *testing.T) {
	f := newAuthFixture(t)
	seedUser(t, f.repo, "P", "pending@example.com", "pw1234", domain.RoleUser, domain.StatusPendingRemove)
	seedUser(t, f.repo, "D", "deleted@example.com", "pw1234", domain.RoleUser, domain.StatusDeleted)

	for _, email := range []string{"pending@example.com", "deleted@example.com"} {
		if _, err := f.svc.SignIn(context.Background(), email, "pw1234"); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("%s: expected ErrUnauthorized, got %v", email, err)
		}
	}
}

func TestAuthService_SignIn_EmptyCredentials(t *testing.T) {
	f := newAuthFixture(t)
	if _, err := f.svc.SignIn(context.Background(), "", ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_SignIn_StoreFailure(t *testing.T) {
	f := newAuthFixture(t)
	boom := errors.New("no reachable servers")
	f.repo.findErr = boom

	if _, err := f.svc.SignIn(context.Background(), "a@example.com", "pw"); err != boom {
		t.Fatalf("expected store error unchanged, got %v", err)
	}
}

func TestAuthService_ValidateUser_Delegates(t *testing.T) {
	f := newAuthFixture(t)
	seedUser(t, f.repo, "Erin", "erin@example.com", "erinpass", domain.RoleUser, domain.StatusActive)

	got, err := f.svc.ValidateUser(context.Background(), ports.LoginInput{Email: "erin@example.com", Password: "erinpass"})
	if err != nil || got == nil || got.Email != "erin@example.com" {
		t.Fatalf("expected match, got %v / %v", got, err)
	}

	got, err = f.svc.ValidateUser(context.Background(), ports.LoginInput{Email: "erin@example.com", Password: "nope"})
	if err != nil || got != nil {
		t.Fatalf("expected absence, got %v / %v", got, err)
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	f := newAuthFixture(t)
	frank := seedUser(t, f.repo, "Frank", "frank@example.com", "frankpw", domain.RoleUser, domain.StatusActive)

	token, err := f.svc.SignIn(context.Background(), "frank@example.com", "frankpw")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	actor, err := f.svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if actor.ID != frank.ID || actor.Role != domain.RoleUser {
		t.Fatalf("unexpected actor: %+v", actor)
	}

	// Soft delete invalidates outstanding tokens on the next request.
	if _, err := f.users.Delete(context.Background(), frank.ID, actor); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.svc.Authenticate(context.Background(), token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after removal, got %v", err)
	}
}

func TestAuthService_Authenticate_BadToken(t *testing.T) {
	f := newAuthFixture(t)
	if _, err := f.svc.Authenticate(context.Background(), "garbage"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_Authenticate_UnknownSubject(t *testing.T) {
	f := newAuthFixture(t)
	token, err := f.tokens.Issue(ports.Claims{Subject: "ghost", Email: "ghost@example.com", Role: "admin", Status: "active"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := f.svc.Authenticate(context.Background(), token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
