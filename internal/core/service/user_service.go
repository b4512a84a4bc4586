package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/user-directory/internal/core/domain"
	"github.com/99minutos/user-directory/internal/core/ports"
)

// UserService implements the directory use cases and enforces the ownership
// policy on every mutation.
type UserService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	events ports.EventPublisher
	log    zerolog.Logger
	now    func() time.Time
}

func NewUserService(repo ports.UserRepository, hasher ports.PasswordHasher, events ports.EventPublisher, log zerolog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		hasher: hasher,
		events: events,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new user on behalf of an admin actor. The email must not
// belong to any existing record, whatever its status.
func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput, actor *domain.User) (*domain.User, error) {
	if actor == nil || !actor.IsAdmin() {
		return nil, fmt.Errorf("create user: only admins can create users: %w", domain.ErrForbidden)
	}

	if in.Role == "" {
		in.Role = domain.RoleUser
	}
	if in.Status == "" {
		in.Status = domain.StatusActive
	}
	if err := validateCreate(in); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	_, err := s.repo.FindByEmail(ctx, in.Email, false)
	switch {
	case err == nil:
		return nil, fmt.Errorf("create user: %w", domain.ErrConflict)
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("create user: hash password: %w", err)
	}

	now := s.now()
	created, err := s.repo.Insert(ctx, &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Status:       in.Status,
		CreatedBy:    actor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("create user: %w", err)
		}
		return nil, err
	}
	created = created.Sanitized()

	s.log.Info().Str("user_id", created.ID).Str("created_by", actor.ID).Str("role", string(created.Role)).Msg("user created")
	s.emit(domain.EventUserCreated, created)

	return created, nil
}

// FindAll returns every record, including soft-deleted ones.
func (s *UserService) FindAll(ctx context.Context) ([]*domain.User, error) {
	return s.repo.FindAll(ctx)
}

// FindByID does not filter by status.
func (s *UserService) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// FindByEmail returns the record together with its password hash. It is meant
// for credential checks only.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.FindByEmail(ctx, email, true)
}

// Update applies the supplied fields when the ownership policy allows it.
// The result is the record read before the write merged with the patch; it is
// not re-read from the store. An empty patch writes nothing and emits no event.
func (s *UserService) Update(ctx context.Context, id string, in ports.UpdateUserInput, actor *domain.User) (*domain.User, error) {
	if actor == nil {
		return nil, fmt.Errorf("update user %s: no actor: %w", id, domain.ErrForbidden)
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.CanEditUser(user, actor) {
		return nil, fmt.Errorf("update user %s: %w", id, domain.ErrForbidden)
	}

	patch := domain.UserPatch{Name: in.Name, Email: in.Email, Role: in.Role, Status: in.Status}
	if err := validatePatch(patch); err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}
	if patch.Empty() {
		return user.Sanitized(), nil
	}

	if err := s.repo.UpdateByID(ctx, id, patch); err != nil {
		if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("update user %s: %w", id, err)
		}
		return nil, err
	}

	patch.ApplyTo(user)
	user.UpdatedAt = s.now()
	user = user.Sanitized()

	s.log.Info().Str("user_id", id).Str("actor_id", actor.ID).Msg("user updated")
	s.emit(domain.EventUserUpdated, user)

	return user, nil
}

// Delete soft-deletes the record by moving it to pending_remove. Nothing is
// physically removed; cleanup of dependent data is left to subscribers of
// the user.removed event.
func (s *UserService) Delete(ctx context.Context, id string, actor *domain.User) (*domain.User, error) {
	if actor == nil {
		return nil, fmt.Errorf("delete user %s: no actor: %w", id, domain.ErrForbidden)
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.CanEditUser(user, actor) {
		return nil, fmt.Errorf("delete user %s: %w", id, domain.ErrForbidden)
	}

	status := domain.StatusPendingRemove
	if err := s.repo.UpdateByID(ctx, id, domain.UserPatch{Status: &status}); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("delete user %s: %w", id, err)
		}
		return nil, err
	}

	user.Status = status
	user.UpdatedAt = s.now()
	user = user.Sanitized()

	s.log.Info().Str("user_id", id).Str("actor_id", actor.ID).Msg("user marked for removal")
	s.emit(domain.EventUserRemoved, user)

	return user, nil
}

// ValidateUser returns the matching user, or nil when the email is unknown or
// the password does not match. Absence is not an error.
func (s *UserService) ValidateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email, true)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if !s.hasher.Compare(password, user.PasswordHash) {
		return nil, nil
	}
	return user.Sanitized(), nil
}

// VerifyUser re-reads the user named by a token subject and checks that the
// token still describes it. Any drift, or a status other than active, is
// reported as domain.ErrUserNotFound.
func (s *UserService) VerifyUser(ctx context.Context, id string, claims ports.Claims) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if string(user.Role) != claims.Role ||
		user.Email != claims.Email ||
		string(user.Status) != claims.Status ||
		!user.Status.CanAuthenticate() {
		return nil, fmt.Errorf("verify user %s: %w", id, domain.ErrUserNotFound)
	}
	return user, nil
}

func (s *UserService) emit(typ domain.LifecycleEventType, user *domain.User) {
	if s.events == nil {
		return
	}
	s.events.Publish(domain.LifecycleEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		User:       user,
		OccurredAt: s.now(),
	})
}

func validateCreate(in ports.CreateUserInput) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return domain.InvalidInput("name is required")
	case strings.TrimSpace(in.Email) == "":
		return domain.InvalidInput("email is required")
	case in.Password == "":
		return domain.InvalidInput("password is required")
	case !in.Role.Valid():
		return domain.InvalidInput("unknown role %q", in.Role)
	case !in.Status.Valid():
		return domain.InvalidInput("unknown status %q", in.Status)
	}
	return nil
}

func validatePatch(p domain.UserPatch) error {
	switch {
	case p.Name != nil && strings.TrimSpace(*p.Name) == "":
		return domain.InvalidInput("name must not be empty")
	case p.Email != nil && strings.TrimSpace(*p.Email) == "":
		return domain.InvalidInput("email must not be empty")
	case p.Role != nil && !p.Role.Valid():
		return domain.InvalidInput("unknown role %q", *p.Role)
	case p.Status != nil && !p.Status.Valid():
		return domain.InvalidInput("unknown status %q", *p.Status)
	}
	return nil
}

var _ ports.UserService = (*UserService)(nil)
