package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/99minutos/user-directory/internal/core/domain"
	"github.com/99minutos/user-directory/internal/core/ports"
)

var (
	testAdmin = &domain.User{ID: "a1", Email: "admin@example.com", Role: domain.RoleAdmin, Status: domain.StatusActive}
	testUser  = &domain.User{ID: "u1", Email: "bob@example.com", Role: domain.RoleUser, Status: domain.StatusActive}
)

func TestUserHandler_Create_Success(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	stub := &stubUserService{
		createFn: func(_ context.Context, in ports.CreateUserInput, actor *domain.User) (*domain.User, error) {
			if actor != testAdmin {
				t.Fatalf("actor not forwarded")
			}
			if in.Role != domain.RoleUser || in.Status != domain.StatusActive || in.Password != "secret1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{
				ID: "u9", Name: in.Name, Email: in.Email, Role: in.Role, Status: in.Status,
				CreatedBy: actor.ID, CreatedAt: created, UpdatedAt: created,
			}, nil
		},
	}
	h := NewUserHandler(stub)

	body := `{"name":"Carol","email":"carol@example.com","password":"secret1","role":"user","status":"active"}`
	c, rec := newContext(http.MethodPost, "/users", body, testAdmin)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("response leaks password field: %s", rec.Body.String())
	}

	var resp userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "u9" || resp.CreatedBy != "a1" || resp.CreatedAt != "2026-03-01T10:00:00Z" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestUserHandler_Create_Validation(t *testing.T) {
	stub := &stubUserService{
		createFn: func(context.Context, ports.CreateUserInput, *domain.User) (*domain.User, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	h := NewUserHandler(stub)

	bodies := map[string]string{
		"short password": `{"name":"C","email":"c@example.com","password":"123","role":"user","status":"active"}`,
		"unknown role":   `{"name":"C","email":"c@example.com","password":"secret1","role":"root","status":"active"}`,
		"unknown status": `{"name":"C","email":"c@example.com","password":"secret1","role":"user","status":"gone"}`,
		"missing name":   `{"email":"c@example.com","password":"secret1","role":"user","status":"active"}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			c, _ := newContext(http.MethodPost, "/users", body, testAdmin)
			if err := h.Create(c); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestUserHandler_Create_ReportsWireFieldNames(t *testing.T) {
	h := NewUserHandler(&stubUserService{})

	c, _ := newContext(http.MethodPost, "/users", `{"name":"C","email":"c@example.com","password":"1","role":"user","status":"active"}`, testAdmin)
	err := h.Create(c)
	if err == nil || !strings.Contains(err.Error(), "password must be at least 6 characters") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUserHandler_List(t *testing.T) {
	stub := &stubUserService{
		findAllFn: func(context.Context) ([]*domain.User, error) {
			return []*domain.User{testAdmin, testUser}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newContext(http.MethodGet, "/users", "", testAdmin)
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 || resp[1].Email != "bob@example.com" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	stub := &stubUserService{
		findByIDFn: func(_ context.Context, id string) (*domain.User, error) {
			if id != "missing" {
				t.Fatalf("unexpected id %q", id)
			}
			return nil, domain.ErrUserNotFound
		},
	}
	h := NewUserHandler(stub)

	c, _ := newContext(http.MethodGet, "/users/missing", "", testUser)
	c.SetParamNames("id")
	c.SetParamValues("missing")
	if err := h.Get(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserHandler_Update_PartialFields(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(_ context.Context, id string, in ports.UpdateUserInput, actor *domain.User) (*domain.User, error) {
			if id != "u1" || actor != testUser {
				t.Fatalf("unexpected call: %s %v", id, actor)
			}
			if in.Name == nil || *in.Name != "Robert" {
				t.Fatalf("name not forwarded: %+v", in)
			}
			if in.Email != nil || in.Role != nil || in.Status != nil {
				t.Fatalf("absent fields must stay nil: %+v", in)
			}
			u := *testUser
			u.Name = *in.Name
			return &u, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newContext(http.MethodPatch, "/users/u1", `{"name":"Robert"}`, testUser)
	c.SetParamNames("id")
	c.SetParamValues("u1")
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"name":"Robert"`) {
		t.Fatalf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUserHandler_Update_Forbidden(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(context.Context, string, ports.UpdateUserInput, *domain.User) (*domain.User, error) {
			return nil, domain.ErrForbidden
		},
	}
	h := NewUserHandler(stub)

	c, _ := newContext(http.MethodPatch, "/users/a1", `{"role":"user"}`, testUser)
	c.SetParamNames("id")
	c.SetParamValues("a1")
	if err := h.Update(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	stub := &stubUserService{
		deleteFn: func(_ context.Context, id string, actor *domain.User) (*domain.User, error) {
			u := *testUser
			u.Status = domain.StatusPendingRemove
			return &u, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newContext(http.MethodDelete, "/users/u1", "", testUser)
	c.SetParamNames("id")
	c.SetParamValues("u1")
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"status":"pending_remove"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
