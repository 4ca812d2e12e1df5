package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/plataforma/accounts-api/internal/api/middleware"
	"github.com/plataforma/accounts-api/internal/core/domain"
	"github.com/plataforma/accounts-api/internal/core/ports"
)

// newCallerContext builds a context as the Auth middleware would leave it.
func newCallerContext(method, target, body string, caller domain.Caller) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := newJSONContext(method, target, body)
	c.Set(middleware.CallerIDKey, caller.ID)
	c.Set(middleware.CallerRoleKey, caller.Role)
	return c, rec
}

func TestUserHandler_Get_Success(t *testing.T) {
	stub := &stubAccountService{
		getFn: func(ctx context.Context, caller domain.Caller, id string) (*domain.PublicUser, error) {
			if caller.ID != "u1" || id != "u1" {
				t.Fatalf("unexpected args: %+v %s", caller, id)
			}
			return &domain.PublicUser{ID: "u1", Name: "Ana", Email: "ana@example.com", Role: domain.RoleUsuario}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newCallerContext(http.MethodGet, "/api/users/u1", "",
		domain.Caller{ID: "u1", Role: domain.RoleUsuario})
	c.SetParamNames("id")
	c.SetParamValues("u1")

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("response leaks password material: %s", rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["id"] != "u1" || user["email"] != "ana@example.com" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
}

func TestUserHandler_Get_MissingClaims(t *testing.T) {
	h := NewUserHandler(&stubAccountService{})

	c, _ := newJSONContext(http.MethodGet, "/api/users/u1", "")
	c.SetParamNames("id")
	c.SetParamValues("u1")

	err := h.Get(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestUserHandler_Get_Forbidden(t *testing.T) {
	stub := &stubAccountService{
		getFn: func(ctx context.Context, caller domain.Caller, id string) (*domain.PublicUser, error) {
			return nil, domain.ErrForbidden
		},
	}
	h := NewUserHandler(stub)

	c, _ := newCallerContext(http.MethodGet, "/api/users/u2", "",
		domain.Caller{ID: "u1", Role: domain.RoleUsuario})
	c.SetParamNames("id")
	c.SetParamValues("u2")

	if err := h.Get(c); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden to propagate, got %v", err)
	}
}

func TestUserHandler_List_Success(t *testing.T) {
	stub := &stubAccountService{
		listFn: func(ctx context.Context, caller domain.Caller) ([]domain.PublicUser, error) {
			return []domain.PublicUser{
				{ID: "u1", Name: "Ana", Email: "ana@example.com", Role: domain.RoleAdmin},
				{ID: "u2", Name: "Beto", Email: "beto@example.com", Role: domain.RoleUsuario},
			}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newCallerContext(http.MethodGet, "/api/users", "",
		domain.Caller{ID: "u1", Role: domain.RoleAdmin})

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string][]userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp["users"]) != 2 {
		t.Fatalf("expected 2 users, got %d", len(resp["users"]))
	}
}

func TestUserHandler_Create_Success(t *testing.T) {
	stub := &stubAccountService{
		createFn: func(ctx context.Context, caller domain.Caller, in ports.CreateUserInput) (*domain.PublicUser, error) {
			if in.Role != domain.RoleUsuario {
				t.Fatalf("unexpected role: %s", in.Role)
			}
			return &domain.PublicUser{ID: "u3", Name: in.Name, Email: in.Email, Role: in.Role}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newCallerContext(http.MethodPost, "/api/users",
		`{"name":"Caro","email":"caro@example.com","password":"secret1","role":"usuario"}`,
		domain.Caller{ID: "adm", Role: domain.RoleAdmin})

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestUserHandler_Create_RoleRequired(t *testing.T) {
	stub := &stubAccountService{
		createFn: func(ctx context.Context, caller domain.Caller, in ports.CreateUserInput) (*domain.PublicUser, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewUserHandler(stub)

	// Unlike register, role is mandatory on the admin creation path.
	c, _ := newCallerContext(http.MethodPost, "/api/users",
		`{"name":"Caro","email":"caro@example.com","password":"secret1"}`,
		domain.Caller{ID: "adm", Role: domain.RoleAdmin})

	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestUserHandler_Update_PartialBody(t *testing.T) {
	stub := &stubAccountService{
		updateFn: func(ctx context.Context, caller domain.Caller, id string, in ports.UpdateUserInput) (*domain.PublicUser, error) {
			if in.Name == nil || *in.Name != "Ana María" {
				t.Fatalf("name not forwarded: %+v", in)
			}
			if in.Email != nil || in.Password != nil || in.Role != nil {
				t.Fatalf("absent fields should be nil: %+v", in)
			}
			return &domain.PublicUser{ID: id, Name: *in.Name, Email: "ana@example.com", Role: domain.RoleUsuario}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newCallerContext(http.MethodPut, "/api/users/u1",
		`{"name":"Ana María"}`,
		domain.Caller{ID: "u1", Role: domain.RoleUsuario})
	c.SetParamNames("id")
	c.SetParamValues("u1")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Update_RoleChangeForbidden(t *testing.T) {
	stub := &stubAccountService{
		updateFn: func(ctx context.Context, caller domain.Caller, id string, in ports.UpdateUserInput) (*domain.PublicUser, error) {
			return nil, domain.ErrForbidden
		},
	}
	h := NewUserHandler(stub)

	c, _ := newCallerContext(http.MethodPut, "/api/users/u1",
		`{"role":"admin"}`,
		domain.Caller{ID: "u1", Role: domain.RoleUsuario})
	c.SetParamNames("id")
	c.SetParamValues("u1")

	if err := h.Update(c); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden to propagate, got %v", err)
	}
}

func TestUserHandler_Delete_Success(t *testing.T) {
	deleted := ""
	stub := &stubAccountService{
		deleteFn: func(ctx context.Context, caller domain.Caller, id string) error {
			deleted = id
			return nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newCallerContext(http.MethodDelete, "/api/users/u1", "",
		domain.Caller{ID: "adm", Role: domain.RoleAdmin})
	c.SetParamNames("id")
	c.SetParamValues("u1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if deleted != "u1" {
		t.Fatalf("expected delete of u1, got %q", deleted)
	}
}

func TestUserHandler_Delete_NotFound(t *testing.T) {
	stub := &stubAccountService{
		deleteFn: func(ctx context.Context, caller domain.Caller, id string) error {
			return domain.ErrUserNotFound
		},
	}
	h := NewUserHandler(stub)

	c, _ := newCallerContext(http.MethodDelete, "/api/users/missing", "",
		domain.Caller{ID: "adm", Role: domain.RoleAdmin})
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := h.Delete(c); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound to propagate, got %v", err)
	}
}
