package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/account-service/internal/api/middleware"
	"github.com/99minutos/account-service/internal/core/domain"
	"github.com/99minutos/account-service/internal/core/ports"
)

func newMeContext(identity *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/user/me", nil), rec)
	if identity != nil {
		c.Set(middleware.IdentityKey, *identity)
	}
	return c, rec
}

func TestUserHandler_Me_Success(t *testing.T) {
	stub := &stubAccountService{
		currentUserFn: func(_ context.Context, identity domain.Identity) (*ports.UserProfile, error) {
			if identity.Username != "alice" {
				t.Fatalf("unexpected identity: %+v", identity)
			}
			return &ports.UserProfile{ID: "u1", Username: "alice", Email: "a@x.com", Role: domain.DefaultRole}, nil
		},
	}
	c, rec := newMeContext(&domain.Identity{Username: "alice"})

	if err := NewUserHandler(stub).Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decode(t, rec)
	want := map[string]any{
		"userId": "u1", "username": "alice", "email": "a@x.com",
		"firstName": "", "lastName": "", "role": "USER",
	}
	for k, v := range want {
		if resp[k] != v {
			t.Fatalf("field %s: expected %v, got %v", k, v, resp[k])
		}
	}
}

func TestUserHandler_Me_NotFound(t *testing.T) {
	stub := &stubAccountService{
		currentUserFn: func(context.Context, domain.Identity) (*ports.UserProfile, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	c, rec := newMeContext(&domain.Identity{Username: "deleted"})

	if err := NewUserHandler(stub).Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if got := decode(t, rec)["error"]; got != "User not found" {
		t.Fatalf("unexpected error: %v", got)
	}
}

func TestUserHandler_Me_MissingIdentity(t *testing.T) {
	c, _ := newMeContext(nil)

	err := NewUserHandler(&stubAccountService{}).Me(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
