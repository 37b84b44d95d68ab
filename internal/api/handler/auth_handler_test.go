package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/account-service/internal/core/domain"
	"github.com/99minutos/account-service/internal/core/ports"
)

type stubAccountService struct {
	registerFn    func(ctx context.Context, input ports.RegisterInput) (*domain.User, error)
	loginFn       func(ctx context.Context, username, password string) (*ports.LoginResult, error)
	currentUserFn func(ctx context.Context, identity domain.Identity) (*ports.UserProfile, error)
}

func (s *stubAccountService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAccountService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAccountService) CurrentUser(ctx context.Context, identity domain.Identity) (*ports.UserProfile, error) {
	return s.currentUserFn(ctx, identity)
}

func newJSONContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAccountService{
		registerFn: func(_ context.Context, input ports.RegisterInput) (*domain.User, error) {
			if input.Username != "alice" || input.Email != "a@x.com" || input.Password != "pw1" || input.FirstName != "Alice" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.User{ID: "u1", Username: input.Username, Email: input.Email, PasswordHash: "$2a$hash"}, nil
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/auth/register",
		`{"username":"alice","email":"a@x.com","password":"pw1","firstName":"Alice"}`)

	if err := NewAuthHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decode(t, rec)
	if resp["message"] != "User registered successfully!" || resp["username"] != "alice" || resp["email"] != "a@x.com" {
		t.Fatalf("unexpected response: %v", resp)
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}
}

func TestAuthHandler_Register_Duplicates(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{domain.ErrDuplicateUsername, "Username already registered!"},
		{domain.ErrDuplicateEmail, "Email already registered!"},
	}

	for _, tc := range cases {
		stub := &stubAccountService{
			registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) { return nil, tc.err },
		}
		c, rec := newJSONContext(http.MethodPost, "/auth/register",
			`{"username":"alice","email":"a@x.com","password":"pw1"}`)

		if err := NewAuthHandler(stub).Register(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if got := decode(t, rec)["message"]; got != tc.want {
			t.Fatalf("expected %q, got %v", tc.want, got)
		}
	}
}

func TestAuthHandler_Register_ValidationError(t *testing.T) {
	stub := &stubAccountService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/auth/register", `{"username":"alice"}`)

	if err := NewAuthHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if _, ok := decode(t, rec)["error"]; !ok {
		t.Fatalf("expected error field: %s", rec.Body.String())
	}
}

func TestAuthHandler_Register_PasswordTooLong(t *testing.T) {
	stub := &stubAccountService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	body := `{"username":"alice","email":"a@x.com","password":"` + strings.Repeat("p", 80) + `"}`
	c, rec := newJSONContext(http.MethodPost, "/auth/register", body)

	if err := NewAuthHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if got := decode(t, rec)["error"]; got != "password must be at most 72 bytes" {
		t.Fatalf("unexpected error: %v", got)
	}
}

func TestAuthHandler_Register_InvalidInputFromService(t *testing.T) {
	stub := &stubAccountService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			return nil, fmt.Errorf("hash password: %w", domain.ErrInvalidInput)
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/auth/register",
		`{"username":"alice","email":"a@x.com","password":"pw1"}`)

	if err := NewAuthHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_MalformedJSON(t *testing.T) {
	c, rec := newJSONContext(http.MethodPost, "/auth/register", `{"username":`)

	if err := NewAuthHandler(&stubAccountService{}).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_UnexpectedErrorPropagates(t *testing.T) {
	boom := errors.New("store down")
	stub := &stubAccountService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) { return nil, boom },
	}
	c, _ := newJSONContext(http.MethodPost, "/auth/register",
		`{"username":"alice","email":"a@x.com","password":"pw1"}`)

	if err := NewAuthHandler(stub).Register(c); !errors.Is(err, boom) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAccountService{
		loginFn: func(_ context.Context, username, password string) (*ports.LoginResult, error) {
			if username != "alice" || password != "pw1" {
				t.Fatalf("unexpected credentials: %s", username)
			}
			return &ports.LoginResult{Token: "jwt-token", UserID: "u1", Username: "alice", Email: "a@x.com"}, nil
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/auth/login", `{"username":"alice","password":"pw1"}`)

	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decode(t, rec)
	if resp["token"] != "jwt-token" || resp["username"] != "alice" || resp["message"] != "Login successful" {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAccountService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}

	for _, body := range []string{`{"username":"alice","password":"wrong"}`, `{"username":"ghost","password":"x"}`, `{}`} {
		c, rec := newJSONContext(http.MethodPost, "/auth/login", body)

		if err := NewAuthHandler(stub).Login(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if got := decode(t, rec)["error"]; got != "Invalid username or password" {
			t.Fatalf("unexpected error message: %v", got)
		}
	}
}
