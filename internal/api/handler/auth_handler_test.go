package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/workhub/collab-api/internal/core/domain"
	"github.com/workhub/collab-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, input ports.RegisterInput) (*domain.User, string, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, string, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) ListUsers(_ context.Context) ([]*domain.User, error) {
	return []*domain.User{{ID: "user-1", Name: "alice", Role: domain.RoleAdmin}}, nil
}

func (s *stubAuthService) UpdateUserRole(_ context.Context, id, role string) (*domain.User, error) {
	if id == "missing" {
		return nil, domain.ErrUserNotFound
	}
	return &domain.User{ID: id, Role: role}, nil
}

func newAuthContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register(t *testing.T) {
	svc := &stubAuthService{
		registerFn: func(_ context.Context, input ports.RegisterInput) (*domain.User, string, error) {
			if input.Role != "" && input.Role != domain.RoleManager {
				t.Fatalf("unexpected role: %s", input.Role)
			}
			return &domain.User{ID: "user-1", Name: input.Name, Email: input.Email, Role: domain.RoleManager}, "signed-token", nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newAuthContext(http.MethodPost, "/auth/register", `{"name":"alice","email":"a@x.com","password":"secret1","role":"manager"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp struct {
		Token string       `json:"token"`
		User  *domain.User `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token != "signed-token" || resp.User == nil || resp.User.ID != "user-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, string, error) {
			t.Fatal("service must not be called on invalid payload")
			return nil, "", nil
		},
	})

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"email":"a@x.com","password":"secret1"}`},
		{"bad email", `{"name":"alice","email":"not-an-email","password":"secret1"}`},
		{"short password", `{"name":"alice","email":"a@x.com","password":"abc"}`},
		{"unknown role", `{"name":"alice","email":"a@x.com","password":"secret1","role":"root"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newAuthContext(http.MethodPost, "/auth/register", tc.body)
			err := h.Register(c)
			httpErr, ok := err.(*echo.HTTPError)
			if !ok || httpErr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %v", err)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (string, *domain.User, error) {
			if email != "a@x.com" || password != "secret1" {
				return "", nil, domain.ErrInvalidCredentials
			}
			return "signed-token", &domain.User{ID: "user-1", Email: email}, nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newAuthContext(http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"secret1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = newAuthContext(http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"wrong1"}`)
	if err := h.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials passed through, got %v", err)
	}
}

func TestAuthHandler_UpdateRole(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, rec := newAuthContext(http.MethodPatch, "/users/user-2/role", `{"role":"admin"}`)
	c.SetParamNames("id")
	c.SetParamValues("user-2")
	if err := h.UpdateRole(c); err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = newAuthContext(http.MethodPatch, "/users/user-2/role", `{"role":"root"}`)
	c.SetParamNames("id")
	c.SetParamValues("user-2")
	err := h.UpdateRole(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown role, got %v", err)
	}

	c, _ = newAuthContext(http.MethodPatch, "/users/missing/role", `{"role":"admin"}`)
	c.SetParamNames("id")
	c.SetParamValues("missing")
	if err := h.UpdateRole(c); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound passed through, got %v", err)
	}
}
