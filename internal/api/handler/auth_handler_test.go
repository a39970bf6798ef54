package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/natours/tour-booking-api/internal/core/domain"
	"github.com/natours/tour-booking-api/internal/core/ports"
)

type stubAuthService struct {
	signupFn func(ctx context.Context, in ports.SignupInput, welcomeURL string) (string, *domain.User, error)
	loginFn  func(ctx context.Context, email, password string) (string, *domain.User, error)
	forgotFn func(ctx context.Context, email, base string) error
}

func (s *stubAuthService) Signup(ctx context.Context, in ports.SignupInput, welcomeURL string) (string, *domain.User, error) {
	return s.signupFn(ctx, in, welcomeURL)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.User, error) {
	panic("not used")
}

func (s *stubAuthService) ForgotPassword(ctx context.Context, email, base string) error {
	return s.forgotFn(ctx, email, base)
}

func (s *stubAuthService) ResetPassword(context.Context, string, string, string) (string, *domain.User, error) {
	panic("not used")
}

func (s *stubAuthService) UpdatePassword(context.Context, string, string, string, string) (string, *domain.User, error) {
	panic("not used")
}

func newAuthTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := jsonRequest(method, target, body)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	stub := &stubAuthService{
		signupFn: func(_ context.Context, in ports.SignupInput, _ string) (string, *domain.User, error) {
			if in.Name != "Alice" || in.Email != "alice@example.com" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return "token-123", &domain.User{Name: in.Name, Email: in.Email, Role: domain.RoleUser}, nil
		},
	}
	h := NewAuthHandler(stub, "https://natours.example", time.Hour, false)

	c, rec := newAuthTestContext(t, http.MethodPost, "/api/v1/users/signup",
		`{"name":"Alice","email":"alice@example.com","password":"pass1234","passwordConfirm":"pass1234"}`)

	if err := h.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var resp struct {
		Status string `json:"status"`
		Token  string `json:"token"`
		Data   struct {
			User domain.User `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != "success" || resp.Token != "token-123" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Data.User.Email != "alice@example.com" {
		t.Fatalf("unexpected user payload: %+v", resp.Data.User)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "jwt" || cookies[0].Value != "token-123" {
		t.Fatalf("auth cookie not set: %+v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Fatal("auth cookie must be http-only")
	}
}

func TestAuthHandler_Signup_MissingFields(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, "https://natours.example", time.Hour, false)

	c, _ := newAuthTestContext(t, http.MethodPost, "/api/v1/users/signup",
		`{"email":"not-an-email"}`)

	err := h.Signup(c)
	opErr, ok := domain.IsOperational(err)
	if !ok || opErr.Code != http.StatusBadRequest {
		t.Fatalf("expected operational 400, got %v", err)
	}
}

func TestAuthHandler_Login_Failure(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, "https://natours.example", time.Hour, false)

	c, _ := newAuthTestContext(t, http.MethodPost, "/api/v1/users/login",
		`{"email":"alice@example.com","password":"wrong999"}`)

	if err := h.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Logout_ExpiresCookie(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, "https://natours.example", time.Hour, false)

	c, rec := newAuthTestContext(t, http.MethodPost, "/api/v1/users/logout", "")
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "jwt" {
		t.Fatalf("expected one jwt cookie, got %+v", cookies)
	}
	if cookies[0].Value != "loggedout" {
		t.Fatalf("cookie value = %q, want loggedout", cookies[0].Value)
	}
	if time.Until(cookies[0].Expires) > time.Minute {
		t.Fatalf("logout cookie should expire shortly, expires %v", cookies[0].Expires)
	}
}

func TestAuthHandler_ForgotPassword_Success(t *testing.T) {
	called := false
	stub := &stubAuthService{
		forgotFn: func(_ context.Context, email, _ string) error {
			called = true
			if email != "alice@example.com" {
				t.Fatalf("unexpected email: %s", email)
			}
			return nil
		},
	}
	h := NewAuthHandler(stub, "https://natours.example", time.Hour, false)

	c, rec := newAuthTestContext(t, http.MethodPost, "/api/v1/users/forgotPassword",
		`{"email":"alice@example.com"}`)

	if err := h.ForgotPassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatal("service not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "Token sent to email!" {
		t.Fatalf("message = %q", resp["message"])
	}
}

func TestAuthHandler_ForgotPassword_IgnoresHostHeader(t *testing.T) {
	var gotBase string
	stub := &stubAuthService{
		forgotFn: func(_ context.Context, _, base string) error {
			gotBase = base
			return nil
		},
	}
	h := NewAuthHandler(stub, "https://natours.example", time.Hour, false)

	e := echo.New()
	e.Validator = NewValidator()
	req := jsonRequest(http.MethodPost, "/api/v1/users/forgotPassword", `{"email":"alice@example.com"}`)
	req.Host = "evil.attacker.example"
	rec := httptest.NewRecorder()

	if err := h.ForgotPassword(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotBase != "https://natours.example" {
		t.Fatalf("reset link base = %q, want configured origin", gotBase)
	}
}

func TestAuthHandler_Signup_WelcomeURLFromConfiguredBase(t *testing.T) {
	var gotURL string
	stub := &stubAuthService{
		signupFn: func(_ context.Context, in ports.SignupInput, welcomeURL string) (string, *domain.User, error) {
			gotURL = welcomeURL
			return "tok", &domain.User{Name: in.Name, Email: in.Email, Role: domain.RoleUser}, nil
		},
	}
	h := NewAuthHandler(stub, "https://natours.example", time.Hour, false)

	e := echo.New()
	e.Validator = NewValidator()
	req := jsonRequest(http.MethodPost, "/api/v1/users/signup",
		`{"name":"Alice","email":"alice@example.com","password":"pass1234","passwordConfirm":"pass1234"}`)
	req.Host = "evil.attacker.example"
	rec := httptest.NewRecorder()

	if err := h.Signup(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotURL != "https://natours.example/me" {
		t.Fatalf("welcome URL = %q, want configured origin", gotURL)
	}
}

func TestAuthHandler_UpdatePassword_RequiresPrincipal(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, "https://natours.example", time.Hour, false)

	c, _ := newAuthTestContext(t, http.MethodPatch, "/api/v1/users/updateMyPassword",
		`{"passwordCurrent":"a","password":"newpass123","passwordConfirm":"newpass123"}`)

	if err := h.UpdatePassword(c); err != domain.ErrNotLoggedIn {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
}
