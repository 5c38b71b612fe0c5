package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/userhubapp/userhub-backend/internal/auth"
	"github.com/userhubapp/userhub-backend/internal/users"
	pkgerrors "github.com/userhubapp/userhub-backend/pkg/errors"
	"github.com/userhubapp/userhub-backend/pkg/logger"
)

type stubAuthService struct {
	loginResp   *auth.AuthResponse
	loginErr    error
	refreshResp *auth.TokenPair
	refreshErr  error
	logoutErr   error

	lastLogin   auth.LoginRequest
	lastRefresh auth.RefreshRequest
	lastLogout  auth.LogoutRequest
}

func (s *stubAuthService) Login(_ context.Context, req auth.LoginRequest) (*auth.AuthResponse, error) {
	s.lastLogin = req
	return s.loginResp, s.loginErr
}

func (s *stubAuthService) Refresh(_ context.Context, req auth.RefreshRequest) (*auth.TokenPair, error) {
	s.lastRefresh = req
	return s.refreshResp, s.refreshErr
}

func (s *stubAuthService) Logout(_ context.Context, req auth.LogoutRequest) error {
	s.lastLogout = req
	return s.logoutErr
}

type stubRegisterService struct {
	resp *auth.AuthResponse
	err  error
	last auth.RegisterRequest
}

func (s *stubRegisterService) Register(_ context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error) {
	s.last = req
	return s.resp, s.err
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.New(logger.Options{ServiceName: "controllers-test", Output: io.Discard})
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestAuthRegisterCreated(t *testing.T) {
	svc := &stubRegisterService{resp: &auth.AuthResponse{
		AccessToken:  "access",
		RefreshToken: "refresh",
		User:         &users.UserDTO{Email: "dana@example.com"},
	}}
	handler := AuthRegister(svc, testLogger(t))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"name":"Dana","email":"dana@example.com","password":"sw0rdfish-long"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.last.Email != "dana@example.com" {
		t.Fatalf("request not forwarded: %+v", svc.last)
	}
	body := decodeEnvelope(t, rec)
	data, _ := body["data"].(map[string]any)
	if data["access_token"] != "access" || data["refresh_token"] != "refresh" {
		t.Fatalf("tokens missing from response: %v", body)
	}
}

func TestAuthRegisterRejectsInvalidBody(t *testing.T) {
	svc := &stubRegisterService{}
	handler := AuthRegister(svc, testLogger(t))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"name":"Dana","email":"not-an-email","password":"short"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if svc.last.Email != "" {
		t.Fatal("service called despite validation failure")
	}
}

func TestAuthLoginSuccess(t *testing.T) {
	svc := &stubAuthService{loginResp: &auth.AuthResponse{AccessToken: "a", RefreshToken: "r"}}
	handler := AuthLogin(svc, testLogger(t))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"dana@example.com","password":"sw0rdfish-long"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastLogin.Email != "dana@example.com" {
		t.Fatalf("request not forwarded: %+v", svc.lastLogin)
	}
}

func TestAuthLoginUnauthorizedPassesThrough(t *testing.T) {
	svc := &stubAuthService{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := AuthLogin(svc, testLogger(t))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"dana@example.com","password":"wrong-password"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid credentials") {
		t.Fatalf("expected public message in body: %s", rec.Body.String())
	}
}

func TestAuthRefreshRotatesPair(t *testing.T) {
	svc := &stubAuthService{refreshResp: &auth.TokenPair{AccessToken: "a2", RefreshToken: "r2"}}
	handler := AuthRefresh(svc, testLogger(t))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh",
		strings.NewReader(`{"refresh_token":"r1"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastRefresh.RefreshToken != "r1" {
		t.Fatalf("refresh token not forwarded: %+v", svc.lastRefresh)
	}
}

func TestAuthRefreshRequiresToken(t *testing.T) {
	svc := &stubAuthService{}
	handler := AuthRefresh(svc, testLogger(t))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthLogout(t *testing.T) {
	svc := &stubAuthService{}
	handler := AuthLogout(svc, testLogger(t))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout",
		strings.NewReader(`{"refresh_token":"r1"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastLogout.RefreshToken != "r1" {
		t.Fatalf("logout token not forwarded: %+v", svc.lastLogout)
	}
}

func TestNilServicesReturnInternal(t *testing.T) {
	handlers := map[string]http.HandlerFunc{
		"register": AuthRegister(nil, testLogger(t)),
		"login":    AuthLogin(nil, testLogger(t)),
		"refresh":  AuthRefresh(nil, testLogger(t)),
		"logout":   AuthLogout(nil, testLogger(t)),
	}
	for name, handler := range handlers {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		handler(rec, req)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("%s: expected 500, got %d", name, rec.Code)
		}
	}
}
