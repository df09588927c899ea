package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/rmjobsites/jobsites-api/internal/auth"
	"github.com/rmjobsites/jobsites-api/internal/users"
	"github.com/rmjobsites/jobsites-api/pkg/enums"
	pkgerrors "github.com/rmjobsites/jobsites-api/pkg/errors"
)

type stubAuthService struct {
	loginReq  *auth.LoginRequest
	loginErr  error
	profileID uuid.UUID
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.TokenResponse, error) {
	s.loginReq = &req
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &auth.TokenResponse{Token: "jwt", User: &users.UserDTO{Email: req.Email}}, nil
}

func (s *stubAuthService) Profile(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	s.profileID = userID
	return &users.UserDTO{ID: userID, Email: "me@example.com"}, nil
}

type stubRegisterService struct {
	req *auth.RegisterRequest
	err error
}

func (s *stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.TokenResponse, error) {
	s.req = &req
	if s.err != nil {
		return nil, s.err
	}
	return &auth.TokenResponse{Token: "jwt", User: &users.UserDTO{Email: req.Email}}, nil
}

func TestAuthLoginSuccess(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@example.com","password":"secret1"}`))
	rec := httptest.NewRecorder()

	AuthLogin(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body auth.TokenResponse
	decodeBody(t, rec, &body)
	if body.Token != "jwt" || body.User == nil || body.User.Email != "a@example.com" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestAuthLoginInvalidCredentials(t *testing.T) {
	svc := &stubAuthService{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid email or password")}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"nope","password":""}`))
	rec := httptest.NewRecorder()

	AuthLogin(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body errorBody
	decodeBody(t, rec, &body)
	if body.Error != "Invalid email or password" {
		t.Fatalf("unexpected error %q", body.Error)
	}
	if svc.loginReq == nil {
		t.Fatal("expected malformed credentials to reach the service")
	}
}

func TestAuthRegisterCreated(t *testing.T) {
	svc := &stubRegisterService{}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{"email":"new@example.com","password":"secret1","given_name":"Jamie"}`))
	rec := httptest.NewRecorder()

	AuthRegister(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.req == nil || svc.req.GivenName != "Jamie" {
		t.Fatalf("unexpected request %+v", svc.req)
	}
}

func TestAuthRegisterRejectsBadEmail(t *testing.T) {
	svc := &stubRegisterService{}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{"email":"not-an-email","password":"secret1"}`))
	rec := httptest.NewRecorder()

	AuthRegister(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if svc.req != nil {
		t.Fatal("expected service not to be called")
	}
}

func TestAuthRegisterConflict(t *testing.T) {
	svc := &stubRegisterService{err: pkgerrors.New(pkgerrors.CodeConflict, "Email has already been taken")}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{"email":"taken@example.com","password":"secret1"}`))
	rec := httptest.NewRecorder()

	AuthRegister(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthProfile(t *testing.T) {
	svc := &stubAuthService{}
	userID := uuid.New()

	rec := httptest.NewRecorder()
	AuthProfile(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user, got %d", rec.Code)
	}

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil), userID, enums.UserRoleCustomer)
	rec = httptest.NewRecorder()
	AuthProfile(svc, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		User users.UserDTO `json:"user"`
	}
	decodeBody(t, rec, &body)
	if body.User.ID != userID || svc.profileID != userID {
		t.Fatalf("unexpected profile %+v", body.User)
	}
}
