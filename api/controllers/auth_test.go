package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/shopkeeper-dev/storefront-backend/api/middleware"
	"github.com/shopkeeper-dev/storefront-backend/internal/auth"
	"github.com/shopkeeper-dev/storefront-backend/internal/users"
	"github.com/shopkeeper-dev/storefront-backend/pkg/enums"
	"github.com/shopkeeper-dev/storefront-backend/pkg/logger"
	"github.com/shopkeeper-dev/storefront-backend/pkg/types"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type stubAuthService struct {
	registered  *auth.RegisterRequest
	loggedOut   []string
	refreshedID string
}

func (s *stubAuthService) Register(_ context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	s.registered = &req
	return &users.UserDTO{ID: uuid.New(), Email: req.Email, Role: enums.UserRoleCustomer}, nil
}

func (s *stubAuthService) Login(context.Context, auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{
		TokenResponse: auth.TokenResponse{AccessToken: "token", TokenType: "bearer", ExpiresIn: 3600},
		User:          &users.UserDTO{ID: uuid.New()},
	}, nil
}

func (s *stubAuthService) Logout(_ context.Context, accessID string) error {
	s.loggedOut = append(s.loggedOut, accessID)
	return nil
}

func (s *stubAuthService) Refresh(_ context.Context, _ types.Actor, accessID string) (*auth.TokenResponse, error) {
	s.refreshedID = accessID
	return &auth.TokenResponse{AccessToken: "fresh", TokenType: "bearer", ExpiresIn: 3600}, nil
}

func (s *stubAuthService) Me(context.Context, uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: uuid.New()}, nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestAuthRegisterCreated(t *testing.T) {
	stub := &stubAuthService{}
	payload := `{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com","password":"secret1","tos":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	AuthRegister(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != true {
		t.Fatalf("expected status true, got %v", body["status"])
	}
	if body["message"] != "User Created Successfully" {
		t.Fatalf("unexpected message %v", body["message"])
	}
	if stub.registered == nil || stub.registered.Email != "ada@example.com" {
		t.Fatalf("service not called with payload: %+v", stub.registered)
	}
}

func TestAuthRegisterCollectsValidationErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{"password":"x"}`))
	rec := httptest.NewRecorder()

	AuthRegister(&stubAuthService{}, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	errs, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected field error map, got %v", body["error"])
	}
	for _, field := range []string{"first_name", "last_name", "email", "password", "tos"} {
		if _, present := errs[field]; !present {
			t.Fatalf("expected error for %s, got %v", field, errs)
		}
	}
}

func TestAuthLoginEnvelope(t *testing.T) {
	payload := `{"email":"ada@example.com","password":"secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	AuthLogin(&stubAuthService{}, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["access_token"] != "token" || body["token_type"] != "bearer" {
		t.Fatalf("unexpected token payload %v", body)
	}
	if _, ok := body["user"]; !ok {
		t.Fatal("expected user in login payload")
	}
}

func TestAuthLogoutRevokesContextSession(t *testing.T) {
	stub := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req = req.WithContext(middleware.WithAccessID(req.Context(), "jti-123"))
	rec := httptest.NewRecorder()

	AuthLogout(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(stub.loggedOut) != 1 || stub.loggedOut[0] != "jti-123" {
		t.Fatalf("expected session jti revoked, got %v", stub.loggedOut)
	}
}

func TestAuthRefreshUsesContextSession(t *testing.T) {
	stub := &stubAuthService{}
	req := httptest.NewRequest(http.MethodGet, "/api/auth/refresh", nil)
	ctx := middleware.WithAccessID(req.Context(), "jti-456")
	ctx = middleware.WithActor(ctx, types.Actor{ID: uuid.New(), Role: enums.UserRoleCustomer})
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	AuthRefresh(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.refreshedID != "jti-456" {
		t.Fatalf("expected rotation of the presented jti, got %q", stub.refreshedID)
	}
	body := decodeBody(t, rec)
	if body["access_token"] != "fresh" {
		t.Fatalf("unexpected token payload %v", body)
	}
}
