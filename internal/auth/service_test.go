package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopkeeper-dev/storefront-backend/internal/users"
	"github.com/shopkeeper-dev/storefront-backend/pkg/auth/session"
	"github.com/shopkeeper-dev/storefront-backend/pkg/config"
	"github.com/shopkeeper-dev/storefront-backend/pkg/db/models"
	"github.com/shopkeeper-dev/storefront-backend/pkg/enums"
	pkgerrors "github.com/shopkeeper-dev/storefront-backend/pkg/errors"
	"github.com/shopkeeper-dev/storefront-backend/pkg/security"
	"github.com/shopkeeper-dev/storefront-backend/pkg/types"
)

type stubUserRepo struct {
	byEmail   map[string]*models.User
	created   []users.CreateUserDTO
	createErr error
}

func (s *stubUserRepo) Create(_ context.Context, dto users.CreateUserDTO) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, dto)
	return &models.User{
		ID:           uuid.New(),
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		Email:        dto.Email,
		PasswordHash: dto.PasswordHash,
		Role:         dto.Role,
	}, nil
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range s.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	_, ok := s.byEmail[email]
	return ok, nil
}

type stubSessions struct {
	opened  map[string]string
	revoked []string
}

func newStubSessions() *stubSessions {
	return &stubSessions{opened: map[string]string{}}
}

func (s *stubSessions) Open(_ context.Context, accessID, userID string) error {
	s.opened[accessID] = userID
	return nil
}

func (s *stubSessions) Rotate(_ context.Context, oldAccessID string) (string, error) {
	userID, ok := s.opened[oldAccessID]
	if !ok {
		return "", session.ErrUnknownSession
	}
	delete(s.opened, oldAccessID)
	newID := session.NewAccessID()
	s.opened[newID] = userID
	return newID, nil
}

func (s *stubSessions) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	delete(s.opened, accessID)
	return nil
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T, repo *stubUserRepo, sessions *stubSessions) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60, SessionTTLMinutes: 600},
		PasswordConfig: testPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func seedUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		PasswordHash: hash,
		Role:         enums.UserRoleCustomer,
	}
}

func TestRegisterCreatesCustomer(t *testing.T) {
	repo := &stubUserRepo{byEmail: map[string]*models.User{}}
	svc := newTestService(t, repo, newStubSessions())

	dto, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "Ada@Example.com",
		Password:  "secret123",
		TOS:       true,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if dto.Email != "ada@example.com" {
		t.Fatalf("expected normalized email, got %s", dto.Email)
	}
	if dto.Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer role, got %s", dto.Role)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one create call, got %d", len(repo.created))
	}
	if repo.created[0].PasswordHash == "secret123" {
		t.Fatal("password stored unhashed")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	existing := seedUser(t, "secret123")
	repo := &stubUserRepo{byEmail: map[string]*models.User{existing.Email: existing}}
	svc := newTestService(t, repo, newStubSessions())

	_, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ADA@example.com",
		Password:  "secret123",
		TOS:       true,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string][]string)
	if !ok || len(details["email"]) == 0 {
		t.Fatalf("expected email field error, got %v", typed.Details())
	}
}

func TestLoginSuccessOpensSession(t *testing.T) {
	user := seedUser(t, "secret123")
	repo := &stubUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	sessions := newStubSessions()
	svc := newTestService(t, repo, sessions)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected access token")
	}
	if resp.TokenType != "bearer" {
		t.Fatalf("expected bearer token type, got %s", resp.TokenType)
	}
	if resp.ExpiresIn != 3600 {
		t.Fatalf("expected 3600s expiry, got %d", resp.ExpiresIn)
	}
	if len(sessions.opened) != 1 {
		t.Fatalf("expected one open session, got %d", len(sessions.opened))
	}
	if resp.User == nil || resp.User.Email != user.Email {
		t.Fatalf("expected user payload, got %+v", resp.User)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	user := seedUser(t, "secret123")
	repo := &stubUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	svc := newTestService(t, repo, newStubSessions())

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "wrong"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if typed.Message() != "Unauthorized" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := &stubUserRepo{byEmail: map[string]*models.User{}}
	svc := newTestService(t, repo, newStubSessions())

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := newStubSessions()
	sessions.opened["jti-1"] = "user-1"
	svc := newTestService(t, &stubUserRepo{byEmail: map[string]*models.User{}}, sessions)

	if err := svc.Logout(context.Background(), "jti-1"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "jti-1" {
		t.Fatalf("expected jti-1 revoked, got %v", sessions.revoked)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	sessions := newStubSessions()
	sessions.opened["jti-old"] = "user-1"
	svc := newTestService(t, &stubUserRepo{byEmail: map[string]*models.User{}}, sessions)

	actor := types.Actor{ID: uuid.New(), Role: enums.UserRoleCustomer}
	resp, err := svc.Refresh(context.Background(), actor, "jti-old")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected new access token")
	}
	if _, stillOpen := sessions.opened["jti-old"]; stillOpen {
		t.Fatal("old session should be rotated out")
	}
}

func TestRefreshUnknownSession(t *testing.T) {
	svc := newTestService(t, &stubUserRepo{byEmail: map[string]*models.User{}}, newStubSessions())

	_, err := svc.Refresh(context.Background(), types.Actor{ID: uuid.New(), Role: enums.UserRoleCustomer}, "never-opened")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestMeReturnsUser(t *testing.T) {
	user := seedUser(t, "secret123")
	repo := &stubUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	svc := newTestService(t, repo, newStubSessions())

	dto, err := svc.Me(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if dto.ID != user.ID {
		t.Fatalf("unexpected user %+v", dto)
	}
}
