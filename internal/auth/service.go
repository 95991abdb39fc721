package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopkeeper-dev/storefront-backend/internal/users"
	pkgAuth "github.com/shopkeeper-dev/storefront-backend/pkg/auth"
	"github.com/shopkeeper-dev/storefront-backend/pkg/auth/session"
	"github.com/shopkeeper-dev/storefront-backend/pkg/config"
	"github.com/shopkeeper-dev/storefront-backend/pkg/db"
	"github.com/shopkeeper-dev/storefront-backend/pkg/db/models"
	"github.com/shopkeeper-dev/storefront-backend/pkg/enums"
	pkgerrors "github.com/shopkeeper-dev/storefront-backend/pkg/errors"
	"github.com/shopkeeper-dev/storefront-backend/pkg/security"
	"github.com/shopkeeper-dev/storefront-backend/pkg/types"
)

const unauthorizedMessage = "Unauthorized"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, accessID string) error
	Refresh(ctx context.Context, actor types.Actor, accessID string) (*TokenResponse, error)
	Me(ctx context.Context, actorID uuid.UUID) (*users.UserDTO, error)
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type sessionManager interface {
	Open(ctx context.Context, accessID, userID string) error
	Rotate(ctx context.Context, oldAccessID string) (string, error)
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	users       userRepository
	session     sessionManager
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		users:       params.UserRepo,
		session:     params.SessionManager,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	email := normalizeEmail(req.Email)

	taken, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email")
	}
	if taken {
		return nil, emailTakenError()
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     email,
		// Roles are never settable through the API.
		Role:         enums.UserRoleCustomer,
		PasswordHash: hash,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, emailTakenError()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	return users.FromModel(user), nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(ctx, types.Actor{ID: user.ID, Role: user.Role})
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		TokenResponse: *token,
		User:          users.FromModel(user),
	}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, unauthorizedMessage)
	}
	if err := s.session.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session")
	}
	return nil
}

func (s *service) Refresh(ctx context.Context, actor types.Actor, accessID string) (*TokenResponse, error) {
	newAccessID, err := s.session.Rotate(ctx, accessID)
	if err != nil {
		if errors.Is(err, session.ErrUnknownSession) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, unauthorizedMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotate session")
	}

	return s.mintToken(actor, newAccessID)
}

func (s *service) Me(ctx context.Context, actorID uuid.UUID) (*users.UserDTO, error) {
	user, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, unauthorizedMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return users.FromModel(user), nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := normalizeEmail(email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, unauthorizedMessage)
	}
	user, err := s.users.FindByEmail(ctx, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, unauthorizedMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, unauthorizedMessage)
	}
	return user, nil
}

func (s *service) issueToken(ctx context.Context, actor types.Actor) (*TokenResponse, error) {
	accessID := session.NewAccessID()
	token, err := s.mintToken(actor, accessID)
	if err != nil {
		return nil, err
	}
	if err := s.session.Open(ctx, accessID, actor.ID.String()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open session")
	}
	return token, nil
}

func (s *service) mintToken(actor types.Actor, accessID string) (*TokenResponse, error) {
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: actor.ID,
		Role:   actor.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   s.jwtCfg.ExpirationMinutes * 60,
	}, nil
}

func emailTakenError() error {
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string][]string{"email": {"The email has already been taken."}})
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
