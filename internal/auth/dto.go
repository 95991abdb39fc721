package auth

import (
	"github.com/shopkeeper-dev/storefront-backend/internal/users"
)

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,max=255"`
	LastName  string `json:"last_name" validate:"required,max=255"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=6"`
	TOS       bool   `json:"tos" validate:"required"`
}

// LoginRequest is the credential payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries a freshly minted bearer token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// LoginResponse bundles the token with the authenticated user.
type LoginResponse struct {
	TokenResponse
	User *users.UserDTO `json:"user"`
}
