package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopkeeper-dev/storefront-backend/pkg/auth"
	"github.com/shopkeeper-dev/storefront-backend/pkg/config"
	"github.com/shopkeeper-dev/storefront-backend/pkg/enums"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "storefront-test",
		ExpirationMinutes: 15,
		SessionTTLMinutes: 60,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()

	signed, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{
		UserID: userID,
		Role:   enums.UserRoleAdmin,
		JTI:    "session-123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := auth.ParseAccessToken(cfg, signed)
	require.NoError(t, err)
	require.Equal(t, userID, claims.UserID)
	require.Equal(t, enums.UserRoleAdmin, claims.Role)
	require.Equal(t, "session-123", claims.ID)
	require.Equal(t, cfg.Issuer, claims.Issuer)
}

func TestMintAccessTokenGeneratesJTI(t *testing.T) {
	cfg := testJWTConfig()

	signed, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleCustomer,
	})
	require.NoError(t, err)

	claims, err := auth.ParseAccessToken(cfg, signed)
	require.NoError(t, err)
	require.NotEmpty(t, claims.ID)
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()

	signed, err := auth.MintAccessToken(cfg, time.Now().Add(-time.Hour), auth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleCustomer,
	})
	require.NoError(t, err)

	_, err = auth.ParseAccessToken(cfg, signed)
	require.Error(t, err)
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()

	signed, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleCustomer,
	})
	require.NoError(t, err)

	other := cfg
	other.Secret = "different-secret"
	_, err = auth.ParseAccessToken(other, signed)
	require.Error(t, err)
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	cfg := testJWTConfig()

	signed, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleCustomer,
	})
	require.NoError(t, err)

	other := cfg
	other.Issuer = "someone-else"
	_, err = auth.ParseAccessToken(other, signed)
	require.Error(t, err)
}

func TestMintAccessTokenRejectsInvalidRole(t *testing.T) {
	cfg := testJWTConfig()

	_, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRole("warehouse_gnome"),
	})
	require.Error(t, err)
}
