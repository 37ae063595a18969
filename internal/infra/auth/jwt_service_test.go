package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsdesk/config"
	"opsdesk/internal/domain/entity"
)

func newTestTokenService(t *testing.T) *jwtService {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "test-access-secret"
	cfg.SecretKey.Refresh = "test-refresh-secret"

	svc, err := NewJWTService(cfg)
	require.NoError(t, err)

	return svc.(*jwtService)
}

func TestNewJWTService_RequiresSecrets(t *testing.T) {
	_, err := NewJWTService(&config.Config{})

	require.Error(t, err)
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestTokenService(t)
	accountID := uuid.New()

	access, refresh, err := svc.GenerateTokens(accountID, entity.RoleClient.String())
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	claims, err := svc.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, accountID, claims.AccountID)
	assert.Equal(t, entity.RoleClient.String(), claims.Role)
	assert.Equal(t, tokenTypeAccess, claims.Type)
}

func TestJWTService_RejectsRefreshTokenAsAccess(t *testing.T) {
	svc := newTestTokenService(t)

	_, refresh, err := svc.GenerateTokens(uuid.New(), entity.RoleAdmin.String())
	require.NoError(t, err)

	// Refresh tokens are signed with a different secret and typed "refresh".
	_, err = svc.ValidateAccessToken(refresh)
	require.Error(t, err)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc := newTestTokenService(t)

	_, err := svc.ValidateAccessToken("not-a-token")
	require.Error(t, err)
}
