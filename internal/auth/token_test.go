package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", 30)

	token, expiresAt, err := manager.GenerateToken("user-123", domain.RoleAgent)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)

	claims, err := manager.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, domain.RoleAgent, claims.Role)
	assert.NotEmpty(t, claims.ID, "token needs a jti for revocation")
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", 30)
	verifier := NewTokenManager("secret-b", 30)

	token, _, err := issuer.GenerateToken("user-123", domain.RoleUser)
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	manager := &TokenManager{secret: []byte("test-secret"), ttl: -time.Minute}

	token, _, err := manager.GenerateToken("user-123", domain.RoleUser)
	require.NoError(t, err)

	_, err = manager.ParseToken(token)
	assert.Error(t, err)
}
