package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
)

func newAuthService(users *fakeUserRepo) *AuthService {
	return NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 30,
		BcryptCost:            4,
	}, users, nil)
}

func TestRegisterAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)
	ctx := context.Background()

	user, token, _, err := svc.Register(ctx, "Alice", "Alice@Example.com", "sekret1", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "sekret1", user.PasswordHash)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	t.Run("login with right password", func(t *testing.T) {
		got, token, _, err := svc.Login(ctx, "alice@example.com", "sekret1")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.NotEmpty(t, token)
	})

	t.Run("login with wrong password", func(t *testing.T) {
		_, _, _, err := svc.Login(ctx, "alice@example.com", "wrong")
		requireDomainErr(t, err, "UNAUTHENTICATED")
	})

	t.Run("login with unknown email", func(t *testing.T) {
		_, _, _, err := svc.Login(ctx, "nobody@example.com", "sekret1")
		requireDomainErr(t, err, "UNAUTHENTICATED")
	})
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"empty name", func() error {
			_, _, _, err := svc.Register(ctx, "", "a@b.com", "sekret1", "")
			return err
		}},
		{"short password", func() error {
			_, _, _, err := svc.Register(ctx, "A", "a@b.com", "12345", "")
			return err
		}},
		{"bad role", func() error {
			_, _, _, err := svc.Register(ctx, "A", "a@b.com", "sekret1", "superuser")
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireDomainErr(t, tt.call(), "VALIDATION_FAILED")
		})
	}

	t.Run("duplicate email", func(t *testing.T) {
		_, _, _, err := svc.Register(ctx, "A", "dup@b.com", "sekret1", "")
		require.NoError(t, err)
		_, _, _, err = svc.Register(ctx, "B", "dup@b.com", "sekret1", "")
		requireDomainErr(t, err, "VALIDATION_FAILED")
	})
}

func TestListAgents(t *testing.T) {
	users := newFakeUserRepo(alice, agent, admin)
	svc := newAuthService(users)

	agents, err := svc.ListAgents(context.Background())
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, agent.ID, agents[0].ID)
}
