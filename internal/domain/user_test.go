package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActorFromUser(t *testing.T) {
	user := &User{
		ID:    "user-1",
		Name:  "Alice",
		Email: "alice@example.com",
		Role:  RoleAgent,
	}

	actor := ActorFromUser(user)
	assert.Equal(t, user.ID, actor.ID)
	assert.Equal(t, user.Name, actor.Name)
	assert.Equal(t, user.Email, actor.Email)
	assert.Equal(t, user.Role, actor.Role)
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"user", RoleUser, true},
		{"Agent", RoleAgent, true},
		{"ADMIN", RoleAdmin, true},
		{"superuser", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseRole(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
