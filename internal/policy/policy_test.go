package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func TestAllows(t *testing.T) {
	const ownerID = "owner-1"

	owner := domain.Actor{ID: ownerID, Role: domain.RoleUser}
	stranger := domain.Actor{ID: "other-1", Role: domain.RoleUser}
	agent := domain.Actor{ID: "agent-1", Role: domain.RoleAgent}
	admin := domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}

	tests := []struct {
		name  string
		actor domain.Actor
		op    Operation
		want  bool
	}{
		{"owner reads own ticket", owner, OpTicketRead, true},
		{"owner updates own ticket", owner, OpTicketUpdate, true},
		{"owner cannot triage", owner, OpTicketTriage, false},
		{"owner cannot manage categories", owner, OpCategoryManage, false},

		{"stranger cannot read", stranger, OpTicketRead, false},
		{"stranger cannot update", stranger, OpTicketUpdate, false},
		{"stranger cannot triage", stranger, OpTicketTriage, false},

		{"agent reads any ticket", agent, OpTicketRead, true},
		{"agent updates any ticket", agent, OpTicketUpdate, true},
		{"agent triages", agent, OpTicketTriage, true},
		{"agent cannot manage categories", agent, OpCategoryManage, false},

		{"admin reads any ticket", admin, OpTicketRead, true},
		{"admin updates any ticket", admin, OpTicketUpdate, true},
		{"admin triages", admin, OpTicketTriage, true},
		{"admin manages categories", admin, OpCategoryManage, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allows(tt.actor, tt.op, ownerID))
		})
	}
}

func TestOwnerScope(t *testing.T) {
	user := domain.Actor{ID: "user-1", Role: domain.RoleUser}
	scope := OwnerScope(user)
	if assert.NotNil(t, scope, "plain users are scoped to their own tickets") {
		assert.Equal(t, user.ID, *scope)
	}

	assert.Nil(t, OwnerScope(domain.Actor{ID: "agent-1", Role: domain.RoleAgent}))
	assert.Nil(t, OwnerScope(domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}))
}
