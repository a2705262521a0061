package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTicketStatus(t *testing.T) {
	tests := []struct {
		in   string
		want TicketStatus
		ok   bool
	}{
		{"open", TicketStatusOpen, true},
		{"OPEN", TicketStatusOpen, true},
		{" in_progress ", TicketStatusInProgress, true},
		{"Resolved", TicketStatusResolved, true},
		{"closed", TicketStatusClosed, true},
		{"done", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTicketStatus(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseTicketPriority(t *testing.T) {
	tests := []struct {
		in   string
		want TicketPriority
		ok   bool
	}{
		{"Low", TicketPriorityLow, true},
		{"low", TicketPriorityLow, true},
		{"MEDIUM", TicketPriorityMedium, true},
		{"high", TicketPriorityHigh, true},
		{"critical", TicketPriorityCritical, true},
		{"urgent", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTicketPriority(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestRoleIsStaff(t *testing.T) {
	assert.False(t, RoleUser.IsStaff())
	assert.True(t, RoleAgent.IsStaff())
	assert.True(t, RoleAdmin.IsStaff())
}
