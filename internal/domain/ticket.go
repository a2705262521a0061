package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "Low"
	TicketPriorityMedium   TicketPriority = "Medium"
	TicketPriorityHigh     TicketPriority = "High"
	TicketPriorityCritical TicketPriority = "Critical"
)

// ParseTicketStatus normalizes and validates a status value.
func ParseTicketStatus(raw string) (TicketStatus, bool) {
	switch TicketStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case TicketStatusOpen:
		return TicketStatusOpen, true
	case TicketStatusInProgress:
		return TicketStatusInProgress, true
	case TicketStatusResolved:
		return TicketStatusResolved, true
	case TicketStatusClosed:
		return TicketStatusClosed, true
	}
	return "", false
}

// ParseTicketPriority normalizes and validates a priority value.
// Canonical casing is capitalized; any input casing is accepted.
func ParseTicketPriority(raw string) (TicketPriority, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low":
		return TicketPriorityLow, true
	case "medium":
		return TicketPriorityMedium, true
	case "high":
		return TicketPriorityHigh, true
	case "critical":
		return TicketPriorityCritical, true
	}
	return "", false
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID             string
	UserID         string
	CategoryID     *string
	Title          string
	Description    string
	Status         TicketStatus
	Priority       TicketPriority
	AssignedTo     *string
	InternalNotes  *string
	AttachmentPath *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Owner is populated on reads that attach the owning user.
	Owner *User
}
