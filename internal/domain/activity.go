package domain

import "time"

// ActivityAction tags what kind of mutation an audit entry records.
type ActivityAction string

const (
	ActivityCreated       ActivityAction = "created"
	ActivityUpdated       ActivityAction = "updated"
	ActivityStatusUpdated ActivityAction = "status_updated"
	ActivityAssigned      ActivityAction = "assigned"
	ActivityNotesUpdated  ActivityAction = "notes_updated"
)

// TicketActivity is an immutable audit entry. One row is written per
// mutating operation on a ticket.
type TicketActivity struct {
	ID          string
	TicketID    string
	UserID      string
	Action      ActivityAction
	Description string
	CreatedAt   time.Time

	// ActorName is the display name of the acting user, joined on reads.
	ActorName string
}
