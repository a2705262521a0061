package domain

import "time"

// Comment captures the conversation on a ticket. Its lifetime is bounded
// by the parent ticket.
type Comment struct {
	ID             string
	TicketID       string
	UserID         string
	Content        string
	AttachmentPath *string
	CreatedAt      time.Time

	// Author is populated on reads that attach the commenting user.
	Author *User
}
