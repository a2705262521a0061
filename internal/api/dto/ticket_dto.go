package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreateTicketRequest payload for POST /tickets.
type CreateTicketRequest struct {
	CategoryID  *string `json:"category_id" form:"category_id"`
	Title       string  `json:"title" form:"title"`
	Description string  `json:"description" form:"description"`
	Priority    string  `json:"priority" form:"priority"`
}

// UpdateTicketRequest payload for PUT /tickets/:id. Absent fields are
// left untouched.
type UpdateTicketRequest struct {
	CategoryID  *string `json:"category_id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
}

// UpdateStatusRequest payload for PATCH /tickets/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AssignTicketRequest payload for POST /tickets/:id/update-status.
type AssignTicketRequest struct {
	Status        *string `json:"status"`
	AssignedTo    *string `json:"assigned_to"`
	InternalNotes *string `json:"internal_notes"`
}

// TicketResponse is the serialized ticket.
type TicketResponse struct {
	ID             string                `json:"id"`
	UserID         string                `json:"user_id"`
	CategoryID     *string               `json:"category_id,omitempty"`
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	Status         domain.TicketStatus   `json:"status"`
	Priority       domain.TicketPriority `json:"priority"`
	AssignedTo     *string               `json:"assigned_to,omitempty"`
	InternalNotes  *string               `json:"internal_notes,omitempty"`
	AttachmentPath *string               `json:"attachment,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
	Owner          *UserResponse         `json:"user,omitempty"`
}

// PaginationMeta mirrors fixed-size page metadata.
type PaginationMeta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	LastPage int   `json:"last_page"`
}

// TicketListResponse is a paginated ticket listing.
type TicketListResponse struct {
	Data []TicketResponse `json:"data"`
	Meta PaginationMeta   `json:"meta"`
}

// ActivityResponse is a serialized audit entry.
type ActivityResponse struct {
	ID          string                `json:"id"`
	TicketID    string                `json:"ticket_id"`
	UserID      string                `json:"user_id"`
	UserName    string                `json:"user_name"`
	Action      domain.ActivityAction `json:"action"`
	Description string                `json:"description"`
	CreatedAt   time.Time             `json:"created_at"`
}
