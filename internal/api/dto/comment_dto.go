package dto

import "time"

// CreateCommentRequest payload for POST /tickets/:id/comments.
type CreateCommentRequest struct {
	Content string `json:"content" form:"content"`
}

// CommentResponse is the serialized comment with author identity.
type CommentResponse struct {
	ID             string        `json:"id"`
	TicketID       string        `json:"ticket_id"`
	UserID         string        `json:"user_id"`
	Content        string        `json:"content"`
	AttachmentPath *string       `json:"attachment,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	Author         *UserResponse `json:"user,omitempty"`
}
