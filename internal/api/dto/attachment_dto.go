package dto

import "time"

// UploadAttachmentRequest payload for POST /attachments/upload. The file
// itself arrives as multipart form data.
type UploadAttachmentRequest struct {
	TicketID  *string `json:"ticket_id" form:"ticket_id"`
	CommentID *string `json:"comment_id" form:"comment_id"`
}

// AttachmentResponse is the serialized upload record.
type AttachmentResponse struct {
	ID           string    `json:"id"`
	TicketID     *string   `json:"ticket_id,omitempty"`
	CommentID    *string   `json:"comment_id,omitempty"`
	UserID       string    `json:"user_id"`
	FilePath     string    `json:"file_path"`
	URL          string    `json:"url,omitempty"`
	OriginalName string    `json:"original_name"`
	CreatedAt    time.Time `json:"created_at"`
}
