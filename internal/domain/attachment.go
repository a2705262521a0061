package domain

import "time"

// MaxAttachmentBytes caps uploads at 2 MB. Files of exactly this size are
// accepted; one byte over fails validation before anything is persisted.
const MaxAttachmentBytes int64 = 2 * 1024 * 1024

// Attachment records a standalone upload tied to a ticket or a comment.
type Attachment struct {
	ID           string
	TicketID     *string
	CommentID    *string
	UserID       string
	FilePath     string
	OriginalName string
	CreatedAt    time.Time
}
