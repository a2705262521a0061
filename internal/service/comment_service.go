package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/policy"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/storage"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// CommentService creates and lists ticket comments, enforcing the same
// ownership gate as ticket reads.
type CommentService struct {
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	users      repository.UserRepository
	blobs      storage.BlobStore
	dispatcher events.Dispatcher
	uploadMax  int64
	uploadDir  string
}

// CommentDependencies bundles collaborators for the comment service.
type CommentDependencies struct {
	TicketRepo     repository.TicketRepository
	CommentRepo    repository.CommentRepository
	UserRepo       repository.UserRepository
	Blobs          storage.BlobStore
	Dispatcher     events.Dispatcher
	UploadMaxBytes int64
	UploadFolder   string
}

// NewCommentService constructs the service.
func NewCommentService(deps CommentDependencies) *CommentService {
	uploadMax := deps.UploadMaxBytes
	if uploadMax <= 0 {
		uploadMax = domain.MaxAttachmentBytes
	}
	uploadDir := deps.UploadFolder
	if uploadDir == "" {
		uploadDir = "attachments"
	}
	return &CommentService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		users:      deps.UserRepo,
		blobs:      deps.Blobs,
		dispatcher: deps.Dispatcher,
		uploadMax:  uploadMax,
		uploadDir:  uploadDir,
	}
}

// CommentCreateInput describes comment creation payload.
type CommentCreateInput struct {
	Content    string
	Attachment *FileUpload
}

// ListByTicket returns a ticket's comments in creation order with author
// identity attached. A missing ticket is Not-Found before any permission
// check runs.
func (s *CommentService) ListByTicket(ctx context.Context, actor domain.Actor, ticketID string) ([]domain.Comment, error) {
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.Allows(actor, policy.OpTicketRead, ticket.UserID) {
		return nil, apperrors.NewForbidden("access denied")
	}
	comments, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return comments, nil
}

// Create appends a comment to a ticket. Validation and the upload bound
// are checked before anything is persisted.
func (s *CommentService) Create(ctx context.Context, actor domain.Actor, ticketID string, input CommentCreateInput) (*domain.Comment, error) {
	defer input.Attachment.Close()

	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.Allows(actor, policy.OpTicketRead, ticket.UserID) {
		return nil, apperrors.NewForbidden("access denied")
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, apperrors.NewValidationError("content required", nil)
	}

	var attachmentPath *string
	if input.Attachment != nil {
		if input.Attachment.Size > s.uploadMax {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("file exceeds %d bytes", s.uploadMax),
				map[string]any{"size": input.Attachment.Size},
			)
		}
		path, err := s.blobs.Put(ctx, s.uploadDir, input.Attachment.FileName, input.Attachment.Reader, input.Attachment.Size, input.Attachment.ContentType)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		attachmentPath = &path
	}

	comment := &domain.Comment{
		TicketID:       ticket.ID,
		UserID:         actor.ID,
		Content:        content,
		AttachmentPath: attachmentPath,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	author, err := s.users.GetByID(ctx, actor.ID)
	if err == nil {
		comment.Author = author
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventCommentAdded,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload:  events.CommentAddedPayload{CommentID: comment.ID},
	})
	return comment, nil
}

func (s *CommentService) fetchTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *CommentService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
