package service

import (
	"context"
	"errors"
	"fmt"
	"io"
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

// TicketPageSize fixes pagination at ten tickets per page.
const TicketPageSize = 10

// ActivityLog records immutable audit entries for ticket mutations.
// Injected so tests can substitute it.
type ActivityLog interface {
	Append(ctx context.Context, entry *domain.TicketActivity) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketActivity, error)
}

// TicketService coordinates the ticket lifecycle.
type TicketService struct {
	tickets     repository.TicketRepository
	comments    repository.CommentRepository
	categories  repository.CategoryRepository
	users       repository.UserRepository
	attachments repository.AttachmentRepository
	activity    ActivityLog
	blobs       storage.BlobStore
	dispatcher  events.Dispatcher
	uploadMax   int64
	uploadDir   string
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	CommentRepo    repository.CommentRepository
	CategoryRepo   repository.CategoryRepository
	UserRepo       repository.UserRepository
	AttachmentRepo repository.AttachmentRepository
	Activity       ActivityLog
	Blobs          storage.BlobStore
	Dispatcher     events.Dispatcher
	UploadMaxBytes int64
	UploadFolder   string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	uploadMax := deps.UploadMaxBytes
	if uploadMax <= 0 {
		uploadMax = domain.MaxAttachmentBytes
	}
	uploadDir := deps.UploadFolder
	if uploadDir == "" {
		uploadDir = "attachments"
	}
	return &TicketService{
		tickets:     deps.TicketRepo,
		comments:    deps.CommentRepo,
		categories:  deps.CategoryRepo,
		users:       deps.UserRepo,
		attachments: deps.AttachmentRepo,
		activity:    deps.Activity,
		blobs:       deps.Blobs,
		dispatcher:  deps.Dispatcher,
		uploadMax:   uploadMax,
		uploadDir:   uploadDir,
	}
}

// FileUpload carries an inbound multipart file into the service layer.
type FileUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Close releases the underlying stream when it is closable. Multipart
// uploads buffered to disk hold an open file descriptor until closed.
func (f *FileUpload) Close() {
	if f == nil {
		return
	}
	if closer, ok := f.Reader.(io.Closer); ok {
		_ = closer.Close()
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	CategoryID  *string
	Title       string
	Description string
	Priority    string
	Attachment  *FileUpload
}

// TicketListInput describes listing filters as supplied by the caller.
type TicketListInput struct {
	Status     string
	CategoryID string
	Priority   string
	SortBy     string
	SortOrder  string
	Page       int
}

// TicketUpdateInput is the partial set of owner-editable fields. Only
// non-nil fields are applied.
type TicketUpdateInput struct {
	CategoryID  *string
	Title       *string
	Description *string
	Status      *string
	Priority    *string
}

// TicketAssignInput is the bulk triage payload. Each supplied field is
// applied and logged independently; the set is intentionally not atomic.
type TicketAssignInput struct {
	Status        *string
	AssignedTo    *string
	InternalNotes *string
}

// AttachmentUploadInput describes a standalone attachment upload.
type AttachmentUploadInput struct {
	TicketID  *string
	CommentID *string
	File      *FileUpload
}

// TicketPage bundles a listing result with pagination metadata.
type TicketPage struct {
	Items    []domain.Ticket
	Total    int64
	Page     int
	PerPage  int
	LastPage int
}

// List returns tickets visible to the actor. Plain users are forcibly
// scoped to their own tickets no matter what filters they supply.
func (s *TicketService) List(ctx context.Context, actor domain.Actor, input TicketListInput) (*TicketPage, error) {
	filter := repository.TicketFilter{
		OwnerID:  policy.OwnerScope(actor),
		SortBy:   "created_at",
		SortDesc: true,
	}
	if input.Status != "" {
		status, ok := domain.ParseTicketStatus(input.Status)
		if !ok {
			return nil, apperrors.NewValidationError("invalid status filter", map[string]any{"status": input.Status})
		}
		filter.Status = &status
	}
	if input.Priority != "" {
		priority, ok := domain.ParseTicketPriority(input.Priority)
		if !ok {
			return nil, apperrors.NewValidationError("invalid priority filter", map[string]any{"priority": input.Priority})
		}
		filter.Priority = &priority
	}
	if input.CategoryID != "" {
		categoryID := input.CategoryID
		filter.CategoryID = &categoryID
	}
	if input.SortBy != "" {
		filter.SortBy = input.SortBy
	}
	if strings.EqualFold(input.SortOrder, "asc") {
		filter.SortDesc = false
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	filter.Limit = TicketPageSize
	filter.Offset = (page - 1) * TicketPageSize

	items, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	total, err := s.tickets.CountWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	lastPage := int((total + TicketPageSize - 1) / TicketPageSize)
	if lastPage < 1 {
		lastPage = 1
	}
	return &TicketPage{
		Items:    items,
		Total:    total,
		Page:     page,
		PerPage:  TicketPageSize,
		LastPage: lastPage,
	}, nil
}

// Create opens a new ticket owned by the actor.
func (s *TicketService) Create(ctx context.Context, actor domain.Actor, input TicketCreateInput) (*domain.Ticket, error) {
	defer input.Attachment.Close()

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}

	priority := domain.TicketPriorityMedium
	if input.Priority != "" {
		parsed, ok := domain.ParseTicketPriority(input.Priority)
		if !ok {
			return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": input.Priority})
		}
		priority = parsed
	}

	if input.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("category does not exist", map[string]any{"category_id": *input.CategoryID})
			}
			return nil, apperrors.MapError(err)
		}
	}

	var attachmentPath *string
	if input.Attachment != nil {
		path, err := s.storeFile(ctx, input.Attachment)
		if err != nil {
			return nil, err
		}
		attachmentPath = &path
	}

	ticket := &domain.Ticket{
		UserID:         actor.ID,
		CategoryID:     input.CategoryID,
		Title:          title,
		Description:    description,
		Status:         domain.TicketStatusOpen,
		Priority:       priority,
		AttachmentPath: attachmentPath,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.logActivity(ctx, ticket.ID, actor.ID, domain.ActivityCreated, "Ticket created by user"); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// Get fetches a single ticket, attaching the owner identity. A missing
// ticket reports Not-Found before any permission check runs.
func (s *TicketService) Get(ctx context.Context, actor domain.Actor, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.Allows(actor, policy.OpTicketRead, ticket.UserID) {
		return nil, apperrors.NewForbidden("access denied")
	}
	owner, err := s.users.GetByID(ctx, ticket.UserID)
	if err == nil {
		ticket.Owner = owner
	}
	return ticket, nil
}

// Update applies the owner-editable fields that were supplied.
func (s *TicketService) Update(ctx context.Context, actor domain.Actor, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.Allows(actor, policy.OpTicketUpdate, ticket.UserID) {
		return nil, apperrors.NewForbidden("access denied")
	}

	if input.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("category does not exist", map[string]any{"category_id": *input.CategoryID})
			}
			return nil, apperrors.MapError(err)
		}
		ticket.CategoryID = input.CategoryID
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title must not be empty", nil)
		}
		ticket.Title = title
	}
	if input.Description != nil {
		ticket.Description = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		status, ok := domain.ParseTicketStatus(*input.Status)
		if !ok {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *input.Status})
		}
		ticket.Status = status
	}
	if input.Priority != nil {
		priority, ok := domain.ParseTicketPriority(*input.Priority)
		if !ok {
			return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": *input.Priority})
		}
		ticket.Priority = priority
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.logActivity(ctx, ticket.ID, actor.ID, domain.ActivityUpdated, "Ticket updated"); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticket.ID,
		Actor:    actor,
	})
	return ticket, nil
}

// UpdateStatus changes the lifecycle status. Agents and admins only.
// Re-sending the current status still writes an activity entry.
func (s *TicketService) UpdateStatus(ctx context.Context, actor domain.Actor, ticketID, rawStatus string) (*domain.Ticket, error) {
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.Allows(actor, policy.OpTicketTriage, ticket.UserID) {
		return nil, apperrors.NewForbidden("only agents or admins can update status")
	}
	status, ok := domain.ParseTicketStatus(rawStatus)
	if !ok {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": rawStatus})
	}

	oldStatus := ticket.Status
	ticket.Status = status
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.logActivity(ctx, ticket.ID, actor.ID, domain.ActivityStatusUpdated, "Status changed to "+string(status)); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: status,
		},
	})
	return ticket, nil
}

// AssignOrUpdate applies any subset of status, assignee and internal notes.
// Each supplied field is logged with its own activity entry.
func (s *TicketService) AssignOrUpdate(ctx context.Context, actor domain.Actor, ticketID string, input TicketAssignInput) (*domain.Ticket, error) {
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.Allows(actor, policy.OpTicketTriage, ticket.UserID) {
		return nil, apperrors.NewForbidden("access denied")
	}

	if input.Status != nil {
		status, ok := domain.ParseTicketStatus(*input.Status)
		if !ok {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *input.Status})
		}
		oldStatus := ticket.Status
		ticket.Status = status
		if err := s.logActivity(ctx, ticket.ID, actor.ID, domain.ActivityStatusUpdated, "Status changed to "+string(status)); err != nil {
			return nil, err
		}
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			Actor:    actor,
			Payload: events.TicketStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: status,
			},
		})
	}

	if input.AssignedTo != nil {
		assignee, err := s.users.GetByID(ctx, *input.AssignedTo)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("assignee does not exist", map[string]any{"assigned_to": *input.AssignedTo})
			}
			return nil, apperrors.MapError(err)
		}
		ticket.AssignedTo = &assignee.ID
		if err := s.logActivity(ctx, ticket.ID, actor.ID, domain.ActivityAssigned, "Assigned to user ID "+assignee.ID); err != nil {
			return nil, err
		}
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: ticket.ID,
			Actor:    actor,
			Payload:  events.TicketAssignedPayload{AssignedTo: assignee.ID},
		})
	}

	if input.InternalNotes != nil {
		ticket.InternalNotes = input.InternalNotes
		if err := s.logActivity(ctx, ticket.ID, actor.ID, domain.ActivityNotesUpdated, "Internal notes updated"); err != nil {
			return nil, err
		}
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// UploadAttachment stores a standalone file tied to a ticket or a comment.
func (s *TicketService) UploadAttachment(ctx context.Context, actor domain.Actor, input AttachmentUploadInput) (*domain.Attachment, error) {
	defer input.File.Close()

	if input.File == nil {
		return nil, apperrors.NewValidationError("file required", nil)
	}
	if input.TicketID != nil {
		if _, err := s.tickets.GetByID(ctx, *input.TicketID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("ticket does not exist", map[string]any{"ticket_id": *input.TicketID})
			}
			return nil, apperrors.MapError(err)
		}
	}
	if input.CommentID != nil {
		if _, err := s.comments.GetByID(ctx, *input.CommentID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("comment does not exist", map[string]any{"comment_id": *input.CommentID})
			}
			return nil, apperrors.MapError(err)
		}
	}

	path, err := s.storeFile(ctx, input.File)
	if err != nil {
		return nil, err
	}

	attachment := &domain.Attachment{
		TicketID:     input.TicketID,
		CommentID:    input.CommentID,
		UserID:       actor.ID,
		FilePath:     path,
		OriginalName: input.File.FileName,
	}
	if err := s.attachments.Create(ctx, attachment); err != nil {
		return nil, apperrors.MapError(err)
	}
	return attachment, nil
}

// ListActivity returns the audit trail for a ticket, newest first.
func (s *TicketService) ListActivity(ctx context.Context, actor domain.Actor, ticketID string) ([]domain.TicketActivity, error) {
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.Allows(actor, policy.OpTicketRead, ticket.UserID) {
		return nil, apperrors.NewForbidden("access denied")
	}
	entries, err := s.activity.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

func (s *TicketService) fetchTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// storeFile validates the upload bound and hands the stream to the blob
// store. Oversized files fail before anything is persisted.
func (s *TicketService) storeFile(ctx context.Context, file *FileUpload) (string, error) {
	if file.Size > s.uploadMax {
		return "", apperrors.NewValidationError(
			fmt.Sprintf("file exceeds %d bytes", s.uploadMax),
			map[string]any{"size": file.Size},
		)
	}
	path, err := s.blobs.Put(ctx, s.uploadDir, file.FileName, file.Reader, file.Size, file.ContentType)
	if err != nil {
		return "", apperrors.MapError(err)
	}
	return path, nil
}

func (s *TicketService) logActivity(ctx context.Context, ticketID, actorID string, action domain.ActivityAction, description string) error {
	entry := &domain.TicketActivity{
		TicketID:    ticketID,
		UserID:      actorID,
		Action:      action,
		Description: description,
	}
	if err := s.activity.Append(ctx, entry); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
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
