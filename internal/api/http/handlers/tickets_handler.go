package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/internal/storage"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
	blobs   storage.BlobStore
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, blobs storage.BlobStore) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService, blobs: blobs}
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	input := service.TicketListInput{
		Status:     c.Query("status"),
		CategoryID: c.Query("category_id"),
		Priority:   c.Query("priority"),
		SortBy:     c.Query("sort"),
		SortOrder:  c.Query("order", "desc"),
		Page:       parseInt(c.Query("page"), 1),
	}
	page, err := h.tickets.List(c.Context(), actor, input)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ticketResponse(&page.Items[i]))
	}
	return c.JSON(dto.TicketListResponse{
		Data: items,
		Meta: dto.PaginationMeta{
			Total:    page.Total,
			Page:     page.Page,
			PerPage:  page.PerPage,
			LastPage: page.LastPage,
		},
	})
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TicketCreateInput{
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
	}
	upload, err := optionalFile(c, "attachment")
	if err != nil {
		return err
	}
	input.Attachment = upload

	ticket, err := h.tickets.Create(c.Context(), actor, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Ticket created",
		"ticket":  ticketResponse(ticket),
	})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.Get(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(ticketResponse(ticket))
}

// UpdateTicket PUT /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.Update(c.Context(), actor, c.Params("id"), service.TicketUpdateInput{
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Ticket updated successfully",
		"ticket":  ticketResponse(ticket),
	})
}

// UpdateStatus PATCH /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}
	ticket, err := h.tickets.UpdateStatus(c.Context(), actor, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Status updated",
		"ticket":  ticketResponse(ticket),
	})
}

// AssignOrUpdate POST /tickets/:id/update-status.
func (h *TicketsHandler) AssignOrUpdate(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.AssignOrUpdate(c.Context(), actor, c.Params("id"), service.TicketAssignInput{
		Status:        req.Status,
		AssignedTo:    req.AssignedTo,
		InternalNotes: req.InternalNotes,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Ticket updated successfully.",
		"ticket":  ticketResponse(ticket),
	})
}

// UploadAttachment POST /attachments/upload.
func (h *TicketsHandler) UploadAttachment(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.UploadAttachmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	upload, err := optionalFile(c, "file")
	if err != nil {
		return err
	}
	attachment, err := h.tickets.UploadAttachment(c.Context(), actor, service.AttachmentUploadInput{
		TicketID:  req.TicketID,
		CommentID: req.CommentID,
		File:      upload,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"attachment": attachmentResponse(attachment, h.blobs),
	})
}

// ListActivity GET /tickets/:id/activity.
func (h *TicketsHandler) ListActivity(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	entries, err := h.tickets.ListActivity(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.ActivityResponse{
			ID:          entry.ID,
			TicketID:    entry.TicketID,
			UserID:      entry.UserID,
			UserName:    entry.ActorName,
			Action:      entry.Action,
			Description: entry.Description,
			CreatedAt:   entry.CreatedAt,
		})
	}
	return c.JSON(items)
}

func requireActor(c *fiber.Ctx) (domain.Actor, error) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return domain.Actor{}, apperrors.NewUnauthorized("authentication required")
	}
	return actor, nil
}

// optionalFile extracts a multipart file when present. Absence is not an
// error; required-file checks belong to the service.
func optionalFile(c *fiber.Ctx, field string) (*service.FileUpload, error) {
	header, err := c.FormFile(field)
	if err != nil || header == nil {
		return nil, nil
	}
	file, err := header.Open()
	if err != nil {
		return nil, apperrors.NewValidationError("unreadable file upload", nil)
	}
	return &service.FileUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      file,
	}, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	resp := dto.TicketResponse{
		ID:             ticket.ID,
		UserID:         ticket.UserID,
		CategoryID:     ticket.CategoryID,
		Title:          ticket.Title,
		Description:    ticket.Description,
		Status:         ticket.Status,
		Priority:       ticket.Priority,
		AssignedTo:     ticket.AssignedTo,
		InternalNotes:  ticket.InternalNotes,
		AttachmentPath: ticket.AttachmentPath,
		CreatedAt:      ticket.CreatedAt,
		UpdatedAt:      ticket.UpdatedAt,
	}
	if ticket.Owner != nil {
		resp.Owner = &dto.UserResponse{
			ID:    ticket.Owner.ID,
			Name:  ticket.Owner.Name,
			Email: ticket.Owner.Email,
			Role:  ticket.Owner.Role,
		}
	}
	return resp
}

func attachmentResponse(attachment *domain.Attachment, blobs storage.BlobStore) dto.AttachmentResponse {
	resp := dto.AttachmentResponse{
		ID:           attachment.ID,
		TicketID:     attachment.TicketID,
		CommentID:    attachment.CommentID,
		UserID:       attachment.UserID,
		FilePath:     attachment.FilePath,
		OriginalName: attachment.OriginalName,
		CreatedAt:    attachment.CreatedAt,
	}
	if blobs != nil {
		resp.URL = blobs.URL(attachment.FilePath)
	}
	return resp
}
