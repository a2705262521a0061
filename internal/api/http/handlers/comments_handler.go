package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// CommentsHandler manages ticket comment endpoints.
type CommentsHandler struct {
	comments *service.CommentService
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(commentService *service.CommentService) *CommentsHandler {
	return &CommentsHandler{comments: commentService}
}

// ListComments GET /tickets/:id/comments.
func (h *CommentsHandler) ListComments(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	comments, err := h.comments.ListByTicket(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, commentResponse(&comments[i]))
	}
	return c.JSON(items)
}

// CreateComment POST /tickets/:id/comments.
func (h *CommentsHandler) CreateComment(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	upload, err := optionalFile(c, "attachment")
	if err != nil {
		return err
	}
	comment, err := h.comments.Create(c.Context(), actor, c.Params("id"), service.CommentCreateInput{
		Content:    req.Content,
		Attachment: upload,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(commentResponse(comment))
}

func commentResponse(comment *domain.Comment) dto.CommentResponse {
	resp := dto.CommentResponse{
		ID:             comment.ID,
		TicketID:       comment.TicketID,
		UserID:         comment.UserID,
		Content:        comment.Content,
		AttachmentPath: comment.AttachmentPath,
		CreatedAt:      comment.CreatedAt,
	}
	if comment.Author != nil {
		resp.Author = &dto.UserResponse{
			ID:    comment.Author.ID,
			Name:  comment.Author.Name,
			Email: comment.Author.Email,
			Role:  comment.Author.Role,
		}
	}
	return resp
}
