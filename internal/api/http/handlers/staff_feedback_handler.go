package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/feedback-service/internal/api/dto"
	"github.com/spec-kit/feedback-service/internal/service"
	apperrors "github.com/spec-kit/feedback-service/pkg/util"
)

// StaffFeedbackHandler serves the staff-facing feedback endpoints. Staff see
// every thread; the shared service applies the role-based rules.
type StaffFeedbackHandler struct {
	service *service.FeedbackService
}

// NewStaffFeedbackHandler constructs the handler.
func NewStaffFeedbackHandler(feedbackService *service.FeedbackService) *StaffFeedbackHandler {
	return &StaffFeedbackHandler{service: feedbackService}
}

// List GET /staff/feedback.
func (h *StaffFeedbackHandler) List(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	threads, err := h.service.ListThreads(c.Context(), actor, parseThreadQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.ThreadSummary, 0, len(threads))
	for i := range threads {
		items = append(items, dto.NewThreadSummary(&threads[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /staff/feedback/:id.
func (h *StaffFeedbackHandler) Get(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	thread, msgs, err := h.service.GetThread(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	unread, err := h.service.UnreadCount(c.Context(), actor, thread.ThreadID)
	if err != nil {
		return err
	}
	detail := dto.ThreadDetailResponse{
		ThreadSummary: dto.NewThreadSummary(thread),
		Messages:      make([]dto.MessageResponse, 0, len(msgs)),
		UnreadCount:   unread,
	}
	for i := range msgs {
		detail.Messages = append(detail.Messages, dto.NewMessageResponse(&msgs[i]))
	}
	return c.JSON(fiber.Map{"data": detail})
}

// Reply POST /staff/feedback/:id/messages.
func (h *StaffFeedbackHandler) Reply(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.ReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	msg, err := h.service.Reply(c.Context(), actor, c.Params("id"), req.Body)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewMessageResponse(msg)})
}

// MarkRead POST /staff/feedback/:id/read.
func (h *StaffFeedbackHandler) MarkRead(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	count, err := h.service.MarkThreadRead(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.MarkReadResponse{Updated: count}})
}

// UpdateStatus PATCH /staff/feedback/:id/status.
func (h *StaffFeedbackHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	thread, err := h.service.SetStatus(c.Context(), actor, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewThreadSummary(thread)})
}
