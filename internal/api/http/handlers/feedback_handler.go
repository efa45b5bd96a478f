package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/feedback-service/internal/api/dto"
	"github.com/spec-kit/feedback-service/internal/auth"
	"github.com/spec-kit/feedback-service/internal/domain"
	"github.com/spec-kit/feedback-service/internal/service"
	apperrors "github.com/spec-kit/feedback-service/pkg/util"
)

// FeedbackHandler serves the client-facing feedback endpoints.
type FeedbackHandler struct {
	service *service.FeedbackService
}

// NewFeedbackHandler constructs the handler.
func NewFeedbackHandler(feedbackService *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: feedbackService}
}

// Submit POST /feedback.
func (h *FeedbackHandler) Submit(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.SubmitFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	thread, msg, err := h.service.SubmitFeedback(c.Context(), actor.UserID, service.SubmitInput{
		Subject:  req.Subject,
		Body:     req.Body,
		Category: req.Category,
		Priority: req.Priority,
	})
	if err != nil {
		return err
	}
	detail := dto.ThreadDetailResponse{
		ThreadSummary: dto.NewThreadSummary(thread),
		Messages:      []dto.MessageResponse{dto.NewMessageResponse(msg)},
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": detail})
}

// List GET /feedback.
func (h *FeedbackHandler) List(c *fiber.Ctx) error {
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

// Get GET /feedback/:id.
func (h *FeedbackHandler) Get(c *fiber.Ctx) error {
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

// Reply POST /feedback/:id/messages.
func (h *FeedbackHandler) Reply(c *fiber.Ctx) error {
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

// MarkRead POST /feedback/:id/read.
func (h *FeedbackHandler) MarkRead(c *fiber.Ctx) error {
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

// Reopen POST /feedback/:id/reopen.
func (h *FeedbackHandler) Reopen(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	thread, err := h.service.Reopen(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewThreadSummary(thread)})
}

func requireActor(c *fiber.Ctx) (service.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return service.Actor{}, apperrors.NewUnauthorized("authentication required")
	}
	return service.Actor{UserID: principal.UserID, Role: principal.Role}, nil
}

func parseThreadQuery(c *fiber.Ctx) service.ThreadListFilter {
	filter := service.ThreadListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.ThreadStatus(strings.TrimSpace(part)))
		}
	}
	if categoryStr := c.Query("category"); categoryStr != "" {
		for _, part := range strings.Split(categoryStr, ",") {
			filter.Categories = append(filter.Categories, domain.ThreadCategory(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.Priorities = append(filter.Priorities, domain.ThreadPriority(strings.TrimSpace(part)))
		}
	}
	if search := c.Query("search"); search != "" {
		filter.Search = &search
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
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
