package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-kit/helpdesk-service/internal/api/dto"
	"github.com/campus-kit/helpdesk-service/internal/auth"
	"github.com/campus-kit/helpdesk-service/internal/domain"
	"github.com/campus-kit/helpdesk-service/internal/service"
	apperrors "github.com/campus-kit/helpdesk-service/pkg/util/errorutil"
)

// TicketsHandler serves the student-facing ticket endpoints.
type TicketsHandler struct {
	lifecycle *service.LifecycleService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(lifecycle *service.LifecycleService) *TicketsHandler {
	return &TicketsHandler{lifecycle: lifecycle}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.SubjectType != domain.SubjectTypeStudent {
		return apperrors.NewUnauthorized("student required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	ticket, err := h.lifecycle.CreateTicket(c.Context(), principal.StudentID, service.TicketCreateInput{
		CategoryID:    req.CategoryID,
		SubCategoryID: req.SubCategoryID,
		Title:         req.Title,
		Description:   req.Description,
		PhotoKey:      req.PhotoKey,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.SubjectType != domain.SubjectTypeStudent {
		return apperrors.NewUnauthorized("student required")
	}
	filter := parseTicketQuery(c)
	studentID := principal.StudentID
	filter.StudentID = &studentID

	tickets, err := h.lifecycle.ListTickets(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummaries(tickets)})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.SubjectType != domain.SubjectTypeStudent {
		return apperrors.NewUnauthorized("student required")
	}
	detail, err := h.lifecycle.GetTicketForStudent(c.Context(), principal.StudentID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(detail)})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.SubjectType != domain.SubjectTypeStudent {
		return apperrors.NewUnauthorized("student required")
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	comment, err := h.lifecycle.AddComment(c.Context(), service.StudentActor(principal.StudentID), c.Params("id"), req.CommentText, req.IsInternal)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

// SubmitFeedback POST /tickets/:id/feedback.
func (h *TicketsHandler) SubmitFeedback(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.SubjectType != domain.SubjectTypeStudent {
		return apperrors.NewUnauthorized("student required")
	}
	var req dto.SubmitFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	feedback, err := h.lifecycle.SubmitFeedback(c.Context(), service.StudentActor(principal.StudentID), c.Params("id"), req.Rating, req.FeedbackText)
	if err != nil {
		return err
	}
	resp := feedbackResponse(feedback)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": resp})
}

// ChangeStatus PUT /tickets/:id/status. The only student-permitted shape is
// the reopen: status=pending with a reason in notes.
func (h *TicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.SubjectType != domain.SubjectTypeStudent {
		return apperrors.NewUnauthorized("student required")
	}
	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		return apperrors.NewValidationError("unknown status", map[string]any{"status": req.Status})
	}
	if status != domain.StatusPending {
		return apperrors.NewForbidden("students may only reopen a completed ticket")
	}

	ticket, err := h.lifecycle.Reopen(c.Context(), service.StudentActor(principal.StudentID), c.Params("id"), req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

func parseTicketQuery(c *fiber.Ctx) service.TicketListFilter {
	filter := service.TicketListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			if status, err := domain.ParseStatus(part); err == nil {
				filter.Statuses = append(filter.Statuses, status)
			}
		}
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		filter.CategoryID = &categoryID
	}
	if assignedTo := c.Query("assigned_to"); assignedTo != "" {
		filter.AssigneeID = &assignedTo
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	page := parseInt(c.Query("page"), 1)
	limit := parseInt(c.Query("limit"), 20)
	filter.Offset = (page - 1) * limit
	filter.Limit = limit
	return filter
}
