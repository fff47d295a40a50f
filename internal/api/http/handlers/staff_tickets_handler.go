package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-kit/helpdesk-service/internal/api/dto"
	"github.com/campus-kit/helpdesk-service/internal/auth"
	"github.com/campus-kit/helpdesk-service/internal/domain"
	"github.com/campus-kit/helpdesk-service/internal/service"
	apperrors "github.com/campus-kit/helpdesk-service/pkg/util/errorutil"
)

// StaffTicketsHandler serves the administrator ticket endpoints.
type StaffTicketsHandler struct {
	lifecycle *service.LifecycleService
}

// NewStaffTicketsHandler constructs handler.
func NewStaffTicketsHandler(lifecycle *service.LifecycleService) *StaffTicketsHandler {
	return &StaffTicketsHandler{lifecycle: lifecycle}
}

func staffPrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.SubjectType != domain.SubjectTypeEmployee || principal.Employee == nil {
		return nil, apperrors.NewUnauthorized("staff required")
	}
	return principal, nil
}

// ListTickets GET /staff/tickets.
func (h *StaffTicketsHandler) ListTickets(c *fiber.Ctx) error {
	if _, err := staffPrincipal(c); err != nil {
		return err
	}
	tickets, err := h.lifecycle.ListTickets(c.Context(), parseTicketQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummaries(tickets)})
}

// GetTicket GET /staff/tickets/:id.
func (h *StaffTicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, err := staffPrincipal(c)
	if err != nil {
		return err
	}
	detail, err := h.lifecycle.GetTicketForStaff(c.Context(), service.EmployeeActor(principal.Employee.ID), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(detail)})
}

// GetTicketByNumber GET /staff/tickets/number/:number.
func (h *StaffTicketsHandler) GetTicketByNumber(c *fiber.Ctx) error {
	principal, err := staffPrincipal(c)
	if err != nil {
		return err
	}
	detail, err := h.lifecycle.GetTicketByNumber(c.Context(), service.EmployeeActor(principal.Employee.ID), c.Params("number"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(detail)})
}

// Assign POST /staff/tickets/:id/assign.
func (h *StaffTicketsHandler) Assign(c *fiber.Ctx) error {
	principal, err := staffPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	ticket, err := h.lifecycle.Assign(c.Context(), service.EmployeeActor(principal.Employee.ID), c.Params("id"), req.AssignedTo, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// ChangeStatus PUT /staff/tickets/:id/status.
func (h *StaffTicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	principal, err := staffPrincipal(c)
	if err != nil {
		return err
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

	ticket, err := h.lifecycle.ChangeStatus(c.Context(), service.EmployeeActor(principal.Employee.ID), c.Params("id"), status, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// AddComment POST /staff/tickets/:id/comments.
func (h *StaffTicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, err := staffPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	comment, err := h.lifecycle.AddComment(c.Context(), service.EmployeeActor(principal.Employee.ID), c.Params("id"), req.CommentText, req.IsInternal)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}
