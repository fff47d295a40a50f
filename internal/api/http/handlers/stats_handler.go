package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-kit/helpdesk-service/internal/api/dto"
	"github.com/campus-kit/helpdesk-service/internal/service"
)

// StatsHandler serves aggregate read models.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// TicketStats GET /staff/tickets/stats.
func (h *StatsHandler) TicketStats(c *fiber.Ctx) error {
	counts, err := h.stats.StatusCounts(c.Context())
	if err != nil {
		return err
	}
	resp := dto.StatsResponse{Counts: make(map[string]int64, len(counts.Counts)), Total: counts.Total}
	for status, count := range counts.Counts {
		resp.Counts[string(status)] = count
	}
	return c.JSON(fiber.Map{"data": resp})
}

// EmployeeHistory GET /staff/employees/:id/history.
func (h *StatsHandler) EmployeeHistory(c *fiber.Ctx) error {
	history, err := h.stats.EmployeeHistory(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	resp := dto.EmployeeHistoryResponse{
		EmployeeID:      history.Employee.ID,
		FullName:        history.Employee.FullName,
		Role:            string(history.Employee.Role),
		TotalAssigned:   history.TotalAssigned,
		Completed:       history.Completed,
		InProgress:      history.InProgress,
		CriticalPending: history.CriticalPending,
		RecentEvents:    eventResponses(history.RecentEvents),
	}
	return c.JSON(fiber.Map{"data": resp})
}
