package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/issue-reporting-service/internal/service"
)

// StatsHandler serves the admin statistics overview.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: statsService}
}

// Overview GET /admin/stats.
func (h *StatsHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.stats.Overview(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": overview})
}
