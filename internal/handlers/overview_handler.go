package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/postmasterly/dmarcview/internal/dto"
	"github.com/postmasterly/dmarcview/internal/services"
)

type OverviewHandler struct {
	overviewService *services.OverviewService
}

func NewOverviewHandler(overviewService *services.OverviewService) *OverviewHandler {
	return &OverviewHandler{overviewService: overviewService}
}

func (h *OverviewHandler) Get(c *fiber.Ctx) error {
	overview, err := h.overviewService.Overview()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to build overview",
		})
	}
	return c.JSON(overview)
}
