package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/postmasterly/dmarcview/internal/dto"
	"github.com/postmasterly/dmarcview/internal/services"
)

type ViewHandler struct {
	viewService *services.ViewService
}

func NewViewHandler(viewService *services.ViewService) *ViewHandler {
	return &ViewHandler{viewService: viewService}
}

func (h *ViewHandler) List(c *fiber.Ctx) error {
	enabledOnly := c.QueryBool("enabled")
	views, err := h.viewService.ListViews(enabledOnly)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list views",
		})
	}
	return c.JSON(views)
}

func (h *ViewHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid view ID",
		})
	}
	view, err := h.viewService.GetView(id)
	if err != nil {
		return viewError(c, err)
	}
	return c.JSON(view)
}

func (h *ViewHandler) Create(c *fiber.Ctx) error {
	var req dto.ViewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	view, err := req.ToModel()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	if err := h.viewService.CreateView(view); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create view",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

func (h *ViewHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid view ID",
		})
	}
	var req dto.ViewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	updated, err := req.ToModel()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	view, err := h.viewService.UpdateView(id, updated)
	if err != nil {
		return viewError(c, err)
	}
	return c.JSON(view)
}

func (h *ViewHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid view ID",
		})
	}
	if err := h.viewService.DeleteView(id); err != nil {
		return viewError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "View deleted"})
}

func (h *ViewHandler) Clone(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid view ID",
		})
	}
	clone, err := h.viewService.CloneView(id)
	if err != nil {
		return viewError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(clone)
}

// Order receives the full display order as a JSON array of view ids.
func (h *ViewHandler) Order(c *fiber.Ctx) error {
	var req dto.OrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if err := h.viewService.AssignOrder(req); err != nil {
		return viewError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Views ordered"})
}

func viewError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrViewNotFound) || errors.Is(err, services.ErrFilterSetNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}
