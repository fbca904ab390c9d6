package handlers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/postmasterly/dmarcview/internal/dto"
	"github.com/postmasterly/dmarcview/internal/models"
	"github.com/postmasterly/dmarcview/internal/query"
	"github.com/postmasterly/dmarcview/internal/services"
)

type AnalysisHandler struct {
	viewService     *services.ViewService
	analysisService *services.AnalysisService
}

func NewAnalysisHandler(viewService *services.ViewService, analysisService *services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{viewService: viewService, analysisService: analysisService}
}

// Table serves one page of table rows. Falls back to the first view when
// no id is given, matching the deep-analysis entry point.
func (h *AnalysisHandler) Table(c *fiber.Ctx) error {
	view, err := h.loadView(c)
	if err != nil {
		return analysisError(c, err)
	}
	if !view.TypeTable {
		return c.JSON(dto.TableResponse{Data: [][]string{}})
	}

	draw := c.QueryInt("draw")
	length := c.QueryInt("length", 10)
	start := c.QueryInt("start")

	page, err := h.analysisService.TablePage(view, start, length)
	if err != nil {
		return analysisError(c, err)
	}
	return c.JSON(dto.TableResponse{
		Draw:            draw,
		RecordsTotal:    page.Total,
		RecordsFiltered: page.Filtered,
		Data:            page.Rows,
	})
}

func (h *AnalysisHandler) Line(c *fiber.Ctx) error {
	view, err := h.loadView(c)
	if err != nil {
		return analysisError(c, err)
	}
	if !view.TypeLine {
		return c.JSON([]any{})
	}
	data, err := h.analysisService.LineData(view)
	if err != nil {
		return analysisError(c, err)
	}
	return c.JSON(data)
}

func (h *AnalysisHandler) Map(c *fiber.Ctx) error {
	view, err := h.loadView(c)
	if err != nil {
		return analysisError(c, err)
	}
	if !view.TypeMap {
		return c.JSON([]any{})
	}
	data, err := h.analysisService.MapData(view)
	if err != nil {
		return analysisError(c, err)
	}
	return c.JSON(data)
}

// CSV exports the view's full table as a CSV attachment.
func (h *AnalysisHandler) CSV(c *fiber.Ctx) error {
	view, err := h.loadView(c)
	if err != nil {
		return analysisError(c, err)
	}
	data, err := h.analysisService.CSVData(view)
	if err != nil {
		return analysisError(c, err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(data); err != nil {
		return analysisError(c, err)
	}

	filename := fmt.Sprintf("%s-%s.csv", view.Title, time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

func (h *AnalysisHandler) loadView(c *fiber.Ctx) (*models.View, error) {
	raw := c.Params("id")
	if raw == "" {
		return h.viewService.FirstView()
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, errBadViewID
	}
	return h.viewService.GetView(id)
}

var errBadViewID = errors.New("invalid view id")

func analysisError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errBadViewID):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrViewNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case query.IsConfiguration(err):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
}
