package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadsuite/timetable-api/internal/dto"
	"github.com/acadsuite/timetable-api/internal/models"
	appErrors "github.com/acadsuite/timetable-api/pkg/errors"
	"github.com/acadsuite/timetable-api/pkg/response"
)

type timetableOrchestrator interface {
	Generate(ctx context.Context, req dto.GenerateTimetableRequest) (models.GeneratedTimetable, error)
	Get(ctx context.Context, id string) (models.GeneratedTimetable, error)
	List(ctx context.Context, query dto.TimetableListQuery) ([]models.TimetableSummary, models.Pagination, error)
	Delete(ctx context.Context, id string) error
}

type sheetBuilder interface {
	BuildSheet(table models.GeneratedTimetable, labels dto.ExportLabels) dto.SheetGrid
}

// TimetableHandler exposes timetable generation and retrieval endpoints.
type TimetableHandler struct {
	service timetableOrchestrator
	sheets  sheetBuilder
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc timetableOrchestrator, sheets sheetBuilder) *TimetableHandler {
	return &TimetableHandler{service: svc, sheets: sheets}
}

// Generate godoc
// @Summary Generate a timetable from courses, faculty, rooms and students
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Generation input"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /timetables/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request payload"))
		return
	}
	table, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, table)
}

// List godoc
// @Summary List stored timetable summaries
// @Tags Timetables
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /timetables [get]
func (h *TimetableHandler) List(c *gin.Context) {
	var query dto.TimetableListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters"))
		return
	}
	summaries, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summaries, &pagination)
}

// Get godoc
// @Summary Fetch one stored timetable
// @Tags Timetables
// @Produce json
// @Param id path string true "Timetable ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetables/{id} [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	table, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, table, nil)
}

// Delete godoc
// @Summary Delete a stored timetable
// @Tags Timetables
// @Param id path string true "Timetable ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /timetables/{id} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Sheet godoc
// @Summary Build the spreadsheet-feed grid for a stored timetable
// @Tags Timetables
// @Accept json
// @Produce json
// @Param id path string true "Timetable ID"
// @Param payload body dto.SheetRequest false "Optional display labels"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetables/{id}/sheet [post]
func (h *TimetableHandler) Sheet(c *gin.Context) {
	var req dto.SheetRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request payload"))
		return
	}
	table, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.sheets.BuildSheet(table, req.Labels), nil)
}
