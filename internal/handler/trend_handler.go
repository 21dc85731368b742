package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"reelforge/internal/service"
)

// TrendHandler serves the manual trend template endpoints.
type TrendHandler struct {
	svc service.TrendService
	log logrus.FieldLogger
}

// NewTrendHandler creates a new trend handler.
func NewTrendHandler(svc service.TrendService, log logrus.FieldLogger) *TrendHandler {
	return &TrendHandler{svc: svc, log: log}
}

// TrendRequest is a trend body. With an id it replaces that trend, without one
// it creates a new trend.
type TrendRequest struct {
	ID              string `json:"id,omitempty"`
	Title           string `json:"title"`
	Platform        string `json:"platform"`
	Niche           string `json:"niche"`
	HookType        string `json:"hookType"`
	Description     string `json:"description"`
	EditingTemplate string `json:"editingTemplate"`
	CaptionExample  string `json:"captionExample"`
	Hashtags        string `json:"hashtags"`
	SoundType       string `json:"soundType"`
	Status          string `json:"status"`
	SourceURL       string `json:"sourceUrl"`
}

func (r TrendRequest) input() service.TrendInput {
	return service.TrendInput{
		Title:           r.Title,
		Platform:        r.Platform,
		Niche:           r.Niche,
		HookType:        r.HookType,
		Description:     r.Description,
		EditingTemplate: r.EditingTemplate,
		CaptionExample:  r.CaptionExample,
		Hashtags:        r.Hashtags,
		SoundType:       r.SoundType,
		Status:          r.Status,
		SourceURL:       r.SourceURL,
	}
}

// List godoc
// @Summary List trend templates, newest first
// @Tags trends
// @Produce json
// @Success 200 {array} TrendResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/manual-trends [get]
func (h *TrendHandler) List(c echo.Context) error {
	trends, err := h.svc.List(c.Request().Context())
	if err != nil {
		return fail(c, h.log, err)
	}
	resp := make([]TrendResponse, 0, len(trends))
	for i := range trends {
		resp = append(resp, NewTrendResponse(&trends[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// Upsert godoc
// @Summary Create a trend template, or replace one when id is given
// @Tags trends
// @Accept json
// @Produce json
// @Param request body TrendRequest true "Trend fields"
// @Success 200 {object} TrendResponse "updated"
// @Success 201 {object} TrendResponse "created"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/manual-trends [post]
func (h *TrendHandler) Upsert(c echo.Context) error {
	var req TrendRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}

	trend, created, err := h.svc.Upsert(c.Request().Context(), req.ID, req.input())
	if err != nil {
		return fail(c, h.log, err)
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, NewTrendResponse(trend))
}

// Delete godoc
// @Summary Delete a trend template
// @Tags trends
// @Produce json
// @Param id path string true "Trend ID"
// @Success 200 {object} DeleteResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/manual-trends/{id} [delete]
func (h *TrendHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, DeleteResponse{Success: true, DeletedID: id})
}
