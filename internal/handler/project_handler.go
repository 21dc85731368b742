package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"reelforge/internal/auth"
	"reelforge/internal/errors"
	"reelforge/internal/service"
)

// ProjectHandler serves the caller's editor projects.
type ProjectHandler struct {
	svc service.ProjectService
	log logrus.FieldLogger
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(svc service.ProjectService, log logrus.FieldLogger) *ProjectHandler {
	return &ProjectHandler{svc: svc, log: log}
}

// ProjectRequest is the editable part of a project.
type ProjectRequest struct {
	Title          string            `json:"title"`
	TimelineBlocks []json.RawMessage `json:"timelineBlocks" swaggertype:"array,object"`
	Notes          string            `json:"notes"`
	Attachments    []json.RawMessage `json:"attachments" swaggertype:"array,object"`
}

func (r ProjectRequest) input() service.ProjectInput {
	return service.ProjectInput{
		Title:          r.Title,
		TimelineBlocks: r.TimelineBlocks,
		Notes:          r.Notes,
		Attachments:    r.Attachments,
	}
}

func (h *ProjectHandler) owner(c echo.Context) (string, error) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return "", fail(c, h.log, errors.ErrMissingToken)
	}
	return claims.UserID, nil
}

// List godoc
// @Summary List the caller's projects, newest first
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ProjectResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	ownerID, err := h.owner(c)
	if err != nil {
		return err
	}
	projects, err := h.svc.List(c.Request().Context(), ownerID)
	if err != nil {
		return fail(c, h.log, err)
	}
	resp := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		resp = append(resp, NewProjectResponse(&projects[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Get one of the caller's projects
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} ProjectResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	ownerID, err := h.owner(c)
	if err != nil {
		return err
	}
	project, err := h.svc.Get(c.Request().Context(), ownerID, c.Param("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, NewProjectResponse(project))
}

// Create godoc
// @Summary Create a project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProjectRequest true "Project fields"
// @Success 201 {object} ProjectResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	ownerID, err := h.owner(c)
	if err != nil {
		return err
	}
	var req ProjectRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}
	project, err := h.svc.Create(c.Request().Context(), ownerID, req.input())
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, NewProjectResponse(project))
}

// Update godoc
// @Summary Replace a project's editable fields
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param request body ProjectRequest true "Project fields"
// @Success 200 {object} ProjectResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/projects/{id} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	ownerID, err := h.owner(c)
	if err != nil {
		return err
	}
	var req ProjectRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}
	project, err := h.svc.Update(c.Request().Context(), ownerID, c.Param("id"), req.input())
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, NewProjectResponse(project))
}

// Delete godoc
// @Summary Delete a project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} DeleteResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	ownerID, err := h.owner(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	if err := h.svc.Delete(c.Request().Context(), ownerID, id); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, DeleteResponse{Success: true, DeletedID: id})
}
