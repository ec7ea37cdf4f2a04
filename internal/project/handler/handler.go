// Package handler provides HTTP handlers for project endpoints.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/converge/internal/apperror"
	"github.com/festy23/converge/internal/middleware"
	"github.com/festy23/converge/internal/project/model"
	"github.com/festy23/converge/internal/project/service"
)

// Handler handles HTTP requests for project endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new project handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Create handles POST /api/projects.
func (h *Handler) Create(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req model.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.RespondKind(c, apperror.InvalidArgument, "invalid request body")
		return
	}

	project, err := h.service.Create(c.Request.Context(), caller, &req)
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, project.ToResponse())
}

// ListMine handles GET /api/projects.
func (h *Handler) ListMine(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	projects, err := h.service.ListMine(c.Request.Context(), caller)
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, model.ToResponses(projects))
}

// Explore handles GET /api/projects/explore.
func (h *Handler) Explore(c *gin.Context) {
	projects, err := h.service.Explore(c.Request.Context())
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, model.ToResponses(projects))
}

// Get handles GET /api/projects/:id.
func (h *Handler) Get(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	project, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// Complete handles POST /api/projects/:id/complete.
func (h *Handler) Complete(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := projectID(c)
	if !ok {
		return
	}

	resp, err := h.service.Complete(c.Request.Context(), caller, id)
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) caller(c *gin.Context) (string, bool) {
	caller, ok := middleware.CallerEmail(c)
	if !ok {
		apperror.RespondKind(c, apperror.Unauthenticated, "missing bearer token")
	}
	return caller, ok
}

func projectID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		apperror.RespondKind(c, apperror.InvalidArgument, "invalid project id")
		return 0, false
	}
	return id, true
}
