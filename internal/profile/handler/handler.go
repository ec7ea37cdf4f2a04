// Package handler provides HTTP handlers for profile endpoints.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/converge/internal/apperror"
	"github.com/festy23/converge/internal/middleware"
	"github.com/festy23/converge/internal/profile/model"
	"github.com/festy23/converge/internal/profile/service"
)

// Handler handles HTTP requests for profile endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new profile handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// GetMe handles GET /api/profiles/me.
func (h *Handler) GetMe(c *gin.Context) {
	caller, ok := middleware.CallerEmail(c)
	if !ok {
		apperror.RespondKind(c, apperror.Unauthenticated, "missing bearer token")
		return
	}

	profile, err := h.service.Get(c.Request.Context(), caller)
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, profile.ToResponse())
}

// GetByID handles GET /api/profiles/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		apperror.RespondKind(c, apperror.InvalidArgument, model.ErrInvalidProfileID.Message)
		return
	}

	profile, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, profile.ToResponse())
}

// PutMe handles PUT /api/profiles/me.
func (h *Handler) PutMe(c *gin.Context) {
	caller, ok := middleware.CallerEmail(c)
	if !ok {
		apperror.RespondKind(c, apperror.Unauthenticated, "missing bearer token")
		return
	}

	var req model.UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.RespondKind(c, apperror.InvalidArgument, "invalid request body")
		return
	}

	profile, err := h.service.Save(c.Request.Context(), caller, &req)
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, profile.ToResponse())
}
