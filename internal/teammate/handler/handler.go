// Package handler provides HTTP handlers for team request endpoints.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/converge/internal/apperror"
	"github.com/festy23/converge/internal/middleware"
	"github.com/festy23/converge/internal/teammate/model"
	"github.com/festy23/converge/internal/teammate/service"
)

// Handler handles HTTP requests for team request endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new teammate handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Invite handles POST /api/projects/:id/teammates.
// Responds 201 for a new request and 200 when the pending one already existed.
func (h *Handler) Invite(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "invalid project id")
	if !ok {
		return
	}

	var body model.InviteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apperror.RespondKind(c, apperror.InvalidArgument, "invalid request body")
		return
	}

	req, created, err := h.service.IssueInvite(c.Request.Context(), caller, projectID, body.Email)
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, req.ToResponse())
}

// ListIncoming handles GET /api/projects/teammates/requests.
func (h *Handler) ListIncoming(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	requests, err := h.service.ListIncoming(c.Request.Context(), caller)
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, model.ToRequestResponses(requests))
}

// Accept handles POST /api/projects/teammates/requests/:id/accept.
func (h *Handler) Accept(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	requestID, ok := pathID(c, "invalid request id")
	if !ok {
		return
	}

	membership, err := h.service.AcceptRequest(c.Request.Context(), caller, requestID)
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, membership.ToResponse())
}

// Reject handles POST /api/projects/teammates/requests/:id/reject.
func (h *Handler) Reject(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	requestID, ok := pathID(c, "invalid request id")
	if !ok {
		return
	}

	if err := h.service.RejectRequest(c.Request.Context(), caller, requestID); err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, model.MessageResponse{Message: "request rejected"})
}

func (h *Handler) caller(c *gin.Context) (string, bool) {
	caller, ok := middleware.CallerEmail(c)
	if !ok {
		apperror.RespondKind(c, apperror.Unauthenticated, "missing bearer token")
	}
	return caller, ok
}

func pathID(c *gin.Context, message string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		apperror.RespondKind(c, apperror.InvalidArgument, message)
		return 0, false
	}
	return id, true
}
