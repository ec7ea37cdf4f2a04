// Package router provides teammate module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/converge/internal/teammate/handler"
	"github.com/festy23/converge/internal/teammate/service"
)

// RegisterRoutes registers team request routes on an authenticated group.
// The coordinator is shared with the project module.
func RegisterRoutes(api gin.IRouter, coordinator service.Service, logger *zap.SugaredLogger) {
	h := handler.New(coordinator, logger)

	projects := api.Group("/projects")
	projects.POST("/:id/teammates", h.Invite)

	requests := projects.Group("/teammates/requests")
	requests.GET("", h.ListIncoming)
	requests.POST("/:id/accept", h.Accept)
	requests.POST("/:id/reject", h.Reject)
}
