// Package router provides project module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/converge/internal/project/handler"
	"github.com/festy23/converge/internal/project/repository"
	"github.com/festy23/converge/internal/project/service"
)

// RegisterRoutes registers project routes on an authenticated group.
func RegisterRoutes(api gin.IRouter, db *gorm.DB, coordinator service.TeamCoordinator, logger *zap.SugaredLogger) {
	repo := repository.New(db, logger)
	svc := service.New(repo, coordinator, db, logger)
	h := handler.New(svc, logger)

	projects := api.Group("/projects")
	projects.POST("", h.Create)
	projects.GET("", h.ListMine)
	projects.GET("/explore", h.Explore)
	projects.GET("/:id", h.Get)
	projects.POST("/:id/complete", h.Complete)
}
