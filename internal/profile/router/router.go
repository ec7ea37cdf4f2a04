// Package router provides profile module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/converge/internal/profile/handler"
	"github.com/festy23/converge/internal/profile/repository"
	"github.com/festy23/converge/internal/profile/service"
)

// RegisterRoutes registers profile routes on an authenticated group.
// repo may be the cached decorator so writes invalidate the cache.
func RegisterRoutes(api gin.IRouter, repo repository.Repository, logger *zap.SugaredLogger) {
	svc := service.New(repo, logger)
	h := handler.New(svc, logger)

	profiles := api.Group("/profiles")
	profiles.GET("/me", h.GetMe)
	profiles.PUT("/me", h.PutMe)
	profiles.GET("/:id", h.GetByID)
}
