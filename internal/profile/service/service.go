// Package service provides business logic layer for profile module.
package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/festy23/converge/internal/profile/model"
	"github.com/festy23/converge/internal/profile/repository"
)

// Service defines the interface for profile business logic operations.
type Service interface {
	// Get returns the caller's profile.
	Get(ctx context.Context, email string) (*model.Profile, error)

	// GetByID returns another user's profile, e.g. a teammate's.
	GetByID(ctx context.Context, id int64) (*model.Profile, error)

	// Save creates or replaces the caller's profile.
	Save(ctx context.Context, email string, req *model.UpsertProfileRequest) (*model.Profile, error)
}

type service struct {
	repo   repository.Repository
	logger *zap.SugaredLogger
}

// New creates a new profile service instance.
func New(repo repository.Repository, logger *zap.SugaredLogger) Service {
	return &service{repo: repo, logger: logger}
}

// Get returns the caller's profile.
func (s *service) Get(ctx context.Context, email string) (*model.Profile, error) {
	if strings.TrimSpace(email) == "" {
		return nil, model.ErrInvalidEmail
	}
	return s.repo.FindByEmail(ctx, email)
}

// GetByID returns the profile with the given id.
func (s *service) GetByID(ctx context.Context, id int64) (*model.Profile, error) {
	if id <= 0 {
		return nil, model.ErrInvalidProfileID
	}
	return s.repo.FindByID(ctx, id)
}

// Save creates or replaces the caller's profile.
func (s *service) Save(ctx context.Context, email string, req *model.UpsertProfileRequest) (*model.Profile, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, model.ErrInvalidEmail
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, model.ErrInvalidName
	}

	profile, err := s.repo.Upsert(ctx, &model.Profile{
		Email:        email,
		Name:         name,
		Year:         strings.TrimSpace(req.Year),
		Department:   strings.TrimSpace(req.Department),
		Institution:  strings.TrimSpace(req.Institution),
		Availability: strings.TrimSpace(req.Availability),
	})
	if err != nil {
		s.logger.Errorw("Save profile failed", "email", email, "error", err)
		return nil, err
	}

	s.logger.Infow("profile saved", "email", email, "profile_id", profile.ID)
	return profile, nil
}
