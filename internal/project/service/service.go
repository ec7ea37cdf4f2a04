// Package service provides business logic layer for project module.
package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/converge/internal/project/model"
	"github.com/festy23/converge/internal/project/repository"
	teammateModel "github.com/festy23/converge/internal/teammate/model"
)

// Text column limits.
const (
	maxTitleLength       = 255
	maxTypeLength        = 100
	maxDescriptionLength = 5000
	maxGithubRepoLength  = 500
)

// TeamCoordinator is the part of the team coordinator used by projects.
type TeamCoordinator interface {
	ListTeammates(ctx context.Context, projectID int64) ([]teammateModel.Teammate, error)
	FanOutRatingRequests(ctx context.Context, project *model.Project) (int, error)
}

// Service defines the interface for project business logic operations.
type Service interface {
	// Create stores a new ACTIVE project owned by the caller.
	Create(ctx context.Context, caller string, req *model.CreateProjectRequest) (*model.Project, error)

	// Get returns a project with its teammates.
	Get(ctx context.Context, id int64) (*model.ProjectResponse, error)

	// ListMine returns projects the caller owns or has joined.
	ListMine(ctx context.Context, caller string) ([]model.Project, error)

	// Explore returns every project.
	Explore(ctx context.Context) ([]model.Project, error)

	// Complete marks the caller's project COMPLETED and fans out rating requests.
	Complete(ctx context.Context, caller string, id int64) (*model.CompleteProjectResponse, error)
}

type service struct {
	repo        repository.Repository
	coordinator TeamCoordinator
	db          *gorm.DB
	logger      *zap.SugaredLogger
}

// New creates a new project service instance.
func New(repo repository.Repository, coordinator TeamCoordinator, db *gorm.DB, logger *zap.SugaredLogger) Service {
	return &service{
		repo:        repo,
		coordinator: coordinator,
		db:          db,
		logger:      logger,
	}
}

// Create stores a new ACTIVE project owned by the caller.
func (s *service) Create(ctx context.Context, caller string, req *model.CreateProjectRequest) (*model.Project, error) {
	project := &model.Project{
		Title:                 strings.TrimSpace(req.Title),
		Type:                  strings.TrimSpace(req.Type),
		Visibility:            strings.ToLower(strings.TrimSpace(req.Visibility)),
		RequiredSkills:        model.NormalizeList(req.RequiredSkills),
		PreferredTechnologies: model.NormalizeList(req.PreferredTechnologies),
		Domains:               model.NormalizeList(req.Domains),
		Description:           strings.TrimSpace(req.Description),
		GithubRepo:            strings.TrimSpace(req.GithubRepo),
		OwnerEmail:            caller,
		Status:                model.StatusActive,
	}
	if err := validate(project); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Infow("Project created", "project_id", project.ID, "owner", caller)
	return project, nil
}

func validate(p *model.Project) error {
	switch {
	case p.Title == "":
		return model.ErrTitleRequired
	case p.Type == "":
		return model.ErrTypeRequired
	case p.Visibility != model.VisibilityPublic && p.Visibility != model.VisibilityPrivate:
		return model.ErrInvalidVisibility
	case len(p.RequiredSkills) == 0:
		return model.ErrSkillsRequired
	}

	if utf8.RuneCountInString(p.Title) > maxTitleLength ||
		utf8.RuneCountInString(p.Type) > maxTypeLength ||
		utf8.RuneCountInString(p.Description) > maxDescriptionLength ||
		utf8.RuneCountInString(p.GithubRepo) > maxGithubRepoLength {
		return model.ErrFieldTooLong
	}
	return nil
}

// Get returns a project with its teammates.
func (s *service) Get(ctx context.Context, id int64) (*model.ProjectResponse, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	teammates, err := s.coordinator.ListTeammates(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := project.ToResponse()
	resp.Teammates = teammateModel.ToTeammateResponses(teammates)
	return &resp, nil
}

// ListMine returns projects the caller owns or has joined, ordered by id.
func (s *service) ListMine(ctx context.Context, caller string) ([]model.Project, error) {
	return s.repo.ListForMember(ctx, caller)
}

// Explore returns every project ordered by id.
func (s *service) Explore(ctx context.Context) ([]model.Project, error) {
	return s.repo.ListAll(ctx)
}

// Complete marks the caller's project COMPLETED (idempotent) and fans out
// rating requests. Re-completing a project repairs a partial fan-out.
func (s *service) Complete(ctx context.Context, caller string, id int64) (*model.CompleteProjectResponse, error) {
	var project *model.Project
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)

		p, err := txRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !p.IsOwner(caller) {
			return model.ErrNotProjectOwner
		}
		if !p.IsCompleted() {
			if err := txRepo.UpdateStatus(ctx, id, model.StatusCompleted); err != nil {
				return err
			}
			p.Status = model.StatusCompleted
			s.logger.Infow("Project completed", "project_id", id)
		}
		project = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	created, err := s.coordinator.FanOutRatingRequests(ctx, project)
	if err != nil {
		return nil, err
	}

	return &model.CompleteProjectResponse{
		ProjectResponse:       project.ToResponse(),
		RatingRequestsCreated: created,
	}, nil
}
