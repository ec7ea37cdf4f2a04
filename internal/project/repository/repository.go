// Package repository provides data access layer for project module.
package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/festy23/converge/internal/project/model"
)

// Repository defines the interface for project data access operations.
type Repository interface {
	// Create inserts a new project.
	Create(ctx context.Context, project *model.Project) error

	// GetByID finds a project by id.
	GetByID(ctx context.Context, id int64) (*model.Project, error)

	// GetByIDForUpdate finds a project by id and locks the row until the transaction ends.
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Project, error)

	// ListForMember returns projects owned by email or joined by email, ordered by id.
	ListForMember(ctx context.Context, email string) ([]model.Project, error)

	// ListAll returns every project ordered by id.
	ListAll(ctx context.Context) ([]model.Project, error)

	// UpdateStatus sets the project status.
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new project repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// Create inserts a new project.
func (r *repository) Create(ctx context.Context, project *model.Project) error {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		r.logger.Errorw("Create project database error", "title", project.Title, "error", err)
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// GetByID finds a project by id.
func (r *repository) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetByIDForUpdate finds a project by id with SELECT ... FOR UPDATE.
func (r *repository) GetByIDForUpdate(ctx context.Context, id int64) (*model.Project, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *repository) get(db *gorm.DB, id int64) (*model.Project, error) {
	var project model.Project
	if err := db.Where("id = ?", id).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrProjectNotFound
		}
		r.logger.Errorw("GetByID project database error", "project_id", id, "error", err)
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &project, nil
}

// ListForMember returns owned and joined projects without duplicates.
func (r *repository) ListForMember(ctx context.Context, email string) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Where("owner_email = ?", email).
		Or("id IN (?)", r.db.WithContext(ctx).Table("project_teammates").
			Select("project_id").
			Where("lower(member_email) = lower(?)", email)).
		Order("id").
		Find(&projects).Error
	if err != nil {
		r.logger.Errorw("ListForMember database error", "email", email, "error", err)
		return nil, fmt.Errorf("list projects for member: %w", err)
	}
	return projects, nil
}

// ListAll returns every project ordered by id.
func (r *repository) ListAll(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := r.db.WithContext(ctx).Order("id").Find(&projects).Error; err != nil {
		r.logger.Errorw("ListAll projects database error", "error", err)
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// UpdateStatus sets the project status.
func (r *repository) UpdateStatus(ctx context.Context, id int64, status string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		r.logger.Errorw("UpdateStatus database error", "project_id", id, "status", status, "error", result.Error)
		return fmt.Errorf("update project status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrProjectNotFound
	}
	return nil
}
