// Package repository provides data access layer for team memberships and team requests.
package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/festy23/converge/internal/database/database"
	"github.com/festy23/converge/internal/teammate/model"
)

// Repository defines the interface for membership and request data access operations.
type Repository interface {
	// GetRequest finds a request by id.
	GetRequest(ctx context.Context, id int64) (*model.Request, error)

	// GetRequestForUpdate finds a request by id and locks the row until the transaction ends.
	GetRequestForUpdate(ctx context.Context, id int64) (*model.Request, error)

	// FindPendingJoin returns the pending join request for (projectID, targetEmail).
	FindPendingJoin(ctx context.Context, projectID int64, targetEmail string) (*model.Request, error)

	// PendingRatingExists reports whether rater already has a pending prompt to rate ratee.
	PendingRatingExists(ctx context.Context, projectID int64, raterEmail, rateeEmail string) (bool, error)

	// CreateRequest inserts the request and sets its id.
	CreateRequest(ctx context.Context, req *model.Request) error

	// DeleteRequest removes the request. Returns model.ErrRequestNotFound if no row was deleted.
	DeleteRequest(ctx context.Context, id int64) error

	// ListIncoming returns requests whose target matches email, ordered by id.
	ListIncoming(ctx context.Context, email string) ([]*model.Request, error)

	// IsMember reports whether email holds a membership in the project.
	IsMember(ctx context.Context, projectID int64, email string) (bool, error)

	// AddMember inserts a membership. Returns model.ErrAlreadyMember on a duplicate.
	AddMember(ctx context.Context, membership *model.Membership) error

	// ListMembers returns the project's memberships ordered by id.
	ListMembers(ctx context.Context, projectID int64) ([]model.Membership, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new teammate repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// GetRequest finds a request by id.
func (r *repository) GetRequest(ctx context.Context, id int64) (*model.Request, error) {
	return r.getRequest(r.db.WithContext(ctx), id)
}

// GetRequestForUpdate finds a request by id with SELECT ... FOR UPDATE.
func (r *repository) GetRequestForUpdate(ctx context.Context, id int64) (*model.Request, error) {
	return r.getRequest(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *repository) getRequest(db *gorm.DB, id int64) (*model.Request, error) {
	var row model.RequestRow
	if err := db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrRequestNotFound
		}
		r.logger.Errorw("GetRequest database error", "request_id", id, "error", err)
		return nil, fmt.Errorf("get team request: %w", err)
	}
	return row.Decode()
}

// FindPendingJoin returns the pending join request for (projectID, targetEmail).
func (r *repository) FindPendingJoin(ctx context.Context, projectID int64, targetEmail string) (*model.Request, error) {
	var row model.RequestRow
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND lower(target_email) = lower(?) AND status = ? AND type = ?",
			projectID, targetEmail, model.StatusPending, model.TypeJoinRequest).
		Order("id").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrRequestNotFound
		}
		r.logger.Errorw("FindPendingJoin database error", "project_id", projectID, "target", targetEmail, "error", err)
		return nil, fmt.Errorf("find pending join request: %w", err)
	}
	return row.Decode()
}

// PendingRatingExists reports whether rater already has a pending prompt to rate ratee.
func (r *repository) PendingRatingExists(ctx context.Context, projectID int64, raterEmail, rateeEmail string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.RequestRow{}).
		Where("project_id = ? AND lower(target_email) = lower(?) AND lower(ratee_email) = lower(?) AND status = ? AND type = ?",
			projectID, raterEmail, rateeEmail, model.StatusPending, model.TypeRatingRequest).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("PendingRatingExists database error", "project_id", projectID, "error", err)
		return false, fmt.Errorf("check pending rating request: %w", err)
	}
	return count > 0, nil
}

// CreateRequest inserts the request and sets its id. Unique violations are
// returned wrapped so callers can detect a lost race with database.IsUniqueViolation.
func (r *repository) CreateRequest(ctx context.Context, req *model.Request) error {
	row, err := model.EncodeRequest(req)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if !database.IsUniqueViolation(err) {
			r.logger.Errorw("CreateRequest database error", "project_id", req.ProjectID, "type", row.Type, "error", err)
		}
		return fmt.Errorf("create team request: %w", err)
	}
	req.ID = row.ID
	req.CreatedAt = row.CreatedAt
	req.UpdatedAt = row.UpdatedAt
	return nil
}

// DeleteRequest removes the request.
func (r *repository) DeleteRequest(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.RequestRow{})
	if result.Error != nil {
		r.logger.Errorw("DeleteRequest database error", "request_id", id, "error", result.Error)
		return fmt.Errorf("delete team request: %w", result.Error)
	}
	if result.RowsAffected != 1 {
		return model.ErrRequestNotFound
	}
	return nil
}

// ListIncoming returns requests whose target matches email case-insensitively.
func (r *repository) ListIncoming(ctx context.Context, email string) ([]*model.Request, error) {
	var rows []model.RequestRow
	err := r.db.WithContext(ctx).
		Where("lower(target_email) = lower(?)", email).
		Order("id").
		Find(&rows).Error
	if err != nil {
		r.logger.Errorw("ListIncoming database error", "email", email, "error", err)
		return nil, fmt.Errorf("list incoming requests: %w", err)
	}

	requests := make([]*model.Request, 0, len(rows))
	for i := range rows {
		req, err := rows[i].Decode()
		if err != nil {
			r.logger.Errorw("ListIncoming undecodable request", "request_id", rows[i].ID, "error", err)
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// IsMember reports whether email holds a membership in the project.
func (r *repository) IsMember(ctx context.Context, projectID int64, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Membership{}).
		Where("project_id = ? AND lower(member_email) = lower(?)", projectID, email).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("IsMember database error", "project_id", projectID, "email", email, "error", err)
		return false, fmt.Errorf("check membership: %w", err)
	}
	return count > 0, nil
}

// AddMember inserts a membership.
func (r *repository) AddMember(ctx context.Context, membership *model.Membership) error {
	if err := r.db.WithContext(ctx).Create(membership).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return model.ErrAlreadyMember
		}
		r.logger.Errorw("AddMember database error", "project_id", membership.ProjectID, "error", err)
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

// ListMembers returns the project's memberships ordered by id.
func (r *repository) ListMembers(ctx context.Context, projectID int64) ([]model.Membership, error) {
	var members []model.Membership
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("id").
		Find(&members).Error
	if err != nil {
		r.logger.Errorw("ListMembers database error", "project_id", projectID, "error", err)
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}
