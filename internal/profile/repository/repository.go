// Package repository provides data access layer for profile module.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/converge/internal/database/database"
	"github.com/festy23/converge/internal/profile/model"
)

// Lookup resolves registered users by email.
type Lookup interface {
	// FindByEmail returns model.ErrProfileNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*model.Profile, error)

	// FindByEmails returns the profiles found, keyed by normalized email.
	FindByEmails(ctx context.Context, emails []string) (map[string]*model.Profile, error)
}

// Repository defines the interface for profile data access operations.
type Repository interface {
	Lookup

	// FindByID returns model.ErrProfileNotFound when absent.
	FindByID(ctx context.Context, id int64) (*model.Profile, error)

	// Upsert creates the profile or updates the one with the same email.
	Upsert(ctx context.Context, profile *model.Profile) (*model.Profile, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new profile repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// FindByEmail finds a profile by case-insensitive email.
func (r *repository) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).
		Where("lower(email) = ?", model.NormalizeEmail(email)).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrProfileNotFound
		}
		r.logger.Errorw("FindByEmail database error", "email", email, "error", err)
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return &profile, nil
}

// FindByID finds a profile by primary key.
func (r *repository) FindByID(ctx context.Context, id int64) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).First(&profile, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrProfileNotFound
		}
		r.logger.Errorw("FindByID database error", "profile_id", id, "error", err)
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return &profile, nil
}

// FindByEmails loads every profile matching one of emails.
func (r *repository) FindByEmails(ctx context.Context, emails []string) (map[string]*model.Profile, error) {
	result := make(map[string]*model.Profile, len(emails))
	if len(emails) == 0 {
		return result, nil
	}

	normalized := make([]string, 0, len(emails))
	for _, email := range emails {
		normalized = append(normalized, model.NormalizeEmail(email))
	}

	var profiles []model.Profile
	err := r.db.WithContext(ctx).
		Where("lower(email) IN ?", normalized).
		Find(&profiles).Error
	if err != nil {
		r.logger.Errorw("FindByEmails database error", "count", len(emails), "error", err)
		return nil, fmt.Errorf("find profiles: %w", err)
	}

	for i := range profiles {
		result[model.NormalizeEmail(profiles[i].Email)] = &profiles[i]
	}
	return result, nil
}

// Upsert writes the profile keyed by email. A concurrent insert of the same
// email turns into an update.
func (r *repository) Upsert(ctx context.Context, profile *model.Profile) (*model.Profile, error) {
	saved, err := r.upsert(ctx, profile)
	if database.IsUniqueViolation(err) {
		r.logger.Debugw("Upsert lost insert race, updating", "email", profile.Email)
		saved, err = r.upsert(ctx, profile)
	}
	if err != nil {
		r.logger.Errorw("Upsert database error", "email", profile.Email, "error", err)
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return saved, nil
}

func (r *repository) upsert(ctx context.Context, profile *model.Profile) (*model.Profile, error) {
	var saved model.Profile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("lower(email) = ?", model.NormalizeEmail(profile.Email)).First(&saved).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			saved = *profile
			saved.ID = 0
			return tx.Create(&saved).Error
		}
		if err != nil {
			return err
		}

		saved.Name = profile.Name
		saved.Year = profile.Year
		saved.Department = profile.Department
		saved.Institution = profile.Institution
		saved.Availability = profile.Availability
		saved.UpdatedAt = time.Now().UTC()
		return tx.Model(&saved).Updates(map[string]interface{}{
			"name":         saved.Name,
			"year":         saved.Year,
			"department":   saved.Department,
			"institution":  saved.Institution,
			"availability": saved.Availability,
			"updated_at":   saved.UpdatedAt,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}
