package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/festy23/converge/internal/profile/model"
	"github.com/festy23/converge/internal/profile/repository"
)

const keyPrefix = "converge:profile:"

// Repository decorates a profile repository with a read-through cache.
// Misses are not cached. Cache failures fall through to the wrapped repository.
type Repository struct {
	next   repository.Repository
	store  Store
	ttl    time.Duration
	logger *zap.SugaredLogger
}

var _ repository.Repository = (*Repository)(nil)

// New wraps next with store.
func New(next repository.Repository, store Store, ttl time.Duration, logger *zap.SugaredLogger) *Repository {
	return &Repository{next: next, store: store, ttl: ttl, logger: logger}
}

// Key returns the cache key for email.
func Key(email string) string {
	return keyPrefix + model.NormalizeEmail(email)
}

// FindByEmail implements repository.Lookup.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	if profile, ok := r.get(ctx, email); ok {
		return profile, nil
	}

	profile, err := r.next.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	r.set(ctx, profile)
	return profile, nil
}

// FindByEmails implements repository.Lookup.
func (r *Repository) FindByEmails(ctx context.Context, emails []string) (map[string]*model.Profile, error) {
	result := make(map[string]*model.Profile, len(emails))
	var missing []string
	for _, email := range emails {
		if profile, ok := r.get(ctx, email); ok {
			result[model.NormalizeEmail(email)] = profile
			continue
		}
		missing = append(missing, email)
	}
	if len(missing) == 0 {
		return result, nil
	}

	loaded, err := r.next.FindByEmails(ctx, missing)
	if err != nil {
		return nil, err
	}
	for key, profile := range loaded {
		result[key] = profile
		r.set(ctx, profile)
	}
	return result, nil
}

// FindByID implements repository.Repository. Entries are keyed by email, so
// lookups by id go straight to the wrapped repository.
func (r *Repository) FindByID(ctx context.Context, id int64) (*model.Profile, error) {
	return r.next.FindByID(ctx, id)
}

// Upsert implements repository.Repository and invalidates the cached entry.
func (r *Repository) Upsert(ctx context.Context, profile *model.Profile) (*model.Profile, error) {
	saved, err := r.next.Upsert(ctx, profile)
	if err != nil {
		return nil, err
	}
	if err := r.store.Del(ctx, Key(profile.Email)); err != nil {
		r.logger.Warnw("profile cache invalidation failed", "email", profile.Email, "error", err)
	}
	return saved, nil
}

func (r *Repository) get(ctx context.Context, email string) (*model.Profile, bool) {
	data, err := r.store.Get(ctx, Key(email))
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			r.logger.Warnw("profile cache read failed", "email", email, "error", err)
		}
		return nil, false
	}

	var profile model.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		r.logger.Warnw("profile cache entry corrupt", "email", email, "error", err)
		return nil, false
	}
	return &profile, true
}

func (r *Repository) set(ctx context.Context, profile *model.Profile) {
	data, err := json.Marshal(profile)
	if err != nil {
		return
	}
	if err := r.store.Set(ctx, Key(profile.Email), data, r.ttl); err != nil {
		r.logger.Warnw("profile cache write failed", "email", profile.Email, "error", err)
	}
}
