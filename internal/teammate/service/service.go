// Package service implements the team coordinator: invitations, their
// resolution, rating fan-out on project completion and teammate listing.
package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/converge/internal/database/database"
	"github.com/festy23/converge/internal/metrics"
	profileModel "github.com/festy23/converge/internal/profile/model"
	profileRepository "github.com/festy23/converge/internal/profile/repository"
	projectModel "github.com/festy23/converge/internal/project/model"
	projectRepository "github.com/festy23/converge/internal/project/repository"
	"github.com/festy23/converge/internal/teammate/model"
	"github.com/festy23/converge/internal/teammate/repository"
)

// Request outcomes recorded in metrics.
const (
	outcomeIssued   = "issued"
	outcomeReused   = "reused"
	outcomeAccepted = "accepted"
	outcomeRejected = "rejected"
	outcomeStale    = "stale"
)

// Service defines the interface for team coordination operations.
// Every mutating operation runs in a single transaction.
type Service interface {
	// IssueInvite creates a pending join request from the project owner to target.
	// created is false when an equivalent pending request already existed.
	IssueInvite(ctx context.Context, caller string, projectID int64, targetEmail string) (req *model.Request, created bool, err error)

	// AcceptRequest turns the caller's pending join request into a membership.
	AcceptRequest(ctx context.Context, caller string, requestID int64) (*model.Membership, error)

	// RejectRequest discards the caller's pending request of either type.
	RejectRequest(ctx context.Context, caller string, requestID int64) error

	// ListIncoming returns requests addressed to the caller.
	ListIncoming(ctx context.Context, caller string) ([]*model.Request, error)

	// FanOutRatingRequests prompts every participant of a completed project to
	// rate every other participant. Returns the number of requests created.
	FanOutRatingRequests(ctx context.Context, project *projectModel.Project) (int, error)

	// ListTeammates returns the project's members with their profiles.
	ListTeammates(ctx context.Context, projectID int64) ([]model.Teammate, error)
}

type service struct {
	repo     repository.Repository
	projects projectRepository.Repository
	profiles profileRepository.Lookup
	db       *gorm.DB
	metrics  *metrics.Metrics
	logger   *zap.SugaredLogger
}

// New creates a new team coordinator. m may be nil.
func New(
	repo repository.Repository,
	projects projectRepository.Repository,
	profiles profileRepository.Lookup,
	db *gorm.DB,
	m *metrics.Metrics,
	logger *zap.SugaredLogger,
) Service {
	return &service{
		repo:     repo,
		projects: projects,
		profiles: profiles,
		db:       db,
		metrics:  m,
		logger:   logger,
	}
}

// IssueInvite creates a pending join request from the project owner to target.
func (s *service) IssueInvite(
	ctx context.Context,
	caller string,
	projectID int64,
	targetEmail string,
) (*model.Request, bool, error) {
	target := strings.TrimSpace(targetEmail)
	if target == "" {
		return nil, false, model.ErrEmailRequired
	}

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, false, err
	}
	if !project.IsOwner(caller) {
		return nil, false, projectModel.ErrNotProjectOwner
	}
	if strings.EqualFold(target, caller) {
		return nil, false, model.ErrSelfInvite
	}
	invitee, err := s.profiles.FindByEmail(ctx, target)
	if err != nil {
		if errors.Is(err, profileModel.ErrProfileNotFound) {
			return nil, false, model.ErrInviteeNotFound
		}
		return nil, false, err
	}
	// The request carries the invitee's registered email, not the typed one.
	target = invitee.Email

	var (
		result   *model.Request
		created  bool
		lostRace bool
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)

		isMember, err := txRepo.IsMember(ctx, projectID, target)
		if err != nil {
			return err
		}
		if isMember {
			return model.ErrAlreadyMember
		}

		existing, err := txRepo.FindPendingJoin(ctx, projectID, target)
		if err == nil {
			result = existing
			return nil
		}
		if !errors.Is(err, model.ErrRequestNotFound) {
			return err
		}

		req := &model.Request{
			ProjectID:      project.ID,
			ProjectTitle:   project.Title,
			RequesterEmail: caller,
			TargetEmail:    target,
			Status:         model.StatusPending,
			Payload:        model.JoinInvite{},
		}
		if err := txRepo.CreateRequest(ctx, req); err != nil {
			lostRace = database.IsUniqueViolation(err)
			return err
		}
		result, created = req, true
		return nil
	})

	if lostRace {
		// A concurrent invite inserted the same pending request first.
		existing, findErr := s.repo.FindPendingJoin(ctx, projectID, target)
		if findErr != nil {
			return nil, false, findErr
		}
		s.metrics.TeamRequest(model.TypeJoinRequest, outcomeReused)
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if created {
		s.metrics.TeamRequest(model.TypeJoinRequest, outcomeIssued)
		s.logger.Infow("Join request issued", "project_id", projectID, "request_id", result.ID, "target", target)
	} else {
		s.metrics.TeamRequest(model.TypeJoinRequest, outcomeReused)
	}
	return result, created, nil
}

// AcceptRequest turns the caller's pending join request into a membership.
// A request that is no longer pending, or whose target already joined, is
// removed and the call fails.
func (s *service) AcceptRequest(ctx context.Context, caller string, requestID int64) (*model.Membership, error) {
	var (
		membership *model.Membership
		requestErr error
		reqType    string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)

		req, err := txRepo.GetRequestForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		reqType = req.Type()

		if !req.IsPending() {
			if err := txRepo.DeleteRequest(ctx, req.ID); err != nil {
				return err
			}
			requestErr = model.ErrRequestNotPending
			return nil
		}
		if !strings.EqualFold(req.TargetEmail, caller) {
			return model.ErrNotRequestTarget
		}
		if req.Type() != model.TypeJoinRequest {
			return model.ErrRatingNotAcceptable
		}

		isMember, err := txRepo.IsMember(ctx, req.ProjectID, req.TargetEmail)
		if err != nil {
			return err
		}
		if isMember {
			if err := txRepo.DeleteRequest(ctx, req.ID); err != nil {
				return err
			}
			requestErr = model.ErrAlreadyMember
			return nil
		}

		m := &model.Membership{ProjectID: req.ProjectID, MemberEmail: req.TargetEmail}
		if err := txRepo.AddMember(ctx, m); err != nil {
			return err
		}
		if err := txRepo.DeleteRequest(ctx, req.ID); err != nil {
			return err
		}
		membership = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	if requestErr != nil {
		s.metrics.TeamRequest(reqType, outcomeStale)
		s.logger.Warnw("Stale team request removed", "request_id", requestID, "reason", requestErr)
		return nil, requestErr
	}

	s.metrics.TeamRequest(model.TypeJoinRequest, outcomeAccepted)
	s.logger.Infow("Join request accepted",
		"request_id", requestID, "project_id", membership.ProjectID, "member", membership.MemberEmail)
	return membership, nil
}

// RejectRequest discards the caller's pending request of either type.
func (s *service) RejectRequest(ctx context.Context, caller string, requestID int64) error {
	var (
		requestErr error
		reqType    string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)

		req, err := txRepo.GetRequestForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		reqType = req.Type()

		if !req.IsPending() {
			if err := txRepo.DeleteRequest(ctx, req.ID); err != nil {
				return err
			}
			requestErr = model.ErrRequestNotPending
			return nil
		}
		if !strings.EqualFold(req.TargetEmail, caller) {
			return model.ErrNotRequestTarget
		}
		return txRepo.DeleteRequest(ctx, req.ID)
	})
	if err != nil {
		return err
	}
	if requestErr != nil {
		s.metrics.TeamRequest(reqType, outcomeStale)
		return requestErr
	}

	s.metrics.TeamRequest(reqType, outcomeRejected)
	s.logger.Infow("Team request rejected", "request_id", requestID, "type", reqType)
	return nil
}

// ListIncoming returns requests addressed to the caller, ordered by id.
func (s *service) ListIncoming(ctx context.Context, caller string) ([]*model.Request, error) {
	if strings.TrimSpace(caller) == "" {
		return nil, model.ErrEmailRequired
	}
	return s.repo.ListIncoming(ctx, caller)
}

type participant struct {
	email string
	name  string
}

// FanOutRatingRequests prompts every resolvable participant of a completed
// project to rate every other one. Pairs that already have a pending prompt
// are skipped, so repeated calls create nothing new.
func (s *service) FanOutRatingRequests(ctx context.Context, project *projectModel.Project) (int, error) {
	if project == nil || !project.IsCompleted() {
		return 0, nil
	}

	created := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serializes concurrent fan-outs of the same project.
		locked, err := projectRepository.New(tx, s.logger).GetByIDForUpdate(ctx, project.ID)
		if err != nil {
			return err
		}
		if !locked.IsCompleted() {
			return nil
		}

		txRepo := repository.New(tx, s.logger)
		participants, err := s.participants(ctx, txRepo, locked)
		if err != nil {
			return err
		}

		for _, rater := range participants {
			for _, ratee := range participants {
				if strings.EqualFold(rater.email, ratee.email) {
					continue
				}
				exists, err := txRepo.PendingRatingExists(ctx, locked.ID, rater.email, ratee.email)
				if err != nil {
					return err
				}
				if exists {
					continue
				}

				req := &model.Request{
					ProjectID:      locked.ID,
					ProjectTitle:   locked.Title,
					RequesterEmail: model.SystemRequester,
					TargetEmail:    rater.email,
					Status:         model.StatusPending,
					Payload:        model.RatingPrompt{RateeEmail: ratee.email, RateeName: ratee.name},
				}
				err = tx.Transaction(func(sp *gorm.DB) error {
					return repository.New(sp, s.logger).CreateRequest(ctx, req)
				})
				if err != nil {
					if database.IsUniqueViolation(err) {
						continue
					}
					return err
				}
				created++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.metrics.RatingRequestsCreated(created)
	s.logger.Infow("Rating requests fanned out", "project_id", project.ID, "created", created)
	return created, nil
}

// participants returns the owner and members that have a profile, owner first.
func (s *service) participants(
	ctx context.Context,
	txRepo repository.Repository,
	project *projectModel.Project,
) ([]participant, error) {
	members, err := txRepo.ListMembers(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	emails := make([]string, 0, len(members)+1)
	seen := make(map[string]struct{}, len(members)+1)
	for _, email := range append([]string{project.OwnerEmail}, memberEmails(members)...) {
		key := profileModel.NormalizeEmail(email)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		emails = append(emails, email)
	}

	profiles, err := s.profiles.FindByEmails(ctx, emails)
	if err != nil {
		return nil, err
	}

	out := make([]participant, 0, len(emails))
	for _, email := range emails {
		profile, ok := profiles[profileModel.NormalizeEmail(email)]
		if !ok {
			s.logger.Warnw("Skipping participant without profile", "project_id", project.ID, "email", email)
			continue
		}
		out = append(out, participant{email: email, name: profile.Name})
	}
	return out, nil
}

// ListTeammates returns the project's members with their profiles, ordered
// by join order. Members without a profile have a nil name.
func (s *service) ListTeammates(ctx context.Context, projectID int64) ([]model.Teammate, error) {
	members, err := s.repo.ListMembers(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return []model.Teammate{}, nil
	}

	profiles, err := s.profiles.FindByEmails(ctx, memberEmails(members))
	if err != nil {
		return nil, err
	}

	teammates := make([]model.Teammate, 0, len(members))
	for _, m := range members {
		teammate := model.Teammate{Email: m.MemberEmail, JoinedAt: m.JoinedAt}
		if p, ok := profiles[profileModel.NormalizeEmail(m.MemberEmail)]; ok {
			id, name := p.ID, p.Name
			teammate.ProfileID = &id
			teammate.Name = &name
			teammate.Year = p.Year
			teammate.Department = p.Department
			teammate.Institution = p.Institution
			teammate.Availability = p.Availability
		}
		teammates = append(teammates, teammate)
	}
	return teammates, nil
}

func memberEmails(members []model.Membership) []string {
	emails := make([]string, 0, len(members))
	for _, m := range members {
		emails = append(emails, m.MemberEmail)
	}
	return emails
}
