package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/converge/internal/database/dbtest"
	"github.com/festy23/converge/internal/project/model"
	"github.com/festy23/converge/internal/project/repository"
	teammateModel "github.com/festy23/converge/internal/teammate/model"
)

type mockCoordinator struct {
	mock.Mock
}

func (m *mockCoordinator) ListTeammates(ctx context.Context, projectID int64) ([]teammateModel.Teammate, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]teammateModel.Teammate), args.Error(1)
}

func (m *mockCoordinator) FanOutRatingRequests(ctx context.Context, project *model.Project) (int, error) {
	args := m.Called(ctx, project)
	return args.Int(0), args.Error(1)
}

var _ TeamCoordinator = (*mockCoordinator)(nil)

func setup(t *testing.T) (*gorm.DB, repository.Repository, *mockCoordinator, Service) {
	logger := zap.NewNop().Sugar()
	db := dbtest.New(t)
	repo := repository.New(db, logger)
	coordinator := new(mockCoordinator)
	return db, repo, coordinator, New(repo, coordinator, db, logger)
}

func validRequest() *model.CreateProjectRequest {
	return &model.CreateProjectRequest{
		Title:                 "  Matcher ",
		Type:                  "research",
		Visibility:            "Public",
		RequiredSkills:        []string{"Go", " go ", "SQL,Docker", ""},
		PreferredTechnologies: []string{"PostgreSQL"},
		Description:           "Team matching",
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		_, repo, _, svc := setup(t)

		project, err := svc.Create(ctx, "owner@uni.edu", validRequest())
		require.NoError(t, err)
		assert.NotZero(t, project.ID)
		assert.Equal(t, "Matcher", project.Title)
		assert.Equal(t, model.VisibilityPublic, project.Visibility)
		assert.Equal(t, model.StatusActive, project.Status)
		assert.Equal(t, "owner@uni.edu", project.OwnerEmail)
		assert.Equal(t, model.StringList{"Go", "SQL", "Docker"}, project.RequiredSkills)

		stored, err := repo.GetByID(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StringList{"Go", "SQL", "Docker"}, stored.RequiredSkills)
		assert.Equal(t, model.StringList{}, stored.Domains)
	})

	tests := []struct {
		name    string
		mutate  func(r *model.CreateProjectRequest)
		wantErr error
	}{
		{name: "blank title", mutate: func(r *model.CreateProjectRequest) { r.Title = " " }, wantErr: model.ErrTitleRequired},
		{name: "blank type", mutate: func(r *model.CreateProjectRequest) { r.Type = "" }, wantErr: model.ErrTypeRequired},
		{name: "unknown visibility", mutate: func(r *model.CreateProjectRequest) { r.Visibility = "team" }, wantErr: model.ErrInvalidVisibility},
		{name: "missing visibility", mutate: func(r *model.CreateProjectRequest) { r.Visibility = "" }, wantErr: model.ErrInvalidVisibility},
		{name: "no skills", mutate: func(r *model.CreateProjectRequest) { r.RequiredSkills = []string{" ", ","} }, wantErr: model.ErrSkillsRequired},
		{name: "title too long", mutate: func(r *model.CreateProjectRequest) { r.Title = strings.Repeat("a", 256) }, wantErr: model.ErrFieldTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, repo, _, svc := setup(t)
			req := validRequest()
			tt.mutate(req)

			project, err := svc.Create(ctx, "owner@uni.edu", req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, project)

			all, err := repo.ListAll(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("includes teammates", func(t *testing.T) {
		_, _, coordinator, svc := setup(t)
		project, err := svc.Create(ctx, "owner@uni.edu", validRequest())
		require.NoError(t, err)

		name := "Bob"
		coordinator.On("ListTeammates", mock.Anything, project.ID).Return([]teammateModel.Teammate{
			{Email: "bob@uni.edu", Name: &name},
			{Email: "ghost@uni.edu"},
		}, nil)

		resp, err := svc.Get(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, "Matcher", resp.Title)
		require.Len(t, resp.Teammates, 2)
		assert.Equal(t, "Bob", *resp.Teammates[0].Name)
		assert.Nil(t, resp.Teammates[1].Name)
		coordinator.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		_, _, coordinator, svc := setup(t)

		_, err := svc.Get(ctx, 404)
		assert.ErrorIs(t, err, model.ErrProjectNotFound)
		coordinator.AssertNotCalled(t, "ListTeammates", mock.Anything, mock.Anything)
	})
}

func TestService_ListMineAndExplore(t *testing.T) {
	ctx := context.Background()
	db, _, _, svc := setup(t)

	mine, err := svc.Create(ctx, "alice@uni.edu", validRequest())
	require.NoError(t, err)
	joined, err := svc.Create(ctx, "bob@uni.edu", validRequest())
	require.NoError(t, err)
	_, err = svc.Create(ctx, "bob@uni.edu", validRequest())
	require.NoError(t, err)
	require.NoError(t, db.Exec(
		"INSERT INTO project_teammates (project_id, member_email) VALUES (?, ?)", joined.ID, "alice@uni.edu",
	).Error)

	projects, err := svc.ListMine(ctx, "alice@uni.edu")
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, mine.ID, projects[0].ID)
	assert.Equal(t, joined.ID, projects[1].ID)

	all, err := svc.Explore(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestService_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("completes and fans out", func(t *testing.T) {
		_, repo, coordinator, svc := setup(t)
		project, err := svc.Create(ctx, "owner@uni.edu", validRequest())
		require.NoError(t, err)

		coordinator.On("FanOutRatingRequests", mock.Anything, mock.MatchedBy(func(p *model.Project) bool {
			return p.ID == project.ID && p.IsCompleted()
		})).Return(6, nil)

		resp, err := svc.Complete(ctx, "owner@uni.edu", project.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusCompleted, resp.Status)
		assert.Equal(t, 6, resp.RatingRequestsCreated)

		stored, err := repo.GetByID(ctx, project.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsCompleted())
		coordinator.AssertExpectations(t)
	})

	t.Run("already completed is accepted", func(t *testing.T) {
		_, repo, coordinator, svc := setup(t)
		project, err := svc.Create(ctx, "owner@uni.edu", validRequest())
		require.NoError(t, err)
		require.NoError(t, repo.UpdateStatus(ctx, project.ID, model.StatusCompleted))

		coordinator.On("FanOutRatingRequests", mock.Anything, mock.Anything).Return(0, nil)

		resp, err := svc.Complete(ctx, "owner@uni.edu", project.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusCompleted, resp.Status)
		assert.Equal(t, 0, resp.RatingRequestsCreated)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		_, repo, coordinator, svc := setup(t)
		project, err := svc.Create(ctx, "owner@uni.edu", validRequest())
		require.NoError(t, err)

		_, err = svc.Complete(ctx, "bob@uni.edu", project.ID)
		assert.ErrorIs(t, err, model.ErrNotProjectOwner)

		stored, err := repo.GetByID(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusActive, stored.Status)
		coordinator.AssertNotCalled(t, "FanOutRatingRequests", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		_, _, _, svc := setup(t)

		_, err := svc.Complete(ctx, "owner@uni.edu", 12)
		assert.ErrorIs(t, err, model.ErrProjectNotFound)
	})

	t.Run("fan-out failure is reported", func(t *testing.T) {
		_, repo, coordinator, svc := setup(t)
		project, err := svc.Create(ctx, "owner@uni.edu", validRequest())
		require.NoError(t, err)

		boom := errors.New("fan-out failed")
		coordinator.On("FanOutRatingRequests", mock.Anything, mock.Anything).Return(0, boom)

		_, err = svc.Complete(ctx, "owner@uni.edu", project.ID)
		assert.ErrorIs(t, err, boom)

		stored, err := repo.GetByID(ctx, project.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsCompleted())
	})
}
