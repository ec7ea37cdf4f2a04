package model

import (
	"time"

	teammateModel "github.com/festy23/converge/internal/teammate/model"
)

// CreateProjectRequest is the body of POST /api/projects.
type CreateProjectRequest struct {
	Title                 string   `json:"title"`
	Type                  string   `json:"type"`
	Visibility            string   `json:"visibility"`
	RequiredSkills        []string `json:"requiredSkills"`
	PreferredTechnologies []string `json:"preferredTechnologies"`
	Domains               []string `json:"domains"`
	Description           string   `json:"description"`
	GithubRepo            string   `json:"githubRepo"`
}

// ProjectResponse is the public view of a project.
type ProjectResponse struct {
	ID                    int64                            `json:"id"`
	Title                 string                           `json:"title"`
	Type                  string                           `json:"type"`
	Visibility            string                           `json:"visibility"`
	RequiredSkills        []string                         `json:"requiredSkills"`
	PreferredTechnologies []string                         `json:"preferredTechnologies"`
	Domains               []string                         `json:"domains"`
	Description           string                           `json:"description"`
	GithubRepo            string                           `json:"githubRepo"`
	OwnerEmail            string                           `json:"ownerEmail"`
	Status                string                           `json:"status"`
	CreatedAt             string                           `json:"createdAt"`
	Teammates             []teammateModel.TeammateResponse `json:"teammates,omitempty"`
}

// CompleteProjectResponse is the completed project plus the number of
// rating requests the completion created.
type CompleteProjectResponse struct {
	ProjectResponse
	RatingRequestsCreated int `json:"ratingRequestsCreated"`
}

// ToResponse converts a project to its response form.
func (p *Project) ToResponse() ProjectResponse {
	return ProjectResponse{
		ID:                    p.ID,
		Title:                 p.Title,
		Type:                  p.Type,
		Visibility:            p.Visibility,
		RequiredSkills:        nonNil(p.RequiredSkills),
		PreferredTechnologies: nonNil(p.PreferredTechnologies),
		Domains:               nonNil(p.Domains),
		Description:           p.Description,
		GithubRepo:            p.GithubRepo,
		OwnerEmail:            p.OwnerEmail,
		Status:                p.Status,
		CreatedAt:             p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ToResponses converts a slice of projects.
func ToResponses(projects []Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, projects[i].ToResponse())
	}
	return out
}

func nonNil(list StringList) []string {
	if list == nil {
		return []string{}
	}
	return list
}
