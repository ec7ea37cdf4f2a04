package model

import "time"

// InviteRequest is the body of POST /api/projects/:id/teammates.
type InviteRequest struct {
	Email string `json:"email"`
}

// RequestResponse is the wire form of a team request. Ratee fields are
// present only for rating requests.
type RequestResponse struct {
	RequestID      int64   `json:"requestId"`
	ProjectID      int64   `json:"projectId"`
	ProjectTitle   string  `json:"projectTitle"`
	RequesterEmail string  `json:"requesterEmail"`
	TargetEmail    string  `json:"targetEmail"`
	Status         string  `json:"status"`
	Type           string  `json:"type"`
	RateeEmail     *string `json:"rateeEmail,omitempty"`
	RateeName      *string `json:"rateeName,omitempty"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

// MembershipResponse is returned when a join request is accepted.
type MembershipResponse struct {
	ID          int64  `json:"id"`
	ProjectID   int64  `json:"projectId"`
	MemberEmail string `json:"memberEmail"`
	JoinedAt    string `json:"joinedAt"`
}

// TeammateResponse is one entry of a project's teammate list.
type TeammateResponse struct {
	ID           *int64  `json:"id"`
	Email        string  `json:"email"`
	Name         *string `json:"name"`
	JoinedAt     string  `json:"joinedAt"`
	Year         string  `json:"year,omitempty"`
	Department   string  `json:"department,omitempty"`
	Institution  string  `json:"institution,omitempty"`
	Availability string  `json:"availability,omitempty"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// ToResponse converts a request to its wire form.
func (r *Request) ToResponse() RequestResponse {
	resp := RequestResponse{
		RequestID:      r.ID,
		ProjectID:      r.ProjectID,
		ProjectTitle:   r.ProjectTitle,
		RequesterEmail: r.RequesterEmail,
		TargetEmail:    r.TargetEmail,
		Status:         r.Status,
		Type:           r.Type(),
		CreatedAt:      formatTime(r.CreatedAt),
		UpdatedAt:      formatTime(r.UpdatedAt),
	}
	if prompt, ok := r.Payload.(RatingPrompt); ok {
		resp.RateeEmail = &prompt.RateeEmail
		resp.RateeName = &prompt.RateeName
	}
	return resp
}

// ToRequestResponses converts a slice of requests.
func ToRequestResponses(requests []*Request) []RequestResponse {
	out := make([]RequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, r.ToResponse())
	}
	return out
}

// ToResponse converts a membership to its wire form.
func (m *Membership) ToResponse() MembershipResponse {
	return MembershipResponse{
		ID:          m.ID,
		ProjectID:   m.ProjectID,
		MemberEmail: m.MemberEmail,
		JoinedAt:    formatTime(m.JoinedAt),
	}
}

// ToResponse converts a teammate to its wire form.
func (t *Teammate) ToResponse() TeammateResponse {
	return TeammateResponse{
		ID:           t.ProfileID,
		Email:        t.Email,
		Name:         t.Name,
		JoinedAt:     formatTime(t.JoinedAt),
		Year:         t.Year,
		Department:   t.Department,
		Institution:  t.Institution,
		Availability: t.Availability,
	}
}

// ToTeammateResponses converts a slice of teammates.
func ToTeammateResponses(teammates []Teammate) []TeammateResponse {
	out := make([]TeammateResponse, 0, len(teammates))
	for i := range teammates {
		out = append(out, teammates[i].ToResponse())
	}
	return out
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
