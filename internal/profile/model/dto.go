package model

import "time"

// UpsertProfileRequest is the body of PUT /api/profiles/me.
type UpsertProfileRequest struct {
	Name         string `json:"name"         binding:"required,max=255"`
	Year         string `json:"year"         binding:"max=50"`
	Department   string `json:"department"   binding:"max=255"`
	Institution  string `json:"institution"  binding:"max=255"`
	Availability string `json:"availability" binding:"max=255"`
}

// ProfileResponse is the public view of a profile.
type ProfileResponse struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Year         string `json:"year"`
	Department   string `json:"department"`
	Institution  string `json:"institution"`
	Availability string `json:"availability"`
	UpdatedAt    string `json:"updatedAt"`
}

// ToResponse converts a profile to its response form.
func (p *Profile) ToResponse() ProfileResponse {
	return ProfileResponse{
		ID:           p.ID,
		Email:        p.Email,
		Name:         p.Name,
		Year:         p.Year,
		Department:   p.Department,
		Institution:  p.Institution,
		Availability: p.Availability,
		UpdatedAt:    p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
