// Package model provides team memberships and team requests.
package model

import (
	"fmt"
	"time"
)

// Request statuses.
const (
	StatusPending  = "PENDING"
	StatusAccepted = "ACCEPTED"
	StatusRejected = "REJECTED"
)

// Request types.
const (
	TypeJoinRequest   = "JOIN_REQUEST"
	TypeRatingRequest = "RATING_REQUEST"
)

// SystemRequester is the requester of every rating request.
const SystemRequester = "System"

// Payload carries the type-specific part of a request. It is implemented
// only by JoinInvite and RatingPrompt.
type Payload interface {
	requestType() string
}

// JoinInvite is an owner's invitation to join a project.
type JoinInvite struct{}

func (JoinInvite) requestType() string { return TypeJoinRequest }

// RatingPrompt asks the target to rate a teammate after project completion.
type RatingPrompt struct {
	RateeEmail string
	RateeName  string
}

func (RatingPrompt) requestType() string { return TypeRatingRequest }

// Request is a team request awaiting action by its target.
type Request struct {
	ID             int64
	ProjectID      int64
	ProjectTitle   string
	RequesterEmail string
	TargetEmail    string
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Payload        Payload
}

// Type returns the request discriminator.
func (r *Request) Type() string {
	if r.Payload == nil {
		return ""
	}
	return r.Payload.requestType()
}

// IsPending reports whether the request still awaits action.
func (r *Request) IsPending() bool {
	return r.Status == StatusPending
}

// RequestRow is the storage form of a request. Ratee columns are set only
// for rating requests.
type RequestRow struct {
	ID             int64     `gorm:"primaryKey;column:id"`
	ProjectID      int64     `gorm:"column:project_id;not null"`
	ProjectTitle   string    `gorm:"column:project_title;not null"`
	RequesterEmail string    `gorm:"column:requester_email;not null"`
	TargetEmail    string    `gorm:"column:target_email;not null"`
	Status         string    `gorm:"column:status;not null"`
	Type           string    `gorm:"column:type;not null"`
	RateeEmail     *string   `gorm:"column:ratee_email"`
	RateeName      *string   `gorm:"column:ratee_name"`
	CreatedAt      time.Time `gorm:"column:created_at;not null"`
	UpdatedAt      time.Time `gorm:"column:updated_at;not null"`
}

// TableName specifies the table name for GORM.
func (RequestRow) TableName() string {
	return "team_requests"
}

// Decode converts the row into a Request.
func (row *RequestRow) Decode() (*Request, error) {
	req := &Request{
		ID:             row.ID,
		ProjectID:      row.ProjectID,
		ProjectTitle:   row.ProjectTitle,
		RequesterEmail: row.RequesterEmail,
		TargetEmail:    row.TargetEmail,
		Status:         row.Status,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}

	switch row.Type {
	case TypeJoinRequest:
		req.Payload = JoinInvite{}
	case TypeRatingRequest:
		if row.RateeEmail == nil || *row.RateeEmail == "" {
			return nil, fmt.Errorf("%w: rating request %d has no ratee", ErrCorruptRequest, row.ID)
		}
		prompt := RatingPrompt{RateeEmail: *row.RateeEmail}
		if row.RateeName != nil {
			prompt.RateeName = *row.RateeName
		}
		req.Payload = prompt
	default:
		return nil, fmt.Errorf("%w: request %d has unknown type %q", ErrCorruptRequest, row.ID, row.Type)
	}
	return req, nil
}

// EncodeRequest converts a Request into its storage row.
func EncodeRequest(req *Request) (*RequestRow, error) {
	row := &RequestRow{
		ID:             req.ID,
		ProjectID:      req.ProjectID,
		ProjectTitle:   req.ProjectTitle,
		RequesterEmail: req.RequesterEmail,
		TargetEmail:    req.TargetEmail,
		Status:         req.Status,
		CreatedAt:      req.CreatedAt,
		UpdatedAt:      req.UpdatedAt,
	}

	switch p := req.Payload.(type) {
	case JoinInvite:
		row.Type = TypeJoinRequest
	case RatingPrompt:
		row.Type = TypeRatingRequest
		rateeEmail, rateeName := p.RateeEmail, p.RateeName
		row.RateeEmail = &rateeEmail
		row.RateeName = &rateeName
	default:
		return nil, fmt.Errorf("%w: request has no payload", ErrCorruptRequest)
	}
	return row, nil
}
