package model

import "time"

// Membership is a confirmed project/member pair. The project owner never has one.
type Membership struct {
	ID          int64     `gorm:"primaryKey;column:id"`
	ProjectID   int64     `gorm:"column:project_id;not null"`
	MemberEmail string    `gorm:"column:member_email;not null"`
	JoinedAt    time.Time `gorm:"column:joined_at;not null;autoCreateTime"`
}

// TableName specifies the table name for GORM.
func (Membership) TableName() string {
	return "project_teammates"
}

// Teammate is a membership joined with the member's profile. ProfileID and
// Name are nil when the profile could not be resolved.
type Teammate struct {
	ProfileID    *int64
	Email        string
	Name         *string
	JoinedAt     time.Time
	Year         string
	Department   string
	Institution  string
	Availability string
}
