// Package model provides the profile entity and its transfer objects.
package model

import (
	"strings"
	"time"
)

// Profile is a registered user. Email is unique case-insensitively.
type Profile struct {
	ID           int64     `gorm:"primaryKey;column:id"        json:"id"`
	Email        string    `gorm:"column:email;not null"       json:"email"`
	Name         string    `gorm:"column:name;not null"        json:"name"`
	Year         string    `gorm:"column:year"                 json:"year"`
	Department   string    `gorm:"column:department"           json:"department"`
	Institution  string    `gorm:"column:institution"          json:"institution"`
	Availability string    `gorm:"column:availability"         json:"availability"`
	CreatedAt    time.Time `gorm:"column:created_at;not null"  json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null"  json:"updatedAt"`
}

// TableName specifies the table name for GORM.
func (Profile) TableName() string {
	return "profiles"
}

// NormalizeEmail is the canonical form used for lookups and cache keys.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
