// Package model provides the project entity and its transfer objects.
package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Project statuses. A project only moves from ACTIVE to COMPLETED.
const (
	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"
)

// Project visibilities.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Project represents a project record. OwnerEmail never changes after creation.
type Project struct {
	ID                    int64      `gorm:"primaryKey;column:id"`
	Title                 string     `gorm:"column:title;not null"`
	Type                  string     `gorm:"column:type;not null"`
	Visibility            string     `gorm:"column:visibility;not null"`
	RequiredSkills        StringList `gorm:"column:required_skills;type:text"`
	PreferredTechnologies StringList `gorm:"column:preferred_technologies;type:text"`
	Domains               StringList `gorm:"column:domains;type:text"`
	Description           string     `gorm:"column:description"`
	GithubRepo            string     `gorm:"column:github_repo"`
	OwnerEmail            string     `gorm:"column:owner_email;not null;<-:create"`
	Status                string     `gorm:"column:status;not null"`
	CreatedAt             time.Time  `gorm:"column:created_at;not null"`
}

// TableName specifies the table name for GORM.
func (Project) TableName() string {
	return "projects"
}

// IsCompleted reports whether the project has been completed.
func (p *Project) IsCompleted() bool {
	return p.Status == StatusCompleted
}

// IsOwner reports whether email is the project owner. The comparison is exact.
func (p *Project) IsOwner(email string) bool {
	return p.OwnerEmail == email
}

// StringList is an ordered list stored as comma-delimited text.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	return strings.Join(l, ","), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
	*l = SplitList(raw)
	return nil
}

// SplitList parses comma-delimited text, dropping blank items.
func SplitList(raw string) StringList {
	list := StringList{}
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}

// NormalizeList trims items, splits items that contain commas and drops
// blanks and case-insensitive duplicates, keeping first occurrences in order.
func NormalizeList(items []string) StringList {
	seen := make(map[string]struct{}, len(items))
	list := StringList{}
	for _, item := range items {
		for _, part := range SplitList(item) {
			key := strings.ToLower(part)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			list = append(list, part)
		}
	}
	return list
}
