// Package dbtest opens throwaway SQLite databases carrying the service schema.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/festy23/converge/internal/database/database"
)

// schema mirrors migrations/ in SQLite dialect, including the expression
// and partial unique indexes the services rely on.
var schema = []string{
	`CREATE TABLE profiles (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		email        TEXT NOT NULL,
		name         TEXT NOT NULL,
		year         TEXT NOT NULL DEFAULT '',
		department   TEXT NOT NULL DEFAULT '',
		institution  TEXT NOT NULL DEFAULT '',
		availability TEXT NOT NULL DEFAULT '',
		created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE UNIQUE INDEX uq_profiles_email ON profiles (lower(email))`,
	`CREATE TABLE projects (
		id                     INTEGER PRIMARY KEY AUTOINCREMENT,
		title                  TEXT NOT NULL,
		type                   TEXT NOT NULL,
		visibility             TEXT NOT NULL CHECK (visibility IN ('public', 'private')),
		required_skills        TEXT NOT NULL DEFAULT '',
		preferred_technologies TEXT NOT NULL DEFAULT '',
		domains                TEXT NOT NULL DEFAULT '',
		description            TEXT NOT NULL DEFAULT '',
		github_repo            TEXT NOT NULL DEFAULT '',
		owner_email            TEXT NOT NULL,
		status                 TEXT NOT NULL DEFAULT 'ACTIVE' CHECK (status IN ('ACTIVE', 'COMPLETED')),
		created_at             DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE project_teammates (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id   INTEGER NOT NULL REFERENCES projects (id) ON DELETE CASCADE,
		member_email TEXT NOT NULL,
		joined_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE UNIQUE INDEX uq_project_teammates_member ON project_teammates (project_id, lower(member_email))`,
	`CREATE TABLE team_requests (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id      INTEGER NOT NULL REFERENCES projects (id) ON DELETE CASCADE,
		project_title   TEXT NOT NULL,
		requester_email TEXT NOT NULL,
		target_email    TEXT NOT NULL,
		status          TEXT NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING', 'ACCEPTED', 'REJECTED')),
		type            TEXT NOT NULL CHECK (type IN ('JOIN_REQUEST', 'RATING_REQUEST')),
		ratee_email     TEXT,
		ratee_name      TEXT,
		created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE UNIQUE INDEX uq_team_requests_pending_join
		ON team_requests (project_id, lower(target_email))
		WHERE status = 'PENDING' AND type = 'JOIN_REQUEST'`,
	`CREATE UNIQUE INDEX uq_team_requests_pending_rating
		ON team_requests (project_id, lower(target_email), lower(ratee_email))
		WHERE status = 'PENDING' AND type = 'RATING_REQUEST'`,
}

// New returns a file-backed SQLite database in the test's temp dir with the
// full schema applied. WAL mode lets reads proceed while a transaction is open.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "converge.db") +
		"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig(zap.NewNop().Sugar()))
	require.NoError(t, err)

	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}
