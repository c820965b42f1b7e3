package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Upgrades are additive: new columns
// arrive via ALTER TABLE with defaults, never via in-place rewrites.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		start_date   TEXT,
		status_date  TEXT,
		is_active    INTEGER NOT NULL DEFAULT 0,
		xml_template TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	// At most one project carries the active flag.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_active ON projects(is_active) WHERE is_active = 1`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id               TEXT PRIMARY KEY,
		project_id       TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		uid              TEXT NOT NULL DEFAULT '',
		name             TEXT NOT NULL DEFAULT '',
		outline_number   TEXT NOT NULL,
		outline_level    INTEGER NOT NULL DEFAULT 1,
		duration         TEXT NOT NULL DEFAULT 'PT0H0M0S',
		milestone        INTEGER NOT NULL DEFAULT 0,
		summary          INTEGER NOT NULL DEFAULT 0,
		percent_complete INTEGER NOT NULL DEFAULT 0,
		start_date       TEXT,
		finish_date      TEXT,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_outline ON tasks(project_id, outline_number)`,

	`CREATE TABLE IF NOT EXISTS predecessors (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id        TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		project_id     TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		outline_number TEXT NOT NULL,
		type           INTEGER NOT NULL DEFAULT 1
		               CHECK(type IN (0, 1, 2, 3)),
		lag            INTEGER NOT NULL DEFAULT 0,
		lag_format     INTEGER NOT NULL DEFAULT 7
	)`,

	`CREATE INDEX IF NOT EXISTS idx_predecessors_task ON predecessors(task_id)`,
	`CREATE INDEX IF NOT EXISTS idx_predecessors_project ON predecessors(project_id)`,

	// Custom value field carried from the source document's extended attributes.
	`ALTER TABLE tasks ADD COLUMN value TEXT NOT NULL DEFAULT ''`,

	// Actuals: recorded progress fields added after the initial schema.
	`ALTER TABLE tasks ADD COLUMN actual_start TEXT`,
	`ALTER TABLE tasks ADD COLUMN actual_finish TEXT`,
	`ALTER TABLE tasks ADD COLUMN actual_duration TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE tasks ADD COLUMN create_date TEXT`,

	// Links are identified within their task by (predecessor outline, type);
	// the store rejects a second row with the same identity.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_predecessors_identity
		ON predecessors(task_id, outline_number, type)`,
}
