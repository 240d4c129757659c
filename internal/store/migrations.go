package store

import (
	"fmt"
	"strings"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS admins (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS jobs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_name TEXT NOT NULL DEFAULT '',
		company TEXT NOT NULL DEFAULT '',
		job_description TEXT NOT NULL DEFAULT '',
		eligible_years TEXT NOT NULL DEFAULT '',
		qualification TEXT NOT NULL DEFAULT '',
		link TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		last_date TEXT NOT NULL DEFAULT '',
		admin_id INTEGER NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS user_visits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ip_address TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT '',
		visited_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		job_id INTEGER
	)`,

	`CREATE INDEX IF NOT EXISTS idx_jobs_active_created ON jobs(is_active, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_admin_id ON jobs(admin_id)`,
	`CREATE INDEX IF NOT EXISTS idx_user_visits_job_id ON user_visits(job_id)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS admins (
		id BIGSERIAL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS jobs (
		id BIGSERIAL PRIMARY KEY,
		job_name TEXT NOT NULL DEFAULT '',
		company TEXT NOT NULL DEFAULT '',
		job_description TEXT NOT NULL DEFAULT '',
		eligible_years TEXT NOT NULL DEFAULT '',
		qualification TEXT NOT NULL DEFAULT '',
		link TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		last_date TEXT NOT NULL DEFAULT '',
		admin_id BIGINT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS user_visits (
		id BIGSERIAL PRIMARY KEY,
		ip_address TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT '',
		visited_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		job_id BIGINT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_jobs_active_created ON jobs(is_active, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_admin_id ON jobs(admin_id)`,
	`CREATE INDEX IF NOT EXISTS idx_user_visits_job_id ON user_visits(job_id)`,
}

// MySQL cannot put DEFAULT on TEXT columns before 8.0.13, and CREATE INDEX
// has no IF NOT EXISTS, so indexes are declared inline.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS admins (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(255) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
	)`,

	`CREATE TABLE IF NOT EXISTS jobs (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		job_name VARCHAR(1024) NOT NULL DEFAULT '',
		company VARCHAR(1024) NOT NULL DEFAULT '',
		job_description TEXT NOT NULL,
		eligible_years VARCHAR(1024) NOT NULL DEFAULT '',
		qualification VARCHAR(1024) NOT NULL DEFAULT '',
		link VARCHAR(1024) NOT NULL DEFAULT '',
		location VARCHAR(1024) NOT NULL DEFAULT '',
		last_date VARCHAR(1024) NOT NULL DEFAULT '',
		admin_id BIGINT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		updated_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		INDEX idx_jobs_active_created (is_active, created_at),
		INDEX idx_jobs_admin_id (admin_id)
	)`,

	`CREATE TABLE IF NOT EXISTS user_visits (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		ip_address VARCHAR(255) NOT NULL DEFAULT '',
		user_agent VARCHAR(1024) NOT NULL DEFAULT '',
		visited_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		job_id BIGINT NULL,
		INDEX idx_user_visits_job_id (job_id)
	)`,
}

func (s *Store) migrate() error {
	for _, m := range s.dialect.schema {
		if _, err := s.db.Exec(m); err != nil {
			// Re-running an index migration against an existing index is a no-op.
			if strings.Contains(err.Error(), "already exists") {
				continue
			}
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}
