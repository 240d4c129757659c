package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/manaworks/jobportal/internal/model"
)

const jobOrder = " ORDER BY created_at DESC, id DESC"

// likeEscaper escapes LIKE metacharacters so user input matches literally.
// '!' is used as the escape character because it needs no quoting in any of
// the supported dialects.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// likeClause is a case-insensitive substring match on column.
func likeClause(column string) string {
	return "LOWER(" + column + ") LIKE LOWER(?) ESCAPE '!'"
}

// CreateJob inserts a new active posting and reloads it so the caller sees
// exactly what was stored. ID and timestamps are populated on job.
func (s *Store) CreateJob(ctx context.Context, job *model.Job) error {
	now := s.timestamp()
	job.CreatedAt = now
	job.UpdatedAt = now
	job.IsActive = true

	const q = `INSERT INTO jobs
		(job_name, company, job_description, eligible_years, qualification, link, location, last_date,
		 admin_id, is_active, created_at, updated_at)
		VALUES
		(:job_name, :company, :job_description, :eligible_years, :qualification, :link, :location, :last_date,
		 :admin_id, :is_active, :created_at, :updated_at)`

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		id, err := s.insert(ctx, tx, q, job)
		if err != nil {
			return fmt.Errorf("insert job: %w", err)
		}
		stored, err := getJob(ctx, tx, "id = ?", id)
		if err != nil {
			return fmt.Errorf("reload job: %w", err)
		}
		*job = *stored
		return nil
	})
}

// GetJob returns a posting by ID regardless of its active flag.
func (s *Store) GetJob(ctx context.Context, id int64) (*model.Job, error) {
	return getJob(ctx, s.db, "id = ?", id)
}

// GetActiveJob returns a posting by ID only if it is active.
func (s *Store) GetActiveJob(ctx context.Context, id int64) (*model.Job, error) {
	return getJob(ctx, s.db, "id = ? AND is_active = ?", id, true)
}

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryer interface {
	sqlx.QueryerContext
	Rebind(string) string
}

func getJob(ctx context.Context, q queryer, where string, args ...interface{}) (*model.Job, error) {
	var job model.Job
	query := q.Rebind("SELECT * FROM jobs WHERE " + where)
	if err := sqlx.GetContext(ctx, q, &job, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return &job, nil
}

// ListActiveJobs returns active postings, most recent first.
func (s *Store) ListActiveJobs(ctx context.Context, page model.Page) ([]model.Job, error) {
	return s.SearchJobs(ctx, model.SearchFilter{}, page)
}

// SearchJobs returns active postings matching every non-empty filter, most
// recent first. All filters are case-insensitive substring matches; years is
// matched against the raw eligible_years text.
func (s *Store) SearchJobs(ctx context.Context, filter model.SearchFilter, page model.Page) ([]model.Job, error) {
	query, args := buildSearch(filter, page)

	jobs := []model.Job{}
	if err := s.db.SelectContext(ctx, &jobs, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("search jobs: %w", err)
	}
	return jobs, nil
}

// buildSearch renders the search query with '?' placeholders.
func buildSearch(filter model.SearchFilter, page model.Page) (string, []interface{}) {
	conds := []string{"is_active = ?"}
	args := []interface{}{true}

	if filter.Query != "" {
		p := containsPattern(filter.Query)
		conds = append(conds, "("+likeClause("job_name")+" OR "+likeClause("company")+" OR "+likeClause("job_description")+")")
		args = append(args, p, p, p)
	}
	if filter.Years != "" {
		conds = append(conds, likeClause("eligible_years"))
		args = append(args, containsPattern(filter.Years))
	}
	if filter.Location != "" {
		conds = append(conds, likeClause("location"))
		args = append(args, containsPattern(filter.Location))
	}

	query := "SELECT * FROM jobs WHERE " + strings.Join(conds, " AND ") + jobOrder
	if page.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, page.Limit, max(page.Offset, 0))
	}
	return query, args
}

// UpdateJob applies patch to the posting with the given id owned by adminID
// and refreshes updated_at. An empty patch writes nothing and returns the
// posting unchanged. Inactive postings are still updatable by their
// owner. A missing posting and one owned by another admin both yield
// ErrNotFound.
func (s *Store) UpdateJob(ctx context.Context, id, adminID int64, patch model.JobPatch) (*model.Job, error) {
	var updated *model.Job

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		current, err := getJob(ctx, tx, "id = ? AND admin_id = ?", id, adminID)
		if err != nil {
			return err
		}
		if patch.IsEmpty() {
			updated = current
			return nil
		}

		sets := []string{"updated_at = ?"}
		args := []interface{}{s.timestamp()}
		for _, u := range patch.Updates() {
			sets = append(sets, u.Column+" = ?")
			args = append(args, u.Value)
		}
		args = append(args, id, adminID)

		q := tx.Rebind("UPDATE jobs SET " + strings.Join(sets, ", ") + " WHERE id = ? AND admin_id = ?")
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("update job: %w", err)
		}

		job, err := getJob(ctx, tx, "id = ?", id)
		if err != nil {
			return fmt.Errorf("reload job: %w", err)
		}
		updated = job
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeactivateJob marks the posting owned by adminID as inactive. The row is
// retained. Ownership is checked exactly as in UpdateJob.
func (s *Store) DeactivateJob(ctx context.Context, id, adminID int64) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := getJob(ctx, tx, "id = ? AND admin_id = ?", id, adminID); err != nil {
			return err
		}
		q := tx.Rebind("UPDATE jobs SET is_active = ?, updated_at = ? WHERE id = ? AND admin_id = ?")
		if _, err := tx.ExecContext(ctx, q, false, s.timestamp(), id, adminID); err != nil {
			return fmt.Errorf("deactivate job: %w", err)
		}
		return nil
	})
}

// ActiveEligibleYears returns the raw eligible_years text of every active
// posting.
func (s *Store) ActiveEligibleYears(ctx context.Context) ([]string, error) {
	var values []string
	q := s.db.Rebind("SELECT eligible_years FROM jobs WHERE is_active = ? AND eligible_years IS NOT NULL")
	if err := s.db.SelectContext(ctx, &values, q, true); err != nil {
		return nil, fmt.Errorf("list eligible years: %w", err)
	}
	return values, nil
}

// ActiveLocations returns the distinct non-empty locations of active
// postings in the order the database yields them.
func (s *Store) ActiveLocations(ctx context.Context) ([]string, error) {
	var values []string
	q := s.db.Rebind("SELECT DISTINCT location FROM jobs WHERE is_active = ? AND location IS NOT NULL AND location <> ''")
	if err := s.db.SelectContext(ctx, &values, q, true); err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return values, nil
}

// CountActiveJobs returns the number of active postings.
func (s *Store) CountActiveJobs(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, s.db.Rebind("SELECT COUNT(*) FROM jobs WHERE is_active = ?"), true); err != nil {
		return 0, fmt.Errorf("count active jobs: %w", err)
	}
	return n, nil
}
