package store

import (
	"context"
	"fmt"

	"github.com/manaworks/jobportal/internal/model"
)

// CreateVisit appends a visit record. VisitedAt defaults to now.
func (s *Store) CreateVisit(ctx context.Context, visit *model.Visit) error {
	if visit.VisitedAt.IsZero() {
		visit.VisitedAt = s.timestamp()
	}

	const q = `INSERT INTO user_visits (ip_address, user_agent, visited_at, job_id)
		VALUES (:ip_address, :user_agent, :visited_at, :job_id)`

	id, err := s.insert(ctx, s.db, q, visit)
	if err != nil {
		return fmt.Errorf("insert visit: %w", err)
	}
	visit.ID = id
	return nil
}

// CountVisits returns the total number of visit records.
func (s *Store) CountVisits(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM user_visits"); err != nil {
		return 0, fmt.Errorf("count visits: %w", err)
	}
	return n, nil
}

// CountUniqueVisitors returns the number of distinct IP addresses seen.
func (s *Store) CountUniqueVisitors(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(DISTINCT ip_address) FROM user_visits"); err != nil {
		return 0, fmt.Errorf("count unique visitors: %w", err)
	}
	return n, nil
}

// CountJobViews returns the number of visit records tagged with jobID.
func (s *Store) CountJobViews(ctx context.Context, jobID int64) (int64, error) {
	var n int64
	q := s.db.Rebind("SELECT COUNT(*) FROM user_visits WHERE job_id = ?")
	if err := s.db.GetContext(ctx, &n, q, jobID); err != nil {
		return 0, fmt.Errorf("count job views: %w", err)
	}
	return n, nil
}
