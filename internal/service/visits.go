package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/manaworks/jobportal/internal/model"
)

// VisitStore is the subset of the store the visit ledger needs.
type VisitStore interface {
	CreateVisit(ctx context.Context, visit *model.Visit) error
	CountVisits(ctx context.Context) (int64, error)
	CountUniqueVisitors(ctx context.Context) (int64, error)
	CountJobViews(ctx context.Context, jobID int64) (int64, error)
	CountActiveJobs(ctx context.Context) (int64, error)
}

// VisitLedger records inbound requests for analytics.
type VisitLedger struct {
	store  VisitStore
	logger *slog.Logger
}

func NewVisitLedger(st VisitStore, logger *slog.Logger) *VisitLedger {
	if logger == nil {
		logger = slog.Default()
	}
	return &VisitLedger{store: st, logger: logger}
}

// Record appends a visit. Failures are logged and otherwise ignored so the
// request being recorded always proceeds.
func (l *VisitLedger) Record(ctx context.Context, ip, userAgent string, jobID *int64) {
	visit := &model.Visit{IPAddress: ip, UserAgent: userAgent, JobID: jobID}
	if err := l.store.CreateVisit(ctx, visit); err != nil {
		l.logger.Warn("visit not recorded", "ip", ip, "error", err)
	}
}

// Stats returns site-wide visit totals and the number of active postings.
func (l *VisitLedger) Stats(ctx context.Context) (*model.VisitStats, error) {
	total, err := l.store.CountVisits(ctx)
	if err != nil {
		return nil, err
	}
	unique, err := l.store.CountUniqueVisitors(ctx)
	if err != nil {
		return nil, err
	}
	jobs, err := l.store.CountActiveJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}
	return &model.VisitStats{TotalVisits: total, UniqueVisitors: unique, TotalJobs: jobs}, nil
}

// ViewsForJob returns how many visits were tagged with jobID. Unknown ids
// report zero views.
func (l *VisitLedger) ViewsForJob(ctx context.Context, jobID int64) (*model.JobViews, error) {
	n, err := l.store.CountJobViews(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return &model.JobViews{JobID: jobID, Views: n}, nil
}
