package service

import (
	"context"
	"errors"
	"sort"

	"github.com/manaworks/jobportal/internal/model"
	"github.com/manaworks/jobportal/internal/store"
)

// ErrNotFound is returned for postings that do not exist, are inactive
// where activity is required, or are owned by a different admin.
var ErrNotFound = errors.New("job not found")

// JobService implements the posting lifecycle on top of the store.
type JobService struct {
	store *store.Store
}

func NewJobService(st *store.Store) *JobService {
	return &JobService{store: st}
}

// Create stores a new active posting owned by adminID.
func (s *JobService) Create(ctx context.Context, adminID int64, in model.JobInput) (*model.Job, error) {
	job := &model.Job{
		JobName:        in.JobName,
		Company:        in.Company,
		JobDescription: in.JobDescription,
		EligibleYears:  in.EligibleYears,
		Qualification:  in.Qualification,
		Link:           in.Link,
		Location:       in.Location,
		LastDate:       in.LastDate,
		AdminID:        adminID,
	}
	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Get returns an active posting.
func (s *JobService) Get(ctx context.Context, id int64) (*model.Job, error) {
	job, err := s.store.GetActiveJob(ctx, id)
	return job, notFound(err)
}

// ListActive returns active postings, most recent first.
func (s *JobService) ListActive(ctx context.Context, page model.Page) ([]model.Job, error) {
	return s.store.ListActiveJobs(ctx, page)
}

// Search filters active postings. An empty filter is equivalent to ListActive.
func (s *JobService) Search(ctx context.Context, filter model.SearchFilter, page model.Page) ([]model.Job, error) {
	return s.store.SearchJobs(ctx, filter, page)
}

// Update applies patch to a posting owned by adminID, active or not.
func (s *JobService) Update(ctx context.Context, id, adminID int64, patch model.JobPatch) (*model.Job, error) {
	job, err := s.store.UpdateJob(ctx, id, adminID, patch)
	return job, notFound(err)
}

// Deactivate soft-deletes a posting owned by adminID.
func (s *JobService) Deactivate(ctx context.Context, id, adminID int64) error {
	return notFound(s.store.DeactivateJob(ctx, id, adminID))
}

// DistinctYears returns the sorted set of experience bands across active postings.
func (s *JobService) DistinctYears(ctx context.Context) ([]string, error) {
	raw, err := s.store.ActiveEligibleYears(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	years := []string{}
	for _, value := range raw {
		for _, band := range model.YearBands(value) {
			if _, ok := seen[band]; ok {
				continue
			}
			seen[band] = struct{}{}
			years = append(years, band)
		}
	}
	sort.Strings(years)
	return years, nil
}

// DistinctLocations returns the distinct non-empty locations of active postings.
func (s *JobService) DistinctLocations(ctx context.Context) ([]string, error) {
	locs, err := s.store.ActiveLocations(ctx)
	if err != nil {
		return nil, err
	}
	if locs == nil {
		locs = []string{}
	}
	return locs, nil
}

func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
