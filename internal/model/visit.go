package model

import "time"

// Visit is one analytics record for an inbound request. JobID is set when
// the request targeted a specific posting.
type Visit struct {
	ID        int64     `json:"id" db:"id"`
	IPAddress string    `json:"ip_address" db:"ip_address"`
	UserAgent string    `json:"user_agent" db:"user_agent"`
	VisitedAt time.Time `json:"visited_at" db:"visited_at"`
	JobID     *int64    `json:"job_id,omitempty" db:"job_id"`
}

// VisitStats is the site-wide summary returned by /api/stats.
type VisitStats struct {
	TotalVisits    int64 `json:"total_visits"`
	UniqueVisitors int64 `json:"unique_visitors"`
	TotalJobs      int64 `json:"total_jobs"`
}

// JobViews is the per-posting view count.
type JobViews struct {
	JobID int64 `json:"job_id"`
	Views int64 `json:"views"`
}
