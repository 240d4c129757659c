package model

import (
	"strings"
	"time"
)

// Job is a single job posting. Postings are never physically deleted;
// deactivation flips IsActive and keeps the row for its owner.
//
// EligibleYears and LastDate are free text. EligibleYears is a comma
// separated list of experience bands such as "0-2, 2-5, 5+".
type Job struct {
	ID             int64     `json:"id" db:"id"`
	JobName        string    `json:"job_name" db:"job_name"`
	Company        string    `json:"company" db:"company"`
	JobDescription string    `json:"job_description" db:"job_description"`
	EligibleYears  string    `json:"eligible_years" db:"eligible_years"`
	Qualification  string    `json:"qualification" db:"qualification"`
	Link           string    `json:"link" db:"link"`
	Location       string    `json:"location" db:"location"`
	LastDate       string    `json:"last_date" db:"last_date"`
	AdminID        int64     `json:"-" db:"admin_id"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// JobInput carries the fields supplied when a posting is created.
type JobInput struct {
	JobName        string `json:"job_name"`
	Company        string `json:"company"`
	JobDescription string `json:"job_description"`
	EligibleYears  string `json:"eligible_years"`
	Qualification  string `json:"qualification"`
	Link           string `json:"link"`
	Location       string `json:"location"`
	LastDate       string `json:"last_date"`
}

// JobPatch is a partial update. Nil fields are left untouched.
type JobPatch struct {
	JobName        *string `json:"job_name,omitempty"`
	Company        *string `json:"company,omitempty"`
	JobDescription *string `json:"job_description,omitempty"`
	EligibleYears  *string `json:"eligible_years,omitempty"`
	Qualification  *string `json:"qualification,omitempty"`
	Link           *string `json:"link,omitempty"`
	Location       *string `json:"location,omitempty"`
	LastDate       *string `json:"last_date,omitempty"`
}

// FieldUpdate is one column assignment produced from a JobPatch.
type FieldUpdate struct {
	Column string
	Value  string
}

// Updates returns the column assignments for every field present in the
// patch, in a stable column order.
func (p JobPatch) Updates() []FieldUpdate {
	fields := []struct {
		column string
		value  *string
	}{
		{"job_name", p.JobName},
		{"company", p.Company},
		{"job_description", p.JobDescription},
		{"eligible_years", p.EligibleYears},
		{"qualification", p.Qualification},
		{"link", p.Link},
		{"location", p.Location},
		{"last_date", p.LastDate},
	}

	var out []FieldUpdate
	for _, f := range fields {
		if f.value != nil {
			out = append(out, FieldUpdate{Column: f.column, Value: *f.value})
		}
	}
	return out
}

// IsEmpty reports whether the patch sets no fields.
func (p JobPatch) IsEmpty() bool {
	return len(p.Updates()) == 0
}

// YearBands splits a raw eligible-years value on commas and trims each band.
// Empty bands are dropped.
func YearBands(eligibleYears string) []string {
	var bands []string
	for _, part := range strings.Split(eligibleYears, ",") {
		if b := strings.TrimSpace(part); b != "" {
			bands = append(bands, b)
		}
	}
	return bands
}

// SearchFilter holds the optional substring filters for a job search. Empty
// fields do not constrain the result.
type SearchFilter struct {
	Query    string
	Years    string
	Location string
}

// Page bounds a listing. A zero Limit means no limit.
type Page struct {
	Limit  int
	Offset int
}
