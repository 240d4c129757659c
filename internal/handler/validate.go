package handler

import (
	"fmt"
	"strings"

	"github.com/manaworks/jobportal/internal/model"
)

const (
	maxFieldLen       = 1024
	maxDescriptionLen = 65535
)

// sanitizeString removes NUL bytes and enforces a maximum length.
func sanitizeString(field, val string, maxLen int) (string, error) {
	val = strings.ReplaceAll(val, "\x00", "")
	if len(val) > maxLen {
		return "", fmt.Errorf("%s is too long (max %d chars)", field, maxLen)
	}
	return val, nil
}

type jobField struct {
	name   string
	value  *string
	maxLen int
}

func inputFields(in *model.JobInput) []jobField {
	return []jobField{
		{"job_name", &in.JobName, maxFieldLen},
		{"company", &in.Company, maxFieldLen},
		{"job_description", &in.JobDescription, maxDescriptionLen},
		{"eligible_years", &in.EligibleYears, maxFieldLen},
		{"qualification", &in.Qualification, maxFieldLen},
		{"link", &in.Link, maxFieldLen},
		{"location", &in.Location, maxFieldLen},
		{"last_date", &in.LastDate, maxFieldLen},
	}
}

// validateJobInput sanitizes in place and requires a name and company.
func validateJobInput(in *model.JobInput) error {
	for _, f := range inputFields(in) {
		clean, err := sanitizeString(f.name, *f.value, f.maxLen)
		if err != nil {
			return err
		}
		*f.value = clean
	}
	if strings.TrimSpace(in.JobName) == "" {
		return fmt.Errorf("job_name is required")
	}
	if strings.TrimSpace(in.Company) == "" {
		return fmt.Errorf("company is required")
	}
	return nil
}

// validateJobPatch sanitizes every field present in the patch. Present
// fields may be set to empty strings, except job_name and company.
func validateJobPatch(p *model.JobPatch) error {
	fields := []jobField{
		{"job_name", p.JobName, maxFieldLen},
		{"company", p.Company, maxFieldLen},
		{"job_description", p.JobDescription, maxDescriptionLen},
		{"eligible_years", p.EligibleYears, maxFieldLen},
		{"qualification", p.Qualification, maxFieldLen},
		{"link", p.Link, maxFieldLen},
		{"location", p.Location, maxFieldLen},
		{"last_date", p.LastDate, maxFieldLen},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		clean, err := sanitizeString(f.name, *f.value, f.maxLen)
		if err != nil {
			return err
		}
		*f.value = clean
	}
	if p.JobName != nil && strings.TrimSpace(*p.JobName) == "" {
		return fmt.Errorf("job_name cannot be empty")
	}
	if p.Company != nil && strings.TrimSpace(*p.Company) == "" {
		return fmt.Errorf("company cannot be empty")
	}
	return nil
}
