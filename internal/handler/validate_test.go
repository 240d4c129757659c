package handler

import (
	"strings"
	"testing"

	"github.com/manaworks/jobportal/internal/model"
)

func strPtr(s string) *string { return &s }

func TestValidateJobInput(t *testing.T) {
	tests := []struct {
		name    string
		in      model.JobInput
		wantErr string
	}{
		{"valid", model.JobInput{JobName: "Engineer", Company: "Acme"}, ""},
		{"missing name", model.JobInput{Company: "Acme"}, "job_name is required"},
		{"blank name", model.JobInput{JobName: "   ", Company: "Acme"}, "job_name is required"},
		{"missing company", model.JobInput{JobName: "Engineer"}, "company is required"},
		{"long location", model.JobInput{JobName: "E", Company: "A", Location: strings.Repeat("x", maxFieldLen+1)}, "location is too long"},
		{"long description", model.JobInput{JobName: "E", Company: "A", JobDescription: strings.Repeat("x", maxDescriptionLen+1)}, "job_description is too long"},
		{"description at limit", model.JobInput{JobName: "E", Company: "A", JobDescription: strings.Repeat("x", maxDescriptionLen)}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			err := validateJobInput(&in)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateJobInputStripsNUL(t *testing.T) {
	in := model.JobInput{JobName: "Eng\x00ineer", Company: "Acme\x00"}
	if err := validateJobInput(&in); err != nil {
		t.Fatalf("validateJobInput: %v", err)
	}
	if in.JobName != "Engineer" || in.Company != "Acme" {
		t.Errorf("got %q / %q", in.JobName, in.Company)
	}
}

func TestValidateJobPatch(t *testing.T) {
	tests := []struct {
		name    string
		patch   model.JobPatch
		wantErr bool
	}{
		{"empty patch", model.JobPatch{}, false},
		{"clear location", model.JobPatch{Location: strPtr("")}, false},
		{"blank name", model.JobPatch{JobName: strPtr(" ")}, true},
		{"blank company", model.JobPatch{Company: strPtr("")}, true},
		{"long link", model.JobPatch{Link: strPtr(strings.Repeat("x", maxFieldLen+1))}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.patch
			err := validateJobPatch(&p)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateJobPatch() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	p := model.JobPatch{Qualification: strPtr("B.Tech\x00")}
	if err := validateJobPatch(&p); err != nil {
		t.Fatalf("validateJobPatch: %v", err)
	}
	if *p.Qualification != "B.Tech" {
		t.Errorf("qualification = %q", *p.Qualification)
	}
}
