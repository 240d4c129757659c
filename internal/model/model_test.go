package model

import (
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestJobPatchUpdates(t *testing.T) {
	p := JobPatch{
		Location: strPtr("Remote"),
		JobName:  strPtr("Backend Engineer"),
		LastDate: strPtr(""),
	}

	got := p.Updates()
	want := []FieldUpdate{
		{Column: "job_name", Value: "Backend Engineer"},
		{Column: "location", Value: "Remote"},
		{Column: "last_date", Value: ""},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Updates() = %+v, want %+v", got, want)
	}
	if p.IsEmpty() {
		t.Error("expected non-empty patch")
	}
}

func TestJobPatchEmpty(t *testing.T) {
	var p JobPatch
	if !p.IsEmpty() {
		t.Error("zero patch should be empty")
	}
	if got := p.Updates(); len(got) != 0 {
		t.Errorf("Updates() = %+v, want none", got)
	}
}

func TestYearBands(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"single", "0-2", []string{"0-2"}},
		{"spaced", "0-2, 2-5 ,5+", []string{"0-2", "2-5", "5+"}},
		{"empty", "", nil},
		{"trailing comma", "1-3,", []string{"1-3"}},
		{"only separators", " , ,", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := YearBands(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("YearBands(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
