package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSalaryBandFits(t *testing.T) {
	tests := []struct {
		band   SalaryBand
		salary string
		want   bool
	}{
		{SalaryBandUpTo1K, "999.99", true},
		{SalaryBandUpTo1K, "1000.00", true},
		{SalaryBandUpTo1K, "1000.01", false},
		{SalaryBandFrom1KTo2K, "999.99", false},
		{SalaryBandFrom1KTo2K, "1000.00", true},
		{SalaryBandFrom1KTo2K, "1500.00", true},
		{SalaryBandFrom1KTo2K, "2000.00", true},
		{SalaryBandFrom1KTo2K, "2000.01", false},
		{SalaryBandFrom2KTo3K, "2000.00", true},
		{SalaryBandFrom2KTo3K, "2500.00", true},
		{SalaryBandFrom2KTo3K, "3000.00", true},
		{SalaryBandFrom2KTo3K, "3000.01", false},
		{SalaryBandAbove3K, "3000.00", false},
		{SalaryBandAbove3K, "3000.01", true},
		{SalaryBand(0), "500", false},
		{SalaryBand(9), "500", false},
	}

	for _, tc := range tests {
		t.Run(tc.band.String()+"/"+tc.salary, func(t *testing.T) {
			got := tc.band.Fits(decimal.RequireFromString(tc.salary))
			if got != tc.want {
				t.Fatalf("Fits(%s) = %v, want %v", tc.salary, got, tc.want)
			}
		})
	}
}

func TestScore(t *testing.T) {
	job := &Job{SalaryBand: SalaryBandFrom1KTo2K, MinEducation: EducationUndergraduate}

	tests := []struct {
		name      string
		salary    string
		education Education
		want      int
	}{
		{"both match", "1500.00", EducationUndergraduate, 2},
		{"education only", "500.00", EducationUndergraduate, 1},
		{"salary only", "1500.00", EducationHighSchool, 1},
		{"neither", "500.00", EducationHighSchool, 0},
		{"education above minimum", "1999.99", EducationDoctorate, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := &Application{
				SalaryExpectation:      decimal.RequireFromString(tc.salary),
				CandidateLastEducation: tc.education,
				Score:                  99,
			}
			app.Rescore(job)
			if app.Score != tc.want {
				t.Fatalf("score = %d, want %d", app.Score, tc.want)
			}
		})
	}
}

func TestParseEducation(t *testing.T) {
	e, err := ParseEducation(" 4 ")
	if err != nil {
		t.Fatalf("ParseEducation: %v", err)
	}
	if e != EducationUndergraduate {
		t.Fatalf("got %v, want %v", e, EducationUndergraduate)
	}

	for _, bad := range []string{"", "0", "7", "superior"} {
		if _, err := ParseEducation(bad); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("ParseEducation(%q): expected ErrInvalidInput, got %v", bad, err)
		}
	}
}

func TestValidationError(t *testing.T) {
	v := NewValidationError()
	if v.OrNil() != nil {
		t.Fatal("expected nil for empty validation error")
	}

	v.Add("password", "too short")
	v.Add("email", "required")
	err := v.OrNil()
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if got, want := err.Error(), "invalid input: email: required, password: too short"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}

	var ve *ValidationError
	if !errors.As(err, &ve) || !ve.Has("password") {
		t.Fatal("expected password field error")
	}
}

func TestNewChartSeries(t *testing.T) {
	series := NewChartSeries("Jobs per month", []MonthCount{{Month: "2025-01", Count: 2}, {Month: "2025-02", Count: 1}})
	if len(series.Labels) != 2 || series.Labels[0] != "2025-01" || series.Labels[1] != "2025-02" {
		t.Fatalf("unexpected labels %v", series.Labels)
	}
	if len(series.Datasets) != 1 || series.Datasets[0].Label != "Jobs per month" {
		t.Fatalf("unexpected datasets %+v", series.Datasets)
	}
	if d := series.Datasets[0].Data; d[0] != 2 || d[1] != 1 {
		t.Fatalf("unexpected data %v", d)
	}

	empty := NewChartSeries("x", nil)
	if empty.Labels == nil || empty.Datasets[0].Data == nil {
		t.Fatal("expected non-nil slices so JSON encodes []")
	}
}
