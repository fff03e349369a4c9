package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"jobboard/internal/domain"
	"jobboard/internal/service"
)

func TestPrefill(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	company := s.company(t, "acme@test.com", "Acme")
	cand := s.candidate(t, "cand@test.com", domain.EducationTechnologist)
	job := s.job(t, company, "Engineer", domain.SalaryBandAbove3K, domain.EducationUndergraduate)

	in, err := s.applications.Prefill(ctx, job.ID, cand.Candidate)
	if err != nil {
		t.Fatalf("Prefill: %v", err)
	}
	if in.LastEducation != domain.EducationTechnologist || in.Experience != "Five years in logistics" {
		t.Fatalf("expected profile values, got %+v", in)
	}

	if _, err := s.applications.Prefill(ctx, job.ID+100, cand.Candidate); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing job, got %v", err)
	}
}

func TestApply(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	company := s.company(t, "acme@test.com", "Acme")
	cand := s.candidate(t, "cand@test.com", domain.EducationHighSchool)
	job := s.job(t, company, "Engineer", domain.SalaryBandAbove3K, domain.EducationUndergraduate)

	app, err := s.applications.Apply(ctx, job.ID, cand.Candidate, service.ApplicationInput{
		SalaryExpectation: decimal.RequireFromString("4000.50"),
		LastEducation:     domain.EducationPostgraduate,
		Experience:        "  edited  ",
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if app.ID == 0 {
		t.Fatalf("expected id")
	}
	if app.Score != domain.MaxScore {
		t.Fatalf("expected max score from edited education, got %d", app.Score)
	}
	if app.CandidateExperience != "edited" {
		t.Fatalf("expected trimmed experience, got %q", app.CandidateExperience)
	}

	_, err = s.applications.Apply(ctx, job.ID, cand.Candidate, service.ApplicationInput{
		SalaryExpectation: decimal.RequireFromString("4000"),
		LastEducation:     domain.EducationPostgraduate,
	})
	if !errors.Is(err, domain.ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
	if _, err := s.applications.Prefill(ctx, job.ID, cand.Candidate); !errors.Is(err, domain.ErrAlreadyApplied) {
		t.Fatalf("expected Prefill to report ErrAlreadyApplied, got %v", err)
	}
}

func TestApply_Validation(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	company := s.company(t, "acme@test.com", "Acme")
	cand := s.candidate(t, "cand@test.com", domain.EducationHighSchool)
	job := s.job(t, company, "Engineer", domain.SalaryBandAbove3K, domain.EducationUndergraduate)

	cases := []struct {
		name      string
		salary    string
		education domain.Education
		field     string
	}{
		{"negative salary", "-1", domain.EducationHighSchool, "salary_expectation"},
		{"too many decimals", "10.123", domain.EducationHighSchool, "salary_expectation"},
		{"too many digits", "100000000", domain.EducationHighSchool, "salary_expectation"},
		{"bad education", "100", 0, "candidate_last_education"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.applications.Apply(ctx, job.ID, cand.Candidate, service.ApplicationInput{
				SalaryExpectation: decimal.RequireFromString(tc.salary),
				LastEducation:     tc.education,
			})
			if v := fieldErrors(t, err); !v.Has(tc.field) {
				t.Fatalf("expected error on %s, got %v", tc.field, v.Fields)
			}
		})
	}

	if _, err := s.applications.Apply(ctx, job.ID, cand.Candidate, service.ApplicationInput{
		SalaryExpectation: decimal.RequireFromString("99999999.99"),
		LastEducation:     domain.EducationHighSchool,
	}); err != nil {
		t.Fatalf("largest salary should be accepted: %v", err)
	}
}
