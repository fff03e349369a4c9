package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"jobboard/internal/domain"
)

func TestApplicationRepository_ScoreComputedOnCreate(t *testing.T) {
	s := newTestStore(t)

	company := s.company(t, "empresa@teste.com", "Empresa Teste")
	job := s.job(t, company.ID, "Vaga de Teste", domain.SalaryBandFrom1KTo2K, domain.EducationUndergraduate, zeroTime)

	tests := []struct {
		email     string
		salary    string
		education domain.Education
		want      int
	}{
		{"perfect@teste.com", "1500.00", domain.EducationUndergraduate, 2},
		{"education@teste.com", "500.00", domain.EducationUndergraduate, 1},
		{"salary@teste.com", "1500.00", domain.EducationHighSchool, 1},
		{"none@teste.com", "500.00", domain.EducationHighSchool, 0},
	}
	for _, tc := range tests {
		t.Run(tc.email, func(t *testing.T) {
			candidate := s.candidate(t, tc.email, tc.education)
			app := s.apply(t, job.ID, candidate.ID, tc.salary, tc.education, zeroTime)
			if app.Score != tc.want {
				t.Fatalf("score = %d, want %d", app.Score, tc.want)
			}

			stored, err := s.applications.Get(context.Background(), app.ID)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if stored.Score != tc.want {
				t.Fatalf("stored score = %d, want %d", stored.Score, tc.want)
			}
			if !stored.SalaryExpectation.Equal(decimal.RequireFromString(tc.salary)) {
				t.Fatalf("salary = %s, want %s", stored.SalaryExpectation, tc.salary)
			}
			if stored.CandidateEmail != tc.email {
				t.Fatalf("email = %q, want %q", stored.CandidateEmail, tc.email)
			}
		})
	}
}

func TestApplicationRepository_IgnoresCallerScore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	company := s.company(t, "empresa@teste.com", "Empresa")
	job := s.job(t, company.ID, "Vaga", domain.SalaryBandAbove3K, domain.EducationDoctorate, zeroTime)
	candidate := s.candidate(t, "c@teste.com", domain.EducationFundamental)

	app := &domain.Application{
		JobID:                  job.ID,
		CandidateID:            candidate.ID,
		SalaryExpectation:      decimal.NewFromInt(100),
		CandidateLastEducation: domain.EducationFundamental,
		Score:                  2,
	}
	if _, err := s.applications.Create(ctx, app); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if app.Score != 0 {
		t.Fatalf("expected score 0, got %d", app.Score)
	}
}

func TestApplicationRepository_DuplicatePair(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	company := s.company(t, "empresa@teste.com", "Empresa")
	job := s.job(t, company.ID, "Vaga", domain.SalaryBandUpTo1K, domain.EducationFundamental, zeroTime)
	candidate := s.candidate(t, "c@teste.com", domain.EducationHighSchool)
	s.apply(t, job.ID, candidate.ID, "500", domain.EducationHighSchool, zeroTime)

	_, err := s.applications.Create(ctx, &domain.Application{
		JobID:                  job.ID,
		CandidateID:            candidate.ID,
		SalaryExpectation:      decimal.NewFromInt(600),
		CandidateLastEducation: domain.EducationHighSchool,
	})
	if !errors.Is(err, domain.ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}

	exists, err := s.applications.Exists(ctx, job.ID, candidate.ID)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Fatal("expected application to exist")
	}
	exists, err = s.applications.Exists(ctx, job.ID, candidate.ID+1)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Fatal("expected no application for other candidate")
	}
}

func TestApplicationRepository_UnknownJob(t *testing.T) {
	s := newTestStore(t)
	candidate := s.candidate(t, "c@teste.com", domain.EducationHighSchool)

	_, err := s.applications.Create(context.Background(), &domain.Application{
		JobID:                  404,
		CandidateID:            candidate.ID,
		SalaryExpectation:      decimal.NewFromInt(600),
		CandidateLastEducation: domain.EducationHighSchool,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApplicationRepository_ListByJobOrderedByScore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	company := s.company(t, "empresa@teste.com", "Empresa")
	job := s.job(t, company.ID, "Vaga", domain.SalaryBandFrom1KTo2K, domain.EducationUndergraduate, zeroTime)

	low := s.candidate(t, "low@teste.com", domain.EducationHighSchool)
	high := s.candidate(t, "high@teste.com", domain.EducationDoctorate)
	mid := s.candidate(t, "mid@teste.com", domain.EducationDoctorate)
	s.apply(t, job.ID, low.ID, "500", domain.EducationHighSchool, zeroTime)
	s.apply(t, job.ID, high.ID, "1200", domain.EducationDoctorate, zeroTime)
	s.apply(t, job.ID, mid.ID, "5000", domain.EducationDoctorate, zeroTime)

	apps, err := s.applications.ListByJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("ListByJob: %v", err)
	}
	if len(apps) != 3 {
		t.Fatalf("expected 3 applications, got %d", len(apps))
	}
	wantEmails := []string{"high@teste.com", "mid@teste.com", "low@teste.com"}
	for i, want := range wantEmails {
		if apps[i].CandidateEmail != want {
			t.Fatalf("position %d: got %s, want %s", i, apps[i].CandidateEmail, want)
		}
	}
}
