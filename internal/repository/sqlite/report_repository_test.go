package sqlite_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"jobboard/internal/domain"
)

func TestReportRepository_JobsPerMonth(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acme := s.company(t, "acme@teste.com", "Acme")
	other := s.company(t, "other@teste.com", "Other")
	s.job(t, acme.ID, "Vaga Jan", domain.SalaryBandUpTo1K, domain.EducationFundamental, month(2025, time.January, 15))
	s.job(t, acme.ID, "Vaga Jan", domain.SalaryBandUpTo1K, domain.EducationFundamental, month(2025, time.January, 20))
	s.job(t, other.ID, "Vaga Fev", domain.SalaryBandUpTo1K, domain.EducationFundamental, month(2025, time.February, 10))

	got, err := s.reports.JobsPerMonth(ctx, 0)
	if err != nil {
		t.Fatalf("JobsPerMonth: %v", err)
	}
	want := []domain.MonthCount{{Month: "2025-01", Count: 2}, {Month: "2025-02", Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	got, err = s.reports.JobsPerMonth(ctx, other.ID)
	if err != nil {
		t.Fatalf("JobsPerMonth scoped: %v", err)
	}
	want = []domain.MonthCount{{Month: "2025-02", Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("scoped: got %v, want %v", got, want)
	}
}

func TestReportRepository_ApplicationsAndCandidatesPerMonth(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	company := s.company(t, "acme@teste.com", "Acme")
	job1 := s.job(t, company.ID, "Vaga 1", domain.SalaryBandFrom1KTo2K, domain.EducationUndergraduate, month(2024, time.December, 1))
	job2 := s.job(t, company.ID, "Vaga 2", domain.SalaryBandFrom1KTo2K, domain.EducationUndergraduate, month(2024, time.December, 2))

	jan := s.candidate(t, "jan@teste.com", domain.EducationHighSchool)
	feb := s.candidate(t, "feb@teste.com", domain.EducationUndergraduate)
	s.apply(t, job1.ID, jan.ID, "1200", domain.EducationHighSchool, month(2025, time.January, 10))
	s.apply(t, job2.ID, jan.ID, "1200", domain.EducationHighSchool, month(2025, time.January, 11))
	s.apply(t, job1.ID, feb.ID, "1500", domain.EducationUndergraduate, month(2025, time.February, 5))

	apps, err := s.reports.ApplicationsPerMonth(ctx, 0)
	if err != nil {
		t.Fatalf("ApplicationsPerMonth: %v", err)
	}
	if want := []domain.MonthCount{{Month: "2025-01", Count: 2}, {Month: "2025-02", Count: 1}}; !reflect.DeepEqual(apps, want) {
		t.Fatalf("applications: got %v, want %v", apps, want)
	}

	candidates, err := s.reports.CandidatesPerMonth(ctx, company.ID)
	if err != nil {
		t.Fatalf("CandidatesPerMonth: %v", err)
	}
	if want := []domain.MonthCount{{Month: "2025-01", Count: 1}, {Month: "2025-02", Count: 1}}; !reflect.DeepEqual(candidates, want) {
		t.Fatalf("candidates: got %v, want %v", candidates, want)
	}
}

func TestReportRepository_Empty(t *testing.T) {
	s := newTestStore(t)
	got, err := s.reports.ApplicationsPerMonth(context.Background(), 0)
	if err != nil {
		t.Fatalf("ApplicationsPerMonth: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}
