package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"jobboard/internal/domain"
	"jobboard/internal/service"
)

func TestJobCreate_Validation(t *testing.T) {
	s := newServices(t)
	company := s.company(t, "acme@test.com", "Acme")

	_, err := s.jobs.Create(context.Background(), company.Company.ID, service.JobInput{
		Title:        strings.Repeat("x", 256),
		SalaryBand:   7,
		Requirements: "   ",
		MinEducation: 0,
	})
	v := fieldErrors(t, err)
	for _, field := range []string{"title", "salary_band", "requirements", "min_education"} {
		if !v.Has(field) {
			t.Errorf("expected error on %s, got %v", field, v.Fields)
		}
	}
}

func TestJobCreate_ReturnsCompanyName(t *testing.T) {
	s := newServices(t)
	company := s.company(t, "acme@test.com", "Acme")

	job := s.job(t, company, "  Engineer  ", domain.SalaryBandAbove3K, domain.EducationUndergraduate)
	if job.Title != "Engineer" {
		t.Fatalf("expected trimmed title, got %q", job.Title)
	}
	if job.CompanyName != "Acme" {
		t.Fatalf("expected company name, got %q", job.CompanyName)
	}
}

func TestJobUpdateDelete_OwnerOnly(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	owner := s.company(t, "owner@test.com", "Owner")
	other := s.company(t, "other@test.com", "Other")
	job := s.job(t, owner, "Engineer", domain.SalaryBandAbove3K, domain.EducationUndergraduate)

	in := service.JobInput{
		Title:        "Senior Engineer",
		SalaryBand:   domain.SalaryBandAbove3K,
		Requirements: "Go",
		MinEducation: domain.EducationUndergraduate,
	}
	if _, err := s.jobs.Update(ctx, other.Company.ID, job.ID, in); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign update, got %v", err)
	}
	if err := s.jobs.Delete(ctx, other.Company.ID, job.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign delete, got %v", err)
	}

	updated, err := s.jobs.Update(ctx, owner.Company.ID, job.ID, in)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Senior Engineer" {
		t.Fatalf("expected updated title, got %q", updated.Title)
	}

	if err := s.jobs.Delete(ctx, owner.Company.ID, job.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.jobs.Get(ctx, job.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected job gone, got %v", err)
	}
}

func TestJobListForCompany(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	a := s.company(t, "a@test.com", "A")
	b := s.company(t, "b@test.com", "B")
	s.job(t, a, "One", domain.SalaryBandUpTo1K, domain.EducationFundamental)
	s.job(t, a, "Two", domain.SalaryBandUpTo1K, domain.EducationFundamental)
	s.job(t, b, "Three", domain.SalaryBandUpTo1K, domain.EducationFundamental)

	all, err := s.jobs.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(all))
	}

	mine, err := s.jobs.ListForCompany(ctx, a.Company.ID)
	if err != nil {
		t.Fatalf("ListForCompany: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(mine))
	}
	for _, job := range mine {
		if job.CompanyID != a.Company.ID {
			t.Fatalf("foreign job %d in company listing", job.ID)
		}
	}
}

func TestJobDetail_PerViewer(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	owner := s.company(t, "owner@test.com", "Owner")
	other := s.company(t, "other@test.com", "Other")
	strong := s.candidate(t, "strong@test.com", domain.EducationUndergraduate)
	weak := s.candidate(t, "weak@test.com", domain.EducationFundamental)
	job := s.job(t, owner, "Analyst", domain.SalaryBandFrom2KTo3K, domain.EducationUndergraduate)

	apply := func(c *domain.Account, salary string) {
		t.Helper()
		_, err := s.applications.Apply(ctx, job.ID, c.Candidate, service.ApplicationInput{
			SalaryExpectation: decimal.RequireFromString(salary),
			LastEducation:     c.Candidate.LastEducation,
		})
		if err != nil {
			t.Fatalf("Apply: %v", err)
		}
	}
	apply(weak, "5000")
	apply(strong, "2500")

	detail, err := s.jobs.Detail(ctx, job.ID, owner)
	if err != nil {
		t.Fatalf("Detail owner: %v", err)
	}
	if !detail.IsOwner || len(detail.Applications) != 2 {
		t.Fatalf("expected owner view with 2 applications, got %+v", detail)
	}
	if detail.Applications[0].Score != 2 || detail.Applications[1].Score != 0 {
		t.Fatalf("expected applications ordered by score, got %d then %d",
			detail.Applications[0].Score, detail.Applications[1].Score)
	}
	if detail.HasApplied != nil {
		t.Fatalf("company views carry no applied flag")
	}

	detail, err = s.jobs.Detail(ctx, job.ID, other)
	if err != nil {
		t.Fatalf("Detail other: %v", err)
	}
	if detail.IsOwner || detail.Applications != nil {
		t.Fatalf("foreign company must not see applications")
	}

	detail, err = s.jobs.Detail(ctx, job.ID, strong)
	if err != nil {
		t.Fatalf("Detail candidate: %v", err)
	}
	if detail.HasApplied == nil || !*detail.HasApplied {
		t.Fatalf("expected candidate to have applied")
	}

	detail, err = s.jobs.Detail(ctx, job.ID, nil)
	if err != nil {
		t.Fatalf("Detail anonymous: %v", err)
	}
	if detail.IsOwner || detail.HasApplied != nil || detail.Applications != nil {
		t.Fatalf("anonymous view leaked data: %+v", detail)
	}
}

func TestJobUpdate_RescoresApplications(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	owner := s.company(t, "owner@test.com", "Owner")
	cand := s.candidate(t, "cand@test.com", domain.EducationHighSchool)
	job := s.job(t, owner, "Clerk", domain.SalaryBandUpTo1K, domain.EducationHighSchool)

	if _, err := s.applications.Apply(ctx, job.ID, cand.Candidate, service.ApplicationInput{
		SalaryExpectation: decimal.RequireFromString("900"),
		LastEducation:     domain.EducationHighSchool,
	}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if _, err := s.jobs.Update(ctx, owner.Company.ID, job.ID, service.JobInput{
		Title:        "Clerk",
		SalaryBand:   domain.SalaryBandAbove3K,
		Requirements: "Typing",
		MinEducation: domain.EducationDoctorate,
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	detail, err := s.jobs.Detail(ctx, job.ID, owner)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if got := detail.Applications[0].Score; got != 0 {
		t.Fatalf("expected rescored application to drop to 0, got %d", got)
	}
}
