package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"jobboard/internal/domain"
	"jobboard/internal/repository/sqlite"
	"jobboard/internal/service"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type services struct {
	accounts     service.AccountService
	jobs         service.JobService
	applications service.ApplicationService
	reports      service.ReportService
	exports      service.ExportService
}

func newServices(t *testing.T) *services {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "service.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	users := sqlite.NewUserRepository(db)
	companies := sqlite.NewCompanyRepository(db)
	candidates := sqlite.NewCandidateRepository(db)
	jobs := sqlite.NewJobRepository(db)
	apps := sqlite.NewApplicationRepository(db)
	exports := sqlite.NewExportRepository(db)
	if err := sqlite.InitAll(context.Background(), users, companies, candidates, jobs, apps, exports); err != nil {
		t.Fatalf("InitAll: %v", err)
	}

	return &services{
		accounts: service.NewAccountService(users, companies, candidates, sqlite.NewAccountRepository(db), service.AccountConfig{
			JWTSecret:  testSecret,
			TokenTTL:   time.Hour,
			BcryptCost: 4,
		}),
		jobs:         service.NewJobService(jobs, apps),
		applications: service.NewApplicationService(jobs, apps),
		reports:      service.NewReportService(sqlite.NewReportRepository(db)),
		exports:      service.NewExportService(exports),
	}
}

func (s *services) company(t *testing.T, email, name string) *domain.Account {
	t.Helper()
	account, err := s.accounts.SignUpCompany(context.Background(), service.CompanySignUp{
		Email:     email,
		Password:  "StrongPass!123",
		Password2: "StrongPass!123",
		Name:      name,
	})
	if err != nil {
		t.Fatalf("SignUpCompany: %v", err)
	}
	return account
}

func (s *services) candidate(t *testing.T, email string, education domain.Education) *domain.Account {
	t.Helper()
	account, err := s.accounts.SignUpCandidate(context.Background(), service.CandidateSignUp{
		Email:         email,
		Password:      "StrongPass!123",
		Password2:     "StrongPass!123",
		LastEducation: education,
		Experience:    "Five years in logistics",
	})
	if err != nil {
		t.Fatalf("SignUpCandidate: %v", err)
	}
	return account
}

func (s *services) job(t *testing.T, company *domain.Account, title string, band domain.SalaryBand, min domain.Education) *domain.Job {
	t.Helper()
	job, err := s.jobs.Create(context.Background(), company.Company.ID, service.JobInput{
		Title:        title,
		SalaryBand:   band,
		Requirements: "Be kind",
		MinEducation: min,
	})
	if err != nil {
		t.Fatalf("Create job: %v", err)
	}
	return job
}

func fieldErrors(t *testing.T, err error) *domain.ValidationError {
	t.Helper()
	var v *domain.ValidationError
	if !errors.As(err, &v) {
		t.Fatalf("expected validation error, got %v", err)
	}
	return v
}
