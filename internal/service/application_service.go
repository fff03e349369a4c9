package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"jobboard/internal/domain"
	"jobboard/internal/repository"
)

// Salary expectations are stored with at most 10 digits, 2 of them decimals.
const (
	salaryMaxDigits   = 10
	salaryMaxDecimals = 2
)

var salaryCeiling = decimal.New(1, salaryMaxDigits-salaryMaxDecimals)

// ApplicationInput is what a candidate submits. Education and experience start
// from the profile but may be edited before submitting.
type ApplicationInput struct {
	SalaryExpectation decimal.Decimal
	LastEducation     domain.Education
	Experience        string
}

// ApplicationService lets candidates apply to jobs.
type ApplicationService interface {
	Prefill(ctx context.Context, jobID int64, candidate *domain.Candidate) (*ApplicationInput, error)
	Apply(ctx context.Context, jobID int64, candidate *domain.Candidate, in ApplicationInput) (*domain.Application, error)
}

type applicationService struct {
	jobs         repository.JobRepository
	applications repository.ApplicationRepository
}

func NewApplicationService(jobs repository.JobRepository, applications repository.ApplicationRepository) ApplicationService {
	return &applicationService{
		jobs:         jobs,
		applications: applications,
	}
}

// Prefill returns the initial form values for a new application.
func (s *applicationService) Prefill(ctx context.Context, jobID int64, candidate *domain.Candidate) (*ApplicationInput, error) {
	if _, err := s.jobs.Get(ctx, jobID); err != nil {
		return nil, err
	}
	applied, err := s.applications.Exists(ctx, jobID, candidate.ID)
	if err != nil {
		return nil, err
	}
	if applied {
		return nil, fmt.Errorf("job %d: %w", jobID, domain.ErrAlreadyApplied)
	}
	return &ApplicationInput{
		LastEducation: candidate.LastEducation,
		Experience:    candidate.Experience,
	}, nil
}

func (s *applicationService) Apply(ctx context.Context, jobID int64, candidate *domain.Candidate, in ApplicationInput) (*domain.Application, error) {
	if _, err := s.jobs.Get(ctx, jobID); err != nil {
		return nil, err
	}

	in.Experience = strings.TrimSpace(in.Experience)
	if err := in.validate(); err != nil {
		return nil, err
	}

	app := &domain.Application{
		JobID:                  jobID,
		CandidateID:            candidate.ID,
		SalaryExpectation:      in.SalaryExpectation,
		CandidateLastEducation: in.LastEducation,
		CandidateExperience:    in.Experience,
	}
	if _, err := s.applications.Create(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (in ApplicationInput) validate() error {
	v := domain.NewValidationError()

	salary := in.SalaryExpectation
	switch {
	case salary.IsNegative():
		v.Add("salary_expectation", "Ensure this value is greater than or equal to 0.")
	case !salary.Equal(salary.Truncate(salaryMaxDecimals)):
		v.Add("salary_expectation", fmt.Sprintf("Ensure that there are no more than %d decimal places.", salaryMaxDecimals))
	case salary.GreaterThanOrEqual(salaryCeiling):
		v.Add("salary_expectation", fmt.Sprintf("Ensure that there are no more than %d digits before the decimal point.", salaryMaxDigits-salaryMaxDecimals))
	}

	if !in.LastEducation.Valid() {
		v.Add("candidate_last_education", "Select a valid choice.")
	}
	return v.OrNil()
}
