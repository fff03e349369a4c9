package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"jobboard/internal/domain"
	"jobboard/internal/repository"
)

const maxTitleLength = 255

// JobInput is the editable part of a job posting.
type JobInput struct {
	Title        string
	SalaryBand   domain.SalaryBand
	Requirements string
	MinEducation domain.Education
}

// JobDetail is a job as seen by a particular viewer. Applications are only
// present for the owning company; HasApplied only for candidates.
type JobDetail struct {
	Job          domain.Job
	IsOwner      bool
	Applications []domain.Application
	HasApplied   *bool
}

// JobService manages job postings on behalf of companies.
type JobService interface {
	Create(ctx context.Context, companyID int64, in JobInput) (*domain.Job, error)
	Update(ctx context.Context, companyID, jobID int64, in JobInput) (*domain.Job, error)
	Delete(ctx context.Context, companyID, jobID int64) error
	Get(ctx context.Context, jobID int64) (*domain.Job, error)
	List(ctx context.Context) ([]domain.Job, error)
	ListForCompany(ctx context.Context, companyID int64) ([]domain.Job, error)
	Detail(ctx context.Context, jobID int64, viewer *domain.Account) (*JobDetail, error)
}

type jobService struct {
	jobs         repository.JobRepository
	applications repository.ApplicationRepository
}

func NewJobService(jobs repository.JobRepository, applications repository.ApplicationRepository) JobService {
	return &jobService{
		jobs:         jobs,
		applications: applications,
	}
}

func (in *JobInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Requirements = strings.TrimSpace(in.Requirements)
}

func (in JobInput) validate() error {
	v := domain.NewValidationError()
	switch {
	case in.Title == "":
		v.Add("title", "This field is required.")
	case utf8.RuneCountInString(in.Title) > maxTitleLength:
		v.Add("title", fmt.Sprintf("Ensure this value has at most %d characters.", maxTitleLength))
	}
	if !in.SalaryBand.Valid() {
		v.Add("salary_band", "Select a valid choice.")
	}
	if in.Requirements == "" {
		v.Add("requirements", "This field is required.")
	}
	if !in.MinEducation.Valid() {
		v.Add("min_education", "Select a valid choice.")
	}
	return v.OrNil()
}

func (s *jobService) Create(ctx context.Context, companyID int64, in JobInput) (*domain.Job, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	job := &domain.Job{
		CompanyID:    companyID,
		Title:        in.Title,
		SalaryBand:   in.SalaryBand,
		Requirements: in.Requirements,
		MinEducation: in.MinEducation,
	}
	if _, err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	return s.jobs.Get(ctx, job.ID)
}

func (s *jobService) Update(ctx context.Context, companyID, jobID int64, in JobInput) (*domain.Job, error) {
	job, err := s.owned(ctx, companyID, jobID)
	if err != nil {
		return nil, err
	}

	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	job.Title = in.Title
	job.SalaryBand = in.SalaryBand
	job.Requirements = in.Requirements
	job.MinEducation = in.MinEducation
	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, err
	}
	return s.jobs.Get(ctx, job.ID)
}

func (s *jobService) Delete(ctx context.Context, companyID, jobID int64) error {
	if _, err := s.owned(ctx, companyID, jobID); err != nil {
		return err
	}
	return s.jobs.Delete(ctx, jobID)
}

// owned loads a job only if it belongs to the company; other companies' jobs look missing.
func (s *jobService) owned(ctx context.Context, companyID, jobID int64) (*domain.Job, error) {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.CompanyID != companyID {
		return nil, fmt.Errorf("job %d: %w", jobID, domain.ErrNotFound)
	}
	return job, nil
}

func (s *jobService) Get(ctx context.Context, jobID int64) (*domain.Job, error) {
	return s.jobs.Get(ctx, jobID)
}

func (s *jobService) List(ctx context.Context) ([]domain.Job, error) {
	return s.jobs.List(ctx, domain.JobFilter{})
}

func (s *jobService) ListForCompany(ctx context.Context, companyID int64) ([]domain.Job, error) {
	if companyID == 0 {
		return nil, errors.New("company id is required")
	}
	return s.jobs.List(ctx, domain.JobFilter{CompanyID: companyID})
}

func (s *jobService) Detail(ctx context.Context, jobID int64, viewer *domain.Account) (*JobDetail, error) {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	detail := &JobDetail{Job: *job}

	if viewer.IsCompany() && viewer.Company.ID == job.CompanyID {
		apps, err := s.applications.ListByJob(ctx, job.ID)
		if err != nil {
			return nil, err
		}
		detail.IsOwner = true
		detail.Applications = apps
	}

	if viewer.IsCandidate() {
		applied, err := s.applications.Exists(ctx, job.ID, viewer.Candidate.ID)
		if err != nil {
			return nil, err
		}
		detail.HasApplied = &applied
	}

	return detail, nil
}
