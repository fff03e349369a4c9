package repository

import (
	"context"

	"jobboard/internal/domain"
)

// JobRepository exposes persistence operations for job postings.
type JobRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, job *domain.Job) (int64, error)
	// Update persists the job and rescores its applications.
	Update(ctx context.Context, job *domain.Job) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.Job, error)
	List(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error)
}

// ApplicationRepository stores candidate applications. Scores are computed on write.
type ApplicationRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, app *domain.Application) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Application, error)
	ListByJob(ctx context.Context, jobID int64) ([]domain.Application, error)
	Exists(ctx context.Context, jobID, candidateID int64) (bool, error)
}
