package repository

import (
	"context"
	"time"

	"jobboard/internal/domain"
)

// ReportRepository runs monthly aggregations. A zero companyID aggregates every company.
type ReportRepository interface {
	JobsPerMonth(ctx context.Context, companyID int64) ([]domain.MonthCount, error)
	ApplicationsPerMonth(ctx context.Context, companyID int64) ([]domain.MonthCount, error)
	CandidatesPerMonth(ctx context.Context, companyID int64) ([]domain.MonthCount, error)
}

// ExportRepository tracks report export jobs.
type ExportRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, export *domain.ReportExport) (int64, error)
	Get(ctx context.Context, id int64) (*domain.ReportExport, error)
	ListByCompany(ctx context.Context, companyID int64) ([]domain.ReportExport, error)
	ListByStatuses(ctx context.Context, statuses ...domain.ExportStatus) ([]domain.ReportExport, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ExportStatus, errorMessage *string) error
	MarkCompleted(ctx context.Context, id int64, location string, completedAt time.Time) error
	Delete(ctx context.Context, id int64) error
}
